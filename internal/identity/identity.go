// Package identity consumes the external identity collaborator. Login,
// OAuth redirects, and logout live outside this server; every connection
// arrives here already reduced to a stable identity.
package identity

import (
	"net/http"

	"github.com/google/uuid"
)

// Identity is the per-connection resolution the rest of the server consumes.
type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	IsGuest     bool   `json:"isGuest"`
}

// Resolver turns an upgrade request into an identity. Implementations may
// consult session cookies, reverse-proxy headers, or an upstream service.
type Resolver interface {
	Resolve(r *http.Request) (Identity, error)
}

// HeaderResolver trusts identity headers injected by the fronting auth
// gateway and provisions a guest identity when they are absent.
type HeaderResolver struct{}

func (HeaderResolver) Resolve(r *http.Request) (Identity, error) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		userID = r.URL.Query().Get("userId")
	}
	name := r.Header.Get("X-Display-Name")
	if name == "" {
		name = r.URL.Query().Get("name")
	}

	if userID == "" {
		guest := uuid.NewString()
		if name == "" {
			name = "guest-" + guest[:8]
		}
		return Identity{UserID: "guest-" + guest, DisplayName: name, IsGuest: true}, nil
	}
	if name == "" {
		name = userID
	}
	return Identity{
		UserID:      userID,
		DisplayName: name,
		AvatarURL:   r.Header.Get("X-Avatar-Url"),
	}, nil
}
