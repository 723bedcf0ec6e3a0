package identity

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHeaderResolverTrustsGatewayHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("X-User-Id", "u42")
	req.Header.Set("X-Display-Name", "Alice")
	req.Header.Set("X-Avatar-Url", "https://cdn.example/alice.png")

	ident, err := HeaderResolver{}.Resolve(req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ident.UserID != "u42" || ident.DisplayName != "Alice" || ident.IsGuest {
		t.Fatalf("identity = %+v", ident)
	}
	if ident.AvatarURL != "https://cdn.example/alice.png" {
		t.Fatalf("avatar = %q", ident.AvatarURL)
	}
}

func TestHeaderResolverFallsBackToQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws?userId=u7&name=Bob", nil)

	ident, err := HeaderResolver{}.Resolve(req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ident.UserID != "u7" || ident.DisplayName != "Bob" {
		t.Fatalf("identity = %+v", ident)
	}
}

func TestHeaderResolverProvisionsGuests(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)

	ident, err := HeaderResolver{}.Resolve(req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !ident.IsGuest {
		t.Fatalf("anonymous connection not flagged as guest: %+v", ident)
	}
	if !strings.HasPrefix(ident.UserID, "guest-") || !strings.HasPrefix(ident.DisplayName, "guest-") {
		t.Fatalf("guest identity = %+v", ident)
	}

	second, _ := HeaderResolver{}.Resolve(req)
	if second.UserID == ident.UserID {
		t.Fatalf("guest ids must be unique per resolution")
	}
}

func TestHeaderResolverDefaultsNameToUserID(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("X-User-Id", "u9")

	ident, _ := HeaderResolver{}.Resolve(req)
	if ident.DisplayName != "u9" {
		t.Fatalf("display name = %q, want the user id", ident.DisplayName)
	}
}
