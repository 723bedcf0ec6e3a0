package game

import (
	"errors"
	"testing"
)

func TestCanClaim(t *testing.T) {
	at := Vec3{X: 10, Z: 10}
	cases := []struct {
		name   string
		target claimable
		want   error
	}{
		{"neutral in reach", claimable{owner: OwnerNeutral, pos: Vec3{X: 12, Z: 10}, claimRadius: 5}, nil},
		{"destroyed", claimable{owner: OwnerNeutral, destroyed: true, pos: at, claimRadius: 5}, ErrDestroyed},
		{"own structure", claimable{owner: 0, pos: at, claimRadius: 5}, ErrAlreadyOwned},
		{"enemy structure", claimable{owner: 1, pos: at, claimRadius: 5}, ErrEnemyOwned},
		{"out of reach", claimable{owner: OwnerNeutral, pos: Vec3{X: 30, Z: 10}, claimRadius: 5}, ErrOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := canClaim(0, at, tc.target); !errors.Is(err, tc.want) {
				t.Fatalf("canClaim = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCanPurchase(t *testing.T) {
	zone := &BuyZone{ID: "z", Owner: 0, Cost: 80}

	if err := canPurchase(0, 100, zone); err != nil {
		t.Fatalf("affordable owned zone rejected: %v", err)
	}
	if err := canPurchase(1, 100, zone); !errors.Is(err, ErrNotZoneOwner) {
		t.Fatalf("error = %v, want ErrNotZoneOwner", err)
	}
	if err := canPurchase(0, 79.99, zone); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}
	if err := canPurchase(0, 100, nil); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("error = %v, want ErrUnknownTarget", err)
	}
}
