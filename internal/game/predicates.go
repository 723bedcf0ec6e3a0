package game

import "errors"

// Validation failures surfaced to clients as error events. None of these may
// mutate match state or abort a tick.
var (
	ErrUnknownTarget     = errors.New("unknown target")
	ErrOutOfRange        = errors.New("out of claim range")
	ErrAlreadyOwned      = errors.New("already owned")
	ErrEnemyOwned        = errors.New("owned by the enemy")
	ErrDestroyed         = errors.New("structure destroyed")
	ErrNotZoneOwner      = errors.New("zone not owned")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrRespawning        = errors.New("unit respawning")
)

// claimable is the shared surface of turrets, buy zones, and barracks for the
// claim predicate.
type claimable struct {
	owner       int
	destroyed   bool
	pos         Vec3
	claimRadius float64
}

// canClaim decides whether slot may take ownership of a structure. Claims
// succeed only on neutral, intact structures within reach: an enemy-owned
// structure must first be demoted to neutral by combat — there is no direct
// steal.
func canClaim(slot int, from Vec3, target claimable) error {
	if target.destroyed {
		return ErrDestroyed
	}
	if target.owner == slot {
		return ErrAlreadyOwned
	}
	if target.owner != OwnerNeutral {
		return ErrEnemyOwned
	}
	if dist2D(from.X, from.Z, target.pos.X, target.pos.Z) > target.claimRadius {
		return ErrOutOfRange
	}
	return nil
}

// canPurchase decides whether slot may buy from a zone with the given funds.
func canPurchase(slot int, funds float64, zone *BuyZone) error {
	if zone == nil {
		return ErrUnknownTarget
	}
	if zone.Owner != slot {
		return ErrNotZoneOwner
	}
	if funds < zone.Cost {
		return ErrInsufficientFunds
	}
	return nil
}
