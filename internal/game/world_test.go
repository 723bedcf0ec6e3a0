package game

import "testing"

func TestMapByIDFallsBackToDefault(t *testing.T) {
	def := MapByID("no-such-map")
	if def.Name != DefaultMapID {
		t.Fatalf("fallback map = %q, want %q", def.Name, DefaultMapID)
	}
	if MapByID("").Name != DefaultMapID {
		t.Fatalf("empty id should fall back to the default map")
	}
}

func TestMapCatalogLayoutsAreSane(t *testing.T) {
	for _, id := range MapIDs() {
		def := MapByID(id)
		if def.Name != id {
			t.Fatalf("map %q reports name %q", id, def.Name)
		}
		if def.Width <= 0 || def.Depth <= 0 {
			t.Fatalf("map %q has degenerate bounds %vx%v", id, def.Width, def.Depth)
		}
		for slot := 0; slot < 2; slot++ {
			for _, pos := range []Vec3{def.Spawns[slot], def.Cores[slot]} {
				if pos.X < 0 || pos.X > def.Width || pos.Z < 0 || pos.Z > def.Depth {
					t.Fatalf("map %q slot %d position %+v outside bounds", id, slot, pos)
				}
			}
		}
		for slot := 0; slot < 2; slot++ {
			owned := 0
			for _, zone := range def.BuyZones {
				if zone.Owner == slot {
					owned++
				}
			}
			if owned == 0 {
				t.Fatalf("map %q gives slot %d no starting buy zone", id, slot)
			}
		}
		for _, zone := range def.BuyZones {
			if StatsFor(zone.UnitType).MaxHealth <= 0 || zone.Cost <= 0 {
				t.Fatalf("map %q zone %+v has bad tuning", id, zone)
			}
		}
	}
}

func TestCircleBoxOverlap(t *testing.T) {
	box := Obstacle{X: 10, Z: 10, Width: 10, Depth: 10}

	if !circleBoxOverlap(15, 15, 1, box) {
		t.Fatalf("center inside box not detected")
	}
	if !circleBoxOverlap(9.5, 15, 1, box) {
		t.Fatalf("edge touch not detected")
	}
	if circleBoxOverlap(5, 5, 1, box) {
		t.Fatalf("distant circle reported overlapping")
	}
}

func TestStatsForUnknownTypeFallsBack(t *testing.T) {
	if StatsFor("no-such-unit") != unitStatsTable[UnitPlayer] {
		t.Fatalf("unknown unit type should use the player entry")
	}
}
