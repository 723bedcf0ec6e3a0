package game

import "math"

// Obstacle types. Walls block horizontal movement; ramps raise effective
// elevation without blocking.
const (
	ObstacleWall = "wall"
	ObstacleRamp = "ramp"
)

// Obstacle is a static axis-aligned box on the x/z plane. Immutable for the
// lifetime of a match.
type Obstacle struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// BuyZoneDef places a purchasable unit pad on the map.
type BuyZoneDef struct {
	X        float64
	Z        float64
	Radius   float64
	UnitType UnitType
	Cost     float64
	Owner    int
}

// StructureDef places a turret or barracks.
type StructureDef struct {
	X           float64
	Z           float64
	ClaimRadius float64
	Owner       int
}

// MapDef is a complete arena layout. The catalog below is fixed; unknown ids
// requested by clients fall back to the default map.
type MapDef struct {
	Name      string
	Width     float64
	Depth     float64
	Spawns    [2]Vec3
	Cores     [2]Vec3
	Obstacles []Obstacle
	BuyZones  []BuyZoneDef
	Turrets   []StructureDef
	Barracks  []StructureDef
}

// Vec3 is a world position. Y is elevation.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

const DefaultMapID = "classic"

var mapCatalog = map[string]func() MapDef{
	"classic":   classicMap,
	"crossfire": crossfireMap,
}

// MapByID resolves a map id against the catalog, falling back to the default
// layout for unknown ids.
func MapByID(id string) MapDef {
	if build, ok := mapCatalog[id]; ok {
		return build()
	}
	return mapCatalog[DefaultMapID]()
}

// MapIDs lists the catalog keys, for lobby display.
func MapIDs() []string {
	ids := make([]string, 0, len(mapCatalog))
	for id := range mapCatalog {
		ids = append(ids, id)
	}
	return ids
}

func classicMap() MapDef {
	return MapDef{
		Name:   "classic",
		Width:  200,
		Depth:  140,
		Spawns: [2]Vec3{{X: 20, Z: 70}, {X: 180, Z: 70}},
		Cores:  [2]Vec3{{X: 10, Z: 70}, {X: 190, Z: 70}},
		Obstacles: []Obstacle{
			{ID: "wall-1", Type: ObstacleWall, X: 60, Z: 30, Width: 10, Depth: 40, Height: 6},
			{ID: "wall-2", Type: ObstacleWall, X: 130, Z: 70, Width: 10, Depth: 40, Height: 6},
			{ID: "wall-3", Type: ObstacleWall, X: 95, Z: 10, Width: 10, Depth: 25, Height: 6},
			{ID: "ramp-1", Type: ObstacleRamp, X: 90, Z: 60, Width: 20, Depth: 20, Height: 4},
		},
		BuyZones: []BuyZoneDef{
			{X: 35, Z: 40, Radius: 8, UnitType: UnitTank, Cost: 80, Owner: 0},
			{X: 35, Z: 100, Radius: 8, UnitType: UnitSniper, Cost: 120, Owner: 0},
			{X: 165, Z: 40, Radius: 8, UnitType: UnitTank, Cost: 80, Owner: 1},
			{X: 165, Z: 100, Radius: 8, UnitType: UnitSniper, Cost: 120, Owner: 1},
			{X: 100, Z: 30, Radius: 8, UnitType: UnitSuperTank, Cost: 300, Owner: OwnerNeutral},
			{X: 100, Z: 110, Radius: 8, UnitType: UnitSuperHelicopter, Cost: 350, Owner: OwnerNeutral},
			{X: 100, Z: 70, Radius: 8, UnitType: UnitRocketLauncher, Cost: 200, Owner: OwnerNeutral},
		},
		Turrets: []StructureDef{
			{X: 70, Z: 70, ClaimRadius: structureClaimReach, Owner: OwnerNeutral},
			{X: 130, Z: 20, ClaimRadius: structureClaimReach, Owner: OwnerNeutral},
		},
		Barracks: []StructureDef{
			{X: 50, Z: 70, ClaimRadius: structureClaimReach, Owner: OwnerNeutral},
			{X: 150, Z: 70, ClaimRadius: structureClaimReach, Owner: OwnerNeutral},
		},
	}
}

func crossfireMap() MapDef {
	return MapDef{
		Name:   "crossfire",
		Width:  160,
		Depth:  160,
		Spawns: [2]Vec3{{X: 20, Z: 20}, {X: 140, Z: 140}},
		Cores:  [2]Vec3{{X: 12, Z: 12}, {X: 148, Z: 148}},
		Obstacles: []Obstacle{
			{ID: "wall-1", Type: ObstacleWall, X: 70, Z: 40, Width: 20, Depth: 8, Height: 6},
			{ID: "wall-2", Type: ObstacleWall, X: 70, Z: 112, Width: 20, Depth: 8, Height: 6},
			{ID: "wall-3", Type: ObstacleWall, X: 40, Z: 70, Width: 8, Depth: 20, Height: 6},
			{ID: "wall-4", Type: ObstacleWall, X: 112, Z: 70, Width: 8, Depth: 20, Height: 6},
			{ID: "ramp-1", Type: ObstacleRamp, X: 70, Z: 70, Width: 20, Depth: 20, Height: 5},
		},
		BuyZones: []BuyZoneDef{
			{X: 40, Z: 40, Radius: 8, UnitType: UnitTank, Cost: 80, Owner: 0},
			{X: 120, Z: 120, Radius: 8, UnitType: UnitTank, Cost: 80, Owner: 1},
			{X: 120, Z: 40, Radius: 8, UnitType: UnitAirplane, Cost: 150, Owner: OwnerNeutral},
			{X: 40, Z: 120, Radius: 8, UnitType: UnitAirplane, Cost: 150, Owner: OwnerNeutral},
			{X: 80, Z: 80, Radius: 8, UnitType: UnitSuperTank, Cost: 300, Owner: OwnerNeutral},
		},
		Turrets: []StructureDef{
			{X: 80, Z: 40, ClaimRadius: structureClaimReach, Owner: OwnerNeutral},
			{X: 80, Z: 120, ClaimRadius: structureClaimReach, Owner: OwnerNeutral},
		},
		Barracks: []StructureDef{
			{X: 40, Z: 80, ClaimRadius: structureClaimReach, Owner: OwnerNeutral},
			{X: 120, Z: 80, ClaimRadius: structureClaimReach, Owner: OwnerNeutral},
		},
	}
}

// circleBoxOverlap reports whether a circle on the x/z plane intersects an
// obstacle footprint.
func circleBoxOverlap(cx, cz, radius float64, obs Obstacle) bool {
	closestX := clamp(cx, obs.X, obs.X+obs.Width)
	closestZ := clamp(cz, obs.Z, obs.Z+obs.Depth)
	dx := cx - closestX
	dz := cz - closestZ
	return dx*dx+dz*dz < radius*radius
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func dist2D(ax, az, bx, bz float64) float64 {
	return math.Hypot(bx-ax, bz-az)
}
