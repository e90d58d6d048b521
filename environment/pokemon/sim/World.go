package sim

import "github.com/samuelfneumann/pokerl/environment/pokemon"

// rect is an axis-aligned block of tiles, inclusive on both corners
type rect struct {
	x0, y0, x1, y1 int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x0 && x <= r.x1 && y >= r.y0 && y <= r.y1
}

// area is a single map of the overworld. Walking past the top or bottom
// edge of an area leads to the area linked in that direction; stepping
// onto a door tile warps the player.
type area struct {
	width, height int

	walls []rect
	grass []rect
	doors map[[2]int]pokemon.Position

	north, south       pokemon.MapID
	hasNorth, hasSouth bool
}

func (a area) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < a.width && y < a.height
}

func (a area) wall(x, y int) bool {
	for _, r := range a.walls {
		if r.contains(x, y) {
			return true
		}
	}
	return false
}

func (a area) tallGrass(x, y int) bool {
	for _, r := range a.grass {
		if r.contains(x, y) {
			return true
		}
	}
	return false
}

// Every route between towns leaves a three tile gap in the top and
// bottom rows at columns 10 to 12.
var (
	topEdge    = []rect{{0, 0, 9, 0}, {13, 0, 19, 0}}
	bottomEdge = func(h int) []rect {
		return []rect{{0, h - 1, 9, h - 1}, {13, h - 1, 19, h - 1}}
	}
)

// Fixed tiles of interest
var (
	// Start is where every episode begins, next to the player's starter
	Start = pokemon.Position{Map: pokemon.OaksLab, X: 5, Y: 6}

	// Challenge is the tile in front of the gym leader
	Challenge = pokemon.Position{Map: pokemon.PewterGym, X: 5, Y: 2}
)

func world() map[pokemon.MapID]area {
	return map[pokemon.MapID]area{
		pokemon.OaksLab: {
			width: 10, height: 12,
			walls: []rect{{0, 0, 9, 1}, {1, 4, 3, 4}, {7, 4, 8, 4}},
			doors: map[[2]int]pokemon.Position{
				{5, 11}: {Map: pokemon.PalletTown, X: 12, Y: 12},
			},
		},
		pokemon.PalletTown: {
			width: 20, height: 18,
			walls: append([]rect{
				{3, 4, 7, 7}, {14, 4, 18, 7}, {10, 8, 15, 10},
				{0, 17, 19, 17},
			}, topEdge...),
			doors: map[[2]int]pokemon.Position{
				{12, 11}: {Map: pokemon.OaksLab, X: 5, Y: 10},
			},
			north: pokemon.Route1, hasNorth: true,
		},
		pokemon.Route1: {
			width: 20, height: 36,
			walls: append(append([]rect{{3, 20, 8, 20}, {14, 20, 19, 20}},
				topEdge...), bottomEdge(36)...),
			grass: []rect{{4, 24, 9, 30}, {12, 8, 17, 14}},
			north: pokemon.ViridianCity, hasNorth: true,
			south: pokemon.PalletTown, hasSouth: true,
		},
		pokemon.ViridianCity: {
			width: 20, height: 20,
			walls: append(append([]rect{{4, 5, 8, 9}, {13, 5, 17, 9}},
				topEdge...), bottomEdge(20)...),
			north: pokemon.Route2, hasNorth: true,
			south: pokemon.Route1, hasSouth: true,
		},
		pokemon.Route2: {
			width: 20, height: 30,
			walls: append(append([]rect{{0, 12, 6, 12}},
				topEdge...), bottomEdge(30)...),
			grass: []rect{{3, 4, 8, 10}, {13, 16, 18, 24}},
			north: pokemon.PewterCity, hasNorth: true,
			south: pokemon.ViridianCity, hasSouth: true,
		},
		pokemon.PewterCity: {
			width: 20, height: 20,
			walls: append([]rect{{0, 0, 19, 0}, {8, 3, 13, 6}},
				bottomEdge(20)...),
			doors: map[[2]int]pokemon.Position{
				{10, 7}: {Map: pokemon.PewterGym, X: 5, Y: 9},
			},
			south: pokemon.Route2, hasSouth: true,
		},
		pokemon.PewterGym: {
			width: 10, height: 11,
			walls: []rect{{0, 0, 9, 0}, {5, 1, 5, 1}, {2, 5, 3, 5},
				{7, 5, 8, 5}},
			doors: map[[2]int]pokemon.Position{
				{5, 10}: {Map: pokemon.PewterCity, X: 10, Y: 8},
			},
		},
	}
}
