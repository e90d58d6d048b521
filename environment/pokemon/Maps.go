package pokemon

import "fmt"

// MapID identifies an overworld map by its in-game map number
type MapID int

// Maps visited on the way to the first gym
const (
	PalletTown     MapID = 0x00
	ViridianCity   MapID = 0x01
	PewterCity     MapID = 0x02
	Route1         MapID = 0x0C
	Route2         MapID = 0x0D
	OaksLab        MapID = 0x28
	ViridianForest MapID = 0x33
	PewterGym      MapID = 0x36
)

var mapNames = map[MapID]string{
	PalletTown:     "PALLET_TOWN",
	ViridianCity:   "VIRIDIAN_CITY",
	PewterCity:     "PEWTER_CITY",
	Route1:         "ROUTE_1",
	Route2:         "ROUTE_2",
	OaksLab:        "OAKS_LAB",
	ViridianForest: "VIRIDIAN_FOREST",
	PewterGym:      "PEWTER_GYM",
}

func (m MapID) String() string {
	if name, ok := mapNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MAP_%#02x", int(m))
}
