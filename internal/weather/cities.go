package weather

// City is a preset location selectable by name instead of coordinates.
type City struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var presetCities = []City{
	{"Delhi", 28.6139, 77.2090},
	{"Mumbai", 19.0760, 72.8777},
	{"Bangalore", 12.9716, 77.5946},
	{"Chennai", 13.0827, 80.2707},
	{"Hyderabad", 17.3850, 78.4867},
	{"Kolkata", 22.5726, 88.3639},
}

// Cities returns the preset city list.
func Cities() []City {
	out := make([]City, len(presetCities))
	copy(out, presetCities)
	return out
}

// Coordinates looks up a preset city by name.
func Coordinates(name string) (lat, lon float64, ok bool) {
	for _, c := range presetCities {
		if c.Name == name {
			return c.Latitude, c.Longitude, true
		}
	}
	return 0, 0, false
}
