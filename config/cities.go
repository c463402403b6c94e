package config

// City describes one tracked city and the URL segments Otodom uses for it.
type City struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Voivodeship     string `json:"voivodeship"`
	VoivodeshipSlug string `json:"voivodeship_slug"`
	OtodomCitySlug  string `json:"otodom_city_slug"`
}

// TrackedCities is the directory of cities the application monitors.
var TrackedCities = []City{
	{
		ID:              1,
		Name:            "Ełk",
		Slug:            "elk",
		Voivodeship:     "warmińsko-mazurskie",
		VoivodeshipSlug: "warminsko--mazurskie",
		OtodomCitySlug:  "elcki/gmina-miejska--elk/elk",
	},
	{
		ID:              2,
		Name:            "Suwałki",
		Slug:            "suwalki",
		Voivodeship:     "podlaskie",
		VoivodeshipSlug: "podlaskie",
		OtodomCitySlug:  "suwalki/suwalki/suwalki",
	},
}

// GetCityBySlug returns the tracked city with the given slug.
func GetCityBySlug(slug string) *City {
	for i := range TrackedCities {
		if TrackedCities[i].Slug == slug {
			return &TrackedCities[i]
		}
	}
	return nil
}

// GetCityByID returns the tracked city with the given id.
func GetCityByID(id int64) *City {
	for i := range TrackedCities {
		if TrackedCities[i].ID == id {
			return &TrackedCities[i]
		}
	}
	return nil
}

// GetCityNames returns the names of all tracked cities.
func GetCityNames() []string {
	names := make([]string, len(TrackedCities))
	for i, city := range TrackedCities {
		names[i] = city.Name
	}
	return names
}
