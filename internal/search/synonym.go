package search

// Synonyms maps a normalised turf-trade term to the phrasings facilities
// commonly use in listings.
var Synonyms = map[string][]string{
	"greenkeeper":     {"greenkeeping", "groundsman", "groundskeeper"},
	"groundsman":      {"groundskeeper", "grounds staff", "greenkeeper"},
	"head groundsman": {"head greenkeeper", "grounds manager", "course manager"},
	"irrigation":      {"sprinkler", "watering system"},
	"spraying":        {"pesticide", "pa1", "pa6"},
	"machinery":       {"mechanic", "workshop", "mower technician"},
	"pitch":           {"sports turf", "stadium"},
}

func GetSynonyms(query string) []string {
	if query == "" {
		return []string{}
	}
	if v, ok := Synonyms[query]; ok {
		out := make([]string, 0, len(v))
		out = append(out, v...)
		return out
	}
	return []string{}
}
