package domain

// Stop is a point of interest discovered along a route.
// Name is never empty; duplicates (same name, or a different name within a
// small distance of an existing stop) are suppressed within one generation
// run by the sampler.
type Stop struct {
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
	Category   string     `json:"category"`
	Rating     *float64   `json:"rating,omitempty"` // nil when the provider has no rating
	PhotoRefs  []string   `json:"photo_refs,omitempty"`
}
