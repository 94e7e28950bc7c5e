package contracts

// Canonical field names of a raw record. Loaders map source columns onto these.
const (
	FieldID          = "id"
	FieldSizeCM      = "size_cm"
	FieldWeightG     = "weight_g"
	FieldFinishScore = "finish_score"
)

// RawRecord is one loaded input row keyed by canonical field name.
// Values are whatever the source produced (string from CSV/HTML, float64/string/nil from JSON).
type RawRecord map[string]any
