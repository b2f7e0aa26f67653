// Package elasticity reshapes the wide study table into per-observation
// records with confidence intervals and aggregates them per meat type. All
// operations are pure functions over their inputs.
package elasticity

// CriticalValue is the normal-approximation multiplier for a 95% confidence
// interval.
const CriticalValue = 1.96

// MeatColumn binds one meat type to its input columns. The standard-error
// column is named explicitly rather than derived from the elasticity column:
// the published table spells one of them "chicke_se", so convention-based
// lookup would silently mis-bind it.
type MeatColumn struct {
	Key   string // elasticity column in the input table
	SEKey string // standard-error column, paired by this entry alone
	Label string // title-cased display label
}

// MeatMapping is the ordered meat-type configuration. Order is significant:
// summaries and plot facets follow it.
type MeatMapping []MeatColumn

// DefaultMeatMapping returns the mapping for the published dataset.
func DefaultMeatMapping() MeatMapping {
	return MeatMapping{
		{Key: "beef", SEKey: "beef_se", Label: "Beef"},
		{Key: "pork", SEKey: "pork_se", Label: "Pork"},
		{Key: "chicken", SEKey: "chicke_se", Label: "Chicken"},
		{Key: "fish", SEKey: "fish_se", Label: "Fish"},
	}
}

// Labels returns the display labels in mapping order.
func (m MeatMapping) Labels() []string {
	labels := make([]string, len(m))
	for i, col := range m {
		labels[i] = col.Label
	}
	return labels
}

// ObservationRecord is one study × meat type estimate. Elasticity is always
// present; rows with a missing elasticity are dropped during reshaping, not
// carried as nulls. StandardError, CILower and CIUpper are either all present
// or all absent, and HasSE mirrors their presence.
type ObservationRecord struct {
	StudyLabel    string
	MeatType      string
	Elasticity    float64
	StandardError *float64
	CILower       *float64
	CIUpper       *float64
	HasSE         bool
}

// SummaryRecord aggregates the observations of one meat type. All statistics
// are rounded to 3 decimal places.
type SummaryRecord struct {
	MeatType         string
	NStudies         int
	NWithSE          int
	MeanElasticity   float64
	MedianElasticity float64
	MinElasticity    float64
	MaxElasticity    float64
}
