package elasticity

import (
	"math"
	"sort"

	"elastiplot/internal/errors"
)

// Summarize aggregates observations per meat type, in mapping order. Meat
// types with no observations are omitted. Summarizing zero observations is an
// explicit empty-result state rather than a downstream NaN.
func Summarize(observations []ObservationRecord, mapping MeatMapping) ([]SummaryRecord, error) {
	if len(observations) == 0 {
		return nil, errors.NewEmptyResultError("no observations to summarize")
	}

	groups := make(map[string][]ObservationRecord, len(mapping))
	for _, obs := range observations {
		groups[obs.MeatType] = append(groups[obs.MeatType], obs)
	}

	summaries := make([]SummaryRecord, 0, len(mapping))
	for _, label := range mapping.Labels() {
		group := groups[label]
		if len(group) == 0 {
			continue
		}
		summaries = append(summaries, summarizeGroup(label, group))
	}

	return summaries, nil
}

func summarizeGroup(label string, group []ObservationRecord) SummaryRecord {
	values := make([]float64, len(group))
	nWithSE := 0
	for i, obs := range group {
		values[i] = obs.Elasticity
		if obs.HasSE {
			nWithSE++
		}
	}

	sort.Float64s(values)

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return SummaryRecord{
		MeatType:         label,
		NStudies:         len(group),
		NWithSE:          nWithSE,
		MeanElasticity:   round3(sum / float64(len(values))),
		MedianElasticity: round3(median(values)),
		MinElasticity:    round3(values[0]),
		MaxElasticity:    round3(values[len(values)-1]),
	}
}

// ListMissingSE returns the observations lacking a standard error, sorted
// ascending by (meat type, study label) for stable, scannable output.
func ListMissingSE(observations []ObservationRecord) []ObservationRecord {
	missing := make([]ObservationRecord, 0)
	for _, obs := range observations {
		if !obs.HasSE {
			missing = append(missing, obs)
		}
	}

	sort.Slice(missing, func(i, j int) bool {
		if missing[i].MeatType != missing[j].MeatType {
			return missing[i].MeatType < missing[j].MeatType
		}
		return missing[i].StudyLabel < missing[j].StudyLabel
	})

	return missing
}

// median expects values to be sorted.
func median(values []float64) float64 {
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
