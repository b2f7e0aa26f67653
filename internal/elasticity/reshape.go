package elasticity

import (
	"fmt"

	"elastiplot/internal/dataset"
	"elastiplot/internal/errors"
)

// Reshape converts the wide study table into one ObservationRecord per
// (study, meat type) pair with a non-missing elasticity. Standard errors are
// resolved through the mapping's explicit column pairing; when present they
// yield a 95% confidence interval, otherwise the interval fields stay absent
// and consumers branch on HasSE.
//
// A mapping key that does not correspond to an input column is a
// configuration error and aborts the whole transform.
func Reshape(records []dataset.StudyRecord, mapping MeatMapping) ([]ObservationRecord, error) {
	if len(mapping) == 0 {
		return nil, errors.NewConfigError("meat-type mapping is empty", nil)
	}

	observations := make([]ObservationRecord, 0, len(records)*len(mapping))
	for _, record := range records {
		label := fmt.Sprintf("%s (%d)", record.Author, record.Year)

		for _, meat := range mapping {
			value, ok := record.Values[meat.Key]
			if !ok {
				return nil, errors.NewConfigError(
					fmt.Sprintf("unrecognized meat-type column %q in mapping", meat.Key), nil)
			}
			se, ok := record.Values[meat.SEKey]
			if !ok {
				return nil, errors.NewConfigError(
					fmt.Sprintf("unrecognized standard-error column %q in mapping", meat.SEKey), nil)
			}

			// No elasticity means no observation, regardless of SE.
			if value == nil {
				continue
			}

			obs := ObservationRecord{
				StudyLabel: label,
				MeatType:   meat.Label,
				Elasticity: *value,
			}
			if se != nil {
				lower := *value - CriticalValue*(*se)
				upper := *value + CriticalValue*(*se)
				obs.StandardError = se
				obs.CILower = &lower
				obs.CIUpper = &upper
				obs.HasSE = true
			}
			observations = append(observations, obs)
		}
	}

	return observations, nil
}
