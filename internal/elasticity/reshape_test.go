package elasticity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elastiplot/internal/dataset"
	apperrors "elastiplot/internal/errors"
)

func fp(v float64) *float64 { return &v }

// makeStudy builds a StudyRecord with every numeric column present in the
// Values map, nil unless overridden.
func makeStudy(author string, year int, values map[string]*float64) dataset.StudyRecord {
	record := dataset.StudyRecord{
		StudyID: "1",
		Author:  author,
		Year:    year,
		Values:  make(map[string]*float64, 8),
	}
	for _, col := range []string{
		dataset.ColBeef, dataset.ColPork, dataset.ColChicken, dataset.ColFish,
		dataset.ColBeefSE, dataset.ColPorkSE, dataset.ColChickenSE, dataset.ColFishSE,
	} {
		record.Values[col] = values[col]
	}
	return record
}

func TestReshape_WorkedExample(t *testing.T) {
	records := []dataset.StudyRecord{
		makeStudy("Smith", 2010, map[string]*float64{
			dataset.ColBeef:    fp(0.3),
			dataset.ColBeefSE:  fp(0.1),
			dataset.ColPorkSE:  fp(0.2), // SE without elasticity: row still dropped
			dataset.ColChicken: fp(-0.2),
		}),
	}

	observations, err := Reshape(records, DefaultMeatMapping())
	require.NoError(t, err)
	require.Len(t, observations, 2)

	beef := observations[0]
	assert.Equal(t, "Smith (2010)", beef.StudyLabel)
	assert.Equal(t, "Beef", beef.MeatType)
	assert.Equal(t, 0.3, beef.Elasticity)
	assert.True(t, beef.HasSE)
	require.NotNil(t, beef.CILower)
	require.NotNil(t, beef.CIUpper)
	assert.InDelta(t, 0.104, *beef.CILower, 1e-9)
	assert.InDelta(t, 0.496, *beef.CIUpper, 1e-9)

	chicken := observations[1]
	assert.Equal(t, "Smith (2010)", chicken.StudyLabel)
	assert.Equal(t, "Chicken", chicken.MeatType)
	assert.Equal(t, -0.2, chicken.Elasticity)
	assert.False(t, chicken.HasSE)
	assert.Nil(t, chicken.StandardError)
	assert.Nil(t, chicken.CILower)
	assert.Nil(t, chicken.CIUpper)
}

func TestReshape_RowCountProperty(t *testing.T) {
	tests := []struct {
		name    string
		records []dataset.StudyRecord
		want    int
	}{
		{
			name:    "no studies",
			records: nil,
			want:    0,
		},
		{
			name: "all four meats present",
			records: []dataset.StudyRecord{
				makeStudy("Jones", 2001, map[string]*float64{
					dataset.ColBeef:    fp(0.1),
					dataset.ColPork:    fp(0.2),
					dataset.ColChicken: fp(0.3),
					dataset.ColFish:    fp(0.4),
				}),
			},
			want: 4,
		},
		{
			name: "all elasticities missing",
			records: []dataset.StudyRecord{
				makeStudy("Lee", 1999, map[string]*float64{
					dataset.ColBeefSE: fp(0.1),
				}),
			},
			want: 0,
		},
		{
			name: "mixed across studies",
			records: []dataset.StudyRecord{
				makeStudy("A", 2000, map[string]*float64{dataset.ColBeef: fp(0.5)}),
				makeStudy("B", 2005, map[string]*float64{
					dataset.ColPork: fp(-0.3),
					dataset.ColFish: fp(0.2),
				}),
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observations, err := Reshape(tt.records, DefaultMeatMapping())
			require.NoError(t, err)
			assert.Len(t, observations, tt.want)
		})
	}
}

func TestReshape_IntervalConsistency(t *testing.T) {
	records := []dataset.StudyRecord{
		makeStudy("A", 2000, map[string]*float64{
			dataset.ColBeef:      fp(0.5),
			dataset.ColBeefSE:    fp(0.05),
			dataset.ColPork:      fp(-0.1),
			dataset.ColChicken:   fp(0.7),
			dataset.ColChickenSE: fp(0.2),
			dataset.ColFish:      fp(0.0),
		}),
	}

	observations, err := Reshape(records, DefaultMeatMapping())
	require.NoError(t, err)
	require.NotEmpty(t, observations)

	for _, obs := range observations {
		if obs.HasSE {
			require.NotNil(t, obs.StandardError)
			require.NotNil(t, obs.CILower)
			require.NotNil(t, obs.CIUpper)
			assert.InDelta(t, obs.Elasticity-1.96*(*obs.StandardError), *obs.CILower, 1e-12)
			assert.InDelta(t, obs.Elasticity+1.96*(*obs.StandardError), *obs.CIUpper, 1e-12)
		} else {
			assert.Nil(t, obs.StandardError)
			assert.Nil(t, obs.CILower)
			assert.Nil(t, obs.CIUpper)
		}
	}
}

func TestReshape_ChickenSEUsesExplicitColumn(t *testing.T) {
	// The SE column for chicken is "chicke_se" in the source table; the
	// mapping must bind it explicitly rather than appending "_se".
	records := []dataset.StudyRecord{
		makeStudy("A", 2000, map[string]*float64{
			dataset.ColChicken:   fp(0.4),
			dataset.ColChickenSE: fp(0.1),
		}),
	}

	observations, err := Reshape(records, DefaultMeatMapping())
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.True(t, observations[0].HasSE)
}

func TestReshape_ConfigurationErrors(t *testing.T) {
	records := []dataset.StudyRecord{
		makeStudy("A", 2000, map[string]*float64{dataset.ColBeef: fp(0.1)}),
	}

	tests := []struct {
		name    string
		mapping MeatMapping
	}{
		{
			name:    "empty mapping",
			mapping: MeatMapping{},
		},
		{
			name:    "unknown elasticity column",
			mapping: MeatMapping{{Key: "venison", SEKey: "beef_se", Label: "Venison"}},
		},
		{
			name:    "unknown SE column",
			mapping: MeatMapping{{Key: "beef", SEKey: "chicken_se", Label: "Beef"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reshape(records, tt.mapping)
			require.Error(t, err)
			assert.True(t, apperrors.IsConfigError(err))
		})
	}
}
