package dataset

// Column names required in every input table. The "chicke_se" spelling is
// deliberate: it matches the published dataset and is bound explicitly by the
// meat-type mapping rather than derived from the meat-type column name.
const (
	ColStudy   = "study"
	ColAuthor  = "author"
	ColYear    = "year"
	ColBeef    = "beef"
	ColPork    = "pork"
	ColChicken = "chicken"
	ColFish    = "fish"

	ColBeefSE    = "beef_se"
	ColPorkSE    = "pork_se"
	ColChickenSE = "chicke_se"
	ColFishSE    = "fish_se"
)

// RequiredColumns lists every column the input table must contain, in the
// order they appear in the published dataset.
func RequiredColumns() []string {
	return []string{
		ColStudy, ColAuthor, ColYear,
		ColBeef, ColPork, ColChicken, ColFish,
		ColBeefSE, ColPorkSE, ColChickenSE, ColFishSE,
	}
}

// numericColumns are the columns parsed as optional floats.
func numericColumns() []string {
	return []string{
		ColBeef, ColPork, ColChicken, ColFish,
		ColBeefSE, ColPorkSE, ColChickenSE, ColFishSE,
	}
}

// StudyRecord is one row of the input table: one published study with an
// optional elasticity and an optional standard error per meat type. The two
// optionals are independent; a study may report an estimate without an SE.
type StudyRecord struct {
	StudyID string
	Author  string
	Year    int

	// Values holds the numeric columns keyed by column name. A nil entry
	// means the cell was empty or NA.
	Values map[string]*float64
}

// Value returns the numeric value for the given column, or nil when missing.
func (r StudyRecord) Value(column string) *float64 {
	return r.Values[column]
}
