package staffing

import "encoding/json"

// AllDistricts is the UI sentinel meaning "do not filter by district".
const AllDistricts = "Tüm İlçeler"

// NeedRecord is one row of the teacher need table. Several rows may share the
// same (district, branch) pair; need counts are summed, never deduplicated.
type NeedRecord struct {
	District string
	Branch   string
	Need     int
}

// SurplusRecord is one surplus teacher. A non-nil Justification marks the
// surplus as justified ("mazaretli"); nil means unjustified ("mazaretsiz").
type SurplusRecord struct {
	District      string
	Branch        string
	Justification *string
}

// Justified reports whether the record carries an explanatory reason.
func (r SurplusRecord) Justified() bool {
	return r.Justification != nil
}

// Ratio is the surplus-to-need coverage indicator for one category.
// It is explicitly undefined when need is zero, which is distinct from a
// ratio of zero (need present, no surplus).
type Ratio struct {
	Value   float64
	Defined bool
}

// NewRatio computes surplus/need, undefined at need == 0.
func NewRatio(surplus, need int) Ratio {
	if need == 0 {
		return Ratio{}
	}
	return Ratio{Value: float64(surplus) / float64(need), Defined: true}
}

// MarshalJSON encodes an undefined ratio as null rather than a number, so
// API consumers can tell "undefined" apart from "no excess".
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts null or a number.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	if err := json.Unmarshal(data, &r.Value); err != nil {
		return err
	}
	r.Defined = true
	return nil
}
