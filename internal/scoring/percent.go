package scoring

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// Percent is a score on the 0-100 scale. The zero value is Unscored, which is
// distinct from Scored(0).
type Percent struct {
	Value  float64
	Scored bool
}

// Unscored marks a value with no underlying data.
var Unscored = Percent{}

func Scored(v float64) Percent { return Percent{Value: v, Scored: true} }

// Round returns p rounded half away from zero to the given decimal places.
func (p Percent) Round(places int32) Percent {
	if !p.Scored {
		return p
	}
	return Scored(roundTo(p.Value, places))
}

// String renders two decimals, or "-" when unscored.
func (p Percent) String() string {
	if !p.Scored {
		return "-"
	}
	return decimal.NewFromFloat(p.Value).StringFixed(2)
}

// MarshalJSON encodes unscored values as null and scored values rounded to two
// decimal places.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Scored {
		return []byte("null"), nil
	}
	return []byte(decimal.NewFromFloat(p.Value).Round(2).String()), nil
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Unscored
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Scored(v)
	return nil
}

func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// checkPercent rejects scored values outside [0,100].
func checkPercent(field string, p Percent) error {
	if !p.Scored {
		return nil
	}
	if !finite(p.Value) {
		return invalid(field, p.Value, "not a finite number")
	}
	if p.Value < 0 || p.Value > 100 {
		return invalid(field, p.Value, "must be within [0,100]")
	}
	return nil
}
