package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Decimal is a float64 that unmarshals from either a JSON number or a
// string-encoded decimal. Vitals submissions from some clients send
// temperature as "37.2".
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty decimal value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid decimal %q: %w", s, err)
		}
		*d = Decimal(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Decimal(v)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(d))
}

// Float64 returns the underlying value.
func (d Decimal) Float64() float64 { return float64(d) }
