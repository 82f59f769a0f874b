package ranges

import "encoding/json"

// Range is the inclusive [Min, Max] band considered clinically normal
// for one measurement.
type Range struct {
	Min float64
	Max float64
}

// Table maps a measurement name to its critical range. It is fixed at
// startup and never mutated afterwards.
type Table map[string]Range

// Default returns the standard adult critical ranges.
func Default() Table {
	return Table{
		"heart_rate":        {Min: 60, Max: 100},
		"temperature":       {Min: 96.0, Max: 100.4},
		"oxygen_saturation": {Min: 95, Max: 100},
	}
}

// Evaluate compares the raw vitals of a reading against the table and
// returns the measurements that fall strictly outside their range, with
// the observed values as received. Values exactly equal to Min or Max
// are normal. Measurements absent from either the table or the reading
// are ignored.
func (t Table) Evaluate(vitals map[string]json.Number) map[string]json.Number {
	abnormal := make(map[string]json.Number)

	for name, r := range t {
		raw, ok := vitals[name]
		if !ok {
			continue
		}
		value, err := raw.Float64()
		if err != nil {
			continue
		}
		if value < r.Min || value > r.Max {
			abnormal[name] = raw
		}
	}

	return abnormal
}
