package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one backend row keyed by column name. The backend stores every
// order and client column as text but occasionally returns numbers; values
// are flattened to strings on decode so the form, diff, and filter layers
// can compare them uniformly.
type Record map[string]string

func (r *Record) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Record, len(raw))
	for k, v := range raw {
		out[k] = flatten(v)
	}
	*r = out
	return nil
}

func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		buf, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(buf)
	}
}

// Get returns the trimmed value for a column, empty when absent.
func (r Record) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// ID returns the order number column used to address a record.
func (r Record) ID() string { return r.Get("N") }
