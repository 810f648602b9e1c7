// Package mapper converts between catalog records and the form values used to
// edit them, driven by the field kinds of a dataset schema. Every conversion
// returns a new mapping and leaves its input untouched.
package mapper

import (
	"log/slog"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for a conversion
type Opt func(*opts) error

type opts struct {
	logger   *slog.Logger
	location *time.Location
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithLogger sets the logger which receives coercion failures
func WithLogger(logger *slog.Logger) Opt {
	return func(o *opts) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

// WithLocation sets the location whose UTC offset corrects date ranges
// before they are formatted. The default is the local time zone.
func WithLocation(loc *time.Location) Opt {
	return func(o *opts) error {
		if loc != nil {
			o.location = loc
		}
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func applyOpts(opt []Opt) (opts, error) {
	o := opts{
		logger:   slog.Default(),
		location: time.Local,
	}
	for _, fn := range opt {
		if err := fn(&o); err != nil {
			return opts{}, err
		}
	}
	return o, nil
}

// copyValues returns a deep copy of a record, so that no container in the
// result is shared with the input
func copyValues(in schema.Values) schema.Values {
	out := make(schema.Values, len(in)+1)
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, v := range v {
			out[k] = copyValue(v)
		}
		return out
	case schema.Values:
		return map[string]any(copyValues(v))
	case []any:
		out := make([]any, len(v))
		for i, v := range v {
			out[i] = copyValue(v)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, v := range v {
			out[i] = copyValue(v)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, v := range v {
			out[i] = v
		}
		return out
	default:
		return v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case map[string]any:
		return v, v != nil
	case schema.Values:
		return map[string]any(v), v != nil
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, v != nil
	case []map[string]any:
		return copyValue(v).([]any), v != nil
	case []string:
		return copyValue(v).([]any), v != nil
	}
	return nil, false
}

// truthy follows the truthiness rules of the JSON values the catalog sends
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && v == v
	case int:
		return v != 0
	case int64:
		return v != 0
	case map[string]any:
		return v != nil
	case []any:
		return v != nil
	case *time.Time:
		return v != nil
	default:
		return true
	}
}

// pair returns a label and value pair as used by select inputs
func pair(label, value any) map[string]any {
	return map[string]any{
		"label": label,
		"value": value,
	}
}

// pairValue unwraps the value of a label and value pair. Bare values are
// returned as they are.
func pairValue(v any) any {
	if m, ok := asMap(v); ok {
		return m["value"]
	}
	return v
}

func unwrapPairs(list []any) []any {
	result := make([]any, 0, len(list))
	for _, v := range list {
		result = append(result, pairValue(v))
	}
	return result
}
