package mapper

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	dateFormat  = "2006-01-02"
	spatialBBox = "bbox"
)

var timeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	dateFormat,
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// FormToRecord returns the record for a set of form values, reversing
// RecordToForm. Vocabulary fields are collected from their sub-fields once
// every other field has been converted.
func FormToRecord(form schema.Values, s *schema.DatasetSchema, opt ...Opt) (schema.Values, error) {
	o, err := applyOpts(opt)
	if err != nil {
		return nil, err
	} else if s == nil {
		return nil, fmt.Errorf("missing schema")
	}

	record := copyValues(form)
	for _, field := range s.Fields {
		name := field.Name()
		switch f := field.(type) {
		case *schema.MultiSelectField:
			if list, ok := asList(record[name]); ok {
				switch values := unwrapPairs(list); len(values) {
				case 0:
					delete(record, name)
				case 1:
					record[name] = values[0]
				default:
					record[name] = values
				}
			}
		case *schema.TagsField:
			if list, ok := asList(record[name]); ok {
				record[name] = unwrapPairs(list)
				delete(record, "tags")
				if tagString, ok := asList(record["tag_string"]); ok {
					tags := make([]any, 0, len(tagString))
					for _, tag := range tagString {
						tags = append(tags, map[string]any{"name": pairValue(tag)})
					}
					record["tags"] = tags
				}
			}
		case *schema.SpatialField:
			if m, ok := asMap(record[name]); ok {
				if v, ok := spatialToRecord(m, o); ok {
					record[name] = v
				} else {
					delete(record, name)
				}
			}
		case *schema.DateRangeField:
			value, exists := record[name]
			if !exists {
				break
			} else if !truthy(value) {
				delete(record, name)
				break
			}
			v, err := dateRangeToRecord(value, o.location)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			record[name] = v
		case *schema.SelectGroupField:
			selectGroupToRecord(record, f)
		case *schema.CheckboxField, *schema.JSONField, *schema.DateTimeRangeField, *schema.VocabularyField, *schema.PlainField:
			// Unchanged, or collected below
		}
	}

	for _, field := range s.Vocabularies() {
		if err := vocabularyToRecord(record, field.Name()); err != nil {
			return nil, fmt.Errorf("%s: %w", field.Name(), err)
		}
	}

	record["type"] = s.DatasetType
	if record["access_rights"] != schema.AccessRightsEmbargoed {
		record["embargoed_until"] = nil
	}

	return record, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// spatialToRecord returns false when either the type or the value is missing
func spatialToRecord(m map[string]any, o opts) (map[string]any, bool) {
	spatialType := m["spatial_type"]
	value := m[fmt.Sprint(spatialType)+"_value"]
	if !truthy(spatialType) || !truthy(value) {
		return nil, false
	}
	if list, ok := asList(value); ok && spatialType == spatialBBox {
		coords := make([]any, len(list))
		for i, v := range list {
			coords[i] = toFloat(v, o)
		}
		value = coords
	}
	return map[string]any{
		"spatial_type": spatialType,
		"value":        value,
	}, true
}

// toFloat returns the value as a float64, or the value itself when it does
// not parse
func toFloat(v any, o opts) any {
	switch v := v.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f
		}
		o.logger.Warn("bounding box coordinate is not a number", "value", v, "error", err)
	}
	return v
}

func dateRangeToRecord(value any, loc *time.Location) (map[string]any, error) {
	result := make(map[string]any, 2)
	m, ok := asMap(value)
	if !ok {
		return result, nil
	}
	for key, field := range map[string]string{"from": "start", "to": "end"} {
		if !truthy(m[key]) {
			continue
		}
		t, err := toTime(m[key], loc)
		if err != nil {
			return nil, err
		}
		result[field] = formatDate(t, loc)
	}
	return result, nil
}

func selectGroupToRecord(record schema.Values, f *schema.SelectGroupField) {
	name := f.Name()
	var selected []any
	switch v := record[name].(type) {
	case string:
		if v != "" {
			selected = []any{map[string]any{"value": v}}
		}
	default:
		selected, _ = asList(v)
	}
	if len(selected) == 0 {
		delete(record, name)
		return
	}

	existing, _ := asList(record["groups"])
	groups := make([]any, 0, len(existing)+len(selected))
	for _, group := range existing {
		if g, ok := asMap(group); ok && g["type"] == f.GroupType {
			continue
		}
		groups = append(groups, group)
	}
	values := make([]any, 0, len(selected))
	for _, v := range selected {
		value := pairValue(v)
		groups = append(groups, map[string]any{"name": value, "type": f.GroupType})
		values = append(values, value)
	}
	record["groups"] = groups
	record[name] = values
}

// vocabularyToRecord collects the tags of every sub-field named after the
// field into a JSON string, and removes the sub-fields
func vocabularyToRecord(record schema.Values, name string) error {
	prefix := name + "_"
	keys := make([]string, 0)
	for key := range record {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	tags := make([]any, 0)
	for _, key := range keys {
		if list, ok := asList(record[key]); ok {
			for _, tag := range list {
				if t, ok := asMap(tag); ok {
					tags = append(tags, map[string]any{
						"name":          t["value"],
						"vocabulary_id": t["vocabulary_id"],
					})
				}
			}
		}
		delete(record, key)
	}
	if len(tags) == 0 {
		delete(record, name)
		return nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	record[name] = string(data)
	return nil
}

func toTime(v any, loc *time.Location) (time.Time, error) {
	switch v := v.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v != nil {
			return *v, nil
		}
	case float64:
		return time.UnixMilli(int64(v)), nil
	case string:
		return parseTime(v, loc)
	}
	return time.Time{}, fmt.Errorf("invalid date: %v", v)
}

// parseTime parses a timestamp. Date-only values are UTC, and timestamps
// without a zone are in the given location.
func parseTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, format := range timeFormats {
		switch format {
		case time.RFC3339Nano:
			if t, err := time.Parse(format, v); err == nil {
				return t, nil
			}
		case dateFormat:
			if t, err := time.ParseInLocation(format, v, time.UTC); err == nil {
				return t, nil
			}
		default:
			if t, err := time.ParseInLocation(format, v, loc); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", v)
}

// formatDate subtracts the UTC offset of the location before taking the
// calendar day in that location
func formatDate(t time.Time, loc *time.Location) string {
	_, offset := t.In(loc).Zone()
	return t.Add(-time.Duration(offset) * time.Second).In(loc).Format(dateFormat)
}
