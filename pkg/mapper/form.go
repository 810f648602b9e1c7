package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RecordToForm returns the form values for editing a record. The record is
// copied, marked as a draft and each field is rewritten into the shape its
// input expects. Tags are converted before any schema field.
func RecordToForm(record schema.Values, s *schema.DatasetSchema, vocabularies []schema.Vocabulary, opt ...Opt) (schema.Values, error) {
	o, err := applyOpts(opt)
	if err != nil {
		return nil, err
	} else if s == nil {
		return nil, fmt.Errorf("missing schema")
	}

	form := copyValues(record)
	form["state"] = schema.StateDraft

	if tags, ok := asList(form["tags"]); ok && len(tags) > 0 {
		form["tag_string"] = tagsToForm(tags)
	}

	for _, field := range s.Fields {
		name := field.Name()
		value, exists := form[name]
		switch f := field.(type) {
		case *schema.CheckboxField:
			if str, ok := value.(string); ok {
				form[name] = str == "true"
			}
		case *schema.JSONField:
			if _, ok := value.(string); !ok && truthy(value) {
				str, err := indentJSON(value)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				form[name] = str
			}
		case *schema.DateRangeField:
			form[name] = dateRangeToForm(value)
		case *schema.DateTimeRangeField:
			if m, ok := asMap(value); ok {
				form[name] = dateTimeRangeToForm(m, o.location)
			}
		case *schema.SelectGroupField:
			if groups, ok := asList(form["groups"]); ok {
				selectGroupToForm(form, f, groups)
			}
		case *schema.MultiSelectField:
			if !exists {
				break
			}
			if v, err := multiSelectToForm(value); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			} else if v != nil {
				form[name] = v
			}
		case *schema.SpatialField:
			if v, ok := spatialToForm(value); ok {
				form[name] = v
			}
		case *schema.VocabularyField:
			vocabularyToForm(form, name, vocabularies)
		case *schema.TagsField, *schema.PlainField:
			// Unchanged
		}
	}

	return form, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func tagsToForm(tags []any) []any {
	result := make([]any, 0, len(tags))
	for _, tag := range tags {
		t, ok := asMap(tag)
		if !ok {
			continue
		}
		v := pair(t["name"], t["name"])
		if id, exists := t["vocabulary_id"]; exists {
			v["vocabulary_id"] = id
		}
		result = append(result, v)
	}
	return result
}

func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func dateRangeToForm(value any) any {
	if !truthy(value) {
		return nil
	}
	result := make(map[string]any, 2)
	if m, ok := asMap(value); ok {
		if start, exists := m["start"]; exists {
			result["from"] = start
		}
		if end, exists := m["end"]; exists {
			result["to"] = end
		}
	}
	return result
}

// dateTimeRangeToForm parses string bounds into time values. Anything which
// does not parse is left as it is.
func dateTimeRangeToForm(m map[string]any, loc *time.Location) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	for _, key := range []string{"start", "end"} {
		if str, ok := m[key].(string); ok && str != "" {
			if t, err := parseTime(str, loc); err == nil {
				result[key] = t
			}
		}
	}
	return result
}

func selectGroupToForm(form schema.Values, f *schema.SelectGroupField, groups []any) {
	var matched []map[string]any
	for _, group := range groups {
		if g, ok := asMap(group); ok && g["type"] == f.GroupType {
			matched = append(matched, g)
		}
	}
	if f.MaxSelected == 1 {
		if len(matched) > 0 {
			form[f.Name()] = matched[0]["name"]
		} else {
			delete(form, f.Name())
		}
		return
	}
	result := make([]any, 0, len(matched))
	for _, g := range matched {
		result = append(result, pair(g["title"], g["name"]))
	}
	form[f.Name()] = result
}

// multiSelectToForm returns nil when the value needs no conversion
func multiSelectToForm(value any) (any, error) {
	if _, ok := asList(value); ok || !truthy(value) {
		return nil, nil
	}
	str, ok := value.(string)
	if !ok {
		return nil, nil
	}
	if !strings.Contains(str, ",") {
		return []any{pair(str, str)}, nil
	}
	var values []any
	if err := json.Unmarshal([]byte(str), &values); err != nil {
		return nil, fmt.Errorf("multi select value: %w", err)
	}
	result := make([]any, 0, len(values))
	for _, v := range values {
		result = append(result, pair(v, v))
	}
	return result, nil
}

func spatialToForm(value any) (map[string]any, bool) {
	m, ok := asMap(value)
	if !ok {
		return nil, false
	}
	spatialType := m["spatial_type"]
	if !truthy(spatialType) {
		return nil, false
	}
	result := map[string]any{
		"spatial_type": spatialType,
	}
	if v, exists := m["value"]; exists {
		result[fmt.Sprint(spatialType)+"_value"] = v
	}
	return result, true
}

// vocabularyToForm writes one sub-field per vocabulary named after the field.
// The field value is a list of tags, or the JSON string FormToRecord writes.
func vocabularyToForm(form schema.Values, name string, vocabularies []schema.Vocabulary) {
	tags, ok := asList(form[name])
	if !ok {
		str, isString := form[name].(string)
		if !isString || json.Unmarshal([]byte(str), &tags) != nil {
			return
		}
	}
	prefix := name + "_"
	for _, vocabulary := range vocabularies {
		if !strings.HasPrefix(vocabulary.Name, prefix) {
			continue
		}
		result := make([]any, 0, len(tags))
		for _, tag := range tags {
			if t, ok := asMap(tag); ok && t["vocabulary_id"] == vocabulary.Id {
				v := pair(t["name"], t["name"])
				v["vocabulary_id"] = t["vocabulary_id"]
				result = append(result, v)
			}
		}
		form[vocabulary.Name] = result
	}
}
