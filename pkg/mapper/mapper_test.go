package mapper_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	// Packages
	mapper "github.com/mutablelogic/go-catalog/pkg/mapper"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

const testSchema = `{
	"dataset_type": "dataset",
	"dataset_fields": [
		{ "field_name": "title", "group_name": "about" },
		{ "field_name": "tag_string", "react_input": "tags" },
		{ "field_name": "open", "react_input": "checkbox" },
		{ "field_name": "extra", "react_input": "json" },
		{ "field_name": "temporal", "react_input": "date_range" },
		{ "field_name": "modified", "react_input": "date_time_range" },
		{ "field_name": "theme", "react_input": "select_group", "react_input_group_type": "theme", "react_input_max_selected": 1 },
		{ "field_name": "topics", "react_input": "select_group", "react_input_group_type": "topic" },
		{ "field_name": "format", "react_input": "multi_select" },
		{ "field_name": "spatial", "react_input": "spatial" },
		{ "field_name": "field", "react_input": "vocabulary", "group_name": "about" }
	],
	"dataset_fields_groups": [
		{ "name": "about", "label": { "en": "About", "fr": "A propos" } },
		{ "name": "unused", "label": "Unused" }
	]
}`

func newSchema(t *testing.T) *schema.DatasetSchema {
	t.Helper()
	var s schema.DatasetSchema
	require.NoError(t, json.Unmarshal([]byte(testSchema), &s))
	return &s
}

// decode returns a record as the catalog would send it
func decode(t *testing.T, data string) schema.Values {
	t.Helper()
	var v schema.Values
	require.NoError(t, json.Unmarshal([]byte(data), &v))
	return v
}

func Test_Schema_001(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)
	assert.Equal("dataset", s.DatasetType)
	assert.Len(s.Fields, 11)
	assert.IsType(&schema.PlainField{}, s.Field("title"))
	assert.IsType(&schema.TagsField{}, s.Field("tag_string"))
	if f, ok := s.Field("theme").(*schema.SelectGroupField); assert.True(ok) {
		assert.Equal("theme", f.GroupType)
		assert.Equal(1, f.MaxSelected)
	}
	assert.Len(s.Vocabularies(), 1)
	assert.Equal(schema.Text("About"), s.FieldGroups[0].Label)
}

func Test_Schema_002(t *testing.T) {
	var s schema.DatasetSchema
	err := json.Unmarshal([]byte(`{"dataset_type":"x","dataset_fields":[{"field_name":"a"},{"field_name":"a"}]}`), &s)
	assert.Error(t, err)
}

func Test_Schema_003(t *testing.T) {
	assert := assert.New(t)

	// Only pointers to field kinds are fields, so a value cannot slip past
	// the mapper untransformed
	var field any = schema.CheckboxField{}
	_, ok := field.(schema.Field)
	assert.False(ok)
	field = schema.SelectGroupField{}
	_, ok = field.(schema.Field)
	assert.False(ok)

	// A schema built in code converts its checkbox
	s := &schema.DatasetSchema{
		DatasetType: "dataset",
		Fields: []schema.Field{
			&schema.CheckboxField{FieldBase: schema.FieldBase{FieldName: "open"}},
		},
	}
	form, err := mapper.RecordToForm(schema.Values{"open": "true"}, s, nil)
	require.NoError(t, err)
	assert.Equal(true, form["open"])
}

////////////////////////////////////////////////////////////////////////////////
// RECORD TO FORM

func Test_RecordToForm_001(t *testing.T) {
	assert := assert.New(t)
	record := decode(t, `{
		"title": "Title",
		"tags": [{ "name": "x" }, { "name": "y", "vocabulary_id": "v1" }],
		"open": "true",
		"extra": { "a": [1, 2] }
	}`)

	form, err := mapper.RecordToForm(record, newSchema(t), nil)
	require.NoError(t, err)
	assert.Equal(schema.StateDraft, form["state"])
	assert.Equal("Title", form["title"])
	assert.Equal(true, form["open"])
	assert.Equal("{\n    \"a\": [\n        1,\n        2\n    ]\n}", form["extra"])
	assert.Equal([]any{
		map[string]any{"label": "x", "value": "x"},
		map[string]any{"label": "y", "value": "y", "vocabulary_id": "v1"},
	}, form["tag_string"])

	// The input is not modified
	assert.NotContains(record, "state")
	assert.Equal("true", record["open"])
}

func Test_RecordToForm_002(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)

	// Missing date range is null
	form, err := mapper.RecordToForm(schema.Values{}, s, nil)
	require.NoError(t, err)
	assert.Contains(form, "temporal")
	assert.Nil(form["temporal"])
	assert.NotContains(form, "tag_string")

	// Start and end become from and to
	form, err = mapper.RecordToForm(decode(t, `{"temporal":{"start":"2024-01-01","end":"2024-12-31"}}`), s, nil)
	require.NoError(t, err)
	assert.Equal(map[string]any{"from": "2024-01-01", "to": "2024-12-31"}, form["temporal"])
}

func Test_RecordToForm_003(t *testing.T) {
	assert := assert.New(t)
	form, err := mapper.RecordToForm(decode(t, `{"modified":{"start":"2024-01-01T10:00:00Z","end":"later"}}`), newSchema(t), nil)
	require.NoError(t, err)
	modified := form["modified"].(map[string]any)
	assert.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), modified["start"].(time.Time).UTC())
	assert.Equal("later", modified["end"])
}

func Test_RecordToForm_004(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)
	record := decode(t, `{"groups":[
		{ "name": "g1", "title": "Group 1", "type": "theme" },
		{ "name": "g2", "title": "Group 2", "type": "theme" },
		{ "name": "t1", "title": "Topic 1", "type": "topic" }
	]}`)

	form, err := mapper.RecordToForm(record, s, nil)
	require.NoError(t, err)
	assert.Equal("g1", form["theme"])
	assert.Equal([]any{map[string]any{"label": "Topic 1", "value": "t1"}}, form["topics"])

	// No groups key leaves the field untouched
	form, err = mapper.RecordToForm(schema.Values{"theme": "kept"}, s, nil)
	require.NoError(t, err)
	assert.Equal("kept", form["theme"])

	// Single select with no match removes the field
	form, err = mapper.RecordToForm(schema.Values{"theme": "gone", "groups": []any{}}, s, nil)
	require.NoError(t, err)
	assert.NotContains(form, "theme")
}

func Test_RecordToForm_005(t *testing.T) {
	s := newSchema(t)
	tests := []struct {
		name    string
		value   any
		want    any
		wantErr bool
	}{
		{"single segment", "a", []any{map[string]any{"label": "a", "value": "a"}}, false},
		{"json array", `["a","b"]`, []any{map[string]any{"label": "a", "value": "a"}, map[string]any{"label": "b", "value": "b"}}, false},
		{"already a list", []any{"a"}, []any{"a"}, false},
		{"empty string", "", "", false},
		{"invalid json", "a,b", nil, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			form, err := mapper.RecordToForm(schema.Values{"format": test.value}, s, nil)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, form["format"])
		})
	}
}

func Test_RecordToForm_006(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)

	form, err := mapper.RecordToForm(decode(t, `{"spatial":{"spatial_type":"bbox","value":[1,2,3,4]}}`), s, nil)
	require.NoError(t, err)
	assert.Equal(map[string]any{"spatial_type": "bbox", "bbox_value": []any{1.0, 2.0, 3.0, 4.0}}, form["spatial"])

	// Missing value omits the value key
	form, err = mapper.RecordToForm(decode(t, `{"spatial":{"spatial_type":"point"}}`), s, nil)
	require.NoError(t, err)
	assert.Equal(map[string]any{"spatial_type": "point"}, form["spatial"])
}

func Test_RecordToForm_007(t *testing.T) {
	assert := assert.New(t)
	vocabularies := []schema.Vocabulary{
		{Id: "v1", Name: "field_physics"},
		{Id: "v2", Name: "field_biology"},
		{Id: "v3", Name: "other_things"},
	}
	record := decode(t, `{"field":[
		{ "name": "quarks", "vocabulary_id": "v1" },
		{ "name": "cells", "vocabulary_id": "v2" },
		{ "name": "misc", "vocabulary_id": "v3" }
	]}`)

	form, err := mapper.RecordToForm(record, newSchema(t), vocabularies)
	require.NoError(t, err)
	assert.Equal([]any{map[string]any{"label": "quarks", "value": "quarks", "vocabulary_id": "v1"}}, form["field_physics"])
	assert.Equal([]any{map[string]any{"label": "cells", "value": "cells", "vocabulary_id": "v2"}}, form["field_biology"])
	assert.NotContains(form, "other_things")
}

////////////////////////////////////////////////////////////////////////////////
// FORM TO RECORD

func Test_FormToRecord_001(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)

	record, err := mapper.FormToRecord(schema.Values{"embargoed_until": "2030-01-01"}, s)
	require.NoError(t, err)
	assert.Equal("dataset", record["type"])
	assert.Contains(record, "embargoed_until")
	assert.Nil(record["embargoed_until"])

	record, err = mapper.FormToRecord(schema.Values{"embargoed_until": "2030-01-01", "access_rights": "embargoed"}, s)
	require.NoError(t, err)
	assert.Equal("2030-01-01", record["embargoed_until"])
}

func Test_FormToRecord_002(t *testing.T) {
	s := newSchema(t)
	tests := []struct {
		name   string
		value  any
		want   any
		absent bool
	}{
		{"none", []any{}, nil, true},
		{"one", []any{map[string]any{"label": "a", "value": "a"}}, "a", false},
		{"two", []any{map[string]any{"label": "a", "value": "a"}, "b"}, []any{"a", "b"}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record, err := mapper.FormToRecord(schema.Values{"format": test.value}, s)
			require.NoError(t, err)
			if test.absent {
				assert.NotContains(t, record, "format")
			} else {
				assert.Equal(t, test.want, record["format"])
			}
		})
	}
}

func Test_FormToRecord_003(t *testing.T) {
	assert := assert.New(t)
	form := schema.Values{
		"tags":       []any{map[string]any{"name": "old"}},
		"tag_string": []any{map[string]any{"label": "x", "value": "x"}, map[string]any{"label": "y", "value": "y"}},
	}
	record, err := mapper.FormToRecord(form, newSchema(t))
	require.NoError(t, err)
	assert.Equal([]any{"x", "y"}, record["tag_string"])
	assert.Equal([]any{map[string]any{"name": "x"}, map[string]any{"name": "y"}}, record["tags"])
}

func Test_FormToRecord_004(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	form := schema.Values{
		"spatial": map[string]any{"spatial_type": "bbox", "bbox_value": []any{"1.5", "2", 3.0, "north"}},
	}
	record, err := mapper.FormToRecord(form, s, mapper.WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(map[string]any{"spatial_type": "bbox", "value": []any{1.5, 2.0, 3.0, "north"}}, record["spatial"])
	assert.Contains(buf.String(), "north")

	// Missing value removes the field
	record, err = mapper.FormToRecord(schema.Values{"spatial": map[string]any{"spatial_type": "point"}}, s)
	require.NoError(t, err)
	assert.NotContains(record, "spatial")
}

func Test_FormToRecord_005(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)

	for _, loc := range []*time.Location{time.UTC, time.FixedZone("east", 2*3600), time.FixedZone("west", -5*3600)} {
		form := schema.Values{"temporal": map[string]any{"from": "2024-03-01", "to": time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)}}
		record, err := mapper.FormToRecord(form, s, mapper.WithLocation(loc))
		require.NoError(t, err)
		assert.Equal(map[string]any{"start": "2024-03-01", "end": "2024-03-31"}, record["temporal"], loc.String())
	}

	// Empty range removes the field
	record, err := mapper.FormToRecord(schema.Values{"temporal": nil}, s)
	require.NoError(t, err)
	assert.NotContains(record, "temporal")

	// Invalid date is an error
	_, err = mapper.FormToRecord(schema.Values{"temporal": map[string]any{"from": "yesterday"}}, s)
	assert.Error(err)
}

func Test_FormToRecord_006(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)
	form := schema.Values{
		"theme": "g3",
		"groups": []any{
			map[string]any{"name": "g1", "type": "theme"},
			map[string]any{"name": "g2", "type": "theme"},
			map[string]any{"name": "t1", "type": "topic"},
		},
	}

	record, err := mapper.FormToRecord(form, s)
	require.NoError(t, err)
	assert.Equal([]any{"g3"}, record["theme"])
	assert.Equal([]any{
		map[string]any{"name": "t1", "type": "topic"},
		map[string]any{"name": "g3", "type": "theme"},
	}, record["groups"])

	// Empty selection removes the field, and keeps the groups
	record, err = mapper.FormToRecord(schema.Values{"topics": []any{}}, s)
	require.NoError(t, err)
	assert.NotContains(record, "topics")
}

func Test_FormToRecord_007(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)
	form := schema.Values{
		"field_physics": []any{map[string]any{"label": "quarks", "value": "quarks", "vocabulary_id": "v1"}},
		"field_biology": []any{map[string]any{"label": "cells", "value": "cells", "vocabulary_id": "v2"}},
	}

	record, err := mapper.FormToRecord(form, s)
	require.NoError(t, err)
	assert.NotContains(record, "field_physics")
	assert.NotContains(record, "field_biology")
	assert.JSONEq(`[{"name":"cells","vocabulary_id":"v2"},{"name":"quarks","vocabulary_id":"v1"}]`, record["field"].(string))

	// Nothing selected removes the field
	record, err = mapper.FormToRecord(schema.Values{"field": "[]", "field_physics": []any{}}, s)
	require.NoError(t, err)
	assert.NotContains(record, "field")
	assert.NotContains(record, "field_physics")
}

////////////////////////////////////////////////////////////////////////////////
// ROUND TRIP

func Test_RoundTrip_001(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)
	record := decode(t, `{
		"title": "Title",
		"tags": [{ "name": "x" }, { "name": "y" }],
		"temporal": { "start": "2024-01-01", "end": "2024-06-30" },
		"format": "csv",
		"spatial": { "spatial_type": "bbox", "value": [1.5, 2, 3, 4] },
		"notes": { "nested": [1, 2] }
	}`)

	form, err := mapper.RecordToForm(record, s, nil)
	require.NoError(t, err)
	result, err := mapper.FormToRecord(form, s)
	require.NoError(t, err)

	for _, key := range []string{"title", "tags", "temporal", "format", "spatial", "notes"} {
		assert.Equal(record[key], result[key], key)
	}
}

func Test_RoundTrip_002(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)
	vocabularies := []schema.Vocabulary{{Id: "v1", Name: "field_physics"}}

	// Vocabulary fields written by FormToRecord are read back by RecordToForm
	record, err := mapper.FormToRecord(schema.Values{
		"field_physics": []any{map[string]any{"label": "quarks", "value": "quarks", "vocabulary_id": "v1"}},
	}, s)
	require.NoError(t, err)
	form, err := mapper.RecordToForm(record, s, vocabularies)
	require.NoError(t, err)
	assert.Equal([]any{map[string]any{"label": "quarks", "value": "quarks", "vocabulary_id": "v1"}}, form["field_physics"])
}

////////////////////////////////////////////////////////////////////////////////
// ERRORS AND GROUPS

func Test_FlattenErrors_001(t *testing.T) {
	tests := []struct {
		name string
		tree string
		want schema.ValidationErrors
	}{
		{"nested", `{"a":{"b":["required"]}}`, schema.ValidationErrors{"a.b": {"required"}}},
		{"top level", `{"title":["Missing value","Too short"]}`, schema.ValidationErrors{"title": {"Missing value", "Too short"}}},
		{"list", `{"resources":[{"url":["bad"]},{}]}`, schema.ValidationErrors{"resources.0.url": {"bad"}}},
		{"dotted key", `{"spatial":{"bbox.value":["not a number"]}}`, schema.ValidationErrors{"bbox.value": {"not a number"}}},
		{"trailing dot", `{"extras":{"key.":["invalid"]}}`, schema.ValidationErrors{"key": {"invalid"}}},
		{"bare message", `"error"`, schema.ValidationErrors{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var tree any
			require.NoError(t, json.Unmarshal([]byte(test.tree), &tree))
			assert.Equal(t, test.want, mapper.FlattenErrors(tree))
		})
	}
}

func Test_FieldGroups_001(t *testing.T) {
	assert := assert.New(t)
	s := newSchema(t)
	groups := mapper.FieldGroups(s.FieldGroups, s.Fields)
	if assert.Len(groups, 2) {
		assert.Equal("about", groups[0].Name)
		assert.Equal(mapper.OtherFieldGroup, groups[1])
	}

	// All fields grouped
	groups = mapper.FieldGroups(s.FieldGroups, s.Fields[:1])
	assert.Len(groups, 1)
}
