package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Field is one entry of a dataset schema. The set of implementations is
// closed: each variant carries only the parameters its transformation needs.
type Field interface {
	// Name returns the unique field name
	Name() string

	// Group returns the name of the field group, or empty
	Group() string

	field()
}

// FieldBase holds the attributes shared by every field kind
type FieldBase struct {
	FieldName string `json:"field_name"`
	Label     Text   `json:"label,omitempty"`
	GroupName string `json:"group_name,omitempty"`
	Required  bool   `json:"required,omitempty"`
	Preset    string `json:"preset,omitempty"`
	HelpText  Text   `json:"help_text,omitempty"`
}

type PlainField struct{ FieldBase }
type CheckboxField struct{ FieldBase }
type JSONField struct{ FieldBase }
type DateRangeField struct{ FieldBase }
type DateTimeRangeField struct{ FieldBase }
type MultiSelectField struct{ FieldBase }
type SpatialField struct{ FieldBase }
type VocabularyField struct{ FieldBase }
type TagsField struct{ FieldBase }

// SelectGroupField stores its value as membership of the record's groups
// of type GroupType
type SelectGroupField struct {
	FieldBase
	GroupType   string
	MaxSelected int
}

// FieldGroup is a named group of fields, used for presentation only
type FieldGroup struct {
	Name  string `json:"name"`
	Label Text   `json:"label,omitempty"`
}

// DatasetSchema describes the fields of one dataset type
type DatasetSchema struct {
	DatasetType    string
	About          string
	Fields         []Field
	FieldGroups    []FieldGroup
	ResourceFields []Field
}

// Text is a label which the catalog sends either as a plain string or as a
// map of language code to string
type Text string

// react_input values
const (
	inputCheckbox      = "checkbox"
	inputJSON          = "json"
	inputDateRange     = "date_range"
	inputDateTimeRange = "date_time_range"
	inputSelectGroup   = "select_group"
	inputMultiSelect   = "multi_select"
	inputSpatial       = "spatial"
	inputVocabulary    = "vocabulary"
	inputTags          = "tags"
)

type fieldJSON struct {
	FieldBase
	ReactInput  string `json:"react_input,omitempty"`
	GroupType   string `json:"react_input_group_type,omitempty"`
	MaxSelected any    `json:"react_input_max_selected,omitempty"`
}

type datasetSchemaJSON struct {
	DatasetType    string       `json:"dataset_type"`
	About          string       `json:"about,omitempty"`
	Fields         []fieldJSON  `json:"dataset_fields"`
	FieldGroups    []FieldGroup `json:"dataset_fields_groups,omitempty"`
	ResourceFields []fieldJSON  `json:"resource_fields,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// FIELD

func (f FieldBase) Name() string {
	return f.FieldName
}

func (f FieldBase) Group() string {
	return f.GroupName
}

func (*FieldBase) field() {}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s DatasetSchema) String() string {
	return types.Stringify(s)
}

func (g FieldGroup) String() string {
	return types.Stringify(g)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Field returns a field by name, or nil
func (s DatasetSchema) Field(name string) Field {
	for _, field := range s.Fields {
		if field.Name() == name {
			return field
		}
	}
	return nil
}

// Vocabularies returns the vocabulary fields in schema order
func (s DatasetSchema) Vocabularies() []*VocabularyField {
	var result []*VocabularyField
	for _, field := range s.Fields {
		if v, ok := field.(*VocabularyField); ok {
			result = append(result, v)
		}
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// JSON

func (s DatasetSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(datasetSchemaJSON{
		DatasetType:    s.DatasetType,
		About:          s.About,
		Fields:         encodeFields(s.Fields),
		FieldGroups:    s.FieldGroups,
		ResourceFields: encodeFields(s.ResourceFields),
	})
}

func (s *DatasetSchema) UnmarshalJSON(data []byte) error {
	var v datasetSchemaJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	fields, err := decodeFields(v.Fields)
	if err != nil {
		return err
	}
	resourceFields, err := decodeFields(v.ResourceFields)
	if err != nil {
		return err
	}
	*s = DatasetSchema{
		DatasetType:    v.DatasetType,
		About:          v.About,
		Fields:         fields,
		FieldGroups:    v.FieldGroups,
		ResourceFields: resourceFields,
	}
	return nil
}

func (t *Text) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*t = Text(str)
		return nil
	}
	var lang map[string]string
	if err := json.Unmarshal(data, &lang); err != nil {
		return fmt.Errorf("text must be a string or a map of strings: %w", err)
	}
	if str, exists := lang["en"]; exists {
		*t = Text(str)
		return nil
	}
	keys := make([]string, 0, len(lang))
	for k := range lang {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		*t = Text(lang[keys[0]])
	} else {
		*t = ""
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func decodeFields(in []fieldJSON) ([]Field, error) {
	result := make([]Field, 0, len(in))
	names := make(map[string]bool, len(in))
	for _, v := range in {
		if v.FieldName == "" {
			return nil, fmt.Errorf("field without a field_name")
		} else if names[v.FieldName] {
			return nil, fmt.Errorf("duplicate field_name %q", v.FieldName)
		} else {
			names[v.FieldName] = true
		}
		result = append(result, decodeField(v))
	}
	return result, nil
}

func decodeField(v fieldJSON) Field {
	switch v.ReactInput {
	case inputCheckbox:
		return &CheckboxField{v.FieldBase}
	case inputJSON:
		return &JSONField{v.FieldBase}
	case inputDateRange:
		return &DateRangeField{v.FieldBase}
	case inputDateTimeRange:
		return &DateTimeRangeField{v.FieldBase}
	case inputSelectGroup:
		return &SelectGroupField{
			FieldBase:   v.FieldBase,
			GroupType:   v.GroupType,
			MaxSelected: toInt(v.MaxSelected),
		}
	case inputMultiSelect:
		return &MultiSelectField{v.FieldBase}
	case inputSpatial:
		return &SpatialField{v.FieldBase}
	case inputVocabulary:
		return &VocabularyField{v.FieldBase}
	case inputTags:
		return &TagsField{v.FieldBase}
	default:
		return &PlainField{v.FieldBase}
	}
}

func encodeFields(in []Field) []fieldJSON {
	if in == nil {
		return nil
	}
	result := make([]fieldJSON, 0, len(in))
	for _, field := range in {
		result = append(result, encodeField(field))
	}
	return result
}

func encodeField(field Field) fieldJSON {
	switch f := field.(type) {
	case *CheckboxField:
		return fieldJSON{FieldBase: f.FieldBase, ReactInput: inputCheckbox}
	case *JSONField:
		return fieldJSON{FieldBase: f.FieldBase, ReactInput: inputJSON}
	case *DateRangeField:
		return fieldJSON{FieldBase: f.FieldBase, ReactInput: inputDateRange}
	case *DateTimeRangeField:
		return fieldJSON{FieldBase: f.FieldBase, ReactInput: inputDateTimeRange}
	case *SelectGroupField:
		v := fieldJSON{FieldBase: f.FieldBase, ReactInput: inputSelectGroup, GroupType: f.GroupType}
		if f.MaxSelected != 0 {
			v.MaxSelected = f.MaxSelected
		}
		return v
	case *MultiSelectField:
		return fieldJSON{FieldBase: f.FieldBase, ReactInput: inputMultiSelect}
	case *SpatialField:
		return fieldJSON{FieldBase: f.FieldBase, ReactInput: inputSpatial}
	case *VocabularyField:
		return fieldJSON{FieldBase: f.FieldBase, ReactInput: inputVocabulary}
	case *TagsField:
		return fieldJSON{FieldBase: f.FieldBase, ReactInput: inputTags}
	case *PlainField:
		return fieldJSON{FieldBase: f.FieldBase}
	default:
		return fieldJSON{FieldBase: FieldBase{FieldName: field.Name(), GroupName: field.Group()}}
	}
}

// The catalog sends max_selected as a number or as a string
func toInt(v any) int {
	switch v := v.(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}
