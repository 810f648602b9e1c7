package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// RecordToFormRequest converts a record into form values. When Schema is
// nil, the schema for the dataset type is fetched from the catalog.
type RecordToFormRequest struct {
	Record       Values         `json:"record"`
	Schema       *DatasetSchema `json:"schema,omitempty"`
	Vocabularies []Vocabulary   `json:"vocabularies,omitempty"`
}

// FormToRecordRequest converts form values into a record
type FormToRecordRequest struct {
	Form   Values         `json:"form"`
	Schema *DatasetSchema `json:"schema,omitempty"`
}

// Form is a record prepared for editing, with the schema used to prepare it
type Form struct {
	Values      Values         `json:"values"`
	Schema      *DatasetSchema `json:"schema,omitempty"`
	FieldGroups []FieldGroup   `json:"field_groups,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (f Form) String() string {
	return types.Stringify(f)
}
