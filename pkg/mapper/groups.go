package mapper

import (
	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// OtherFieldGroup holds the fields which do not name a group
var OtherFieldGroup = schema.FieldGroup{Name: "others", Label: "Others"}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// FieldGroups returns the groups which at least one field belongs to, in
// schema order, followed by the group of ungrouped fields when there are any
func FieldGroups(groups []schema.FieldGroup, fields []schema.Field) []schema.FieldGroup {
	used := make(map[string]bool, len(groups)+1)
	for _, field := range fields {
		if group := field.Group(); group != "" {
			used[group] = true
		} else {
			used[OtherFieldGroup.Name] = true
		}
	}

	result := make([]schema.FieldGroup, 0, len(groups)+1)
	for _, group := range append(append([]schema.FieldGroup{}, groups...), OtherFieldGroup) {
		if used[group.Name] {
			result = append(result, group)
			delete(used, group.Name)
		}
	}
	return result
}
