package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Values is a catalog record or a set of form values, keyed by field name.
// The shape of each value depends on the kind of the field.
type Values map[string]any

// Tag is a free or vocabulary-scoped tag on a record
type Tag struct {
	Id           string `json:"id,omitempty"`
	Name         string `json:"name"`
	DisplayName  string `json:"display_name,omitempty"`
	VocabularyId string `json:"vocabulary_id,omitempty"`
}

// Vocabulary is a named controlled tag namespace
type Vocabulary struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Tags []Tag  `json:"tags,omitempty"`
}

// Group is a catalog group. Groups have a type, and select-group fields store
// their values as membership of groups of one type.
type Group struct {
	Id           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	Description  string `json:"description,omitempty"`
	Type         string `json:"type,omitempty"`
	ImageURL     string `json:"image_display_url,omitempty"`
	PackageCount int    `json:"package_count,omitempty"`
}

// License is one entry of the catalog license list
type License struct {
	Id    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Auth carries the credentials of the user on whose behalf the catalog is
// called
type Auth struct {
	Token string `json:"-"`
	CSRF  string `json:"-"`
}

// GroupListRequest selects the groups returned by GroupList
type GroupListRequest struct {
	Type string `json:"type"`
}

// AuthorizeResponse is returned by the authorization action
type AuthorizeResponse struct {
	Token     string   `json:"token"`
	ExpiresAt float64  `json:"expires_at,omitempty"`
	UserId    string   `json:"user_id,omitempty"`
	Scopes    []string `json:"requested_scopes,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (v Values) String() string {
	return types.Stringify(v)
}

func (v Vocabulary) String() string {
	return types.Stringify(v)
}

func (g Group) String() string {
	return types.Stringify(g)
}

func (l License) String() string {
	return types.Stringify(l)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Id returns the record identifier, or the name when there is no identifier
func (v Values) Id() string {
	if id, ok := v["id"].(string); ok && id != "" {
		return id
	}
	if name, ok := v["name"].(string); ok {
		return name
	}
	return ""
}

// Type returns the dataset type of a record
func (v Values) Type() string {
	if t, ok := v["type"].(string); ok {
		return t
	}
	return ""
}
