package schema

import (
	"fmt"
	"net/http"
	"strings"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ContentRange is a parsed Content-Range header. Numeric fields are nil when
// the header carries "*".
type ContentRange struct {
	Unit  string `json:"unit"`
	Start *int64 `json:"start"`
	End   *int64 `json:"end"`
	Size  *int64 `json:"size"`
}

// Chunk is the response to a single range request
type Chunk struct {
	Header http.Header
	Body   []byte
}

// ResponseError is returned when a range request does not succeed. It
// carries the response rather than an interpretation of it.
type ResponseError struct {
	StatusCode int         `json:"status"`
	Status     string      `json:"reason,omitempty"`
	URL        string      `json:"url,omitempty"`
	Header     http.Header `json:"-"`
	Body       []byte      `json:"-"`
}

// Row is one parsed line of delimited text, keyed by column header
type Row map[string]any

// SampleRequest selects the leading rows of a remote file
type SampleRequest struct {
	URL   string `json:"url"`
	Rows  int    `json:"rows,omitempty"`
	Chunk int64  `json:"chunk,omitempty"`
	Token string `json:"-"`
}

// SampleResult holds the leading rows of a remote file
type SampleResult struct {
	Data         []Row `json:"data"`
	IsEntireFile bool  `json:"isEntireFile"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r ContentRange) String() string {
	return types.Stringify(r)
}

func (r SampleRequest) String() string {
	return types.Stringify(r)
}

func (r SampleResult) String() string {
	return types.Stringify(r)
}

////////////////////////////////////////////////////////////////////////////////
// ERROR

func (e *ResponseError) Error() string {
	var parts []string
	if e.Status != "" {
		parts = append(parts, e.Status)
	} else {
		parts = append(parts, fmt.Sprint(e.StatusCode, " ", http.StatusText(e.StatusCode)))
	}
	if e.URL != "" {
		parts = append(parts, e.URL)
	}
	return "range request failed: " + strings.Join(parts, " ")
}
