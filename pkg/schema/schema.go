package schema

////////////////////////////////////////////////////////////////////////////////
// TYPES

const (
	SchemaName = "catalog"

	// HTTP headers
	AuthorizationHeader = "Authorization"
	CSRFTokenHeader     = "X-CSRFToken"
	RangeHeader         = "Range"
	ContentRangeHeader  = "Content-Range"

	// Catalog API paths
	ActionPath       = "api/3/action"
	AutocompletePath = "api/2/util/tag/autocomplete"

	// Form value written by RecordToForm
	StateDraft = "draft"

	// Access rights value which keeps an embargo date
	AccessRightsEmbargoed = "embargoed"

	// Placeholder for a resource identifier which is not yet known
	ResourcePlaceholder = "REPLACE_HERE"
)

const (
	// Default number of rows returned by the sampler
	DefaultSampleRows = 10

	// Default size of each range request made by the sampler
	DefaultChunkSize = 64 * 1024

	// MaxListParts is the maximum number of parts returned by ListParts
	MaxListParts = 1000

	// MaxFilenameLength is the maximum length of an uploaded file name
	MaxFilenameLength = 255
)
