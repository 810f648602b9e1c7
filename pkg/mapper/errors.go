package mapper

import (
	"sort"
	"strconv"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// FlattenErrors flattens a tree of validation errors, as returned by the
// catalog, into messages keyed by dotted field path. A path segment is
// dropped when the segment after it already contains a dot.
func FlattenErrors(tree any) schema.ValidationErrors {
	result := make(schema.ValidationErrors)
	flattenErrors(tree, nil, result)
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func flattenErrors(node any, path []string, result schema.ValidationErrors) {
	if message, ok := node.(string); ok {
		if key := errorKey(path); key != "" {
			result.Add(key, message)
		}
		return
	}

	// Messages are leaves of their parent, so do not extend the path
	visit := func(key string, child any) {
		if _, ok := child.(string); ok {
			flattenErrors(child, path, result)
		} else {
			flattenErrors(child, append(append(make([]string, 0, len(path)+1), path...), key), result)
		}
	}

	if m, ok := asMap(node); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			visit(k, m[k])
		}
	} else if list, ok := asList(node); ok {
		for i, child := range list {
			visit(strconv.Itoa(i), child)
		}
	} else if errs, ok := node.(schema.ValidationErrors); ok {
		for _, k := range errs.Keys() {
			visit(k, errs[k])
		}
	}
}

func errorKey(path []string) string {
	segments := make([]string, 0, len(path))
	for i, segment := range path {
		if i+1 < len(path) && strings.Contains(path[i+1], ".") {
			continue
		}
		segments = append(segments, segment)
	}
	return strings.TrimSuffix(strings.Join(segments, "."), ".")
}
