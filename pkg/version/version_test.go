package version_test

import (
	"encoding/json"
	"runtime"
	"testing"

	// Packages
	version "github.com/mutablelogic/go-catalog/pkg/version"
	assert "github.com/stretchr/testify/assert"
)

func Test_Version(t *testing.T) {
	assert := assert.New(t)

	t.Run("Tag", func(t *testing.T) {
		version.GitTag, version.GitBranch = "v1.2.3", "main"
		defer func() { version.GitTag, version.GitBranch = "", "" }()
		assert.Equal("v1.2.3", version.Version())
	})

	t.Run("Branch", func(t *testing.T) {
		version.GitBranch = "main"
		defer func() { version.GitBranch = "" }()
		assert.Equal("main", version.Version())
	})

	t.Run("JSON", func(t *testing.T) {
		var info version.Info
		assert.NoError(json.Unmarshal(version.JSON("catalog"), &info))
		assert.Equal("catalog", info.Name)
		assert.Equal(runtime.Version(), info.Compiler)
		assert.NotEmpty(info.Version)
	})
}
