package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleDump mimics the shape of a `moose-app --json` dump: template layers
// (star, subblock_types) wrapping real objects that carry a parameters map.
const sampleDump = `{
  "blocks": {
    "Kernels": {
      "star": {
        "subblock_types": {
          "HeatConduction": {
            "parameters": {
              "type": {"default": ""},
              "variable": {"default": ""},
              "block": {"default": ""}
            }
          },
          "Diffusion": {
            "parameters": {
              "type": {"default": ""},
              "variable": {"default": ""}
            }
          }
        }
      }
    },
    "Mesh": {
      "subblock_types": {
        "GeneratedMeshGenerator": {
          "parameters": {
            "dim": {"default": "1"},
            "nx": {"default": "1"},
            "active": {"default": ""}
          }
        }
      }
    }
  }
}`

func TestBuild(t *testing.T) {
	names, syntaxMap, err := Build([]byte(sampleDump))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Kernels/Diffusion",
		"Kernels/HeatConduction",
		"Mesh/GeneratedMeshGenerator",
	}, names)

	// Every name has a snippet and vice versa.
	assert.Len(t, syntaxMap, len(names))
	for _, name := range names {
		assert.Contains(t, syntaxMap, name)
	}
}

func TestBuildSnippetFormat(t *testing.T) {
	_, syntaxMap, err := Build([]byte(sampleDump))
	require.NoError(t, err)

	want := "[Kernels]\n" +
		"  type = HeatConduction\n" +
		"  block = \n" +
		"  variable = \n" +
		"[../]"
	assert.Equal(t, want, syntaxMap["Kernels/HeatConduction"])

	// Noise parameters (type, active, inactive) never become lines.
	assert.NotContains(t, syntaxMap["Mesh/GeneratedMeshGenerator"], "active")
}

func TestBuildErrors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		_, _, err := Build([]byte("{nope"))
		assert.Error(t, err)
	})

	t.Run("no objects discovered", func(t *testing.T) {
		_, _, err := Build([]byte(`{"blocks": {"Mesh": {"star": {}}}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no objects discovered")
	})
}

func TestBuildIsDeterministic(t *testing.T) {
	namesA, mapA, err := Build([]byte(sampleDump))
	require.NoError(t, err)
	namesB, mapB, err := Build([]byte(sampleDump))
	require.NoError(t, err)

	objA, rawA, err := MarshalArtifacts(namesA, mapA)
	require.NoError(t, err)
	objB, rawB, err := MarshalArtifacts(namesB, mapB)
	require.NoError(t, err)

	assert.Equal(t, objA, objB)
	assert.Equal(t, rawA, rawB)
}

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects.json")

	wrote, err := WriteIfChanged(path, []byte(`["a"]`))
	require.NoError(t, err)
	assert.True(t, wrote)

	info1, err := os.Stat(path)
	require.NoError(t, err)

	// Same content: no write, mtime untouched.
	wrote, err = WriteIfChanged(path, []byte(`["a"]`))
	require.NoError(t, err)
	assert.False(t, wrote)

	info2, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info1.ModTime(), info2.ModTime())

	// New content: written.
	wrote, err = WriteIfChanged(path, []byte(`["a","b"]`))
	require.NoError(t, err)
	assert.True(t, wrote)
}

func TestLoadObjectNames(t *testing.T) {
	t.Run("loads valid list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "objects.json")
		require.NoError(t, os.WriteFile(path, []byte(`["Mesh/GeneratedMeshGenerator","Outputs/CSV"]`), 0o644))

		names, err := LoadObjectNames(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Mesh/GeneratedMeshGenerator", "Outputs/CSV"}, names)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadObjectNames(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "objects.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
		_, err := LoadObjectNames(path)
		assert.Error(t, err)
	})
}

func TestLoadSyntaxMap(t *testing.T) {
	t.Run("loads valid map", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "syntax_map.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"Outputs/CSV":"[Outputs]\n  type = CSV\n[../]"}`), 0o644))

		m, err := LoadSyntaxMap(path)
		require.NoError(t, err)
		assert.Contains(t, m, "Outputs/CSV")
	})

	t.Run("missing file mentions make-objects", func(t *testing.T) {
		_, err := LoadSyntaxMap(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "make-objects")
	})

	t.Run("empty map rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "syntax_map.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
		_, err := LoadSyntaxMap(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})
}
