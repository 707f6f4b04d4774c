package solution

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSolutionFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"App.sln", true},
		{"APP.SLN", true},
		{"App.sln.slm", false},
		{"App.csproj", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSolutionFile(tt.path); got != tt.want {
			t.Errorf("IsSolutionFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDetectSolution(t *testing.T) {
	dir := t.TempDir()

	result, err := NewDetector(dir).DetectSolution()
	require.NoError(t, err)
	assert.False(t, result.Found)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "App.sln"), []byte{}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "App.sln.slm"), []byte{}, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "Other.sln"), []byte{}, 0644))

	result, err = NewDetector(dir).DetectSolution()
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.Ambiguous)
	assert.Equal(t, "App.sln", filepath.Base(result.SolutionPath))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Second.sln"), []byte{}, 0644))
	result, err = NewDetector(dir).DetectSolution()
	require.NoError(t, err)
	assert.True(t, result.Ambiguous)
	assert.Len(t, result.FoundFiles, 2)
	assert.Empty(t, result.SolutionPath)
}

func TestValidateSolutionFile(t *testing.T) {
	dir := t.TempDir()
	sln := filepath.Join(dir, "App.sln")
	require.NoError(t, os.WriteFile(sln, []byte{}, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Dir.sln"), 0755))

	assert.NoError(t, ValidateSolutionFile(sln))
	assert.Error(t, ValidateSolutionFile(filepath.Join(dir, "Missing.sln")))
	assert.Error(t, ValidateSolutionFile(filepath.Join(dir, "Dir.sln")))
	assert.Error(t, ValidateSolutionFile(filepath.Join(dir, "App.txt")))
}

func TestSolutionID(t *testing.T) {
	id := SolutionIDForPath("/src/one/App.sln")
	assert.Regexp(t, `^App-[0-9a-f]{8}$`, id)

	// Stable for the same path, distinct for a same-named solution elsewhere
	assert.Equal(t, id, SolutionIDForPath("/src/one/App.sln"))
	assert.NotEqual(t, id, SolutionIDForPath("/src/two/App.sln"))

	assert.Equal(t, id, SolutionID(&Solution{FilePath: "/src/one/App.sln"}))
	assert.NotContains(t, SolutionIDForPath(`/src/odd\name.sln`), `\`)
}
