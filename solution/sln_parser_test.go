package solution

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	webAPIID      = uuid.MustParse("0d5e9b1a-6c3f-4b5e-8a7d-2f1c3e4b5a61")
	webAPITestsID = uuid.MustParse("9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a")
	dataLayerID   = uuid.MustParse("11111111-2222-4333-8444-555555555555")
	testsFolderID = uuid.MustParse("3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5e6f")
	integrationID = uuid.MustParse("7b8c9d0e-1f2a-4b3c-9d4e-5f6a7b8c9d0e")
)

func TestSlnParser_CanParse(t *testing.T) {
	parser := NewSlnParser()

	tests := []struct {
		path string
		want bool
	}{
		{"solution.sln", true},
		{"Solution.SLN", true},
		{"My.Solution.sln", true},
		{"solution.slnx", false},
		{"solution.sln.slm", false},
		{"project.csproj", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := parser.CanParse(tt.path); got != tt.want {
				t.Errorf("CanParse(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseSolution(t *testing.T) {
	sol, err := ParseSolution("testdata/App.sln")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(sol.FilePath))
	assert.Equal(t, "12.00", sol.FormatVersion)
	assert.Equal(t, "17.8.34330.188", sol.VisualStudioVersion)

	require.Len(t, sol.Projects, 3)
	assert.Equal(t, Project{
		Name:   "WebApi",
		Path:   "src/WebApi/WebApi.csproj",
		ID:     webAPIID,
		TypeID: ProjectTypeCSProjectSDK,
	}, sol.Projects[0])
	assert.Equal(t, integrationID, sol.Projects[1].ParentID)
	assert.Equal(t, ProjectTypeCSProject, sol.Projects[2].TypeID)
	assert.True(t, sol.Projects[2].IsNETProject())

	require.Len(t, sol.Folders, 3)
	assert.Equal(t, "Solution Items", sol.Folders[1].Name)
	assert.Equal(t, []string{"README.md", ".editorconfig"}, sol.Folders[1].Items)
	assert.Equal(t, testsFolderID, sol.Folders[2].ParentID)

	assert.Equal(t, []uuid.UUID{webAPIID, webAPITestsID, dataLayerID}, sol.ProjectIDs())
	assert.Equal(t,
		filepath.Join(sol.SolutionDir, "src", "WebApi", "WebApi.csproj"),
		sol.Projects[0].AbsolutePath(sol.SolutionDir))
}

func TestParseSolution_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no header", "Project(\"{9A19103F-16F7-4668-BE54-9A1E7A4F7556}\") = \"A\", \"A.csproj\", \"{0D5E9B1A-6C3F-4B5E-8A7D-2F1C3E4B5A61}\"\nEndProject\n"},
		{"missing EndProject", "Microsoft Visual Studio Solution File, Format Version 12.00\nProject(\"{9A19103F-16F7-4668-BE54-9A1E7A4F7556}\") = \"A\", \"A.csproj\", \"{0D5E9B1A-6C3F-4B5E-8A7D-2F1C3E4B5A61}\"\n"},
		{"bad guid", "Microsoft Visual Studio Solution File, Format Version 12.00\nProject(\"{9A19103F-16F7-4668-BE54-9A1E7A4F7556}\") = \"A\", \"A.csproj\", \"{0D5E9B1A-6C3F}\"\nEndProject\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSlnParser().ParseReader(strings.NewReader(tt.content), "/src/App.sln")
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("ParseReader() error = %v, want *ParseError", err)
			}
			if parseErr.FilePath != "/src/App.sln" {
				t.Errorf("FilePath = %q, want /src/App.sln", parseErr.FilePath)
			}
		})
	}

	if _, err := ParseSolution("testdata/missing.sln"); err == nil {
		t.Error("ParseSolution() should error on missing file")
	}
	if _, err := ParseSolution("testdata/App.txt"); err == nil {
		t.Error("ParseSolution() should error on non-.sln file")
	}
}

func TestResolveProject(t *testing.T) {
	sol, err := ParseSolution("testdata/App.sln")
	require.NoError(t, err)

	tests := []struct {
		ref     string
		want    uuid.UUID
		wantErr bool
	}{
		{"WebApi", webAPIID, false},
		{"webapi.tests", webAPITestsID, false},
		{"{11111111-2222-4333-8444-555555555555}", dataLayerID, false},
		{"0D5E9B1A-6C3F-4B5E-8A7D-2F1C3E4B5A61", webAPIID, false},
		{"Missing", uuid.Nil, true},
		{"aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee", uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			p, err := sol.ResolveProject(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ID)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`src\App\App.csproj`, "src/App/App.csproj"},
		{`src\\App//App.csproj`, "src/App/App.csproj"},
		{`\\server\share\App.csproj`, "//server/share/App.csproj"},
		{"/abs/App.csproj", "/abs/App.csproj"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.input); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
