package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSolutionFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "App.sln")
	require.NoError(t, os.WriteFile(path, []byte("Microsoft Visual Studio Solution File, Format Version 12.00\n"), 0644))
	return path
}

func TestNewXMLManager_InvalidSolution(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"missing", filepath.Join(dir, "missing.sln")},
		{"directory", dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewXMLManager(XMLManagerConfig{SolutionPath: tt.path})
			if !errors.Is(err, ErrInvalidSolution) {
				t.Errorf("NewXMLManager() error = %v, want ErrInvalidSolution", err)
			}
		})
	}
}

func TestNewXMLManager_NoSidecar(t *testing.T) {
	sln := createSolutionFile(t)

	m, err := NewXMLManager(XMLManagerConfig{SolutionPath: sln})
	require.NoError(t, err)
	assert.Equal(t, sln+".slm", m.SettingsPath())

	active, err := m.ActiveProfile()
	require.NoError(t, err)
	assert.Equal(t, DefaultProfileName, active)

	profiles, err := m.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultProfileName}, profiles)

	// Reading alone does not create the file
	_, err = os.Stat(m.SettingsPath())
	assert.True(t, os.IsNotExist(err))
}

func TestNewXMLManager_MalformedSidecar(t *testing.T) {
	sln := createSolutionFile(t)
	require.NoError(t, os.WriteFile(SidecarPath(sln), []byte("<SolutionLoadInfo><Profiles>"), 0644))

	_, err := NewXMLManager(XMLManagerConfig{SolutionPath: sln})
	assert.Error(t, err)
}

func TestNewXMLManager_RejectsUnrepairableSidecar(t *testing.T) {
	id := uuid.MustParse("2150E333-8FDC-42A3-9474-1A3956D46DE8")

	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "duplicate profile names",
			doc: &Document{ActiveProfileName: "A", Profiles: []*Profile{
				NewProfile("A"), NewProfile("A"),
			}},
			wantErr: ErrProfileAlreadyExists,
		},
		{
			name: "empty profile name",
			doc: &Document{ActiveProfileName: "A", Profiles: []*Profile{
				NewProfile("A"), NewProfile(""),
			}},
			wantErr: ErrInvalidProfileName,
		},
		{
			name: "separator in profile name",
			doc: &Document{ActiveProfileName: "A", Profiles: []*Profile{
				NewProfile(`A\B`),
			}},
			wantErr: ErrInvalidProfileName,
		},
		{
			name: "duplicate project entry",
			doc: &Document{ActiveProfileName: "A", Profiles: []*Profile{{
				Name: "A",
				Projects: []ProjectEntry{
					{ProjectID: id, Priority: LoadIfNeeded},
					{ProjectID: id, Priority: ExplicitLoadOnly},
				},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sln := createSolutionFile(t)
			require.NoError(t, SaveDocument(SidecarPath(sln), tt.doc))

			_, err := NewXMLManager(XMLManagerConfig{SolutionPath: sln})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewXMLManager_RepairsDanglingActiveProfile(t *testing.T) {
	sln := createSolutionFile(t)
	doc := &Document{ActiveProfileName: "Gone", Profiles: []*Profile{NewProfile("Fast")}}
	require.NoError(t, SaveDocument(SidecarPath(sln), doc))

	m, err := NewXMLManager(XMLManagerConfig{SolutionPath: sln})
	require.NoError(t, err)

	active, err := m.ActiveProfile()
	require.NoError(t, err)
	assert.Equal(t, "Fast", active)
}

func TestXMLManager_PersistsEveryChange(t *testing.T) {
	sln := createSolutionFile(t)

	m, err := NewXMLManager(XMLManagerConfig{SolutionPath: sln})
	require.NoError(t, err)

	require.NoError(t, m.AddProfile("Fast", ""))
	require.NoError(t, m.SetProjectLoadPriority("Fast", testProject1, ExplicitLoadOnly))
	require.NoError(t, m.SetActiveProfile("Fast"))

	onDisk, err := LoadDocument(m.SettingsPath())
	require.NoError(t, err)
	assert.Equal(t, "Fast", onDisk.ActiveProfileName)
	assert.Equal(t, []string{DefaultProfileName, "Fast"}, onDisk.ProfileNames())
	assert.Equal(t, ExplicitLoadOnly, onDisk.Profile("Fast").Priority(testProject1))

	// A second manager sees the same state
	reopened, err := NewXMLManager(XMLManagerConfig{SolutionPath: sln})
	require.NoError(t, err)
	p, err := reopened.ProjectLoadPriority("Fast", testProject1)
	require.NoError(t, err)
	assert.Equal(t, ExplicitLoadOnly, p)
}

func TestXMLManager_FailedSaveLeavesStateUnchanged(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	sln := createSolutionFile(t)
	m, err := NewXMLManager(XMLManagerConfig{SolutionPath: sln})
	require.NoError(t, err)

	dir := filepath.Dir(sln)
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	assert.Error(t, m.AddProfile("Fast", ""))

	profiles, err := m.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultProfileName}, profiles)
}

func TestXMLManager_RenameKeepsOrderAndEntries(t *testing.T) {
	sln := createSolutionFile(t)
	m, err := NewXMLManager(XMLManagerConfig{SolutionPath: sln})
	require.NoError(t, err)

	require.NoError(t, m.AddProfile("Fast", ""))
	require.NoError(t, m.SetProjectLoadPriority(DefaultProfileName, testProject2, BackgroundLoad))
	require.NoError(t, m.RenameProfile(DefaultProfileName, "Everything"))

	profiles, err := m.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"Everything", "Fast"}, profiles)

	active, err := m.ActiveProfile()
	require.NoError(t, err)
	assert.Equal(t, "Everything", active)

	p, err := m.ProjectLoadPriority("Everything", testProject2)
	require.NoError(t, err)
	assert.Equal(t, BackgroundLoad, p)
}
