// Package solution reads Visual Studio .sln files and arranges their
// projects into the tree the load manager works on.
package solution

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Solution is a parsed .sln file
type Solution struct {
	// FilePath is the absolute path to the solution file
	FilePath string

	// SolutionDir is the directory containing the solution file
	SolutionDir string

	// FormatVersion is the solution file format version (e.g., "12.00")
	FormatVersion string

	// VisualStudioVersion is the Visual Studio version that last saved the file
	VisualStudioVersion string

	// Projects contains every project except solution folders, in file order
	Projects []Project

	// Folders contains the solution folders, in file order
	Folders []Folder
}

// Project is one project entry of a solution
type Project struct {
	Name     string
	Path     string    // Path as written in the solution, with forward slashes
	ID       uuid.UUID // Project instance GUID, the key profiles are stored under
	TypeID   uuid.UUID // Project type GUID (C#, VB.NET, ...)
	ParentID uuid.UUID // Containing solution folder, uuid.Nil at the top level
}

// Folder is a solution folder
type Folder struct {
	Name     string
	ID       uuid.UUID
	ParentID uuid.UUID
	Items    []string // Files listed in ProjectSection(SolutionItems)
}

// ParseError represents an error during solution file parsing
type ParseError struct {
	FilePath string
	Line     int
	Message  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Project type GUIDs for common project types
var (
	ProjectTypeCSProject      = uuid.MustParse("FAE04EC0-301F-11D3-BF4B-00C04F79EFBC")
	ProjectTypeCSProjectSDK   = uuid.MustParse("9A19103F-16F7-4668-BE54-9A1E7A4F7556")
	ProjectTypeVBProject      = uuid.MustParse("F184B08F-C81C-45F6-A57F-5ABD9991F28F")
	ProjectTypeFSProject      = uuid.MustParse("F2A71F9B-5D33-465A-A702-920D77279786")
	ProjectTypeSolutionFolder = uuid.MustParse("2150E333-8FDC-42A3-9474-1A3956D46DE8")
	ProjectTypeSharedProject  = uuid.MustParse("D954291E-2A0B-460D-934E-DC6B0785DB48")
)

// IsNETProject returns true if this is a .NET project type
func (p *Project) IsNETProject() bool {
	switch p.TypeID {
	case ProjectTypeCSProject, ProjectTypeCSProjectSDK, ProjectTypeVBProject, ProjectTypeFSProject:
		return true
	}
	return false
}

// AbsolutePath returns the project file path resolved against solutionDir
func (p *Project) AbsolutePath(solutionDir string) string {
	path := filepath.FromSlash(p.Path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(solutionDir, path)
}

// ProjectByID finds a project by its GUID
func (s *Solution) ProjectByID(id uuid.UUID) (*Project, bool) {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i], true
		}
	}
	return nil, false
}

// ProjectByName finds a project by name, ignoring case
func (s *Solution) ProjectByName(name string) (*Project, bool) {
	for i := range s.Projects {
		if strings.EqualFold(s.Projects[i].Name, name) {
			return &s.Projects[i], true
		}
	}
	return nil, false
}

// ResolveProject looks a project up by GUID (with or without braces) or by name
func (s *Solution) ResolveProject(ref string) (*Project, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if p, ok := s.ProjectByID(id); ok {
			return p, nil
		}
		return nil, fmt.Errorf("project %s is not part of %s", id, filepath.Base(s.FilePath))
	}

	if p, ok := s.ProjectByName(ref); ok {
		return p, nil
	}
	return nil, fmt.Errorf("no project named %q in %s", ref, filepath.Base(s.FilePath))
}

// ProjectIDs returns the GUIDs of all projects in file order
func (s *Solution) ProjectIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Projects))
	for _, p := range s.Projects {
		ids = append(ids, p.ID)
	}
	return ids
}

// NormalizePath converts Windows-style separators to forward slashes and
// collapses repeated separators, keeping a UNC "//" prefix.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}

	isUNC := strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
	normalized := strings.ReplaceAll(path, `\`, "/")
	rooted := strings.HasPrefix(normalized, "/")
	normalized = strings.TrimLeft(normalized, "/")
	if rooted && !isUNC {
		normalized = "/" + normalized
	}

	for strings.Contains(normalized, "//") {
		normalized = strings.ReplaceAll(normalized, "//", "/")
	}

	if isUNC {
		return "//" + normalized
	}
	return normalized
}
