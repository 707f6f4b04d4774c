package solution

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	formatVersionRegex = regexp.MustCompile(`^Microsoft Visual Studio Solution File, Format Version (\S+)`)
	vsVersionRegex     = regexp.MustCompile(`^VisualStudioVersion = (\S+)`)

	// Project("{TYPE}") = "Name", "Path", "{GUID}"
	projectRegex = regexp.MustCompile(
		`(?i)^Project\("\{([A-F0-9-]+)\}"\)\s*=\s*"([^"]+)",\s*"([^"]+)",\s*"\{([A-F0-9-]+)\}"`,
	)

	// {CHILD} = {PARENT} inside GlobalSection(NestedProjects)
	nestedProjectRegex = regexp.MustCompile(`(?i)^\s*\{([A-F0-9-]+)\}\s*=\s*\{([A-F0-9-]+)\}`)
)

// SlnParser parses text-based .sln files
type SlnParser struct{}

// NewSlnParser creates a new .sln file parser
func NewSlnParser() *SlnParser {
	return &SlnParser{}
}

// ParseSolution parses the .sln file at path
func ParseSolution(path string) (*Solution, error) {
	return NewSlnParser().Parse(path)
}

// CanParse checks if this parser supports the given file
func (p *SlnParser) CanParse(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sln")
}

// Parse reads and parses a .sln file
func (p *SlnParser) Parse(path string) (*Solution, error) {
	if !p.CanParse(path) {
		return nil, &ParseError{FilePath: path, Message: "not a .sln file"}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("cannot open file: %v", err)}
	}
	defer func() { _ = file.Close() }()

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	return p.ParseReader(file, absPath)
}

// ParseReader parses .sln content. path is recorded as the solution's
// location and used in error messages.
func (p *SlnParser) ParseReader(r io.Reader, path string) (*Solution, error) {
	sol := &Solution{
		FilePath:    path,
		SolutionDir: filepath.Dir(path),
		Projects:    []Project{},
		Folders:     []Folder{},
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	inGlobal := false
	inNestedProjects := false
	var currentProject *Project
	var currentFolder *Folder
	nesting := map[uuid.UUID]uuid.UUID{}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if matches := formatVersionRegex.FindStringSubmatch(trimmed); matches != nil {
			sol.FormatVersion = matches[1]
			continue
		}
		if matches := vsVersionRegex.FindStringSubmatch(trimmed); matches != nil {
			sol.VisualStudioVersion = matches[1]
			continue
		}

		if matches := projectRegex.FindStringSubmatch(trimmed); matches != nil {
			if currentProject != nil || currentFolder != nil {
				return nil, &ParseError{FilePath: path, Line: lineNum, Message: "Project inside a project: missing EndProject"}
			}

			typeID, err := uuid.Parse(matches[1])
			if err != nil {
				return nil, &ParseError{FilePath: path, Line: lineNum, Message: fmt.Sprintf("invalid project type GUID: %v", err)}
			}
			id, err := uuid.Parse(matches[4])
			if err != nil {
				return nil, &ParseError{FilePath: path, Line: lineNum, Message: fmt.Sprintf("invalid project GUID: %v", err)}
			}

			if typeID == ProjectTypeSolutionFolder {
				currentFolder = &Folder{Name: matches[2], ID: id, Items: []string{}}
			} else {
				currentProject = &Project{
					Name:   matches[2],
					Path:   NormalizePath(matches[3]),
					ID:     id,
					TypeID: typeID,
				}
			}
			continue
		}

		if trimmed == "EndProject" {
			switch {
			case currentProject != nil:
				sol.Projects = append(sol.Projects, *currentProject)
				currentProject = nil
			case currentFolder != nil:
				sol.Folders = append(sol.Folders, *currentFolder)
				currentFolder = nil
			}
			continue
		}

		if currentFolder != nil && strings.HasPrefix(trimmed, "ProjectSection(SolutionItems)") {
			for scanner.Scan() {
				lineNum++
				item := strings.TrimSpace(scanner.Text())
				if item == "EndProjectSection" {
					break
				}
				// "README.md = README.md"
				name, _, _ := strings.Cut(item, "=")
				if name = strings.TrimSpace(name); name != "" {
					currentFolder.Items = append(currentFolder.Items, name)
				}
			}
			continue
		}

		switch {
		case trimmed == "Global":
			inGlobal = true
		case trimmed == "EndGlobal":
			inGlobal = false
		case inGlobal && strings.HasPrefix(trimmed, "GlobalSection(NestedProjects)"):
			inNestedProjects = true
		case inGlobal && trimmed == "EndGlobalSection":
			inNestedProjects = false
		case inNestedProjects:
			if matches := nestedProjectRegex.FindStringSubmatch(trimmed); matches != nil {
				child, errChild := uuid.Parse(matches[1])
				parent, errParent := uuid.Parse(matches[2])
				if errChild == nil && errParent == nil {
					nesting[child] = parent
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{FilePath: path, Message: fmt.Sprintf("error reading file: %v", err)}
	}

	if currentProject != nil || currentFolder != nil {
		return nil, &ParseError{FilePath: path, Line: lineNum, Message: "unexpected end of file: missing EndProject"}
	}

	if sol.FormatVersion == "" {
		return nil, &ParseError{FilePath: path, Message: "missing solution file header"}
	}

	for i := range sol.Projects {
		sol.Projects[i].ParentID = nesting[sol.Projects[i].ID]
	}
	for i := range sol.Folders {
		sol.Folders[i].ParentID = nesting[sol.Folders[i].ID]
	}

	return sol, nil
}
