package solution

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Detector finds the solution file a command should work on
type Detector struct {
	// SearchDir is the directory to look in
	SearchDir string
}

// NewDetector creates a detector for searchDir ("" means the working directory)
func NewDetector(searchDir string) *Detector {
	if searchDir == "" {
		searchDir = "."
	}
	return &Detector{SearchDir: searchDir}
}

// IsSolutionFile checks if a file path has the .sln extension
func IsSolutionFile(path string) bool {
	if path == "" {
		return false
	}
	return strings.EqualFold(filepath.Ext(path), ".sln")
}

// DetectionResult contains the result of solution file detection
type DetectionResult struct {
	// Found indicates if any solution file was found
	Found bool

	// Ambiguous indicates if more than one solution file was found
	Ambiguous bool

	// SolutionPath is the absolute path of the solution when exactly one was found
	SolutionPath string

	// FoundFiles lists all solution files found, sorted
	FoundFiles []string
}

// DetectSolution looks for .sln files directly inside SearchDir. Like the
// dotnet CLI it does not descend into subdirectories.
func (d *Detector) DetectSolution() (*DetectionResult, error) {
	entries, err := os.ReadDir(d.SearchDir)
	if err != nil {
		return nil, fmt.Errorf("error searching for solution files: %w", err)
	}

	result := &DetectionResult{FoundFiles: []string{}}
	for _, entry := range entries {
		if entry.IsDir() || !IsSolutionFile(entry.Name()) {
			continue
		}
		path := filepath.Join(d.SearchDir, entry.Name())
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		result.FoundFiles = append(result.FoundFiles, path)
	}
	sort.Strings(result.FoundFiles)

	switch len(result.FoundFiles) {
	case 0:
	case 1:
		result.Found = true
		result.SolutionPath = result.FoundFiles[0]
	default:
		result.Found = true
		result.Ambiguous = true
	}
	return result, nil
}

// ValidateSolutionFile checks if a solution file exists and is readable
func ValidateSolutionFile(path string) error {
	if !IsSolutionFile(path) {
		return fmt.Errorf("not a solution file (must have .sln extension): %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("solution file not found: %s", path)
		}
		return fmt.Errorf("cannot access solution file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a solution file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read solution file: %w", err)
	}
	_ = file.Close()

	return nil
}
