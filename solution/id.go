package solution

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// solutionNamespace seeds the name-based UUIDs behind SolutionID
var solutionNamespace = uuid.MustParse("6f1c2f4e-3a0b-5d7e-9c8f-1b2a3c4d5e6f")

// SolutionID returns the identifier the keyed settings store files a
// solution under: the file name without extension plus eight hex digits
// derived from the absolute path, e.g. "App-1a2b3c4d". The result never
// contains a backslash.
func SolutionID(sol *Solution) string {
	return SolutionIDForPath(sol.FilePath)
}

// SolutionIDForPath is SolutionID for a solution that has not been parsed
func SolutionIDForPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	base := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	base = strings.ReplaceAll(base, `\`, "_")

	sum := uuid.NewSHA1(solutionNamespace, []byte(filepath.ToSlash(abs)))
	return base + "-" + strings.ReplaceAll(sum.String(), "-", "")[:8]
}
