package output

import (
	"encoding/json"
	"io"
	"time"
)

// CurrentSchemaVersion is the version of the JSON documents below
const CurrentSchemaVersion = "1.0.0"

// JSON output types matching the schema contract

// ProfileListOutput represents the JSON output for profile list
type ProfileListOutput struct {
	SchemaVersion string           `json:"schemaVersion"`
	Solution      string           `json:"solution"`
	Backend       string           `json:"backend"`
	ActiveProfile string           `json:"activeProfile"`
	Profiles      []ProfileSummary `json:"profiles"`
	ElapsedMs     int64            `json:"elapsedMs"`
}

// ProfileSummary is one row of profile list
type ProfileSummary struct {
	Name     string `json:"name"`
	Active   bool   `json:"active"`
	Projects int    `json:"projects"`
}

// ProfileOutput represents the JSON output for profile show and priority list
type ProfileOutput struct {
	SchemaVersion string            `json:"schemaVersion"`
	Solution      string            `json:"solution"`
	Backend       string            `json:"backend"`
	Profile       string            `json:"profile"`
	Active        bool              `json:"active"`
	Projects      []ProjectPriority `json:"projects"`
	ElapsedMs     int64             `json:"elapsedMs"`
}

// ProjectPriority is a project's priority in JSON output
type ProjectPriority struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"` // Empty when the project is not in the solution
	Priority string `json:"priority"`
	Code     uint32 `json:"code"`
}

// PriorityGetOutput represents the JSON output for priority get
type PriorityGetOutput struct {
	SchemaVersion string            `json:"schemaVersion"`
	Profile       string            `json:"profile"`
	Projects      []ProjectPriority `json:"projects"`
	ElapsedMs     int64             `json:"elapsedMs"`
}

// ProjectTreeOutput represents the JSON output for projects
type ProjectTreeOutput struct {
	SchemaVersion string   `json:"schemaVersion"`
	Solution      string   `json:"solution"`
	Profile       string   `json:"profile"`
	Root          TreeNode `json:"root"`
	ElapsedMs     int64    `json:"elapsedMs"`
}

// TreeNode is a solution folder or project in JSON output
type TreeNode struct {
	Kind     string     `json:"kind"` // "solution", "folder" or "project"
	Name     string     `json:"name"`
	ID       string     `json:"id,omitempty"`
	Path     string     `json:"path,omitempty"`
	Priority string     `json:"priority,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
}

// MigrateOutput represents the JSON output for migrate
type MigrateOutput struct {
	SchemaVersion string   `json:"schemaVersion"`
	From          string   `json:"from"`
	To            string   `json:"to"`
	Profiles      []string `json:"profiles"`
	ActiveProfile string   `json:"activeProfile"`
	ElapsedMs     int64    `json:"elapsedMs"`
}

// WriteJSON writes a JSON object to the specified writer (typically stdout)
// When --format json is used, ALL JSON goes to stdout and ALL messages go to stderr
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
