// Package settings stores per-project load priority profiles for a solution.
//
// A profile maps project IDs to a LoadPriority. Every solution has at least
// one profile and exactly one of them is active. Two backends implement the
// Manager contract: XMLManager keeps everything in a sidecar file next to
// the solution, StoreManager writes into a hierarchical key/value store.
package settings

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultProfileName is the profile both backends create for a new solution
const DefaultProfileName = "Default Profile"

// CollectionSeparator joins keyed-store collection names, so it cannot
// appear inside a profile name.
const CollectionSeparator = `\`

// ProjectEntry is one project's priority inside a profile
type ProjectEntry struct {
	ProjectID uuid.UUID    `xml:"ProjectGuid"`
	Priority  LoadPriority `xml:"LoadPriority"`
}

// Profile is a named set of project priorities
type Profile struct {
	Name     string         `xml:"ProfileName"`
	Projects []ProjectEntry `xml:"Projects>ProjectLoadInfo"`
}

// NewProfile creates an empty profile
func NewProfile(name string) *Profile {
	return &Profile{Name: name, Projects: []ProjectEntry{}}
}

// Project returns the entry for id, or nil if the profile has none
func (p *Profile) Project(id uuid.UUID) *ProjectEntry {
	for i := range p.Projects {
		if p.Projects[i].ProjectID == id {
			return &p.Projects[i]
		}
	}
	return nil
}

// Priority returns the recorded priority for id, DemandLoad if there is none
func (p *Profile) Priority(id uuid.UUID) LoadPriority {
	if entry := p.Project(id); entry != nil {
		return entry.Priority
	}
	return DemandLoad
}

// SetPriority inserts or overwrites the entry for id
func (p *Profile) SetPriority(id uuid.UUID, priority LoadPriority) {
	if entry := p.Project(id); entry != nil {
		entry.Priority = priority
		return
	}
	p.Projects = append(p.Projects, ProjectEntry{ProjectID: id, Priority: priority})
}

// Clone returns a deep copy that shares no entries with p
func (p *Profile) Clone() *Profile {
	projects := make([]ProjectEntry, len(p.Projects))
	copy(projects, p.Projects)
	return &Profile{Name: p.Name, Projects: projects}
}

// Document is everything stored for one solution
type Document struct {
	ActiveProfileName string     `xml:"ActiveProfileName"`
	Profiles          []*Profile `xml:"Profiles>SolutionLoadProfile"`
}

// NewDefaultDocument returns a document with a single active default profile
func NewDefaultDocument() *Document {
	return &Document{
		ActiveProfileName: DefaultProfileName,
		Profiles:          []*Profile{NewProfile(DefaultProfileName)},
	}
}

// Profile finds a profile by exact name
func (d *Document) Profile(name string) *Profile {
	for _, p := range d.Profiles {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ProfileNames returns the profile names in document order
func (d *Document) ProfileNames() []string {
	names := make([]string, 0, len(d.Profiles))
	for _, p := range d.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	profiles := make([]*Profile, 0, len(d.Profiles))
	for _, p := range d.Profiles {
		profiles = append(profiles, p.Clone())
	}
	return &Document{ActiveProfileName: d.ActiveProfileName, Profiles: profiles}
}

// removeProfile drops the named profile, reporting whether it was present
func (d *Document) removeProfile(name string) bool {
	for i, p := range d.Profiles {
		if p.Name == name {
			d.Profiles = append(d.Profiles[:i], d.Profiles[i+1:]...)
			return true
		}
	}
	return false
}

// normalize repairs a loaded document so the store invariants hold.
// It reports whether anything changed.
func (d *Document) normalize() bool {
	changed := false
	if len(d.Profiles) == 0 {
		d.Profiles = []*Profile{NewProfile(DefaultProfileName)}
		changed = true
	}
	for _, p := range d.Profiles {
		if p.Projects == nil {
			p.Projects = []ProjectEntry{}
		}
	}
	if d.Profile(d.ActiveProfileName) == nil {
		d.ActiveProfileName = d.Profiles[0].Name
		changed = true
	}
	return changed
}

// validate rejects loaded content that normalize cannot repair without
// losing data: invalid or duplicate profile names and a project listed
// twice in one profile.
func (d *Document) validate() error {
	names := make(map[string]bool, len(d.Profiles))
	for _, p := range d.Profiles {
		if err := ValidateProfileName(p.Name); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
		if names[p.Name] {
			return fmt.Errorf("profile %q: %w", p.Name, ErrProfileAlreadyExists)
		}
		names[p.Name] = true

		projects := make(map[uuid.UUID]bool, len(p.Projects))
		for _, e := range p.Projects {
			if projects[e.ProjectID] {
				return fmt.Errorf("profile %q lists project %s more than once", p.Name, e.ProjectID)
			}
			projects[e.ProjectID] = true
		}
	}
	return nil
}

// ValidateProfileName checks the naming rule shared by both backends:
// non-empty, not only whitespace, no collection separator, and storable
// as XML character data.
func ValidateProfileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidProfileName
	}
	if strings.Contains(name, CollectionSeparator) {
		return ErrInvalidProfileName
	}
	if !utf8.ValidString(name) {
		return ErrInvalidProfileName
	}
	for _, r := range name {
		if !isXMLChar(r) {
			return ErrInvalidProfileName
		}
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
