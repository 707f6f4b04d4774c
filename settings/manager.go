package settings

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Manager is the storage contract for load priority profiles.
//
// Every mutating call validates its arguments before it changes anything
// and persists before it returns. Failed calls leave the store untouched.
// Implementations are not safe for concurrent use, and at most one Manager
// should be bound to a given solution at a time.
type Manager interface {
	// ActiveProfile returns the name of the profile in effect
	ActiveProfile() (string, error)

	// SetActiveProfile switches the active profile. The profile must exist.
	SetActiveProfile(name string) error

	// Profiles returns the names of all profiles
	Profiles() ([]string, error)

	// AddProfile creates a profile. When copyFrom is non-empty the new
	// profile starts as a deep copy of that profile's entries.
	AddProfile(name, copyFrom string) error

	// RemoveProfile deletes a profile. The last remaining profile cannot be
	// removed; removing the active profile activates the first one left.
	RemoveProfile(name string) error

	// RenameProfile moves every entry of oldName to newName. The active
	// profile follows the rename.
	RenameProfile(oldName, newName string) error

	// SetProjectLoadPriority records a project's priority in a profile
	SetProjectLoadPriority(profile string, projectID uuid.UUID, priority LoadPriority) error

	// ProjectLoadPriority returns a project's priority in a profile,
	// DemandLoad when nothing is recorded for it.
	ProjectLoadPriority(profile string, projectID uuid.UUID) (LoadPriority, error)

	// ProjectEntries returns every recorded entry of a profile sorted by project ID
	ProjectEntries(profile string) ([]ProjectEntry, error)
}

// ResolvePriorities looks up each project in the active profile
func ResolvePriorities(m Manager, projectIDs []uuid.UUID) (map[uuid.UUID]LoadPriority, error) {
	active, err := m.ActiveProfile()
	if err != nil {
		return nil, err
	}

	resolved := make(map[uuid.UUID]LoadPriority, len(projectIDs))
	for _, id := range projectIDs {
		p, err := m.ProjectLoadPriority(active, id)
		if err != nil {
			return nil, err
		}
		resolved[id] = p
	}
	return resolved, nil
}

// ApplyPriority sets the same priority on several projects of one profile
func ApplyPriority(m Manager, profile string, projectIDs []uuid.UUID, priority LoadPriority) error {
	for _, id := range projectIDs {
		if err := m.SetProjectLoadPriority(profile, id, priority); err != nil {
			return err
		}
	}
	return nil
}

// CopyEntries merges every profile of src into dst and makes src's active
// profile active in dst. Entries already in dst are overwritten; profiles
// that only exist in dst are kept.
func CopyEntries(dst, src Manager) error {
	srcProfiles, err := src.Profiles()
	if err != nil {
		return fmt.Errorf("list source profiles: %w", err)
	}
	dstProfiles, err := dst.Profiles()
	if err != nil {
		return fmt.Errorf("list target profiles: %w", err)
	}

	existing := make(map[string]bool, len(dstProfiles))
	for _, name := range dstProfiles {
		existing[name] = true
	}

	for _, name := range srcProfiles {
		if !existing[name] {
			if err := dst.AddProfile(name, ""); err != nil {
				return err
			}
		}

		entries, err := src.ProjectEntries(name)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := dst.SetProjectLoadPriority(name, entry.ProjectID, entry.Priority); err != nil {
				return err
			}
		}
	}

	active, err := src.ActiveProfile()
	if err != nil {
		return err
	}
	return dst.SetActiveProfile(active)
}

func sortEntries(entries []ProjectEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProjectID.String() < entries[j].ProjectID.String()
	})
}
