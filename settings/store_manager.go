package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/willibrandon/goslm/observability"
)

const (
	// SettingsCollectionName is the root collection for every solution
	SettingsCollectionName = "Solution Load Manager Settings"

	// ActiveProfileProperty is the solution collection property holding the active profile name
	ActiveProfileProperty = "<Active Profile>"
)

// StoreManager keeps profiles in a WritableStore:
//
//	Solution Load Manager Settings\<solution id>              <Active Profile> = name
//	Solution Load Manager Settings\<solution id>\<profile>    <project guid> = uint32 priority
//
// Every change writes only the keys it affects.
type StoreManager struct {
	solutionID string
	store      WritableStore
	logger     observability.Logger
}

// StoreManagerConfig holds StoreManager settings
type StoreManagerConfig struct {
	SolutionID string               // Stable identifier of the solution
	Store      WritableStore        // Host settings store
	Logger     observability.Logger // Optional logger (nil uses NullLogger)
}

// NewStoreManager binds a manager to a solution's collection, creating the
// default profile when the solution has no settings yet.
func NewStoreManager(cfg StoreManagerConfig) (*StoreManager, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	if strings.TrimSpace(cfg.SolutionID) == "" {
		return nil, fmt.Errorf("%w: solution id is empty", ErrInvalidSolution)
	}
	if strings.Contains(cfg.SolutionID, CollectionSeparator) {
		return nil, fmt.Errorf("%w: solution id %q contains %q", ErrInvalidSolution, cfg.SolutionID, CollectionSeparator)
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("%w: settings store is nil", ErrInvalidSolution)
	}

	m := &StoreManager{
		solutionID: cfg.SolutionID,
		store:      cfg.Store,
		logger:     logger.ForContext("SolutionID", cfg.SolutionID),
	}

	if err := m.createDefaultSolutionSettings(); err != nil {
		return nil, err
	}

	return m, nil
}

// SolutionCollection returns the path of the solution's collection
func (m *StoreManager) SolutionCollection() string {
	return CollectionPath(SettingsCollectionName, m.solutionID)
}

// ProfileCollection returns the path of a profile's collection
func (m *StoreManager) ProfileCollection(profile string) string {
	return CollectionPath(SettingsCollectionName, m.solutionID, profile)
}

// ActiveProfile implements Manager
func (m *StoreManager) ActiveProfile() (string, error) {
	name, err := m.store.String(m.SolutionCollection(), ActiveProfileProperty)
	if err != nil {
		return "", storeErr(err)
	}
	return name, nil
}

// SetActiveProfile implements Manager
func (m *StoreManager) SetActiveProfile(name string) error {
	if err := m.ValidateExistingProfile("activate", name); err != nil {
		return err
	}
	if err := m.store.SetString(m.SolutionCollection(), ActiveProfileProperty, name); err != nil {
		return storeErr(err)
	}

	m.logger.Info("Activated profile {Profile}", name)
	return nil
}

// Profiles implements Manager
func (m *StoreManager) Profiles() ([]string, error) {
	names, err := m.store.SubCollectionNames(m.SolutionCollection())
	if err != nil {
		return nil, storeErr(err)
	}
	return names, nil
}

// AddProfile implements Manager
func (m *StoreManager) AddProfile(name, copyFrom string) error {
	if err := m.ValidateNewProfile("add", name); err != nil {
		return err
	}
	if copyFrom != "" {
		if err := m.ValidateExistingProfile("copy", copyFrom); err != nil {
			return err
		}
	}

	if copyFrom == "" {
		if err := m.store.CreateCollection(m.ProfileCollection(name)); err != nil {
			return storeErr(err)
		}
	} else if err := m.copyProfile(copyFrom, name); err != nil {
		return err
	}

	m.logger.Info("Added profile {Profile} copied from {Source}", name, copyFrom)
	return nil
}

// RemoveProfile implements Manager
func (m *StoreManager) RemoveProfile(name string) error {
	if err := m.ValidateExistingProfile("remove", name); err != nil {
		return err
	}

	profiles, err := m.Profiles()
	if err != nil {
		return err
	}
	if len(profiles) <= 1 {
		return profileErr("remove", name, ErrLastProfile)
	}

	active, err := m.ActiveProfile()
	if err != nil {
		return err
	}

	if err := m.store.DeleteCollection(m.ProfileCollection(name)); err != nil {
		return storeErr(err)
	}

	if active == name {
		next := firstOther(profiles, name)
		if err := m.store.SetString(m.SolutionCollection(), ActiveProfileProperty, next); err != nil {
			return storeErr(err)
		}
		m.logger.Info("Removed active profile {Profile}, {Active} is now active", name, next)
		return nil
	}

	m.logger.Info("Removed profile {Profile}", name)
	return nil
}

// RenameProfile implements Manager
func (m *StoreManager) RenameProfile(oldName, newName string) error {
	if err := m.ValidateExistingProfile("rename", oldName); err != nil {
		return err
	}
	if err := m.ValidateNewProfile("rename", newName); err != nil {
		return err
	}

	active, err := m.ActiveProfile()
	if err != nil {
		return err
	}

	if err := m.copyProfile(oldName, newName); err != nil {
		return err
	}

	// Point at the copy before the original goes away
	if active == oldName {
		if err := m.store.SetString(m.SolutionCollection(), ActiveProfileProperty, newName); err != nil {
			return storeErr(err)
		}
	}

	if err := m.store.DeleteCollection(m.ProfileCollection(oldName)); err != nil {
		return storeErr(err)
	}

	m.logger.Info("Renamed profile {Profile} to {NewProfile}", oldName, newName)
	return nil
}

// SetProjectLoadPriority implements Manager
func (m *StoreManager) SetProjectLoadPriority(profile string, projectID uuid.UUID, priority LoadPriority) error {
	if err := m.ValidateExistingProfile("set priority", profile); err != nil {
		return err
	}
	if !priority.IsValid() {
		return fmt.Errorf("%w: code %d", ErrInvalidLoadPriority, uint32(priority))
	}

	if err := m.store.SetUint32(m.ProfileCollection(profile), projectID.String(), uint32(priority)); err != nil {
		return storeErr(err)
	}

	m.logger.Debug("Set {ProjectID} to {Priority} in {Profile}", projectID, priority.String(), profile)
	return nil
}

// ProjectLoadPriority implements Manager
func (m *StoreManager) ProjectLoadPriority(profile string, projectID uuid.UUID) (LoadPriority, error) {
	if err := m.ValidateExistingProfile("get priority", profile); err != nil {
		return DemandLoad, err
	}

	priority, ok, err := m.readPriority(m.ProfileCollection(profile), projectID.String())
	if err != nil {
		return DemandLoad, err
	}
	if !ok {
		return DemandLoad, nil
	}
	return priority, nil
}

// ProjectEntries implements Manager. Properties whose names are not project
// IDs or whose values are not priorities are skipped.
func (m *StoreManager) ProjectEntries(profile string) ([]ProjectEntry, error) {
	if err := m.ValidateExistingProfile("list", profile); err != nil {
		return nil, err
	}

	collection := m.ProfileCollection(profile)
	names, err := m.store.PropertyNames(collection)
	if err != nil {
		return nil, storeErr(err)
	}

	entries := make([]ProjectEntry, 0, len(names))
	for _, name := range names {
		id, err := uuid.Parse(name)
		if err != nil {
			m.logger.Debug("Skipping property {Property} in {Profile}", name, profile)
			continue
		}

		priority, ok, err := m.readPriority(collection, name)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, ProjectEntry{ProjectID: id, Priority: priority})
		}
	}

	sortEntries(entries)
	return entries, nil
}

// ValidateExistingProfile fails unless name is non-empty and its collection exists
func (m *StoreManager) ValidateExistingProfile(op, name string) error {
	if name == "" || strings.Contains(name, CollectionSeparator) {
		return profileErr(op, name, ErrProfileNotFound)
	}

	exists, err := m.store.CollectionExists(m.ProfileCollection(name))
	if err != nil {
		return storeErr(err)
	}
	if !exists {
		return profileErr(op, name, ErrProfileNotFound)
	}
	return nil
}

// ValidateNewProfile fails if name is not a valid profile name or its collection already exists
func (m *StoreManager) ValidateNewProfile(op, name string) error {
	if err := ValidateProfileName(name); err != nil {
		return profileErr(op, name, err)
	}

	exists, err := m.store.CollectionExists(m.ProfileCollection(name))
	if err != nil {
		return storeErr(err)
	}
	if exists {
		return profileErr(op, name, ErrProfileAlreadyExists)
	}
	return nil
}

// readPriority reads one project property. ok is false when the property is
// missing or holds something other than a priority code.
func (m *StoreManager) readPriority(collection, property string) (priority LoadPriority, ok bool, err error) {
	value, err := m.store.Uint32(collection, property)
	switch {
	case errors.Is(err, ErrPropertyNotFound):
		return DemandLoad, false, nil
	case errors.Is(err, ErrPropertyType):
		m.logger.Warn("Property {Property} in {Collection} is not a number", property, collection)
		return DemandLoad, false, nil
	case err != nil:
		return DemandLoad, false, storeErr(err)
	}

	priority = LoadPriority(value)
	if !priority.IsValid() {
		m.logger.Warn("Property {Property} in {Collection} has unknown priority {Value}", property, collection, value)
		return DemandLoad, false, nil
	}
	return priority, true, nil
}

// copyProfile copies every numeric property of source into destination,
// creating destination first.
func (m *StoreManager) copyProfile(source, destination string) error {
	sourceCollection := m.ProfileCollection(source)
	targetCollection := m.ProfileCollection(destination)

	if err := m.store.CreateCollection(targetCollection); err != nil {
		return storeErr(err)
	}

	names, err := m.store.PropertyNames(sourceCollection)
	if err != nil {
		return storeErr(err)
	}

	for _, name := range names {
		value, err := m.store.Uint32(sourceCollection, name)
		if errors.Is(err, ErrPropertyType) {
			m.logger.Debug("Not copying non-numeric property {Property}", name)
			continue
		}
		if err != nil {
			return storeErr(err)
		}
		if err := m.store.SetUint32(targetCollection, name, value); err != nil {
			return storeErr(err)
		}
	}
	return nil
}

// createDefaultSolutionSettings creates the default profile for a new
// solution and repairs a missing or dangling active profile.
func (m *StoreManager) createDefaultSolutionSettings() error {
	exists, err := m.store.CollectionExists(m.SolutionCollection())
	if err != nil {
		return storeErr(err)
	}

	if !exists {
		if err := m.store.CreateCollection(m.ProfileCollection(DefaultProfileName)); err != nil {
			return storeErr(err)
		}
		if err := m.store.SetString(m.SolutionCollection(), ActiveProfileProperty, DefaultProfileName); err != nil {
			return storeErr(err)
		}
		m.logger.Debug("Created default settings")
		return nil
	}

	active, err := m.store.String(m.SolutionCollection(), ActiveProfileProperty)
	if err != nil && !errors.Is(err, ErrPropertyNotFound) && !errors.Is(err, ErrPropertyType) {
		return storeErr(err)
	}
	if err == nil && active != "" && !strings.Contains(active, CollectionSeparator) {
		found, err := m.store.CollectionExists(m.ProfileCollection(active))
		if err != nil {
			return storeErr(err)
		}
		if found {
			return nil
		}
	}

	profiles, err := m.Profiles()
	if err != nil {
		return err
	}
	next := DefaultProfileName
	if len(profiles) > 0 {
		next = profiles[0]
	} else if err := m.store.CreateCollection(m.ProfileCollection(DefaultProfileName)); err != nil {
		return storeErr(err)
	}

	if err := m.store.SetString(m.SolutionCollection(), ActiveProfileProperty, next); err != nil {
		return storeErr(err)
	}
	m.logger.Warn("Active profile {Missing} does not exist, {Profile} is now active", active, next)
	return nil
}

func firstOther(names []string, exclude string) string {
	for _, name := range names {
		if name != exclude {
			return name
		}
	}
	return ""
}

func storeErr(err error) error {
	return fmt.Errorf("settings store: %w", err)
}
