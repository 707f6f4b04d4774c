package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/willibrandon/goslm/observability"
)

// XMLManager keeps all profiles of one solution in a sidecar XML file
// (<solution>.slm). The whole document is held in memory and rewritten on
// every change. There is no file locking.
type XMLManager struct {
	solutionPath string
	doc          *Document
	logger       observability.Logger
}

// XMLManagerConfig holds XMLManager settings
type XMLManagerConfig struct {
	SolutionPath string               // Solution file the sidecar belongs to
	Logger       observability.Logger // Optional logger (nil uses NullLogger)
}

// NewXMLManager binds a manager to a solution file. A missing sidecar yields
// a default document that is only written by the first change; an
// unreadable or malformed sidecar is an error.
func NewXMLManager(cfg XMLManagerConfig) (*XMLManager, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	if cfg.SolutionPath == "" {
		return nil, fmt.Errorf("%w: solution path is empty", ErrInvalidSolution)
	}

	info, err := os.Stat(cfg.SolutionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: solution file does not exist: %s", ErrInvalidSolution, cfg.SolutionPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSolution, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is a directory: %s", ErrInvalidSolution, cfg.SolutionPath)
	}

	m := &XMLManager{
		solutionPath: cfg.SolutionPath,
		logger:       logger.ForContext("SettingsFile", SidecarPath(cfg.SolutionPath)),
	}

	doc, err := m.readSettings()
	if err != nil {
		return nil, err
	}
	m.doc = doc

	return m, nil
}

// SettingsPath returns the sidecar file path
func (m *XMLManager) SettingsPath() string {
	return SidecarPath(m.solutionPath)
}

// ActiveProfile implements Manager
func (m *XMLManager) ActiveProfile() (string, error) {
	return m.doc.ActiveProfileName, nil
}

// SetActiveProfile implements Manager
func (m *XMLManager) SetActiveProfile(name string) error {
	profile, err := m.existingProfile("activate", name)
	if err != nil {
		return err
	}

	if err := m.update(func(doc *Document) {
		doc.ActiveProfileName = profile.Name
	}); err != nil {
		return err
	}

	m.logger.Info("Activated profile {Profile}", name)
	return nil
}

// Profiles implements Manager
func (m *XMLManager) Profiles() ([]string, error) {
	return m.doc.ProfileNames(), nil
}

// AddProfile implements Manager
func (m *XMLManager) AddProfile(name, copyFrom string) error {
	if err := ValidateProfileName(name); err != nil {
		return profileErr("add", name, err)
	}
	if m.doc.Profile(name) != nil {
		return profileErr("add", name, ErrProfileAlreadyExists)
	}

	newProfile := NewProfile(name)
	if copyFrom != "" {
		source, err := m.existingProfile("copy", copyFrom)
		if err != nil {
			return err
		}
		newProfile = source.Clone()
		newProfile.Name = name
	}

	if err := m.update(func(doc *Document) {
		doc.Profiles = append(doc.Profiles, newProfile)
	}); err != nil {
		return err
	}

	m.logger.Info("Added profile {Profile} copied from {Source}", name, copyFrom)
	return nil
}

// RemoveProfile implements Manager
func (m *XMLManager) RemoveProfile(name string) error {
	if _, err := m.existingProfile("remove", name); err != nil {
		return err
	}
	if len(m.doc.Profiles) == 1 {
		return profileErr("remove", name, ErrLastProfile)
	}

	wasActive := m.doc.ActiveProfileName == name
	if err := m.update(func(doc *Document) {
		doc.removeProfile(name)
		if wasActive {
			doc.ActiveProfileName = doc.Profiles[0].Name
		}
	}); err != nil {
		return err
	}

	if wasActive {
		m.logger.Info("Removed active profile {Profile}, {Active} is now active", name, m.doc.ActiveProfileName)
	} else {
		m.logger.Info("Removed profile {Profile}", name)
	}
	return nil
}

// RenameProfile implements Manager
func (m *XMLManager) RenameProfile(oldName, newName string) error {
	source, err := m.existingProfile("rename", oldName)
	if err != nil {
		return err
	}
	if err := ValidateProfileName(newName); err != nil {
		return profileErr("rename", newName, err)
	}
	if m.doc.Profile(newName) != nil {
		return profileErr("rename", newName, ErrProfileAlreadyExists)
	}

	// update works on a copy, so renaming in place leaves m.doc untouched on failure
	if err := m.update(func(doc *Document) {
		doc.Profile(source.Name).Name = newName
		if doc.ActiveProfileName == oldName {
			doc.ActiveProfileName = newName
		}
	}); err != nil {
		return err
	}

	m.logger.Info("Renamed profile {Profile} to {NewProfile}", oldName, newName)
	return nil
}

// SetProjectLoadPriority implements Manager
func (m *XMLManager) SetProjectLoadPriority(profile string, projectID uuid.UUID, priority LoadPriority) error {
	p, err := m.existingProfile("set priority", profile)
	if err != nil {
		return err
	}
	if !priority.IsValid() {
		return fmt.Errorf("%w: code %d", ErrInvalidLoadPriority, uint32(priority))
	}

	if err := m.update(func(doc *Document) {
		doc.Profile(p.Name).SetPriority(projectID, priority)
	}); err != nil {
		return err
	}

	m.logger.Debug("Set {ProjectID} to {Priority} in {Profile}", projectID, priority.String(), profile)
	return nil
}

// ProjectLoadPriority implements Manager
func (m *XMLManager) ProjectLoadPriority(profile string, projectID uuid.UUID) (LoadPriority, error) {
	p, err := m.existingProfile("get priority", profile)
	if err != nil {
		return DemandLoad, err
	}
	return p.Priority(projectID), nil
}

// ProjectEntries implements Manager
func (m *XMLManager) ProjectEntries(profile string) ([]ProjectEntry, error) {
	p, err := m.existingProfile("list", profile)
	if err != nil {
		return nil, err
	}

	entries := make([]ProjectEntry, len(p.Projects))
	copy(entries, p.Projects)
	sortEntries(entries)
	return entries, nil
}

func (m *XMLManager) existingProfile(op, name string) (*Profile, error) {
	p := m.doc.Profile(name)
	if p == nil {
		return nil, profileErr(op, name, ErrProfileNotFound)
	}
	return p, nil
}

func (m *XMLManager) readSettings() (*Document, error) {
	path := m.SettingsPath()

	doc, err := LoadDocument(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.logger.Debug("No settings file, using default profile")
			return NewDefaultDocument(), nil
		}
		return nil, err
	}

	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if doc.normalize() {
		m.logger.Warn("Settings file was inconsistent, active profile is now {Profile}", doc.ActiveProfileName)
	}
	m.logger.Debug("Loaded {Count} profiles", len(doc.Profiles))
	return doc, nil
}

// update applies mutate to a copy of the document, saves the copy and only
// then makes it current, so a failed save leaves the manager unchanged.
func (m *XMLManager) update(mutate func(doc *Document)) error {
	next := m.doc.Clone()
	mutate(next)

	if err := SaveDocument(m.SettingsPath(), next); err != nil {
		m.logger.Error("Failed to save settings: {Error}", err)
		return err
	}

	m.doc = next
	return nil
}
