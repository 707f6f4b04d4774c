package settings_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willibrandon/goslm/settings"
	"github.com/willibrandon/goslm/settingsstore"
)

var (
	g1 = uuid.MustParse("0d5e9b1a-6c3f-4b5e-8a7d-2f1c3e4b5a61")
	g2 = uuid.MustParse("9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a")
)

// backend opens managers over one backing medium. Each call to the returned
// function binds a fresh manager to the same medium.
type backend struct {
	name  string
	setup func(t *testing.T) func() settings.Manager
}

func backends() []backend {
	return []backend{
		{
			name: "xml",
			setup: func(t *testing.T) func() settings.Manager {
				sln := filepath.Join(t.TempDir(), "App.sln")
				require.NoError(t, os.WriteFile(sln, []byte{}, 0644))
				return func() settings.Manager {
					m, err := settings.NewXMLManager(settings.XMLManagerConfig{SolutionPath: sln})
					require.NoError(t, err)
					return m
				}
			},
		},
		{
			name: "memory",
			setup: func(t *testing.T) func() settings.Manager {
				store := settingsstore.NewMemoryStore()
				return func() settings.Manager {
					return newStoreManager(t, store)
				}
			},
		},
		{
			name: "sqlite",
			setup: func(t *testing.T) func() settings.Manager {
				dsn := filepath.Join(t.TempDir(), "settings.db")
				return func() settings.Manager {
					store, err := settingsstore.OpenDB(dsn)
					require.NoError(t, err)
					t.Cleanup(func() { _ = store.Close() })
					return newStoreManager(t, store)
				}
			},
		},
		{
			name: "instrumented",
			setup: func(t *testing.T) func() settings.Manager {
				store := settingsstore.NewMemoryStore()
				return func() settings.Manager {
					return settings.Instrument(context.Background(), newStoreManager(t, store), "conformance", nil)
				}
			},
		},
	}
}

func forEachBackend(t *testing.T, test func(t *testing.T, open func() settings.Manager)) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			test(t, b.setup(t))
		})
	}
}

func TestConformance_DefaultProfile(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()

		profiles, err := m.Profiles()
		require.NoError(t, err)
		require.Len(t, profiles, 1)

		active, err := m.ActiveProfile()
		require.NoError(t, err)
		assert.Equal(t, profiles[0], active)
		assert.Equal(t, settings.DefaultProfileName, active)
	})
}

func TestConformance_RoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		require.NoError(t, m.AddProfile("Fast", ""))

		for _, p := range settings.AllLoadPriorities() {
			require.NoError(t, m.SetProjectLoadPriority("Fast", g1, p))

			got, err := open().ProjectLoadPriority("Fast", g1)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		}

		require.NoError(t, m.SetActiveProfile("Fast"))
		active, err := open().ActiveProfile()
		require.NoError(t, err)
		assert.Equal(t, "Fast", active)
	})
}

func TestConformance_UnknownProjectIsDemandLoad(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		require.NoError(t, m.SetProjectLoadPriority(settings.DefaultProfileName, g1, settings.ExplicitLoadOnly))

		got, err := m.ProjectLoadPriority(settings.DefaultProfileName, g2)
		require.NoError(t, err)
		assert.Equal(t, settings.DemandLoad, got)
	})
}

func TestConformance_CopyIsDeep(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		require.NoError(t, m.AddProfile("A", ""))
		require.NoError(t, m.SetProjectLoadPriority("A", g1, settings.BackgroundLoad))
		require.NoError(t, m.AddProfile("B", "A"))

		require.NoError(t, m.SetProjectLoadPriority("A", g1, settings.ExplicitLoadOnly))
		require.NoError(t, m.SetProjectLoadPriority("A", g2, settings.LoadIfNeeded))

		got, err := m.ProjectLoadPriority("B", g1)
		require.NoError(t, err)
		assert.Equal(t, settings.BackgroundLoad, got)

		entries, err := m.ProjectEntries("B")
		require.NoError(t, err)
		assert.Equal(t, []settings.ProjectEntry{{ProjectID: g1, Priority: settings.BackgroundLoad}}, entries)
	})
}

func TestConformance_NameUniqueness(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		require.NoError(t, m.AddProfile("Fast", ""))

		assert.ErrorIs(t, m.AddProfile("Fast", ""), settings.ErrProfileAlreadyExists)
		assert.ErrorIs(t, m.AddProfile(settings.DefaultProfileName, "Fast"), settings.ErrProfileAlreadyExists)
		assert.ErrorIs(t, m.RenameProfile(settings.DefaultProfileName, "Fast"), settings.ErrProfileAlreadyExists)

		// Names are case-sensitive
		require.NoError(t, m.AddProfile("fast", ""))

		profiles, err := m.Profiles()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{settings.DefaultProfileName, "Fast", "fast"}, profiles)
	})
}

func TestConformance_InvalidNames(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		for _, name := range []string{"", "  ", `a\b`, "Fast\x01", "bad\xff"} {
			assert.ErrorIs(t, m.AddProfile(name, ""), settings.ErrInvalidProfileName, "%q", name)
			assert.ErrorIs(t, m.RenameProfile(settings.DefaultProfileName, name), settings.ErrInvalidProfileName, "%q", name)
		}
	})
}

func TestConformance_RenamePreservesData(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		require.NoError(t, m.AddProfile("A", ""))
		require.NoError(t, m.SetProjectLoadPriority("A", g1, settings.LoadIfNeeded))
		require.NoError(t, m.SetProjectLoadPriority("A", g2, settings.ExplicitLoadOnly))
		before, err := m.ProjectEntries("A")
		require.NoError(t, err)

		require.NoError(t, m.RenameProfile("A", "C"))

		after, err := m.ProjectEntries("C")
		require.NoError(t, err)
		assert.Equal(t, before, after)

		profiles, err := m.Profiles()
		require.NoError(t, err)
		assert.NotContains(t, profiles, "A")
		_, err = m.ProjectLoadPriority("A", g1)
		assert.ErrorIs(t, err, settings.ErrProfileNotFound)
	})
}

func TestConformance_RenameActiveProfile(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		require.NoError(t, m.RenameProfile(settings.DefaultProfileName, "Everything"))

		active, err := open().ActiveProfile()
		require.NoError(t, err)
		assert.Equal(t, "Everything", active)
	})
}

func TestConformance_NonexistentProfile(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		for _, name := range []string{"Missing", ""} {
			_, err := m.ProjectLoadPriority(name, g1)
			assert.ErrorIs(t, err, settings.ErrProfileNotFound)
			_, err = m.ProjectEntries(name)
			assert.ErrorIs(t, err, settings.ErrProfileNotFound)
			assert.ErrorIs(t, m.SetProjectLoadPriority(name, g1, settings.BackgroundLoad), settings.ErrProfileNotFound)
			assert.ErrorIs(t, m.SetActiveProfile(name), settings.ErrProfileNotFound)
			assert.ErrorIs(t, m.RemoveProfile(name), settings.ErrProfileNotFound)
			assert.ErrorIs(t, m.RenameProfile(name, "Other"), settings.ErrProfileNotFound)
		}
		assert.ErrorIs(t, m.AddProfile("Other", "Missing"), settings.ErrProfileNotFound)

		// Nothing was created along the way
		profiles, err := m.Profiles()
		require.NoError(t, err)
		assert.Equal(t, []string{settings.DefaultProfileName}, profiles)
	})
}

func TestConformance_InvalidPriority(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		err := m.SetProjectLoadPriority(settings.DefaultProfileName, g1, settings.LoadPriority(4))
		assert.ErrorIs(t, err, settings.ErrInvalidLoadPriority)
	})
}

func TestConformance_RemoveProfile(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()
		assert.ErrorIs(t, m.RemoveProfile(settings.DefaultProfileName), settings.ErrLastProfile)

		require.NoError(t, m.AddProfile("Fast", ""))
		require.NoError(t, m.AddProfile("Slow", ""))
		require.NoError(t, m.SetActiveProfile("Slow"))

		// Removing an inactive profile leaves the active one alone
		require.NoError(t, m.RemoveProfile("Fast"))
		active, err := m.ActiveProfile()
		require.NoError(t, err)
		assert.Equal(t, "Slow", active)

		// Removing the active profile activates a remaining one
		require.NoError(t, m.RemoveProfile("Slow"))
		active, err = open().ActiveProfile()
		require.NoError(t, err)
		assert.Equal(t, settings.DefaultProfileName, active)
	})
}

func TestConformance_Scenario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, open func() settings.Manager) {
		m := open()

		active, err := m.ActiveProfile()
		require.NoError(t, err)
		require.Equal(t, settings.DefaultProfileName, active)

		require.NoError(t, m.AddProfile("Fast", settings.DefaultProfileName))
		profiles, err := m.Profiles()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{settings.DefaultProfileName, "Fast"}, profiles)

		require.NoError(t, m.SetProjectLoadPriority("Fast", g1, settings.ExplicitLoadOnly))
		require.NoError(t, m.SetActiveProfile("Fast"))

		got, err := m.ProjectLoadPriority("Fast", g1)
		require.NoError(t, err)
		assert.Equal(t, settings.ExplicitLoadOnly, got)

		got, err = m.ProjectLoadPriority("Fast", g2)
		require.NoError(t, err)
		assert.Equal(t, settings.DemandLoad, got)

		require.NoError(t, m.RemoveProfile(settings.DefaultProfileName))
		profiles, err = open().Profiles()
		require.NoError(t, err)
		assert.Equal(t, []string{"Fast"}, profiles)
	})
}

func TestCopyEntries(t *testing.T) {
	sln := filepath.Join(t.TempDir(), "App.sln")
	require.NoError(t, os.WriteFile(sln, []byte{}, 0644))
	src, err := settings.NewXMLManager(settings.XMLManagerConfig{SolutionPath: sln})
	require.NoError(t, err)

	require.NoError(t, src.AddProfile("Fast", ""))
	require.NoError(t, src.SetProjectLoadPriority("Fast", g1, settings.ExplicitLoadOnly))
	require.NoError(t, src.SetProjectLoadPriority(settings.DefaultProfileName, g2, settings.BackgroundLoad))
	require.NoError(t, src.SetActiveProfile("Fast"))

	dst := newStoreManager(t, settingsstore.NewMemoryStore())
	require.NoError(t, dst.AddProfile("Local", ""))

	require.NoError(t, settings.CopyEntries(dst, src))

	profiles, err := dst.Profiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{settings.DefaultProfileName, "Fast", "Local"}, profiles)

	active, err := dst.ActiveProfile()
	require.NoError(t, err)
	assert.Equal(t, "Fast", active)

	got, err := dst.ProjectLoadPriority("Fast", g1)
	require.NoError(t, err)
	assert.Equal(t, settings.ExplicitLoadOnly, got)
	got, err = dst.ProjectLoadPriority(settings.DefaultProfileName, g2)
	require.NoError(t, err)
	assert.Equal(t, settings.BackgroundLoad, got)
}

func TestResolveAndApplyPriorities(t *testing.T) {
	m := newStoreManager(t, settingsstore.NewMemoryStore())

	require.NoError(t, settings.ApplyPriority(m, settings.DefaultProfileName, []uuid.UUID{g1, g2}, settings.LoadIfNeeded))

	resolved, err := settings.ResolvePriorities(m, []uuid.UUID{g1, g2, uuid.Nil})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]settings.LoadPriority{
		g1:       settings.LoadIfNeeded,
		g2:       settings.LoadIfNeeded,
		uuid.Nil: settings.DemandLoad,
	}, resolved)

	err = settings.ApplyPriority(m, "Missing", []uuid.UUID{g1}, settings.LoadIfNeeded)
	assert.ErrorIs(t, err, settings.ErrProfileNotFound)
}
