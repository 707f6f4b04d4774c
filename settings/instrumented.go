package settings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/willibrandon/goslm/observability"
	"go.opentelemetry.io/otel/attribute"
)

// instrumentedManager wraps a Manager with tracing, metrics and logging
type instrumentedManager struct {
	ctx     context.Context
	next    Manager
	backend string
	logger  observability.Logger
}

// Instrument wraps m so that every call runs in a "settings.<op>" span
// (child of ctx), is counted in the store metrics under backend, and logs
// failures. The wrapper adds no behavior of its own.
func Instrument(ctx context.Context, m Manager, backend string, logger observability.Logger) Manager {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &instrumentedManager{ctx: ctx, next: m, backend: backend, logger: logger}
}

func (i *instrumentedManager) observe(op string, attrs []attribute.KeyValue, call func() error) error {
	start := time.Now()
	ctx, span := observability.StartStoreSpan(i.ctx, i.backend, op, attrs...)

	err := call()

	observability.RecordStoreOperation(i.backend, op, start, err)
	observability.EndSpanWithError(span, err)
	if err != nil {
		i.logger.DebugContext(ctx, "Store operation {Operation} failed: {Error}", op, err)
	}
	return err
}

func (i *instrumentedManager) ActiveProfile() (name string, err error) {
	err = i.observe("active_profile", nil, func() error {
		name, err = i.next.ActiveProfile()
		return err
	})
	return name, err
}

func (i *instrumentedManager) SetActiveProfile(name string) error {
	return i.observe("set_active_profile",
		[]attribute.KeyValue{observability.AttrProfile.String(name)},
		func() error { return i.next.SetActiveProfile(name) })
}

func (i *instrumentedManager) Profiles() (names []string, err error) {
	err = i.observe("profiles", nil, func() error {
		names, err = i.next.Profiles()
		return err
	})
	if err == nil {
		observability.ProfilesGauge.WithLabelValues(i.backend).Set(float64(len(names)))
	}
	return names, err
}

func (i *instrumentedManager) AddProfile(name, copyFrom string) error {
	return i.observe("add_profile",
		[]attribute.KeyValue{
			observability.AttrProfile.String(name),
			observability.AttrTarget.String(copyFrom),
		},
		func() error { return i.next.AddProfile(name, copyFrom) })
}

func (i *instrumentedManager) RemoveProfile(name string) error {
	return i.observe("remove_profile",
		[]attribute.KeyValue{observability.AttrProfile.String(name)},
		func() error { return i.next.RemoveProfile(name) })
}

func (i *instrumentedManager) RenameProfile(oldName, newName string) error {
	return i.observe("rename_profile",
		[]attribute.KeyValue{
			observability.AttrProfile.String(oldName),
			observability.AttrTarget.String(newName),
		},
		func() error { return i.next.RenameProfile(oldName, newName) })
}

func (i *instrumentedManager) SetProjectLoadPriority(profile string, projectID uuid.UUID, priority LoadPriority) error {
	return i.observe("set_project_priority",
		[]attribute.KeyValue{
			observability.AttrProfile.String(profile),
			observability.AttrProjectID.String(projectID.String()),
			observability.AttrPriority.String(priority.String()),
		},
		func() error { return i.next.SetProjectLoadPriority(profile, projectID, priority) })
}

func (i *instrumentedManager) ProjectLoadPriority(profile string, projectID uuid.UUID) (priority LoadPriority, err error) {
	err = i.observe("get_project_priority",
		[]attribute.KeyValue{
			observability.AttrProfile.String(profile),
			observability.AttrProjectID.String(projectID.String()),
		},
		func() error {
			priority, err = i.next.ProjectLoadPriority(profile, projectID)
			return err
		})
	return priority, err
}

func (i *instrumentedManager) ProjectEntries(profile string) (entries []ProjectEntry, err error) {
	err = i.observe("project_entries",
		[]attribute.KeyValue{observability.AttrProfile.String(profile)},
		func() error {
			entries, err = i.next.ProjectEntries(profile)
			return err
		})
	return entries, err
}
