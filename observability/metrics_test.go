package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecordStoreOperation(t *testing.T) {
	const backend = "metrics-test"

	before, err := GetCounterValue(StoreOperationsTotal, backend, "add_profile", "success")
	if err != nil {
		t.Fatalf("GetCounterValue() error = %v", err)
	}

	RecordStoreOperation(backend, "add_profile", time.Now(), nil)
	RecordStoreOperation(backend, "add_profile", time.Now(), nil)
	RecordStoreOperation(backend, "add_profile", time.Now(), errors.New("boom"))

	after, err := GetCounterValue(StoreOperationsTotal, backend, "add_profile", "success")
	if err != nil {
		t.Fatalf("GetCounterValue() error = %v", err)
	}
	if after-before != 2 {
		t.Errorf("success count increased by %v, want 2", after-before)
	}

	failed, err := GetCounterValue(StoreOperationsTotal, backend, "add_profile", "error")
	if err != nil {
		t.Fatalf("GetCounterValue() error = %v", err)
	}
	if failed != 1 {
		t.Errorf("error count = %v, want 1", failed)
	}
}

func TestProfilesGauge(t *testing.T) {
	ProfilesGauge.WithLabelValues("gauge-test").Set(3)

	got, err := GetGaugeValue(ProfilesGauge, "gauge-test")
	if err != nil {
		t.Fatalf("GetGaugeValue() error = %v", err)
	}
	if got != 3 {
		t.Errorf("GetGaugeValue() = %v, want 3", got)
	}
}

func TestGetCounterValue_WrongLabelCount(t *testing.T) {
	if _, err := GetCounterValue(StoreOperationsTotal, "only-one"); err == nil {
		t.Error("GetCounterValue() with missing labels should fail")
	}
}

func TestWriteMetricsFile(t *testing.T) {
	RecordStoreOperation("file-test", "profiles", time.Now(), nil)

	path := filepath.Join(t.TempDir(), "goslm.prom")
	if err := WriteMetricsFile(path); err != nil {
		t.Fatalf("WriteMetricsFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	body := string(data)
	for _, metric := range []string{
		"goslm_store_operations_total",
		"goslm_store_operation_duration_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("Metrics output missing: %s", metric)
		}
	}
}
