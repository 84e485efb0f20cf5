package metrics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	c, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector() error = %v", err)
	}

	c.RecordWrite("set")
	c.RecordWrite("set")
	c.RecordWrite("delete")
	c.RecordPersistFailure()
	c.RecordLoad("failed")
	c.RecordReconcileDiscard("api_timeout")
	c.RecordNotifyFailure("lyrics")

	if got := testutil.ToFloat64(c.writes.WithLabelValues("set")); got != 2 {
		t.Errorf("writes{op=set} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.writes.WithLabelValues("delete")); got != 1 {
		t.Errorf("writes{op=delete} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.persistFailures); got != 1 {
		t.Errorf("persist_failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.loads.WithLabelValues("failed")); got != 1 {
		t.Errorf("loads{result=failed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.notifyFailures.WithLabelValues("lyrics")); got != 1 {
		t.Errorf("notify_failures{group=lyrics} = %v, want 1", got)
	}
}

func TestSummary(t *testing.T) {
	c, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector() error = %v", err)
	}

	c.RecordWrite("set")
	c.RecordPersistFailure()

	lines, err := c.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	want := []string{
		"lddc_config_persist_failures_total 1",
		`lddc_config_writes_total{op="set"} 1`,
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, err := NewCollector()
	if err != nil {
		t.Fatalf("NewCollector() error = %v", err)
	}
	b, err := NewCollector()
	if err != nil {
		t.Fatalf("second NewCollector() error = %v", err)
	}

	a.RecordWrite("set")
	if got := testutil.ToFloat64(b.writes.WithLabelValues("set")); got != 0 {
		t.Errorf("second collector writes = %v, want 0", got)
	}
}
