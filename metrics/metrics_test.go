package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStateAccountWrites_Increments(t *testing.T) {
	before := testutil.ToFloat64(StateAccountWrites)
	StateAccountWrites.Inc()
	after := testutil.ToFloat64(StateAccountWrites)
	if after != before+1 {
		t.Errorf("StateAccountWrites = %v, want %v", after, before+1)
	}
}

func TestRegistry_Gather(t *testing.T) {
	mfs, err := Registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatal("Gather returned no metric families")
	}
}

func TestHandler_NotNil(t *testing.T) {
	if Handler() == nil {
		t.Fatal("Handler() returned nil")
	}
}
