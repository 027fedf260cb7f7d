package watcher

import (
	"fmt"
	"testing"
	"time"
)

const testInterval = 50 * time.Millisecond

func receiveBatch(t *testing.T, d *Debouncer, timeout time.Duration) []Change {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for debouncer batch")
		return nil
	}
}

func Test_Debouncer_SingleChange(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("src", OpCreate)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 1 {
		t.Fatalf("expected 1 change, got %d", len(batch))
	}
	if batch[0].Path != "src" || batch[0].Op != OpCreate {
		t.Errorf("unexpected change: %+v", batch[0])
	}
}

func Test_Debouncer_LatestOpWins(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("notes.txt", OpCreate)
	d.Add("notes.txt", OpRemove)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 1 {
		t.Fatalf("expected 1 collapsed change, got %d", len(batch))
	}
	if batch[0].Op != OpRemove {
		t.Errorf("expected OpRemove, got %s", batch[0].Op)
	}
}

func Test_Debouncer_BatchSortedByPath(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("zeta", OpCreate)
	d.Add("alpha", OpRemove)
	d.Add("mid", OpRename)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	want := []string{"alpha", "mid", "zeta"}
	if len(batch) != len(want) {
		t.Fatalf("expected %d changes, got %d", len(want), len(batch))
	}
	for i, path := range want {
		if batch[i].Path != path {
			t.Errorf("change[%d]: expected %s, got %s", i, path, batch[i].Path)
		}
	}
}

func Test_Debouncer_TimerReset(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("a", OpCreate)
	time.Sleep(testInterval / 2)
	d.Add("b", OpCreate)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 2 {
		t.Fatalf("expected both changes in one batch, got %v", batch)
	}
}

func Test_Debouncer_StopClosesOutput(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("a", OpCreate)
	d.Stop()
	d.Add("b", OpCreate)

	select {
	case batch, ok := <-d.Output():
		if ok {
			t.Errorf("expected closed channel, got batch %v", batch)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected output channel to be closed")
	}
}

func Test_Debouncer_StopWithFullOutput(t *testing.T) {
	d := NewDebouncer(time.Millisecond)

	// One more batch than the output buffer holds, with no reader.
	for i := range 17 {
		d.Add(fmt.Sprintf("path-%d", i), OpCreate)
		time.Sleep(20 * time.Millisecond)
	}

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked while a batch was waiting for a reader")
	}

	batches := 0
	for range d.Output() {
		batches++
	}
	if batches == 0 || batches > 16 {
		t.Errorf("expected at most 16 buffered batches, got %d", batches)
	}
}

func Test_Op_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Op(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
