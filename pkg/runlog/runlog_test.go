package runlog

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndLastFound(t *testing.T) {
	l := openTestLog(t)

	entries := []Entry{
		{CategoryKey: "Rimi:Beer", Store: "Rimi", Pages: 3, Found: 112, Merged: 110, Sales: 4, StartedAt: time.Now(), Duration: 90 * time.Second},
		{CategoryKey: "Rimi:Beer", Store: "Rimi", Pages: 1, Found: 0, Merged: 0, Sales: 0, StartedAt: time.Now(), Duration: 5 * time.Second},
	}
	for _, e := range entries {
		if err := l.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	found, ok := l.LastFound("Rimi:Beer")
	if !ok {
		t.Fatal("LastFound found nothing")
	}
	if found != 0 {
		t.Errorf("LastFound should return the most recent run, got %d", found)
	}
}

func TestLastFoundUnknownCategory(t *testing.T) {
	l := openTestLog(t)

	if _, ok := l.LastFound("Barbora:Nothing"); ok {
		t.Error("LastFound should report false for a never-run category")
	}
}
