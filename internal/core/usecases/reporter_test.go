// internal/core/usecases/reporter_test.go
package usecases

import (
	"testing"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/errors"
	"webfigscan/internal/testutil"
)

func TestMultiReporter_FansOut(t *testing.T) {
	a, b := &recordingReporter{}, &recordingReporter{}
	m := NewMultiReporter(a, nil, b)
	testutil.AssertEqual(t, m.Len(), 2, "nil skipped")

	m.Start(ports.ScanInfo{ScanID: "x"})
	m.Warn("w")
	m.Result(domain.Result{Outcome: domain.OpenNoMatch()})
	m.Finish(domain.NewScanSummary("t", 1))

	for _, r := range []*recordingReporter{a, b} {
		testutil.AssertEqual(t, len(r.started), 1, "start")
		testutil.AssertEqual(t, len(r.warnings), 1, "warn")
		testutil.AssertEqual(t, len(r.results), 1, "result")
		testutil.AssertNotNil(t, r.summary, "finish")
	}
}

func TestMultiReporter_CloseJoinsErrors(t *testing.T) {
	a := &recordingReporter{closeErr: errors.New("disk full")}
	b := &recordingReporter{}
	m := NewMultiReporter(a)
	m.Add(b)

	err := m.Close()
	testutil.AssertError(t, err, "error surfaced")
	testutil.AssertContains(t, err.Error(), "disk full", "cause kept")
	testutil.AssertEqual(t, a.closed, 1, "a closed")
	testutil.AssertEqual(t, b.closed, 1, "b closed despite a's error")
}
