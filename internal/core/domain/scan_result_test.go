// internal/core/domain/scan_result_test.go
package domain

import (
	"encoding/json"
	"testing"
	"time"

	"webfigscan/internal/testutil"
)

func TestScanSummary_Record(t *testing.T) {
	s := NewScanSummary("192.168.1.0/30", 4)

	s.Record(Result{Outcome: ServiceMatch("6.49.6")})
	s.Record(Result{Outcome: OpenNoMatch()})
	s.Record(Result{Outcome: TimedOut()})
	s.Record(Result{Outcome: TimedOut()})

	testutil.AssertEqual(t, s.Completed, uint64(4), "completed")
	testutil.AssertEqual(t, s.Matches(), uint64(1), "matches")
	testutil.AssertEqual(t, s.ByOutcome[OutcomeTimedOut], uint64(2), "timeouts")

	s.EndTime = s.StartTime.Add(3 * time.Second)
	testutil.AssertEqual(t, s.Duration(), 3*time.Second, "duration")
}

func TestResult_IsMatch(t *testing.T) {
	testutil.AssertTrue(t, Result{Outcome: ServiceMatch("")}.IsMatch(), "match without version")
	testutil.AssertFalse(t, Result{Outcome: Closed("refused")}.IsMatch(), "closed")
}

func TestOutcomeKind_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]OutcomeKind{"o": OutcomeTimedOut})
	testutil.AssertNoError(t, err, "marshal")
	testutil.AssertEqual(t, string(data), `{"o":"timeout"}`, "text form")

	for _, k := range OutcomeKinds {
		testutil.AssertNotEqual(t, k.String(), "unknown", "every kind has a name")
	}
}
