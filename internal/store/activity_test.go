package store

import (
	"math"
	"testing"
	"time"
)

func testActivity(now *time.Time) *Activity {
	return &Activity{ID: "activity-1", clock: func() time.Time { return *now }}
}

func TestActivityStartStopDuration(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	activity := testActivity(&now)

	if activity.IsStarted() {
		t.Fatal("expected fresh activity to be stopped")
	}
	if activity.Duration() != 0 {
		t.Fatalf("expected zero duration before start, got %v", activity.Duration())
	}

	activity.Start()
	if !activity.IsStarted() {
		t.Fatal("expected activity to be running")
	}
	startedAt := activity.StartedAt()

	now = now.Add(3 * time.Minute)
	if activity.Duration() != 3*time.Minute {
		t.Fatalf("expected running duration of 3m, got %v", activity.Duration())
	}

	activity.Stop()
	if activity.IsStarted() {
		t.Fatal("expected activity to be stopped")
	}
	if activity.StoppedAt() != now {
		t.Fatalf("unexpected stop time: %v", activity.StoppedAt())
	}

	// The duration is frozen once stopped.
	now = now.Add(time.Hour)
	if activity.Duration() != 3*time.Minute {
		t.Fatalf("expected frozen duration of 3m, got %v", activity.Duration())
	}

	// Resuming keeps the original start time and clears the stop time.
	activity.Start()
	if activity.StartedAt() != startedAt {
		t.Fatalf("expected resume to keep start time, got %v", activity.StartedAt())
	}
	if !activity.StoppedAt().IsZero() {
		t.Fatalf("expected resume to clear stop time, got %v", activity.StoppedAt())
	}
}

func TestActivityStopBeforeStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	activity := testActivity(&now)

	activity.Stop()
	if !activity.StoppedAt().IsZero() {
		t.Fatal("expected stop before start to be a no-op")
	}
}

func TestActivitySetProgress(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	activity := testActivity(&now)

	activity.SetProgress(0.4)
	if activity.Progress() != 0.4 {
		t.Fatalf("unexpected progress: %v", activity.Progress())
	}

	// Absolute values overwrite, including regressions.
	activity.SetProgress(0.1)
	if activity.Progress() != 0.1 {
		t.Fatalf("unexpected progress: %v", activity.Progress())
	}
}

func TestActivityProgressRanges(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	activity := testActivity(&now)

	activity.AddProgressRange(0, 0.25)
	activity.AddProgressRange(0.5, 0.75)
	if got := activity.Progress(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected disjoint ranges to sum to 0.5, got %v", got)
	}

	// Overlapping ranges are merged, not double counted.
	activity.AddProgressRange(0.1, 0.6)
	if got := activity.Progress(); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("expected merged coverage of 0.75, got %v", got)
	}

	// Bounds are clamped to the unit interval.
	activity.AddProgressRange(-2, 2)
	if got := activity.Progress(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected full coverage, got %v", got)
	}
}

func TestActivityProgressRangeIgnoresEmpty(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	activity := testActivity(&now)

	activity.AddProgressRange(0.5, 0.5)
	activity.AddProgressRange(0.8, 0.2)
	if got := activity.Progress(); got != 0 {
		t.Fatalf("expected empty ranges to be ignored, got %v", got)
	}
}

func TestActivityProgressAbsoluteDiscardsRanges(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	activity := testActivity(&now)

	activity.AddProgressRange(0, 0.5)
	activity.SetProgress(0.2)
	if got := activity.Progress(); got != 0.2 {
		t.Fatalf("expected absolute value to win after overwrite, got %v", got)
	}
}

func TestActivityItems(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	activity := testActivity(&now)

	if _, ok := activity.PrimaryItem(); ok {
		t.Fatal("expected no primary item on a fresh activity")
	}

	activity.SetPrimaryItem(NewScoreItem("total", "Total Score", 8, 10))
	activity.SetPrimaryItem(NewQuantityItem("hints", "Hints Used", 3))
	primary, ok := activity.PrimaryItem()
	if !ok || primary.Kind != ItemQuantity {
		t.Fatalf("expected the primary item to be replaced, got %+v", primary)
	}

	activity.AddAdditionalItem(NewBinaryItem("q1", "Question 1", BinaryTrueFalse, true))
	activity.AddAdditionalItem(NewBinaryItem("q1", "Question 1", BinaryTrueFalse, false))
	additional := activity.AdditionalItems()
	if len(additional) != 2 {
		t.Fatalf("expected additional items to accumulate, got %d", len(additional))
	}
	if additional[0].Correct == additional[1].Correct {
		t.Fatal("expected both appended items in insertion order")
	}
}
