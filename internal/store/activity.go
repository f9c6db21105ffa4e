package store

import (
	"sort"
	"sync"
	"time"
)

// Activity is a timed, progress-tracked session attached to a node. It holds
// one optional primary outcome item and any number of additional items. All
// methods are safe for concurrent use, so snapshot captures may read an
// activity while another goroutine updates it.
type Activity struct {
	ID string

	clock func() time.Time

	mu        sync.Mutex
	started   bool
	startedAt time.Time
	stoppedAt time.Time

	// absolute is the last value set through SetProgress; it is superseded
	// whenever progress ranges exist.
	absolute float64
	ranges   []progressRange

	primary    *Item
	additional []Item
}

type progressRange struct {
	start, end float64
}

// Start marks the activity as running. Starting an already started activity
// is a no-op; starting a stopped activity resumes it.
func (a *Activity) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started = true
	if a.startedAt.IsZero() {
		a.startedAt = a.clock()
	}
	a.stoppedAt = time.Time{}
}

// Stop halts the activity and freezes its duration.
func (a *Activity) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return
	}
	a.started = false
	a.stoppedAt = a.clock()
}

// IsStarted reports whether the activity is currently running.
func (a *Activity) IsStarted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}

// StartedAt returns when the activity first started.
func (a *Activity) StartedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startedAt
}

// StoppedAt returns when the activity last stopped, zero while running.
func (a *Activity) StoppedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stoppedAt
}

// Duration returns the elapsed time between start and stop, or between start
// and now while the activity is running.
func (a *Activity) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.startedAt.IsZero() {
		return 0
	}
	end := a.stoppedAt
	if end.IsZero() {
		end = a.clock()
	}
	return end.Sub(a.startedAt)
}

// SetProgress overwrites progress with an absolute value. Out-of-range
// values pass through untouched; clamping is left to consumers of the
// reported value. Any accumulated ranges are discarded.
func (a *Activity) SetProgress(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.absolute = value
	a.ranges = nil
}

// AddProgressRange accumulates the sub-range [start, end] into cumulative
// progress. Bounds are clamped to [0, 1]; ranges only ever grow the covered
// total, never shrink it.
func (a *Activity) AddProgressRange(start, end float64) {
	start = clamp01(start)
	end = clamp01(end)
	if end <= start {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ranges = append(a.ranges, progressRange{start: start, end: end})
}

// Progress reports cumulative progress: the covered length of all
// accumulated ranges when any exist, otherwise the last absolute value.
func (a *Activity) Progress() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.ranges) == 0 {
		return a.absolute
	}
	merged := make([]progressRange, len(a.ranges))
	copy(merged, a.ranges)
	sort.Slice(merged, func(i, j int) bool { return merged[i].start < merged[j].start })

	total := 0.0
	current := merged[0]
	for _, r := range merged[1:] {
		if r.start > current.end {
			total += current.end - current.start
			current = r
			continue
		}
		if r.end > current.end {
			current.end = r.end
		}
	}
	total += current.end - current.start
	return total
}

// SetPrimaryItem replaces the activity's single primary outcome item.
func (a *Activity) SetPrimaryItem(item Item) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.primary = &item
}

// PrimaryItem returns the primary outcome item, if set.
func (a *Activity) PrimaryItem() (Item, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.primary == nil {
		return Item{}, false
	}
	return *a.primary, true
}

// AddAdditionalItem appends an outcome item to the additional-items
// collection. The collection is append-only and does not deduplicate by
// identifier.
func (a *Activity) AddAdditionalItem(item Item) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.additional = append(a.additional, item)
}

// AdditionalItems returns the additional outcome items in insertion order.
func (a *Activity) AdditionalItems() []Item {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Item, len(a.additional))
	copy(out, a.additional)
	return out
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
