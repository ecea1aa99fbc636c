package domain

import "time"

// now is the clock used for timestamps. Tests replace it.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Now returns the current time at the precision entities store.
func Now() time.Time {
	return now()
}

// touch returns a timestamp strictly after prev.
func touch(prev time.Time) time.Time {
	t := now()
	if !t.After(prev) {
		t = prev.Add(time.Millisecond)
	}
	return t
}

// normalizeTime converts t to UTC millisecond precision, the resolution
// timestamps survive storage with.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func normalizeTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := normalizeTime(*t)
	return &n
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
