package clock

import "time"

// Clock abstracts time.Now so date defaults (payment due dates, document
// dates) stay deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func System() Clock { return systemClock{} }
