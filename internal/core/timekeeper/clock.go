package timekeeper

import "time"

// Clock abstracts wall-clock reads so tests can drive time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
