package autocomplete

import "time"

// Timer is the subset of *time.Timer the controller uses.
type Timer interface {
	Stop() bool
}

// Clock schedules debounce callbacks. Tests supply a manual clock so no test
// waits out a real quiet period.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is the wall-clock implementation of Clock.
var RealClock Clock = realClock{}
