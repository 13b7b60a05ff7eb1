package plugin

import "time"

// Status keys and types sent to the host.
const (
	KeySucceed = "succeed"
	KeyLoading = "loading"
	KeyNone    = "none"

	TypeSuccess = "success"
	TypeInfo    = "info"
)

// Status is the small record the host shows in its status area.
type Status struct {
	Key   string
	Type  string
	Title string
}

// Predefined statuses.
var (
	StatusCompiled = Status{Key: KeySucceed, Type: TypeSuccess, Title: "New interface generated"}
	StatusLoading  = Status{Key: KeyLoading, Type: TypeInfo, Title: "Generating ..."}
	StatusNone     = Status{Key: KeyNone}
)

// StatusEmitter is the host's status channel.
type StatusEmitter interface {
	EmitStatus(Status)
}

// StatusFunc adapts a function to StatusEmitter.
type StatusFunc func(Status)

// EmitStatus implements StatusEmitter.
func (f StatusFunc) EmitStatus(s Status) { f(s) }

// Scheduler runs f once after d, on its own goroutine. Nothing it schedules
// is ever cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Navigator opens the builder in a new browsing context.
type Navigator interface {
	Open(url string) error
}
