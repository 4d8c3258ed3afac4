package engine

// State is a step of the per-process lifecycle. Transitions are linear:
//
//	Unstarted → LoggerReady → InstanceConstructed → [NotifiedStartup] → Running → Terminated
type State int

const (
	StateUnstarted State = iota
	StateLoggerReady
	StateInstanceConstructed
	StateNotifiedStartup
	StateRunning
	StateTerminated
)

var stateNames = [...]string{
	StateUnstarted:           "unstarted",
	StateLoggerReady:         "logger_ready",
	StateInstanceConstructed: "instance_constructed",
	StateNotifiedStartup:     "notified_startup",
	StateRunning:             "running",
	StateTerminated:          "terminated",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
