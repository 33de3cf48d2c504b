package app

// State is a stage of the application lifecycle.
type State int

const (
	StateIdle State = iota
	StateFrontEndStarting
	StateAPIStarting
	StateWindowShown
	StateTerminating
	StateExited
)

var stateNames = [...]string{
	StateIdle:             "Idle",
	StateFrontEndStarting: "FrontEndStarting",
	StateAPIStarting:      "ApiStarting",
	StateWindowShown:      "WindowShown",
	StateTerminating:      "Terminating",
	StateExited:           "Exited",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}
