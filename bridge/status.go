package bridge

// Status is the play state of one sequence slot, as reported by the
// sequencer over the control bus.
type Status uint8

const (
	Stopped Status = iota
	Playing
	Stopping
	Starting
	Restarting
	StoppingSync
	Disabled
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Stopping:
		return "stopping"
	case Starting:
		return "starting"
	case Restarting:
		return "restarting"
	case StoppingSync:
		return "stopping-sync"
	case Disabled:
		return "disabled"
	}
	return "unknown"
}
