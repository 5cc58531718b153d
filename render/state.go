package render

// State is the frame-pacing state of an Output.
type State uint8

const (
	// Unconfigured outputs have no size yet and ignore render requests.
	Unconfigured State = iota

	// Idle outputs render immediately on request.
	Idle

	// AwaitingFrame outputs have a frame in flight.
	AwaitingFrame

	// AwaitingFramePendingRender outputs have a frame in flight and will
	// render again as soon as it completes.
	AwaitingFramePendingRender
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unconfigured:
		return "Unconfigured"
	case Idle:
		return "Idle"
	case AwaitingFrame:
		return "AwaitingFrame"
	case AwaitingFramePendingRender:
		return "AwaitingFramePendingRender"
	default:
		return "Unknown"
	}
}
