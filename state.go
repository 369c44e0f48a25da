package trickle

// Status is the lifecycle status of a stream controller.
type Status int

const (
	StatusIdle    Status = iota // No request in flight.
	StatusLoading               // A request is in flight.
	StatusError                 // The last request failed.
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// StreamState is a snapshot of a stream controller's state. Err is non-nil
// only when Status is StatusError.
type StreamState struct {
	Status Status
	Err    error
}
