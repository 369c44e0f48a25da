package trickle

// StopReason indicates why a stream settled without error.
type StopReason string

const (
	StopComplete  StopReason = "complete"   // Transport closed normally.
	StopEndMarker StopReason = "end_marker" // End marker or finish reason received.
	StopAborted   StopReason = "aborted"    // Cancelled by the caller.
)
