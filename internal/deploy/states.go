package deploy

// State is a stage in the lifecycle of a single deployment attempt.
// Every attempt starts at Pending and advances one state per completed
// step; the recorded sequence never skips a state.
type State string

const (
	StatePending            State = "Pending"
	StateSessionEstablished State = "SessionEstablished"
	StateImagePulled        State = "ImagePulled"
	StateManifestApplied    State = "ManifestApplied"
	StateRolloutTriggered   State = "RolloutTriggered"
	StateReady              State = "Ready"
	StateTimedOut           State = "TimedOut"
	StateFailed             State = "Failed"
)
