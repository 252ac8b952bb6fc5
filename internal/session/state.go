package session

// State is the lifecycle phase of a session.
//
// Work sessions move WorkWaiting -> WorkRunning -> BreakRunning and are then
// removed. Breaks created directly start in BreakWaiting with a start time
// equal to their creation time, so the scheduler advances them to
// BreakRunning on its next pass; that one-tick delay is intentional.
type State string

const (
	StateWorkWaiting  State = "work_waiting"
	StateWorkRunning  State = "work_running"
	StateBreakWaiting State = "break_waiting"
	StateBreakRunning State = "break_running"
)
