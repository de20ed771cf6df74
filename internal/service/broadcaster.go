package service

// Broadcaster pushes asynchronous outcomes to the renderer of a session
// (avoids import cycle with the ws package)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

// Message types pushed to renderers
const (
	MsgProgressSaved   = "progress_saved"
	MsgProgressWarning = "progress_warning"
	MsgResumeOffered   = "resume_offered"
	MsgSubmitted       = "submitted"
	MsgSubmitFailed    = "submit_failed"
)
