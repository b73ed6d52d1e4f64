package queue

const TypeSessionExport = "session:export"

// SessionExportPayload drives one asynchronous export run. OwnerID travels
// with the task because the worker has no HTTP request to derive identity
// from.
type SessionExportPayload struct {
	SessionID  string `json:"session_id"`
	OwnerID    string `json:"owner_id"`
	Format     string `json:"format"`
	MinQuality *int   `json:"min_quality,omitempty"`
}
