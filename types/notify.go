package types

// Notification types pushed to editor subscribers and the host socket.
const (
	NotifyTypeSetup        = "setup"
	NotifyTypeUpdate       = "update"
	NotifyTypeSetReadOnly  = "set_read_only"
	NotifyTypeDestroy      = "destroy"
	NotifyTypeValueChanged = "value_changed"
	NotifyTypeUploadStart  = "upload_start"
	NotifyTypeUploadEnd    = "upload_end"
	NotifyTypeUploadFailed = "upload_failed"
)

// Notification represents a notification message structure
type Notification struct {
	Type     string         `json:"type,omitempty"`     // Notification type, e.g. "update", "value_changed", etc.
	EditorId string         `json:"editorId,omitempty"` // Editor instance the event belongs to
	Title    string         `json:"title,omitempty"`    // Notification title
	Message  string         `json:"message,omitempty"`  // Notification message/content
	Data     map[string]any `json:"data,omitempty"`     // Additional data fields
}
