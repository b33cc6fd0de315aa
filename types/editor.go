package types

// EditorSetupRequest is the body of POST /setup.
type EditorSetupRequest struct {
	ReadOnly bool   `json:"readOnly"`
	Content  string `json:"content"`
}

// EditorInfo describes one editor instance.
type EditorInfo struct {
	EditorId string `json:"editorId"`
	ReadOnly bool   `json:"readOnly"`
	Value    string `json:"value"`
	Uploads  int    `json:"uploads"` // upload sessions still accumulating
}

type EditorUpdateRequest struct {
	Content string `json:"content"`
}

type EditorReadOnlyRequest struct {
	ReadOnly *bool `json:"readOnly" binding:"required"`
}
