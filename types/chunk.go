package types

// UploadChunkQuery carries the side-channel values of one binary chunk.
type UploadChunkQuery struct {
	UploadId string `form:"uploadId" binding:"required"`
	FileSize int64  `form:"fileSize" binding:"required,gt=0"`
}

// UploadChunkResponse is returned for every binary chunk.
// An empty Reference means more chunks are expected.
type UploadChunkResponse struct {
	Reference string `json:"reference"`
}

// TextChangedQuery carries the side-channel values of one text chunk.
type TextChangedQuery struct {
	IsLast bool `form:"isLast"`
}
