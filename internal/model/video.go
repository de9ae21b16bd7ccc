package model

import (
	"time"
)

type Video struct {
	ID           string    `db:"id"`
	UploadedBy   string    `db:"uploaded_by"`
	CompanyID    *string   `db:"company_id"` // Copied from the uploader at creation, immutable after
	Filename     string    `db:"filename"`   // Server-generated, unique
	OriginalName string    `db:"original_name"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Tags         string    `db:"tags"` // Comma-separated
	StoragePath  string    `db:"storage_path"`
	FileSize     int64     `db:"file_size"`
	Format       string    `db:"format"`
	Duration     *int64    `db:"duration"` // Seconds, unknown until probed
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// VideoListItem is a catalog listing row with the uploader's username
// joined in.
type VideoListItem struct {
	Video
	UploaderName string `db:"uploader_name"`
}
