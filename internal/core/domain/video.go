package domain

import "time"

// Video is the metadata record for an uploaded file. The bytes themselves
// live in object storage under ObjectKey.
type Video struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	ObjectKey    string    `json:"-" bson:"object_key"`
	OriginalName string    `json:"original_name" bson:"original_name"`
	MimeType     string    `json:"mime_type" bson:"mime_type"`
	Size         int64     `json:"size" bson:"size"`
	IsPublished  bool      `json:"is_published" bson:"is_published"`
	UploadedByID string    `json:"uploaded_by_id" bson:"uploaded_by_id"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
