package models

import "time"

// Completed describes a successfully uploaded batch as handed to the consumer.
type Completed struct {
	ProjectID string
	Version   int
	Prefix    string
	Files     []*StagedFile
	Keys      map[string]string // basename -> authoritative object key
	At        time.Time
}

// DeployRecord is one deploy-data row kept by the backend for a project.
type DeployRecord struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// DownloadDescriptor is one entry of a presigned download listing.
type DownloadDescriptor struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}
