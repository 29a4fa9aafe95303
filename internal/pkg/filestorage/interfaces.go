package filestorage

import (
	"mime/multipart"
)

// Upload categories. Each maps to its own directory or key prefix.
const (
	CategoryAvatars   = "avatars"
	CategoryLogos     = "logos"
	CategoryCampaigns = "campaigns"
	CategoryDocuments = "documents"
)

// FileStorage defines the interface for file storage backends
type FileStorage interface {
	// SaveFile stores an uploaded file under the given category and
	// returns the URL clients can fetch it from
	SaveFile(fileHeader *multipart.FileHeader, category string) (string, error)

	// DeleteFile removes a stored file. Deleting a missing file is not
	// an error.
	DeleteFile(fileURL string) error
}
