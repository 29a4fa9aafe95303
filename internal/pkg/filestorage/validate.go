package filestorage

import (
	"fmt"
	"math/rand"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/emre/solidarity/internal/pkg/apperrors"
)

// MaxFileSize caps uploads at 5 MiB
const MaxFileSize = 5 << 20

// MaxFilesPerUpload caps multi-file uploads
const MaxFilesPerUpload = 5

var imageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var documentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ValidateImage checks size and sniffed content type for image uploads
func ValidateImage(fileHeader *multipart.FileHeader) error {
	return validate(fileHeader, imageTypes)
}

// ValidateDocument checks size and sniffed content type for supporting
// documents. Images are accepted alongside pdf and word files.
func ValidateDocument(fileHeader *multipart.FileHeader) error {
	return validate(fileHeader, append(imageTypes, documentTypes...))
}

// validate sniffs the real content type from the file bytes rather than
// trusting the client-supplied header.
func validate(fileHeader *multipart.FileHeader, allowed []string) error {
	if fileHeader.Size > MaxFileSize {
		return apperrors.ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return fmt.Errorf("failed to detect content type: %w", err)
	}

	for _, t := range allowed {
		if detected.Is(t) {
			return nil
		}
	}

	return apperrors.ErrUnsupportedFileType
}

// uniqueFilename builds a collision-resistant name keeping the original
// extension: <category>-<unix ms>-<random>.<ext>
func uniqueFilename(category, originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%s-%d-%d%s", category, time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}
