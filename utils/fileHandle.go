package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SaveUploadedFile stores an uploaded file under root/bucket with a unique
// key and returns the key ("bucket/name"). Keys combine a timestamp with a
// random suffix so concurrent uploads never overwrite each other.
func SaveUploadedFile(file *multipart.FileHeader, root, bucket string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	destDir := filepath.Join(root, bucket)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	newFilename := time.Now().Format("20060102150405") + "-" + uuid.NewString() + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return bucket + "/" + newFilename, nil
}

// PublicURL resolves a stored key to the path it is served from.
func PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return "/uploads/" + key
}
