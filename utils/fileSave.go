package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// SaveImageFile validates that the upload is an image, stores it under dir
// with a generated name, and writes a 300x200 thumbnail next to it.
// Returns the stored filename.
func SaveImageFile(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	buff := make([]byte, 512)
	n, err := file.Read(buff)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(buff[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", errors.New("invalid file type")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	path := filepath.Join(dir, filename)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}

	// Thumbnail failures are not fatal; the original is already stored.
	if err := CreateThumb(path, dir, 300, 200); err != nil {
		fmt.Println("thumbnail generation failed:", err)
	}

	return filename, nil
}

// CreateThumb writes a resized copy of the image at src into dir/thumb/.
func CreateThumb(src, dir string, width, height int) error {
	img, err := imaging.Open(src)
	if err != nil {
		return err
	}
	thumb := imaging.Fit(img, width, height, imaging.Lanczos)
	thumbDir := filepath.Join(dir, "thumb")
	if err := EnsureDir(thumbDir); err != nil {
		return err
	}
	return imaging.Save(thumb, filepath.Join(thumbDir, filepath.Base(src)))
}
