package utils

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ThumbnailWidth is the width thumbnails are resized to; height keeps the aspect ratio.
const ThumbnailWidth = 640

// MaxUploadBytes caps uploaded images.
const MaxUploadBytes = 5 << 20

// SaveThumbnail decodes an uploaded image, resizes it and stores it as WebP under
// destDir/subDir. It returns the public path below /uploads.
func SaveThumbnail(file *multipart.FileHeader, destDir, subDir string) (string, error) {
	if file.Size > MaxUploadBytes {
		return "", ErrBadRequest("画像サイズが大きすぎます（最大5MB）")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return "", ErrBadRequest("画像形式が不正です")
	}
	if img.Bounds().Dx() > ThumbnailWidth {
		img = imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	}

	dir := filepath.Join(destDir, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	filename := uuid.NewString() + ".webp"
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if err := webp.Encode(dst, img, &webp.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode webp: %w", err)
	}

	return GetFileURL(filepath.ToSlash(filepath.Join(subDir, filename))), nil
}

func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	return "/uploads/" + strings.TrimPrefix(filePath, "/")
}
