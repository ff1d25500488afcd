// Package media partitions uploaded lead files into images, videos, and
// everything else.
package media

import (
	"path"
	"strings"

	"leadpilot_backend/internal/leads/domain"
)

var (
	imageExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	}
	videoExtensions = map[string]bool{
		".mp4": true, ".mov": true, ".avi": true, ".webm": true,
	}
)

// Classification is the result of partitioning a lead's files.
type Classification struct {
	Images []domain.FileRef
	Videos []domain.FileRef
	Other  []domain.FileRef
}

// Classify partitions files by declared MIME type, falling back to the
// filename extension. Upload surfaces do not always propagate MIME type
// reliably, so the extension check is the tolerant fallback, not the
// primary signal. Input order is preserved within each bucket.
func Classify(files []domain.FileRef) Classification {
	result := Classification{
		Images: []domain.FileRef{},
		Videos: []domain.FileRef{},
		Other:  []domain.FileRef{},
	}

	for _, file := range files {
		switch {
		case isImage(file):
			result.Images = append(result.Images, file)
		case isVideo(file):
			result.Videos = append(result.Videos, file)
		default:
			result.Other = append(result.Other, file)
		}
	}

	return result
}

func isImage(file domain.FileRef) bool {
	if strings.HasPrefix(strings.ToLower(file.MIMEType), "image/") {
		return true
	}
	return imageExtensions[strings.ToLower(path.Ext(file.Name))]
}

func isVideo(file domain.FileRef) bool {
	if strings.HasPrefix(strings.ToLower(file.MIMEType), "video/") {
		return true
	}
	return videoExtensions[strings.ToLower(path.Ext(file.Name))]
}
