package bucket

import (
	"fmt"
	"path"
	"strings"
)

const (
	contentTypeJPEG = "image/jpeg"
	contentTypePNG  = "image/png"
	contentTypePDF  = "application/pdf"
)

func fileExtensionFromContentType(contentType string) string {
	switch contentType {
	case contentTypeJPEG:
		return "jpg"
	case contentTypePNG:
		return "png"
	case contentTypePDF:
		return "pdf"
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) > 1 {
			return parts[1]
		}
		return contentType
	}
}

// allowedUploadContentTypes lists what providers may upload as a business
// license document.
var allowedUploadContentTypes = map[string]bool{
	contentTypeJPEG: true,
	contentTypePNG:  true,
	contentTypePDF:  true,
}

func (b *Bucket) constructFullPath(folder, fileName, ext string) string {
	return path.Clean(path.Join(b.BaseFolder, folder, fileName) + "." + ext)
}

func (b *Bucket) getCDNURL(filePath string) string {
	return fmt.Sprintf("https://%s.%s/%s", b.S3BucketName, b.S3Endpoint, filePath)
}
