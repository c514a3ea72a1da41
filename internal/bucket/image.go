package bucket

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/minio/minio-go/v7"
	"golang.org/x/image/draw"

	"github.com/peepeep/peepeep-manager/internal/entity"
)

// compressedMaxWidth bounds the width of the compressed image variant.
const compressedMaxWidth = 800

// UploadImage decodes an uploaded banner or logo and stores the full-size
// JPEG plus a scaled-down compressed variant, returning the hosted URLs.
func (b *Bucket) UploadImage(ctx context.Context, r io.Reader, folder, imageName, contentType string) (*entity.Image, error) {
	img, err := decodeImage(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	imgObj := &entity.Image{}

	fullSizeName := fmt.Sprintf("%s_%s", imageName, "og")
	compressedName := fmt.Sprintf("%s_%s", imageName, "compressed")

	url, err := b.uploadSingleImage(ctx, img, 100, folder, fullSizeName)
	if err != nil {
		return nil, fmt.Errorf("failed to upload full-size image: %w", err)
	}
	imgObj.FullSize = url

	url, err = b.uploadSingleImage(ctx, scaleDown(img, compressedMaxWidth), 60, folder, compressedName)
	if err != nil {
		return nil, fmt.Errorf("failed to upload compressed image: %w", err)
	}
	imgObj.Compressed = url

	return imgObj, nil
}

// UploadFile stores a raw document as-is, used for business licenses.
func (b *Bucket) UploadFile(ctx context.Context, r io.Reader, size int64, folder, fileName, contentType string) (*entity.MediaUpload, error) {
	if !allowedUploadContentTypes[contentType] {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	ext := fileExtensionFromContentType(contentType)
	fp := b.constructFullPath(folder, fileName, ext)

	url, err := b.putObject(ctx, fp, r, size, contentType)
	if err != nil {
		return nil, err
	}

	return &entity.MediaUpload{
		URL:      url,
		FileName: fileName + "." + ext,
		Size:     size,
	}, nil
}

func decodeImage(r io.Reader, contentType string) (image.Image, error) {
	switch contentType {
	case contentTypeJPEG:
		return jpeg.Decode(r)
	case contentTypePNG:
		return png.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// scaleDown resizes img so its width does not exceed maxWidth, keeping the
// aspect ratio. Smaller images pass through untouched.
func scaleDown(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= maxWidth {
		return img
	}
	h := bounds.Dy() * maxWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func (b *Bucket) uploadSingleImage(ctx context.Context, img image.Image, quality int, folder, imageName string) (string, error) {
	var buf bytes.Buffer

	if err := encodeJPG(&buf, img, quality); err != nil {
		return "", fmt.Errorf("failed to encode JPG: %w", err)
	}

	ext := fileExtensionFromContentType(contentTypeJPEG)
	fp := b.constructFullPath(folder, imageName, ext)

	return b.putObject(ctx, fp, &buf, int64(buf.Len()), contentTypeJPEG)
}

func (b *Bucket) putObject(ctx context.Context, fp string, r io.Reader, size int64, contentType string) (string, error) {
	userMetaData := map[string]string{"x-amz-acl": "public-read"}
	cacheControl := "max-age=31536000"

	_, err := b.Client.PutObject(ctx, b.Config.S3BucketName, fp, r, size,
		minio.PutObjectOptions{
			ContentType:  contentType,
			CacheControl: cacheControl,
			UserMetadata: userMetaData,
		},
	)
	if err != nil {
		return "", fmt.Errorf("error putting object: %w", err)
	}

	return b.getCDNURL(fp), nil
}

func encodeJPG(w io.Writer, img image.Image, quality int) error {
	var rgba *image.RGBA
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Opaque() {
		rgba = &image.RGBA{
			Pix:    nrgba.Pix,
			Stride: nrgba.Stride,
			Rect:   nrgba.Rect,
		}
	}

	opts := &jpeg.Options{Quality: quality}
	if rgba != nil {
		return jpeg.Encode(w, rgba, opts)
	}
	return jpeg.Encode(w, img, opts)
}
