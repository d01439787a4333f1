package state

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"newsportal/app/models"

	"github.com/gabriel-vasile/mimetype"
)

const (
	msgNotAnImage    = "File harus berupa gambar"
	msgImageTooLarge = "Ukuran gambar melebihi batas"
	msgImageUnread   = "Gambar tidak dapat dibaca"
)

// ReadImage reads an upload into memory, refusing anything larger than max
// bytes or whose content is not an image. The content type is sniffed from
// the bytes; the client-supplied header is not trusted.
func ReadImage(ctx context.Context, r io.Reader, name string, max int64) (models.ImageFile, error) {
	if err := ctx.Err(); err != nil {
		return models.ImageFile{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return models.ImageFile{}, &models.ValidationError{Field: "Image", Message: msgImageUnread}
	}
	if int64(len(data)) > max {
		return models.ImageFile{}, &models.ValidationError{
			Field:   "Image",
			Message: fmt.Sprintf("%s (%d KB)", msgImageTooLarge, max>>10),
		}
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return models.ImageFile{}, &models.ValidationError{Field: "Image", Message: msgNotAnImage}
	}

	return models.ImageFile{
		Name:        filepath.Base(name),
		ContentType: mtype.String(),
		Size:        len(data),
		Data:        data,
	}, nil
}

// UploadPathPrefix is where stored uploads are served for previews.
const UploadPathPrefix = "/admin/uploads/"

// UploadURL is the preview address of a stored upload.
func UploadURL(ref string) string {
	if ref == "" {
		return ""
	}
	return UploadPathPrefix + ref
}
