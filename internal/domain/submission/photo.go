package submission

import (
	"net/http"
	"strings"
)

const MaxPhotoSize = 5 * 1024 * 1024

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Photo is an uploaded proof image held in memory.
type Photo struct {
	Filename string
	Data     []byte
}

// sniff checks size and detected content type, returning the content type
// and the extension used for the blob key. The client-declared type is
// ignored.
func (p Photo) sniff() (contentType, ext string, err error) {
	if len(p.Data) == 0 {
		return "", "", ErrPhotoEmpty
	}
	if len(p.Data) > MaxPhotoSize {
		return "", "", ErrPhotoTooLarge
	}

	head := p.Data
	if len(head) > 512 {
		head = head[:512]
	}
	contentType = strings.Split(http.DetectContentType(head), ";")[0]

	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		return "", "", ErrPhotoType
	}
	return contentType, ext, nil
}
