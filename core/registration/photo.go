package registration

import (
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// LoadPhoto reads a profile photo from disk and detects its MIME type from its content.
// Files larger than MaxPhotoSize are not read; their size is kept so validation can report it.
func LoadPhoto(path string) (*Photo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading photo")
	}
	if fi.IsDir() {
		return nil, errors.Errorf("reading photo: %s is a directory", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "detecting photo type")
	}

	photo := &Photo{
		Filename:    filepath.Base(path),
		ContentType: mtype.String(),
		Size:        fi.Size(),
	}
	if photo.Size <= MaxPhotoSize {
		if photo.Data, err = os.ReadFile(path); err != nil {
			return nil, errors.Wrap(err, "reading photo")
		}
	}
	return photo, nil
}

// NewPhoto wraps in-memory image data, detecting its MIME type.
func NewPhoto(filename string, data []byte) *Photo {
	return &Photo{
		Filename:    filename,
		ContentType: mimetype.Detect(data).String(),
		Size:        int64(len(data)),
		Data:        data,
	}
}
