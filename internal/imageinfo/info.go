package imageinfo

import (
	"errors"
	"fmt"
	"path/filepath"
)

// DefaultDPI is reported when a file carries no usable horizontal resolution.
const DefaultDPI = 72

var (
	// ErrOpen is returned when the file cannot be opened.
	ErrOpen = errors.New("imageinfo: cannot open file")
	// ErrDecode is returned when the file is not a decodable image.
	ErrDecode = errors.New("imageinfo: cannot decode image header")
)

// Info describes a single image file on disk.
type Info struct {
	Path   string `json:"path"`
	DPI    uint32 `json:"dpi"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Name returns the base name of the file.
func (i Info) Name() string {
	return filepath.Base(i.Path)
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%dx%d px, %d dpi)", i.Name(), i.Width, i.Height, i.DPI)
}
