package imageinfo

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// openFile is swapped in tests to observe the handle lifecycle.
var openFile = func(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Read opens the image at path, decodes its pixel dimensions and looks up
// the horizontal resolution in its embedded EXIF data.
//
// The container format is detected from the file contents, never from the
// extension. Missing or malformed resolution metadata is not an error; the
// DPI then falls back to DefaultDPI. Any returned error wraps ErrOpen or
// ErrDecode and the Info is nil.
func Read(path string) (*Info, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	width, height, format, err := dimensions(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: rewind %s: %w", ErrDecode, path, err)
	}

	return &Info{
		Path:   path,
		DPI:    resolution(f, format),
		Width:  width,
		Height: height,
	}, nil
}

func dimensions(r io.Reader) (width, height uint32, format string, err error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, "", err
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return 0, 0, "", fmt.Errorf("invalid %s dimensions %dx%d", format, cfg.Width, cfg.Height)
	}
	return uint32(cfg.Width), uint32(cfg.Height), format, nil
}
