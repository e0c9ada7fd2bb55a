package preview

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"tsboard/internal/logger"
)

var errEmptyMat = errors.New("opencv could not decode image")

// Loader decodes image files for on-screen display, bounded to maxSize
// pixels on the longer side.
type Loader struct {
	maxSize int
	logger  logger.Logger
}

func NewLoader(maxSize int, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Loader{maxSize: maxSize, logger: log}
}

// Load decodes path with OpenCV, falling back to the Go decoders for files
// OpenCV cannot read.
func (l *Loader) Load(path string) (image.Image, error) {
	img, err := l.loadOpenCV(path)
	if err == nil {
		return img, nil
	}

	l.logger.Debug("Preview", "opencv decode failed, using Go decoders", map[string]interface{}{
		"path":  path,
		"error": err.Error(),
	})

	img, err = l.loadStd(path)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", path, err)
	}
	return img, nil
}

func (l *Loader) loadOpenCV(path string) (image.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	defer mat.Close()

	if mat.Empty() {
		return nil, errEmptyMat
	}

	w, h := Fit(mat.Cols(), mat.Rows(), l.maxSize)
	if w == mat.Cols() && h == mat.Rows() {
		return mat.ToImage()
	}

	resized := gocv.NewMat()
	defer resized.Close()

	gocv.Resize(mat, &resized, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationArea)
	if resized.Empty() {
		return nil, errEmptyMat
	}
	return resized.ToImage()
}

func (l *Loader) loadStd(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), l.maxSize)
	if w == b.Dx() && h == b.Dy() {
		return src, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

// Fit scales width x height down so the longer side is at most limit while
// keeping the aspect ratio. Images already within bounds are unchanged, and
// neither side drops below one pixel. A non-positive limit disables scaling.
func Fit(width, height, limit int) (int, int) {
	if limit <= 0 || (width <= limit && height <= limit) {
		return width, height
	}

	if width >= height {
		h := height * limit / width
		if h < 1 {
			h = 1
		}
		return limit, h
	}

	w := width * limit / height
	if w < 1 {
		w = 1
	}
	return w, limit
}
