package imageinfo

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/image/riff"
)

const (
	// maxScanSize bounds how much of a JPEG or PNG is buffered while
	// looking for its EXIF segment.
	maxScanSize = 256 << 20

	// maxExifSize bounds the EXIF payload read out of a WebP chunk.
	maxExifSize = 16 << 20
)

// exifHeader prefixes the TIFF stream in JPEG APP1 segments and, optionally,
// in WebP EXIF chunks.
var exifHeader = []byte("Exif\x00\x00")

var (
	fccWEBP = riff.FourCC{'W', 'E', 'B', 'P'}
	fccEXIF = riff.FourCC{'E', 'X', 'I', 'F'}
)

var errNoExif = errors.New("no exif data")

// resolution returns the XResolution of the primary image as whole dots per
// inch, or DefaultDPI when the tag is absent or not an unsigned rational.
func resolution(r io.Reader, format string) uint32 {
	x, err := decodeExif(r, format)
	if err != nil {
		return DefaultDPI
	}

	tag, err := x.Get(exif.XResolution)
	if err != nil || tag.Type != tiff.DTRational || tag.Count == 0 {
		return DefaultDPI
	}

	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return DefaultDPI
	}
	return uint32(float64(num) / float64(den))
}

func decodeExif(r io.Reader, format string) (*exif.Exif, error) {
	var payload []byte
	var err error

	switch format {
	case "tiff":
		return parseExif(r)
	case "jpeg":
		payload, err = jpegExif(r)
	case "png":
		payload, err = pngExif(r)
	case "webp":
		payload, err = webpExif(r)
	default:
		return nil, errNoExif
	}
	if err != nil {
		return nil, err
	}
	return parseExif(bytes.NewReader(payload))
}

func parseExif(r io.Reader) (*exif.Exif, error) {
	x, err := exif.Decode(r)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, err
	}
	return x, nil
}

// jpegExif returns the TIFF stream of the first APP1 segment carrying the
// Exif header. Other APP1 segments, such as XMP, are skipped.
func jpegExif(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxScanSize))
	if err != nil {
		return nil, err
	}

	// The segments read before a parse error are still returned.
	mc, parseErr := jpegstructure.NewJpegMediaParser().ParseBytes(data)
	sl, ok := mc.(*jpegstructure.SegmentList)
	if !ok || sl == nil {
		return nil, fmt.Errorf("jpeg: %w", errors.Join(errNoExif, parseErr))
	}

	_, segment, err := sl.FindExif()
	if err != nil {
		return nil, errNoExif
	}
	return bytes.TrimPrefix(segment.Data, exifHeader), nil
}

// pngExif returns the payload of the first eXIf chunk.
func pngExif(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxScanSize))
	if err != nil {
		return nil, err
	}

	mc, parseErr := pngstructure.NewPngMediaParser().ParseBytes(data)
	cs, ok := mc.(*pngstructure.ChunkSlice)
	if !ok || cs == nil {
		return nil, fmt.Errorf("png: %w", errors.Join(errNoExif, parseErr))
	}

	chunk, err := cs.FindExif()
	if err != nil {
		return nil, errNoExif
	}
	return chunk.Data, nil
}

// webpExif returns the payload of the RIFF EXIF chunk of an extended WebP.
func webpExif(r io.Reader) ([]byte, error) {
	form, chunks, err := riff.NewReader(r)
	if err != nil {
		return nil, err
	}
	if form != fccWEBP {
		return nil, fmt.Errorf("webp: unexpected riff form %q", form[:])
	}

	for {
		id, length, body, err := chunks.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errNoExif
			}
			return nil, err
		}
		if id != fccEXIF {
			continue
		}
		if length > maxExifSize {
			return nil, fmt.Errorf("webp: exif chunk too large: %d bytes", length)
		}

		data := make([]byte, length)
		if _, err := io.ReadFull(body, data); err != nil {
			return nil, err
		}
		return bytes.TrimPrefix(data, exifHeader), nil
	}
}
