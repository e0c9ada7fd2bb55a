package imageinfo

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const (
	typeRational  = 5
	typeSRational = 10
	tagXRes       = 0x011a
)

// exifTIFF builds a little-endian TIFF stream whose IFD0 holds a single
// XResolution entry with the given type and count.
func exifTIFF(num, den uint32, typ uint16, count uint32) []byte {
	var b bytes.Buffer
	le := binary.LittleEndian

	b.WriteString("II")
	binary.Write(&b, le, uint16(42))
	binary.Write(&b, le, uint32(8))

	binary.Write(&b, le, uint16(1))
	binary.Write(&b, le, uint16(tagXRes))
	binary.Write(&b, le, typ)
	binary.Write(&b, le, count)
	binary.Write(&b, le, uint32(26))
	binary.Write(&b, le, uint32(0))

	binary.Write(&b, le, num)
	binary.Write(&b, le, den)
	return b.Bytes()
}

func xres(num, den uint32) []byte {
	return exifTIFF(num, den, typeRational, 1)
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// pngBytes encodes a PNG and, when payload is non-nil, inserts an eXIf chunk
// right after IHDR.
func pngBytes(t *testing.T, w, h int, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	data := buf.Bytes()
	if payload == nil {
		return data
	}

	// signature (8) + IHDR chunk (4 + 4 + 13 + 4)
	const afterIHDR = 33
	var chunk bytes.Buffer
	binary.Write(&chunk, binary.BigEndian, uint32(len(payload)))
	body := append([]byte("eXIf"), payload...)
	chunk.Write(body)
	binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(body))

	out := append([]byte{}, data[:afterIHDR]...)
	out = append(out, chunk.Bytes()...)
	return append(out, data[afterIHDR:]...)
}

// jpegBytes encodes a JPEG and, when payload is non-nil, inserts an APP1
// Exif segment right after SOI.
func jpegBytes(t *testing.T, w, h int, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), &jpeg.Options{Quality: 90}))
	data := buf.Bytes()
	if payload == nil {
		return data
	}

	return withAPP1(data, append([]byte("Exif\x00\x00"), payload...))
}

// withAPP1 inserts an APP1 segment with the given body right after SOI, ahead
// of any APP1 already present.
func withAPP1(jpg, body []byte) []byte {
	var app1 bytes.Buffer
	app1.Write([]byte{0xff, 0xe1})
	binary.Write(&app1, binary.BigEndian, uint16(2+len(body)))
	app1.Write(body)

	out := append([]byte{}, jpg[:2]...)
	out = append(out, app1.Bytes()...)
	return append(out, jpg[2:]...)
}

func xmpPacket() []byte {
	return []byte("http://ns.adobe.com/xap/1.0/\x00" +
		`<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description xmlns:tiff="http://ns.adobe.com/tiff/1.0/" tiff:XResolution="300/1"/>` +
		`</rdf:RDF></x:xmpmeta>`)
}

// webpBytes builds an extended WebP header (VP8X) with an optional EXIF
// chunk. It carries no bitstream, which is enough for header decoding.
func webpBytes(w, h int, payload []byte) []byte {
	var chunks bytes.Buffer
	le := binary.LittleEndian

	vp8x := make([]byte, 10)
	if payload != nil {
		vp8x[0] = 1 << 3
	}
	wm, hm := uint32(w-1), uint32(h-1)
	vp8x[4], vp8x[5], vp8x[6] = byte(wm), byte(wm>>8), byte(wm>>16)
	vp8x[7], vp8x[8], vp8x[9] = byte(hm), byte(hm>>8), byte(hm>>16)
	chunks.WriteString("VP8X")
	binary.Write(&chunks, le, uint32(len(vp8x)))
	chunks.Write(vp8x)

	if payload != nil {
		chunks.WriteString("EXIF")
		binary.Write(&chunks, le, uint32(len(payload)))
		chunks.Write(payload)
		if len(payload)%2 == 1 {
			chunks.WriteByte(0)
		}
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, le, uint32(4+chunks.Len()))
	out.WriteString("WEBP")
	out.Write(chunks.Bytes())
	return out.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

// tiffBytes encodes a little-endian TIFF and rewrites the XResolution value
// the encoder always stores as 72/1.
func tiffBytes(t *testing.T, w, h int, num, den uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, testImage(w, h), nil))
	data := buf.Bytes()

	le := binary.LittleEndian
	require.Equal(t, "II", string(data[:2]))
	ifd := le.Uint32(data[4:8])
	entries := int(le.Uint16(data[ifd:]))
	for i := 0; i < entries; i++ {
		entry := data[int(ifd)+2+12*i:]
		if le.Uint16(entry[0:2]) != tagXRes {
			continue
		}
		require.Equal(t, uint16(typeRational), le.Uint16(entry[2:4]))
		value := le.Uint32(entry[8:12])
		le.PutUint32(data[value:], num)
		le.PutUint32(data[value+4:], den)
		return data
	}
	t.Fatal("encoded tiff has no XResolution entry")
	return nil
}
