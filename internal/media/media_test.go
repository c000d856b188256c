package media

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solid(w, h, color.RGBA{200, 0, 0, 255}), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(w, h, color.RGBA{0, 0, 200, 128})); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNormalizeKeepsFormat(t *testing.T) {
	p, err := Normalize(bytes.NewReader(encodeJPEG(t, 100, 80)))
	if err != nil {
		t.Fatalf("Normalize JPEG: %v", err)
	}
	if p.MIME != "image/jpeg" || p.Width != 100 || p.Height != 80 {
		t.Errorf("unexpected JPEG result: %s %dx%d", p.MIME, p.Width, p.Height)
	}

	p, err = Normalize(bytes.NewReader(encodePNG(t, 40, 40)))
	if err != nil {
		t.Fatalf("Normalize PNG: %v", err)
	}
	if p.MIME != "image/png" {
		t.Errorf("expected PNG to stay PNG, got %s", p.MIME)
	}
}

func TestNormalizeDownscales(t *testing.T) {
	p, err := Normalize(bytes.NewReader(encodeJPEG(t, 3200, 1600)))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Width != MaxDimension || p.Height != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, p.Width, p.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if img.Bounds().Dx() != p.Width {
		t.Errorf("encoded width %d does not match reported %d", img.Bounds().Dx(), p.Width)
	}
}

func TestNormalizeRejects(t *testing.T) {
	_, err := Normalize(bytes.NewReader([]byte("GIF89a...")))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for GIF, got %v", err)
	}

	_, err = Normalize(bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for text, got %v", err)
	}

	big := bytes.Repeat([]byte{0}, MaxUploadBytes+10)
	_, err = Normalize(bytes.NewReader(big))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

// pngHeader returns a PNG signature and IHDR chunk declaring a w×h greyscale
// image with no pixel data behind it.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth; colour type, compression, filter and interlace stay 0

	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestNormalizeRejectsHugeDimensions(t *testing.T) {
	data := pngHeader(20000, 20000)
	if len(data) > 64 {
		t.Fatalf("expected a tiny upload, got %d bytes", len(data))
	}

	_, err := Normalize(bytes.NewReader(data))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge for 20000x20000, got %v", err)
	}
}
