// Package output converts rendered RGB buffers to images and writes them to disk.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

var (
	// ErrUnsupportedFormat is returned by Save for unknown file extensions
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrBufferSize is returned when a buffer does not hold width*height RGB pixels
	ErrBufferSize = errors.New("buffer size does not match image dimensions")
)

// PPMEncoding selects the PPM variant
type PPMEncoding int

const (
	PPMBinary PPMEncoding = iota // P6
	PPMASCII                     // P3, one pixel per line
)

func checkBuffer(buf []byte, width, height int) error {
	if width <= 0 || height <= 0 || len(buf) != width*height*3 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferSize, len(buf), width, height)
	}
	return nil
}

// ToRGBA converts a row-major RGB buffer, top row first, to an opaque RGBA image
func ToRGBA(buf []byte, width, height int) (*image.RGBA, error) {
	if err := checkBuffer(buf, width, height); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			offset := (y*width + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: buf[offset], G: buf[offset+1], B: buf[offset+2], A: 255})
		}
	}
	return img, nil
}

// WritePNG encodes the buffer as PNG
func WritePNG(w io.Writer, buf []byte, width, height int) error {
	img, err := ToRGBA(buf, width, height)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WriteTIFF encodes the buffer as an uncompressed 8-bit TIFF
func WriteTIFF(w io.Writer, buf []byte, width, height int) error {
	img, err := ToRGBA(buf, width, height)
	if err != nil {
		return err
	}
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Uncompressed})
}

// WritePPM encodes the buffer as a binary (P6) or plain-text (P3) PPM
func WritePPM(w io.Writer, buf []byte, width, height int, encoding PPMEncoding) error {
	if err := checkBuffer(buf, width, height); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	switch encoding {
	case PPMBinary:
		fmt.Fprintf(bw, "P6\n%d %d\n255\n", width, height)
		bw.Write(buf)
	case PPMASCII:
		fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height)
		for i := 0; i < len(buf); i += 3 {
			fmt.Fprintf(bw, "%d %d %d\n", buf[i], buf[i+1], buf[i+2])
		}
	default:
		return fmt.Errorf("%w: PPM encoding %d", ErrUnsupportedFormat, encoding)
	}
	return bw.Flush()
}

// Save writes the buffer to path, choosing the format from the extension:
// .png, .tif/.tiff or .ppm (binary). Missing parent directories are created.
func Save(path string, buf []byte, width, height int) error {
	var encode func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = func(w io.Writer) error { return WritePNG(w, buf, width, height) }
	case ".tif", ".tiff":
		encode = func(w io.Writer) error { return WriteTIFF(w, buf, width, height) }
	case ".ppm":
		encode = func(w io.Writer) error { return WritePPM(w, buf, width, height, PPMBinary) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if err := checkBuffer(buf, width, height); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encode(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
