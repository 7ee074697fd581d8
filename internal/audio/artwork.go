package audio

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// artworkMaxSize bounds embedded cover art dimensions in pixels.
const artworkMaxSize = 1000

// PrepareArtwork converts downloaded cover art into JPEG suitable for
// embedding: the image is decoded, scaled down to fit artworkMaxSize
// while preserving aspect ratio, and re-encoded as JPEG.
//
// YouTube thumbnails are usually JPEG already, but re-encoding keeps
// the embedded MIME type honest and caps the tag size.
func PrepareArtwork(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > artworkMaxSize || height > artworkMaxSize {
		ratio := float64(width) / float64(height)
		if ratio >= 1 {
			width = artworkMaxSize
			height = int(float64(artworkMaxSize) / ratio)
		} else {
			height = artworkMaxSize
			width = int(float64(artworkMaxSize) * ratio)
		}

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
