package audio

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func TestTrackFrameValue(t *testing.T) {
	tests := []struct {
		name  string
		index int
		total int
		want  string
	}{
		{"both present", 3, 12, "3/12"},
		{"index without total", 3, 0, ""},
		{"total without index", 0, 12, ""},
		{"neither", 0, 0, ""},
		{"negative index", -1, 12, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trackFrameValue(tt.index, tt.total); got != tt.want {
				t.Errorf("trackFrameValue(%d, %d) = %q, want %q", tt.index, tt.total, got, tt.want)
			}
		})
	}
}

func TestWriteTags_MissingFile(t *testing.T) {
	tagger := NewTagger()
	err := tagger.WriteTags("/nonexistent/dir/file.mp3", TagMeta{Title: "x"})
	if err == nil {
		t.Error("tagging a missing file should fail")
	}
}

func encodeTestImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPrepareArtwork_ResizesLargeImages(t *testing.T) {
	data := encodeTestImage(t, 2000, 1000)

	out, err := PrepareArtwork(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable image: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != artworkMaxSize || b.Dy() != artworkMaxSize/2 {
		t.Errorf("resized to %dx%d, want %dx%d", b.Dx(), b.Dy(), artworkMaxSize, artworkMaxSize/2)
	}
}

func TestPrepareArtwork_KeepsSmallImages(t *testing.T) {
	data := encodeTestImage(t, 640, 480)

	out, err := PrepareArtwork(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("small image was resized to %dx%d", b.Dx(), b.Dy())
	}
}

func TestPrepareArtwork_RejectsGarbage(t *testing.T) {
	if _, err := PrepareArtwork([]byte("not an image")); err == nil {
		t.Error("expected decode error for non-image bytes")
	}
}
