package locator

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", KindSingle, false},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", KindSingle, false},
		{"mobile host", "https://m.youtube.com/watch?v=abc", KindSingle, false},
		{"music host", "https://music.youtube.com/watch?v=abc", KindSingle, false},
		{"no scheme", "youtube.com/watch?v=abc", KindSingle, false},
		{"playlist path", "https://www.youtube.com/playlist?list=PLxyz", KindCollection, false},
		{"watch with list param", "https://youtube.com/watch?v=abc&list=PLxyz", KindCollection, false},
		{"other domain", "https://vimeo.com/12345", KindSingle, true},
		{"lookalike domain", "https://notyoutube.com/watch?v=abc", KindSingle, true},
		{"empty", "", KindSingle, true},
		{"whitespace", "   ", KindSingle, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Classify(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidLocator) {
					t.Errorf("Classify(%q) error = %v, want ErrInvalidLocator", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
