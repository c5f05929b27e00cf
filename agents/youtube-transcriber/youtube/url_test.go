package youtube

import (
	"errors"
	"testing"

	"yt-transcriber/internal/models"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"Watch URL", "https://www.youtube.com/watch?v=X", "https://www.youtube.com/watch?v=X", false},
		{"Short http URL", "http://youtu.be/X", "http://youtu.be/X", false},
		{"Short https URL", "https://youtu.be/dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ", false},
		{"Plain http www", "http://www.youtube.com/watch?v=X", "http://www.youtube.com/watch?v=X", false},
		{"Surrounding whitespace trimmed", "  https://youtu.be/X \n", "https://youtu.be/X", false},
		{"Vimeo rejected", "https://vimeo.com/X", "", true},
		{"Empty rejected", "", "", true},
		{"Whitespace rejected", "   ", "", true},
		{"Mobile host rejected", "https://m.youtube.com/watch?v=X", "", true},
		{"No scheme rejected", "www.youtube.com/watch?v=X", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateURL(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("ValidateURL(%q) error = %v, want ErrInvalidURL", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateURL(%q) unexpected error: %v", tt.input, err)
			}
			if string(got) != tt.want {
				t.Errorf("ValidateURL(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"Watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"Watch with extra params", "https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"Short link", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ", false},
		{"Shorts", "https://www.youtube.com/shorts/abcdefghijk", "abcdefghijk", false},
		{"Embed", "https://www.youtube.com/embed/abc_def-123", "abc_def-123", false},
		{"Live", "https://www.youtube.com/live/abc_def-123", "abc_def-123", false},
		{"Too short", "https://www.youtube.com/watch?v=X", "", true},
		{"Channel page", "https://www.youtube.com/@somechannel", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VideoID(models.VideoReference(tt.ref))
			if tt.wantErr {
				if err == nil {
					t.Errorf("VideoID(%s) = %s, want error", tt.ref, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("VideoID(%s) unexpected error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("VideoID(%s) = %s, want %s", tt.ref, got, tt.want)
			}
		})
	}
}
