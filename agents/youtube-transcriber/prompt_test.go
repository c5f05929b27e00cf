package youtubetranscriber

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestPromptURL(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		want         string
		wantInvalid  int
		wantExhausts bool
	}{
		{"First try", "https://www.youtube.com/watch?v=X\n", "https://www.youtube.com/watch?v=X", 0, false},
		{"After retries", "\nhttps://vimeo.com/X\nhttp://youtu.be/X\n", "http://youtu.be/X", 2, false},
		{"No trailing newline", "https://youtu.be/X", "https://youtu.be/X", 0, false},
		{"Input ends", "https://vimeo.com/X\n", "", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.PromptURL(context.Background())
			if tt.wantExhausts {
				if !errors.Is(err, io.EOF) {
					t.Fatalf("PromptURL() error = %v, want io.EOF", err)
				}
			} else {
				if err != nil {
					t.Fatalf("PromptURL() error = %v", err)
				}
				if string(got) != tt.want {
					t.Errorf("PromptURL() = %s, want %s", got, tt.want)
				}
			}

			if n := strings.Count(out.String(), "Invalid YouTube URL"); n != tt.wantInvalid {
				t.Errorf("invalid messages = %d, want %d", n, tt.wantInvalid)
			}
		})
	}
}

func TestPromptURLCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	p := NewPrompter(r, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.PromptURL(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("PromptURL() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestPromptURLResumesAfterCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	p := NewPrompter(r, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.PromptURL(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("PromptURL() error = %v, want context.Canceled", err)
	}

	go func() {
		_, _ = io.WriteString(w, "https://youtu.be/X\n")
	}()

	got, err := p.PromptURL(context.Background())
	if err != nil {
		t.Fatalf("PromptURL() after cancel error = %v", err)
	}
	if string(got) != "https://youtu.be/X" {
		t.Errorf("PromptURL() = %s, want https://youtu.be/X", got)
	}
}
