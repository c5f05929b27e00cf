package youtubetranscriber

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"yt-transcriber/agents/youtube-transcriber/youtube"
	"yt-transcriber/internal/models"
)

// Prompter asks for a video URL until a valid one is entered. It is not safe
// for concurrent use.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	// pending holds a read left running by a cancelled call. Only one
	// goroutine ever touches scanner at a time.
	pending chan scanResult
}

type scanResult struct {
	text string
	ok   bool
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// PromptURL has no retry limit. It only fails when input ends or ctx is done.
func (p *Prompter) PromptURL(ctx context.Context) (models.VideoReference, error) {
	for {
		fmt.Fprint(p.out, "Please paste your YouTube video URL: ")

		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}

		ref, err := youtube.ValidateURL(line)
		if err == nil {
			return ref, nil
		}
		fmt.Fprintln(p.out, "Invalid YouTube URL. Please enter a valid YouTube video URL.")
	}
}

// readLine lets ctx interrupt a blocked read on the terminal. An interrupted
// read keeps running and is picked up by the next call.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	ch := p.pending
	p.pending = nil
	if ch == nil {
		ch = make(chan scanResult, 1)
		go func() {
			ok := p.scanner.Scan()
			ch <- scanResult{text: p.scanner.Text(), ok: ok}
		}()
	}

	select {
	case <-ctx.Done():
		p.pending = ch
		return "", ctx.Err()
	case r := <-ch:
		if !r.ok {
			if err := p.scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read input: %w", err)
			}
			return "", fmt.Errorf("no valid URL entered: %w", io.EOF)
		}
		return r.text, nil
	}
}
