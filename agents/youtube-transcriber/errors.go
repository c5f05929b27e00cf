package youtubetranscriber

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrInterrupted is returned when the run is cancelled before it finishes.
var ErrInterrupted = errors.New("interrupted")

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	// KindInputValidation is a malformed URL or exhausted input. Invalid URLs
	// are handled by re-prompting and only escape when input ends.
	KindInputValidation ErrorKind = iota + 1
	KindDownload
	KindTranscription
	KindPersistence
	// KindCleanup is never fatal.
	KindCleanup
)

func (k ErrorKind) String() string {
	switch k {
	case KindInputValidation:
		return "input validation"
	case KindDownload:
		return "download"
	case KindTranscription:
		return "transcription"
	case KindPersistence:
		return "persistence"
	case KindCleanup:
		return "cleanup"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// PipelineError wraps the first failure of a run. Cleanup holds a removal
// failure that happened afterwards, if any.
type PipelineError struct {
	Kind    ErrorKind
	Err     error
	Cleanup error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first PipelineError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return 0
}

var troubleshootingTips = []string{
	"Check if the video is publicly accessible",
	"Ensure you have a stable internet connection",
	"Verify the video URL is correct",
	"Make sure FFmpeg is installed and in your system PATH",
}

// PrintFailure writes the fatal error, any cleanup warning after it, and the
// fixed troubleshooting list. A cancelled run only gets a short notice.
func PrintFailure(w io.Writer, err error) {
	interrupted := errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled)
	if interrupted {
		fmt.Fprintln(w, "\nInterrupted.")
	} else {
		fmt.Fprintf(w, "An error occurred: %v\n", err)
	}

	var pErr *PipelineError
	if errors.As(err, &pErr) && pErr.Cleanup != nil {
		fmt.Fprintf(w, "Warning: %v\n", pErr.Cleanup)
	}

	if interrupted {
		return
	}

	fmt.Fprintln(w, "\nTroubleshooting tips:")
	for i, tip := range troubleshootingTips {
		fmt.Fprintf(w, "%d. %s\n", i+1, tip)
	}
}
