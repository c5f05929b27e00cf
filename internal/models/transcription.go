package models

// VideoReference is a YouTube URL that passed prefix validation.
type VideoReference string

func (v VideoReference) String() string {
	return string(v)
}

// AudioAsset is a locally materialized audio file owned by a single run.
type AudioAsset struct {
	Path string `json:"path"`
}

// VideoMetadata is what the YouTube Data API reports about a video before download.
type VideoMetadata struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ChannelTitle    string `json:"channel_title"`
	PrivacyStatus   string `json:"privacy_status"`
	Duration        string `json:"duration"`
	DurationSeconds int    `json:"duration_seconds"`
}

// TranscriptionResult is the persisted output of a run.
type TranscriptionResult struct {
	Paragraphs []string `json:"paragraphs"`
}
