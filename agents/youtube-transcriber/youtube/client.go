package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"yt-transcriber/internal/models"
	"yt-transcriber/shared/config"
)

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// MetadataClient queries the YouTube Data API for a video before it is downloaded.
type MetadataClient struct {
	service *youtube.Service
	logger  zerolog.Logger
}

// NewMetadataClient authenticates with an API key when one is configured,
// otherwise with an OAuth token stored in cfg.TokenFile (obtained through the
// device flow on first use).
func NewMetadataClient(ctx context.Context, cfg *config.YouTubeConfig, logger zerolog.Logger) (*MetadataClient, error) {
	var opts []option.ClientOption

	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{youtube.YoutubeReadonlyScope},
			Endpoint:     google.Endpoint,
		}

		token, err := getToken(ctx, oauthConfig, cfg.TokenFile, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to get OAuth token: %w", err)
		}

		ts := &tokenSaver{config: oauthConfig, token: token, tokenFile: cfg.TokenFile, logger: logger}
		opts = append(opts, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return newMetadataClient(service, logger), nil
}

func newMetadataClient(service *youtube.Service, logger zerolog.Logger) *MetadataClient {
	return &MetadataClient{
		service: service,
		logger:  logger.With().Str("component", "youtube-api").Logger(),
	}
}

// Lookup returns ErrVideoUnavailable when the video does not exist or is private.
func (c *MetadataClient) Lookup(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "status"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, videoID)
		}
		return nil, fmt.Errorf("failed to get video %s: %w", videoID, err)
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: no video with ID %s", ErrVideoUnavailable, videoID)
	}

	item := resp.Items[0]
	meta := &models.VideoMetadata{ID: item.Id}
	if item.Snippet != nil {
		meta.Title = item.Snippet.Title
		meta.ChannelTitle = item.Snippet.ChannelTitle
	}
	if item.ContentDetails != nil {
		meta.Duration = item.ContentDetails.Duration
		meta.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
	}
	if item.Status != nil {
		meta.PrivacyStatus = item.Status.PrivacyStatus
	}

	if meta.PrivacyStatus == "private" {
		return nil, fmt.Errorf("%w: %s is private", ErrVideoUnavailable, videoID)
	}

	return meta, nil
}

// tokenSaver persists every refreshed token so it survives restarts.
type tokenSaver struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenFile string
	logger    zerolog.Logger
	mu        sync.Mutex
}

func (ts *tokenSaver) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	newToken, err := ts.config.TokenSource(context.Background(), ts.token).Token()
	if err != nil {
		return nil, err
	}

	if newToken.AccessToken != ts.token.AccessToken {
		ts.token = newToken
		if err := saveToken(ts.tokenFile, newToken); err != nil {
			ts.logger.Warn().Err(err).Msg("Failed to save refreshed token")
		}
	}

	return newToken, nil
}

// getToken prefers a stored token with a refresh token, even if expired.
func getToken(ctx context.Context, cfg *oauth2.Config, tokenFile string, logger zerolog.Logger) (*oauth2.Token, error) {
	if tok, err := tokenFromFile(tokenFile); err == nil {
		if tok.RefreshToken != "" || tok.Valid() {
			return tok, nil
		}
	}

	tok, err := getTokenWithDeviceFlow(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := saveToken(tokenFile, tok); err != nil {
		logger.Warn().Err(err).Msg("Failed to save token")
	}
	return tok, nil
}

func getTokenWithDeviceFlow(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	resp, err := cfg.DeviceAuth(ctx, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("unable to start device authorization: %w", err)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Println("YOUTUBE DEVICE AUTHORIZATION REQUIRED")
	fmt.Printf("1. Visit %s in your browser.\n", resp.VerificationURI)
	fmt.Printf("2. Enter this code when prompted: %s\n", resp.UserCode)
	fmt.Printf("%s\n", strings.Repeat("=", 60))

	tok, err := cfg.DeviceAccessToken(ctx, resp, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("device authorization did not complete: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("unable to create token directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode oauth token: %w", err)
	}
	return nil
}

// parseDurationSeconds parses ISO 8601 durations such as PT1H2M3S.
func parseDurationSeconds(duration string) int {
	matches := durationPattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	total := 0
	for i, scale := range []int{3600, 60, 1} {
		if matches[i+1] == "" {
			continue
		}
		if n, err := strconv.Atoi(matches[i+1]); err == nil {
			total += n * scale
		}
	}
	return total
}
