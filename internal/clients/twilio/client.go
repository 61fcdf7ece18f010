package twilio

import (
	"callassist-server/internal/observability"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/twilio/twilio-go/client"
)

// maxRecordingBytes matches the upload limit of the transcription API.
const maxRecordingBytes = 25 << 20

var (
	ErrRecordingURL      = errors.New("recording url is not allowed")
	ErrRecordingTooLarge = errors.New("recording exceeds size limit")
	ErrRecordingEmpty    = errors.New("recording is empty")
)

// Recording is a downloaded call recording.
type Recording struct {
	Audio       []byte
	Filename    string
	ContentType string
}

// Client downloads call recordings and validates webhook signatures.
type Client struct {
	accountSID        string
	authToken         string
	validator         *client.RequestValidator
	httpClient        *http.Client
	allowedHostSuffix string
	logger            *observability.Logger
}

func NewClient(accountSID, authToken string, logger *observability.Logger) *Client {
	validator := client.NewRequestValidator(authToken)
	return &Client{
		accountSID:        accountSID,
		authToken:         authToken,
		validator:         &validator,
		httpClient:        &http.Client{Timeout: 60 * time.Second},
		allowedHostSuffix: ".twilio.com",
		logger:            logger,
	}
}

// ValidateRequest checks the X-Twilio-Signature of a form-encoded webhook.
func (c *Client) ValidateRequest(fullURL string, params map[string]string, signature string) bool {
	return c.validator.Validate(fullURL, params, signature)
}

// FetchRecording downloads the MP3 rendition of a recording.
func (c *Client) FetchRecording(ctx context.Context, recordingURL string) (Recording, error) {
	u, err := url.Parse(recordingURL)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %v", ErrRecordingURL, err)
	}
	if c.allowedHostSuffix != "" && (u.Scheme != "https" || !strings.HasSuffix(u.Hostname(), c.allowedHostSuffix)) {
		return Recording{}, fmt.Errorf("%w: %s", ErrRecordingURL, u.Hostname())
	}
	if path.Ext(u.Path) == "" {
		u.Path += ".mp3"
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "recording_url", Value: u.String()})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Recording{}, fmt.Errorf("failed to create recording request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "failed to download recording", err)
		return Recording{}, fmt.Errorf("failed to download recording: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("recording download returned status %d", resp.StatusCode)
		c.logger.Error(ctx, "failed to download recording", err)
		return Recording{}, err
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxRecordingBytes+1))
	if err != nil {
		return Recording{}, fmt.Errorf("failed to read recording: %w", err)
	}
	if len(audio) > maxRecordingBytes {
		return Recording{}, ErrRecordingTooLarge
	}
	if len(audio) == 0 {
		return Recording{}, ErrRecordingEmpty
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return Recording{
		Audio:       audio,
		Filename:    path.Base(u.Path),
		ContentType: contentType,
	}, nil
}
