// Package whisper transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint and renders the result as SRT.
package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wandlung/internal/language"
	"wandlung/internal/services/llm"
	"wandlung/internal/subtitles"
)

const (
	providerName       = "whisper"
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "whisper-1"
	defaultLanguage    = "English"
	defaultHTTPTimeout = 10 * time.Minute
)

// Config captures the static client settings.
type Config struct {
	BaseURL         string
	Model           string
	TimeoutSeconds  int
	DefaultLanguage string
}

// Transcript is the result of a transcription.
type Transcript struct {
	SRT      string
	Language string
	Duration float64
}

// Client uploads audio files for transcription.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New constructs a client from cfg.
func New(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		cfg.DefaultLanguage = defaultLanguage
	}
	client := &Client{cfg: cfg, httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type verboseResponse struct {
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the audio file at audioPath using apiKey.
func (c *Client) Transcribe(ctx context.Context, apiKey, audioPath string) (Transcript, error) {
	var empty Transcript
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return empty, errors.New("whisper: api key required")
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "audio", "transcriptions")
	if err != nil {
		return empty, fmt.Errorf("whisper: build url: %w", err)
	}

	body, contentType, err := c.multipartBody(audioPath)
	if err != nil {
		return empty, err
	}
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return empty, fmt.Errorf("whisper: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("whisper: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	if err := llm.CheckResponse(providerName, resp); err != nil {
		return empty, err
	}

	var decoded verboseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return empty, fmt.Errorf("whisper: decode response: %w", err)
	}
	segments := make([]subtitles.Segment, 0, len(decoded.Segments))
	for _, seg := range decoded.Segments {
		segments = append(segments, subtitles.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	if len(segments) == 0 && strings.TrimSpace(decoded.Text) != "" {
		segments = append(segments, subtitles.Segment{Start: 0, End: decoded.Duration, Text: decoded.Text})
	}
	srt := subtitles.FromSegments(segments)
	if strings.TrimSpace(srt) == "" {
		return empty, errors.New("whisper: transcript contained no speech")
	}

	lang := language.DisplayName(decoded.Language)
	if lang == "" {
		lang = language.DisplayName(c.cfg.DefaultLanguage)
	}
	return Transcript{SRT: srt, Language: lang, Duration: decoded.Duration}, nil
}

// multipartBody streams the form through a pipe so large audio files are not
// buffered in memory.
func (c *Client) multipartBody(audioPath string) (io.ReadCloser, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("whisper: open audio: %w", err)
	}
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		defer file.Close()
		err := func() error {
			if err := writer.WriteField("model", c.cfg.Model); err != nil {
				return err
			}
			if err := writer.WriteField("response_format", "verbose_json"); err != nil {
				return err
			}
			part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, file); err != nil {
				return err
			}
			return writer.Close()
		}()
		_ = pw.CloseWithError(err)
	}()
	return pr, writer.FormDataContentType(), nil
}
