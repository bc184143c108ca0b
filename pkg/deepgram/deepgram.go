package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSizeBytes = 16 << 20

type Config struct {
	APIKey   string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	BaseURL  string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.deepgram.com"`
	TTSModel string        `envconfig:"TTS_MODEL" split_words:"true" default:"aura-asteria-en"`
	STTModel string        `envconfig:"STT_MODEL" split_words:"true" default:"nova-2"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Client wraps the Deepgram REST text-to-speech endpoint. Live
// speech-to-text lives in LiveTranscription.
type Client struct {
	baseURL    string
	apiKey     string
	ttsModel   string
	sttModel   string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("deepgram base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid deepgram base url: %w", err)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("deepgram api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		ttsModel: strings.TrimSpace(cfg.TTSModel),
		sttModel: strings.TrimSpace(cfg.STTModel),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	c, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Synthesize converts text to audio via /v1/speak and returns the encoded
// audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text is empty")
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal speak payload: %w", err)
	}

	endpoint := c.baseURL + "/v1/speak"
	if c.ttsModel != "" {
		endpoint += "?model=" + url.QueryEscape(c.ttsModel)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speak request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute speak request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read speak response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("speak http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
