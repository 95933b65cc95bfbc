package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"juliejulie/internal/execx"
)

// ElevenLabsConfig configures the remote synthesis client.
type ElevenLabsConfig struct {
	APIKey     string
	BaseURL    string
	VoiceID    string
	ModelID    string
	PlayerPath string
}

// ElevenLabsClient synthesizes speech over the ElevenLabs HTTP API and plays
// the returned audio with the local player command.
type ElevenLabsClient struct {
	cfg    ElevenLabsConfig
	client *http.Client
}

func NewElevenLabsClient(cfg ElevenLabsConfig) *ElevenLabsClient {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.elevenlabs.io"
	}
	if strings.TrimSpace(cfg.ModelID) == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if strings.TrimSpace(cfg.PlayerPath) == "" {
		cfg.PlayerPath = "afplay"
	}
	return &ElevenLabsClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": c.cfg.ModelID,
	})
	if err != nil {
		return fmt.Errorf("marshal tts request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/text-to-speech/" + c.cfg.VoiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Accept", "audio/mpeg")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send tts request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("tts http status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	tmp, err := os.CreateTemp("", "juliejulie-tts-*.mp3")
	if err != nil {
		return fmt.Errorf("create temp audio file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, copyErr := io.Copy(tmp, res.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		return fmt.Errorf("write audio payload: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close audio file: %w", closeErr)
	}

	out := execx.Run(ctx, 0, c.cfg.PlayerPath, tmpPath)
	if out.Status != execx.OK {
		return fmt.Errorf("audio playback failed: %s", out.Message())
	}
	return nil
}
