package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"juliejulie/internal/command"
	"juliejulie/internal/observability"
)

const (
	defaultRequestTimeout = 30 * time.Second

	unavailableResponse = "I'm sorry, my AI service isn't available right now."
	troubleResponse     = "I'm having trouble thinking right now. Please try again in a moment."

	promptTemplate = "Answer briefly, in one or two short sentences suitable for being read aloud. Question: %s"
)

// Client streams generation responses and speaks them sentence by sentence as
// tokens arrive, so the first words are audible long before the reply is done.
type Client struct {
	mgr            *Manager
	speaker        command.Speaker
	notifier       command.Notifier
	metrics        *observability.Metrics
	httpc          *http.Client
	requestTimeout time.Duration
}

func NewClient(mgr *Manager, speaker command.Speaker, notifier command.Notifier, metrics *observability.Metrics) *Client {
	return &Client{
		mgr:            mgr,
		speaker:        speaker,
		notifier:       notifier,
		metrics:        metrics,
		httpc:          &http.Client{},
		requestTimeout: defaultRequestTimeout,
	}
}

// QueryAndSpeak asks the model about userText. The returned result carries the
// full reply, already spoken incrementally; failure modes come back as fixed
// apologetic results for the router to voice.
func (c *Client) QueryAndSpeak(ctx context.Context, userText string) *command.Result {
	if !c.mgr.EnsureAvailable(ctx) {
		c.countRequest("unavailable")
		return &command.Result{SpokenResponse: unavailableResponse}
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	body, err := c.openStream(ctx, fmt.Sprintf(promptTemplate, userText))
	if err != nil {
		log.Printf("ollama request failed: %v", err)
		c.countRequest("error")
		return &command.Result{SpokenResponse: troubleResponse}
	}
	defer body.Close()

	started := time.Now()
	first := true
	full, err := c.consumeStream(body, func(sentence string) {
		if first {
			first = false
			if c.metrics != nil {
				c.metrics.ObserveFirstSentenceLatency(time.Since(started))
			}
		}
		c.speakSentence(sentence)
	})
	if err != nil {
		log.Printf("ollama stream failed: %v", err)
		c.countRequest("error")
		return &command.Result{SpokenResponse: troubleResponse}
	}

	c.countRequest("ok")
	return &command.Result{
		SpokenResponse:    strings.TrimSpace(full),
		AdditionalContext: command.ContextStreamed,
	}
}

// GenerateOnce runs a single non-streaming generation and returns the
// trimmed response text. Used for small utility prompts like query
// reformatting, not for conversation.
func (c *Client) GenerateOnce(ctx context.Context, prompt string) (string, error) {
	if !c.mgr.Running(ctx) {
		return "", fmt.Errorf("ollama service not running")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	payload, err := json.Marshal(map[string]any{
		"model":  c.mgr.ModelName(),
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": 0.1,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.mgr.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("send generate request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate status %d", res.StatusCode)
	}

	var out generateLine
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}

func (c *Client) openStream(ctx context.Context, prompt string) (io.ReadCloser, error) {
	payload, err := json.Marshal(map[string]any{
		"model":  c.mgr.ModelName(),
		"prompt": prompt,
		"stream": true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.mgr.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send generate request: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		res.Body.Close()
		return nil, fmt.Errorf("generate status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}
	return res.Body, nil
}

type generateLine struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// consumeStream reads NDJSON token lines, accumulating the full response while
// flushing each completed sentence to onSentence. Malformed lines are skipped;
// a read error aborts the call.
func (c *Client) consumeStream(body io.Reader, onSentence func(sentence string)) (string, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var full strings.Builder
	var buffer string

	flush := func(chunk string) {
		sentences, rest := splitSentences(chunk)
		buffer = rest
		for _, s := range sentences {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			onSentence(s)
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var tok generateLine
		if err := json.Unmarshal([]byte(line), &tok); err != nil {
			log.Printf("skipping malformed stream line: %v", err)
			continue
		}
		if tok.Response != "" {
			full.WriteString(tok.Response)
			flush(buffer + tok.Response)
		}
		if tok.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("stream read: %w", err)
	}

	if final := strings.TrimSpace(buffer); final != "" {
		onSentence(final)
	}
	return full.String(), nil
}

func (c *Client) speakSentence(sentence string) {
	log.Printf("speaking sentence: %s", sentence)
	if c.metrics != nil {
		c.metrics.SentencesSpoken.Inc()
	}
	if c.notifier != nil {
		c.notifier.Publish(command.Event{Type: command.EventSentence, Text: sentence})
	}
	out := c.speaker.Speak(sentence, false)
	if !out.Success {
		log.Printf("could not speak sentence: %s", out.Err)
	}
}

func (c *Client) countRequest(outcome string) {
	if c.metrics != nil {
		c.metrics.OllamaRequests.WithLabelValues(outcome).Inc()
	}
}
