package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"juliejulie/internal/command"
)

var wikiPrefixes = []string{
	"search wikipedia for ",
	"look up ",
	"tell me about ",
	"what is ",
	"what's a ",
	"who is ",
	"who was ",
}

// Topics the dedicated handlers own. Wiki runs late in the chain, but a
// phrasing like "tell me about the weather" would still land here without
// this check.
var wikiExcludedTopics = []string{"weather", "forecast", "the time", "current time"}

// TopicReformatter rewrites a spoken query into a Wikipedia page title.
// Optional; lookups fall back to the raw topic when it fails.
type TopicReformatter interface {
	GenerateOnce(ctx context.Context, prompt string) (string, error)
}

// Wiki answers "what is" style questions from Wikipedia page summaries.
type Wiki struct {
	httpc       *http.Client
	baseURL     string
	reformatter TopicReformatter
}

func NewWiki(reformatter TopicReformatter) *Wiki {
	return &Wiki{
		httpc:       &http.Client{Timeout: 10 * time.Second},
		baseURL:     "https://en.wikipedia.org",
		reformatter: reformatter,
	}
}

func (h *Wiki) Name() string { return "wiki" }

func (h *Wiki) TryHandle(ctx context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	var topic string
	for _, prefix := range wikiPrefixes {
		if idx := strings.Index(lower, prefix); idx >= 0 {
			topic = strings.TrimSpace(lower[idx+len(prefix):])
			break
		}
	}
	if topic == "" {
		return nil, nil
	}
	for _, excluded := range wikiExcludedTopics {
		if strings.Contains(topic, excluded) {
			return nil, nil
		}
	}

	pageTitle := h.reformatTopic(ctx, topic)
	summary, pageURL, err := h.fetchSummary(ctx, pageTitle)
	fallbackURL := fmt.Sprintf("%s/wiki/%s", h.baseURL, url.PathEscape(strings.ReplaceAll(pageTitle, " ", "_")))
	if err != nil {
		return &command.Result{
			SpokenResponse: fmt.Sprintf("I couldn't retrieve information about %s right now, but I've opened the Wikipedia page.", pageTitle),
			OpenedURL:      fallbackURL,
		}, nil
	}
	if summary == "" {
		return &command.Result{
			SpokenResponse: fmt.Sprintf("I couldn't find a summary for %s, but I've opened the Wikipedia page.", pageTitle),
			OpenedURL:      fallbackURL,
		}, nil
	}
	if pageURL == "" {
		pageURL = fallbackURL
	}
	return &command.Result{
		SpokenResponse:    summary,
		OpenedURL:         pageURL,
		AdditionalContext: "I've also opened the full Wikipedia page for more details.",
	}, nil
}

func (h *Wiki) reformatTopic(ctx context.Context, topic string) string {
	if h.reformatter == nil {
		return topic
	}
	prompt := fmt.Sprintf("Convert this query into a proper Wikipedia page title (just the title, nothing else): %s", topic)
	title, err := h.reformatter.GenerateOnce(ctx, prompt)
	if err != nil || strings.TrimSpace(title) == "" {
		return topic
	}
	return strings.TrimSpace(title)
}

// fetchSummary reads the REST summary endpoint and keeps the first three
// sentences for a spoken-length answer.
func (h *Wiki) fetchSummary(ctx context.Context, title string) (summary, pageURL string, err error) {
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", h.baseURL, url.PathEscape(strings.ReplaceAll(title, " ", "_")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.httpc.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("summary status %d", resp.StatusCode)
	}

	var payload struct {
		Extract     string `json:"extract"`
		ContentURLs struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", err
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", "", err
	}

	extract := strings.TrimSpace(payload.Extract)
	if extract == "" {
		return "", payload.ContentURLs.Desktop.Page, nil
	}
	sentences := strings.SplitN(extract, ". ", 4)
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	summary = strings.Join(sentences, ". ")
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	return summary, payload.ContentURLs.Desktop.Page, nil
}
