package handlers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"juliejulie/internal/command"
	"juliejulie/internal/favorites"
)

// mediaService describes one web music service: how commands mention it and
// how to build a search URL for it. Adding a service is a data change.
type mediaService struct {
	key       string
	spokenAs  string
	keywords  []string
	searchURL func(query string) string
}

var mediaRemovePhrases = []string{
	"play", "music", "song", "songs", "some", "on", "the", "video", "videos",
}

var mediaMemoryPhrases = []string{
	"remember this song",
	"save this song",
	"remember that song",
	"add to favorites",
}

var mediaFavoritesPhrases = []string{
	"play my favorites",
	"play favorites",
	"my favorite songs",
}

// Media opens search pages on a music service and keeps per-service
// favorites plus a last-played marker.
type Media struct {
	service mediaService
	store   *favorites.Store
}

func NewSpotify(store *favorites.Store) *Media {
	return &Media{store: store, service: mediaService{
		key:      "spotify",
		spokenAs: "Spotify",
		keywords: []string{"spotify"},
		searchURL: func(q string) string {
			return "https://open.spotify.com/search/" + url.PathEscape(q)
		},
	}}
}

func NewAppleMusic(store *favorites.Store) *Media {
	return &Media{store: store, service: mediaService{
		key:      "apple_music",
		spokenAs: "Apple Music",
		keywords: []string{"apple music", "apple"},
		searchURL: func(q string) string {
			return "https://music.apple.com/us/search?term=" + url.QueryEscape(q)
		},
	}}
}

func NewYouTube(store *favorites.Store) *Media {
	return &Media{store: store, service: mediaService{
		key:      "youtube",
		spokenAs: "YouTube",
		keywords: []string{"youtube"},
		searchURL: func(q string) string {
			return "https://www.youtube.com/results?search_query=" + url.QueryEscape(q)
		},
	}}
}

func (m *Media) Name() string { return m.service.key }

func (m *Media) TryHandle(_ context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if !containsAny(lower, m.service.keywords) {
		return nil, nil
	}

	if containsAny(lower, mediaMemoryPhrases) {
		return m.rememberLastPlayed()
	}
	if containsAny(lower, mediaFavoritesPhrases) {
		return m.playFavorites()
	}

	query := m.extractQuery(lower)
	if query == "" {
		return &command.Result{
			SpokenResponse: fmt.Sprintf("What would you like to hear on %s?", m.service.spokenAs),
		}, nil
	}

	entry := favorites.Entry{Title: query, URL: m.service.searchURL(query)}
	if m.store != nil {
		if err := m.store.SetLastPlayed(m.service.key, entry); err != nil {
			return nil, fmt.Errorf("record last played: %w", err)
		}
	}
	return &command.Result{
		SpokenResponse:    fmt.Sprintf("Searching %s for %s.", m.service.spokenAs, query),
		OpenedURL:         entry.URL,
		AdditionalContext: fmt.Sprintf("Opened %s search", m.service.spokenAs),
	}, nil
}

func (m *Media) rememberLastPlayed() (*command.Result, error) {
	if m.store == nil {
		return &command.Result{SpokenResponse: "I have nowhere to save favorites right now."}, nil
	}
	last, err := m.store.LastPlayed(m.service.key)
	if err != nil {
		return nil, fmt.Errorf("load last played: %w", err)
	}
	if last == nil {
		return &command.Result{
			SpokenResponse: fmt.Sprintf("I haven't played anything on %s yet.", m.service.spokenAs),
		}, nil
	}
	if err := m.store.Add(m.service.key, *last); err != nil {
		return nil, fmt.Errorf("save favorite: %w", err)
	}
	return &command.Result{
		SpokenResponse: fmt.Sprintf("Saved %s to your %s favorites.", last.Title, m.service.spokenAs),
	}, nil
}

func (m *Media) playFavorites() (*command.Result, error) {
	if m.store == nil {
		return &command.Result{SpokenResponse: "I have no favorites saved right now."}, nil
	}
	favs, err := m.store.List(m.service.key)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if len(favs) == 0 {
		return &command.Result{
			SpokenResponse: fmt.Sprintf("You haven't saved any %s favorites yet.", m.service.spokenAs),
		}, nil
	}

	latest := favs[len(favs)-1]
	titles := make([]string, 0, len(favs))
	for _, f := range favs {
		titles = append(titles, f.Title)
	}
	return &command.Result{
		SpokenResponse:    fmt.Sprintf("Playing from your %s favorites: %s.", m.service.spokenAs, strings.Join(titles, ", ")),
		OpenedURL:         latest.URL,
		AdditionalContext: fmt.Sprintf("%d favorites saved", len(favs)),
	}, nil
}

// extractQuery strips the service mention and filler words, keeping the rest
// of the request as the search terms.
func (m *Media) extractQuery(lower string) string {
	for _, kw := range m.service.keywords {
		lower = strings.ReplaceAll(lower, kw, " ")
	}
	words := strings.Fields(lower)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		skip := false
		for _, filler := range mediaRemovePhrases {
			if w == filler {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
