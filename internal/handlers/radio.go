package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"juliejulie/internal/command"
)

type station struct {
	Name string
	URL  string
}

// Curated stations with reliable web players.
var radioStations = map[string]station{
	"classical":   {Name: "Radio Paradise Main Mix", URL: "https://radioparadise.com/player"},
	"jazz":        {Name: "SomaFM Groove Salad", URL: "https://somafm.com/player/#/now-playing/groovesalad"},
	"rock":        {Name: "Radio Paradise Rock Mix", URL: "https://radioparadise.com/listen/rock-mix"},
	"progressive": {Name: "SomaFM BAGeL Radio", URL: "https://somafm.com/player/#/now-playing/bagel"},
	"npr":         {Name: "NPR Live Radio", URL: "https://www.npr.org/player/live"},
	"news":        {Name: "NPR Live Radio", URL: "https://www.npr.org/player/live"},
}

var radioKeywords = []string{
	"radio",
	"classical music",
	"jazz music",
	"rock music",
	"play classical",
	"play jazz",
	"play rock",
	"play npr",
	"play the news",
}

// Radio opens one of the curated streaming stations.
type Radio struct{}

func (Radio) Name() string { return "radio" }

func (Radio) TryHandle(_ context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if !containsAny(lower, radioKeywords) {
		return nil, nil
	}

	key := determineStation(lower)
	if key == "" {
		return listStations(), nil
	}

	st := radioStations[key]
	return &command.Result{
		SpokenResponse:    fmt.Sprintf("Starting %s.", st.Name),
		OpenedURL:         st.URL,
		AdditionalContext: fmt.Sprintf("Playing %s station", key),
	}, nil
}

func determineStation(lower string) string {
	// Progressive before rock: "prog rock" must not resolve to the rock mix.
	if containsAny(lower, []string{"progressive rock", "prog rock", "progressive", "prog"}) {
		return "progressive"
	}
	for _, key := range []string{"classical", "jazz", "rock", "npr", "news"} {
		if strings.Contains(lower, key) {
			return key
		}
	}
	return ""
}

func listStations() *command.Result {
	keys := make([]string, 0, len(radioStations))
	for k := range radioStations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, fmt.Sprintf("%s (%s)", k, radioStations[k].Name))
	}
	return &command.Result{
		SpokenResponse: fmt.Sprintf(
			"I can play these radio stations: %s. Just say 'play classical radio', 'play jazz radio', or 'play rock radio'.",
			strings.Join(names, ", ")),
		AdditionalContext: "Available stations: " + strings.Join(keys, ", "),
	}
}
