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

const weatherUserAgent = "juliejulie/1.0 (personal voice assistant)"

// Weather answers forecast questions by geocoding the location through
// Nominatim and reading the current period from the National Weather
// Service forecast API. US locations only, which is what NWS covers.
type Weather struct {
	httpc           *http.Client
	geocodeBaseURL  string
	forecastBaseURL string
	defaultLocation string
}

func NewWeather(defaultLocation string) *Weather {
	return &Weather{
		httpc:           &http.Client{Timeout: 10 * time.Second},
		geocodeBaseURL:  "https://nominatim.openstreetmap.org",
		forecastBaseURL: "https://api.weather.gov",
		defaultLocation: defaultLocation,
	}
}

func (w *Weather) Name() string { return "weather" }

func (w *Weather) TryHandle(ctx context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if !strings.Contains(lower, "weather") && !strings.Contains(lower, "forecast") {
		return nil, nil
	}

	location := w.extractLocation(lower)
	if location == "" {
		location = w.defaultLocation
	}
	if location == "" {
		return &command.Result{
			SpokenResponse: "Which location would you like the weather for?",
		}, nil
	}

	forecast, err := w.lookupForecast(ctx, location)
	if err != nil {
		return &command.Result{
			SpokenResponse:    fmt.Sprintf("I couldn't get the weather for %s right now.", location),
			AdditionalContext: err.Error(),
		}, nil
	}

	return &command.Result{
		SpokenResponse: fmt.Sprintf("The weather in %s is %s, %d degrees %s.",
			location, forecast.ShortForecast, forecast.Temperature, forecast.TemperatureUnit),
		AdditionalContext: forecast.DetailedForecast,
	}, nil
}

// extractLocation pulls the place name out of phrasings like
// "what's the weather in kansas city".
func (w *Weather) extractLocation(lower string) string {
	for _, marker := range []string{"weather in ", "weather for ", "forecast in ", "forecast for "} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			return strings.TrimSpace(lower[idx+len(marker):])
		}
	}
	return ""
}

type forecastPeriod struct {
	Temperature      int    `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
}

func (w *Weather) lookupForecast(ctx context.Context, location string) (*forecastPeriod, error) {
	lat, lon, err := w.geocode(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", location, err)
	}

	var points struct {
		Properties struct {
			Forecast string `json:"forecast"`
		} `json:"properties"`
	}
	pointsURL := fmt.Sprintf("%s/points/%s,%s", w.forecastBaseURL, lat, lon)
	if err := w.getJSON(ctx, pointsURL, &points); err != nil {
		return nil, fmt.Errorf("forecast gridpoint: %w", err)
	}
	if points.Properties.Forecast == "" {
		return nil, fmt.Errorf("no forecast endpoint for %s,%s", lat, lon)
	}

	var forecast struct {
		Properties struct {
			Periods []forecastPeriod `json:"periods"`
		} `json:"properties"`
	}
	if err := w.getJSON(ctx, points.Properties.Forecast, &forecast); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	if len(forecast.Properties.Periods) == 0 {
		return nil, fmt.Errorf("forecast has no periods")
	}
	return &forecast.Properties.Periods[0], nil
}

// geocode resolves a place name to latitude and longitude strings.
func (w *Weather) geocode(ctx context.Context, location string) (lat, lon string, err error) {
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	searchURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", w.geocodeBaseURL, url.QueryEscape(location))
	if err := w.getJSON(ctx, searchURL, &results); err != nil {
		return "", "", err
	}
	if len(results) == 0 {
		return "", "", fmt.Errorf("no geocoding results")
	}
	return results[0].Lat, results[0].Lon, nil
}

func (w *Weather) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", weatherUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
