package handlers

import (
	"context"
	"strings"
	"testing"
)

func TestRadioPlaysNamedStation(t *testing.T) {
	h := Radio{}
	res, err := h.TryHandle(context.Background(), "play jazz radio")
	if err != nil {
		t.Fatalf("TryHandle error = %v", err)
	}
	if res == nil {
		t.Fatalf("no result for jazz radio")
	}
	if !strings.Contains(res.SpokenResponse, "Groove Salad") {
		t.Fatalf("spoken = %q, want the jazz station name", res.SpokenResponse)
	}
	if res.OpenedURL == "" {
		t.Fatalf("expected a station url")
	}
}

func TestRadioProgressiveBeatsRock(t *testing.T) {
	h := Radio{}
	res, err := h.TryHandle(context.Background(), "play prog rock radio")
	if err != nil || res == nil {
		t.Fatalf("TryHandle = (%+v, %v)", res, err)
	}
	if !strings.Contains(res.SpokenResponse, "BAGeL") {
		t.Fatalf("spoken = %q, want the progressive station", res.SpokenResponse)
	}
}

func TestRadioUnknownStationListsOptions(t *testing.T) {
	h := Radio{}
	res, err := h.TryHandle(context.Background(), "play some radio")
	if err != nil || res == nil {
		t.Fatalf("TryHandle = (%+v, %v)", res, err)
	}
	if res.OpenedURL != "" {
		t.Fatalf("opened_url = %q, want empty for station list", res.OpenedURL)
	}
	if !strings.Contains(res.SpokenResponse, "classical") || !strings.Contains(res.SpokenResponse, "jazz") {
		t.Fatalf("spoken = %q, want station list", res.SpokenResponse)
	}
}

func TestRadioNoMatch(t *testing.T) {
	h := Radio{}
	res, err := h.TryHandle(context.Background(), "what time is it")
	if err != nil {
		t.Fatalf("TryHandle error = %v", err)
	}
	if res != nil {
		t.Fatalf("TryHandle = %+v, want nil", res)
	}
}
