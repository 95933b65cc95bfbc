package handlers

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestClockRespondsWithTwelveHourTime(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 15, 4, 0, 0, time.UTC)
	h := Clock{Now: func() time.Time { return fixed }}

	res, err := h.TryHandle(context.Background(), "Hey, what time is it?")
	if err != nil {
		t.Fatalf("TryHandle error = %v", err)
	}
	if res == nil {
		t.Fatalf("no result for time question")
	}
	if !strings.Contains(strings.ToLower(res.SpokenResponse), "time") {
		t.Fatalf("response %q missing the word time", res.SpokenResponse)
	}
	if !strings.Contains(res.SpokenResponse, "3:04 PM") {
		t.Fatalf("response %q missing 12-hour clock reading", res.SpokenResponse)
	}
	if res.OpenedURL != "" {
		t.Fatalf("opened_url = %q, want empty", res.OpenedURL)
	}
}

func TestClockHasAMPMMarker(t *testing.T) {
	h := Clock{Now: func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }}
	res, err := h.TryHandle(context.Background(), "current time please")
	if err != nil || res == nil {
		t.Fatalf("TryHandle = (%+v, %v)", res, err)
	}
	if !strings.Contains(res.SpokenResponse, "AM") && !strings.Contains(res.SpokenResponse, "PM") {
		t.Fatalf("response %q missing AM/PM marker", res.SpokenResponse)
	}
}

func TestClockNoMatch(t *testing.T) {
	h := Clock{}
	for _, in := range []string{"play some jazz", "47 + 23", "weather in Boston"} {
		res, err := h.TryHandle(context.Background(), in)
		if err != nil {
			t.Fatalf("TryHandle(%q) error = %v", in, err)
		}
		if res != nil {
			t.Fatalf("TryHandle(%q) = %+v, want nil", in, res)
		}
	}
}
