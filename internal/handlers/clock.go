package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"juliejulie/internal/command"
)

var timePhrases = []string{
	"what time is it",
	"what's the time",
	"what is the time",
	"current time",
	"time is it",
	"tell me the time",
}

// Clock answers time questions with a 12-hour clock reading.
type Clock struct {
	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (Clock) Name() string { return "time" }

func (c Clock) TryHandle(_ context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if !containsAny(lower, timePhrases) {
		return nil, nil
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	return &command.Result{
		SpokenResponse: fmt.Sprintf("The current time is %s.", now.Format("3:04 PM")),
	}, nil
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
