package handlers

import (
	"context"
	"strings"
	"sync/atomic"

	"juliejulie/internal/command"
)

// Off patterns are checked first: every off phrase also mentions the
// visualizer, so checking on phrases first would match "visualizer off".
var visualizerOffPhrases = []string{
	"stop visualizer",
	"visualizer off",
	"turn off visualizer",
	"close visualizer",
	"hide visualizer",
}

var visualizerOnPhrases = []string{
	"start visualizer",
	"visualizer on",
	"turn on visualizer",
	"show visualizer",
	"open visualizer",
	"music visualizer",
	"visualizer",
}

// VisualizerController starts and stops the on-screen audio visualizer.
type VisualizerController interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Visualizer toggles the music visualizer window.
type Visualizer struct {
	ctrl    VisualizerController
	running atomic.Bool
}

func NewVisualizer(ctrl VisualizerController) *Visualizer {
	return &Visualizer{ctrl: ctrl}
}

func (v *Visualizer) Name() string { return "visualizer" }

func (v *Visualizer) TryHandle(ctx context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	if containsAny(lower, visualizerOffPhrases) {
		return v.turnOff(ctx)
	}
	if containsAny(lower, visualizerOnPhrases) {
		return v.turnOn(ctx)
	}
	return nil, nil
}

func (v *Visualizer) turnOn(ctx context.Context) (*command.Result, error) {
	if v.running.Load() {
		return &command.Result{SpokenResponse: "The visualizer is already running."}, nil
	}
	if err := v.ctrl.Start(ctx); err != nil {
		return &command.Result{SpokenResponse: "I couldn't start the visualizer. Make sure IINA is installed."}, nil
	}
	v.running.Store(true)
	return &command.Result{SpokenResponse: "Starting the music visualizer."}, nil
}

func (v *Visualizer) turnOff(ctx context.Context) (*command.Result, error) {
	if !v.running.Load() {
		return &command.Result{SpokenResponse: "The visualizer isn't running."}, nil
	}
	if err := v.ctrl.Stop(ctx); err != nil {
		return &command.Result{SpokenResponse: "I couldn't stop the visualizer."}, nil
	}
	v.running.Store(false)
	return &command.Result{SpokenResponse: "Stopping the visualizer."}, nil
}
