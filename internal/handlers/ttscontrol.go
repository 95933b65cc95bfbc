package handlers

import (
	"context"
	"fmt"
	"strings"

	"juliejulie/internal/command"
	"juliejulie/internal/speech"
)

// TTSControl exposes voice commands for managing the speech engine itself:
// switching between the remote voice and the local say command, reading out
// the current status, and running a quick voice test.
type TTSControl struct {
	speaker *speech.Manager
}

func NewTTSControl(speaker *speech.Manager) *TTSControl {
	return &TTSControl{speaker: speaker}
}

func (t *TTSControl) Name() string { return "tts" }

func (t *TTSControl) TryHandle(_ context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	if containsAny(lower, []string{"use remote voice", "switch to remote voice", "use eleven labs", "use elevenlabs"}) {
		if !t.speaker.Status().RemoteAvailable {
			return &command.Result{
				SpokenResponse:    "The remote voice isn't configured, so I'll keep using the say command.",
				AdditionalContext: "TTS remote voice not configured",
			}, nil
		}
		t.speaker.SetRemotePreference(true)
		return &command.Result{
			SpokenResponse:    "Switched to the remote voice.",
			AdditionalContext: "TTS preference changed to remote",
		}, nil
	}

	if containsAny(lower, []string{"use local voice", "switch to say", "use say command"}) {
		t.speaker.SetRemotePreference(false)
		return &command.Result{
			SpokenResponse:    "Switched to the local say command.",
			AdditionalContext: "TTS preference changed to say",
		}, nil
	}

	if containsAny(lower, []string{"tts status", "voice status", "what voice"}) {
		return t.statusResult(), nil
	}

	if containsAny(lower, []string{"test voice", "test tts", "test speech"}) {
		outcome := t.speaker.Speak("This is a test of the text to speech system.", false)
		return &command.Result{
			SpokenResponse:    "Voice test completed.",
			AdditionalContext: fmt.Sprintf("TTS test method: %s", outcome.Method),
		}, nil
	}

	return nil, nil
}

func (t *TTSControl) statusResult() *command.Result {
	status := t.speaker.Status()

	var current string
	switch {
	case status.RemotePreferred && status.RemoteAvailable:
		current = "the remote voice"
	case status.RemotePreferred:
		current = "the remote voice, but falling back to the say command because it isn't configured"
	default:
		current = "the local say command"
	}

	response := fmt.Sprintf("Currently using %s.", current)
	if status.FallbackCount > 0 {
		response += fmt.Sprintf(" Fell back to the say command %d times.", status.FallbackCount)
	}

	return &command.Result{
		SpokenResponse:    response,
		AdditionalContext: fmt.Sprintf("remote_available=%t remote_preferred=%t fallback_count=%d", status.RemoteAvailable, status.RemotePreferred, status.FallbackCount),
	}
}
