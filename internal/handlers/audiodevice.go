package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"juliejulie/internal/command"
	"juliejulie/internal/execx"
)

var audioListPhrases = []string{
	"list audio devices",
	"what audio devices",
	"audio outputs",
	"output devices",
}

var audioSwitchPhrases = []string{
	"switch audio to",
	"switch sound to",
	"change audio to",
	"set audio output to",
	"play sound through",
}

const audioDeviceTimeout = 10 * time.Second

// AudioDevice lists macOS output devices and switches between them.
// Listing uses system_profiler; switching shells out to SwitchAudioSource.
type AudioDevice struct {
	profilerPath string
	switcherPath string
}

func NewAudioDevice() *AudioDevice {
	return &AudioDevice{
		profilerPath: "system_profiler",
		switcherPath: "SwitchAudioSource",
	}
}

func (a *AudioDevice) Name() string { return "audio_device" }

func (a *AudioDevice) TryHandle(ctx context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, phrase := range audioSwitchPhrases {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			target := strings.TrimSpace(lower[idx+len(phrase):])
			return a.switchTo(ctx, target)
		}
	}
	if containsAny(lower, audioListPhrases) {
		return a.listDevices(ctx)
	}
	return nil, nil
}

func (a *AudioDevice) listDevices(ctx context.Context) (*command.Result, error) {
	out := execx.Run(ctx, audioDeviceTimeout, a.profilerPath, "SPAudioDataType")
	if out.Status != execx.OK {
		return &command.Result{
			SpokenResponse: "I couldn't read the audio device list.",
		}, nil
	}
	devices := parseAudioDevices(out.Stdout)
	if len(devices) == 0 {
		return &command.Result{SpokenResponse: "I didn't find any audio output devices."}, nil
	}
	return &command.Result{
		SpokenResponse: fmt.Sprintf("Available audio outputs: %s.", strings.Join(devices, ", ")),
	}, nil
}

func (a *AudioDevice) switchTo(ctx context.Context, target string) (*command.Result, error) {
	if target == "" {
		return &command.Result{SpokenResponse: "Which audio device should I switch to?"}, nil
	}
	out := execx.Run(ctx, audioDeviceTimeout, a.switcherPath, "-t", "output", "-s", target)
	switch out.Status {
	case execx.OK:
		return &command.Result{
			SpokenResponse: fmt.Sprintf("Audio output switched to %s.", target),
		}, nil
	case execx.NotFound:
		return &command.Result{
			SpokenResponse: "I need the SwitchAudioSource tool installed to change audio devices.",
		}, nil
	default:
		return &command.Result{
			SpokenResponse: fmt.Sprintf("I couldn't switch the audio output to %s.", target),
		}, nil
	}
}

// parseAudioDevices pulls output device names out of system_profiler
// SPAudioDataType text. Device names appear as indented "Name:" headings;
// a device is an output when a later "Output Channels" line belongs to it.
func parseAudioDevices(raw string) []string {
	var devices []string
	var current string
	currentIsOutput := false

	flush := func() {
		if current != "" && currentIsOutput {
			devices = append(devices, current)
		}
		current = ""
		currentIsOutput = false
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed, "Channels") &&
			!strings.EqualFold(trimmed, "Audio:") && !strings.EqualFold(trimmed, "Devices:") {
			flush()
			current = strings.TrimSuffix(trimmed, ":")
			continue
		}
		if strings.HasPrefix(trimmed, "Output Channels") {
			currentIsOutput = true
		}
	}
	flush()
	return devices
}
