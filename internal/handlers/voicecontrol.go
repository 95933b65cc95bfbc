package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"juliejulie/internal/command"
	"juliejulie/internal/execx"
)

const (
	voiceControlTimeout = 5 * time.Second

	// Toggles Voice Control listening with the default Cmd+Escape shortcut.
	toggleListeningScript = `tell application "System Events"
	key code 53 using {command down}
end tell`

	listeningStatusScript = `tell application "System Events"
	tell process "ControlCenter"
		try
			set vcStatus to value of attribute "AXDescription" of (menu bar item "Voice Control" of menu bar 1)
			if vcStatus contains "listening" then
				return true
			else
				return false
			end if
		on error
			return false
		end try
	end tell
end tell`
)

// VoiceControl manages macOS Voice Control listening so the assistant's own
// speech doesn't get transcribed back as a command.
type VoiceControl struct {
	osascriptPath string
	autoManage    atomic.Bool
}

func NewVoiceControl() *VoiceControl {
	v := &VoiceControl{osascriptPath: "osascript"}
	v.autoManage.Store(true)
	return v
}

func (v *VoiceControl) Name() string { return "voice_control" }

// AutoManage reports whether listening is restarted automatically after a
// spoken response.
func (v *VoiceControl) AutoManage() bool { return v.autoManage.Load() }

// RestartAfterResponse turns listening back on once a response has finished
// playing. The short sleep keeps the tail of the audio out of the microphone.
func (v *VoiceControl) RestartAfterResponse(ctx context.Context) {
	if !v.autoManage.Load() {
		return
	}
	time.Sleep(700 * time.Millisecond)
	v.toggleListening(ctx)
}

func (v *VoiceControl) TryHandle(ctx context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	if containsAny(lower, []string{"stop listening", "voice control off", "stop voice control"}) {
		ok := v.toggleListening(ctx)
		return voiceControlResult(ok, "Voice Control stopped.", "Failed to stop Voice Control."), nil
	}
	if containsAny(lower, []string{"start listening", "voice control on", "start voice control"}) {
		ok := v.toggleListening(ctx)
		return voiceControlResult(ok, "Voice Control started.", "Failed to start Voice Control."), nil
	}
	if containsAny(lower, []string{"voice control status", "listening status", "is voice control on"}) {
		return v.statusResult(ctx), nil
	}
	if containsAny(lower, []string{"enable voice control auto", "auto manage voice control"}) {
		v.autoManage.Store(true)
		return &command.Result{
			SpokenResponse:    "Voice Control auto-management enabled.",
			AdditionalContext: "Auto-management on",
		}, nil
	}
	if containsAny(lower, []string{"disable voice control auto", "no auto manage"}) {
		v.autoManage.Store(false)
		return &command.Result{
			SpokenResponse:    "Voice Control auto-management disabled.",
			AdditionalContext: "Auto-management off",
		}, nil
	}
	return nil, nil
}

func (v *VoiceControl) toggleListening(ctx context.Context) bool {
	out := execx.Run(ctx, voiceControlTimeout, v.osascriptPath, "-e", toggleListeningScript)
	return out.Status == execx.OK
}

// listeningStatus returns whether Voice Control is listening, or nil when
// the state can't be read.
func (v *VoiceControl) listeningStatus(ctx context.Context) *bool {
	out := execx.Run(ctx, voiceControlTimeout, v.osascriptPath, "-e", listeningStatusScript)
	if out.Status != execx.OK {
		return nil
	}
	listening := strings.TrimSpace(out.Stdout) == "true"
	return &listening
}

func (v *VoiceControl) statusResult(ctx context.Context) *command.Result {
	status := v.listeningStatus(ctx)
	var response string
	switch {
	case status == nil:
		response = "Unable to determine Voice Control status."
	case *status:
		response = "Voice Control is listening."
	default:
		response = "Voice Control is not listening."
	}
	autoStatus := "disabled"
	if v.autoManage.Load() {
		autoStatus = "enabled"
	}
	return &command.Result{
		SpokenResponse:    fmt.Sprintf("%s Auto-management is %s.", response, autoStatus),
		AdditionalContext: fmt.Sprintf("auto-management %s", autoStatus),
	}
}

func voiceControlResult(ok bool, success, failure string) *command.Result {
	if ok {
		return &command.Result{SpokenResponse: success}
	}
	return &command.Result{SpokenResponse: failure}
}
