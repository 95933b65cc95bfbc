package handlers

import (
	"context"
	"fmt"
	"time"

	"juliejulie/internal/execx"
)

const (
	iinaLaunchTimeout = 15 * time.Second
	iinaScriptTimeout = 10 * time.Second

	// Brings IINA frontmost and clicks the visualizer menu item. The click
	// is wrapped in try because the menu layout varies between versions.
	iinaVisualizerScript = `tell application "IINA"
	activate
end tell

delay 1

tell application "System Events"
	tell process "IINA"
		try
			click menu item "Video Visualizer" of menu "View" of menu bar 1
		end try
	end tell
end tell`

	iinaQuitScript = `tell application "IINA"
	quit
end tell`
)

// IINA drives the IINA player as a system-audio visualizer.
type IINA struct {
	binaryPath    string
	openPath      string
	osascriptPath string
}

func NewIINA() *IINA {
	return &IINA{
		binaryPath:    "iina",
		openPath:      "open",
		osascriptPath: "osascript",
	}
}

// Start launches IINA on the system audio capture device and asks it to show
// the visualizer. The menu click is best effort; launching is not.
func (i *IINA) Start(ctx context.Context) error {
	out := execx.Run(ctx, iinaLaunchTimeout, i.binaryPath, "--no-stdin", "avfoundation://default")
	if out.Status != execx.OK {
		// The iina CLI helper may be missing even when the app is installed.
		fallback := execx.Run(ctx, iinaLaunchTimeout, i.openPath, "-a", "IINA")
		if fallback.Status != execx.OK {
			return fmt.Errorf("launch IINA: %s", fallback.Message())
		}
	}
	execx.Run(ctx, iinaScriptTimeout, i.osascriptPath, "-e", iinaVisualizerScript)
	return nil
}

func (i *IINA) Stop(ctx context.Context) error {
	out := execx.Run(ctx, iinaScriptTimeout, i.osascriptPath, "-e", iinaQuitScript)
	if out.Status != execx.OK {
		return fmt.Errorf("quit IINA: %s", out.Message())
	}
	return nil
}
