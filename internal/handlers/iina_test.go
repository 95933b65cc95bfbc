package handlers

import (
	"context"
	"testing"
)

func TestIINAStartErrorWhenNothingLaunches(t *testing.T) {
	ctrl := &IINA{
		binaryPath:    "definitely-not-iina-3c1a",
		openPath:      "definitely-not-open-3c1a",
		osascriptPath: "definitely-not-osascript-3c1a",
	}
	if err := ctrl.Start(context.Background()); err == nil {
		t.Fatalf("Start succeeded with no launcher available")
	}
}

func TestIINAStopErrorWithoutOsascript(t *testing.T) {
	ctrl := &IINA{osascriptPath: "definitely-not-osascript-3c1a"}
	if err := ctrl.Stop(context.Background()); err == nil {
		t.Fatalf("Stop succeeded without osascript")
	}
}
