package handlers

import (
	"context"
	"strings"
	"testing"
)

func TestVoiceControlAutoManageToggle(t *testing.T) {
	h := NewVoiceControl()
	ctx := context.Background()

	if !h.AutoManage() {
		t.Fatal("auto-management should default to enabled")
	}

	res, err := h.TryHandle(ctx, "disable voice control auto")
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if res == nil || !strings.Contains(res.SpokenResponse, "disabled") {
		t.Fatalf("unexpected response %+v", res)
	}
	if h.AutoManage() {
		t.Error("auto-management still enabled after disabling")
	}

	res, err = h.TryHandle(ctx, "enable voice control auto")
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	if res == nil || !strings.Contains(res.SpokenResponse, "enabled") {
		t.Fatalf("unexpected response %+v", res)
	}
	if !h.AutoManage() {
		t.Error("auto-management not re-enabled")
	}
}

func TestVoiceControlDeclinesUnrelated(t *testing.T) {
	h := NewVoiceControl()
	res, err := h.TryHandle(context.Background(), "what's 2 plus 2")
	if err != nil {
		t.Fatalf("TryHandle: %v", err)
	}
	if res != nil {
		t.Fatalf("expected decline, got %+v", res)
	}
}
