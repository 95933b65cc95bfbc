package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"juliejulie/internal/speech"
)

type stubRemote struct {
	err   error
	calls int
}

func (s *stubRemote) Synthesize(context.Context, string) error {
	s.calls++
	return s.err
}

type stubLocal struct {
	calls int
}

func (s *stubLocal) Say(context.Context, string) error {
	s.calls++
	return nil
}

func TestTTSControlSwitchPreference(t *testing.T) {
	mgr := speech.NewManager(&stubRemote{}, &stubLocal{})
	h := NewTTSControl(mgr)
	ctx := context.Background()

	res, err := h.TryHandle(ctx, "use local voice")
	if err != nil {
		t.Fatalf("TryHandle: %v", err)
	}
	if res == nil || !strings.Contains(res.SpokenResponse, "local say command") {
		t.Fatalf("unexpected response %+v", res)
	}
	if mgr.Status().RemotePreferred {
		t.Error("remote still preferred after switching to local")
	}

	res, err = h.TryHandle(ctx, "use remote voice")
	if err != nil {
		t.Fatalf("TryHandle: %v", err)
	}
	if res == nil || !strings.Contains(res.SpokenResponse, "remote voice") {
		t.Fatalf("unexpected response %+v", res)
	}
	if !mgr.Status().RemotePreferred {
		t.Error("remote not preferred after switching back")
	}
}

func TestTTSControlRemoteUnavailable(t *testing.T) {
	mgr := speech.NewManager(nil, &stubLocal{})
	h := NewTTSControl(mgr)

	res, err := h.TryHandle(context.Background(), "use remote voice")
	if err != nil {
		t.Fatalf("TryHandle: %v", err)
	}
	if res == nil || !strings.Contains(res.SpokenResponse, "isn't configured") {
		t.Fatalf("unexpected response %+v", res)
	}
	if res.SpokenResponse == "Switched to the remote voice." {
		t.Fatalf("claimed a switch with no remote voice configured")
	}
}

func TestTTSControlStatusReportsFallbacks(t *testing.T) {
	remote := &stubRemote{err: errors.New("synthesis failed")}
	mgr := speech.NewManager(remote, &stubLocal{})
	mgr.Speak("hello", false)

	h := NewTTSControl(mgr)
	res, err := h.TryHandle(context.Background(), "voice status")
	if err != nil {
		t.Fatalf("TryHandle: %v", err)
	}
	if res == nil || !strings.Contains(res.SpokenResponse, "Fell back to the say command 1 times") {
		t.Fatalf("unexpected status response %+v", res)
	}
}

func TestTTSControlTestVoiceSpeaks(t *testing.T) {
	local := &stubLocal{}
	mgr := speech.NewManager(nil, local)
	h := NewTTSControl(mgr)

	res, err := h.TryHandle(context.Background(), "test voice")
	if err != nil {
		t.Fatalf("TryHandle: %v", err)
	}
	if res == nil || res.SpokenResponse != "Voice test completed." {
		t.Fatalf("unexpected response %+v", res)
	}
	if local.calls != 1 {
		t.Errorf("local speaker calls = %d, want 1", local.calls)
	}
}

func TestTTSControlDeclinesUnrelated(t *testing.T) {
	h := NewTTSControl(speech.NewManager(nil, &stubLocal{}))
	res, err := h.TryHandle(context.Background(), "what time is it")
	if err != nil {
		t.Fatalf("TryHandle: %v", err)
	}
	if res != nil {
		t.Fatalf("expected decline, got %+v", res)
	}
}
