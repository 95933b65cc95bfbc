package speech

import (
	"context"
	"errors"
	"testing"
)

type fakeRemote struct {
	err   error
	calls int
}

func (f *fakeRemote) Synthesize(_ context.Context, _ string) error {
	f.calls++
	return f.err
}

type fakeLocal struct {
	err    error
	calls  int
	spoken []string
}

func (f *fakeLocal) Say(_ context.Context, text string) error {
	f.calls++
	f.spoken = append(f.spoken, text)
	return f.err
}

func TestSpeakEmptyTextSkipsSubprocess(t *testing.T) {
	remote := &fakeRemote{}
	local := &fakeLocal{}
	m := NewManager(remote, local)

	for _, text := range []string{"", "   ", "\n\t"} {
		out := m.Speak(text, false)
		if out.Success {
			t.Fatalf("Speak(%q) success = true, want false", text)
		}
		if out.Method != MethodNone {
			t.Fatalf("Speak(%q) method = %q, want %q", text, out.Method, MethodNone)
		}
		if out.Err != "no text provided" {
			t.Fatalf("Speak(%q) err = %q, want %q", text, out.Err, "no text provided")
		}
	}
	if remote.calls != 0 || local.calls != 0 {
		t.Fatalf("expected no backend calls, got remote=%d local=%d", remote.calls, local.calls)
	}
}

func TestSpeakRemoteSuccess(t *testing.T) {
	remote := &fakeRemote{}
	local := &fakeLocal{}
	m := NewManager(remote, local)

	out := m.Speak("hello", false)
	if !out.Success || out.Method != MethodRemote {
		t.Fatalf("outcome = %+v, want remote success", out)
	}
	if local.calls != 0 {
		t.Fatalf("local invoked %d times, want 0", local.calls)
	}
}

func TestSpeakRemoteFailureFallsBackAndCounts(t *testing.T) {
	remote := &fakeRemote{err: errors.New("api down")}
	local := &fakeLocal{}
	m := NewManager(remote, local)

	before := m.FallbackCount()
	out := m.Speak("hello", false)
	if !out.Success {
		t.Fatalf("outcome = %+v, want success", out)
	}
	if out.Method != MethodLocalFallback {
		t.Fatalf("method = %q, want %q", out.Method, MethodLocalFallback)
	}
	if got := m.FallbackCount(); got != before+1 {
		t.Fatalf("fallback count = %d, want %d", got, before+1)
	}
	if out.FallbackCount != before+1 {
		t.Fatalf("outcome fallback count = %d, want %d", out.FallbackCount, before+1)
	}
}

func TestSpeakForceLocal(t *testing.T) {
	remote := &fakeRemote{}
	local := &fakeLocal{}
	m := NewManager(remote, local)

	out := m.Speak("hello", true)
	if !out.Success || out.Method != MethodLocalDirect {
		t.Fatalf("outcome = %+v, want local_direct success", out)
	}
	if remote.calls != 0 {
		t.Fatalf("remote invoked %d times, want 0", remote.calls)
	}
}

func TestSpeakBothPathsFail(t *testing.T) {
	remote := &fakeRemote{err: errors.New("api down")}
	local := &fakeLocal{err: errors.New("no say")}
	m := NewManager(remote, local)

	out := m.Speak("hello", false)
	if out.Success || out.Method != MethodNone {
		t.Fatalf("outcome = %+v, want total failure", out)
	}
	if out.Err != "both methods failed" {
		t.Fatalf("err = %q, want %q", out.Err, "both methods failed")
	}
}

func TestSetRemotePreference(t *testing.T) {
	remote := &fakeRemote{}
	local := &fakeLocal{}
	m := NewManager(remote, local)

	m.SetRemotePreference(false)
	out := m.Speak("hello", false)
	if out.Method != MethodLocalFallback {
		t.Fatalf("method = %q, want %q with remote disabled", out.Method, MethodLocalFallback)
	}
	if remote.calls != 0 {
		t.Fatalf("remote invoked despite disabled preference")
	}

	st := m.Status()
	if st.RemotePreferred || !st.RemoteAvailable {
		t.Fatalf("status = %+v, want preferred=false available=true", st)
	}
}

func TestNoRemoteConfigured(t *testing.T) {
	local := &fakeLocal{}
	m := NewManager(nil, local)

	out := m.Speak("hello", false)
	if !out.Success || out.Method != MethodLocalFallback {
		t.Fatalf("outcome = %+v, want local fallback success", out)
	}
	if m.Status().RemoteAvailable {
		t.Fatalf("remote reported available with nil synthesizer")
	}
}
