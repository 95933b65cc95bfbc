package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"juliejulie/internal/history"
	"juliejulie/internal/speech"
)

type fakeSpeaker struct {
	spoken []string
}

func (f *fakeSpeaker) Speak(text string, forceLocal bool) speech.Outcome {
	f.spoken = append(f.spoken, text)
	method := speech.MethodLocalFallback
	if forceLocal {
		method = speech.MethodLocalDirect
	}
	return speech.Outcome{Success: true, Method: method}
}

type fakeOpener struct {
	opened []string
}

func (f *fakeOpener) Open(_ context.Context, url string) error {
	f.opened = append(f.opened, url)
	return nil
}

func staticHandler(name, reply string) Handler {
	return HandlerFunc{HandlerName: name, Fn: func(_ context.Context, _ string) (*Result, error) {
		return &Result{SpokenResponse: reply}, nil
	}}
}

func matchingHandler(name, phrase, reply string) Handler {
	return HandlerFunc{HandlerName: name, Fn: func(_ context.Context, text string) (*Result, error) {
		if strings.Contains(strings.ToLower(text), phrase) {
			return &Result{SpokenResponse: reply}, nil
		}
		return nil, nil
	}}
}

func newTestRouter(handlers []Handler, speaker Speaker, opener URLOpener) *Router {
	return NewRouter(handlers, speaker, opener, history.NewInMemoryStore(), nil, nil)
}

func TestRouteEmptyCommand(t *testing.T) {
	speaker := &fakeSpeaker{}
	called := false
	h := HandlerFunc{HandlerName: "probe", Fn: func(_ context.Context, _ string) (*Result, error) {
		called = true
		return nil, nil
	}}
	r := newTestRouter([]Handler{h}, speaker, nil)

	for _, in := range []string{"", "   ", "\t\n"} {
		res := r.Route(context.Background(), in)
		if !strings.Contains(res.SpokenResponse, "didn't receive") {
			t.Fatalf("Route(%q) = %q, want a didn't-receive message", in, res.SpokenResponse)
		}
	}
	if called {
		t.Fatalf("handler invoked for empty command")
	}
	if len(speaker.spoken) != 0 {
		t.Fatalf("speaker invoked for empty command: %v", speaker.spoken)
	}
}

func TestRoutePriorityOrderWins(t *testing.T) {
	speaker := &fakeSpeaker{}
	specific := matchingHandler("time", "time", "It is noon.")
	fallback := staticHandler("chat", "Let me think about that.")
	r := newTestRouter([]Handler{specific, fallback}, speaker, nil)

	res := r.Route(context.Background(), "what time is it")
	if res.SpokenResponse != "It is noon." {
		t.Fatalf("spoken = %q, want specific handler to win", res.SpokenResponse)
	}
}

func TestRouteFallsThroughToNextHandler(t *testing.T) {
	speaker := &fakeSpeaker{}
	first := matchingHandler("weather", "weather", "Sunny.")
	second := staticHandler("chat", "I heard you.")
	r := newTestRouter([]Handler{first, second}, speaker, nil)

	res := r.Route(context.Background(), "tell me a joke")
	if res.SpokenResponse != "I heard you." {
		t.Fatalf("spoken = %q, want fallback reply", res.SpokenResponse)
	}
}

func TestRouteAbsorbsHandlerErrorAndPanic(t *testing.T) {
	speaker := &fakeSpeaker{}
	failing := HandlerFunc{HandlerName: "broken", Fn: func(_ context.Context, _ string) (*Result, error) {
		return nil, errors.New("boom")
	}}
	panicking := HandlerFunc{HandlerName: "worse", Fn: func(_ context.Context, _ string) (*Result, error) {
		panic("handler bug")
	}}
	ok := staticHandler("chat", "Still here.")
	r := newTestRouter([]Handler{failing, panicking, ok}, speaker, nil)

	res := r.Route(context.Background(), "anything")
	if res.SpokenResponse != "Still here." {
		t.Fatalf("spoken = %q, want dispatch to survive bad handlers", res.SpokenResponse)
	}
}

func TestRouteNothingMatches(t *testing.T) {
	speaker := &fakeSpeaker{}
	declining := HandlerFunc{HandlerName: "quiet", Fn: func(_ context.Context, _ string) (*Result, error) {
		return nil, nil
	}}
	r := newTestRouter([]Handler{declining}, speaker, nil)

	res := r.Route(context.Background(), "anything")
	if !strings.Contains(res.SpokenResponse, "something went wrong") {
		t.Fatalf("spoken = %q, want the all-failed message", res.SpokenResponse)
	}
	if res.OpenedURL != "" {
		t.Fatalf("opened_url = %q, want empty", res.OpenedURL)
	}
}

func TestRouteSpeaksResultOnce(t *testing.T) {
	speaker := &fakeSpeaker{}
	r := newTestRouter([]Handler{staticHandler("chat", "Hello there.")}, speaker, nil)

	_ = r.Route(context.Background(), "hi")
	if len(speaker.spoken) != 1 || speaker.spoken[0] != "Hello there." {
		t.Fatalf("spoken = %v, want exactly one utterance", speaker.spoken)
	}
}

func TestRouteDoesNotRespeakStreamedResult(t *testing.T) {
	speaker := &fakeSpeaker{}
	streamed := HandlerFunc{HandlerName: "chat", Fn: func(_ context.Context, _ string) (*Result, error) {
		return &Result{SpokenResponse: "Already said aloud.", AdditionalContext: ContextStreamed}, nil
	}}
	r := newTestRouter([]Handler{streamed}, speaker, nil)

	res := r.Route(context.Background(), "tell me something")
	if res.AdditionalContext != ContextStreamed {
		t.Fatalf("additional_context = %q, want %q", res.AdditionalContext, ContextStreamed)
	}
	if len(speaker.spoken) != 0 {
		t.Fatalf("router re-spoke a streamed result: %v", speaker.spoken)
	}
}

func TestRouteOpensURL(t *testing.T) {
	speaker := &fakeSpeaker{}
	opener := &fakeOpener{}
	h := HandlerFunc{HandlerName: "radio", Fn: func(_ context.Context, _ string) (*Result, error) {
		return &Result{SpokenResponse: "Starting the radio.", OpenedURL: "https://example.com/player"}, nil
	}}
	r := newTestRouter([]Handler{h}, speaker, opener)

	_ = r.Route(context.Background(), "play some radio")
	if len(opener.opened) != 1 || opener.opened[0] != "https://example.com/player" {
		t.Fatalf("opened = %v, want the station url", opener.opened)
	}
}

func TestRouteRecordsHistory(t *testing.T) {
	speaker := &fakeSpeaker{}
	store := history.NewInMemoryStore()
	r := NewRouter([]Handler{staticHandler("chat", "Noted.")}, speaker, nil, store, nil, nil)

	_ = r.Route(context.Background(), "remember the milk")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	recs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("history len = %d, want user + assistant turns", len(recs))
	}
	if recs[0].Role != "user" || recs[0].Content != "remember the milk" {
		t.Fatalf("user turn = %+v", recs[0])
	}
	if recs[1].Role != "assistant" || recs[1].Handler != "chat" {
		t.Fatalf("assistant turn = %+v", recs[1])
	}
}
