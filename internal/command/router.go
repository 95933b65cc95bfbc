package command

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"juliejulie/internal/history"
	"juliejulie/internal/observability"
	"juliejulie/internal/speech"
)

// Speaker voices a response. The router treats playback failures as
// recoverable: the structured result is still returned to the caller.
type Speaker interface {
	Speak(text string, forceLocal bool) speech.Outcome
}

// URLOpener opens a handler-selected page in the user's browser.
type URLOpener interface {
	Open(ctx context.Context, url string) error
}

// Notifier publishes router events to the live feed. Implementations must not
// block.
type Notifier interface {
	Publish(event Event)
}

const (
	noCommandResponse  = "I didn't receive any command. Please try again."
	allFailedResponse  = "I'm sorry, something went wrong while processing your command."
	outcomeHandled     = "handled"
	outcomeEmpty       = "empty"
	outcomeUnhandled   = "unhandled"
	roleUser           = "user"
	roleAssistant      = "assistant"
	unroutedHandlerLbl = "none"
)

// Router dispatches a command to the first handler that claims it, speaks the
// result, and opens any page the handler selected. Handlers are tried in the
// priority order they were registered in; a failing handler never aborts the
// attempt.
type Router struct {
	handlers []Handler
	speaker  Speaker
	opener   URLOpener
	store    history.Store
	notifier Notifier
	metrics  *observability.Metrics
}

func NewRouter(
	handlers []Handler,
	speaker Speaker,
	opener URLOpener,
	store history.Store,
	notifier Notifier,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		handlers: handlers,
		speaker:  speaker,
		opener:   opener,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
	}
}

// Route processes one command synchronously: by the time it returns, the
// response has been spoken (streamed results speak themselves incrementally).
func (r *Router) Route(ctx context.Context, text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		r.countRouted(unroutedHandlerLbl, outcomeEmpty)
		return Result{SpokenResponse: noCommandResponse}
	}

	requestID := uuid.NewString()
	log.Printf("processing command [%s]: %s", requestID, text)
	r.publish(Event{Type: EventCommand, RequestID: requestID, Text: text})
	r.record(ctx, history.TurnRecord{RequestID: requestID, Role: roleUser, Content: text})

	for _, h := range r.handlers {
		res, err := r.tryHandle(ctx, h, text)
		if err != nil {
			log.Printf("handler %s error (continuing): %v", h.Name(), err)
			if r.metrics != nil {
				r.metrics.HandlerErrors.WithLabelValues(h.Name()).Inc()
			}
			continue
		}
		if res == nil {
			continue
		}

		r.finish(ctx, requestID, h.Name(), res)
		r.countRouted(h.Name(), outcomeHandled)
		return *res
	}

	// Every handler declined or failed, including the conversational fallback.
	res := Result{SpokenResponse: allFailedResponse}
	r.finish(ctx, requestID, unroutedHandlerLbl, &res)
	r.countRouted(unroutedHandlerLbl, outcomeUnhandled)
	return res
}

// tryHandle contains a single handler invocation so a panic in one handler is
// converted to an error and dispatch moves on.
func (r *Router) tryHandle(ctx context.Context, h Handler, text string) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("handler %s panicked: %v", h.Name(), p)
		}
	}()
	return h.TryHandle(ctx, text)
}

func (r *Router) finish(ctx context.Context, requestID, handlerName string, res *Result) {
	if res.SpokenResponse != "" && res.AdditionalContext != ContextStreamed {
		out := r.speaker.Speak(res.SpokenResponse, false)
		if r.metrics != nil {
			r.metrics.SpeechAttempts.WithLabelValues(out.Method).Inc()
		}
		if !out.Success {
			log.Printf("speech failed for request %s: %s", requestID, out.Err)
		}
	}

	if res.OpenedURL != "" && r.opener != nil {
		if err := r.opener.Open(ctx, res.OpenedURL); err != nil {
			log.Printf("could not open %s: %v", res.OpenedURL, err)
		}
	}

	r.record(ctx, history.TurnRecord{
		RequestID: requestID,
		Role:      roleAssistant,
		Handler:   handlerName,
		Content:   res.SpokenResponse,
	})
	r.publish(Event{Type: EventResult, RequestID: requestID, Handler: handlerName, Text: res.SpokenResponse})
}

func (r *Router) record(ctx context.Context, rec history.TurnRecord) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveTurn(ctx, rec); err != nil {
		log.Printf("history save failed: %v", err)
	}
}

func (r *Router) publish(e Event) {
	if r.notifier != nil {
		r.notifier.Publish(e)
	}
}

func (r *Router) countRouted(handler, outcome string) {
	if r.metrics != nil {
		r.metrics.CommandsRouted.WithLabelValues(handler, outcome).Inc()
	}
}
