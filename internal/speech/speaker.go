package speech

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"juliejulie/internal/observability"
)

// Method names the path that produced (or failed to produce) audio.
const (
	MethodRemote        = "remote"
	MethodLocalFallback = "local_fallback"
	MethodLocalDirect   = "local_direct"
	MethodNone          = "none"
)

// Outcome reports how a speak attempt went.
type Outcome struct {
	Success       bool   `json:"success"`
	Method        string `json:"method"`
	FallbackCount int    `json:"fallback_count"`
	Err           string `json:"error,omitempty"`
}

// Status is a snapshot of the manager's preference state.
type Status struct {
	RemoteAvailable bool `json:"remote_available"`
	RemotePreferred bool `json:"remote_preferred"`
	FallbackCount   int  `json:"fallback_count"`
}

// RemoteSynthesizer turns text into played-back audio via a cloud TTS service.
type RemoteSynthesizer interface {
	Synthesize(ctx context.Context, text string) error
}

// LocalSpeaker voices text with the operating system's speech command.
type LocalSpeaker interface {
	Say(ctx context.Context, text string) error
}

// Manager prefers remote synthesis and falls back to the local speech command.
// Playback is serialized through a single-slot mutex so concurrent requests
// cannot interleave audio.
type Manager struct {
	remote RemoteSynthesizer
	local  LocalSpeaker

	mu              sync.Mutex
	useRemote       bool
	remoteAvailable bool
	fallbackCount   int

	speakMu  sync.Mutex
	speaking atomic.Bool

	speakTimeout time.Duration
	metrics      *observability.Metrics
}

// WithMetrics attaches Prometheus instruments; safe to skip in tests.
func (m *Manager) WithMetrics(metrics *observability.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// NewManager probes remote availability once at construction. remote may be
// nil when no credentials were discovered.
func NewManager(remote RemoteSynthesizer, local LocalSpeaker) *Manager {
	return &Manager{
		remote:          remote,
		local:           local,
		useRemote:       true,
		remoteAvailable: remote != nil,
		speakTimeout:    2 * time.Minute,
	}
}

// Speak voices text, blocking until playback completes. forceLocal skips the
// remote path entirely.
func (m *Manager) Speak(text string, forceLocal bool) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Success: false, Method: MethodNone, FallbackCount: m.FallbackCount(), Err: "no text provided"}
	}

	m.speakMu.Lock()
	defer m.speakMu.Unlock()
	m.speaking.Store(true)
	defer m.speaking.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), m.speakTimeout)
	defer cancel()

	if !forceLocal && m.remotePreferred() {
		if err := m.remote.Synthesize(ctx, text); err == nil {
			return Outcome{Success: true, Method: MethodRemote, FallbackCount: m.FallbackCount()}
		} else {
			log.Printf("remote tts failed, falling back to say: %v", err)
			m.incrementFallback()
		}
	}

	if err := m.local.Say(ctx, text); err != nil {
		log.Printf("local speech failed: %v", err)
		return Outcome{Success: false, Method: MethodNone, FallbackCount: m.FallbackCount(), Err: "both methods failed"}
	}

	method := MethodLocalFallback
	if forceLocal {
		method = MethodLocalDirect
	}
	return Outcome{Success: true, Method: method, FallbackCount: m.FallbackCount()}
}

// SetRemotePreference toggles the remote-first preference.
func (m *Manager) SetRemotePreference(useRemote bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.useRemote = useRemote
	log.Printf("remote tts preference set to %v", useRemote)
}

// Status returns the current preference state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		RemoteAvailable: m.remoteAvailable,
		RemotePreferred: m.useRemote,
		FallbackCount:   m.fallbackCount,
	}
}

// IsSpeaking reports whether playback is currently in progress.
func (m *Manager) IsSpeaking() bool {
	return m.speaking.Load()
}

// FallbackCount returns how many times remote synthesis has failed over to say.
func (m *Manager) FallbackCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fallbackCount
}

func (m *Manager) remotePreferred() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.useRemote && m.remoteAvailable && m.remote != nil
}

func (m *Manager) incrementFallback() {
	m.mu.Lock()
	m.fallbackCount++
	m.mu.Unlock()
	if m.metrics != nil {
		m.metrics.TTSFallbacks.Inc()
	}
}
