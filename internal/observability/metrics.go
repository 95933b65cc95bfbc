package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the assistant.
type Metrics struct {
	CommandsRouted       *prometheus.CounterVec
	HandlerErrors        *prometheus.CounterVec
	SpeechAttempts       *prometheus.CounterVec
	TTSFallbacks         prometheus.Counter
	OllamaRequests       *prometheus.CounterVec
	SentencesSpoken      prometheus.Counter
	FirstSentenceLatency prometheus.Histogram
	HTTPRequests         *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CommandsRouted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_routed_total",
			Help:      "Commands routed by winning handler and outcome.",
		}, []string{"handler", "outcome"}),
		HandlerErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_errors_total",
			Help:      "Handler errors absorbed by the router, by handler.",
		}, []string{"handler"}),
		SpeechAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_attempts_total",
			Help:      "Speech attempts by method.",
		}, []string{"method"}),
		TTSFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_fallbacks_total",
			Help:      "Remote TTS failures that fell back to the local speech command.",
		}),
		OllamaRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ollama_requests_total",
			Help:      "Streaming generation requests by outcome.",
		}, []string{"outcome"}),
		SentencesSpoken: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_spoken_total",
			Help:      "Sentence fragments flushed to speech during streaming replies.",
		}),
		FirstSentenceLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "first_sentence_latency_ms",
			Help:      "Latency from generation request to first spoken sentence in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000, 15000},
		}),
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP ingress requests by route and status.",
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) ObserveFirstSentenceLatency(d time.Duration) {
	m.FirstSentenceLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
