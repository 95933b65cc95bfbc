package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"juliejulie/internal/command"
	"juliejulie/internal/config"
	"juliejulie/internal/favorites"
	"juliejulie/internal/handlers"
	"juliejulie/internal/history"
	"juliejulie/internal/httpapi"
	"juliejulie/internal/observability"
	"juliejulie/internal/ollama"
	"juliejulie/internal/speech"
)

const version = "1.0.0"

func main() {
	showVersion := flag.BoolP("version", "v", false, "print version and exit")
	envFile := flag.String("env-file", ".env", "path to an optional env file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("juliejulie %s\n", version)
		return
	}

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("env file %s not loaded: %v", *envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := history.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("history store init failed: %v", err)
	}
	defer store.Close()

	var remote speech.RemoteSynthesizer
	if cfg.ElevenLabsAPIKey != "" {
		remote = speech.NewElevenLabsClient(speech.ElevenLabsConfig{
			APIKey:     cfg.ElevenLabsAPIKey,
			BaseURL:    cfg.ElevenLabsBaseURL,
			VoiceID:    cfg.ElevenLabsVoiceID,
			ModelID:    cfg.ElevenLabsModelID,
			PlayerPath: cfg.AudioPlayerPath,
		})
		log.Printf("remote voice: elevenlabs (%s)", cfg.ElevenLabsVoiceID)
	} else {
		log.Printf("remote voice: disabled (no ELEVENLABS_API_KEY), using say only")
	}
	speaker := speech.NewManager(remote, speech.NewSayCommand(cfg.SayPath, cfg.SayVoice)).WithMetrics(metrics)

	hub := httpapi.NewHub()

	ollamaMgr := ollama.NewManager(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.OllamaAutoStart)
	defer ollamaMgr.StopService()
	ollamaClient := ollama.NewClient(ollamaMgr, speaker, hub, metrics)

	favStore, err := favorites.NewStore(cfg.SupportDir)
	if err != nil {
		log.Fatalf("favorites store init failed: %v", err)
	}

	voiceControl := handlers.NewVoiceControl()

	// Order matters: control handlers run before content handlers, and the
	// conversational fallback always goes last.
	chain := []command.Handler{
		voiceControl,
		handlers.NewTTSControl(speaker),
		handlers.NewOllamaControl(ollamaMgr),
		handlers.Clock{},
		handlers.Calculator{},
		handlers.NewVisualizer(handlers.NewIINA()),
		handlers.NewSpotify(favStore),
		handlers.NewAppleMusic(favStore),
		handlers.NewYouTube(favStore),
		handlers.Radio{},
		handlers.NewAudioDevice(),
		handlers.NewWeather(cfg.WeatherDefaultLocation),
		handlers.NewWiki(ollamaClient),
		handlers.NewChat(ollamaClient),
	}

	router := command.NewRouter(chain, speaker, command.BrowserOpener{}, store, hub, metrics)

	api := httpapi.New(cfg, router, speaker, hub, metrics)
	api.SetAfterCommand(voiceControl.RestartAfterResponse)

	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
