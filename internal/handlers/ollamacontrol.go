package handlers

import (
	"context"
	"fmt"
	"strings"

	"juliejulie/internal/command"
	"juliejulie/internal/ollama"
)

var modelSwitchPrefixes = []string{"use model ", "switch to model "}

// OllamaControl manages the local language model service by voice: starting
// and stopping it, reading status, toggling auto-start, pulling the
// configured model and switching between installed models.
type OllamaControl struct {
	manager *ollama.Manager
}

func NewOllamaControl(manager *ollama.Manager) *OllamaControl {
	return &OllamaControl{manager: manager}
}

func (o *OllamaControl) Name() string { return "ollama_control" }

func (o *OllamaControl) TryHandle(ctx context.Context, text string) (*command.Result, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	if containsAny(lower, []string{"start ollama", "launch ollama", "start ai"}) {
		if err := o.manager.StartService(ctx); err != nil {
			return &command.Result{
				SpokenResponse:    "Failed to start the Ollama service.",
				AdditionalContext: err.Error(),
			}, nil
		}
		return &command.Result{
			SpokenResponse:    "Ollama service started successfully.",
			AdditionalContext: "Ollama is now running",
		}, nil
	}

	if containsAny(lower, []string{"stop ollama", "shutdown ollama", "stop ai"}) {
		o.manager.StopService()
		return &command.Result{
			SpokenResponse:    "Ollama service stopped.",
			AdditionalContext: "Ollama has been shut down",
		}, nil
	}

	if containsAny(lower, []string{"ollama status", "ai status", "is ollama running"}) {
		return o.statusResult(ctx), nil
	}

	if containsAny(lower, []string{"enable ollama auto start", "turn on auto start"}) {
		o.manager.SetAutoStart(true)
		return &command.Result{
			SpokenResponse:    "Ollama auto-start enabled.",
			AdditionalContext: "Ollama will start automatically when needed",
		}, nil
	}
	if containsAny(lower, []string{"disable ollama auto start", "turn off auto start"}) {
		o.manager.SetAutoStart(false)
		return &command.Result{
			SpokenResponse:    "Ollama auto-start disabled.",
			AdditionalContext: "Ollama will not start automatically",
		}, nil
	}

	if containsAny(lower, []string{"pull model", "download model", "update model"}) {
		model := o.manager.ModelName()
		if err := o.manager.PullModel(ctx); err != nil {
			return &command.Result{
				SpokenResponse:    fmt.Sprintf("Failed to download model %s.", model),
				AdditionalContext: err.Error(),
			}, nil
		}
		return &command.Result{
			SpokenResponse:    fmt.Sprintf("Model %s downloaded successfully.", model),
			AdditionalContext: "Model is now available",
		}, nil
	}

	if containsAny(lower, []string{"list models", "show models", "available models"}) {
		return o.listResult(ctx), nil
	}

	for _, prefix := range modelSwitchPrefixes {
		if idx := strings.Index(lower, prefix); idx >= 0 {
			target := strings.TrimSpace(lower[idx+len(prefix):])
			return o.switchResult(ctx, target), nil
		}
	}

	return nil, nil
}

func (o *OllamaControl) statusResult(ctx context.Context) *command.Result {
	status := o.manager.Status(ctx)

	var response string
	switch {
	case status.Running && status.ModelAvailable:
		response = fmt.Sprintf("Ollama is running with model %s.", status.ModelName)
	case status.Running:
		response = fmt.Sprintf("Ollama is running but model %s is not available.", status.ModelName)
	default:
		response = "Ollama is not running."
	}
	if status.AutoStart {
		response += " Auto-start is enabled."
	} else {
		response += " Auto-start is disabled."
	}

	return &command.Result{
		SpokenResponse:    response,
		AdditionalContext: fmt.Sprintf("running=%t model_available=%t auto_start=%t", status.Running, status.ModelAvailable, status.AutoStart),
	}
}

func (o *OllamaControl) listResult(ctx context.Context) *command.Result {
	if !o.manager.Running(ctx) {
		return &command.Result{
			SpokenResponse:    "Ollama is not running. Please start it first.",
			AdditionalContext: "Ollama service needed",
		}
	}
	models, err := o.manager.ListModels(ctx)
	if err != nil || len(models) == 0 {
		return &command.Result{
			SpokenResponse:    "No models found. You may need to download some first.",
			AdditionalContext: "No models available",
		}
	}

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	var response string
	if len(names) == 1 {
		response = fmt.Sprintf("Available model: %s.", names[0])
	} else {
		response = fmt.Sprintf("Available models: %s.", strings.Join(names, ", "))
	}
	response += fmt.Sprintf(" Currently using %s.", o.manager.ModelName())

	return &command.Result{
		SpokenResponse:    response,
		AdditionalContext: fmt.Sprintf("%d models installed", len(models)),
	}
}

func (o *OllamaControl) switchResult(ctx context.Context, target string) *command.Result {
	if target == "" {
		return &command.Result{SpokenResponse: "Which model should I switch to?"}
	}
	if !o.manager.Running(ctx) {
		return &command.Result{
			SpokenResponse:    "Ollama is not running. Please start it first.",
			AdditionalContext: "Ollama service needed",
		}
	}
	resolved, err := o.manager.SwitchModel(ctx, target)
	if err != nil {
		return &command.Result{
			SpokenResponse:    fmt.Sprintf("I couldn't switch to model %s.", target),
			AdditionalContext: err.Error(),
		}
	}
	return &command.Result{
		SpokenResponse:    fmt.Sprintf("Switched to model %s.", resolved),
		AdditionalContext: fmt.Sprintf("Now using model %s", resolved),
	}
}
