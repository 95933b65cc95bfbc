package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"time"

	"juliejulie/internal/execx"
)

const (
	probeTimeout    = 5 * time.Second
	startupAttempts = 30
	pullTimeout     = 5 * time.Minute
)

// ModelInfo describes one locally downloaded model.
type ModelInfo struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Modified string `json:"modified"`
}

// ServiceStatus is a point-in-time snapshot for status commands.
type ServiceStatus struct {
	Running        bool   `json:"running"`
	ModelAvailable bool   `json:"model_available"`
	ModelName      string `json:"model_name"`
	AutoStart      bool   `json:"auto_start"`
	Managed        bool   `json:"managed_process"`
}

// Manager owns the model-serving process lifecycle and the selected model.
// Liveness is always probed fresh, never cached across calls.
type Manager struct {
	baseURL string
	binary  string
	httpc   *http.Client

	mu        sync.Mutex
	modelName string
	autoStart bool
	proc      *exec.Cmd
}

func NewManager(baseURL, modelName string, autoStart bool) *Manager {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "http://localhost:11434"
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = "llama3.2"
	}
	return &Manager{
		baseURL:   strings.TrimRight(baseURL, "/"),
		binary:    "ollama",
		modelName: modelName,
		autoStart: autoStart,
		httpc:     &http.Client{Timeout: probeTimeout},
	}
}

// Running probes the serving API.
func (m *Manager) Running(ctx context.Context) bool {
	_, err := m.fetchTags(ctx)
	return err == nil
}

// ListModels returns the locally downloaded models.
func (m *Manager) ListModels(ctx context.Context) ([]ModelInfo, error) {
	tags, err := m.fetchTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ModelInfo, 0, len(tags.Models))
	for _, t := range tags.Models {
		out = append(out, ModelInfo{
			Name:     t.Name,
			Size:     formatSize(t.Size),
			Modified: t.ModifiedAt,
		})
	}
	return out, nil
}

// ModelAvailable reports whether the selected model is downloaded.
func (m *Manager) ModelAvailable(ctx context.Context) bool {
	tags, err := m.fetchTags(ctx)
	if err != nil {
		return false
	}
	want := m.ModelName()
	for _, t := range tags.Models {
		if strings.Contains(t.Name, want) {
			return true
		}
	}
	return false
}

// SwitchModel selects a different model, matching exactly first and then by a
// unique partial match. It returns the resolved model name.
func (m *Manager) SwitchModel(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty model name")
	}

	models, err := m.ListModels(ctx)
	if err != nil {
		return "", err
	}

	for _, mi := range models {
		if mi.Name == name {
			m.setModelName(mi.Name)
			return mi.Name, nil
		}
	}

	var matches []string
	for _, mi := range models {
		if strings.Contains(strings.ToLower(mi.Name), strings.ToLower(name)) {
			matches = append(matches, mi.Name)
		}
	}
	switch len(matches) {
	case 1:
		m.setModelName(matches[0])
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("model %q not found", name)
	default:
		return "", fmt.Errorf("multiple models match %q: %s", name, strings.Join(matches, ", "))
	}
}

func (m *Manager) ModelName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modelName
}

func (m *Manager) setModelName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modelName = name
	log.Printf("switched to model %s", name)
}

func (m *Manager) AutoStart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autoStart
}

func (m *Manager) SetAutoStart(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoStart = enabled
	log.Printf("ollama auto-start set to %v", enabled)
}

// StartService launches `ollama serve` and polls for readiness, then makes
// sure the selected model is present.
func (m *Manager) StartService(ctx context.Context) error {
	if _, err := exec.LookPath(m.binary); err != nil {
		return fmt.Errorf("%s command not found; install it first: %w", m.binary, err)
	}

	m.mu.Lock()
	if m.proc != nil {
		m.mu.Unlock()
		return nil
	}
	cmd := exec.Command(m.binary, "serve")
	if err := cmd.Start(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("start %s serve: %w", m.binary, err)
	}
	m.proc = cmd
	m.mu.Unlock()

	for attempt := 0; attempt < startupAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
		if m.Running(ctx) {
			log.Printf("ollama service started")
			if !m.ModelAvailable(ctx) {
				log.Printf("model %s not found, pulling", m.ModelName())
				if err := m.PullModel(ctx); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return fmt.Errorf("ollama service did not become ready within %d seconds", startupAttempts)
}

// StopService terminates the serving process if this manager started it.
func (m *Manager) StopService() {
	m.mu.Lock()
	proc := m.proc
	m.proc = nil
	m.mu.Unlock()

	if proc == nil || proc.Process == nil {
		return
	}
	log.Printf("stopping ollama service")
	if err := proc.Process.Kill(); err != nil {
		log.Printf("could not stop ollama service: %v", err)
	}
	_ = proc.Wait()
}

// PullModel downloads the selected model.
func (m *Manager) PullModel(ctx context.Context) error {
	model := m.ModelName()
	out := execx.Run(ctx, pullTimeout, m.binary, "pull", model)
	switch out.Status {
	case execx.OK:
		log.Printf("model %s pulled", model)
		return nil
	case execx.NotFound:
		return fmt.Errorf("%s command not found", m.binary)
	default:
		return fmt.Errorf("pull %s: %s", model, out.Message())
	}
}

// EnsureAvailable makes the backend ready to answer: already running with the
// model present, or pulled/started on demand when auto-start permits.
func (m *Manager) EnsureAvailable(ctx context.Context) bool {
	if m.Running(ctx) {
		if m.ModelAvailable(ctx) {
			return true
		}
		log.Printf("ollama running but model %s missing, pulling", m.ModelName())
		return m.PullModel(ctx) == nil
	}
	if !m.AutoStart() {
		log.Printf("ollama not running and auto-start disabled")
		return false
	}
	if err := m.StartService(ctx); err != nil {
		log.Printf("ollama auto-start failed: %v", err)
		return false
	}
	return true
}

// Status gathers a fresh snapshot.
func (m *Manager) Status(ctx context.Context) ServiceStatus {
	m.mu.Lock()
	managed := m.proc != nil
	m.mu.Unlock()
	return ServiceStatus{
		Running:        m.Running(ctx),
		ModelAvailable: m.ModelAvailable(ctx),
		ModelName:      m.ModelName(),
		AutoStart:      m.AutoStart(),
		Managed:        managed,
	}
}

type tagsResponse struct {
	Models []struct {
		Name       string `json:"name"`
		Size       int64  `json:"size"`
		ModifiedAt string `json:"modified_at"`
	} `json:"models"`
}

func (m *Manager) fetchTags(ctx context.Context) (*tagsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	res, err := m.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe ollama: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama tags status %d", res.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(res.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return &tags, nil
}

func formatSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	f := float64(size)
	i := 0
	for f >= 1024 && i < len(units)-1 {
		f /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", f, units[i])
}
