package speech

import (
	"context"
	"fmt"
	"strings"

	"juliejulie/internal/execx"
)

// SayCommand voices text with the macOS `say` command.
type SayCommand struct {
	path  string
	voice string
}

func NewSayCommand(path, voice string) *SayCommand {
	if strings.TrimSpace(path) == "" {
		path = "say"
	}
	return &SayCommand{path: path, voice: voice}
}

func (s *SayCommand) Say(ctx context.Context, text string) error {
	args := []string{}
	if strings.TrimSpace(s.voice) != "" {
		args = append(args, "-v", s.voice)
	}
	args = append(args, text)

	out := execx.Run(ctx, 0, s.path, args...)
	switch out.Status {
	case execx.OK:
		return nil
	case execx.NotFound:
		return fmt.Errorf("%s command not found (is this macOS?)", s.path)
	default:
		return fmt.Errorf("%s command failed: %s", s.path, out.Message())
	}
}
