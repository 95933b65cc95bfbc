package command

import (
	"context"
	"fmt"

	"juliejulie/internal/execx"
)

// BrowserOpener opens URLs with the macOS `open` command.
type BrowserOpener struct{}

func (BrowserOpener) Open(ctx context.Context, url string) error {
	out := execx.Run(ctx, 0, "open", url)
	if out.Status != execx.OK {
		return fmt.Errorf("open %s: %s", url, out.Message())
	}
	return nil
}
