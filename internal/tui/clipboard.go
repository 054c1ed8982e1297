package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const clipboardTimeout = 5 * time.Second

var errNoClipboard = errors.New("no clipboard command available")

// clipboardTool is a clipboard writer and the session it works in.
type clipboardTool struct {
	command string
	env     string // Display variable that must be set
}

var clipboardTools = []clipboardTool{
	{command: "wl-copy", env: "WAYLAND_DISPLAY"},
	{command: "xclip -selection clipboard", env: "DISPLAY"},
	{command: "xsel --clipboard --input", env: "DISPLAY"},
}

// copyText writes text to the clipboard through command, or through the
// detected tool when command is empty.
func copyText(ctx context.Context, text, command string) error {
	if command == "" {
		command = detectClipboardCommand(os.Getenv, exec.LookPath)
	}
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return errNoClipboard
	}

	ctx, cancel := context.WithTimeout(ctx, clipboardTimeout)
	defer cancel()

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdin = strings.NewReader(text)
	if err := c.Run(); err != nil {
		return fmt.Errorf("clipboard command %q failed: %w", argv[0], err)
	}
	return nil
}

// detectClipboardCommand picks the first installed tool for the current
// display session. A tool whose session variable is unset is skipped.
func detectClipboardCommand(getenv func(string) string, lookPath func(string) (string, error)) string {
	for _, tool := range clipboardTools {
		if getenv(tool.env) == "" {
			continue
		}
		if _, err := lookPath(strings.Fields(tool.command)[0]); err == nil {
			return tool.command
		}
	}
	return ""
}
