package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/predictupload/internal/config"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// ensureToken prompts for the API token when the backend is needed, no token
// was configured and fd is an interactive terminal. Input is not echoed.
func ensureToken(cfg *config.Config, fd int, w io.Writer) error {
	if cfg.AuthToken != "" || !cfg.NeedsBackend() || !isTerminal(fd) {
		return nil
	}

	if _, err := fmt.Fprint(w, "Enter API token: "); err != nil {
		return err
	}
	tok, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	cfg.AuthToken = strings.TrimSpace(string(tok))
	return nil
}
