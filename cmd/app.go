package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/config"
	"github.com/killallgit/agentflow/pkg/render"
	"github.com/killallgit/agentflow/pkg/session"
)

// sessions holds the chat sessions opened by this process
var sessions = session.NewStore()

// openSession starts a fresh session; the returned func ends it
func openSession() (*session.Session, func()) {
	sess := sessions.Get("")
	return sess, func() { sessions.Delete(sess.ID) }
}

// newRenderer builds the renderer for the configured output format
func newRenderer(w io.Writer) (render.Renderer, error) {
	cfg := config.Get()
	return render.New(cfg.Render.Format, w, cfg.Render)
}

// historyPath returns where the history snapshot lives
func historyPath() string {
	return config.ResolvePath(config.Get().History.File)
}

// loadHistoryIfExists loads the snapshot at path, returning an empty
// history when there is none yet
func loadHistoryIfExists(path string) (*chat.History, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return chat.NewHistory(), nil
	}
	h, err := chat.LoadHistory(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load history from %s: %w", path, err)
	}
	return h, nil
}
