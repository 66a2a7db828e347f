package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/killallgit/agentflow/pkg/headless"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/killallgit/agentflow/pkg/render"
	"github.com/killallgit/agentflow/pkg/session"
	"github.com/killallgit/agentflow/pkg/tokens"
	"github.com/killallgit/agentflow/pkg/uploads"
)

// repl is a line-oriented chat loop over one session. Lines starting with
// a slash are commands; anything else is a prompt.
type repl struct {
	runner    *headless.Runner
	renderer  render.Renderer
	uploads   *uploads.Dir
	listLimit int
	out       io.Writer
	prompt    string
	counter   *tokens.Counter

	// files uploaded since the last prompt
	pending []string
}

var errQuit = errors.New("quit")

func (r *repl) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if r.prompt != "" {
			fmt.Fprint(r.out, r.prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if err := r.command(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				render.Error(r.renderer, err)
			}
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		r.send(ctx, line)
	}
}

// send runs one turn. Agent errors are already shown by the runner, so
// the loop carries on.
func (r *repl) send(ctx context.Context, line string) {
	files := r.pending
	r.pending = nil

	if _, err := r.runner.Run(ctx, line, files); err != nil {
		logger.Error("Turn failed: %v", err)
		if errors.Is(err, session.ErrTurnInProgress) || errors.Is(err, session.ErrEmptyPrompt) {
			render.Error(r.renderer, err)
		}
	}
}

func (r *repl) command(line string) error {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return errQuit

	case "/clear":
		r.runner.Session().Clear()
		r.pending = nil
		render.Notice(r.renderer, "Chat history cleared")

	case "/stats":
		sess := r.runner.Session()
		s := sess.Stats()
		line := fmt.Sprintf("Messages: %d user, %d assistant | Tool calls: %d",
			s.UserMessages, s.AssistantMessages, s.ToolCalls)
		if r.counter != nil {
			sum := summary{
				Tokens:    r.counter.CountMessages(sess.History().Messages()),
				Estimated: r.counter.Estimated(),
			}
			line += " | Tokens: " + sum.tokenString()
		}
		render.Notice(r.renderer, line)

	case "/upload":
		if arg == "" {
			return fmt.Errorf("usage: /upload <path>")
		}
		path, err := r.uploads.SaveFile(arg)
		if err != nil {
			return err
		}
		r.pending = append(r.pending, path)
		render.Notice(r.renderer, fmt.Sprintf("📎 Uploaded %s", path))

	case "/files":
		files, total, err := r.uploads.List(r.listLimit)
		if err != nil {
			return err
		}
		if total == 0 {
			render.Notice(r.renderer, "No uploaded files")
			return nil
		}
		for _, f := range files {
			render.Notice(r.renderer, "  "+f.String())
		}
		if total > len(files) {
			render.Notice(r.renderer, fmt.Sprintf("  ... and %d more", total-len(files)))
		}

	case "/clear-files":
		n, err := r.uploads.Clear()
		if err != nil {
			return err
		}
		r.pending = nil
		render.Notice(r.renderer, fmt.Sprintf("Removed %d uploaded file(s)", n))

	case "/help":
		render.Notice(r.renderer, "Commands: /clear /stats /upload <path> /files /clear-files /quit")

	default:
		return fmt.Errorf("unknown command %s", name)
	}
	return nil
}
