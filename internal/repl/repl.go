// Package repl drives the interactive chat loop over an explicit session.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zhouzirui/pirate-chat/internal/model/chat"
	"github.com/zhouzirui/pirate-chat/internal/service/ai"
	chatService "github.com/zhouzirui/pirate-chat/internal/service/chat"
)

// DefaultBanner is printed once before the first prompt.
const DefaultBanner = "🏴‍☠️ Pirate Chat! (type ‘exit’ to quit)"

const maxLineSize = 1 << 20

// ErrInputClosed is returned when standard input ends before an exit command.
var ErrInputClosed = errors.New("input closed before exit command")

// Deps holds the injectable collaborators of the loop.
type Deps struct {
	Generator    ai.Generator
	Stdin        io.Reader
	Stdout       io.Writer
	Banner       string
	Label        string // reply prefix, e.g. "Pirate Bot"
	Prompt       string // printed before each read when non-empty
	MaxNewTokens int
}

// IsExitCommand reports whether the line ends the session.
func IsExitCommand(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return true
	default:
		return false
	}
}

// Run reads lines until an exit command and plays one turn per line. It
// returns nil on exit/quit, ErrInputClosed at end of input, and the
// generator's error (an *ai.GenerationError) when a reply cannot be obtained.
func Run(ctx context.Context, session *chat.Session, deps Deps) error {
	if deps.Banner != "" {
		fmt.Fprintln(deps.Stdout, deps.Banner)
	}

	scanner := bufio.NewScanner(deps.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if deps.Prompt != "" {
			fmt.Fprint(deps.Stdout, deps.Prompt)
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return ErrInputClosed
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if IsExitCommand(line) {
			return nil
		}

		reply, err := chatService.Turn(ctx, deps.Generator, session, line, deps.MaxNewTokens)
		if err != nil {
			return err
		}

		fmt.Fprintf(deps.Stdout, "%s: %s\n", deps.Label, reply)
	}
}
