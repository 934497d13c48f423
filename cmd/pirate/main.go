package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/zhouzirui/pirate-chat/internal/config"
	"github.com/zhouzirui/pirate-chat/internal/model/chat"
	"github.com/zhouzirui/pirate-chat/internal/model/persona"
	"github.com/zhouzirui/pirate-chat/internal/repl"
	"github.com/zhouzirui/pirate-chat/internal/service/ai"
)

const (
	exitSuccess = 0
	exitFailure = 1
	exitSignal  = 130
)

// interruptGrace bounds how long a cancelled session may take to unwind; a
// read blocked on stdin never observes the context.
const interruptGrace = 2 * time.Second

func main() {
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		stop()
		time.Sleep(interruptGrace)
		log.Println("[cli] interrupted while waiting for input")
		os.Exit(exitSignal)
	}()

	code := run(ctx, os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, stdin *os.File, stdout io.Writer) int {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load configuration: %v", err)
		return exitFailure
	}

	p, err := resolvePersona(cfg.Chat)
	if err != nil {
		log.Printf("failed to resolve persona: %v", err)
		return exitFailure
	}

	gen, err := ai.NewGenerator(ctx, cfg.AI)
	if err != nil {
		log.Printf("failed to initialize generator: %v", err)
		return exitFailure
	}

	session := chat.NewSession(p.ID, ai.BuildSystemPrompt(&p))
	log.Printf("[cli] session=%s persona=%s backend=%s", session.ID, p.ID, gen.Name())

	deps := repl.Deps{
		Generator:    gen,
		Stdin:        stdin,
		Stdout:       stdout,
		Banner:       repl.DefaultBanner,
		Label:        p.ReplyLabel(),
		MaxNewTokens: cfg.Chat.MaxNewTokens,
	}
	if term.IsTerminal(int(stdin.Fd())) {
		deps.Prompt = "You: "
	}

	if err := repl.Run(ctx, session, deps); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("[cli] session=%s interrupted after %d turns", session.ID, session.Turns())
			return exitSignal
		}
		log.Printf("[cli] session=%s stopped after %d turns", session.ID, session.Turns())
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitSuccess
}

func resolvePersona(cfg config.ChatConfig) (persona.Persona, error) {
	store := persona.NewMemoryStore(persona.Seed())
	if cfg.PersonaFile != "" {
		items, err := persona.LoadFile(cfg.PersonaFile)
		if err != nil {
			return persona.Persona{}, err
		}
		store.Merge(items)
	}

	p, ok := store.FindByID(cfg.PersonaID)
	if !ok {
		return persona.Persona{}, fmt.Errorf("persona %q not found", cfg.PersonaID)
	}
	return p, nil
}
