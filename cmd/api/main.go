package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/pirate-chat/internal/config"
	"github.com/zhouzirui/pirate-chat/internal/handler"
	middlewarePkg "github.com/zhouzirui/pirate-chat/internal/middleware"
	"github.com/zhouzirui/pirate-chat/internal/model/persona"
	"github.com/zhouzirui/pirate-chat/internal/service/ai"
	"github.com/zhouzirui/pirate-chat/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	if cfg.Chat.PersonaFile != "" {
		items, err := persona.LoadFile(cfg.Chat.PersonaFile)
		if err != nil {
			log.Fatalf("failed to load personas: %v", err)
		}
		personaStore.Merge(items)
		log.Printf("loaded %d personas from %s", len(items), cfg.Chat.PersonaFile)
	}

	gen, err := ai.NewGenerator(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize generator: %v", err)
	}
	log.Printf("generator %s initialized, max new tokens=%d", gen.Name(), cfg.Chat.MaxNewTokens)

	chatService := chat.NewService(gen, cfg.Chat.MaxNewTokens)

	limiter := middlewarePkg.NewIPLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go runLimiterCleanup(ctx, limiter)

	router := handler.NewRouter(personaStore, chatService, limiter)

	startServer(ctx, cfg.Server, router)
}

func runLimiterCleanup(ctx context.Context, limiter *middlewarePkg.IPLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := limiter.Cleanup(); removed > 0 {
				log.Printf("[ratelimit] dropped %d idle clients", removed)
			}
		}
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Pirate chat API listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
