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

	"github.com/morrisliu/voicechat/backend/internal/auth"
	"github.com/morrisliu/voicechat/backend/internal/config"
	"github.com/morrisliu/voicechat/backend/internal/handler"
	"github.com/morrisliu/voicechat/backend/internal/service/ai"
	chatservice "github.com/morrisliu/voicechat/backend/internal/service/chat"
	speechservice "github.com/morrisliu/voicechat/backend/internal/service/speech"
	"github.com/morrisliu/voicechat/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()
	st := store.New(pool)

	codec, err := auth.NewCodec(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatalf("failed to initialize token codec: %v", err)
	}

	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}
	log.Println("AI service initialized successfully")

	speechService, err := speechservice.NewService(
		speechservice.NewModelClient(cfg.Speech.Endpoint, cfg.Speech.Voice),
		cfg.Speech,
	)
	if err != nil {
		log.Fatalf("failed to initialize speech service: %v", err)
	}
	log.Println("Speech service initialized successfully")

	chatService := chatservice.NewService(aiService, speechService, st, cfg.ExternalTimeout)

	router := handler.NewRouter(codec, chatService, speechService, st)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("voicechat backend listening on %s", addr)
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
