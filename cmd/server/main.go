package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"dashgate/internal/config"
	"dashgate/provider"
	"dashgate/server"
	"dashgate/session"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	config.LoadEnvFile()

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	displayAppname(cfg.GetAppName())

	repo, err := sessionRepo(cfg)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	discord := provider.NewDiscordClient(provider.Options{
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
		RedirectURI:  cfg.GetRedirectURI(),
		AuthorizeURL: cfg.GetAuthorizeURL(),
		TokenURL:     cfg.GetTokenURL(),
		RevokeURL:    cfg.GetRevokeURL(),
		UserInfoURL:  cfg.GetUserInfoURL(),
		Scopes:       cfg.GetScopes(),
	})

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: server.New(cfg, repo, discord)}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// sessionRepo picks the session backend: Redis when configured, otherwise
// in-process memory (single instance only).
func sessionRepo(cfg config.Config) (session.Repo, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		log.Info().Msg("REDIS_URL not set, using in-memory session store")
		return session.NewInMemoryRepo(), nil
	}

	client, err := session.NewRedisClient(redisURL)
	if err != nil {
		return nil, err
	}
	return session.NewRedisRepo(client, cfg.GetSessionTTL()), nil
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
