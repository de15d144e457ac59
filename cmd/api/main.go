package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookcatalog/api"
	"bookcatalog/catalog"
	"bookcatalog/config"
)

func main() {
	defaultCfg := config.DefaultConfig()
	storeDefault := defaultCfg.OutputFile
	if value, ok := config.EnvString("BOOKS_STORE"); ok {
		storeDefault = value
	}
	listenDefault := defaultCfg.ListenAddr
	if value, ok := config.EnvString("BOOKS_LISTEN_ADDR"); ok {
		listenDefault = value
	}

	storePath := flag.String("store", storeDefault, "Path to the catalog store file")
	listenAddr := flag.String("listen", listenDefault, "HTTP listen address")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	c, err := catalog.Load(*storePath)
	if err != nil {
		slog.Error("loading catalog", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("catalog loaded",
		slog.String("store", *storePath),
		slog.Int("books", c.Len()),
	)

	handle := catalog.NewHandle(c)
	srv := &http.Server{
		Addr:    *listenAddr,
		Handler: api.NewServer(handle).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("serving catalog", slog.String("addr", *listenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
}
