package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/gg"
	"github.com/gorilla/mux"

	"github.com/mickcarey/canva/internal/asset"
	"github.com/mickcarey/canva/internal/collab"
	"github.com/mickcarey/canva/internal/config"
	"github.com/mickcarey/canva/internal/design"
	"github.com/mickcarey/canva/internal/editor"
	"github.com/mickcarey/canva/internal/export"
	mw "github.com/mickcarey/canva/internal/middleware"
	"github.com/mickcarey/canva/internal/session"
	"github.com/mickcarey/canva/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var designs store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		designs = pg
	} else {
		slog.Warn("DATABASE_URL not set, designs are kept in memory")
		designs = store.NewMemory()
	}

	loader := asset.NewLoader(cfg.AssetDir, cfg.ImageFetchTimeout, cfg.MaxImageBytes)

	designService := design.NewService(designs, loader)
	designHandler := design.NewHandler(designService)

	sessions := session.NewManager(designService, editor.Options{
		WorkspaceWidth:  cfg.WorkspaceWidth,
		WorkspaceHeight: cfg.WorkspaceHeight,
		Images:          loader,
	})
	designService.SetLiveSource(sessions)
	go sessions.Run(ctx, cfg.AutosaveInterval)

	hub := collab.NewHub(sessions)
	go hub.Run()
	wsHandler := collab.NewHandler(hub, sessions, cfg.Origins())

	assetHandler := asset.NewHandler(cfg.AssetDir)
	exportHandler := export.NewHandler(loader)

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST")
	r.HandleFunc("/assets/{id}", assetHandler.HandleDelete).Methods("DELETE")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	r.HandleFunc("/api/export", exportHandler.Export).Methods("POST")
	designHandler.Register(r)

	r.HandleFunc("/ws/design/{designId}", wsHandler.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.CORS(cfg.Origins())(r), // preflights are answered before routing
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so open designs are flushed.
		hub.Stop()
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "workspace", fmt.Sprintf("%gx%g", cfg.WorkspaceWidth, cfg.WorkspaceHeight))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
