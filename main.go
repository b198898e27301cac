package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"label-server/auth"
	"label-server/config"
	"label-server/core"
	"label-server/fonts"
	"label-server/handlers/api/jobs"
	"label-server/handlers/api/labels"
	"label-server/labeler"
	authMiddleware "label-server/middleware"
	"label-server/printer"
	"label-server/stores"
)

func setupRouter(svc labels.Labeler, store core.JobStore, authn *auth.Authenticator) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Origin", "X-Requested-With"},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/labels", http.StatusFound)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/labels", labels.HandleListLabels(svc))
		r.Get("/fonts", labels.HandleListFonts(svc))
		r.Get("/preview/text", labels.HandlePreview(svc))
		r.Post("/preview/text", labels.HandlePreview(svc))

		r.Get("/jobs", jobs.HandleListJobs(store))
		r.Get("/jobs/{id}", jobs.HandleGetJob(store))
		r.Get("/jobs/{id}/preview", jobs.HandleGetPreview(store))

		// Printing and deleting history need a token once JWT_SECRET is set
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.AuthJWT(authn))
			r.Get("/print/text", labels.HandlePrint(svc))
			r.Post("/print/text", labels.HandlePrint(svc))
			r.Delete("/jobs/{id}", jobs.HandleDeleteJob(store))
		})
	})

	return r
}

func loadFonts(ctx context.Context, folder string) (*fonts.Table, fonts.Ref, error) {
	table := fonts.Builtin()

	system, err := fonts.Scan(ctx, fonts.SystemDirs()...)
	if err != nil {
		logrus.WithError(err).Warn("Failed to scan system fonts")
	} else {
		table.Merge(system)
	}

	if folder != "" {
		extra, err := fonts.Scan(ctx, folder)
		if err != nil {
			return nil, fonts.Ref{}, fmt.Errorf("scan font folder %s: %w", folder, err)
		}
		table.Merge(extra)
	}

	def, err := table.SelectDefault(fonts.DefaultCandidates)
	if err != nil {
		return nil, fonts.Ref{}, err
	}
	logrus.WithFields(logrus.Fields{
		"families": len(table.Families()),
		"default":  def.Family + " " + def.Style,
	}).Info("Fonts loaded")
	return table, def, nil
}

func setupPrinter(cfg *config.Config) (*printer.Printer, error) {
	var backend printer.Backend
	if !cfg.DryRun {
		var err error
		backend, err = printer.ParseBackend(cfg.Printer)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"backend": backend.String(),
			"model":   cfg.Model,
		}).Info("Using printer")
	} else {
		logrus.Info("Dry run, labels will not be sent to a printer")
	}

	return printer.New(printer.Config{
		Backend: backend,
		Model:   cfg.Model,
		Rate:    cfg.PrintRate,
		DryRun:  cfg.DryRun,
	}), nil
}

func waitForShutdown(srv *http.Server) {
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-signalC

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Failed to shut down server cleanly")
	}
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	cfg, err := config.Parse(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logrus.Fatal(err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	var authn *auth.Authenticator
	if cfg.JWTSecret != "" {
		if authn, err = auth.New(cfg.JWTSecret); err != nil {
			logrus.Fatal(err)
		}
	}

	if cfg.IssueToken != "" {
		if authn == nil {
			logrus.Fatal(auth.ErrNoSecret)
		}
		token, err := authn.Issue(cfg.IssueToken, auth.DefaultTTL)
		if err != nil {
			logrus.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	table, defaultFont, err := loadFonts(context.Background(), cfg.FontFolder)
	if err != nil {
		logrus.Fatalf("Failed to load fonts: %v", err)
	}

	pr, err := setupPrinter(cfg)
	if err != nil {
		logrus.Fatalf("Invalid printer: %v", err)
	}

	store := stores.GetStore()
	svc := labeler.New(labeler.Options{
		Fonts:       table,
		DefaultFont: defaultFont,
		Faces:       fonts.NewCache(30 * time.Minute),
		Printer:     pr,
		Store:       store,
		Defaults: labeler.Defaults{
			LabelSize:   cfg.DefaultLabelSize,
			Orientation: cfg.DefaultOrientation,
		},
		DebugImage: cfg.DebugImage,
	})

	if authn == nil {
		logrus.Warn("JWT_SECRET is not set, printing is open to everyone")
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           setupRouter(svc, store, authn),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logrus.WithField("addr", cfg.Listen).Info("starting server")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(srv)
}
