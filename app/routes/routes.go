package routes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"newsportal/app/client"
	"newsportal/app/config"
	"newsportal/app/controllers"
	"newsportal/app/metrics"
	"newsportal/app/middleware"
	"newsportal/app/repositories"
	"newsportal/app/services"
	"newsportal/app/views"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Dependencies is everything the router wires into controllers.
type Dependencies struct {
	Config   *config.Config
	API      client.API
	Sessions repositories.SessionRepository
	Uploads  repositories.UploadRepository
	Metrics  metrics.Provider
	Log      *slog.Logger
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) (*mux.Router, error) {
	cfg := deps.Config

	templates, err := controllers.LoadTemplates(views.FS, controllers.Images{
		Origin:   cfg.API.AssetOrigin,
		Fallback: cfg.Portal.FallbackImage,
	})
	if err != nil {
		return nil, err
	}
	signer, err := middleware.NewSessionSigner(cfg.Session.Secret)
	if err != nil {
		return nil, err
	}
	if cfg.Session.Secret == "" {
		deps.Log.Warn("No session secret configured, sessions will not survive a restart")
	}

	portalService := services.NewPortalService(deps.API, deps.Log, deps.Metrics)
	adminService := services.NewAdminService(deps.API, deps.Uploads, cfg.API.AssetOrigin, deps.Log, deps.Metrics)

	portalController := controllers.NewPortalController(portalService, deps.Sessions, templates, deps.Log)
	adminController := controllers.NewAdminController(adminService, deps.Sessions, templates, cfg.Portal.MaxImageBytes, deps.Log)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(deps.Log))
	router.Use(middleware.Recoverer(deps.Log))
	router.Use(middleware.Metrics(deps.Metrics))

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/healthz", controllers.Health).Methods("GET")

	// Pages keep their view state in a per-browser session
	pages := router.PathPrefix("/").Subrouter()
	pages.Use(middleware.Session(cfg.Session, signer, deps.Log))

	// Public pages
	pages.HandleFunc("/", portalController.Index).Methods("GET")
	pages.HandleFunc("/more", portalController.More).Methods("POST")
	pages.HandleFunc("/posts/{id:[0-9]+}", portalController.Show).Methods("GET")

	// Admin pages
	admin := pages.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("", adminController.Index).Methods("GET")
	admin.Handle("/state", middleware.ContentTypeJSON(http.HandlerFunc(adminController.State))).Methods("GET")
	admin.HandleFunc("/posts/new", adminController.New).Methods("GET")
	admin.HandleFunc("/posts/{id:[0-9]+}/edit", adminController.Edit).Methods("GET")
	admin.HandleFunc("/posts", adminController.Submit).Methods("POST")
	admin.HandleFunc("/form/close", adminController.Close).Methods("POST")
	admin.HandleFunc("/uploads/{ref}", adminController.Upload).Methods("GET")
	admin.HandleFunc("/posts/{id:[0-9]+}/delete", adminController.ConfirmDelete).Methods("GET")
	admin.HandleFunc("/posts/{id:[0-9]+}/delete", adminController.Delete).Methods("POST")

	return router, nil
}

// StartServer serves router on addr until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, addr string, router http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", slog.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
