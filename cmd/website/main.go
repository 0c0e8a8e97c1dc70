package main

import (
	"context"
	"embed"
	"encoding/gob"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/catgallery/cmd/website/internal/configuration"
	"github.com/adampresley/catgallery/cmd/website/internal/gallerypage"
	"github.com/adampresley/catgallery/cmd/website/internal/viewers"
	"github.com/adampresley/catgallery/pkg/gallery"
	"github.com/adampresley/catgallery/pkg/models"
	"github.com/adampresley/catgallery/pkg/services"
)

var (
	Version string = "development"
	appName string = "catgallery"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	catApiService  services.CatApiService
	renderer       rendering.TemplateRenderer
	sessionService sessions.Session[*models.Viewer]
	viewerRegistry *viewers.ViewerRegistry

	/* Controllers */
	galleryController gallerypage.GalleryHandlers
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("catApiBaseURL", config.CatApiBaseURL),
		slog.Bool("discardStaleResponses", config.DiscardStaleResponses),
	)

	if config.CatApiKey == "" {
		slog.Warn("no Cat API key configured. requests will be sent without one")
	}

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	gob.Register(&models.Viewer{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*models.Viewer](cookieStore, "catgalleryviewers", "viewer")

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	catApiService = services.NewCatApiService(services.CatApiServiceConfig{
		ApiKey:  config.CatApiKey,
		BaseURL: config.CatApiBaseURL,
		Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
	})

	viewerRegistry, err = viewers.NewViewerRegistry(viewers.ViewerRegistryConfig{
		MaxViewers: config.MaxViewers,
		NewGallery: func(viewerID string) *gallery.Gallery {
			return gallery.NewGallery(gallery.GalleryConfig{
				BreedService:          catApiService,
				ImageService:          catApiService,
				DiscardStaleResponses: config.DiscardStaleResponses,
				Logger:                slog.With("viewerID", viewerID),
				MaxWorkers:            config.MaxFetchWorkers,
				ShutdownCtx:           shutdownCtx,
			})
		},
	})

	if err != nil {
		panic(err)
	}

	/*
	 * Setup controllers
	 */
	galleryController = gallerypage.NewGalleryController(gallerypage.GalleryControllerConfig{
		Registry:   viewerRegistry,
		Renderer:   renderer,
		RenderWait: time.Duration(config.RenderWaitSeconds) * time.Second,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	viewerMiddleware := newViewerMiddleware(
		sessionService,
		[]string{
			"/static",
			"/heartbeat",
		},
	)

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /", HandlerFunc: galleryController.GalleryPage, Middlewares: []mux.MiddlewareFunc{viewerMiddleware}},
		{Path: "GET /gallery/breed", HandlerFunc: galleryController.SelectBreed, Middlewares: []mux.MiddlewareFunc{viewerMiddleware}},
		{Path: "POST /gallery/load-more", HandlerFunc: galleryController.LoadMore, Middlewares: []mux.MiddlewareFunc{viewerMiddleware}},
		{Path: "GET /api/gallery", HandlerFunc: galleryController.GalleryState, Middlewares: []mux.MiddlewareFunc{viewerMiddleware}},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	viewerRegistry.UnmountAll()
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}
