package gallerypage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/catgallery/cmd/website/internal/viewers"
	"github.com/adampresley/catgallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/catgallery/pkg/gallery"
)

const (
	pageName = "pages/gallery"
)

type GalleryHandlers interface {
	GalleryPage(w http.ResponseWriter, r *http.Request)
	GalleryState(w http.ResponseWriter, r *http.Request)
	LoadMore(w http.ResponseWriter, r *http.Request)
	SelectBreed(w http.ResponseWriter, r *http.Request)
}

type PageRenderer interface {
	Render(templateName string, data any, w io.Writer) error
}

type GalleryControllerConfig struct {
	Registry   viewers.ViewerRegistrar
	Renderer   PageRenderer
	RenderWait time.Duration
}

type GalleryController struct {
	registry   viewers.ViewerRegistrar
	renderer   PageRenderer
	renderWait time.Duration
}

func NewGalleryController(config GalleryControllerConfig) GalleryController {
	if config.RenderWait <= 0 {
		config.RenderWait = 10 * time.Second
	}

	return GalleryController{
		registry:   config.Registry,
		renderer:   config.Renderer,
		renderWait: config.RenderWait,
	}
}

/*
GET /
*/
func (c GalleryController) GalleryPage(w http.ResponseWriter, r *http.Request) {
	g := c.viewerGallery(r)
	c.render(w, r, g)
}

/*
GET /gallery/breed?breed={id}
*/
func (c GalleryController) SelectBreed(w http.ResponseWriter, r *http.Request) {
	g := c.viewerGallery(r)
	breedID := httphelpers.GetFromRequest[string](r, "breed")

	g.OnBreedSelectionChange(breedID)
	c.render(w, r, g)
}

/*
POST /gallery/load-more
*/
func (c GalleryController) LoadMore(w http.ResponseWriter, r *http.Request) {
	g := c.viewerGallery(r)

	if _, issued := g.OnLoadMore(); !issued {
		slog.Debug("load more ignored while images are loading", "viewerID", viewmodels.GetViewerFromContext(r).ID)
	}

	c.render(w, r, g)
}

/*
GET /api/gallery
*/
func (c GalleryController) GalleryState(w http.ResponseWriter, r *http.Request) {
	g := c.viewerGallery(r)
	c.waitForFetches(r, g)

	httphelpers.JsonOK(w, g.State())
}

func (c GalleryController) viewerGallery(r *http.Request) *gallery.Gallery {
	viewer := viewmodels.GetViewerFromContext(r)
	return c.registry.Get(viewer.ID)
}

/*
Fetches settle asynchronously. The page is rendered once they have,
or with its loading state if that takes too long.
*/
func (c GalleryController) waitForFetches(r *http.Request, g *gallery.Gallery) {
	ctx, cancel := context.WithTimeout(r.Context(), c.renderWait)
	defer cancel()

	if err := g.Wait(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("stopped waiting for gallery fetches", "error", err)
	}
}

func (c GalleryController) render(w http.ResponseWriter, r *http.Request, g *gallery.Gallery) {
	c.waitForFetches(r, g)

	viewData := viewmodels.NewGalleryPage(g.State())
	viewData.IsHtmx = httphelpers.IsHtmx(r)
	viewData.JavascriptIncludes = []rendering.JavascriptInclude{
		{Type: "module", Src: "/static/js/pages/gallery.js"},
	}

	if err := c.renderer.Render(pageName, viewData, w); err != nil {
		slog.Error("error rendering gallery page", "error", err)
	}
}
