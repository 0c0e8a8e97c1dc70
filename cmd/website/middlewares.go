package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/catgallery/cmd/website/internal/viewmodels"
	"github.com/adampresley/catgallery/pkg/models"
	"github.com/google/uuid"
)

/*
newViewerMiddleware makes sure every browser has a viewer ID in its
session. The ID decides which mounted gallery the request talks to.
*/
func newViewerMiddleware(sessionService sessions.Session[*models.Viewer], excludedPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				err    error
				viewer *models.Viewer
			)

			path := r.URL.Path

			for _, excludedPath := range excludedPaths {
				if strings.HasPrefix(path, excludedPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if viewer, err = sessionService.Get(r); err != nil || viewer == nil || viewer.ID == "" {
				viewer = &models.Viewer{ID: uuid.NewString()}

				if err = sessionService.Set(r, viewer); err != nil {
					slog.Error("error setting viewer session", "error", err)
				}

				if err = sessionService.Save(w, r); err != nil {
					slog.Error("error saving viewer session", "error", err)
				}

				slog.Debug("new viewer", "viewerID", viewer.ID)
			}

			ctx := context.WithValue(r.Context(), viewmodels.ViewerContextKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
