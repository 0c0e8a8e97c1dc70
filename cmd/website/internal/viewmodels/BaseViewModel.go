package viewmodels

import (
	"net/http"

	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/catgallery/pkg/models"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	JavascriptIncludes []rendering.JavascriptInclude
}

func GetViewerFromContext(r *http.Request) *models.Viewer {
	if result, ok := r.Context().Value(ViewerContextKey).(*models.Viewer); ok {
		return result
	}

	return &models.Viewer{}
}

type contextKey string

const ViewerContextKey contextKey = "viewer"
