package viewers_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/adampresley/catgallery/cmd/website/internal/viewers"
	"github.com/adampresley/catgallery/pkg/gallery"
	"github.com/adampresley/catgallery/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingApi struct {
	lock        sync.Mutex
	breedCalls  int
	searchCalls int
}

func (c *countingApi) GetBreeds(ctx context.Context) ([]models.Breed, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.breedCalls++
	return []models.Breed{{ID: "abys", Name: "Abyssinian"}}, nil
}

func (c *countingApi) SearchImages(ctx context.Context, breedID string) ([]models.ImageRecord, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.searchCalls++
	return []models.ImageRecord{{URL: "https://cdn2.thecatapi.com/images/x.jpg"}}, nil
}

func newRegistry(t *testing.T, api *countingApi, max int) *viewers.ViewerRegistry {
	t.Helper()

	registry, err := viewers.NewViewerRegistry(viewers.ViewerRegistryConfig{
		MaxViewers: max,
		NewGallery: func(viewerID string) *gallery.Gallery {
			return gallery.NewGallery(gallery.GalleryConfig{
				BreedService: api,
				ImageService: api,
			})
		},
	})

	require.NoError(t, err)
	t.Cleanup(registry.UnmountAll)

	return registry
}

func TestFirstVisitMountsAndInitializes(t *testing.T) {
	api := &countingApi{}
	registry := newRegistry(t, api, 10)

	g := registry.Get("viewer-1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, g.Wait(ctx))

	state := g.State()
	assert.Len(t, state.Breeds, 1)
	assert.Len(t, state.Images, 1)

	assert.Same(t, g, registry.Get("viewer-1"))

	api.lock.Lock()
	defer api.lock.Unlock()
	assert.Equal(t, 1, api.breedCalls)
	assert.Equal(t, 1, api.searchCalls)
}

func TestViewersGetSeparateGalleries(t *testing.T) {
	registry := newRegistry(t, &countingApi{}, 10)

	assert.NotSame(t, registry.Get("a"), registry.Get("b"))
	assert.Equal(t, 2, registry.Len())
}

func TestLeastRecentViewerIsUnmounted(t *testing.T) {
	registry := newRegistry(t, &countingApi{}, 2)

	first := registry.Get("a")
	registry.Get("b")
	registry.Get("c")

	assert.Equal(t, 2, registry.Len())
	assert.NotSame(t, first, registry.Get("a"))
}

func TestUnmountRemovesViewer(t *testing.T) {
	registry := newRegistry(t, &countingApi{}, 2)

	registry.Get("a")
	registry.Unmount("a")

	assert.Equal(t, 0, registry.Len())
}
