package viewers

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/adampresley/catgallery/pkg/gallery"
	lru "github.com/hashicorp/golang-lru/v2"
)

type GalleryFactory func(viewerID string) *gallery.Gallery

type ViewerRegistrar interface {
	Get(viewerID string) *gallery.Gallery
	Len() int
	Unmount(viewerID string)
	UnmountAll()
}

type ViewerRegistryConfig struct {
	MaxViewers int
	NewGallery GalleryFactory
}

/*
ViewerRegistry keeps one mounted gallery per viewer. When the registry
is full the least recently used gallery is unmounted, which closes it.
*/
type ViewerRegistry struct {
	lock       sync.Mutex
	galleries  *lru.Cache[string, *gallery.Gallery]
	newGallery GalleryFactory
}

func NewViewerRegistry(config ViewerRegistryConfig) (*ViewerRegistry, error) {
	var (
		err   error
		cache *lru.Cache[string, *gallery.Gallery]
	)

	if config.MaxViewers <= 0 {
		config.MaxViewers = 100
	}

	onEvict := func(viewerID string, g *gallery.Gallery) {
		slog.Debug("unmounting viewer gallery", "viewerID", viewerID)
		go g.Close()
	}

	if cache, err = lru.NewWithEvict(config.MaxViewers, onEvict); err != nil {
		return nil, fmt.Errorf("error creating viewer cache: %w", err)
	}

	return &ViewerRegistry{
		galleries:  cache,
		newGallery: config.NewGallery,
	}, nil
}

/*
Get returns the viewer's gallery, mounting and initializing a new one
on the first visit.
*/
func (r *ViewerRegistry) Get(viewerID string) *gallery.Gallery {
	r.lock.Lock()
	defer r.lock.Unlock()

	if g, ok := r.galleries.Get(viewerID); ok {
		return g
	}

	slog.Info("mounting gallery for viewer", "viewerID", viewerID)

	g := r.newGallery(viewerID)
	r.galleries.Add(viewerID, g)
	g.Initialize()

	return g
}

func (r *ViewerRegistry) Len() int {
	return r.galleries.Len()
}

func (r *ViewerRegistry) Unmount(viewerID string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.galleries.Remove(viewerID)
}

func (r *ViewerRegistry) UnmountAll() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.galleries.Purge()
}
