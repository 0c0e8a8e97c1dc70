package gallery

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/adampresley/catgallery/pkg/models"
	"github.com/adampresley/catgallery/pkg/services"
	"github.com/alitto/pond/v2"
)

const (
	BreedsErrorMessage = "Failed to load breeds"
	ImagesErrorMessage = "Failed to load cat images"
)

var (
	ErrGalleryClosed = errors.New("gallery closed")
)

/*
ViewState is everything the gallery page renders from. Images are in
display order, which is also the order responses arrived in.
*/
type ViewState struct {
	Images          []models.ImageRecord `json:"images"`
	Breeds          []models.Breed       `json:"breeds"`
	SelectedBreedID string               `json:"selectedBreedId"`
	IsImagesLoading bool                 `json:"isImagesLoading"`
	IsBreedsLoading bool                 `json:"isBreedsLoading"`
	LastError       string               `json:"lastError,omitempty"`
}

func (s ViewState) HasError() bool {
	return s.LastError != ""
}

type GalleryConfig struct {
	BreedService services.BreedDirectoryServicer
	ImageService services.ImageSearchServicer

	/*
	 * When true, an image response is only applied if it belongs to the
	 * most recently issued image request. Otherwise responses are applied
	 * in arrival order, even when a newer filter has been selected since.
	 */
	DiscardStaleResponses bool
	Logger                *slog.Logger
	MaxWorkers            int
	ShutdownCtx           context.Context
}

/*
Gallery holds the view state for one mounted gallery and runs its
fetches. All state changes happen under lock, in the order fetches
settle.
*/
type Gallery struct {
	breedService services.BreedDirectoryServicer
	imageService services.ImageSearchServicer
	discardStale bool
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	pool   pond.Pool

	lock            sync.Mutex
	state           ViewState
	imageGeneration uint64
	inflight        int
	settled         chan struct{}
	closed          bool
}

func NewGallery(config GalleryConfig) *Gallery {
	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	// breeds and images must be able to run side by side
	if config.MaxWorkers < 2 {
		config.MaxWorkers = 2
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(config.ShutdownCtx)

	settled := make(chan struct{})
	close(settled)

	return &Gallery{
		breedService: config.BreedService,
		imageService: config.ImageService,
		discardStale: config.DiscardStaleResponses,
		logger:       config.Logger,
		ctx:          ctx,
		cancel:       cancel,
		pool:         pond.NewPool(config.MaxWorkers, pond.WithContext(ctx)),
		state: ViewState{
			Images: []models.ImageRecord{},
			Breeds: []models.Breed{},
		},
		settled: settled,
	}
}

/*
Initialize starts the breed directory fetch and the first unfiltered
image fetch. Neither waits on the other.
*/
func (g *Gallery) Initialize() {
	g.FetchBreeds()
	g.FetchImages(false, "")
}

func (g *Gallery) FetchBreeds() pond.Task {
	g.lock.Lock()
	defer g.lock.Unlock()

	if g.closed {
		return g.rejected()
	}

	g.state.IsBreedsLoading = true

	return g.submitLocked(func() {
		breeds, err := g.breedService.GetBreeds(g.ctx)

		g.lock.Lock()
		defer g.lock.Unlock()

		g.state.IsBreedsLoading = false

		if err != nil {
			g.logger.Error("error fetching breeds", "error", err)
			g.state.LastError = BreedsErrorMessage
			return
		}

		g.state.Breeds = breeds
	})
}

/*
FetchImages requests one page of images, filtered by breedID when it
is not empty. When appendResults is true the page is added to the end
of the current images, otherwise it replaces them.
*/
func (g *Gallery) FetchImages(appendResults bool, breedID string) pond.Task {
	g.lock.Lock()
	defer g.lock.Unlock()

	if g.closed {
		return g.rejected()
	}

	return g.submitLocked(g.imageFetcher(appendResults, breedID, g.beginImageFetch()))
}

/*
OnBreedSelectionChange always replaces the image list, even when the
same breed is selected again.
*/
func (g *Gallery) OnBreedSelectionChange(breedID string) pond.Task {
	g.lock.Lock()
	defer g.lock.Unlock()

	if g.closed {
		return g.rejected()
	}

	g.state.SelectedBreedID = breedID
	return g.submitLocked(g.imageFetcher(false, breedID, g.beginImageFetch()))
}

/*
OnLoadMore appends the next page for the current filter. It does
nothing while an image fetch is in flight, and reports whether a
request was issued.
*/
func (g *Gallery) OnLoadMore() (pond.Task, bool) {
	g.lock.Lock()
	defer g.lock.Unlock()

	if g.closed || g.state.IsImagesLoading {
		return nil, false
	}

	breedID := g.state.SelectedBreedID
	return g.submitLocked(g.imageFetcher(true, breedID, g.beginImageFetch())), true
}

/*
State returns a copy of the current view state.
*/
func (g *Gallery) State() ViewState {
	g.lock.Lock()
	defer g.lock.Unlock()

	result := g.state
	result.Images = slices.Clone(g.state.Images)
	result.Breeds = slices.Clone(g.state.Breeds)

	if result.Images == nil {
		result.Images = []models.ImageRecord{}
	}

	if result.Breeds == nil {
		result.Breeds = []models.Breed{}
	}

	return result
}

/*
Wait blocks until no fetch is in flight, ctx is done, or the gallery
is closed.
*/
func (g *Gallery) Wait(ctx context.Context) error {
	g.lock.Lock()
	settled := g.settled
	g.lock.Unlock()

	select {
	case <-settled:
		return nil

	case <-ctx.Done():
		return ctx.Err()

	case <-g.ctx.Done():
		return ErrGalleryClosed
	}
}

/*
Close cancels in-flight fetches and stops the worker pool. Fetches
requested afterwards are rejected without touching the view state.
*/
func (g *Gallery) Close() {
	g.lock.Lock()

	if g.closed {
		g.lock.Unlock()
		return
	}

	g.closed = true
	g.lock.Unlock()

	g.cancel()
	_ = g.pool.Stop().Wait()
}

// must hold lock
func (g *Gallery) beginImageFetch() uint64 {
	g.state.IsImagesLoading = true
	g.imageGeneration++
	return g.imageGeneration
}

func (g *Gallery) imageFetcher(appendResults bool, breedID string, generation uint64) func() {
	return func() {
		images, err := g.imageService.SearchImages(g.ctx, breedID)

		g.lock.Lock()
		defer g.lock.Unlock()

		if g.discardStale && generation != g.imageGeneration {
			g.logger.Debug("discarding stale image response", "breedID", breedID, "generation", generation, "latest", g.imageGeneration)
			return
		}

		g.state.IsImagesLoading = false

		if err != nil {
			g.logger.Error("error fetching cat images", "breedID", breedID, "append", appendResults, "error", err)
			g.state.LastError = ImagesErrorMessage
			return
		}

		if appendResults {
			g.state.Images = append(g.state.Images, images...)
			return
		}

		g.state.Images = images
	}
}

// must hold lock, so Close cannot stop the pool between the closed check and Submit
func (g *Gallery) submitLocked(work func()) pond.Task {
	if g.inflight == 0 {
		g.settled = make(chan struct{})
	}

	g.inflight++

	return g.pool.Submit(func() {
		defer g.settle()
		work()
	})
}

// a task that never runs; the stopped pool reports it as failed
func (g *Gallery) rejected() pond.Task {
	return g.pool.Submit(func() {})
}

func (g *Gallery) settle() {
	g.lock.Lock()
	defer g.lock.Unlock()

	g.inflight--

	if g.inflight == 0 {
		close(g.settled)
	}
}
