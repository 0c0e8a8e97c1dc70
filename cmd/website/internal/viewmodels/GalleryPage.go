package viewmodels

import (
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/catgallery/pkg/gallery"
	"github.com/adampresley/catgallery/pkg/models"
)

const (
	AllBreedsLabel = "All Breeds"
	LoadMoreLabel  = "Load More"
	LoadingLabel   = "Loading..."
)

type GalleryPage struct {
	BaseViewModel

	BreedOptions     []BreedOption
	IsBreedsLoading  bool
	Images           []GalleryImage
	HasImages        bool
	LoadMoreLabel    string
	LoadMoreDisabled bool
}

type BreedOption struct {
	Value    string
	Label    string
	Selected bool
}

type GalleryImage struct {
	URL string
	Alt string
}

/*
NewGalleryPage builds the page purely from a gallery snapshot.
*/
func NewGalleryPage(state gallery.ViewState) GalleryPage {
	result := GalleryPage{
		BaseViewModel: BaseViewModel{
			Message: state.LastError,
			IsError: state.HasError(),
		},
		BreedOptions: []BreedOption{
			{Value: "", Label: AllBreedsLabel, Selected: state.SelectedBreedID == ""},
		},
		IsBreedsLoading:  state.IsBreedsLoading,
		LoadMoreLabel:    LoadMoreLabel,
		LoadMoreDisabled: state.IsImagesLoading,
	}

	result.BreedOptions = append(result.BreedOptions, slices.Map(state.Breeds, func(input models.Breed, index int) BreedOption {
		return BreedOption{
			Value:    input.ID,
			Label:    input.Name,
			Selected: input.ID == state.SelectedBreedID,
		}
	})...)

	result.Images = slices.Map(state.Images, func(input models.ImageRecord, index int) GalleryImage {
		return GalleryImage{
			URL: input.URL,
			Alt: "cat",
		}
	})

	result.HasImages = len(result.Images) > 0

	if state.IsImagesLoading {
		result.LoadMoreLabel = LoadingLabel
	}

	return result
}
