package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adampresley/catgallery/pkg/models"
)

const (
	DefaultCatApiBaseURL = "https://api.thecatapi.com"
	ImagePageSize        = 10

	apiKeyHeader = "x-api-key"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status from cat api")
)

type BreedDirectoryServicer interface {
	GetBreeds(ctx context.Context) ([]models.Breed, error)
}

type ImageSearchServicer interface {
	SearchImages(ctx context.Context, breedID string) ([]models.ImageRecord, error)
}

type CatApiServiceConfig struct {
	ApiKey     string
	BaseURL    string
	HttpClient *http.Client
	Timeout    time.Duration
}

type CatApiService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewCatApiService(config CatApiServiceConfig) CatApiService {
	if config.BaseURL == "" {
		config.BaseURL = DefaultCatApiBaseURL
	}

	if config.HttpClient == nil {
		config.HttpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	return CatApiService{
		apiKey:     config.ApiKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: config.HttpClient,
	}
}

/*
GetBreeds retrieves the full breed directory. GET /v1/breeds
*/
func (s CatApiService) GetBreeds(ctx context.Context) ([]models.Breed, error) {
	var (
		err    error
		result []models.Breed
	)

	if err = s.get(ctx, "/v1/breeds", nil, &result); err != nil {
		return nil, fmt.Errorf("error retrieving breeds: %w", err)
	}

	return result, nil
}

/*
SearchImages retrieves one page of images. An empty breedID means
no breed filter. GET /v1/images/search?limit=10[&breed_ids=<id>]
*/
func (s CatApiService) SearchImages(ctx context.Context, breedID string) ([]models.ImageRecord, error) {
	var (
		err    error
		result []models.ImageRecord
	)

	query := url.Values{}
	query.Set("limit", strconv.Itoa(ImagePageSize))

	if breedID != "" {
		query.Set("breed_ids", breedID)
	}

	if err = s.get(ctx, "/v1/images/search", query, &result); err != nil {
		return nil, fmt.Errorf("error searching images for breed '%s': %w", breedID, err)
	}

	return result, nil
}

func (s CatApiService) get(ctx context.Context, path string, query url.Values, dest any) error {
	var (
		err      error
		request  *http.Request
		response *http.Response
	)

	u := s.baseURL + path

	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if request, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil); err != nil {
		return fmt.Errorf("error building request for '%s': %w", u, err)
	}

	request.Header.Set(apiKeyHeader, s.apiKey)
	request.Header.Set("Accept", "application/json")

	if response, err = s.httpClient.Do(request); err != nil {
		return fmt.Errorf("error calling '%s': %w", u, err)
	}

	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, response.Body)
		return fmt.Errorf("%w: '%s' returned %s", ErrUnexpectedStatus, u, response.Status)
	}

	if err = json.NewDecoder(response.Body).Decode(dest); err != nil {
		return fmt.Errorf("error decoding response from '%s': %w", u, err)
	}

	return nil
}
