package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adampresley/catgallery/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) services.CatApiService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return services.NewCatApiService(services.CatApiServiceConfig{
		ApiKey:  "test-key",
		BaseURL: server.URL,
	})
}

func TestGetBreedsSendsApiKeyAndDecodes(t *testing.T) {
	var gotPath, gotKey string

	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"abys","name":"Abyssinian","origin":"Egypt","weight":{"metric":"3 - 5"}}]`))
	})

	breeds, err := service.GetBreeds(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/v1/breeds", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, breeds, 1)
	assert.Equal(t, "abys", breeds[0].ID)
	assert.Equal(t, "Abyssinian", breeds[0].Name)
	assert.Equal(t, "Egypt", breeds[0].Origin)
}

func TestSearchImagesWithoutBreedOmitsFilter(t *testing.T) {
	var gotQuery map[string][]string

	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/search", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"id":"a1","url":"https://cdn2.thecatapi.com/images/a1.jpg","width":500,"height":400}]`))
	})

	images, err := service.SearchImages(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"10"}, gotQuery["limit"])
	assert.NotContains(t, gotQuery, "breed_ids")
	require.Len(t, images, 1)
	assert.Equal(t, "https://cdn2.thecatapi.com/images/a1.jpg", images[0].URL)
}

func TestSearchImagesWithBreedAddsFilter(t *testing.T) {
	var gotBreed string

	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotBreed = r.URL.Query().Get("breed_ids")
		_, _ = w.Write([]byte(`[]`))
	})

	images, err := service.SearchImages(context.Background(), "abys")
	require.NoError(t, err)

	assert.Equal(t, "abys", gotBreed)
	assert.Empty(t, images)
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	_, err := service.GetBreeds(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrUnexpectedStatus))
}

func TestUndecodableBodyIsAnError(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"not an array"`))
	})

	_, err := service.SearchImages(context.Background(), "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, services.ErrUnexpectedStatus))
}

func TestEmptyBodyIsAnError(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusOK)
	})

	_, err := service.GetBreeds(context.Background())
	assert.Error(t, err)
}

func TestCanceledContextIsAnError(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.SearchImages(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNetworkFailureIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	service := services.NewCatApiService(services.CatApiServiceConfig{BaseURL: url})

	_, err := service.SearchImages(context.Background(), "")
	assert.Error(t, err)
}
