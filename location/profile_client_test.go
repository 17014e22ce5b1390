package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"plantcare.app/config"
)

func newProfileTestClient(t *testing.T, handler http.HandlerFunc) (*ProfileClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewProfileClient(&config.ProfileConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	return client, server
}

func TestFetchProfile_EnvelopedShape(t *testing.T) {
	client, _ := newProfileTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/user@example.com", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"user": {
				"email": "user@example.com",
				"name": "Dana",
				"location": {"latitude": 32.08, "longitude": 34.78, "city": "Tel Aviv", "country": "Israel"}
			}
		}`))
	})

	profile, err := client.FetchProfile(context.Background(), "user@example.com")

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "user@example.com", profile.Email)
	require.NotNil(t, profile.Location)
	assert.Equal(t, 32.08, profile.Location.Latitude)
	assert.Equal(t, "Tel Aviv", profile.Location.City)
}

func TestFetchProfile_BareShape(t *testing.T) {
	client, _ := newProfileTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"email": "user@example.com",
			"location": {"latitude": 48.85, "longitude": 2.35}
		}`))
	})

	profile, err := client.FetchProfile(context.Background(), "user@example.com")

	require.NoError(t, err)
	require.NotNil(t, profile)
	require.NotNil(t, profile.Location)
	assert.Equal(t, 48.85, profile.Location.Latitude)
	assert.Equal(t, "Unknown", profile.Location.City)
	assert.Equal(t, "Unknown", profile.Location.Country)
}

func TestFetchProfile_FlattenedCoordinates(t *testing.T) {
	client, _ := newProfileTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"user": {"email": "user@example.com", "latitude": 51.5, "longitude": -0.12, "city": "London"}
		}`))
	})

	profile, err := client.FetchProfile(context.Background(), "user@example.com")

	require.NoError(t, err)
	require.NotNil(t, profile)
	require.NotNil(t, profile.Location)
	assert.Equal(t, 51.5, profile.Location.Latitude)
	assert.Equal(t, -0.12, profile.Location.Longitude)
	assert.Equal(t, "London", profile.Location.City)
}

func TestFetchProfile_MissingCoordinates(t *testing.T) {
	client, _ := newProfileTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user": {"email": "user@example.com", "name": "Dana"}}`))
	})

	profile, err := client.FetchProfile(context.Background(), "user@example.com")

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Nil(t, profile.Location)
}

func TestFetchProfile_OutOfRangeCoordinatesRejected(t *testing.T) {
	client, _ := newProfileTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user": {"email": "user@example.com", "location": {"latitude": 95.0, "longitude": 10.0}}}`))
	})

	profile, err := client.FetchProfile(context.Background(), "user@example.com")

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Nil(t, profile.Location)
}

func TestFetchProfile_NonOKStatusMeansNoProfile(t *testing.T) {
	client, _ := newProfileTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	profile, err := client.FetchProfile(context.Background(), "user@example.com")

	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestFetchProfile_MalformedBodyMeansNoProfile(t *testing.T) {
	client, _ := newProfileTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	})

	profile, err := client.FetchProfile(context.Background(), "user@example.com")

	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestFetchProfile_EmailFallsBackToRequested(t *testing.T) {
	client, _ := newProfileTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user": {"location": {"latitude": 1.0, "longitude": 2.0}}}`))
	})

	profile, err := client.FetchProfile(context.Background(), "user@example.com")

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "user@example.com", profile.Email)
}
