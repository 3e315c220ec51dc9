package petstorefake

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAddPet_EchoesStoredPet(t *testing.T) {
	s := New()

	rec := serve(t, s, http.MethodPost, "/v2/pet", `{"id": 4100, "name": "Akita", "photoUrls": [], "tags": [], "status": "Healthy", "category": {"id": 1, "name": "Dog"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id": 4100, "category": {"id": 1, "name": "Dog"}, "name": "Akita", "photoUrls": [], "tags": [], "status": "Healthy"}`, rec.Body.String())
	pet, ok := s.Pet(4100)
	require.True(t, ok)
	require.Equal(t, "Akita", pet.Name)
}

func TestAddPet_NonNumericIDIsA500(t *testing.T) {
	s := New()

	rec := serve(t, s, http.MethodPost, "/v2/pet", `{"id": "Test", "status": "Healthy"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"code": 500, "type": "unknown", "message": "something bad happened"}`, rec.Body.String())
	require.Zero(t, s.Len())
}

func TestAddPet_MissingIDIsGenerated(t *testing.T) {
	s := New()

	rec := serve(t, s, http.MethodPost, "/v2/pet", `{"name": "Akita", "status": "Healthy"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, s.Len())
	require.Greater(t, s.store.List()[0].ID, int64(firstGeneratedID))
}

func TestAddPet_MalformedBody(t *testing.T) {
	s := New()

	rec := serve(t, s, http.MethodPost, "/v2/pet", `{"id":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPet(t *testing.T) {
	s := New()
	s.Seed(petstore.Pet{ID: 1, Name: "doggie", Status: "available"})

	rec := serve(t, s, http.MethodGet, "/v2/pet/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id": 1, "name": "doggie", "photoUrls": [], "tags": [], "status": "available"}`, rec.Body.String())

	rec = serve(t, s, http.MethodGet, "/v2/pet/2", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"code": 1, "type": "error", "message": "Pet not found"}`, rec.Body.String())

	rec = serve(t, s, http.MethodGet, "/v2/pet/abc", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NumberFormatException")
}

func TestDeletePet_HonoursDeleteLag(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithDeleteLag(5*time.Second), WithClock(func() time.Time { return now }))

	rec := serve(t, s, http.MethodPost, "/v2/pet", `{"id": 4200, "name": "Corgi", "status": "Healthy"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, s, http.MethodDelete, "/v2/pet/4200", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, 1, s.Len())

	now = now.Add(6 * time.Second)
	rec = serve(t, s, http.MethodDelete, "/v2/pet/4200", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"code": 200, "type": "unknown", "message": "4200"}`, rec.Body.String())
	require.Zero(t, s.Len())
}

func TestDeletePet_MissingIsA404WithEmptyBody(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodDelete, "/v2/pet/77", nil)
	req.Header.Set(petstore.HeaderAPIKey, "special-key")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Equal(t, []string{"special-key"}, s.APIKeys())
}

func TestWithBasePath(t *testing.T) {
	s := New(WithBasePath("/"))
	s.Seed(petstore.Pet{ID: 3, Name: "Rex", Status: "sold"})

	require.Equal(t, "", s.BasePath())
	rec := serve(t, s, http.MethodGet, "/pet/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReset(t *testing.T) {
	s := New()
	s.Seed(petstore.Pet{ID: 3, Name: "Rex", Status: "sold"})
	serve(t, s, http.MethodDelete, "/v2/pet/3", "")

	s.Reset()

	require.Zero(t, s.Len())
	require.Empty(t, s.APIKeys())
}
