// Package petstorefake serves an in-process imitation of the public petstore
// API, including its known quirks, so scenarios can run without the network.
package petstorefake

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	apierrors "github.com/Apurer/petstore-contract-tests/internal/shared/errors"
)

const (
	DefaultBasePath    = "/v2"
	defaultServiceName = "petstore-fake"
	firstGeneratedID   = 9_000_000_000
)

// Server imitates the petstore pet endpoints.
type Server struct {
	store       *Store
	basePath    string
	deleteLag   time.Duration
	serviceName string
	logger      *slog.Logger
	nextID      atomic.Int64

	mu          sync.Mutex
	lastAPIKeys []string

	engine *gin.Engine
}

type Option func(*Server)

// WithDeleteLag makes freshly created pets undeletable (404) for d, which is
// how the live API behaves right after a create.
func WithDeleteLag(d time.Duration) Option {
	return func(s *Server) {
		s.deleteLag = d
	}
}

// WithClock overrides the store clock.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.store.WithClock(now)
	}
}

// WithBasePath mounts the routes under a different prefix.
func WithBasePath(path string) Option {
	return func(s *Server) {
		s.basePath = "/" + strings.Trim(path, "/")
		if s.basePath == "/" {
			s.basePath = ""
		}
	}
}

// WithLogger injects a slog logger for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithServiceName sets the service name reported by tracing middleware.
func WithServiceName(name string) Option {
	return func(s *Server) {
		s.serviceName = name
	}
}

// New builds the fake server and its gin router.
func New(opts ...Option) *Server {
	s := &Server{
		store:       NewStore(),
		basePath:    DefaultBasePath,
		serviceName: defaultServiceName,
	}
	s.nextID.Store(firstGeneratedID)
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.engine = s.newRouter()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// BasePath returns the prefix the routes are mounted under.
func (s *Server) BasePath() string {
	return s.basePath
}

// Seed stores pets directly, bypassing the delete lag.
func (s *Server) Seed(pets ...petstore.Pet) {
	for _, pet := range pets {
		s.store.Save(pet)
	}
}

// Reset drops every stored pet and recorded header.
func (s *Server) Reset() {
	s.store.Reset()
	s.mu.Lock()
	s.lastAPIKeys = nil
	s.mu.Unlock()
}

// Pet returns a stored pet.
func (s *Server) Pet(id int64) (petstore.Pet, bool) {
	return s.store.Get(id)
}

// Len returns the number of stored pets.
func (s *Server) Len() int {
	return s.store.Len()
}

// APIKeys returns the api_key header values received by delete requests.
func (s *Server) APIKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.lastAPIKeys...)
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(s.serviceName), s.requestLogger())
	group := router.Group(s.basePath)
	group.POST("/pet", s.addPet)
	group.GET("/pet/:petId", s.getPet)
	group.DELETE("/pet/:petId", s.deletePet)
	return router
}

// Post /pet
// Add a new pet to the store
func (s *Server) addPet(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadInput)
		return
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		apierrors.Respond(c, apierrors.ErrBadInput)
		return
	}
	if fields == nil {
		fields = map[string]any{}
	}
	id, ok := fields["id"]
	if !ok || id == nil {
		fields["id"] = s.nextID.Add(1)
	} else if n, isNumber := id.(float64); !isNumber || n != math.Trunc(n) {
		// The live API answers 500 here although it documents 405.
		apierrors.Respond(c, apierrors.ErrUnknown)
		return
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrUnknown)
		return
	}
	var pet petstore.Pet
	if err := json.Unmarshal(normalized, &pet); err != nil {
		apierrors.Respond(c, apierrors.ErrUnknown)
		return
	}
	c.JSON(http.StatusOK, s.store.Save(pet))
}

// Get /pet/:petId
// Find pet by ID
func (s *Server) getPet(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	pet, err := s.lookup(id)
	if err != nil {
		apierrors.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

func (s *Server) lookup(id int64) (petstore.Pet, error) {
	pet, found := s.store.Get(id)
	if !found {
		return petstore.Pet{}, fmt.Errorf("pet %d: %w", id, apierrors.ErrPetNotFound)
	}
	return pet, nil
}

// Delete /pet/:petId
// Deletes a pet
func (s *Server) deletePet(c *gin.Context) {
	s.mu.Lock()
	s.lastAPIKeys = append(s.lastAPIKeys, c.GetHeader(petstore.HeaderAPIKey))
	s.mu.Unlock()

	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if _, deleted := s.store.DeleteIfOlder(id, s.deleteLag); !deleted {
		c.Status(http.StatusNotFound)
		return
	}
	apierrors.Respond(c, apierrors.NewDeletedAck(id))
}

func parseIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("petId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		apierrors.Respond(c, apierrors.NewNumberFormatProblem(raw))
		return 0, false
	}
	return id, true
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if s.logger == nil {
			return
		}
		s.logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "petstore fake request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}
