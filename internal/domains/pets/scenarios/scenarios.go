// Package scenarios holds the pet contract scenarios. Each body is written
// against contracttest.T so it runs under `go test` and from the runner.
package scenarios

import (
	"context"
	"net/http"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	"github.com/Apurer/petstore-contract-tests/internal/contracttest"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/contracts"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/fixtures"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
)

const (
	GroupCreate = "CREATE"
	GroupGet    = "GET"
	GroupDelete = "DELETE"

	minRandomID   = 4000
	maxRandomID   = 50000
	healthyStatus = "Healthy"
)

// Env is everything a scenario needs besides its runner.
type Env struct {
	Ctx        context.Context
	Client     ports.PetClient
	Fixtures   fixtures.Set
	DeleteWait DeleteWait
	// NewPet builds the pet used by create scenarios. RandomPet when nil.
	NewPet func() petstore.Pet
}

func (e *Env) context() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

func (e *Env) newPet() petstore.Pet {
	if e.NewPet != nil {
		return e.NewPet()
	}
	return RandomPet()
}

// Scenario is a single contract check against the pet resource.
type Scenario struct {
	Group string
	Name  string
	// ExpectedFailure explains why the scenario is known to fail. A known
	// failure is reported but does not fail the run unless it is strict.
	ExpectedFailure string
	Run             func(t contracttest.T, env *Env)
}

// ID is the slash-separated path the harness filters on.
func (s Scenario) ID() string {
	return s.Group + "/" + s.Name
}

// RandomPet returns a healthy dog with an id unlikely to collide with
// fixtures or with other runs.
func RandomPet() petstore.Pet {
	return petstore.Pet{
		ID:        int64(gofakeit.IntRange(minRandomID, maxRandomID)),
		Category:  &petstore.Category{ID: 1, Name: "Dog"},
		Name:      gofakeit.Dog(),
		PhotoURLs: []string{},
		Tags:      []petstore.Tag{},
		Status:    healthyStatus,
	}
}

// All returns the scenarios in execution order.
func All() []Scenario {
	return []Scenario{
		{Group: GroupCreate, Name: "Create a new pet", Run: createPet},
		{
			Group:           GroupCreate,
			Name:            "Negative Case - Create an invalid ID",
			ExpectedFailure: "the API answers 500 instead of the documented 405 for a non-numeric id",
			Run:             createPetWithInvalidID,
		},
		{Group: GroupGet, Name: "Get an existing pet", Run: getExistingPet},
		{
			Group:           GroupGet,
			Name:            "Negative Case - Schema validation error",
			ExpectedFailure: "the negative-control contract omits id, so a real pet must be rejected",
			Run:             getPetAgainstNegativeControl,
		},
		{Group: GroupGet, Name: "Negative Case - Get a non-existent pet", Run: getMissingPet},
		{Group: GroupDelete, Name: "Create and delete a pet", Run: createAndDeletePet},
		{Group: GroupDelete, Name: "Delete a non-existent pet", Run: deleteMissingPet},
	}
}

// RunSuite runs every scenario as a child of c, one harness group per
// resource operation.
func RunSuite(c *contracttest.Context, env *Env) {
	all := All()
	var groups []string
	seen := map[string]bool{}
	for _, s := range all {
		if !seen[s.Group] {
			seen[s.Group] = true
			groups = append(groups, s.Group)
		}
	}
	for _, group := range groups {
		c.Run(group, func(c *contracttest.Context) {
			for _, s := range all {
				if s.Group != group {
					continue
				}
				var opts []contracttest.RunOption
				if s.ExpectedFailure != "" {
					opts = append(opts, contracttest.ExpectFailure(s.ExpectedFailure))
				}
				c.Run(s.Name, func(c *contracttest.Context) {
					s.Run(c, env)
				}, opts...)
			}
		}, contracttest.Group())
	}
}

func createPet(t contracttest.T, env *Env) {
	t.Helper()
	pet := env.newPet()

	resp, err := env.Client.CreatePet(env.context(), pet)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), "create pet: %s", resp.Body())

	var created petstore.Pet
	require.NoError(t, resp.JSON(&created))
	require.Equal(t, pet.ID, created.ID)
	require.Equal(t, pet.Name, created.Name)
	require.Equal(t, pet.Status, created.Status)
}

func createPetWithInvalidID(t contracttest.T, env *Env) {
	t.Helper()
	payload := invalidIDPayload()

	resp, err := env.Client.CreatePetWithInvalidData(env.context(), payload)
	require.NoError(t, err)
	t.Logf("create with invalid id answered %d: %s", resp.StatusCode(), resp.Body())
	if resp.StatusCode() == http.StatusInternalServerError {
		contracttest.ArmExpectedFailure(t)
	}
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode())
}

// invalidIDPayload is a complete pet record whose id is a string and which
// carries no name.
func invalidIDPayload() map[string]any {
	return map[string]any{
		"id":        "Test",
		"category":  map[string]any{"id": 1, "name": "Dog"},
		"photoUrls": []string{},
		"tags":      []any{},
		"status":    healthyStatus,
	}
}

func getExistingPet(t contracttest.T, env *Env) {
	t.Helper()
	existing := env.Fixtures.ExistingPet

	resp, err := env.Client.GetPet(env.context(), existing.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), "get pet %d: %s", existing.ID, resp.Body())

	result := contracts.ValidateJSON(contracts.Pet, resp.Body())
	if !result.Valid {
		t.Logf("schema validation failed: %s", result)
	}
	require.NoError(t, result.Err())
	require.Equal(t, existing.Name, resp.Field("name").String())
}

func getPetAgainstNegativeControl(t contracttest.T, env *Env) {
	t.Helper()
	existing := env.Fixtures.ExistingPet

	resp, err := env.Client.GetPet(env.context(), existing.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), "get pet %d: %s", existing.ID, resp.Body())

	result := contracts.ValidateJSON(contracts.PetNegativeControl, resp.Body())
	if !result.Valid {
		t.Logf("schema validation failed: %s", result)
	}
	if onlyUnexpectedID(result) {
		contracttest.ArmExpectedFailure(t)
	}
	require.NoError(t, result.Err())
}

// onlyUnexpectedID reports whether the negative-control contract rejected the
// pet for its id and nothing else.
func onlyUnexpectedID(result contracts.Result) bool {
	return len(result.Mismatches) == 1 &&
		result.Mismatches[0].Kind == contracts.KindUnexpectedField &&
		result.Mismatches[0].Path == "/id"
}

func getMissingPet(t contracttest.T, env *Env) {
	t.Helper()
	missing := env.Fixtures.NonExistentPet

	resp, err := env.Client.GetPet(env.context(), missing.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode(), "get pet %d: %s", missing.ID, resp.Body())
	require.Equal(t, "Pet not found", resp.Field("message").String())
}

func createAndDeletePet(t contracttest.T, env *Env) {
	t.Helper()
	pet := env.newPet()

	created, err := env.Client.CreatePet(env.context(), pet)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, created.StatusCode(), "create pet: %s", created.Body())

	resp, err := env.DeleteWait.Delete(env.context(), env.Client, pet.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), "delete pet %d: %s", pet.ID, resp.Body())
	require.Equal(t, strconv.FormatInt(pet.ID, 10), resp.Field("message").String())
}

func deleteMissingPet(t contracttest.T, env *Env) {
	t.Helper()
	missing := env.Fixtures.NonExistentPet

	resp, err := env.Client.DeletePet(env.context(), missing.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode())
	require.Equal(t, "Not Found", resp.StatusText())
}
