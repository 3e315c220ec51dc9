// Package contracts declares the expected shape of pet representations and
// checks parsed responses against it.
package contracts

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// Contract is a named, immutable schema for one representation.
type Contract struct {
	Name        string
	Description string
	schema      *openapi3.Schema
}

// Schema exposes the underlying OpenAPI schema, e.g. for documentation output.
func (c *Contract) Schema() *openapi3.Schema {
	return c.schema
}

const (
	PetName                = "pet"
	PetNegativeControlName = "pet-negative-control"
)

var (
	// Pet is the contract GET /pet/{id} and POST /pet responses must satisfy.
	Pet = &Contract{
		Name:        PetName,
		Description: "pet representation returned by the petstore API",
		schema:      petSchema(true),
	}

	// PetNegativeControl is deliberately wrong: it does not declare id, so a
	// real pet response fails on an unexpected field. It proves mismatches are
	// detected and reported.
	PetNegativeControl = &Contract{
		Name:        PetNegativeControlName,
		Description: "pet contract without the id property, expected to reject real responses",
		schema:      petSchema(false),
	}
)

var registry = map[string]*Contract{
	PetName:                Pet,
	PetNegativeControlName: PetNegativeControl,
}

// ByName looks a contract up by its name.
func ByName(name string) (*Contract, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown contract %q (known: %v)", name, Names())
	}
	return c, nil
}

// Names lists the registered contract names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func petSchema(withID bool) *openapi3.Schema {
	idName := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewFloat64Schema()).
		WithProperty("name", openapi3.NewStringSchema())
	idName.Required = []string{"id", "name"}

	schema := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("photoUrls", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("tags", openapi3.NewArraySchema().WithItems(idName)).
		WithProperty("category", idName).
		WithProperty("status", openapi3.NewStringSchema())
	schema.Required = []string{"name", "status"}
	if withID {
		schema.WithProperty("id", openapi3.NewFloat64Schema())
		schema.Required = append([]string{"id"}, schema.Required...)
	}
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}
	return schema
}
