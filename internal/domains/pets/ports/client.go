package ports

import (
	"context"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
)

// PetClient defines the pet resource operations scenarios drive (outbound/driven port).
type PetClient interface {
	CreatePet(ctx context.Context, pet petstore.Pet) (*petstore.Response, error)
	CreatePetWithInvalidData(ctx context.Context, payload any) (*petstore.Response, error)
	GetPet(ctx context.Context, id int64) (*petstore.Response, error)
	DeletePet(ctx context.Context, id int64) (*petstore.Response, error)
	UpdatePet(ctx context.Context) (*petstore.Response, error)
	UploadPetImage(ctx context.Context) (*petstore.Response, error)
	FindPetsByStatus(ctx context.Context) (*petstore.Response, error)
}

var _ PetClient = (*petstore.Client)(nil)
