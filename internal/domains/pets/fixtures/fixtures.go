// Package fixtures loads the read-only pet records scenarios depend on.
package fixtures

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	ExistingPetFile    = "existingPet.json"
	NonExistentPetFile = "nonExistentPet.json"
)

//go:embed data/*.json
var embedded embed.FS

// ExistingPet is a pet the target API is expected to already hold.
type ExistingPet struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NonExistentPet is an identifier the target API is expected not to know.
type NonExistentPet struct {
	ID int64 `json:"id"`
}

// Set bundles every fixture a suite run needs.
type Set struct {
	ExistingPet    ExistingPet
	NonExistentPet NonExistentPet
}

// Default returns the fixtures compiled into the binary.
func Default() (Set, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return Set{}, err
	}
	return Load(sub)
}

// LoadDir reads fixtures from dir, falling back to the embedded set when dir
// is empty.
func LoadDir(dir string) (Set, error) {
	if strings.TrimSpace(dir) == "" {
		return Default()
	}
	return Load(os.DirFS(dir))
}

// Load reads both fixture files from fsys.
func Load(fsys fs.FS) (Set, error) {
	var set Set
	if err := readJSON(fsys, ExistingPetFile, &set.ExistingPet); err != nil {
		return Set{}, err
	}
	if err := readJSON(fsys, NonExistentPetFile, &set.NonExistentPet); err != nil {
		return Set{}, err
	}
	if set.ExistingPet.ID == 0 || strings.TrimSpace(set.ExistingPet.Name) == "" {
		return Set{}, fmt.Errorf("%s: id and name are required", ExistingPetFile)
	}
	if set.NonExistentPet.ID == 0 {
		return Set{}, fmt.Errorf("%s: id is required", NonExistentPetFile)
	}
	if set.ExistingPet.ID == set.NonExistentPet.ID {
		return Set{}, errors.New("existing and non-existent pet fixtures share an id")
	}
	return set, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}
