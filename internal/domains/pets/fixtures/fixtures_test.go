package fixtures

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)
	require.Equal(t, int64(1), set.ExistingPet.ID)
	require.Equal(t, "doggie", set.ExistingPet.Name)
	require.Equal(t, int64(25875), set.NonExistentPet.ID)
}

func TestLoadDir_EmptyFallsBackToEmbedded(t *testing.T) {
	set, err := LoadDir("  ")
	require.NoError(t, err)
	require.Equal(t, "doggie", set.ExistingPet.Name)
}

func TestLoad_CustomFiles(t *testing.T) {
	fsys := fstest.MapFS{
		ExistingPetFile:    {Data: []byte(`{"id": 7, "name": "Luna"}`)},
		NonExistentPetFile: {Data: []byte(`{"id": 99999}`)},
	}

	set, err := Load(fsys)
	require.NoError(t, err)
	require.Equal(t, ExistingPet{ID: 7, Name: "Luna"}, set.ExistingPet)
	require.Equal(t, NonExistentPet{ID: 99999}, set.NonExistentPet)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"missing file": {
			ExistingPetFile: {Data: []byte(`{"id": 7, "name": "Luna"}`)},
		},
		"malformed json": {
			ExistingPetFile:    {Data: []byte(`{"id": 7,`)},
			NonExistentPetFile: {Data: []byte(`{"id": 99999}`)},
		},
		"missing name": {
			ExistingPetFile:    {Data: []byte(`{"id": 7}`)},
			NonExistentPetFile: {Data: []byte(`{"id": 99999}`)},
		},
		"shared id": {
			ExistingPetFile:    {Data: []byte(`{"id": 7, "name": "Luna"}`)},
			NonExistentPetFile: {Data: []byte(`{"id": 7}`)},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(fsys)
			require.Error(t, err)
		})
	}
}
