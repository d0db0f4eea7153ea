package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories(t *testing.T) {
	cats, err := parseCategories(" 1:Tubos, 2: Perfiles ,")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, 1, cats[0].ID)
	assert.Equal(t, "Tubos", cats[0].Name)
	assert.Equal(t, "Perfiles", cats[1].Name)

	cats, err = parseCategories("")
	require.NoError(t, err)
	assert.Empty(t, cats)

	_, err = parseCategories("Tubos")
	assert.Error(t, err)
	_, err = parseCategories("0:Nada")
	assert.Error(t, err)
}
