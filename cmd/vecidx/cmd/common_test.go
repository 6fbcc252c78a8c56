package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmbeddingParsesCommaSeparatedFloats(t *testing.T) {
	vec, err := parseEmbedding("0.5, -1, 2.25")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 2.25}, vec)
}

func TestParseEmbeddingRejectsEmptyInput(t *testing.T) {
	_, err := parseEmbedding("")
	assert.Error(t, err)
}

func TestParseEmbeddingRejectsGarbageComponent(t *testing.T) {
	_, err := parseEmbedding("0.1,oops,0.3")
	assert.Error(t, err)
}

func TestParseKeyValuesBuildsMap(t *testing.T) {
	m, err := parseKeyValues([]string{"a=1", "b=2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, m)
}

func TestParseKeyValuesNilOnEmptyInput(t *testing.T) {
	m, err := parseKeyValues(nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestParseKeyValuesRejectsMissingEquals(t *testing.T) {
	_, err := parseKeyValues([]string{"not-a-pair"})
	assert.Error(t, err)
}
