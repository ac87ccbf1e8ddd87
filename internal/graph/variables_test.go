package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariablesNumbers(t *testing.T) {
	vars := Variables{"id": float64(7), "postId": "12", "big": json.Number("3"), "frac": 1.5}

	id, err := vars.ID("id")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	postID, err := vars.ID("postId")
	require.NoError(t, err)
	assert.Equal(t, uint(12), postID)

	big, err := vars.OptInt("big")
	require.NoError(t, err)
	assert.Equal(t, 3, *big)

	_, err = vars.ID("frac")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = vars.ID("missing")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestVariablesPage(t *testing.T) {
	page, err := Variables{"limit": float64(2), "offset": float64(4)}.Page()
	require.NoError(t, err)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 4, page.Offset)

	_, err = Variables{"limit": float64(-1)}.Page()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestVariablesStrings(t *testing.T) {
	vars := Variables{"content": "hi", "n": float64(1)}

	s, err := vars.String("content")
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = vars.String("n")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	opt, err := vars.OptString("nothing")
	require.NoError(t, err)
	assert.Nil(t, opt)
}
