package main

import (
	"testing"

	"github.com/bsky-cli/bsky/internal/state"
	"github.com/bsky-cli/bsky/internal/thread"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalLangs(t *testing.T) {
	assert := assert.New(t)

	langs, err := canonicalLangs([]string{"EN-us", "ja, de"})
	assert.NoError(err)
	assert.Equal([]string{"en-US", "ja", "de"}, langs)

	langs, err = canonicalLangs(nil)
	assert.NoError(err)
	assert.Empty(langs)

	_, err = canonicalLangs([]string{"not a language"})
	assert.Error(err)
}

func TestRequireHistory(t *testing.T) {
	require := require.New(t)

	_, err := requireHistory(&state.File{})
	require.ErrorIs(err, state.ErrNoHistory)

	loc := thread.LocationInfo{
		PostInfo:   thread.PostRef{URI: "at://x/2", CID: "c2"},
		ThreadRoot: thread.PostRef{URI: "at://x/1", CID: "c1"},
	}
	got, err := requireHistory(&state.File{History: &loc})
	require.NoError(err)
	require.Equal(loc, got)
}
