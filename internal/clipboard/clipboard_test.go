package clipboard

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses unix commands")
	}
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	r := Reader{Commands: [][]string{
		{"bsky-cli-no-such-command"},
		{},
		{"printf", "%s", "/tmp/cat.png"},
	}}
	out, err := r.Read(ctx)
	require.NoError(err)
	assert.Equal("/tmp/cat.png", string(out))

	_, err = Reader{Commands: [][]string{{"true"}}}.Read(ctx)
	assert.ErrorContains(err, "empty")

	_, err = Reader{Commands: [][]string{{"false"}}}.Read(ctx)
	assert.Error(err)
}

func TestUnsupported(t *testing.T) {
	_, err := Reader{}.Read(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Reader{Commands: [][]string{{"bsky-cli-no-such-command"}}}.Read(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}
