package post

import (
	"context"
	"errors"
	"testing"

	"github.com/bsky-cli/bsky/internal/media"
	"github.com/bsky-cli/bsky/internal/thread"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmbedNoEmbed(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	for _, rc := range []thread.ReplyContext{
		thread.NoParent{},
		thread.Reply{Target: thread.LocationInfo{PostInfo: testRef(2), ThreadRoot: testRef(1)}},
	} {
		sess := newFakeSession()
		embed, err := BuildEmbed(ctx, nil, rc, sess)
		assert.NoError(err)
		assert.Nil(embed)
		assert.Empty(sess.uploads)
	}
}

func TestBuildEmbedImages(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	items := []media.Item{pngItem("a.png"), pngItem("b.png"), pngItem("c.png")}
	for _, rc := range []thread.ReplyContext{
		thread.NoParent{},
		thread.Reply{Target: thread.LocationInfo{PostInfo: testRef(2), ThreadRoot: testRef(1)}},
	} {
		sess := newFakeSession()
		embed, err := BuildEmbed(ctx, items, rc, sess)
		require.NoError(err)
		require.NotNil(embed)
		require.NotNil(embed.EmbedImages)
		assert.Nil(embed.EmbedRecord)
		assert.Nil(embed.EmbedRecordWithMedia)

		// uploaded, and embedded, in input order
		require.Len(embed.EmbedImages.Images, 3)
		for i, it := range items {
			assert.Equal(string(it.Data), sess.uploads[i])
			img := embed.EmbedImages.Images[i]
			assert.Equal(blobCID(it.Data).String(), img.Image.Ref.String())
			assert.Equal("image/png", img.Image.MimeType)
			assert.Equal("", img.Alt)
		}
	}
}

func TestBuildEmbedQuote(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	quoted := testRef(7)
	sess := newFakeSession()
	embed, err := BuildEmbed(ctx, nil, thread.Quote{Target: quoted}, sess)
	require.NoError(err)
	require.NotNil(embed.EmbedRecord)
	assert.Nil(embed.EmbedImages)
	assert.Nil(embed.EmbedRecordWithMedia)
	assert.Equal(quoted.URI, embed.EmbedRecord.Record.Uri)
	assert.Equal(quoted.CID, embed.EmbedRecord.Record.Cid)
	assert.Empty(sess.uploads)

	embed, err = BuildEmbed(ctx, []media.Item{pngItem("a.png")}, thread.Quote{Target: quoted}, sess)
	require.NoError(err)
	require.NotNil(embed.EmbedRecordWithMedia)
	assert.Nil(embed.EmbedRecord)
	assert.Nil(embed.EmbedImages)
	rwm := embed.EmbedRecordWithMedia
	assert.Equal(quoted.URI, rwm.Record.Record.Uri)
	require.NotNil(rwm.Media.EmbedImages)
	assert.Len(rwm.Media.EmbedImages.Images, 1)
	assert.Len(sess.uploads, 1)
}

func TestBuildEmbedUploadFailure(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	sess := newFakeSession()
	sess.failAt = 1
	items := []media.Item{pngItem("a.png"), pngItem("b.png"), pngItem("c.png")}
	embed, err := BuildEmbed(ctx, items, thread.NoParent{}, sess)
	assert.Nil(embed)
	assert.ErrorIs(err, ErrUploadFailed)

	var ue *UploadError
	if assert.True(errors.As(err, &ue)) {
		assert.Equal(1, ue.Index)
		assert.Equal("b.png", ue.Source)
	}
	assert.Contains(err.Error(), "uploading image 2 (b.png)")
	// stops at the first failure
	assert.Len(sess.uploads, 2)
}

func TestBuildEmbedRejectsNonImage(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	sess := newFakeSession()
	items := []media.Item{
		pngItem("a.png"),
		{Data: []byte("%PDF-1.4"), MimeType: "application/pdf", Source: "doc.pdf"},
	}
	embed, err := BuildEmbed(ctx, items, thread.NoParent{}, sess)
	assert.Nil(embed)
	assert.ErrorIs(err, media.ErrInvalidMedia)
	assert.Empty(sess.uploads)
}

func TestBuildEmbedNilReply(t *testing.T) {
	sess := newFakeSession()
	_, err := BuildEmbed(context.Background(), nil, nil, sess)
	assert.ErrorIs(t, err, thread.ErrNoReplyContext)
}
