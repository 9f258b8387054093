package syntax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseATURI(t *testing.T) {
	assert := assert.New(t)

	valid := []string{
		"at://did:plc:ewvi7nxzyoun6zhxrhs64oiz/app.bsky.feed.post/3jwdwj2ctlk26",
		"at://alice.bsky.social/app.bsky.feed.post/3jwdwj2ctlk26",
		"at://alice.bsky.social/app.bsky.feed.post",
		"at://did:web:example.com",
	}
	for _, raw := range valid {
		_, err := ParseATURI(raw)
		assert.NoError(err, raw)
	}

	invalid := []string{
		"",
		"at://x/1",
		"https://bsky.app/profile/alice.bsky.social",
		"at://alice.bsky.social/app.bsky.feed.post/3jwdwj2ctlk26?q=1",
		"at://alice.bsky.social/not_an_nsid/abc",
		"at://alice.bsky.social/app.bsky.feed.post/..",
	}
	for _, raw := range invalid {
		_, err := ParseATURI(raw)
		assert.Error(err, raw)
	}
}

func TestATURIParts(t *testing.T) {
	assert := assert.New(t)

	u, err := ParseATURI("at://did:plc:ewvi7nxzyoun6zhxrhs64oiz/app.bsky.feed.post/3jwdwj2ctlk26")
	assert.NoError(err)
	assert.Equal(AtIdentifier("did:plc:ewvi7nxzyoun6zhxrhs64oiz"), u.Authority())
	assert.True(u.Authority().IsDID())
	assert.Equal(NSID("app.bsky.feed.post"), u.Collection())
	assert.Equal(RecordKey("3jwdwj2ctlk26"), u.RecordKey())

	bare, err := ParseATURI("at://alice.bsky.social")
	assert.NoError(err)
	assert.Equal(NSID(""), bare.Collection())
	assert.Equal(RecordKey(""), bare.RecordKey())
}

func TestParseCID(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseCID("bafyreidfayvfuwqa7qlnopdjiqrxzs6blmoeu4rujcjtnci5beludirz2a")
	assert.NoError(err)

	for _, raw := range []string{"", "c1", "QmbWqxBEKC3P8tqsKc98xmWNzrzDtRLMiMPL8wBuTGsMnR", "bafy reid fay"} {
		_, err := ParseCID(raw)
		assert.Error(err, raw)
	}
}

func TestDatetime(t *testing.T) {
	assert := assert.New(t)

	ts := time.Date(2024, 3, 9, 17, 4, 5, 123000000, time.FixedZone("EST", -5*60*60))
	dt := DatetimeFromTime(ts)
	assert.Equal(Datetime("2024-03-09T22:04:05.123Z"), dt)

	_, err := ParseDatetime(dt.String())
	assert.NoError(err)
	parsed, err := time.Parse(time.RFC3339Nano, dt.String())
	assert.NoError(err)
	assert.True(ts.Equal(parsed))

	for _, raw := range []string{"", "2024-03-09", "2024-03-09T22:04:05", "2024-03-09T22:04:05-00:00", "2024-13-45T22:04:05Z"} {
		_, err := ParseDatetime(raw)
		assert.Error(err, raw)
	}
}

func TestParseIdentifiers(t *testing.T) {
	assert := assert.New(t)

	id, err := ParseAtIdentifier("Alice.bsky.social")
	assert.NoError(err)
	assert.False(id.IsDID())
	assert.Equal(Handle("alice.bsky.social"), Handle(id).Normalize())

	id, err = ParseAtIdentifier("did:plc:ewvi7nxzyoun6zhxrhs64oiz")
	assert.NoError(err)
	assert.True(id.IsDID())

	_, err = ParseAtIdentifier("")
	assert.Error(err)
	_, err = ParseAtIdentifier("did:plc:")
	assert.Error(err)
	_, err = ParseAtIdentifier("nodots")
	assert.Error(err)

	_, err = ParseNSID("app.bsky.feed.post")
	assert.NoError(err)
	_, err = ParseNSID("post")
	assert.Error(err)

	_, err = ParseRecordKey("self")
	assert.NoError(err)
	_, err = ParseRecordKey("..")
	assert.Error(err)
}

func TestParseLanguage(t *testing.T) {
	assert := assert.New(t)

	for _, raw := range []string{"en", "pt-BR", "ja", "zh-Hant-TW", "i-default"} {
		_, err := ParseLanguage(raw)
		assert.NoError(err, raw)
	}
	for _, raw := range []string{"", "EN", "english!", "x"} {
		_, err := ParseLanguage(raw)
		assert.Error(err, raw)
	}
}
