// Package session is an authenticated XRPC connection to the account's PDS, used to upload image blobs and create post records.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	comatproto "github.com/bsky-cli/bsky/api/atproto"
	"github.com/bsky-cli/bsky/api/bsky"
	"github.com/bsky-cli/bsky/atproto/syntax"
	"github.com/bsky-cli/bsky/internal/thread"
	lexutil "github.com/bsky-cli/bsky/lex/util"
	"github.com/bsky-cli/bsky/xrpc"
)

// DefaultHost is the PDS entryway used when none is configured.
const DefaultHost = "https://bsky.social"

const postCollection = "app.bsky.feed.post"

// ErrAuthFailed is returned when the server rejects the login credentials.
var ErrAuthFailed = errors.New("authentication failed")

type Config struct {
	// Host is the PDS (or entryway) URL, with scheme and no path. Defaults to DefaultHost.
	Host string
	// Optional; defaults to "bsky-cli/<version>"
	UserAgent  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Session struct {
	client *xrpc.Client
	did    syntax.DID
	handle syntax.Handle
	logger *slog.Logger
}

// AuthError wraps a rejected login. It matches ErrAuthFailed.
type AuthError struct {
	Identifier string
	Err        error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("logging in as %s: %v", e.Identifier, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuthFailed
}

func isAuthError(err error) bool {
	var xe *xrpc.Error
	if !errors.As(err, &xe) {
		return false
	}
	if xe.StatusCode == http.StatusUnauthorized {
		return true
	}
	var body *xrpc.XRPCError
	if errors.As(xe, &body) {
		switch body.ErrStr {
		case "AuthenticationRequired", "AuthFactorTokenRequired", "AccountTakedown":
			return true
		}
	}
	return false
}

func newClient(cfg Config) *xrpc.Client {
	host := strings.TrimSuffix(cfg.Host, "/")
	if host == "" {
		host = DefaultHost
	}
	c := &xrpc.Client{
		Client: cfg.HTTPClient,
		Host:   host,
	}
	if cfg.UserAgent != "" {
		ua := cfg.UserAgent
		c.UserAgent = &ua
	}
	return c
}

// Login creates a new session with createSession. The identifier can be a handle, DID or email address.
func Login(ctx context.Context, cfg Config, identifier, password string) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "session")

	client := newClient(cfg)
	out, err := comatproto.ServerCreateSession(ctx, client, &comatproto.ServerCreateSession_Input{
		Identifier: identifier,
		Password:   password,
	})
	if err != nil {
		if isAuthError(err) {
			return nil, &AuthError{Identifier: identifier, Err: err}
		}
		return nil, fmt.Errorf("creating session on %s: %w", client.Host, err)
	}

	did, err := syntax.ParseDID(out.Did)
	if err != nil {
		return nil, fmt.Errorf("invalid DID in session response: %w", err)
	}
	// servers return "handle.invalid" for accounts with a broken handle; keep going without one
	handle, err := syntax.ParseHandle(out.Handle)
	if err != nil {
		logger.Warn("invalid handle in session response", "handle", out.Handle, "err", err)
		handle = ""
	}

	client.Auth = &xrpc.AuthInfo{
		AccessJwt:  out.AccessJwt,
		RefreshJwt: out.RefreshJwt,
		Handle:     handle.String(),
		Did:        did.String(),
	}
	if out.Active != nil && !*out.Active {
		status := ""
		if out.Status != nil {
			status = *out.Status
		}
		logger.Warn("account is not active", "did", did, "status", status)
	}
	logger.Debug("logged in", "did", did, "handle", handle, "host", client.Host)

	return &Session{
		client: client,
		did:    did,
		handle: handle.Normalize(),
		logger: logger,
	}, nil
}

func (s *Session) DID() syntax.DID {
	return s.did
}

// Handle is the account handle as reported at login. Empty if the server reported an invalid handle.
func (s *Session) Handle() syntax.Handle {
	return s.handle
}

func (s *Session) Host() string {
	return s.client.Host
}

// Refresh exchanges the refresh token for new access and refresh tokens.
func (s *Session) Refresh(ctx context.Context) error {
	// refreshSession is authenticated with the refresh token in place of the access token
	refreshClient := *s.client
	refreshClient.Auth = &xrpc.AuthInfo{
		AccessJwt:  s.client.Auth.RefreshJwt,
		RefreshJwt: s.client.Auth.RefreshJwt,
		Handle:     s.client.Auth.Handle,
		Did:        s.client.Auth.Did,
	}
	out, err := comatproto.ServerRefreshSession(ctx, &refreshClient)
	if err != nil {
		if isAuthError(err) {
			return &AuthError{Identifier: s.did.String(), Err: err}
		}
		return fmt.Errorf("refreshing session: %w", err)
	}
	if out.Did != s.did.String() {
		return fmt.Errorf("session DID changed on refresh: %s != %s", out.Did, s.did)
	}
	s.client.Auth.AccessJwt = out.AccessJwt
	s.client.Auth.RefreshJwt = out.RefreshJwt
	if h, err := syntax.ParseHandle(out.Handle); err == nil {
		s.handle = h.Normalize()
		s.client.Auth.Handle = h.String()
	}
	s.logger.Debug("refreshed session", "did", s.did)
	return nil
}

// Check fetches the current session from the server, confirming the access token is still accepted.
func (s *Session) Check(ctx context.Context) (*comatproto.ServerGetSession_Output, error) {
	out, err := comatproto.ServerGetSession(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("fetching session: %w", err)
	}
	return out, nil
}

// Verify exercises both session tokens: the refresh token is exchanged for new tokens, and the new access token is used to fetch the session.
func (s *Session) Verify(ctx context.Context) (*comatproto.ServerGetSession_Output, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.Check(ctx)
}

// UploadBlob uploads image data, with mimeType as the content type.
func (s *Session) UploadBlob(ctx context.Context, data []byte, mimeType string) (*lexutil.LexBlob, error) {
	out, err := comatproto.RepoUploadBlob(ctx, s.client, bytes.NewReader(data), mimeType)
	if err != nil {
		return nil, err
	}
	if out.Blob == nil {
		return nil, errors.New("no blob in upload response")
	}
	s.logger.Debug("uploaded blob", "cid", out.Blob.Ref.String(), "mimeType", out.Blob.MimeType, "size", out.Blob.Size)
	return out.Blob, nil
}

// SubmitRecord creates a post record in the account's repository and returns its reference.
func (s *Session) SubmitRecord(ctx context.Context, record *bsky.FeedPost) (thread.PostRef, error) {
	out, err := comatproto.RepoCreateRecord(ctx, s.client, &comatproto.RepoCreateRecord_Input{
		Collection: postCollection,
		Repo:       s.did.String(),
		Record:     record,
	})
	if err != nil {
		return thread.PostRef{}, err
	}

	uri, err := syntax.ParseATURI(out.Uri)
	if err != nil {
		return thread.PostRef{}, fmt.Errorf("invalid record URI in response: %w", err)
	}
	cid, err := syntax.ParseCID(out.Cid)
	if err != nil {
		return thread.PostRef{}, fmt.Errorf("invalid record CID in response: %w", err)
	}
	s.logger.Debug("created record", "uri", uri, "cid", cid)
	return thread.PostRef{URI: uri.String(), CID: cid.String()}, nil
}

// WebURL is the bsky.app link for a post.
func WebURL(ref thread.PostRef) (string, error) {
	uri, err := syntax.ParseATURI(ref.URI)
	if err != nil {
		return "", err
	}
	rkey := uri.RecordKey()
	if rkey == "" {
		return "", fmt.Errorf("not a record URI: %s", ref.URI)
	}
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", uri.Authority(), rkey), nil
}
