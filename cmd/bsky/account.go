package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bsky-cli/bsky/internal/prompt"
	"github.com/bsky-cli/bsky/internal/session"
	"github.com/bsky-cli/bsky/internal/state"

	"github.com/urfave/cli/v2"
)

const maxLoginAttempts = 5

// errSetupDeclined ends the command without an error message; the user chose not to retry login.
var errSetupDeclined = errors.New("account setup declined")

var cmdInit = &cli.Command{
	Name:   "init",
	Usage:  "log in to an account",
	Action: runInit,
}

var cmdSwap = &cli.Command{
	Name:   "swap",
	Usage:  "switch between the active and alternate accounts",
	Action: runSwap,
}

var cmdWhoami = &cli.Command{
	Name:  "whoami",
	Usage: "show the configured account and the last post",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "check",
			Usage: "log in and refresh the session, to confirm the stored credentials still work",
		},
	},
	Action: runWhoami,
}

func runInit(cctx *cli.Context) error {
	ctx := cctx.Context
	store := stateStore(cctx)

	ok, err := store.Exists()
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("account already set up.\n if you want to reset the program, remove %s and call `bsky init` again", store.Config().Path)
	}
	_, err = firstRun(ctx, cctx, store, prompter())
	if errors.Is(err, errSetupDeclined) {
		return nil
	}
	return err
}

// setupIfNeeded runs first-time setup when there is no state file, then loads it.
func setupIfNeeded(ctx context.Context, cctx *cli.Context, store *state.Store, p *prompt.Prompter) (*state.File, error) {
	ok, err := store.Exists()
	if err != nil {
		return nil, err
	}
	if !ok {
		return firstRun(ctx, cctx, store, p)
	}
	return store.Load()
}

func firstRun(ctx context.Context, cctx *cli.Context, store *state.Store, p *prompt.Prompter) (*state.File, error) {
	// ask for credentials first, so no file is written if logging in fails
	fmt.Fprintln(p.Out, "welcome! please enter your username/app password to get started")
	acct, err := askNewAccount(ctx, cctx, p)
	if err != nil {
		return nil, err
	}
	f := &state.File{Auth: *acct}
	if err := store.Save(f); err != nil {
		return nil, err
	}
	return f, nil
}

func askNewAccount(ctx context.Context, cctx *cli.Context, p *prompt.Prompter) (*state.Account, error) {
	for attempt := 1; ; attempt++ {
		identifier, err := p.Line("username:")
		if err != nil {
			return nil, err
		}
		password, err := p.Password("password:")
		if err != nil {
			return nil, err
		}

		fmt.Fprintln(p.Out, "connecting to bluesky")
		sess, err := session.Login(ctx, sessionConfig(cctx), strings.TrimSpace(identifier), password)
		if err == nil {
			fmt.Fprintln(p.Out, "credentials confirmed")
			return &state.Account{
				Handle:   sess.Handle().String(),
				DID:      sess.DID().String(),
				Password: password,
			}, nil
		}
		if !errors.Is(err, session.ErrAuthFailed) {
			return nil, err
		}

		fmt.Fprintln(p.Out, "connection unsuccessful. you probably have an invalid username or password")
		if attempt >= maxLoginAttempts {
			return nil, fmt.Errorf("giving up after %d login attempts: %w", attempt, err)
		}
		again, err := p.Confirm("try again?", true)
		if err != nil {
			return nil, err
		}
		if !again {
			return nil, errSetupDeclined
		}
	}
}

// login creates a session with the stored credentials, and refreshes the stored handle.
func login(ctx context.Context, cctx *cli.Context, f *state.File) (*session.Session, error) {
	ident := f.Auth.DID
	if ident == "" {
		ident = f.Auth.Handle
	}
	if ident == "" {
		return nil, fmt.Errorf("no account in %s, run `bsky init`", stateStore(cctx).Config().Path)
	}
	sess, err := session.Login(ctx, sessionConfig(cctx), ident, f.Auth.Password)
	if err != nil {
		return nil, err
	}
	if h := sess.Handle(); h != "" {
		f.Auth.Handle = h.String()
	}
	return sess, nil
}

func runSwap(cctx *cli.Context) error {
	store := stateStore(cctx)
	res, err := store.Swap()
	if err != nil {
		return err
	}
	fmt.Println(res)
	if res == state.SwapExchanged || res == state.SwapActivated {
		if f, err := store.Load(); err == nil {
			fmt.Printf("active account: %s\n", f.Auth.Handle)
		}
	}
	return nil
}

func runWhoami(cctx *cli.Context) error {
	ctx := cctx.Context
	store := stateStore(cctx)

	f, err := store.Load()
	if errors.Is(err, state.ErrNotConfigured) {
		return fmt.Errorf("%w: run `bsky init`", err)
	}
	if err != nil {
		return err
	}

	fmt.Printf("handle: %s\n", f.Auth.Handle)
	fmt.Printf("did:    %s\n", f.Auth.DID)
	if loc, err := f.RequireHistory(); err == nil {
		fmt.Printf("last post:   %s\n", loc.PostInfo.URI)
		fmt.Printf("thread root: %s\n", loc.ThreadRoot.URI)
	}

	if cctx.Bool("check") {
		sess, err := login(ctx, cctx, f)
		if err != nil {
			return err
		}
		out, err := sess.Verify(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("logged in to %s as %s\n", sess.Host(), out.Handle)
		if out.Active != nil && !*out.Active {
			fmt.Println("account is not active")
		}
		// the handle may have changed since setup
		if err := store.Save(f); err != nil {
			return err
		}
	}
	return nil
}
