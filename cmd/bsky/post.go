package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bsky-cli/bsky/internal/clipboard"
	"github.com/bsky-cli/bsky/internal/media"
	"github.com/bsky-cli/bsky/internal/post"
	"github.com/bsky-cli/bsky/internal/prompt"
	"github.com/bsky-cli/bsky/internal/session"
	"github.com/bsky-cli/bsky/internal/state"
	"github.com/bsky-cli/bsky/internal/thread"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
)

var postFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "attach-image",
		Aliases: []string{"i"},
		Usage:   "attach one or more images from the clipboard",
	},
	&cli.StringSliceFlag{
		Name:  "image",
		Usage: "attach an image file (can be repeated)",
	},
	&cli.StringFlag{
		Name:  "text",
		Usage: "post text; prompted for if not given",
	},
	&cli.StringSliceFlag{
		Name:    "lang",
		Usage:   "language of the post text, as a BCP-47 tag (can be repeated)",
		EnvVars: []string{"BSKY_LANG"},
	},
}

var cmdPost = &cli.Command{
	Name:   "post",
	Usage:  "create a new post",
	Flags:  postFlags,
	Action: postAction(func(f *state.File) (thread.ReplyContext, error) { return thread.NoParent{}, nil }),
}

var cmdAppend = &cli.Command{
	Name:  "append",
	Usage: "reply to the last created post",
	Flags: postFlags,
	Action: postAction(func(f *state.File) (thread.ReplyContext, error) {
		loc, err := requireHistory(f)
		if err != nil {
			return nil, err
		}
		return thread.Reply{Target: loc}, nil
	}),
}

var cmdQuote = &cli.Command{
	Name:  "quote",
	Usage: "quote the last created post",
	Flags: postFlags,
	Action: postAction(func(f *state.File) (thread.ReplyContext, error) {
		loc, err := requireHistory(f)
		if err != nil {
			return nil, err
		}
		return thread.Quote{Target: loc.PostInfo}, nil
	}),
}

func requireHistory(f *state.File) (thread.LocationInfo, error) {
	loc, err := f.RequireHistory()
	if err != nil {
		return loc, fmt.Errorf("you're trying to quote/reply to the latest post but you haven't made a post yet: %w", err)
	}
	return loc, nil
}

type loginResult struct {
	sess *session.Session
	err  error
}

func postAction(replyFor func(*state.File) (thread.ReplyContext, error)) cli.ActionFunc {
	return func(cctx *cli.Context) error {
		ctx := cctx.Context
		store := stateStore(cctx)
		p := prompter()

		f, err := setupIfNeeded(ctx, cctx, store, p)
		if errors.Is(err, errSetupDeclined) {
			return nil
		}
		if err != nil {
			return err
		}
		reply, err := replyFor(f)
		if err != nil {
			return err
		}
		langs, err := canonicalLangs(cctx.StringSlice("lang"))
		if err != nil {
			return err
		}

		// log in while the user is typing; f is not touched again until login returns
		handle := f.Auth.Handle
		loginCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		loginCh := make(chan loginResult, 1)
		go func() {
			sess, err := login(loginCtx, cctx, f)
			loginCh <- loginResult{sess: sess, err: err}
		}()

		text := cctx.String("text")
		if !cctx.IsSet("text") {
			text, err = p.Line(handle + ">")
			if err != nil {
				return err
			}
		}
		// blank posts are never sent
		if strings.TrimSpace(text) == "" {
			return nil
		}

		items, err := collectImages(ctx, cctx, p)
		if err != nil {
			return err
		}

		res := <-loginCh
		if res.err != nil {
			return res.err
		}

		composer, err := post.NewComposer(res.sess)
		if err != nil {
			return err
		}
		ref, err := composer.Submit(ctx, post.Request{
			Text:  text,
			Media: items,
			Reply: reply,
			Langs: langs,
		})
		if err != nil {
			return err
		}

		loc, err := thread.NextLocation(ref, reply)
		if err != nil {
			return err
		}
		if err := store.SaveHistory(f, loc); err != nil {
			return fmt.Errorf("post created (%s) but saving history failed: %w", ref.URI, err)
		}

		fmt.Printf("%s\t%s\n", ref.URI, ref.CID)
		if u, err := session.WebURL(ref); err == nil {
			fmt.Println("view post at:", u)
		}
		return nil
	}
}

// collectImages resolves --image files, then prompts for clipboard images if -i was given.
func collectImages(ctx context.Context, cctx *cli.Context, p *prompt.Prompter) ([]media.Item, error) {
	var items []media.Item
	for _, path := range cctx.StringSlice("image") {
		it, err := media.ResolvePath(path)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if !cctx.Bool("attach-image") {
		return items, nil
	}

	clip := clipboard.Default()
	for len(items) < post.MaxImages {
		data, err := clip.Read(ctx)
		if err != nil {
			return nil, err
		}
		it, err := media.ResolveBytes(data, "")
		if err != nil {
			return nil, err
		}
		slog.Debug("attached clipboard image", "source", it.Source, "mimeType", it.MimeType, "size", len(it.Data))
		items = append(items, it)
		if len(items) >= post.MaxImages {
			break
		}

		again, err := p.Confirm("Do you want to add another?", false)
		if err != nil {
			return nil, err
		}
		if !again {
			break
		}
	}
	return items, nil
}

// canonicalLangs normalizes BCP-47 tags (eg, "EN-us" to "en-US").
func canonicalLangs(raw []string) ([]string, error) {
	var langs []string
	for _, s := range raw {
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			tag, err := language.Parse(part)
			if err != nil {
				return nil, fmt.Errorf("invalid language %q: %w", part, err)
			}
			langs = append(langs, tag.String())
		}
	}
	return langs, nil
}
