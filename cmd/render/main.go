// Command render draws a wallpaper offline from a JSON data bundle, the same
// document GET /wallpaper/:token/data returns.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/canvas"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/config"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/services"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/wallpaper"
)

const helpText = `render - draw a life-calendar wallpaper from a data bundle

USAGE:
    render -in bundle.json [-out wallpaper.png] [OPTIONS]

OPTIONS:
    -in FILE       Data bundle (settings, habits, goals, reminders). "-" reads stdin
    -out FILE      PNG to write (default wallpaper.png)
    -ops FILE      Also write the draw operations as JSON
    -now TIME      Render as of an RFC 3339 time instead of the current time
    -themes FILE   YAML file of extra palettes
    -no-color      Plain summary without colors
`

type options struct {
	in, out, ops, themes string
	now                  time.Time
	noColor              bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { fmt.Fprint(os.Stderr, helpText) }

	var opts options
	var now string
	fs.StringVar(&opts.in, "in", "", "data bundle")
	fs.StringVar(&opts.out, "out", "wallpaper.png", "output PNG")
	fs.StringVar(&opts.ops, "ops", "", "draw operations JSON")
	fs.StringVar(&now, "now", "", "render time (RFC 3339)")
	fs.StringVar(&opts.themes, "themes", "", "extra palettes YAML")
	fs.BoolVar(&opts.noColor, "no-color", false, "plain summary")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
		}
		return opts, err
	}
	if opts.in == "" {
		fs.Usage()
		return opts, errors.New("-in is required")
	}

	opts.now = time.Now()
	if now != "" {
		t, err := time.Parse(time.RFC3339, now)
		if err != nil {
			return opts, fmt.Errorf("invalid -now: %w", err)
		}
		opts.now = t
	}
	return opts, nil
}

func readBundle(path string, stdin io.Reader) (*domain.WallpaperBundle, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var b domain.WallpaperBundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if b.Settings.UserID == "" {
		b.Settings.UserID = "local"
	}
	return &b, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	bundle, err := readBundle(opts.in, stdin)
	if err != nil {
		return err
	}

	themes := wallpaper.NewThemeResolver()
	if opts.themes != "" {
		skipped, err := config.LoadThemes(opts.themes, themes)
		if err != nil {
			return err
		}
		for _, s := range skipped {
			fmt.Fprintln(os.Stderr, "render: theme skipped:", s)
		}
	}

	store := repository.NewInMemoryStore()
	store.Load(bundle)

	// The offline render goes through the public token path so it matches the
	// served image exactly.
	ctx := context.Background()
	token, err := domain.NewWallpaperToken()
	if err != nil {
		return err
	}
	digest, err := domain.HashWallpaperToken(token)
	if err != nil {
		return err
	}
	if err := store.SetTokenDigest(ctx, bundle.Settings.UserID, digest); err != nil {
		return err
	}

	svc := services.NewWallpaperService(store, store, store, store, themes, canvas.NewRenderer())
	svc.SetClock(func() time.Time { return opts.now })

	png, err := svc.RenderSnapshot(ctx, token)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := os.WriteFile(opts.out, png, 0o644); err != nil {
		return err
	}

	if opts.ops != "" {
		ops, err := svc.DrawOps(ctx, token)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(ops, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.ops, data, 0o644); err != nil {
			return err
		}
	}

	derived, err := svc.BundleByToken(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, newSummary(stdout, opts.noColor, themes.Resolve(derived.Settings.Theme)).render(derived, opts.out))
	return nil
}
