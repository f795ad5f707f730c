// Command formclient submits the site's forms from the command line and
// writes the markup the page would show into a container file.
//
// Usage:
//
//	formclient calc -a 2 -b 3
//	formclient weight -weight 70 -planet mars
//	formclient delete -variant secondary uploads/notes.txt
//	formclient estimate -weight 70 -planet moon
//
// Every subcommand accepts -out (default stdout) and -sanitize.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/planet-weight-cgi/internal/adapter/formclient"
	"github.com/couchcryptid/planet-weight-cgi/internal/catalog"
	"github.com/couchcryptid/planet-weight-cgi/internal/config"
	"github.com/couchcryptid/planet-weight-cgi/internal/domain"
	"github.com/couchcryptid/planet-weight-cgi/internal/observability"
	"github.com/couchcryptid/planet-weight-cgi/internal/render"
)

var errUsage = errors.New("usage: formclient <calc|weight|delete|estimate> [flags]")

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, logger, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, errUsage)
			os.Exit(2)
		}
		logger.Error("formclient failed", "error", err)
		os.Exit(1)
	}
}

// output holds the flags shared by every subcommand.
type output struct {
	path     string
	sanitize bool
}

func (o *output) register(fs *flag.FlagSet) {
	fs.StringVar(&o.path, "out", "", "container file to write (default stdout)")
	fs.BoolVar(&o.sanitize, "sanitize", false, "strip active content from server bodies")
}

func (o *output) write(stdout io.Writer, html string, fromServer bool) error {
	if o.sanitize && fromServer {
		html = render.Sanitize(html)
	}
	if o.path == "" {
		_, err := io.WriteString(stdout, html)
		return err
	}
	if err := os.WriteFile(o.path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write container: %w", err)
	}
	return nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	client := formclient.NewClient(cfg.ClientBaseURL, cfg.ClientTimeout, logger)

	var out output
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out.register(fs)

	switch args[0] {
	case "calc":
		a := fs.String("a", "", "first operand")
		b := fs.String("b", "", "second operand")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		body, err := client.SubmitCalculator(ctx, *a, *b)
		if err != nil {
			return err
		}
		return out.write(stdout, body, true)

	case "weight":
		weight := fs.String("weight", "", "weight on Earth in kg")
		planet := fs.String("planet", "", "planet name")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		body, err := client.SubmitWeight(ctx, *weight, *planet)
		if err != nil {
			return err
		}
		return out.write(stdout, body, true)

	case "delete":
		variant := fs.String("variant", "site", "page variant: site or secondary")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: delete needs exactly one target", errUsage)
		}
		v, err := render.ParseVariant(*variant)
		if err != nil {
			return err
		}
		res, err := client.Delete(ctx, fs.Arg(0), v)
		if err != nil {
			return err
		}
		return out.write(stdout, res.HTML, !res.Deleted)

	case "estimate":
		weight := fs.String("weight", "", "weight on Earth in kg")
		planet := fs.String("planet", "", "quick planet: mars, jupiter or moon")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		planets := catalog.Default()
		if cfg.PlanetsFile != "" {
			var err error
			if planets, err = catalog.Load(cfg.PlanetsFile); err != nil {
				return err
			}
		}
		res, err := domain.Estimate(planets, *weight, *planet)
		return out.write(stdout, render.EstimateFragment(res, err), false)
	}

	return fmt.Errorf("%w: unknown subcommand %q", errUsage, args[0])
}
