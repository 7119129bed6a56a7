// Command stovectl exercises the STOVE client from a terminal. It has no
// embedded browser, so sessions are supplied with "session set" and page
// rendering commands report that no browser is available.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/stovelib/stove"
	"github.com/stovelib/stove/core/logger"
	"github.com/stovelib/stove/core/session"
)

const usage = `usage: stovectl [-v] <command> [flags]

commands:
  games                      list owned games of the stored session
  store <product-no>         fetch store details for a product
  developer <game-id>        print the developer of a game
  publisher <game-id>        print the publisher of a game
  session set                store a session (-token, -member)
  session clear              drop the stored session
  health                     check the configured session backend

Sessions are kept in a file under the user config directory unless
STOVE_SESSION_BACKEND selects another backend.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "stovectl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("stovectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := logger.New(logger.WithOutput(stderr), logger.WithLevel(level), logger.WithTextFormatter())

	cfg, err := stove.LoadConfig()
	if err != nil {
		return err
	}
	if err := applyCLIDefaults(&cfg, os.LookupEnv, os.UserConfigDir); err != nil {
		return err
	}
	log.Debug("session backend", slog.String("backend", cfg.SessionBackend))

	client, err := stove.New(ctx, cfg, nil, stove.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			log.Warn("close client", logger.Error(cerr))
		}
	}()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "games":
		owned, err := client.OwnedGames(ctx)
		if err != nil {
			return err
		}
		return printJSON(stdout, owned)
	case "store":
		productNo, err := productArg(rest)
		if err != nil {
			return err
		}
		listing, err := client.StoreDetails(ctx, productNo)
		if err != nil {
			return err
		}
		return printJSON(stdout, listing)
	case "developer", "publisher":
		if len(rest) != 1 {
			return fmt.Errorf("%s: expected a game id", cmd)
		}
		lookup := client.Developer
		if cmd == "publisher" {
			lookup = client.Publisher
		}
		name, err := lookup(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, name)
		return nil
	case "session":
		return runSession(ctx, client, cfg, log, rest, stderr)
	case "health":
		if err := client.Health(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "ok")
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runSession(ctx context.Context, client *stove.Client, cfg stove.Config, log *slog.Logger, args []string, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New("session: expected set or clear")
	}

	switch args[0] {
	case "set":
		fs := flag.NewFlagSet("session set", flag.ContinueOnError)
		fs.SetOutput(stderr)
		token := fs.String("token", os.Getenv("STOVE_ACCESS_TOKEN"), "access token (SUAT cookie value)")
		member := fs.Int64("member", 0, "member number")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if strings.EqualFold(cfg.SessionBackend, stove.BackendMemory) {
			log.Warn("memory session backend: the session is lost when stovectl exits")
		}
		return client.SaveSession(ctx, session.Session{
			AccessToken: *token,
			MemberNo:    *member,
			IssuedVia:   session.SourceManual,
		})
	case "clear":
		return client.ClearSession(ctx)
	default:
		return fmt.Errorf("session: unknown subcommand %q", args[0])
	}
}

// applyCLIDefaults switches to a file session backend when the environment
// does not choose one, so a session saved by one invocation is seen by the next.
func applyCLIDefaults(cfg *stove.Config, lookupEnv func(string) (string, bool), configDir func() (string, error)) error {
	if _, set := lookupEnv("STOVE_SESSION_BACKEND"); set {
		return nil
	}
	cfg.SessionBackend = stove.BackendFile
	if _, set := lookupEnv("STOVE_SESSION_FILE"); set {
		return nil
	}
	dir, err := configDir()
	if err != nil {
		return fmt.Errorf("locate session file: %w", err)
	}
	cfg.SessionFile = filepath.Join(dir, "stove", "session.json")
	return nil
}

func productArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("store: expected a product number")
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("store: invalid product number %q", args[0])
	}
	return n, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
