// Command liquorlocker manages a home bar inventory against the Liquor
// Locker API, asks its AI bartender for cocktails and runs the reference
// inventory server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/erazemk/liquorlocker/internal/apperr"
	"github.com/erazemk/liquorlocker/internal/config"
)

const usage = `Usage: liquorlocker <command> [flags]

Server:
  serve                    run the reference inventory API
  keygen                   issue an API key
  revoke <key>             revoke an API key

Inventory:
  bottles <sub>            list | add | edit <id> | open <id> | close <id> | rm <id>
  mixers <sub>             same as bottles
  fresh <sub>              list | add | edit <id> | rm <id>

AI bartender:
  ai <sub>                 configure | models | select <model> | status
  recommend [-cached]      ask for cocktail recommendations
  favorites <sub>          list | save <n> | rm <id>

Local storage:
  settings <sub>           show | set <key> <value> | unset <key>

Environment (also read from .env):
  LIQUORLOCKER_API_URL     inventory API base URL (default: http://localhost:8080)
  LIQUORLOCKER_API_KEY     inventory API key
  LIQUORLOCKER_DB          SQLite database path (default: liquorlocker.sqlite3)
  LIQUORLOCKER_LOG_LEVEL   debug | info | warn | error (default: info)
`

// errUsage reports a command line the command could not make sense of. The
// usage text has already been printed.
var errUsage = errors.New("invalid usage")

type command func(ctx context.Context, env *env, args []string) error

var commands = map[string]command{
	"serve":     cmdServe,
	"keygen":    cmdKeygen,
	"revoke":    cmdRevoke,
	"bottles":   cmdBottles,
	"mixers":    cmdMixers,
	"fresh":     cmdFresh,
	"ai":        cmdAI,
	"recommend": cmdRecommend,
	"favorites": cmdFavorites,
	"settings":  cmdSettings,
}

// env is what every command receives.
type env struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		if len(args) == 0 {
			return 1
		}
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command: %s\n\n%s", args[0], usage)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	level, _ := cfg.Level()
	// Commands print their results on stdout, so every log record goes to stderr.
	closeLog, err := setupLogger(stderr, stderr, level, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closeLog()

	err = cmd(ctx, &env{cfg: cfg, stdout: stdout, stderr: stderr}, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	}

	// Classified errors carry a message meant for the user.
	if e := apperr.As(err); e != nil {
		fmt.Fprintf(stderr, "error: %s\n", e.Message)
		slog.Debug("command failed", "kind", e.Tag(), "error", err)
		return 1
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

// newFlagSet creates a flag set whose usage line is printed on -h.
func newFlagSet(e *env, name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: liquorlocker %s\n", synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// usageError prints the synopsis of fs and returns errUsage.
func usageError(fs *flag.FlagSet, format string, args ...any) error {
	fmt.Fprintf(fs.Output(), format+"\n", args...)
	fs.Usage()
	return errUsage
}

// parseFlags parses args, mapping flag errors (already printed) to errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}
