// Package cli implements the command-line interface for artid.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gabo01/artid/internal/errcode"
	"github.com/gabo01/artid/internal/logging"
)

var log = logging.Module("artid/cli")

// nolint:gochecknoglobals
var (
	errorColor = color.New(color.FgHiRed)
	noteColor  = color.New(color.FgHiCyan)
)

// App holds per-invocation flags and the wiring kingpin needs to
// dispatch to backup/restore. Grounded on kopia-kopia/cli's App:
// the same split of global flags set up once, per-command flags set
// up by each command's own setup method, and testability hooks for
// stdout/stderr/os.Exit.
type App struct {
	backtrace bool
	logLevel  string

	backup  commandBackup
	restore commandRestore

	osExit       func(int)
	stdoutWriter io.Writer
	stderrWriter io.Writer
}

// NewApp creates an App wired to the real process stdout/stderr and
// os.Exit.
func NewApp() *App {
	return &App{
		osExit:       os.Exit,
		stdoutWriter: colorable.NewColorableStdout(),
		stderrWriter: colorable.NewColorableStderr(),
	}
}

func (a *App) stdout() io.Writer { return a.stdoutWriter }
func (a *App) stderr() io.Writer { return a.stderrWriter }

// SetOutputForTesting redirects an App's stdout, stderr and exit hook.
// It exists so tests outside this package can drive a real App against
// buffers instead of the process's actual stdout/stderr/os.Exit.
func SetOutputForTesting(a *App, stdout, stderr io.Writer, exit func(int)) {
	a.stdoutWriter = stdout
	a.stderrWriter = stderr
	a.osExit = exit
}

// Attach registers every command and global flag against app.
func (a *App) Attach(app *kingpin.Application) {
	app.Flag("backtrace", "Print the full error cause chain on failure.").BoolVar(&a.backtrace)
	app.Flag("log-level", "Logging verbosity: debug, info, warn, error.").Default("info").StringVar(&a.logLevel)

	a.backup.setup(a, app)
	a.restore.setup(a, app)
}

// rootContext builds the context every command action runs under,
// carrying the structured logger the --log-level flag selects.
func (a *App) rootContext() context.Context {
	return logging.WithLogger(context.Background(), a.loggerFactory())
}

// loggerFactory builds the zap-backed factory the --log-level flag
// controls. Logs write to the same stderr writer the error reporter
// uses, through zapcore.AddSync rather than zap's own stderr output
// path, so tests can substitute a buffer the way they already can for
// stdout/stderr.
func (a *App) loggerFactory() logging.LoggerFactory {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(a.stderrWriter), level)

	return logging.NewZapFactory(zap.New(core))
}

// withDryRunPrinter layers a logger onto ctx that renders "sync <src>
// -> <dst>" lines for CopyFile/CopyLink actions to w, reading the same
// structured fields internal/executor already logs for every applied
// action, and skips CreateDir actions entirely.
func withDryRunPrinter(ctx context.Context, w io.Writer) context.Context {
	return logging.WithAdditionalLogger(ctx, func(string) logging.Logger {
		return &dryRunPrinter{w: w}
	})
}

type dryRunPrinter struct {
	w io.Writer
}

func (d *dryRunPrinter) Debug(string)                  {}
func (d *dryRunPrinter) Info(string)                   {}
func (d *dryRunPrinter) Warn(string)                   {}
func (d *dryRunPrinter) Error(string)                  {}

func (d *dryRunPrinter) Debugw(_ string, kv ...interface{}) {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}

		fields[key] = kv[i+1]
	}

	switch fields["kind"] {
	case "CopyFile", "CopyLink":
		fmt.Fprintf(d.w, "sync %v -> %v\n", fields["src"], fields["dst"])
	}
}

// runAction wraps a command's action function with the error
// printing and exit-code convention shared by every subcommand.
func (a *App) runAction(act func(ctx context.Context) error) func(*kingpin.ParseContext) error {
	return func(*kingpin.ParseContext) error {
		ctx := a.rootContext()

		err := act(ctx)
		if err == nil {
			log(ctx).Debug("command completed")
			return nil
		}

		a.reportError(err)
		a.osExit(1)

		return nil
	}
}

func (a *App) reportError(err error) {
	_, _ = errorColor.Fprintf(a.stderr(), "error: %v\n", err)

	if !a.backtrace {
		return
	}

	for cause := err; cause != nil; cause = unwrap(cause) {
		fmt.Fprintf(a.stderr(), "  caused by: %v\n", cause)
	}
}

func unwrap(err error) error {
	type unwrapper interface{ Unwrap() error }

	u, ok := err.(unwrapper)
	if !ok {
		return nil
	}

	return u.Unwrap()
}

func badArgument(name, value string) error {
	return errcode.BadArgumentError(name, value)
}
