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

	"chapteredit/config"
)

// Exit codes
const (
	exitOK        = 0
	exitError     = 1
	exitUsage     = 2
	exitCancelled = 130 // Standard exit code for SIGINT
)

// errUsage marks errors caused by wrong command-line usage.
var errUsage = errors.New("usage error")

// env is what a command runs against.
type env struct {
	cfg    *config.Config
	args   []string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type commandFunc func(ctx context.Context, e *env) error

type cliCommand struct {
	name    string
	usage   string
	summary string
	run     commandFunc
}

var commands = []cliCommand{
	{"load", "load FILE...", "Print saved chapter files", runLoad},
	{"save", "save FILE < text", "Parse pasted chapter text from stdin and save it to FILE", runSave},
	{"parse", "parse [FILE|-]", "Extract chapters from free text", runParse},
	{"format-time", "format-time MS", "Format milliseconds as H:MM:SS.mmm", runFormatTime},
	{"parse-time", "parse-time STR", "Parse H:MM:SS[.mmm] into milliseconds", runParseTime},
	{"sort", "sort FILE", "Sort a chapter file by time, in place", runSort},
	{"platform", "platform", "Print the host platform", runPlatform},
	{"probe", "probe VIDEO", "Read the chapters stored in a video", runProbe},
	{"export", "export VIDEO", "Write the video's chapter file as FFMETADATA1", runExport},
	{"embed", "embed VIDEO", "Copy the video with its chapter file embedded", runEmbed},
	{"serve", "serve", "Answer JSON requests on stdin, one per line", runServe},
	{"config", "config", "Print the effective configuration", runConfig},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "-help" || name == "--help" {
		printUsage(stdout)
		return exitOK
	}

	var cmd *cliCommand
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "unknown command '%s'\n\n", name)
		printUsage(stderr)
		return exitUsage
	}

	// Load configuration (CLI flags > environment > config file > defaults)
	cfg, rest, err := config.LoadConfig(name, args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "❌ Configuration error: %v\n", err)
		return exitUsage
	}

	setupLogger(stderr, cfg.LogLevel)
	slog.Debug("starting", "command", name, "args", rest)

	e := &env{cfg: cfg, args: rest, stdin: stdin, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, e); err != nil {
		switch {
		case errors.Is(err, errUsage):
			fmt.Fprintf(stderr, "%v\nusage: chapteredit %s\n", err, cmd.usage)
			return exitUsage
		case ctx.Err() != nil:
			fmt.Fprintln(stderr, "⚠️  Cancelled")
			return exitCancelled
		default:
			fmt.Fprintf(stderr, "❌ %v\n", err)
			return exitError
		}
	}
	return exitOK
}

// setupLogger installs a text slog handler on w at the given level.
func setupLogger(w io.Writer, level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

// usageError reports wrong positional arguments.
func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "chapteredit - edit, convert and embed video chapter lists")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  chapteredit COMMAND [FLAGS] [ARGS]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "COMMANDS:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-22s %s\n", c.usage, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "FLAGS (before ARGS):")
	fs, _ := config.DefaultConfig().NewFlagSet("chapteredit", w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CONFIGURATION FILES:")
	fmt.Fprintln(w, "  Config files are searched in order:")
	for i, path := range config.ConfigLocations() {
		fmt.Fprintf(w, "    %d. %s\n", i+1, path)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Priority: CLI flags > CHAPTEREDIT_* environment (and .env) > Config file > Defaults")
}
