package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/TecharoHQ/sphinx"
	"github.com/TecharoHQ/sphinx/internal"
	libsphinx "github.com/TecharoHQ/sphinx/lib"
	"github.com/TecharoHQ/sphinx/lib/assets"
	"github.com/TecharoHQ/sphinx/lib/config"
	"github.com/facebookgo/flagenv"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"sigs.k8s.io/yaml"
)

var (
	configFname = flag.String("config-fname", "", "full path to sphinx config document (defaults to a sensible built-in config)")
	bboltPath   = flag.String("bbolt-path", filepath.Join(os.TempDir(), "sphinx.bdb"), "database used when the config asks for the memory store, which does not outlive one command")
	slogLevel   = flag.String("slog-level", "INFO", "logging level (see https://pkg.go.dev/log/slog#hdr-Levels)")
	versionFlag = flag.Bool("version", false, "print Sphinx version")
)

var errCheckFailed = errors.New("answer rejected")

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

const (
	createUsage       = "create -session ID [-out file.png] [-math] [-length N] [-set key=value]..."
	checkUsage        = "check -session ID -answer ANSWER"
	extractFontsUsage = "extract-fonts DIR"
)

var commands = map[string]command{
	"create":        {createUsage, runCreate},
	"check":         {checkUsage, runCheck},
	"config":        {"config", runConfig},
	"version":       {"version", runVersion},
	"extract-fonts": {extractFontsUsage, runExtractFonts},
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s [options] <command> [command options]\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nCommands:")
		for _, name := range []string{"create", "check", "config", "version", "extract-fonts"} {
			fmt.Fprintf(os.Stderr, "  %s %s\n", os.Args[0], commands[name].usage)
		}
	}
}

func main() {
	flagenv.Parse()
	flag.Parse()

	if *versionFlag {
		fmt.Println("Sphinx", sphinx.Version)
		return
	}

	internal.InitSlog(*slogLevel)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.run(ctx, flag.Args()[1:]); err != nil {
		if errors.Is(err, errCheckFailed) {
			fmt.Println("fail")
			cancel()
			os.Exit(1)
		}

		log.Fatal(err)
	}
}

// loadConfig reads the config document and swaps the memory store for bbolt
// so challenges survive between commands.
func loadConfig() (*config.File, error) {
	f, err := libsphinx.LoadConfigOrDefault(*configFname)
	if err != nil {
		return nil, err
	}

	if f.Store.Backend == "memory" {
		params, err := json.Marshal(struct {
			Path string `json:"path"`
		}{Path: *bboltPath})
		if err != nil {
			return nil, err
		}

		slog.Debug("memory store requested, using bbolt so challenges outlive this command", "path", *bboltPath)
		f.Store = &config.Store{Backend: "bbolt", Parameters: params}
	}

	return f, nil
}

func newSphinx(ctx context.Context) (*libsphinx.Sphinx, error) {
	f, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return libsphinx.NewFromFile(ctx, f, slog.Default())
}

func subcommand(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s %s\n", os.Args[0], usage)
		fs.PrintDefaults()
	}
	return fs
}

func runCreate(ctx context.Context, args []string) error {
	fs := subcommand("create", createUsage)
	session := fs.String("session", "", "session identifier, a new one is generated and printed to stderr when empty")
	out := fs.String("out", "", "write the PNG to this file instead of printing a data URI")
	arithmetic := fs.Bool("math", false, "ask for a sum instead of a code")
	length := fs.Int("length", 0, "number of glyphs, 0 keeps the configured length")

	overrides := map[string]any{}
	fs.Func("set", "override a captcha option as key=value, may be repeated", func(kv string) error {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("%q is not key=value", kv)
		}
		overrides[key] = value
		return nil
	})

	if err := flagenv.ParseSet("SPHINX_CREATE_", fs); err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *arithmetic {
		overrides["math"] = true
	}
	if *length > 0 {
		overrides["length"] = *length
	}

	if *session == "" {
		*session = uuid.Must(uuid.NewV7()).String()
		fmt.Fprintln(os.Stderr, "session:", *session)
	}

	s, err := newSphinx(ctx)
	if err != nil {
		return err
	}

	iss, err := s.Issue(ctx, *session, config.ParseOverrides(overrides))
	if err != nil {
		return fmt.Errorf("can't create challenge: %w", err)
	}

	if *out == "" {
		fmt.Println(iss.DataURI)
		return nil
	}

	if err := os.WriteFile(*out, iss.PNG, 0o644); err != nil {
		return fmt.Errorf("can't write %s: %w", *out, err)
	}

	slog.Info("wrote challenge", "file", *out, "width", iss.Width, "height", iss.Height)
	return nil
}

func runCheck(ctx context.Context, args []string) error {
	fs := subcommand("check", checkUsage)
	session := fs.String("session", "", "session identifier the challenge was created for")
	answer := fs.String("answer", "", "claimed answer")

	if err := flagenv.ParseSet("SPHINX_CHECK_", fs); err != nil {
		return err
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *session == "" {
		return errors.New("-session is required")
	}

	s, err := newSphinx(ctx)
	if err != nil {
		return err
	}

	if !s.Check(ctx, *session, *answer) {
		return errCheckFailed
	}

	fmt.Println("ok")
	return nil
}

func runConfig(_ context.Context, _ []string) error {
	f, err := libsphinx.LoadConfigOrDefault(*configFname)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("can't render config: %w", err)
	}

	_, err = os.Stdout.Write(data)
	return err
}

func runVersion(_ context.Context, _ []string) error {
	fmt.Println("Sphinx", sphinx.Version)
	return nil
}

func runExtractFonts(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s %s", os.Args[0], extractFontsUsage)
	}

	return extractFonts(assets.Builtin(), args[0])
}

func extractFonts(src assets.Source, destDir string) error {
	names, err := src.List(assets.ExtFont)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(destDir, 0o700); err != nil {
		return err
	}

	for _, name := range names {
		data, err := src.Open(name)
		if err != nil {
			return err
		}

		if err := os.WriteFile(filepath.Join(destDir, name), data, 0o644); err != nil {
			return err
		}
	}

	fmt.Printf("Extracted %d fonts to %s\n", len(names), destDir)
	return nil
}
