package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"

	"pagetree/internal/config"
	"pagetree/internal/listing"
	"pagetree/internal/logging"
	"pagetree/internal/model"
	"pagetree/internal/report"
	"pagetree/internal/session"
	"pagetree/internal/tui"
	"pagetree/internal/visibility"
	"pagetree/internal/web"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "abulka",
		Repository: "pagetree",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/abulka/pagetree/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pagetree [options] [location]\n\n")
		fmt.Fprintf(os.Stderr, "pagetree browses a documentation repository as a tree of pages.\n")
		fmt.Fprintf(os.Stderr, "Folders holding an _index.md or index.md become pages themselves.\n\n")
		fmt.Fprintf(os.Stderr, "Locations:\n")
		fmt.Fprintf(os.Stderr, "  <dir>                 a directory as it is on disk, uncommitted edits included\n")
		fmt.Fprintf(os.Stderr, "  git:<dir>[@rev]       a committed git revision (HEAD by default)\n")
		fmt.Fprintf(os.Stderr, "  github:owner/repo[@ref]\n")
		fmt.Fprintf(os.Stderr, "  s3://bucket[/prefix]\n")
		fmt.Fprintf(os.Stderr, "  <file>.json | -       a listing saved with --listing\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pagetree                       # Browse the current directory\n")
		fmt.Fprintf(os.Stderr, "  pagetree --report -v docs      # Print the page tree of ./docs\n")
		fmt.Fprintf(os.Stderr, "  pagetree -w github:gohugoio/hugoDocs\n")
		fmt.Fprintf(os.Stderr, "  pagetree --listing > l.json    # Save the flat listing\n")
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Output the page tree as JSON")
	filesFlag := pflag.Bool("files", false, "Output the nested file tree as JSON")
	listingFlag := pflag.Bool("listing", false, "Output the flat listing as JSON (readable back as a location)")
	reportFlag := pflag.BoolP("report", "r", false, "Print a text report of the page tree")
	outputFlag := pflag.StringP("output", "o", "", "Save report or JSON output to the specified file")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include content paths and the file tree in the report")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.StringVarP(&cfg.Source, "source", "s", cfg.Source, "Location to list (overrides the positional argument)")
	pflag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Web Mode listen address")
	pflag.StringVar(&cfg.StatePath, "state", cfg.StatePath, "File remembering expanded pages (empty disables)")
	pflag.IntVar(&cfg.Depth, "depth", cfg.Depth, "Expand untouched pages shallower than this (-1 expands all)")
	pflag.BoolVar(&cfg.Watch, "watch", cfg.Watch, "Reload when files change (directory locations only)")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	pflag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json or console")
	pflag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log to this file (TUI mode logs nowhere otherwise)")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("pagetree version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	if pflag.NArg() > 0 && !pflag.Lookup("source").Changed {
		cfg.Source = pflag.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	tuiMode := !*webFlag && !*reportFlag && !*jsonFlag && !*filesFlag && !*listingFlag
	if err := initLogging(cfg, tuiMode); err != nil {
		fail(err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := listing.Open(ctx, cfg.Source, listing.Options{
		GitHubToken: cfg.GitHubToken,
		S3: listing.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		},
		Logger: logging.L(),
	})
	if err != nil {
		fail(err)
	}

	if *listingFlag {
		runListingMode(ctx, source, *outputFlag)
		return
	}

	store := loadState(cfg.StatePath)
	sess := session.New(source, store, logging.L())
	policy := depthPolicy(cfg.Depth)

	switch {
	case *webFlag:
		runWebMode(ctx, cfg, sess, policy)
	case *reportFlag:
		runReportMode(ctx, sess, *outputFlag, *verboseFlag)
	case *jsonFlag:
		runJsonMode(ctx, sess, *outputFlag, func(s *session.Snapshot) any { return s.Pages })
	case *filesFlag:
		runJsonMode(ctx, sess, *outputFlag, func(s *session.Snapshot) any { return s.Files })
	default:
		runTuiMode(ctx, cfg, sess, policy)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// initLogging keeps the alternate screen clean: the TUI only logs when a
// log file was asked for.
func initLogging(cfg *config.Config, tuiMode bool) error {
	output := "stderr"
	switch {
	case cfg.LogFile != "":
		output = cfg.LogFile
	case tuiMode:
		output = "off"
	}
	return logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: output,
	})
}

func depthPolicy(depth int) visibility.Policy {
	if depth < 0 {
		return visibility.Expanded
	}
	return visibility.ExpandToDepth(depth)
}

func loadState(path string) *visibility.Store {
	if path == "" {
		return visibility.New()
	}
	store, err := visibility.Load(path)
	if err != nil {
		logging.L().Warn("ignoring visibility state", zap.String("path", path), zap.Error(err))
	}
	return store
}

func saveState(sess *session.Session, path string) {
	if path == "" {
		return
	}
	sess.Visibility(func(store *visibility.Store) {
		if err := store.Save(path); err != nil {
			logging.L().Warn("saving visibility state failed", zap.String("path", path), zap.Error(err))
		}
	})
}

// startWatcher reloads sess whenever a directory location changes on disk.
// Other locations are left alone with a warning.
func startWatcher(ctx context.Context, sess *session.Session, onChange func()) {
	dir, ok := sess.Source().(*listing.DirSource)
	if !ok {
		logging.L().Warn("--watch only applies to plain directories", zap.String("source", sess.Source().Identity()))
		return
	}
	watcher, err := dir.Watch(listing.DefaultDebounce)
	if err != nil {
		logging.L().Warn("watch failed", zap.Error(err))
		return
	}
	go func() {
		if err := watcher.Run(ctx, onChange); err != nil && !errors.Is(err, context.Canceled) {
			logging.L().Warn("watcher stopped", zap.Error(err))
		}
	}()
}

func writeOutput(outputFile string, data []byte) {
	if outputFile == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		fail(fmt.Errorf("writing %s: %w", outputFile, err))
	}
	fmt.Printf("Saved to %s\n", outputFile)
}

func runReportMode(ctx context.Context, sess *session.Session, outputFile string, verbose bool) {
	snap, err := sess.Reload(ctx)
	if err != nil {
		fail(err)
	}
	writeOutput(outputFile, []byte(report.Generate(snap, verbose)+"\n"))
}

func runJsonMode(ctx context.Context, sess *session.Session, outputFile string, pick func(*session.Snapshot) any) {
	snap, err := sess.Reload(ctx)
	if err != nil {
		fail(err)
	}
	data, err := json.MarshalIndent(pick(snap), "", "  ")
	if err != nil {
		fail(err)
	}
	writeOutput(outputFile, append(data, '\n'))
}

func runListingMode(ctx context.Context, source listing.Source, outputFile string) {
	entries, err := source.Listing(ctx)
	if err != nil {
		fail(err)
	}
	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		out = f
	}
	if err := listing.EncodeListing(out, entries); err != nil {
		fail(err)
	}
}

func runWebMode(ctx context.Context, cfg *config.Config, sess *session.Session, policy visibility.Policy) {
	if _, err := sess.Reload(ctx); err != nil {
		// The server still starts; /api/reload can recover later.
		logging.L().Warn("initial load failed", zap.Error(err))
	}
	if cfg.Watch {
		startWatcher(ctx, sess, func() {
			sess.Reload(ctx)
		})
	}

	srv := web.NewServer(sess, web.Options{
		Policy:    policy,
		StatePath: cfg.StatePath,
		Logger:    logging.L(),
	})
	fmt.Printf("Starting web server on http://%s\n", cfg.Addr)
	if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
		fail(err)
	}
}

func runTuiMode(ctx context.Context, cfg *config.Config, sess *session.Session, policy visibility.Policy) {
	m := tui.InitialModel(sess, policy)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if cfg.Watch {
		startWatcher(ctx, sess, func() {
			p.Send(tui.MsgSourceChanged{})
		})
	}

	_, err := p.Run()
	saveState(sess, cfg.StatePath)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
