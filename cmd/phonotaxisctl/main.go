package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"phonotaxis/internal/httpserver"
	"phonotaxis/internal/storage"
	"phonotaxis/pkg/phonotaxis"
)

const (
	walksDir   = "walks"
	exportsDir = "exports"
	ledgerPath = "phonotaxis_ledger.jsonl"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "import":
		return runImport(ctx, args[1:])
	case "corpora":
		return runCorpora(ctx, args[1:])
	case "walk":
		return runWalk(ctx, args[1:])
	case "walks":
		return runWalks(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "profiles":
		return runProfiles(ctx, args[1:])
	case "ledger":
		return runLedger(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "serve":
		return runServe(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func newClient(storeKind, dbPath string) (*phonotaxis.Client, error) {
	return phonotaxis.New(phonotaxis.Options{
		StoreKind:  storeKind,
		DBPath:     dbPath,
		WalksDir:   walksDir,
		ExportsDir: exportsDir,
		LedgerPath: ledgerPath,
	})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	name := fs.String("name", "", "corpus name")
	path := fs.String("file", "", "corpus document JSON path")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *path == "" {
		return usageError("import requires -name and -file")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	summary, err := client.ImportCorpus(ctx, *name, *path)
	if err != nil {
		return err
	}

	fmt.Printf("imported corpus=%s syllables=%d feature_width=%d fingerprint=%s\n",
		summary.Name, summary.Syllables, summary.FeatureWidth, summary.Fingerprint)
	return nil
}

func runCorpora(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("corpora", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	names, err := client.Corpora(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runWalk(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("walk", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional walk config JSON path")
	corpusName := fs.String("corpus", "", "corpus name")
	start := fs.String("start", "", "start syllable")
	profileName := fs.String("profile", "", "preset profile: clerical|dialect|goblin|ritual")
	temperature := fs.Float64("temperature", 0, "custom profile temperature (> 0)")
	frequencyWeight := fs.Float64("frequency-weight", 0, "custom profile frequency weight exponent")
	maxCandidates := fs.Int("max-candidates", 0, "keep only the N nearest candidates (0 disables)")
	allowSelf := fs.Bool("allow-self", false, "allow a step back onto the current syllable")
	steps := fs.Int("steps", 10, "requested step count")
	seed := fs.Int64("seed", 1, "rng seed")
	walkID := fs.String("walk-id", "", "explicit walk id (optional)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	var req phonotaxis.WalkRequest
	if *configPath != "" {
		loaded, err := loadWalkRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
		req = loaded
		overrideWalkRequestFromFlags(&req, setFlags, *corpusName, *start, *profileName,
			*temperature, *frequencyWeight, *maxCandidates, *allowSelf, *steps, *seed, *walkID)
	} else {
		req = phonotaxis.WalkRequest{
			Corpus:          *corpusName,
			Start:           *start,
			Profile:         *profileName,
			Temperature:     *temperature,
			FrequencyWeight: *frequencyWeight,
			MaxCandidates:   *maxCandidates,
			AllowSelf:       *allowSelf,
			Steps:           *steps,
			Seed:            *seed,
			WalkID:          *walkID,
		}
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	summary, err := client.RunWalk(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("walk completed walk_id=%s corpus=%s start=%s seed=%d state=%s steps=%d/%d\n",
		summary.WalkID, req.Corpus, summary.Start, req.Seed,
		summary.TerminalState, summary.ActualSteps, summary.RequestedSteps)
	for _, step := range summary.Steps {
		fmt.Printf("step=%d %s -> %s distance=%d probability=%.6f\n",
			step.StepIndex, step.From, step.To, step.Distance, step.Probability)
	}
	fmt.Printf("mean_step_distance=%.4f distinct_syllables=%d\n",
		summary.Summary.MeanStepDistance, summary.Summary.DistinctSyllables)
	fmt.Printf("artifacts_dir=%s\n", summary.ArtifactsDir)
	return nil
}

func runWalks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("walks", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max walks to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	walks, err := client.Walks(ctx, phonotaxis.WalksRequest{Limit: *limit})
	if err != nil {
		return err
	}
	for _, item := range walks {
		fmt.Printf("walk_id=%s created=%s corpus=%s start=%s profile=%s seed=%d state=%s steps=%d/%d mean_distance=%.4f\n",
			item.WalkID, item.CreatedAtUTC, item.Corpus, item.Start, item.Profile,
			item.Seed, item.TerminalState, item.ActualSteps, item.RequestedSteps, item.MeanStepDistance)
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	walkID := fs.String("walk-id", "", "walk id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *walkID == "" {
		return usageError("show requires -walk-id")
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	run, err := client.Walk(ctx, *walkID)
	if err != nil {
		return err
	}

	fmt.Printf("walk_id=%s corpus=%s start=%s profile=%s temperature=%.4f frequency_weight=%.4f seed=%d state=%s steps=%d/%d\n",
		run.ID, run.CorpusName, run.Start, run.Profile, run.Temperature,
		run.FrequencyWeight, run.Seed, run.TerminalState, run.ActualSteps, run.RequestedSteps)
	for _, step := range run.Steps {
		fmt.Printf("step=%d %s -> %s distance=%d probability=%.6f\n",
			step.StepIndex, step.From, step.To, step.Distance, step.Probability)
	}
	return nil
}

func runProfiles(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("profiles", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, item := range phonotaxis.Profiles() {
		fmt.Printf("profile=%s temperature=%.2f frequency_weight=%.2f\n",
			item.Name, item.Temperature, item.FrequencyWeight)
	}
	return nil
}

func runLedger(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	entries, err := client.Ledger(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Printf("entry_id=%s walk_id=%s corpus=%s fingerprint=%s seed=%d state=%s created=%s\n",
			entry.EntryID, entry.WalkID, entry.CorpusName, entry.CorpusFingerprint,
			entry.Seed, entry.TerminalState, entry.CreatedAtUTC)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	walkID := fs.String("walk-id", "", "walk id to export")
	latest := fs.Bool("latest", false, "export the most recent walk")
	outDir := fs.String("out", exportsDir, "output directory")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, phonotaxis.ExportRequest{
		WalkID: *walkID,
		Latest: *latest,
		OutDir: *outDir,
	})
	if err != nil {
		return err
	}

	fmt.Printf("exported walk_id=%s dir=%s\n", summary.WalkID, summary.Directory)
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "listen address")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "phonotaxis.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	server := httpserver.New(*addr, httpserver.NewHandler(client, logger))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.Info("listening", "addr", *addr, "store", *storeKind)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: phonotaxisctl <init|reset|import|corpora|walk|walks|show|profiles|ledger|export|serve> [flags]", msg)
}
