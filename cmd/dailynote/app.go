package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/morinote/dailynote/internal/author"
	"github.com/morinote/dailynote/internal/config"
	"github.com/morinote/dailynote/internal/database"
	"github.com/morinote/dailynote/internal/fetch"
	"github.com/morinote/dailynote/internal/imagegen"
	"github.com/morinote/dailynote/internal/log"
	"github.com/morinote/dailynote/internal/pipeline"
	"github.com/morinote/dailynote/internal/publish"
	"github.com/morinote/dailynote/internal/search"
	"github.com/morinote/dailynote/internal/store"
)

// addPipelineFlags registers the flags shared by every stage command.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("date", "d", "",
		"Target date in YYYY-MM-DD form (default: today in the configured timezone)")
	cmd.Flags().StringP("base-dir", "b", "",
		"Repository root holding artifacts and indexes (default: current directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .dailynote in current or home directory)")
	cmd.Flags().Bool("no-history", false,
		"Skip recording stage runs in the history database")
}

// addTimeoutFlag registers the authoring deadline flag on commands that
// run the draft stage.
func addTimeoutFlag(cmd *cobra.Command) {
	cmd.Flags().Int("timeout", int(config.DefaultAuthorTimeout.Seconds()),
		"Deadline for the authoring agent in seconds")
}

// buildConfig creates a Config from defaults, the configuration file, and
// cobra command flags, in ascending priority.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPathFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file, it must exist.
	configPath := config.FindConfigFile(configPathFlag)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if configPathFlag != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPathFlag)
	}

	baseDir, err := cmd.Flags().GetString("base-dir")
	if err != nil {
		return nil, err
	}
	if baseDir != "" {
		cfg.BaseDir = baseDir
	}

	dateFlag, err := cmd.Flags().GetString("date")
	if err != nil {
		return nil, err
	}
	cfg.Date, err = config.ResolveDate(dateFlag, cfg.Timezone)
	if err != nil {
		return nil, err
	}

	// The timeout flag only exists on commands that run the draft
	// stage. When set it wins over the config file's value.
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		seconds, err := cmd.Flags().GetInt("timeout")
		if err != nil {
			return nil, err
		}
		cfg.AuthorTimeout = time.Duration(seconds) * time.Second
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.APIKey = os.Getenv(config.APIKeyEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return cfg, nil
}

// app bundles the collaborators wired for one invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	runner *pipeline.Runner

	// history records stage runs; nil when disabled.
	history *database.HistoryDB

	// closers run at the end of the invocation, in reverse order.
	closers []func() error
}

// newApp wires logging, the artifact store, the stage runner, and the
// history database from the resolved configuration.
func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	logger, closeLog, err := log.NewRunLogger(cfg.BaseDir, cfg.Date, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	a.logger = logger
	a.closers = append(a.closers, closeLog)

	a.store = store.New(cfg.BaseDir)
	a.runner = pipeline.NewRunner(a.store, pipeline.WithRunnerLogger(logger))

	if cfg.SaveHistory {
		history, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		a.history = history
		a.closers = append(a.closers, history.Close)
	}

	return a, nil
}

// close releases held resources in reverse acquisition order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			fmt.Fprintf(os.Stderr, "cleanup error: %v\n", err)
		}
	}
}

// execute runs the given stages as a pipeline for the configured date.
func (a *app) execute(ctx context.Context, stages ...pipeline.Stage) error {
	opts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	if a.history != nil {
		opts = append(opts, pipeline.WithRecorder(a.history))
	}

	p := pipeline.New(a.runner, a.cfg.Date, opts...)
	p.AddStages(stages...)
	return p.Execute(ctx)
}

// searchClient builds the search collaborator from the configuration.
func (a *app) searchClient() *search.Client {
	executor := fetch.NewExecutor(
		fetch.WithMaxAttempts(a.cfg.MaxAttempts),
		fetch.WithBackoffBase(a.cfg.BackoffBase),
		fetch.WithLogger(a.logger),
	)

	opts := []search.ClientOption{
		search.WithCount(a.cfg.ResultCount),
		search.WithTimeout(a.cfg.Timeout),
		search.WithClientLogger(a.logger),
	}
	if a.cfg.Endpoint != "" {
		opts = append(opts, search.WithEndpoint(a.cfg.Endpoint))
	}
	return search.NewClient(executor, a.cfg.APIKey, opts...)
}

// collectStage builds the collect stage. It requires the API credential.
func (a *app) collectStage(date string) (pipeline.Stage, error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, fmt.Errorf("%w (set %s)", err, config.APIKeyEnv)
	}

	return pipeline.NewCollectStage(a.searchClient(), a.store, date, a.cfg.Keywords,
		pipeline.WithCollectDelay(a.cfg.RequestDelay),
		pipeline.WithCollectLogger(a.logger),
	), nil
}

// draftStage builds the draft stage with the configured agent chain.
func (a *app) draftStage() pipeline.Stage {
	var agents []author.Agent
	if a.cfg.AuthorCommand != "" {
		agents = append(agents, author.NewCommandAgent(a.cfg.AuthorCommand))
	}

	return pipeline.NewDraftStage(a.store, a.cfg.Date,
		agents, author.NewFallbackWriter(), a.cfg.AuthorTimeout,
		pipeline.WithDraftLogger(a.logger),
	)
}

// illustrateStage builds the illustrate stage with the configured
// generator chain.
func (a *app) illustrateStage() pipeline.Stage {
	var generators []imagegen.Generator
	if a.cfg.ImageCommand != "" {
		generators = append(generators, imagegen.NewCommandGenerator(a.cfg.ImageCommand))
	}
	if a.cfg.AllowPlaceholder {
		generators = append(generators, imagegen.NewPlaceholderGenerator())
	}
	chain := imagegen.NewChain(a.logger, generators...)

	return pipeline.NewIllustrateStage(a.store, chain, a.cfg.Date,
		pipeline.WithIllustrateRetries(config.DefaultIllustrateRetries, config.DefaultIllustrateRetryDelay),
		pipeline.WithIllustrateLogger(a.logger),
	)
}

// publishStage builds the publish stage. push controls whether the git
// transaction ends with a push.
func (a *app) publishStage(push bool) pipeline.Stage {
	committer := publish.NewGitCommitter(a.cfg.BaseDir,
		publish.WithGitPush(push),
		publish.WithGitLogger(a.logger),
	)
	publisher := publish.NewPublisher(a.store, committer,
		publish.WithPublisherLogger(a.logger),
	)
	return pipeline.NewPublishStage(publisher, a.cfg.Date)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
