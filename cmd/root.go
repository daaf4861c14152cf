package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/livedict/internal/clock"
	"github.com/example/livedict/internal/config"
	"github.com/example/livedict/internal/database"
	"github.com/example/livedict/internal/dictionary"
	"github.com/example/livedict/internal/spaced_repetition"
	"github.com/example/livedict/pkg/models"
)

// Selection strategies accepted by --strategy
const (
	strategyNewest     = "newest"
	strategySequential = "sequential"
)

var (
	envFile      string
	dbDriver     string
	dbDSN        string
	strategyName string
)

// now is replaced in tests
var now clock.Clock = clock.System{}

var rootCmd = &cobra.Command{
	Use:   "livedict",
	Short: "A vocabulary trainer with spaced repetition",
	Long: `LiveDict keeps a dictionary of foreign words and their translations
and asks them back, resting the ones you already know for longer and longer
periods. Practice in the terminal with "quiz" or through Telegram with "bot".`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file with settings")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver: sqlite3 or postgres")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "dsn", "", "Database file (sqlite3) or connection string (postgres)")
	rootCmd.PersistentFlags().StringVar(&strategyName, "strategy", strategyNewest, "Question order: newest or sequential")
}

// app holds what every command needs
type app struct {
	config *config.Config
	logger *slog.Logger
	db     *sqlx.DB
}

// newApp loads the configuration, applies flag overrides and connects to
// the database
func newApp() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
	}
	if dbDSN != "" {
		cfg.DBDSN = dbDSN
	}

	logger := config.NewLogger(os.Stderr, cfg.LogLevel)
	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	logger.Debug("connected to database", "driver", cfg.DBDriver)
	return &app{config: cfg, logger: logger, db: db}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) newStrategy() (spaced_repetition.SelectionStrategy, error) {
	switch strategyName {
	case strategyNewest:
		rng := rand.New(rand.NewSource(now.Now().UnixNano()))
		return spaced_repetition.NewPreferNewestStrategy(now, nil, rng), nil
	case strategySequential:
		return spaced_repetition.NewSequentialStrategy(), nil
	default:
		return nil, errors.Errorf("unknown strategy %q", strategyName)
	}
}

func (a *app) openDictionary(ctx context.Context) (*dictionary.Dictionary, error) {
	strategy, err := a.newStrategy()
	if err != nil {
		return nil, err
	}
	return dictionary.New(ctx, database.NewStores(a.db), now, strategy,
		dictionary.WithExcludedLabels(a.config.ExcludedLabels...),
		dictionary.WithLogger(a.logger),
	)
}

// withDictionary runs fn with an open dictionary and closes the database after
func withDictionary(ctx context.Context, fn func(*app, *dictionary.Dictionary) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.openDictionary(ctx)
	if err != nil {
		return err
	}
	return fn(a, d)
}

// findByID looks among every stored translation, excluded ones included
func findByID(ctx context.Context, d *dictionary.Dictionary, rawID string) (models.Translation, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return models.Translation{}, errors.Errorf("invalid id %q", rawID)
	}
	all, err := d.All(ctx)
	if err != nil {
		return models.Translation{}, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Translation{}, errors.Errorf("no translation with id %d", id)
}
