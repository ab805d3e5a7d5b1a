package command

// root.go defines the animelog command and the local store every
// subcommand works on.

import (
	"fmt"
	"os"
	"time"

	"animelog/internal/kvstore"
	"animelog/internal/logging"
	"animelog/internal/microservices/http-api/service"
	"animelog/internal/microservices/http-api/storage"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dbPath   string // SQLite file of the local tier
	deviceID string // owner of the local data
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "animelog",
	Short: "animelog - アニメログ from the terminal",
	Long: `animelog keeps an anime-watching log on this machine. It can:
- log watched shows per broadcast season and rate them
- keep a watchlist (積みアニメ) and mark items as watched
- search AniList and Annict
- print your DNA card as JSON, YAML or Markdown

Data is stored in a local SQLite file, see --db.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB, err := xdg.DataFile("animelog/animelog.db")
	if err != nil {
		defaultDB = "animelog.db"
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path of the local database")
	rootCmd.PersistentFlags().StringVar(&deviceID, "device", "cli-default", "device id the data belongs to")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
}

// app bundles the services a subcommand needs.
type app struct {
	kv        kvstore.Store
	store     storage.Store
	logger    *zap.Logger
	animes    service.AnimeService
	watchlist service.WatchlistService
	rollover  service.RolloverService
}

func openApp() (*app, error) {
	logger, err := logging.New(logLevel, "text")
	if err != nil {
		return nil, err
	}
	kv, err := kvstore.OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	resolver := storage.NewResolver(kv, nil, nil)
	return &app{
		kv:        kv,
		store:     resolver.Local(deviceID),
		logger:    logger,
		animes:    service.NewAnimeService(logger),
		watchlist: service.NewWatchlistService(logger),
		rollover:  service.NewRolloverService(logger),
	}, nil
}

func (a *app) Close() {
	_ = a.logger.Sync()
	_ = a.kv.Close()
}

// withApp opens the store for the duration of one command.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}

const commandTimeout = 30 * time.Second
