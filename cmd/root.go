package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/lepinkainen/meeple/cmd/pick"
	"github.com/lepinkainen/meeple/cmd/sync"
	"github.com/lepinkainen/meeple/internal/cache"
	"github.com/lepinkainen/meeple/internal/config"
	"github.com/spf13/viper"
)

var (
	syncCollection = sync.SyncCollection
	validateUser   = sync.ValidateUser
	pickGame       = pick.PickGame
)

// CLI represents the complete command structure for the meeple application
type CLI struct {
	// Global flags
	Overwrite    bool `help:"Overwrite existing markdown files when processing"`
	UpdateCovers bool `help:"Re-download cover images even if they already exist"`

	// Datasette flags
	Datasette   bool   `help:"Enable Datasette output" default:"true"`
	DatasetteDB string `help:"Path to SQLite database file" default:"./meeple.db"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	Sync     SyncCmd     `cmd:"" help:"Fetch a BGG collection and write markdown notes"`
	Validate ValidateCmd `cmd:"" help:"Check that a BGG username exists"`
	Pick     PickCmd     `cmd:"" help:"Pick a game to play from the synced collection"`
	Cache    CacheCmd    `cmd:"" help:"Manage the local API cache"`
}

// SyncCmd represents the sync command
type SyncCmd struct {
	Username   string `short:"u" help:"BGG username to sync (defaults to bgg.username in config)"`
	Output     string `short:"o" help:"Subdirectory under markdown output directory for game files" default:"games"`
	JSON       bool   `help:"Write data to JSON format"`
	JSONOutput string `help:"Path to JSON output file (defaults to json/games.json)"`

	All        bool `help:"Include games that are not owned (wishlist, previously owned, ...)"`
	Expansions bool `help:"Include expansions in the sync"`
	SkipPlays  bool `help:"Skip fetching logged plays"`
	SkipCovers bool `help:"Skip downloading cover images"`
}

// ValidateCmd represents the validate command
type ValidateCmd struct {
	Username string `arg:"" optional:"" help:"BGG username to validate (defaults to bgg.username in config)"`
}

// PickCmd represents the pick command
type PickCmd struct {
	Dir         string  `short:"d" help:"Directory containing synced game notes (defaults to markdown output directory)"`
	Unplayed    bool    `help:"Only consider games with no logged plays"`
	MaxWeight   float64 `help:"Only consider games at or below this complexity (1.0-5.0)"`
	MinPlayers  int     `help:"Only consider games that support at least this many players"`
	MaxPlaytime int     `help:"Only consider games playable within this many minutes"`
	Interactive bool    `short:"i" help:"Browse the pick interactively (accept or reroll)"`
}

// CacheCmd represents the cache command and its subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Clear cached API responses for a source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("meeple"),
		kong.Description("A tool to archive a BoardGameGeek collection as markdown notes."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)

	// Datasette defaults
	viper.SetDefault("datasette.enabled", true)
	viper.SetDefault("datasette.dbfile", "./meeple.db")
	viper.SetDefault("datasette.mode", "local")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Enable environment variable support
	viper.AutomaticEnv()
	// Bind specific environment variables to config keys
	if err := viper.BindEnv("bgg.username", "BGG_USERNAME"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("bgg.apitoken", "BGG_API_TOKEN"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// Update config based on CLI flags
	config.SetOverwriteFiles(cli.Overwrite)
	config.SetUpdateCovers(cli.UpdateCovers)

	// Update datasette config
	viper.Set("datasette.enabled", cli.Datasette)
	viper.Set("datasette.dbfile", cli.DatasetteDB)

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

// resolveUsername falls back to the configured username when the flag is empty.
func resolveUsername(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if config.Username != "" {
		return config.Username, nil
	}
	return "", fmt.Errorf("BGG username is required (provide via --username flag or bgg.username in config)")
}

// Run methods for each command

func (s *SyncCmd) Run() error {
	username, err := resolveUsername(s.Username)
	if err != nil {
		return err
	}

	return syncCollection(sync.Options{
		Username:          username,
		Output:            s.Output,
		WriteJSON:         s.JSON,
		JSONOutput:        s.JSONOutput,
		OwnedOnly:         !s.All,
		IncludeExpansions: s.Expansions,
		SkipPlays:         s.SkipPlays,
		DownloadCovers:    !s.SkipCovers,
	})
}

func (v *ValidateCmd) Run() error {
	username, err := resolveUsername(v.Username)
	if err != nil {
		return err
	}

	return validateUser(username)
}

func (p *PickCmd) Run() error {
	return pickGame(pick.Options{
		Dir:         p.Dir,
		Unplayed:    p.Unplayed,
		MaxWeight:   p.MaxWeight,
		MinPlayers:  p.MinPlayers,
		MaxPlaytime: p.MaxPlaytime,
		Interactive: p.Interactive,
	})
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("MEEPLE_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
