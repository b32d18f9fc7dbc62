// Package pick suggests a game to play from previously synced notes,
// using a position-weighted random draw over the rating-sorted list.
package pick

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/meeple/internal/games"
	"github.com/lepinkainen/meeple/internal/obsidian"
	"github.com/lepinkainen/meeple/internal/tui"
)

// Options controls which games are considered and how the result is
// presented.
type Options struct {
	Dir         string
	Unplayed    bool
	MaxWeight   float64
	MinPlayers  int
	MaxPlaytime int
	Interactive bool
}

// pickBrowser is swappable in tests so the TUI never runs.
var pickBrowser = tui.PickBrowser

// PickGame loads the synced collection from markdown notes, filters it
// per the options and announces a weighted-random suggestion.
func PickGame(opts Options) error {
	dir := opts.Dir
	if dir == "" {
		dir = defaultNotesDir()
	}

	collection, err := loadCollection(dir)
	if err != nil {
		return err
	}
	if len(collection) == 0 {
		return fmt.Errorf("no game notes found in %s, run a sync first", dir)
	}

	candidates := filterGames(collection, opts)
	if len(candidates) == 0 {
		return fmt.Errorf("no games in %s match the given filters", dir)
	}

	// Highest rated first so the decay weighting favors the good stuff.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Average > candidates[j].Average
	})

	if opts.Interactive {
		return pickInteractive(candidates)
	}

	game, err := games.Pick(candidates)
	if err != nil {
		return err
	}
	announce(game)
	return nil
}

func pickInteractive(candidates []games.Game) error {
	result, err := pickBrowser(candidates, func() (games.Game, error) {
		return games.Pick(candidates)
	})
	if err != nil {
		return err
	}

	switch result.Action {
	case tui.ActionAccepted:
		announce(*result.Game)
	default:
		slog.Info("No game picked")
	}
	return nil
}

func announce(game games.Game) {
	name := game.Name
	if game.YearPublished > 0 {
		name = fmt.Sprintf("%s (%d)", game.Name, game.YearPublished)
	}
	fmt.Printf("Tonight's pick: %s\n", name)

	var details []string
	if game.MinPlayers > 0 {
		if game.MaxPlayers > game.MinPlayers {
			details = append(details, fmt.Sprintf("%d-%d players", game.MinPlayers, game.MaxPlayers))
		} else {
			details = append(details, fmt.Sprintf("%d players", game.MinPlayers))
		}
	}
	if game.MaxPlaytime > 0 {
		details = append(details, fmt.Sprintf("%d min", game.MaxPlaytime))
	}
	if game.Weight > 0 {
		details = append(details, fmt.Sprintf("weight %.2f", game.Weight))
	}
	if game.NumPlays > 0 {
		details = append(details, fmt.Sprintf("%d plays", game.NumPlays))
	} else {
		details = append(details, "never played")
	}
	if len(details) > 0 {
		fmt.Printf("  %s\n", strings.Join(details, " | "))
	}
}

func defaultNotesDir() string {
	baseDir := viper.GetString("markdownoutputdir")
	if baseDir == "" {
		baseDir = "markdown"
	}
	return filepath.Join(baseDir, "games")
}

// loadCollection rebuilds Game values from the frontmatter of every
// boardgame note in dir. Notes of other types and files that fail to
// parse are skipped with a warning.
func loadCollection(dir string) ([]games.Game, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes directory: %w", err)
	}

	var collection []games.Game
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Failed to read note", "path", path, "error", err)
			continue
		}

		note, err := obsidian.ParseMarkdown(content)
		if err != nil {
			slog.Warn("Failed to parse note", "path", path, "error", err)
			continue
		}
		if note.Frontmatter.GetString("type") != "boardgame" {
			continue
		}

		collection = append(collection, gameFromNote(note.Frontmatter))
	}

	return collection, nil
}

func gameFromNote(fm *obsidian.Frontmatter) games.Game {
	game := games.Game{
		ObjectID:      fm.GetInt("objectid"),
		CollID:        fm.GetInt("collid"),
		Name:          fm.GetString("title"),
		YearPublished: fm.GetInt("year"),
		MinPlayers:    fm.GetInt("min_players"),
		MaxPlayers:    fm.GetInt("max_players"),
		MaxPlaytime:   fm.GetInt("playtime"),
		Average:       fm.GetFloat("rating"),
		UserRating:    fm.GetFloat("user_rating"),
		Weight:        fm.GetFloat("weight"),
		NumPlays:      fm.GetInt("plays"),
		Categories:    fm.GetStringArray("categories"),
		Mechanics:     fm.GetStringArray("mechanics"),
		Designers:     fm.GetStringArray("designers"),
	}

	if rank := fm.GetInt("rank"); rank > 0 {
		game.Rank = games.RankOf(rank)
	}
	if rank := fm.GetInt("strategy_rank"); rank > 0 {
		game.StrategyRank = games.RankOf(rank)
	}
	if lastPlayed := fm.GetString("last_played"); lastPlayed != "" {
		if parsed, err := time.Parse("2006-01-02", lastPlayed); err == nil {
			game.LastPlayed = parsed
		}
	}

	for _, tag := range fm.GetStringArray("tags") {
		switch tag {
		case "boardgame/owned":
			game.Own = true
		case "boardgame/previously-owned":
			game.PrevOwned = true
		case "boardgame/for-trade":
			game.ForTrade = true
		case "boardgame/wishlist":
			game.Wishlist = true
		case "boardgame/preordered":
			game.Preordered = true
		case "boardgame/want-to-play":
			game.WantToPlay = true
		}
	}

	return game
}

func filterGames(collection []games.Game, opts Options) []games.Game {
	var filtered []games.Game
	for _, game := range collection {
		if opts.Unplayed && game.NumPlays > 0 {
			continue
		}
		if opts.MaxWeight > 0 && game.Weight > opts.MaxWeight {
			continue
		}
		if opts.MinPlayers > 0 && !supportsPlayers(game, opts.MinPlayers) {
			continue
		}
		if opts.MaxPlaytime > 0 && game.MaxPlaytime > opts.MaxPlaytime {
			continue
		}
		filtered = append(filtered, game)
	}
	return filtered
}

// supportsPlayers reports whether the game accommodates a table of the
// given size. Games with no player count data pass the filter.
func supportsPlayers(game games.Game, players int) bool {
	if game.MinPlayers == 0 && game.MaxPlayers == 0 {
		return true
	}
	maxPlayers := game.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = game.MinPlayers
	}
	return maxPlayers >= players
}
