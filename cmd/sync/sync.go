package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/meeple/internal/bgg"
	"github.com/lepinkainen/meeple/internal/cmdutil"
	"github.com/lepinkainen/meeple/internal/config"
	"github.com/lepinkainen/meeple/internal/games"
	meepleerrors "github.com/lepinkainen/meeple/internal/errors"
)

// SyncCollection runs a full sync: validate the user, fetch the
// collection, enrich it with per-game details and logged plays, then
// write the outputs.
func SyncCollection(opts Options) error {
	ctx := context.Background()
	client := newClient()

	cfg := &cmdutil.BaseCommandConfig{
		OutputDir:  opts.Output,
		ConfigKey:  "games",
		WriteJSON:  opts.WriteJSON,
		JSONOutput: opts.JSONOutput,
		Overwrite:  config.OverwriteFiles,
	}
	if err := cmdutil.SetupOutputDir(cfg); err != nil {
		return err
	}

	user, err := cachedUser(ctx, client, opts.Username)
	if err != nil {
		if bgg.IsNotFound(err) {
			return fmt.Errorf("no BGG user named %q", opts.Username)
		}
		return fmt.Errorf("failed to validate username: %w", err)
	}

	slog.Info("Syncing collection", "username", user.Name)

	entries, err := cachedCollection(ctx, client, user.Name, bgg.CollectionOptions{
		OwnedOnly:         opts.OwnedOnly,
		ExcludeExpansions: !opts.IncludeExpansions,
	})
	if err != nil {
		var processing *bgg.ProcessingError
		if errors.As(err, &processing) {
			return fmt.Errorf("BGG is still preparing the collection, try again in %s", processing.SuggestedBackoff)
		}
		if meepleerrors.IsRateLimitError(err) {
			return fmt.Errorf("rate limited by BGG, try again later: %w", err)
		}
		return fmt.Errorf("failed to fetch collection: %w", err)
	}

	if len(entries) == 0 {
		slog.Info("Collection is empty, nothing to sync", "username", user.Name)
		return nil
	}

	list := make([]games.Game, 0, len(entries))
	var ids []int
	seen := make(map[int]bool)
	for _, entry := range entries {
		list = append(list, games.FromCollectionEntry(entry))
		if !seen[entry.ObjectID] {
			seen[entry.ObjectID] = true
			ids = append(ids, entry.ObjectID)
		}
	}

	details, err := cachedGameDetails(ctx, client, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch game details: %w", err)
	}
	detailByID := make(map[int]bgg.GameDetail, len(details))
	for _, detail := range details {
		detailByID[detail.ObjectID] = detail
	}
	for i := range list {
		if detail, ok := detailByID[list[i].ObjectID]; ok {
			list[i] = games.MergeDetail(list[i], detail)
		}
	}

	if !opts.SkipPlays {
		plays, err := cachedPlays(ctx, client, user.Name)
		if err != nil {
			// Plays are an enrichment, not a reason to abort the sync
			slog.Warn("Failed to fetch plays, continuing without", "error", err)
		} else {
			list = games.MergePlays(list, plays)
		}
	}

	written := 0
	for _, game := range list {
		coverPath := ""
		if opts.DownloadCovers {
			coverPath, err = downloadCover(game, cfg.OutputDir)
			if err != nil {
				slog.Warn("Failed to download cover", "game", game.Name, "error", err)
			}
		}

		if err := writeGameNote(game, coverPath, cfg.OutputDir); err != nil {
			slog.Error("Error creating markdown", "game", game.Name, "error", err)
			continue
		}
		written++
	}
	slog.Info("Sync complete", "games", written, "output", cfg.OutputDir)

	if err := writeDatasette(list); err != nil {
		return err
	}

	if cfg.WriteJSON {
		if err := writeGamesToJson(list, cfg.JSONOutput); err != nil {
			slog.Error("Error writing games to JSON", "error", err)
		}
	}

	return nil
}
