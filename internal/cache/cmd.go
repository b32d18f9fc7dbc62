package cache

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Source string `arg:"" help:"Cache source to invalidate: user, collection, thing, plays, all" required:""`
}

func (i *InvalidateCacheCmd) Run() error {
	cacheDB := viper.GetString("cache.dbfile")

	slog.Info("Invalidating cache", "source", i.Source, "database", cacheDB)

	validSources := map[string]bool{
		"user":       true,
		"collection": true,
		"thing":      true,
		"plays":      true,
		"all":        true,
	}

	if !validSources[i.Source] {
		return fmt.Errorf("invalid cache source '%s'; valid sources are: user, collection, thing, plays, all", i.Source)
	}

	cacheInstance, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	tables := []string{"bgg_" + i.Source + "_cache"}
	if i.Source == "all" {
		tables = []string{"bgg_user_cache", "bgg_collection_cache", "bgg_thing_cache", "bgg_plays_cache"}
	}

	var total int64
	for _, tableName := range tables {
		rowsDeleted, err := cacheInstance.InvalidateSource(tableName)
		if err != nil {
			return fmt.Errorf("failed to invalidate cache: %w", err)
		}
		total += rowsDeleted
	}

	slog.Info("Cache invalidated", "source", i.Source, "rows_deleted", total)
	return nil
}
