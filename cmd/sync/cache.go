package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/lepinkainen/meeple/internal/bgg"
	"github.com/lepinkainen/meeple/internal/cache"
	"github.com/spf13/viper"
)

// cachedUserRecord wraps a user lookup so "no such user" responses can be
// negative-cached with a shorter TTL.
type cachedUserRecord struct {
	User     bgg.User `json:"user"`
	NotFound bool     `json:"notFound"`
}

func cachedUser(ctx context.Context, client *bgg.Client, username string) (bgg.User, error) {
	record, _, err := cache.GetOrFetchWithTTL("bgg_user_cache", username,
		func() (cachedUserRecord, error) {
			user, err := client.ValidateUsername(ctx, username)
			if bgg.IsNotFound(err) {
				return cachedUserRecord{NotFound: true}, nil
			}
			if err != nil {
				return cachedUserRecord{}, err
			}
			return cachedUserRecord{User: user}, nil
		},
		cache.SelectNegativeCacheTTL(func(r cachedUserRecord) bool {
			return r.NotFound
		}))
	if err != nil {
		return bgg.User{}, err
	}
	if record.NotFound {
		return bgg.User{}, &bgg.NotFoundError{Kind: "user", Name: username}
	}
	return record.User, nil
}

func collectionCacheKey(username string, opts bgg.CollectionOptions) string {
	return fmt.Sprintf("%s|owned=%t|noexp=%t", username, opts.OwnedOnly, opts.ExcludeExpansions)
}

func cachedCollection(ctx context.Context, client *bgg.Client, username string, opts bgg.CollectionOptions) ([]bgg.CollectionEntry, error) {
	entries, _, err := cache.GetOrFetch("bgg_collection_cache", collectionCacheKey(username, opts),
		func() ([]bgg.CollectionEntry, error) {
			return client.GetCollection(ctx, username, opts)
		})
	return entries, err
}

func cachedPlays(ctx context.Context, client *bgg.Client, username string) ([]bgg.Play, error) {
	plays, _, err := cache.GetOrFetch("bgg_plays_cache", username,
		func() ([]bgg.Play, error) {
			return client.GetPlays(ctx, username)
		})
	return plays, err
}

// cachedGameDetails resolves game details id by id against the cache and
// fetches only the misses, so the expensive batched endpoint is hit for
// new games alone. Results come back in input order.
func cachedGameDetails(ctx context.Context, client *bgg.Client, ids []int) ([]bgg.GameDetail, error) {
	cacheDB, err := cache.GetGlobalCache()
	if err != nil {
		slog.Warn("Failed to initialize cache, fetching directly", "error", err)
		return client.GetGameDetails(ctx, ids)
	}

	ttl := detailCacheTTL()
	found := make(map[int]bgg.GameDetail)
	var missing []int

	for _, id := range ids {
		if _, ok := found[id]; ok {
			continue
		}
		key := strconv.Itoa(id)
		if data, fromCache, err := cacheDB.Get("bgg_thing_cache", key, ttl); err == nil && fromCache {
			var detail bgg.GameDetail
			if err := json.Unmarshal([]byte(data), &detail); err == nil {
				found[id] = detail
				continue
			}
			slog.Warn("Failed to unmarshal cached game detail, refetching", "id", id, "error", err)
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		slog.Debug("Fetching game details", "cached", len(found), "missing", len(missing))
		fetched, err := client.GetGameDetails(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, detail := range fetched {
			found[detail.ObjectID] = detail
			data, err := json.Marshal(detail)
			if err != nil {
				slog.Warn("Failed to marshal game detail for caching", "id", detail.ObjectID, "error", err)
				continue
			}
			if err := cacheDB.Set("bgg_thing_cache", strconv.Itoa(detail.ObjectID), string(data)); err != nil {
				slog.Warn("Failed to cache game detail", "id", detail.ObjectID, "error", err)
			}
		}
	}

	results := make([]bgg.GameDetail, 0, len(found))
	seen := make(map[int]bool, len(found))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if detail, ok := found[id]; ok {
			results = append(results, detail)
		}
	}
	return results, nil
}

func detailCacheTTL() time.Duration {
	ttlStr := viper.GetString("cache.ttl")
	if ttlStr == "" {
		return cache.DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return cache.DefaultCacheTTL
	}
	return ttl
}
