package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// UserCacheSchema defines the schema for validated BGG user profiles
const UserCacheSchema = `
CREATE TABLE IF NOT EXISTS bgg_user_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bgg_user_cached_at ON bgg_user_cache(cached_at);
`

// CollectionCacheSchema defines the schema for per-user collection snapshots
const CollectionCacheSchema = `
CREATE TABLE IF NOT EXISTS bgg_collection_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bgg_collection_cached_at ON bgg_collection_cache(cached_at);
`

// ThingCacheSchema defines the schema for per-game detail records
const ThingCacheSchema = `
CREATE TABLE IF NOT EXISTS bgg_thing_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bgg_thing_cached_at ON bgg_thing_cache(cached_at);
`

// PlaysCacheSchema defines the schema for per-user logged plays
const PlaysCacheSchema = `
CREATE TABLE IF NOT EXISTS bgg_plays_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bgg_plays_cached_at ON bgg_plays_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	UserCacheSchema,
	CollectionCacheSchema,
	ThingCacheSchema,
	PlaysCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"bgg_user_cache":       true,
	"bgg_collection_cache": true,
	"bgg_thing_cache":      true,
	"bgg_plays_cache":      true,
}
