package cache

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lepinkainen/meeple/internal/testutil"
	"github.com/spf13/viper"
)

type TestData struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func setupTestCache(t *testing.T) (*CacheDB, string) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	// Register test_cache as a valid table name for tests
	ValidCacheTableNames["test_cache"] = true
	t.Cleanup(func() {
		delete(ValidCacheTableNames, "test_cache")
	})

	env := testutil.NewTestEnv(t)
	tempDir := env.RootDir()
	dbPath := filepath.Join(tempDir, "test_cache.db")

	cache, err := NewCacheDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to create cache database: %v", err)
	}

	testSchema := `
		CREATE TABLE IF NOT EXISTS test_cache (
			cache_key TEXT PRIMARY KEY NOT NULL,
			data TEXT NOT NULL,
			cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if err := cache.CreateTable(testSchema); err != nil {
		t.Fatalf("Failed to create test table: %v", err)
	}

	viper.Set("cache.ttl", "1h")

	return cache, dbPath
}

func withGlobalCache(t *testing.T, cache *CacheDB) {
	t.Helper()

	oldCache := globalCache
	globalCache = cache
	globalCacheOnce = sync.Once{}
	globalCacheOnce.Do(func() {})

	t.Cleanup(func() {
		globalCache = oldCache
		globalCacheOnce = sync.Once{}
	})
}

func setCachedAt(t *testing.T, cache *CacheDB, tableName, key string, at time.Time) {
	t.Helper()

	if _, err := cache.db.Exec("UPDATE "+tableName+" SET cached_at = ? WHERE cache_key = ?", at.UTC(), key); err != nil {
		t.Fatalf("Failed to update cached_at: %v", err)
	}
}

func TestGetOrFetch_CacheHit(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	testKey := "test-key"
	testData := TestData{ID: 1, Name: "Test"}

	if err := cache.Set("test_cache", testKey, `{"id":1,"name":"Test"}`); err != nil {
		t.Fatalf("Failed to pre-populate cache: %v", err)
	}

	// Override global cache for this test - needs to happen BEFORE calling GetOrFetch
	withGlobalCache(t, cache)

	fetchCalled := false
	fetchFunc := func() (TestData, error) {
		fetchCalled = true
		return TestData{}, nil
	}

	result, fromCache, err := GetOrFetch("test_cache", testKey, fetchFunc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !fromCache {
		t.Error("Expected fromCache to be true")
	}
	if fetchCalled {
		t.Error("Expected fetch function not to be called")
	}
	if result.ID != testData.ID || result.Name != testData.Name {
		t.Errorf("Expected %+v, got %+v", testData, result)
	}
}

func TestGetOrFetch_CacheMiss(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	withGlobalCache(t, cache)

	testKey := "test-key"
	expectedData := TestData{ID: 2, Name: "Fetched"}

	fetchCalled := 0
	fetchFunc := func() (TestData, error) {
		fetchCalled++
		return expectedData, nil
	}

	result, fromCache, err := GetOrFetch("test_cache", testKey, fetchFunc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fromCache {
		t.Error("Expected fromCache to be false")
	}
	if fetchCalled != 1 {
		t.Errorf("Expected fetch function called once, got %d", fetchCalled)
	}
	if result != expectedData {
		t.Errorf("Expected %+v, got %+v", expectedData, result)
	}

	// Second call should hit the cache
	result, fromCache, err = GetOrFetch("test_cache", testKey, fetchFunc)
	if err != nil {
		t.Fatalf("Expected no error on second call, got %v", err)
	}
	if !fromCache {
		t.Error("Expected second call to be served from cache")
	}
	if fetchCalled != 1 {
		t.Errorf("Expected fetch function still called once, got %d", fetchCalled)
	}
	if result != expectedData {
		t.Errorf("Expected %+v, got %+v", expectedData, result)
	}
}

func TestGetOrFetch_RespectsTTLExpiration(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	withGlobalCache(t, cache)

	testKey := "stale-key"
	if err := cache.Set("test_cache", testKey, `{"id":1,"name":"Stale"}`); err != nil {
		t.Fatalf("Failed to pre-populate cache: %v", err)
	}
	setCachedAt(t, cache, "test_cache", testKey, time.Now().Add(-2*time.Hour))

	fresh := TestData{ID: 9, Name: "Fresh"}
	fetchCalled := 0
	result, fromCache, err := GetOrFetch("test_cache", testKey, func() (TestData, error) {
		fetchCalled++
		return fresh, nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fromCache {
		t.Error("Expected expired entry to be refetched")
	}
	if fetchCalled != 1 {
		t.Errorf("Expected fetch function called once, got %d", fetchCalled)
	}
	if result != fresh {
		t.Errorf("Expected %+v, got %+v", fresh, result)
	}
}

func TestGetOrFetch_FetchError(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	withGlobalCache(t, cache)

	fetchErr := errors.New("upstream unavailable")
	_, _, err := GetOrFetch("test_cache", "error-key", func() (TestData, error) {
		return TestData{}, fetchErr
	})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("Expected wrapped fetch error, got %v", err)
	}

	// Nothing should have been cached
	if cache.CacheExists("test_cache", "error-key") {
		t.Error("Expected no cache entry after fetch error")
	}
}

func TestCacheDB_GetSet(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	if err := cache.Set("test_cache", "key", `{"id":1}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, fromCache, err := cache.Get("test_cache", "key", time.Hour)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !fromCache {
		t.Error("Expected cache hit")
	}
	if data != `{"id":1}` {
		t.Errorf("Expected stored data, got %q", data)
	}
}

func TestCacheDB_GetExpired(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	if err := cache.Set("test_cache", "key", `{"id":1}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	setCachedAt(t, cache, "test_cache", "key", time.Now().Add(-2*time.Hour))

	_, fromCache, err := cache.Get("test_cache", "key", time.Hour)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fromCache {
		t.Error("Expected expired entry to miss")
	}
}

func TestCacheDB_ClearExpired(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	_ = cache.Set("test_cache", "old", `{"id":1}`)
	_ = cache.Set("test_cache", "new", `{"id":2}`)
	setCachedAt(t, cache, "test_cache", "old", time.Now().Add(-48*time.Hour))

	if err := cache.ClearExpired("test_cache", 24*time.Hour); err != nil {
		t.Fatalf("ClearExpired failed: %v", err)
	}

	if cache.CacheExists("test_cache", "old") {
		t.Error("Expected expired entry to be removed")
	}
	if !cache.CacheExists("test_cache", "new") {
		t.Error("Expected fresh entry to survive")
	}
}

func TestCacheDB_ClearAll(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	_ = cache.Set("test_cache", "key1", `{"id":1}`)
	_ = cache.Set("test_cache", "key2", `{"id":2}`)

	if err := cache.ClearAll("test_cache"); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	if cache.CacheExists("test_cache", "key1") || cache.CacheExists("test_cache", "key2") {
		t.Error("Expected all entries to be removed")
	}
}

func TestCacheDB_CacheExists(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	if cache.CacheExists("test_cache", "missing") {
		t.Error("Expected missing key to not exist")
	}

	_ = cache.Set("test_cache", "present", `{"id":1}`)
	if !cache.CacheExists("test_cache", "present") {
		t.Error("Expected stored key to exist")
	}

	if cache.CacheExists("not_a_table", "present") {
		t.Error("Expected invalid table to report non-existence")
	}
}

func TestCacheDB_InvalidateSource(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	for _, schema := range AllCacheSchemas {
		if err := cache.CreateTable(schema); err != nil {
			t.Fatalf("Failed to create cache table: %v", err)
		}
	}

	_ = cache.Set("bgg_thing_cache", "174430", `{"objectId":174430}`)
	_ = cache.Set("bgg_thing_cache", "224517", `{"objectId":224517}`)
	_ = cache.Set("bgg_collection_cache", "alice", `[]`)

	deleted, err := cache.InvalidateSource("bgg_thing_cache")
	if err != nil {
		t.Fatalf("InvalidateSource failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 rows deleted, got %d", deleted)
	}

	// Other tables are untouched
	if !cache.CacheExists("bgg_collection_cache", "alice") {
		t.Error("Expected collection cache to survive thing invalidation")
	}
}

func TestCacheDB_InvalidateSource_InvalidTable(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	if _, err := cache.InvalidateSource("users; DROP TABLE bgg_thing_cache"); err == nil {
		t.Error("Expected error for invalid table name")
	}
}

func TestCacheDB_InvalidateSource_EmptyTable(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	deleted, err := cache.InvalidateSource("test_cache")
	if err != nil {
		t.Fatalf("InvalidateSource failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected 0 rows deleted, got %d", deleted)
	}
}

func TestSelectNegativeCacheTTL(t *testing.T) {
	type cachedResult struct {
		NotFound bool
	}

	selector := SelectNegativeCacheTTL(func(r cachedResult) bool {
		return r.NotFound
	})

	if got := selector(cachedResult{NotFound: true}); got != NegativeCacheTTL {
		t.Errorf("Expected negative TTL %v, got %v", NegativeCacheTTL, got)
	}
	if got := selector(cachedResult{NotFound: false}); got != DefaultCacheTTL {
		t.Errorf("Expected default TTL %v, got %v", DefaultCacheTTL, got)
	}
}

func TestCacheDB_QueryRow(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	_ = cache.Set("test_cache", "key", `{"id":1}`)

	var data string
	err := cache.QueryRow("SELECT data FROM test_cache WHERE cache_key = ?", "key").Scan(&data)
	if err != nil {
		t.Fatalf("QueryRow failed: %v", err)
	}
	if data != `{"id":1}` {
		t.Errorf("Expected stored data, got %q", data)
	}
}

func TestCacheDB_QueryRow_NoResults(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	var data string
	err := cache.QueryRow("SELECT data FROM test_cache WHERE cache_key = ?", "missing").Scan(&data)
	if err != sql.ErrNoRows {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetOrFetchWithPolicy_SkipCaching(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	withGlobalCache(t, cache)

	fetchCalled := 0
	fetchFunc := func() (TestData, error) {
		fetchCalled++
		return TestData{ID: 3, Name: "Transient"}, nil
	}
	never := func(TestData) bool { return false }

	_, _, err := GetOrFetchWithPolicy("test_cache", "skip-key", fetchFunc, never)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cache.CacheExists("test_cache", "skip-key") {
		t.Error("Expected value not to be cached")
	}

	// Second call must fetch again
	_, fromCache, err := GetOrFetchWithPolicy("test_cache", "skip-key", fetchFunc, never)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fromCache {
		t.Error("Expected second call not to be served from cache")
	}
	if fetchCalled != 2 {
		t.Errorf("Expected 2 fetches, got %d", fetchCalled)
	}
}

func TestGetOrFetchWithTTL_NegativeCaching(t *testing.T) {
	cache, dbPath := setupTestCache(t)
	defer func() { _ = cache.Close() }()
	defer func() { _ = os.Remove(dbPath) }()

	withGlobalCache(t, cache)

	type cachedGame struct {
		Name     string `json:"name"`
		NotFound bool   `json:"notFound"`
	}

	fetchCalled := 0
	fetchFunc := func() (cachedGame, error) {
		fetchCalled++
		return cachedGame{NotFound: true}, nil
	}
	selector := SelectNegativeCacheTTL(func(r cachedGame) bool { return r.NotFound })

	result, fromCache, err := GetOrFetchWithTTL("test_cache", "missing-game", fetchFunc, selector)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fromCache {
		t.Error("Expected first call to fetch")
	}
	if !result.NotFound {
		t.Error("Expected not-found marker to round-trip")
	}

	// Not-found result is still cached
	result, fromCache, err = GetOrFetchWithTTL("test_cache", "missing-game", fetchFunc, selector)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !fromCache {
		t.Error("Expected second call to hit the cache")
	}
	if !result.NotFound {
		t.Error("Expected cached not-found marker")
	}
	if fetchCalled != 1 {
		t.Errorf("Expected 1 fetch, got %d", fetchCalled)
	}
}
