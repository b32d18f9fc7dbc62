package pick

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/meeple/internal/games"
	"github.com/lepinkainen/meeple/internal/obsidian"
	"github.com/lepinkainen/meeple/internal/tui"
)

const brassNote = `---
categories: [Economic, Industry]
collid: 10
last_played: "2024-11-02"
max_players: 4
mechanics: [Network Building]
min_players: 2
objectid: 224517
playtime: 120
plays: 4
rank: 2
rating: 8.6
tags: [boardgame, boardgame/owned, year/2010s]
title: "Brass: Birmingham"
type: boardgame
user_rating: 9
weight: 3.87
year: 2018
---
A sequel to the masterpiece.
`

const cascadiaNote = `---
collid: 20
max_players: 4
min_players: 1
objectid: 295947
playtime: 45
rating: 7.9
tags: [boardgame, boardgame/owned, boardgame/unplayed, year/2020s]
title: Cascadia
type: boardgame
weight: 1.85
year: 2021
---
Habitats and wildlife of the Pacific Northwest.
`

func writeNote(t *testing.T, dir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644))
}

func setupNotesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeNote(t, dir, "Brass Birmingham.md", brassNote)
	writeNote(t, dir, "Cascadia.md", cascadiaNote)
	return dir
}

func TestGameFromNote(t *testing.T) {
	note, err := obsidian.ParseMarkdown([]byte(brassNote))
	require.NoError(t, err)

	game := gameFromNote(note.Frontmatter)

	assert.Equal(t, 224517, game.ObjectID)
	assert.Equal(t, 10, game.CollID)
	assert.Equal(t, "Brass: Birmingham", game.Name)
	assert.Equal(t, 2018, game.YearPublished)
	assert.Equal(t, 2, game.MinPlayers)
	assert.Equal(t, 4, game.MaxPlayers)
	assert.Equal(t, 120, game.MaxPlaytime)
	assert.Equal(t, 8.6, game.Average)
	assert.Equal(t, 9.0, game.UserRating)
	assert.Equal(t, 3.87, game.Weight)
	assert.Equal(t, 4, game.NumPlays)
	assert.Equal(t, []string{"Economic", "Industry"}, game.Categories)
	assert.Equal(t, []string{"Network Building"}, game.Mechanics)
	assert.True(t, game.Own)
	assert.True(t, game.Rank.Ranked)
	assert.Equal(t, 2, game.Rank.Value)
	assert.False(t, game.StrategyRank.Ranked)
	assert.Equal(t, time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC), game.LastPlayed)
}

func TestLoadCollection(t *testing.T) {
	dir := setupNotesDir(t)
	// Notes of other types and stray files must be ignored.
	writeNote(t, dir, "Dune.md", "---\ntitle: Dune\ntype: movie\n---\n")
	writeNote(t, dir, "notes.txt", "not markdown")

	collection, err := loadCollection(dir)
	require.NoError(t, err)
	require.Len(t, collection, 2)

	names := []string{collection[0].Name, collection[1].Name}
	assert.Contains(t, names, "Brass: Birmingham")
	assert.Contains(t, names, "Cascadia")
}

func TestLoadCollectionMissingDir(t *testing.T) {
	_, err := loadCollection(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read notes directory")
}

func TestFilterGames(t *testing.T) {
	collection := []games.Game{
		{Name: "Heavy", Weight: 4.2, MinPlayers: 2, MaxPlayers: 4, MaxPlaytime: 180, NumPlays: 5},
		{Name: "Light", Weight: 1.5, MinPlayers: 1, MaxPlayers: 6, MaxPlaytime: 30},
		{Name: "Duel", Weight: 2.3, MinPlayers: 2, MaxPlayers: 2, MaxPlaytime: 45, NumPlays: 12},
	}

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "no filters",
			opts: Options{},
			want: []string{"Heavy", "Light", "Duel"},
		},
		{
			name: "unplayed only",
			opts: Options{Unplayed: true},
			want: []string{"Light"},
		},
		{
			name: "max weight",
			opts: Options{MaxWeight: 2.5},
			want: []string{"Light", "Duel"},
		},
		{
			name: "min players",
			opts: Options{MinPlayers: 4},
			want: []string{"Heavy", "Light"},
		},
		{
			name: "max playtime",
			opts: Options{MaxPlaytime: 60},
			want: []string{"Light", "Duel"},
		},
		{
			name: "combined",
			opts: Options{MaxWeight: 3.0, MaxPlaytime: 40},
			want: []string{"Light"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := filterGames(collection, tt.opts)
			var names []string
			for _, game := range filtered {
				names = append(names, game.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSupportsPlayers(t *testing.T) {
	assert.True(t, supportsPlayers(games.Game{MinPlayers: 2, MaxPlayers: 4}, 4))
	assert.False(t, supportsPlayers(games.Game{MinPlayers: 2, MaxPlayers: 4}, 5))
	// Solo-only note with a single player count.
	assert.True(t, supportsPlayers(games.Game{MinPlayers: 1}, 1))
	assert.False(t, supportsPlayers(games.Game{MinPlayers: 1}, 2))
	// No player data at all passes through.
	assert.True(t, supportsPlayers(games.Game{}, 6))
}

func TestPickGameSingleCandidate(t *testing.T) {
	dir := setupNotesDir(t)

	// The unplayed filter leaves exactly Cascadia, and a single-element
	// pick is deterministic.
	err := PickGame(Options{Dir: dir, Unplayed: true})
	require.NoError(t, err)
}

func TestPickGameNoMatches(t *testing.T) {
	dir := setupNotesDir(t)

	err := PickGame(Options{Dir: dir, MaxWeight: 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match the given filters")
}

func TestPickGameEmptyDir(t *testing.T) {
	err := PickGame(Options{Dir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run a sync first")
}

func TestPickGameInteractive(t *testing.T) {
	dir := setupNotesDir(t)

	prevBrowser := pickBrowser
	defer func() { pickBrowser = prevBrowser }()

	var seen []string
	pickBrowser = func(candidates []games.Game, reroll func() (games.Game, error)) (tui.PickResult, error) {
		for _, game := range candidates {
			seen = append(seen, game.Name)
		}
		suggestion, err := reroll()
		require.NoError(t, err)
		return tui.PickResult{Action: tui.ActionAccepted, Game: &suggestion}, nil
	}

	err := PickGame(Options{Dir: dir, Interactive: true})
	require.NoError(t, err)

	// Sorted by rating, highest first.
	assert.Equal(t, []string{"Brass: Birmingham", "Cascadia"}, seen)
}
