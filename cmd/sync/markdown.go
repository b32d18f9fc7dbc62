package sync

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/meeple/internal/config"
	"github.com/lepinkainen/meeple/internal/fileutil"
	"github.com/lepinkainen/meeple/internal/games"
	"github.com/lepinkainen/meeple/internal/obsidian"
)

// writeGameNote renders a game as a markdown note and writes it to the
// output directory, respecting the overwrite flag.
func writeGameNote(game games.Game, coverPath string, directory string) error {
	content := buildGameNote(game, coverPath)
	path := fileutil.GetMarkdownFilePath(game.Name, directory)

	written, err := fileutil.WriteFileWithOverwrite(path, []byte(content), 0644, config.OverwriteFiles)
	if err != nil {
		return err
	}
	if !written {
		slog.Debug("Markdown file already exists, skipping", "path", path)
	}
	return nil
}

func buildGameNote(game games.Game, coverPath string) string {
	mb := fileutil.NewMarkdownBuilder()

	mb.AddTitle(game.Name).
		AddType("boardgame").
		AddYear(game.YearPublished).
		AddField("objectid", game.ObjectID).
		AddField("collid", game.CollID).
		AddField("min_players", game.MinPlayers).
		AddField("max_players", game.MaxPlayers).
		AddField("playtime", game.MaxPlaytime).
		AddField("rating", game.Average).
		AddField("user_rating", game.UserRating).
		AddField("weight", game.Weight).
		AddField("plays", game.NumPlays)

	if game.Rank.Ranked {
		mb.AddField("rank", game.Rank.Value)
	}
	if game.StrategyRank.Ranked {
		mb.AddField("strategy_rank", game.StrategyRank.Value)
	}
	if !game.LastPlayed.IsZero() {
		mb.AddField("last_played", game.LastPlayed.Format("2006-01-02"))
	}
	if coverPath != "" {
		mb.AddField("cover", coverPath)
	}

	mb.AddStringArray("categories", game.Categories).
		AddStringArray("mechanics", game.Mechanics).
		AddStringArray("designers", game.Designers)

	mb.AddTags(gameTags(game, mb)...)

	if coverPath != "" {
		mb.AddImage(coverPath)
	}
	mb.AddParagraph(game.Description)

	mb.AddCallout("info", "Game Details", gameDetailsCallout(game))

	mb.AddExternalLinksCallout("Links", map[string]string{
		"BoardGameGeek": fmt.Sprintf("https://boardgamegeek.com/boardgame/%d", game.ObjectID),
	})

	return mb.Build()
}

func gameTags(game games.Game, mb *fileutil.MarkdownBuilder) []string {
	tags := obsidian.NewTagSet()
	tags.Add("boardgame")
	tags.AddIf(game.Own, "boardgame/owned")
	tags.AddIf(game.PrevOwned, "boardgame/previously-owned")
	tags.AddIf(game.ForTrade, "boardgame/for-trade")
	tags.AddIf(game.Wishlist, "boardgame/wishlist")
	tags.AddIf(game.Preordered, "boardgame/preordered")
	tags.AddIf(game.WantToPlay, "boardgame/want-to-play")
	tags.AddIf(game.NumPlays == 0, "boardgame/unplayed")
	if game.YearPublished > 0 {
		tags.Add(mb.GetDecadeTag(game.YearPublished))
	}
	return tags.GetSorted()
}

func gameDetailsCallout(game games.Game) string {
	var lines []string

	if game.MinPlayers > 0 || game.MaxPlayers > 0 {
		lines = append(lines, fmt.Sprintf("**Players**: %s", formatPlayerCount(game.MinPlayers, game.MaxPlayers)))
	}
	if game.MinPlaytime > 0 || game.MaxPlaytime > 0 {
		lines = append(lines, fmt.Sprintf("**Playtime**: %s", formatPlaytime(game.MinPlaytime, game.MaxPlaytime)))
	}
	if game.Average > 0 {
		lines = append(lines, fmt.Sprintf("**Rating**: %.1f (%d ratings)", game.Average, game.UsersRated))
	}
	if game.UserRating > 0 {
		lines = append(lines, fmt.Sprintf("**My Rating**: %.1f", game.UserRating))
	}
	if game.Rank.Ranked {
		lines = append(lines, fmt.Sprintf("**BGG Rank**: %s", game.Rank))
	}
	if game.Weight > 0 {
		lines = append(lines, fmt.Sprintf("**Weight**: %.2f / 5", game.Weight))
	}
	if game.NumPlays > 0 {
		lines = append(lines, fmt.Sprintf("**Plays**: %d", game.NumPlays))
	}

	return strings.Join(lines, "\n")
}

func formatPlayerCount(minPlayers, maxPlayers int) string {
	if minPlayers == maxPlayers || maxPlayers == 0 {
		return fmt.Sprintf("%d", minPlayers)
	}
	return fmt.Sprintf("%d-%d", minPlayers, maxPlayers)
}

func formatPlaytime(minPlaytime, maxPlaytime int) string {
	if minPlaytime == maxPlaytime || maxPlaytime == 0 {
		return fmt.Sprintf("%d min", minPlaytime)
	}
	return fmt.Sprintf("%d-%d min", minPlaytime, maxPlaytime)
}
