package games

import (
	"time"

	"github.com/lepinkainen/meeple/internal/bgg"
	"github.com/lepinkainen/meeple/internal/xmljson"
)

// The merge functions are pure: every merge returns a new Game value and
// leaves its inputs untouched. A Game is rebuilt from scratch on each sync
// cycle; it has no persisted identity of its own.

// Link type discriminants of the thing endpoint's flat association list.
const (
	linkCategory = "boardgamecategory"
	linkMechanic = "boardgamemechanic"
	linkDesigner = "boardgamedesigner"
)

// Rank list names for the overall and strategy-category rankings.
const (
	rankOverall  = "boardgame"
	rankStrategy = "strategygames"
)

// FromCollectionEntry maps a collection entry to a Game.
func FromCollectionEntry(entry bgg.CollectionEntry) Game {
	return Game{
		ObjectID:      entry.ObjectID,
		CollID:        entry.CollID,
		Name:          entry.Name,
		YearPublished: entry.YearPublished,
		Image:         entry.Image,
		Thumbnail:     entry.Thumbnail,
		MinPlayers:    entry.Stats.MinPlayers,
		MaxPlayers:    entry.Stats.MaxPlayers,
		MinPlaytime:   entry.Stats.MinPlaytime,
		MaxPlaytime:   entry.Stats.MaxPlaytime,
		Own:           statusFlag(entry.Status.Own),
		PrevOwned:     statusFlag(entry.Status.PrevOwned),
		ForTrade:      statusFlag(entry.Status.ForTrade),
		Want:          statusFlag(entry.Status.Want),
		WantToPlay:    statusFlag(entry.Status.WantToPlay),
		WantToBuy:     statusFlag(entry.Status.WantToBuy),
		Wishlist:      statusFlag(entry.Status.Wishlist),
		Preordered:    statusFlag(entry.Status.Preordered),
		Average:       entry.Stats.Average,
		BayesAverage:  entry.Stats.BayesAverage,
		UsersRated:    entry.Stats.UsersRated,
		Rank:          rankNamed(entry.Ranks, rankOverall),
		StrategyRank:  rankNamed(entry.Ranks, rankStrategy),
		UserRating:    entry.UserRating,
		NumPlays:      entry.NumPlays,
	}
}

// FromDetail constructs a Game from detail-only data, for callers that
// never had a collection entry. Every ownership flag defaults to false and
// the play count to zero.
func FromDetail(detail bgg.GameDetail) Game {
	game := Game{
		ObjectID:      detail.ObjectID,
		Name:          detail.Name,
		YearPublished: detail.YearPublished,
		Image:         detail.Image,
		Thumbnail:     detail.Thumbnail,
		Average:       detail.Average,
		BayesAverage:  detail.BayesAverage,
		UsersRated:    detail.UsersRated,
		Rank:          rankNamed(detail.Ranks, rankOverall),
		StrategyRank:  rankNamed(detail.Ranks, rankStrategy),
	}
	return MergeDetail(game, detail)
}

// MergeDetail overlays detail-endpoint data onto a Game. Fields the detail
// payload does not carry leave the base Game untouched.
func MergeDetail(game Game, detail bgg.GameDetail) Game {
	if detail.Description != "" {
		game.Description = detail.Description
	}
	if detail.AverageWeight > 0 {
		game.Weight = detail.AverageWeight
	}
	if detail.MinPlayers > 0 {
		game.MinPlayers = detail.MinPlayers
	}
	if detail.MaxPlayers > 0 {
		game.MaxPlayers = detail.MaxPlayers
	}
	if detail.MinPlaytime > 0 {
		game.MinPlaytime = detail.MinPlaytime
	}
	if detail.MaxPlaytime > 0 {
		game.MaxPlaytime = detail.MaxPlaytime
	}
	if detail.Image != "" {
		game.Image = detail.Image
	}
	if detail.Thumbnail != "" {
		game.Thumbnail = detail.Thumbnail
	}

	if categories := linkValues(detail.Links, linkCategory); len(categories) > 0 {
		game.Categories = categories
	}
	if mechanics := linkValues(detail.Links, linkMechanic); len(mechanics) > 0 {
		game.Mechanics = mechanics
	}
	if designers := linkValues(detail.Links, linkDesigner); len(designers) > 0 {
		game.Designers = designers
	}

	return game
}

// playAggregate is the per-game rollup of a play history.
type playAggregate struct {
	count    int
	lastDate int64 // unix seconds of the most recent play; 0 when undated
}

// MergePlays folds a play history into the games. The total quantity of a
// game's plays becomes its play count, the most recent play date its
// last-played date. A game with no matching plays keeps its existing play
// count and gets no last-played date. Aggregation builds one lookup over
// the plays, keeping the merge linear in entries plus plays.
func MergePlays(gamesList []Game, plays []bgg.Play) []Game {
	aggregates := make(map[int]playAggregate, len(gamesList))
	for _, play := range plays {
		agg := aggregates[play.GameID]
		quantity := play.Quantity
		if quantity == 0 {
			quantity = 1
		}
		agg.count += quantity
		if !play.Date.IsZero() && play.Date.Unix() > agg.lastDate {
			agg.lastDate = play.Date.Unix()
		}
		aggregates[play.GameID] = agg
	}

	merged := make([]Game, len(gamesList))
	for i, game := range gamesList {
		merged[i] = game
		if agg, ok := aggregates[game.ObjectID]; ok {
			merged[i].NumPlays = agg.count
			if agg.lastDate > 0 {
				merged[i].LastPlayed = unixDate(agg.lastDate)
			}
		}
	}
	return merged
}

// statusFlag implements the ownership flag rule: the underlying field is
// true only when it equals numeric 1 or the string "1".
func statusFlag(v xmljson.Value) bool {
	if n, ok := v.Num(); ok {
		return n == 1
	}
	if s, ok := v.Str(); ok {
		return s == "1"
	}
	return false
}

// rankNamed finds the rank entry with the given name. The "Not Ranked"
// sentinel is checked after the lookup, not before, and maps to an absent
// rank rather than a parse error.
func rankNamed(ranks []bgg.RankEntry, name string) Rank {
	for _, entry := range ranks {
		if entry.Name != name {
			continue
		}
		if s, ok := entry.Raw.Str(); ok && s == "Not Ranked" {
			return Rank{}
		}
		if n, ok := entry.Raw.Num(); ok && n > 0 {
			return RankOf(int(n))
		}
		return Rank{}
	}
	return Rank{}
}

func unixDate(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func linkValues(links []bgg.Link, linkType string) []string {
	var values []string
	for _, link := range links {
		if link.Type == linkType && link.Value != "" {
			values = append(values, link.Value)
		}
	}
	return values
}
