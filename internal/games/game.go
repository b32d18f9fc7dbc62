// Package games holds the canonical Game entity and the normalization
// that merges the independently fetched BGG record sets into it.
package games

import (
	"fmt"
	"time"
)

// Rank is a ranking position that can be legitimately absent. BGG reports
// unranked games with a literal "Not Ranked" sentinel; modeling absence
// explicitly keeps it distinct from rank zero, which does not exist.
type Rank struct {
	Value  int  `json:"value,omitempty"`
	Ranked bool `json:"ranked"`
}

// RankOf constructs a present rank.
func RankOf(value int) Rank {
	return Rank{Value: value, Ranked: true}
}

func (r Rank) String() string {
	if !r.Ranked {
		return "unranked"
	}
	return fmt.Sprintf("#%d", r.Value)
}

// Game is the canonical merged view of one collection entry. Identity is
// the (ObjectID, CollID) pair: ObjectID names the underlying game, CollID
// names this particular copy, so duplicates group by ObjectID but stay
// individually addressable.
type Game struct {
	ObjectID      int    `json:"objectid"`
	CollID        int    `json:"collid"`
	Name          string `json:"name"`
	YearPublished int    `json:"year_published,omitempty"`
	Image         string `json:"image,omitempty"`
	Thumbnail     string `json:"thumbnail,omitempty"`

	MinPlayers  int `json:"min_players,omitempty"`
	MaxPlayers  int `json:"max_players,omitempty"`
	MinPlaytime int `json:"min_playtime,omitempty"`
	MaxPlaytime int `json:"max_playtime,omitempty"`

	Own        bool `json:"own"`
	PrevOwned  bool `json:"prev_owned"`
	ForTrade   bool `json:"for_trade"`
	Want       bool `json:"want"`
	WantToPlay bool `json:"want_to_play"`
	WantToBuy  bool `json:"want_to_buy"`
	Wishlist   bool `json:"wishlist"`
	Preordered bool `json:"preordered"`

	Average      float64 `json:"average,omitempty"`
	BayesAverage float64 `json:"bayes_average,omitempty"`
	UsersRated   int     `json:"users_rated,omitempty"`
	Rank         Rank    `json:"rank"`
	StrategyRank Rank    `json:"strategy_rank"`
	UserRating   float64 `json:"user_rating,omitempty"`
	Weight       float64 `json:"weight,omitempty"`

	Description string   `json:"description,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Mechanics   []string `json:"mechanics,omitempty"`
	Designers   []string `json:"designers,omitempty"`

	NumPlays   int       `json:"num_plays"`
	LastPlayed time.Time `json:"last_played,omitempty"`
}
