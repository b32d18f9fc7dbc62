package bgg

import (
	"time"

	"github.com/lepinkainen/meeple/internal/xmljson"
)

// User is the record behind the username validation endpoint.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StatusValues carries the raw ownership flags of a collection entry. BGG
// emits them as "1"/"0" attribute strings in some API generations and as
// bare numbers in others, so the values stay generic until normalization.
type StatusValues struct {
	Own        xmljson.Value
	PrevOwned  xmljson.Value
	ForTrade   xmljson.Value
	Want       xmljson.Value
	WantToPlay xmljson.Value
	WantToBuy  xmljson.Value
	Wishlist   xmljson.Value
	Preordered xmljson.Value
}

// RankEntry is one row of the rank list attached to a game's statistics.
// Raw holds the rank value as emitted, which is either a number or the
// literal "Not Ranked".
type RankEntry struct {
	Type         string
	Name         string
	FriendlyName string
	Raw          xmljson.Value
}

// CollectionStats carries the stats block of a collection entry.
type CollectionStats struct {
	MinPlayers   int
	MaxPlayers   int
	MinPlaytime  int
	MaxPlaytime  int
	PlayingTime  int
	UsersRated   int
	Average      float64
	BayesAverage float64
}

// CollectionEntry is one item of a user's collection listing. ObjectID
// identifies the underlying game; CollID identifies this particular copy,
// so the same game can appear more than once.
type CollectionEntry struct {
	ObjectID      int
	CollID        int
	Name          string
	YearPublished int
	Image         string
	Thumbnail     string
	NumPlays      int
	UserRating    float64 // 0 when the user has not rated the game
	Status        StatusValues
	Stats         CollectionStats
	Ranks         []RankEntry
}

// Link is one association row of a game detail: category, mechanic,
// designer and several other types share the flat list, discriminated by
// Type. Splitting by type is the normalizer's job.
type Link struct {
	Type  string
	ID    int
	Value string
}

// GameDetail is the full record behind the thing endpoint.
type GameDetail struct {
	ObjectID      int
	Name          string // the name marked primary, or the first one
	Description   string
	YearPublished int
	Image         string
	Thumbnail     string
	MinPlayers    int
	MaxPlayers    int
	MinPlaytime   int
	MaxPlaytime   int
	UsersRated    int
	Average       float64
	BayesAverage  float64
	AverageWeight float64 // 1.0-5.0 complexity, 0 when unweighted
	Ranks         []RankEntry
	Links         []Link
}

// Play is one logged play of a game.
type Play struct {
	ID       int
	GameID   int
	Date     time.Time // zero when the play has no date
	Quantity int
}
