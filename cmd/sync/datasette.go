package sync

import (
	"github.com/lepinkainen/meeple/internal/cmdutil"
	"github.com/lepinkainen/meeple/internal/games"
)

const gamesTableSchema = `CREATE TABLE IF NOT EXISTS games (
	object_id INTEGER NOT NULL,
	coll_id INTEGER NOT NULL,
	name TEXT,
	year_published INTEGER,
	image TEXT,
	thumbnail TEXT,
	min_players INTEGER,
	max_players INTEGER,
	min_playtime INTEGER,
	max_playtime INTEGER,
	own BOOLEAN,
	prev_owned BOOLEAN,
	for_trade BOOLEAN,
	want BOOLEAN,
	want_to_play BOOLEAN,
	want_to_buy BOOLEAN,
	wishlist BOOLEAN,
	preordered BOOLEAN,
	average REAL,
	bayes_average REAL,
	users_rated INTEGER,
	rank INTEGER,
	strategy_rank INTEGER,
	user_rating REAL,
	weight REAL,
	description TEXT,
	categories TEXT,
	mechanics TEXT,
	designers TEXT,
	num_plays INTEGER,
	last_played TEXT,
	PRIMARY KEY (object_id, coll_id)
)`

// gameToMap flattens a game into a row for the games table. Absent ranks
// become NULL so "unranked" stays distinct from any numeric position.
func gameToMap(game games.Game) map[string]any {
	record := cmdutil.StructToMap(game, cmdutil.StructToMapOptions{
		OmitFields:       map[string]bool{"Rank": true, "StrategyRank": true},
		JoinStringSlices: true,
	})

	record["rank"] = rankColumn(game.Rank)
	record["strategy_rank"] = rankColumn(game.StrategyRank)
	return record
}

func rankColumn(rank games.Rank) any {
	if !rank.Ranked {
		return nil
	}
	return rank.Value
}

func writeDatasette(list []games.Game) error {
	return cmdutil.WriteToDatastore(list, gamesTableSchema, "games", "BGG games", gameToMap)
}
