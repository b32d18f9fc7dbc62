package bgg

import (
	"strings"
	"time"

	"github.com/lepinkainen/meeple/internal/xmljson"
)

// The extractors project the generic converted tree into typed records.
// The same logical field can arrive as a bare scalar, a text-keyed mapping
// or a value-attribute mapping depending on the endpoint and API
// generation; xmljson.ResolveScalar owns that fallback chain.

// extractUser pulls a User out of the user endpoint payload. A payload
// without both id and name, or one carrying an error marker, reports a
// missing user rather than an error so callers can branch on existence.
func extractUser(v xmljson.Value) (User, bool) {
	if _, hasError := v.Get("error"); hasError {
		return User{}, false
	}

	var user User
	if idVal, ok := v.Get("id"); ok {
		user.ID, _ = xmljson.ResolveInt(idVal)
	}
	if nameVal, ok := v.Get("name"); ok {
		user.Name, _ = xmljson.ResolveString(nameVal)
	}
	if user.ID == 0 || user.Name == "" {
		return User{}, false
	}
	return user, true
}

// extractCollection pulls the entries out of a collection payload. An
// empty collection is a valid empty slice, not an error.
func extractCollection(v xmljson.Value) []CollectionEntry {
	items, ok := v.Get("item")
	if !ok {
		return []CollectionEntry{}
	}

	nodes := items.Items()
	entries := make([]CollectionEntry, 0, len(nodes))
	for _, node := range nodes {
		entries = append(entries, extractCollectionEntry(node))
	}
	return entries
}

func extractCollectionEntry(v xmljson.Value) CollectionEntry {
	entry := CollectionEntry{
		ObjectID: intField(v, "objectid"),
		CollID:   intField(v, "collid"),
		Name:     stringField(v, "name"),
		Image:    stringField(v, "image"),
		Thumbnail: stringField(v, "thumbnail"),
		YearPublished: intField(v, "yearpublished"),
		NumPlays:      intField(v, "numplays"),
	}

	if status, ok := v.Get("status"); ok {
		entry.Status = StatusValues{
			Own:        fieldValue(status, "own"),
			PrevOwned:  fieldValue(status, "prevowned"),
			ForTrade:   fieldValue(status, "fortrade"),
			Want:       fieldValue(status, "want"),
			WantToPlay: fieldValue(status, "wanttoplay"),
			WantToBuy:  fieldValue(status, "wanttobuy"),
			Wishlist:   fieldValue(status, "wishlist"),
			Preordered: fieldValue(status, "preordered"),
		}
	}

	if stats, ok := v.Get("stats"); ok {
		entry.Stats = CollectionStats{
			MinPlayers:  intField(stats, "minplayers"),
			MaxPlayers:  intField(stats, "maxplayers"),
			MinPlaytime: intField(stats, "minplaytime"),
			MaxPlaytime: intField(stats, "maxplaytime"),
			PlayingTime: intField(stats, "playingtime"),
		}
		if rating, ok := stats.Get("rating"); ok {
			// The user's own rating sits on the rating node itself; "N/A"
			// simply fails the float resolve and stays zero.
			entry.UserRating, _ = xmljson.ResolveFloat(rating)
			entry.Stats.UsersRated = intField(rating, "usersrated")
			entry.Stats.Average = floatField(rating, "average")
			entry.Stats.BayesAverage = floatField(rating, "bayesaverage")
			entry.Ranks = extractRanks(rating)
		}
	}

	return entry
}

// extractThings pulls the game details out of a thing payload.
func extractThings(v xmljson.Value) []GameDetail {
	items, ok := v.Get("item")
	if !ok {
		return []GameDetail{}
	}

	nodes := items.Items()
	details := make([]GameDetail, 0, len(nodes))
	for _, node := range nodes {
		details = append(details, extractGameDetail(node))
	}
	return details
}

func extractGameDetail(v xmljson.Value) GameDetail {
	detail := GameDetail{
		ObjectID:      intField(v, "id"),
		Name:          primaryName(v),
		Description:   stringField(v, "description"),
		YearPublished: intField(v, "yearpublished"),
		Image:         stringField(v, "image"),
		Thumbnail:     stringField(v, "thumbnail"),
		MinPlayers:    intField(v, "minplayers"),
		MaxPlayers:    intField(v, "maxplayers"),
		MinPlaytime:   intField(v, "minplaytime"),
		MaxPlaytime:   intField(v, "maxplaytime"),
	}

	if links, ok := v.Get("link"); ok {
		for _, node := range links.Items() {
			detail.Links = append(detail.Links, Link{
				Type:  stringField(node, "type"),
				ID:    intField(node, "id"),
				Value: stringField(node, "value"),
			})
		}
	}

	if stats, ok := v.Get("statistics"); ok {
		if ratings, ok := stats.Get("ratings"); ok {
			detail.UsersRated = intField(ratings, "usersrated")
			detail.Average = floatField(ratings, "average")
			detail.BayesAverage = floatField(ratings, "bayesaverage")
			detail.AverageWeight = floatField(ratings, "averageweight")
			detail.Ranks = extractRanks(ratings)
		}
	}

	return detail
}

// primaryName picks the name marked type="primary" among the possibly
// repeated name nodes, falling back to the first when none is marked.
func primaryName(v xmljson.Value) string {
	names, ok := v.Get("name")
	if !ok {
		return ""
	}

	nodes := names.Items()
	for _, node := range nodes {
		if kind, _ := xmljson.ResolveString(fieldValue(node, "type")); kind == "primary" {
			name, _ := xmljson.ResolveString(node)
			return name
		}
	}
	if len(nodes) > 0 {
		name, _ := xmljson.ResolveString(nodes[0])
		return name
	}
	return ""
}

// extractRanks reads the rank list under a ratings node. The raw rank
// value is kept as-is; mapping "Not Ranked" to an absent rank happens at
// normalization.
func extractRanks(ratings xmljson.Value) []RankEntry {
	ranksNode, ok := ratings.Get("ranks")
	if !ok {
		return nil
	}
	rankList, ok := ranksNode.Get("rank")
	if !ok {
		return nil
	}

	var ranks []RankEntry
	for _, node := range rankList.Items() {
		ranks = append(ranks, RankEntry{
			Type:         stringField(node, "type"),
			Name:         stringField(node, "name"),
			FriendlyName: stringField(node, "friendlyname"),
			Raw:          fieldValue(node, "value"),
		})
	}
	return ranks
}

// extractPlays pulls the play records out of one page of the plays
// endpoint.
func extractPlays(v xmljson.Value) []Play {
	playsNode, ok := v.Get("play")
	if !ok {
		return []Play{}
	}

	nodes := playsNode.Items()
	plays := make([]Play, 0, len(nodes))
	for _, node := range nodes {
		play := Play{
			ID:       intField(node, "id"),
			Quantity: intField(node, "quantity"),
		}
		if dateStr := stringField(node, "date"); dateStr != "" {
			if date, err := time.Parse("2006-01-02", dateStr); err == nil {
				play.Date = date
			}
		}
		if item, ok := node.Get("item"); ok {
			play.GameID = intField(item, "objectid")
		}
		plays = append(plays, play)
	}
	return plays
}

// isProcessingPayload detects the interstitial body BGG serves while a
// collection request is still being computed, which can arrive with a 200
// status. It checks the known message path for the known phrase and never
// fails: an unexpected shape is simply not a processing payload.
func isProcessingPayload(v xmljson.Value) bool {
	const acceptedPhrase = "Your request for this collection has been accepted"

	// A bare <message> root converts to a scalar; a message nested in a
	// larger document converts to a mapping entry.
	if text, ok := xmljson.ResolveString(v); ok {
		return strings.Contains(text, acceptedPhrase)
	}
	message, ok := v.Get("message")
	if !ok {
		return false
	}
	text, ok := xmljson.ResolveString(message)
	if !ok {
		return false
	}
	return strings.Contains(text, acceptedPhrase)
}

// fieldValue returns the named child or the zero Value.
func fieldValue(v xmljson.Value, key string) xmljson.Value {
	child, _ := v.Get(key)
	return child
}

func stringField(v xmljson.Value, key string) string {
	child, ok := v.Get(key)
	if !ok {
		return ""
	}
	s, _ := xmljson.ResolveString(child)
	return s
}

func intField(v xmljson.Value, key string) int {
	child, ok := v.Get(key)
	if !ok {
		return 0
	}
	n, _ := xmljson.ResolveInt(child)
	return n
}

func floatField(v xmljson.Value, key string) float64 {
	child, ok := v.Get(key)
	if !ok {
		return 0
	}
	n, _ := xmljson.ResolveFloat(child)
	return n
}
