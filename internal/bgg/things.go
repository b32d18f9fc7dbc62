package bgg

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetGameDetails fetches details for the given game ids. The thing
// endpoint caps the id list per call, so the ids are partitioned into
// batches of 20 and issued strictly sequentially with a courtesy pause
// between batches. The pause is preventative pacing to stay on BGG's good
// side, separate from the error backoff inside the fetch layer.
//
// Ids already fetched during this run are served from the in-process memo
// without touching the network.
func (c *Client) GetGameDetails(ctx context.Context, ids []int) ([]GameDetail, error) {
	if len(ids) == 0 {
		return []GameDetail{}, nil
	}

	found := make(map[int]GameDetail, len(ids))
	var missing []int
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if detail, ok := c.memo.Get(id); ok {
			found[id] = detail
			continue
		}
		missing = append(missing, id)
	}

	for i := 0; i < len(missing); i += thingBatchSize {
		if i > 0 && c.batchDelay > 0 {
			c.sleep(c.batchDelay)
		}

		end := i + thingBatchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[i:end]
		slog.Debug("Fetching game details batch", "ids", len(batch), "offset", i)

		details, err := c.fetchThingBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		for _, detail := range details {
			found[detail.ObjectID] = detail
			c.memo.Add(detail.ObjectID, detail)
		}
	}

	// Results come back in input order; ids the API did not return are
	// silently absent, matching the endpoint's own behavior.
	results := make([]GameDetail, 0, len(found))
	for _, id := range ids {
		if detail, ok := found[id]; ok {
			results = append(results, detail)
			delete(found, id)
		}
	}
	return results, nil
}

// GetGame fetches a single game's details.
func (c *Client) GetGame(ctx context.Context, id int) (GameDetail, error) {
	details, err := c.GetGameDetails(ctx, []int{id})
	if err != nil {
		return GameDetail{}, err
	}
	if len(details) == 0 {
		return GameDetail{}, &NotFoundError{Kind: "game", ID: id}
	}
	return details[0], nil
}

func (c *Client) fetchThingBatch(ctx context.Context, ids []int) ([]GameDetail, error) {
	idList := make([]string, len(ids))
	for i, id := range ids {
		idList[i] = strconv.Itoa(id)
	}

	query := url.Values{}
	query.Set("id", strings.Join(idList, ","))
	query.Set("stats", "1")

	resp, err := c.fetchWithRetry(ctx, c.endpointURL("/thing", query))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return []GameDetail{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "thing lookup failed"}
	}

	payload, err := parsePayload(resp.Body)
	if err != nil {
		return nil, err
	}
	return extractThings(payload), nil
}
