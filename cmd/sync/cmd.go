// Package sync fetches a user's BoardGameGeek collection and writes it
// out as markdown notes, JSON and a Datasette-ready SQLite table.
package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/meeple/internal/bgg"
	"github.com/lepinkainen/meeple/internal/config"
)

// Options holds the parameters of one sync run.
type Options struct {
	Username   string
	Output     string
	WriteJSON  bool
	JSONOutput string

	OwnedOnly         bool
	IncludeExpansions bool
	SkipPlays         bool
	DownloadCovers    bool
}

// newClient is swappable in tests.
var newClient = func() *bgg.Client {
	var opts []bgg.Option
	if config.BGGAPIToken != "" {
		opts = append(opts, bgg.WithToken(config.BGGAPIToken))
	}
	return bgg.NewClient(opts...)
}

// ValidateUser checks that a BGG username exists.
func ValidateUser(username string) error {
	client := newClient()

	user, err := cachedUser(context.Background(), client, username)
	if err != nil {
		if bgg.IsNotFound(err) {
			return fmt.Errorf("no BGG user named %q", username)
		}
		return fmt.Errorf("failed to validate username: %w", err)
	}

	slog.Info("Username is valid", "username", user.Name, "id", user.ID)
	return nil
}
