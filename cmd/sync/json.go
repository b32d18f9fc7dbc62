package sync

import (
	"github.com/lepinkainen/meeple/internal/config"
	"github.com/lepinkainen/meeple/internal/fileutil"
	"github.com/lepinkainen/meeple/internal/games"
)

func writeGamesToJson(list []games.Game, filename string) error {
	_, err := fileutil.WriteJSONFile(list, filename, config.OverwriteFiles)
	return err
}
