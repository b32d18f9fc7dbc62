package sync

import (
	"github.com/lepinkainen/meeple/internal/config"
	"github.com/lepinkainen/meeple/internal/fileutil"
	"github.com/lepinkainen/meeple/internal/games"
)

const maxCoverWidth = 1000

// downloadCover fetches the game's box art into the attachments directory
// and returns the note-relative path, or "" when the game has no image.
func downloadCover(game games.Game, outputDir string) (string, error) {
	if game.Image == "" {
		return "", nil
	}

	result, err := fileutil.DownloadCover(fileutil.CoverDownloadOptions{
		URL:          game.Image,
		OutputDir:    outputDir,
		Filename:     fileutil.BuildCoverFilename(game.Name),
		UpdateCovers: config.UpdateCovers,
	})
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}

	if result.Downloaded {
		if err := fileutil.ResizeCover(result.LocalPath, maxCoverWidth); err != nil {
			return result.RelativePath, err
		}
	}

	return result.RelativePath, nil
}
