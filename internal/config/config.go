package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing markdown files should be overwritten
	OverwriteFiles bool
	// UpdateCovers controls whether existing cover images are re-downloaded
	UpdateCovers bool
	// Username is the default BGG username used when a command omits one
	Username string
	// BGGAPIToken is an optional bearer token for authenticated BGG requests
	BGGAPIToken string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("UpdateCovers", false)

	// Get values from viper
	OverwriteFiles = viper.GetBool("OverwriteFiles")
	UpdateCovers = viper.GetBool("UpdateCovers")
	Username = viper.GetString("bgg.username")
	BGGAPIToken = viper.GetString("bgg.apitoken")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// SetUpdateCovers sets the UpdateCovers flag
func SetUpdateCovers(update bool) {
	UpdateCovers = update
}
