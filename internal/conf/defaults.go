// defaults.go default values for configuration settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaultConfig sets the default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main config
	viper.SetDefault("main.name", "MetScout")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs")

	// Upstream Met collection API
	viper.SetDefault("metapi.baseurl", "https://collectionapi.metmuseum.org/public/collection/v1")
	viper.SetDefault("metapi.useragent", "MetScout https://github.com/metscout/metscout")
	viper.SetDefault("metapi.searchtimeout", 15*time.Second)
	viper.SetDefault("metapi.objecttimeout", 8*time.Second)

	// Response cache
	viper.SetDefault("cache.store", "memory")
	viper.SetDefault("cache.searchttl", 24*time.Hour)
	viper.SetDefault("cache.objectttl", 7*24*time.Hour)
	viper.SetDefault("cache.timelinettl", 24*time.Hour)
	viper.SetDefault("cache.negativettl", 10*time.Minute)
	viper.SetDefault("cache.file.path", "cache")
	viper.SetDefault("cache.redis.addr", "localhost:6379")
	viper.SetDefault("cache.redis.password", "")
	viper.SetDefault("cache.redis.db", 0)

	// Permanent blacklist, ids that 404 or return broken data at the source
	viper.SetDefault("blacklist.permanent", []int{})

	// Curated timeline assembly
	viper.SetDefault("timeline.batchsize", 30)
	viper.SetDefault("timeline.batchpause", 50*time.Millisecond)
	viper.SetDefault("timeline.poolfactor", 40)
	viper.SetDefault("timeline.perquerycap", 50)
	viper.SetDefault("timeline.periodsfile", "")

	// HTTP proxy server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
}
