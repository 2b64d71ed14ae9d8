package music_player

import "time"

// Config holds the music player module configuration.
type Config struct {
	LavalinkAddress    string        `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword   string        `env:"LAVALINK_PASSWORD,notEmpty"`
	LavalinkSecure     bool          `env:"LAVALINK_SECURE"                   envDefault:"false"`
	LavalinkNodeName   string        `env:"LAVALINK_NODE_NAME"                envDefault:"main"`
	DefaultSearch      string        `env:"DEFAULT_SEARCH_SOURCE"             envDefault:"ytsearch"`
	DefaultVolume      int           `env:"DEFAULT_VOLUME"                    envDefault:"100"`
	FilterSyncTimeout  time.Duration `env:"FILTER_SYNC_TIMEOUT"               envDefault:"5s"`
	FilterSyncInterval time.Duration `env:"FILTER_SYNC_INTERVAL"              envDefault:"0s"`
	RecoveryTimeout    time.Duration `env:"TRACK_RECOVERY_TIMEOUT"            envDefault:"10s"`
}
