package config

var (
	NewTrayConfig     = newTrayConfig
	NewPostgresConfig = newPostgresConfig
	NewRedisConfig    = newRedisConfig
	NewDiscordConfig  = newDiscordConfig
)
