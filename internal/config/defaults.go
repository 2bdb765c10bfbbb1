package config

import "time"

// Default values applied to every field no other source has set.
const (
	DefaultNamespace         = "ieadban"
	DefaultCacheDSN          = "church-sync.db"
	DefaultServerDSN         = "church-sync-server.db"
	DefaultHTTPAddress       = "localhost:8080"
	DefaultRequestTimeout    = 10 * time.Second
	DefaultReconnectInterval = 5 * time.Second
	DefaultPingInterval      = 20 * time.Second
	DefaultFallbackTimeout   = 6 * time.Second
	DefaultGraceDelay        = 800 * time.Millisecond
	DefaultGroupAddress      = "239.255.77.77:7777"
	DefaultChannel           = "ieadban_global_sync"
	DefaultTokenIssuer       = "church-sync"
	DefaultTokenDuration     = 365 * 24 * time.Hour
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Namespace: DefaultNamespace,
			Version:   "dev",
		},
		Storage: Storage{
			Cache: DB{DSN: DefaultCacheDSN},
			DB:    DB{DSN: DefaultServerDSN},
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:       DefaultHTTPAddress,
			RequestTimeout:    DefaultRequestTimeout,
			ReconnectInterval: DefaultReconnectInterval,
			PingInterval:      DefaultPingInterval,
		},
		Sync: Sync{
			FallbackTimeout: DefaultFallbackTimeout,
			GraceDelay:      DefaultGraceDelay,
		},
		Broadcast: Broadcast{
			Mode:         BroadcastMulticast,
			GroupAddress: DefaultGroupAddress,
			Channel:      DefaultChannel,
		},
		Auth: Auth{
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: DefaultTokenDuration,
		},
	}
}
