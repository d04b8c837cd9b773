package config

import "time"

// Session tunes the per-account event stream workers.
type Session struct {
	// StartDelay staggers account connections so a restart does not
	// slam the marketplace with simultaneous handshakes.
	StartDelay   time.Duration `env:"SESSION_START_DELAY" envDefault:"5s"`
	KeepAlive    time.Duration `env:"SESSION_KEEP_ALIVE" envDefault:"30s"`
	PriceCeiling int64         `env:"SESSION_PRICE_CEILING" envDefault:"10"`
	RetryDelay   time.Duration `env:"OFFER_RETRY_DELAY" envDefault:"30m"`
}
