package config

import (
	"time"

	"github.com/spf13/viper"
)

// RateLimitConfig configures the Redis token bucket applied to the
// conversation endpoints.  Each key (see KeyStrategy) starts with Capacity
// tokens and regains RefillTokens every RefillInterval.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Capacity       int           `mapstructure:"capacity"`
	RefillTokens   int           `mapstructure:"refill_tokens"`
	RefillInterval time.Duration `mapstructure:"refill_interval"`
	TTL            time.Duration `mapstructure:"ttl"`
	KeyStrategy    string        `mapstructure:"key_strategy"` // ip | user | route | ip_user | user_route | ip_user_route
	Prefix         string        `mapstructure:"prefix"`
}

func setRateLimitDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.capacity", 60)
	v.SetDefault("rate_limit.refill_tokens", 1)
	v.SetDefault("rate_limit.refill_interval", time.Second)
	v.SetDefault("rate_limit.ttl", 10*time.Minute)
	v.SetDefault("rate_limit.key_strategy", "user_route")
	v.SetDefault("rate_limit.prefix", "rl")
}

// normalize clamps values that would make the bucket useless and keeps the
// key alive for at least five refill intervals.
func (r *RateLimitConfig) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
}
