package database

import (
	"fmt"
	"net/url"

	"github.com/mfine/stockfighter/internal/config"
)

// appName shows up in pg_stat_activity, so recorder sessions are
// distinguishable from ad-hoc connections.
const appName = "stockfighter-recorder"

// BuildConnString renders cfg as a postgres:// URL. Credentials go through
// URL escaping, so passwords containing separators survive.
func BuildConnString(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("application_name", appName)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
