package deps

import (
	"time"

	"github.com/MrSnakeDoc/siteboard/internal/auth"
	"github.com/MrSnakeDoc/siteboard/internal/directory"
	"github.com/MrSnakeDoc/siteboard/internal/kv"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

type Deps struct {
	Logger      logger.Logger
	StartTime   time.Time
	Version     string
	Commit      string
	BuildDate   string
	GoVersion   string
	Directory   *directory.Service // lifecycle coordinator and read views
	Credentials *auth.Credentials  // admin login and token check
	Store       kv.Store           // pinged by /readyz

	AllowedHosts     []string // Host headers allowed on admin routes
	AllowedCIDRS     []string // IPs allowed on /healthz, /readyz, /metrics
	TrustProxy       bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	SubmitRateBurst  int      // token bucket size for public writes and login
	SubmitRatePerMin int      // token bucket refill per minute
}
