package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkmemo/internal/capture"
	"github.com/MrSnakeDoc/linkmemo/internal/logger"
	"github.com/MrSnakeDoc/linkmemo/internal/memo"
	"github.com/MrSnakeDoc/linkmemo/internal/render"
)

// CaptureQueue holds pending captures until their form claims them.
type CaptureQueue interface {
	SavePending(ctx context.Context, p capture.Pending) error
	ClaimPending(ctx context.Context, id string) (capture.Pending, error)
	CountPending(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed to access the server
	AllowedCIDRS  []string         // client IPs allowed to reach the API
	TrustProxy    bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	MemoFile      string           // path of the Markdown memo document
	Store         *memo.Store      // in-memory entry list backed by MemoFile
	Renderer      *render.Renderer // Markdown to HTML for GET /document
	Captures      CaptureQueue     // nil when Redis is not configured
	ReloadTrigger chan struct{}    // manual reload of the memo file
	CaptureBurst  int              // captures accepted in a burst per client
	CapturePerMin int              // sustained captures per minute per client
}

// Now returns TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
