package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRoute       = "route"
	KeyKind        = "kind"
	KeyPath        = "path"
	KeyOutput      = "output"
	KeyContentRoot = "content_root"
	KeyDurationMS  = "duration_ms"
	KeyRunID       = "run_id"
	KeyMethod      = "method"
	KeyStatus      = "status"
	KeyRemoteAddr  = "remote_addr"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Route(r string) slog.Attr         { return slog.String(KeyRoute, r) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Output(dir string) slog.Attr      { return slog.String(KeyOutput, dir) }
func ContentRoot(dir string) slog.Attr { return slog.String(KeyContentRoot, dir) }
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr    { return slog.String(KeyRemoteAddr, a) }

// Duration reports d in fractional milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d)/float64(time.Millisecond))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
