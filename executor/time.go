package executor

import (
	"time"

	"github.com/FocuswithJustin/jitexpr/ir"
)

// epoch matches luaenv's DATE/TIMESTAMP reference point, so the
// interpreter's EXTRACT results agree with the JIT path's.
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

func extractTime(t ir.LogicalType, raw int64) time.Time {
	if t == ir.TIMESTAMP {
		return epoch.Add(time.Duration(raw) * time.Microsecond)
	}
	return epoch.AddDate(0, 0, int(raw))
}
