package postgres

import (
	"context"
	"math"

	"yahveh/pkg/logger"
)

// NarrowID converts a BIGINT identity returned by the procedure layer to
// the int32 width used across the API. Values outside the int32 range are
// truncated with a logged warning rather than failing the whole request.
// Known limitation of the identity scheme; do not silently widen.
func NarrowID(ctx context.Context, field string, v int64) int32 {
	if v > math.MaxInt32 || v < math.MinInt32 {
		logger.Warn(ctx, "identity exceeds 32-bit range, truncating",
			"field", field,
			"value", v,
		)
	}
	return int32(v)
}
