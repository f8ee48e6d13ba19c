package postgres

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNarrowID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		value int64
		want  int32
	}{
		{"small id passes through", 42, 42},
		{"zero", 0, 0},
		{"max int32", math.MaxInt32, math.MaxInt32},
		{"min int32", math.MinInt32, math.MinInt32},
		{"overflow truncates", math.MaxInt32 + 1, math.MinInt32},
		{"underflow truncates", math.MinInt32 - 1, math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NarrowID(ctx, "codnotaentrega", tt.value))
		})
	}
}
