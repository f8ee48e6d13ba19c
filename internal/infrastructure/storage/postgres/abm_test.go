package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yahveh/internal/core/apperror"
)

func TestAbmResultOutcome(t *testing.T) {
	noteID := int64(1234)

	tests := []struct {
		name       string
		result     AbmResult
		wantValue  *int64
		wantErr    bool
		wantErrMsg string
	}{
		{
			name:      "success with identity",
			result:    AbmResult{Error: 0, ErrorMsg: "", Result: &noteID},
			wantValue: &noteID,
		},
		{
			name:      "success with null result",
			result:    AbmResult{Error: 0, ErrorMsg: ""},
			wantValue: nil,
		},
		{
			name:       "business rule violation carries message verbatim",
			result:     AbmResult{Error: 1, ErrorMsg: "La nota de entrega ya se encuentra anulada"},
			wantErr:    true,
			wantErrMsg: "La nota de entrega ya se encuentra anulada",
		},
		{
			name:       "nonzero error with empty message",
			result:     AbmResult{Error: -1, ErrorMsg: ""},
			wantErr:    true,
			wantErrMsg: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := tt.result.Outcome()

			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
				assert.Equal(t, tt.wantErrMsg, appErr.Message)
				assert.Equal(t, tt.result.Error, appErr.Details["procedure_error"])
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestAbmResultIsSuccess(t *testing.T) {
	assert.True(t, AbmResult{Error: 0}.IsSuccess())
	assert.False(t, AbmResult{Error: 1}.IsSuccess())
	assert.False(t, AbmResult{Error: -5}.IsSuccess())
}
