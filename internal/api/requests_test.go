package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOperationRequestValidate(t *testing.T) {
	cutoff := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		request   OperationRequest
		wantField string
	}{
		{
			name:    "valid SOD",
			request: OperationRequest{Environment: "prod", Kind: KindSOD},
		},
		{
			name:    "valid EOD with cutoff",
			request: OperationRequest{Environment: "prod", Kind: KindEOD, CutoffTime: &cutoff},
		},
		{
			name:      "missing environment",
			request:   OperationRequest{Kind: KindSOD},
			wantField: "environment",
		},
		{
			name:      "unknown kind",
			request:   OperationRequest{Environment: "prod", Kind: "MIDDAY"},
			wantField: "kind",
		},
		{
			name:      "EOD without cutoff",
			request:   OperationRequest{Environment: "prod", Kind: KindEOD},
			wantField: "cutoffTime",
		},
		{
			name:      "SOD with cutoff",
			request:   OperationRequest{Environment: "prod", Kind: KindSOD, CutoffTime: &cutoff},
			wantField: "cutoffTime",
		},
		{
			name:      "empty filter entry",
			request:   OperationRequest{Environment: "prod", Kind: KindSOD, ServicesFilter: []string{"a", ""}},
			wantField: "servicesFilter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsValidation(err))
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestServiceActionRequestValidate(t *testing.T) {
	valid := ServiceActionRequest{ServiceName: "core-ledger", Action: ActionRestart}
	assert.NoError(t, valid.Validate())

	missing := ServiceActionRequest{Action: ActionStart}
	assert.True(t, IsValidation(missing.Validate()))

	unsupported := ServiceActionRequest{ServiceName: "core-ledger", Action: "reboot"}
	assert.True(t, IsValidation(unsupported.Validate()))
}
