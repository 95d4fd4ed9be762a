package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcer(t *testing.T) {
	en, err := New()
	require.NoError(t, err)

	tests := []struct {
		role     string
		resource string
		action   string
		want     bool
	}{
		{"passenger", "rides", "create", true},
		{"passenger", "rides", "cancel", true},
		{"passenger", "rides", "accept", false},
		{"passenger", "rides", "status", false},
		{"passenger", "drivers", "earnings", false},

		{"driver", "rides", "accept", true},
		{"driver", "rides", "status", true},
		{"driver", "rides", "pending", true},
		{"driver", "rides", "create", false},
		{"driver", "drivers", "location", true},
		{"driver", "drivers", "cashout", true},

		{"admin", "rides", "read_any", true},
		{"driver", "rides", "read_any", false},

		// wildcard subject
		{"passenger", "rides", "read", true},
		{"driver", "rides", "read", true},
		{"admin", "safety", "sos", true},
		{"passenger", "account", "manage", true},

		// неизвестная роль не имеет ничего, кроме wildcard политик
		{"ghost", "rides", "create", false},
		{"ghost", "rides", "read", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, en.Allowed(tt.role, tt.resource, tt.action),
			"%s %s %s", tt.role, tt.resource, tt.action)
	}
}
