package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-d", "notes.db", "-x", "ignored"},
			allowed: []string{"-d"},
			want:    []string{"-d", "notes.db"},
		},
		{
			name:    "equals form",
			args:    []string{"--database=notes.db", "--other=1"},
			allowed: []string{"--database"},
			want:    []string{"--database=notes.db"},
		},
		{
			name:    "flag followed by another flag",
			args:    []string{"-v", "-d", "notes.db"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "-b"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}
