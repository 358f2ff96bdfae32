package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("GRIDSENSE_DATA_DIR", "/srv/gridsense")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "tilde prefix",
			in:   "~/data/gridsense.db",
			want: filepath.Join(home, "data/gridsense.db"),
		},
		{
			name: "bare tilde",
			in:   "~",
			want: home,
		},
		{
			name: "env var",
			in:   "$GRIDSENSE_DATA_DIR/gridsense.db",
			want: "/srv/gridsense/gridsense.db",
		},
		{
			name: "plain path untouched",
			in:   "/var/lib/gridsense.db",
			want: "/var/lib/gridsense.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
