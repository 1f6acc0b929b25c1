package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourfs/scour/internal/search"
)

func TestMapDepthLimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		changed bool
		want    int
		wantErr bool
	}{
		{name: "unset means unbounded", limit: 0, changed: false, want: search.Unbounded},
		{name: "one limits to direct children", limit: 1, changed: true, want: 0},
		{name: "two allows one descent", limit: 2, changed: true, want: 1},
		{name: "explicit zero rejected", limit: 0, changed: true, wantErr: true},
		{name: "negative rejected", limit: -3, changed: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mapDepthLimit(tt.limit, tt.changed)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionals(t *testing.T) {
	root, pattern := positionals(nil)
	assert.Equal(t, ".", root)
	assert.Empty(t, pattern)

	root, pattern = positionals([]string{"/etc"})
	assert.Equal(t, "/etc", root)
	assert.Empty(t, pattern)

	root, pattern = positionals([]string{"/etc", "conf"})
	assert.Equal(t, "/etc", root)
	assert.Equal(t, "conf", pattern)
}
