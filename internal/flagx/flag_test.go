package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "afactura.json", "-db", "data.db"},
			allowed: []string{"-c"},
			want:    []string{"-c", "afactura.json"},
		},
		{
			name:    "equals form",
			args:    []string{"-db=data.db", "-log-level", "debug"},
			allowed: []string{"-db"},
			want:    []string{"-db=data.db"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value at end",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-c", "-db", "x.db"},
			allowed: []string{"-c", "-db"},
			want:    []string{"-c", "-db", "x.db"},
		},
		{
			name:    "repeated flag kept in order",
			args:    []string{"-series", "A", "-series", "B"},
			allowed: []string{"-series"},
			want:    []string{"-series", "A", "-series", "B"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/afactura.json", ConfigPath([]string{"-c", "/etc/afactura.json"}))
	assert.Equal(t, "long.json", ConfigPath([]string{"-db", "x.db", "-config", "long.json"}))
	assert.Equal(t, "eq.json", ConfigPath([]string{"--config=eq.json"}))
	assert.Equal(t, "2.json", ConfigPath([]string{"-c", "1.json", "-config", "2.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1"}))
}
