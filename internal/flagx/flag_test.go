package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

var serverFlags = []string{"-a", "-r", "-m", "-l", "-v", "-t"}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "separate values",
			args: []string{"-a", ":50051", "-r", "/srv/files"},
			want: []string{"-a", ":50051", "-r", "/srv/files"},
		},
		{
			name: "inline value",
			args: []string{"-r=/srv/files", "-v=debug"},
			want: []string{"-r=/srv/files", "-v=debug"},
		},
		{
			name: "flags of other components dropped",
			args: []string{"-c", "server.json", "-a", ":50051", "-x=1", "stray"},
			want: []string{"-a", ":50051"},
		},
		{
			name: "dash value is not consumed",
			args: []string{"-r", "-v", "info"},
			want: []string{"-r", "-v", "info"},
		},
		{
			name: "trailing flag without value",
			args: []string{"-t"},
			want: []string{"-t"},
		},
		{
			name: "empty",
			args: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, serverFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "a.json", ConfigPath([]string{"-r", "/data", "-c", "a.json"}))
	assert.Equal(t, "b.json", ConfigPath([]string{"-config=b.json", "-v", "debug"}))
	assert.Equal(t, "2.json", ConfigPath([]string{"-c", "1.json", "-config", "2.json"}))
	assert.Empty(t, ConfigPath([]string{"-r", "/data"}))
	assert.Empty(t, ConfigPath(nil))
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"gophdrive-server", "-a", ":50051", "-c", "/etc/gophdrive/server.json"}
	assert.Equal(t, "/etc/gophdrive/server.json", JsonConfigFlags())
}
