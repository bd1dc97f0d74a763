package utils

import (
	"testing"

	"tripay/config"

	"github.com/stretchr/testify/assert"
)

func TestResolveHost(t *testing.T) {
	cases := []struct {
		name   string
		env    string
		origin string
		want   string
	}{
		{"production ignores origin", "production", "https://fe-tunnel.example.com", "https://be.example.com"},
		{"tunnel origin gets tunnel host", "development", "https://fe-tunnel.example.com", "https://be-tunnel.example.com"},
		{"plain origin gets main host", "development", "https://fe.example.com", "https://be.example.com"},
		{"empty origin gets main host", "development", "", "https://be.example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config.AppConfig.Env = tc.env
			config.AppConfig.FETunnel = "https://fe-tunnel.example.com"
			config.AppConfig.BEHost = "https://be.example.com"
			config.AppConfig.BETunnel = "https://be-tunnel.example.com"

			assert.Equal(t, tc.want, ResolveHost(tc.origin))
		})
	}
}
