package utils

import "tripay/config"

// ResolveHost maps a request Origin header to the backend host the payment
// provider should redirect back to. In production only the main host is used;
// otherwise requests arriving through the development tunnel get the tunnel
// host so the capture callback can reach the running instance.
func ResolveHost(origin string) string {
	if config.IsProduction() {
		return config.AppConfig.BEHost
	}
	if config.AppConfig.FETunnel != "" && origin == config.AppConfig.FETunnel {
		return config.AppConfig.BETunnel
	}
	return config.AppConfig.BEHost
}
