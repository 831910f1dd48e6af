package dashboard

import (
	"net/http"
	"os"
	"strings"
)

const (
	// DefaultEChartsAssetsPath is the local path used to serve ECharts assets
	// from disk.
	DefaultEChartsAssetsPath = "/dashboard/assets/echarts/"
	// RemoteEChartsAssetsHost is the public go-echarts assets host.
	RemoteEChartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	// envEChartsCDN overrides the default assets host (e.g., to point at a CDN or self-hosted bucket).
	envEChartsCDN = "BDA_ECHARTS_CDN"
)

// EChartsAssetsHandler serves a local copy of the ECharts runtime from dir
// under prefix.
func EChartsAssetsHandler(prefix, dir string) http.Handler {
	if prefix == "" {
		prefix = DefaultEChartsAssetsPath
	}
	prefix = ensureTrailingSlash(prefix)
	return http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
}

// DefaultEChartsAssetsHost returns the assets host, respecting BDA_ECHARTS_CDN
// if set.
func DefaultEChartsAssetsHost() string {
	if host := strings.TrimSpace(os.Getenv(envEChartsCDN)); host != "" {
		return ensureTrailingSlash(host)
	}
	return RemoteEChartsAssetsHost
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
