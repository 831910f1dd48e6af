package dashboard

import (
	"embed"
	"io/fs"
	"net/http"
)

// DefaultClientAssetsPath is where the page script is served, relative to
// the application base path.
const DefaultClientAssetsPath = "/dashboard/assets/client/"

// ClientScriptName is the page script file inside ClientAssets.
const ClientScriptName = "dashboard.js"

//go:embed assets/client/*.js
var embeddedClientAssets embed.FS

// ClientAssets returns the browser assets driving the page.
func ClientAssets() fs.FS {
	sub, err := fs.Sub(embeddedClientAssets, "assets/client")
	if err != nil {
		panic(err)
	}
	return sub
}

// ClientAssetsHandler serves ClientAssets under prefix.
func ClientAssetsHandler(prefix string) http.Handler {
	if prefix == "" {
		prefix = DefaultClientAssetsPath
	}
	return http.StripPrefix(ensureTrailingSlash(prefix), http.FileServer(http.FS(ClientAssets())))
}
