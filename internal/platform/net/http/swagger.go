package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// docJSON is a skeleton spec so the UI loads without generated docs
var docJSON = `{"openapi":"3.0.3","info":{"title":"Agenda API","version":"0.1.0"},"paths":{}}`

// MountSwagger mounts the Swagger UI and JSON spec if enabled
func MountSwagger(r Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docJSON))
	})
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
