package api

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// RegisterDocsRoutes registers documentation routes on the given mux.
//
//	GET /                  redirect to /docs
//	GET /docs              Swagger UI
//	GET /docs/openapi      OpenAPI document as JSON
//	GET /docs/openapi.yaml OpenAPI document as written
func RegisterDocsRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs", http.StatusMovedPermanently)
	})
	mux.HandleFunc("GET /docs", serveSwaggerUI)
	mux.HandleFunc("GET /docs/openapi", serveDocumentJSON)
	mux.HandleFunc("GET /docs/openapi.yaml", serveDocumentYAML)
}

func serveDocumentJSON(w http.ResponseWriter, _ *http.Request) {
	doc, err := GetSwagger()
	if err != nil {
		http.Error(w, "API document unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		http.Error(w, "failed to encode API document", http.StatusInternalServerError)
	}
}

func serveDocumentYAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(specYAML) //nolint:errcheck // Nothing useful to do if write fails
}

func serveSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	doc, err := GetSwagger()
	if err != nil {
		http.Error(w, "API document unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	//nolint:errcheck // Nothing useful to do if write fails
	swaggerPage.Execute(w, struct{ Title, Version, SpecURL string }{
		Title:   doc.Info.Title,
		Version: doc.Info.Version,
		SpecURL: "/docs/openapi",
	})
}

var swaggerPage = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} {{.Version}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: '#swagger-ui' });
  </script>
</body>
</html>`))
