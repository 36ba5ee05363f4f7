package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDocRegistered(t *testing.T) {
	doc, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}

	var parsed struct {
		Swagger  string                     `json:"swagger"`
		BasePath string                     `json:"basePath"`
		Info     struct{ Title string }     `json:"info"`
		Paths    map[string]json.RawMessage `json:"paths"`
		Security map[string]json.RawMessage `json:"securityDefinitions"`
	}
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("doc is not valid JSON: %v", err)
	}

	if parsed.Swagger != "2.0" {
		t.Errorf("expected swagger 2.0, got %q", parsed.Swagger)
	}
	if parsed.BasePath != SwaggerInfo.BasePath {
		t.Errorf("expected basePath %q, got %q", SwaggerInfo.BasePath, parsed.BasePath)
	}
	if parsed.Info.Title != SwaggerInfo.Title {
		t.Errorf("expected title %q, got %q", SwaggerInfo.Title, parsed.Info.Title)
	}
	for _, p := range []string{"/parse", "/parse-from-url", "/parse-jobs", "/reports/{id}/audit", "/vendors", "/metrics"} {
		if _, ok := parsed.Paths[p]; !ok {
			t.Errorf("missing path %s", p)
		}
	}
	for _, s := range []string{"ApiKeyAuth", "BearerAuth"} {
		if _, ok := parsed.Security[s]; !ok {
			t.Errorf("missing security definition %s", s)
		}
	}
}
