package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

func TestReadDoc_RegisteredAndValid(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		t.Fatalf("swagger doc is not valid JSON: %v", err)
	}
	paths, ok := parsed["paths"].(map[string]any)
	if !ok {
		t.Fatalf("swagger doc has no paths object")
	}
	for _, p := range []string{"/api/v1/posts", "/api/v1/posts/{id}/comments", "/api/v1/auth/token"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("missing path %q", p)
		}
	}
	if !strings.Contains(doc, `"title": "simple_forum API"`) {
		t.Errorf("title not rendered into doc")
	}
}
