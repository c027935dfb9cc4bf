package template

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/picurit/intgw/internal/record"
)

func testProxy(t *testing.T, payload string) *record.Proxy {
	t.Helper()
	rec := record.New("invoice-7", map[string]any{
		record.DefaultPayloadField: payload,
		"status":                   "open",
	}, nil)
	return record.NewProxy(rec)
}

func TestRenderFieldsAndResolve(t *testing.T) {
	proxy := testProxy(t, `{"user": {"name": "alice"}, "total": 12.5}`)

	body := `{
		"status": "{{ .status }}",
		"name": {{ resolve "$.user.name" | printf "%q" }},
		"total": {{ resolve "$.total" }}
	}`

	out, err := Render(body, proxy)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["status"] != "open" || got["name"] != "alice" || got["total"] != 12.5 {
		t.Errorf("rendered payload = %v", got)
	}
}

func TestRenderResolveDefault(t *testing.T) {
	proxy := testProxy(t, `{}`)

	out, err := Render(`{"v": {{ resolve "$.missing" "none" | printf "%q" }}}`, proxy)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(out) != `{"v": "none"}` {
		t.Errorf("Render() = %s", out)
	}
}

func TestRenderForbiddenCall(t *testing.T) {
	proxy := testProxy(t, `{}`)

	_, err := Render(`{{ call "update_path" "$.a" 1 }}`, proxy)
	if !errors.Is(err, ErrRender) {
		t.Errorf("Render() error = %v, want ErrRender", err)
	}
}

func TestRenderInvalidJSONOutput(t *testing.T) {
	proxy := testProxy(t, `{}`)

	_, err := Render(`not a json payload`, proxy)
	if !errors.Is(err, ErrNotJSON) {
		t.Errorf("Render() error = %v, want ErrNotJSON", err)
	}
}

func TestRenderParseError(t *testing.T) {
	proxy := testProxy(t, `{}`)

	_, err := Render(`{{ .unterminated `, proxy)
	if !errors.Is(err, ErrRender) {
		t.Errorf("Render() error = %v, want ErrRender", err)
	}
}

func TestRenderBlankOutput(t *testing.T) {
	proxy := testProxy(t, `{}`)

	out, err := Render("  \n\t ", proxy)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(out) != "{}" {
		t.Errorf("Render() = %q, want {}", out)
	}
}

func TestRenderHelperFunctions(t *testing.T) {
	proxy := testProxy(t, `{}`)

	body := `{
		"id": "{{ uuid }}",
		"at": "{{ now }}",
		"name": "{{ upper "bob" }}",
		"tag": "{{ base64 "x:y" }}"
	}`

	out, err := Render(body, proxy)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var got struct {
		ID   string `json:"id"`
		At   string `json:"at"`
		Name string `json:"name"`
		Tag  string `json:"tag"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if _, err := uuid.Parse(got.ID); err != nil {
		t.Errorf("uuid output %q: %v", got.ID, err)
	}
	if _, err := time.Parse(time.RFC3339, got.At); err != nil {
		t.Errorf("now output %q: %v", got.At, err)
	}
	if got.Name != "BOB" {
		t.Errorf("upper output = %q", got.Name)
	}
	if got.Tag != "eDp5" {
		t.Errorf("base64 output = %q", got.Tag)
	}
}

func TestRandomHelpers(t *testing.T) {
	for range 50 {
		if n := randomInt(3, 7); n < 3 || n > 7 {
			t.Fatalf("randomInt(3, 7) = %d", n)
		}
		if n := randomInt(7, 3); n < 3 || n > 7 {
			t.Fatalf("randomInt(7, 3) = %d", n)
		}
	}
	if randomInt(5, 5) != 5 {
		t.Error("randomInt(5, 5) != 5")
	}

	if s := randomString(16); len(s) != 16 {
		t.Errorf("randomString(16) length = %d", len(s))
	}
	if s := randomString(0); s != "" {
		t.Errorf("randomString(0) = %q", s)
	}
}
