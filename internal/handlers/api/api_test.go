package api

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	fibersession "github.com/gofiber/fiber/v3/middleware/session"

	"pickwise/internal/models"
	"pickwise/internal/picker"
	"pickwise/internal/prefs"
	"pickwise/internal/testutil"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
	Fields []struct {
		Field string `json:"field"`
		Tag   string `json:"tag"`
	} `json:"fields"`
}

var testPresets = []models.Preset{
	{Name: "lunch", Options: []string{"Tacos", "Ramen"}, Adventure: 0.8},
}

func newTestApp(t *testing.T) (*fiber.App, *prefs.MemoryStore) {
	t.Helper()

	store := prefs.NewMemoryStore()
	src := picker.Locked(picker.NewSource(7))
	previewSrc := picker.Locked(picker.NewSource(8))

	app := fiber.New()
	sessionMiddleware, _ := fibersession.NewWithStore(fibersession.Config{})
	app.Use(sessionMiddleware)

	pick := NewPickHandler(store, testPresets, 0.3, src)
	stats := NewStatsHandler(store)
	presets := NewPresetHandler(testPresets)
	decisions := NewDecisionHandler(store)
	sess := NewSessionHandler(store, testPresets, 0.3, src, previewSrc)

	app.Post("/pick", pick.Pick)
	app.Get("/label", pick.Label)
	app.Get("/stats", stats.List)
	app.Get("/stats/:title", stats.Get)
	app.Get("/presets", presets.List)
	app.Get("/decisions", decisions.List)
	app.Get("/session", sess.Get)
	app.Put("/session/adventure", sess.SetAdventure)
	app.Post("/session/pick", sess.Pick)
	app.Post("/session/accept", sess.Accept)
	app.Post("/session/skip", sess.Skip)

	return app, store
}

// client replays cookies across requests like a browser.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies []*http.Cookie
}

func (cl *client) do(method, path string, body any) (int, envelope) {
	cl.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			cl.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}

	resp, err := cl.app.Test(req)
	if err != nil {
		cl.t.Fatalf("%s %s error = %v", method, path, err)
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		cl.cookies = cookies
	}

	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		cl.t.Fatalf("%s %s: response is not JSON: %s", method, path, raw)
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func TestPick(t *testing.T) {
	app, store := newTestApp(t)
	cl := &client{t: t, app: app}

	status, env := cl.do(http.MethodPost, "/pick", map[string]any{
		"pool":      []string{" Tacos ", "Ramen", "Tacos", ""},
		"adventure": 0.5,
	})
	if status != fiber.StatusOK {
		t.Fatalf("POST /pick status = %d, want 200 (%s)", status, env.Error)
	}

	got := decode[models.PickResponse](t, env)
	if got.Title != "Tacos" && got.Title != "Ramen" {
		t.Errorf("Pick() title = %q, want one of the pool", got.Title)
	}
	if got.AdventureLabel != "Balanced+" {
		t.Errorf("Pick() label = %q, want Balanced+", got.AdventureLabel)
	}
	if len(got.Probabilities) != 2 {
		t.Fatalf("Pick() probabilities = %v, want 2 entries", got.Probabilities)
	}
	var sum float64
	for _, p := range got.Probabilities {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("Pick() probabilities sum = %v, want 1", sum)
	}

	stats, _ := store.ListStats(context.Background())
	if len(stats) != 0 {
		t.Errorf("stateless pick created %d records, want 0", len(stats))
	}
}

func TestPick_UsesStoredScores(t *testing.T) {
	app, store := newTestApp(t)
	testutil.SeedStat(t, store, "Tacos", 20, 0)
	testutil.SeedStat(t, store, "Ramen", 0, 20)
	cl := &client{t: t, app: app}

	_, env := cl.do(http.MethodPost, "/pick", map[string]any{
		"pool":      []string{"Tacos", "Ramen"},
		"adventure": 0,
	})
	got := decode[models.PickResponse](t, env)
	if got.Probabilities["Tacos"] < 0.99 {
		t.Errorf("P(Tacos) = %v, want > 0.99 at adventure 0", got.Probabilities["Tacos"])
	}
}

func TestPick_Preset(t *testing.T) {
	app, _ := newTestApp(t)
	cl := &client{t: t, app: app}

	status, env := cl.do(http.MethodPost, "/pick", map[string]any{"preset": "lunch"})
	if status != fiber.StatusOK {
		t.Fatalf("POST /pick status = %d, want 200 (%s)", status, env.Error)
	}
	got := decode[models.PickResponse](t, env)
	if got.Adventure != 0.8 {
		t.Errorf("Pick() adventure = %v, want preset's 0.8", got.Adventure)
	}
	if _, ok := got.Probabilities["Ramen"]; !ok {
		t.Errorf("Pick() probabilities = %v, want preset options", got.Probabilities)
	}
}

func TestPick_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      any
		want      int
		wantField string
	}{
		{"malformed", "{", fiber.StatusBadRequest, ""},
		{"missing pool", map[string]any{}, fiber.StatusBadRequest, "pool"},
		{"adventure too high", map[string]any{"pool": []string{"a"}, "adventure": 1.5}, fiber.StatusBadRequest, "adventure"},
		{"empty pool", map[string]any{"pool": []string{}}, fiber.StatusUnprocessableEntity, ""},
		{"blank pool", map[string]any{"pool": []string{" ", ""}}, fiber.StatusUnprocessableEntity, ""},
		{"unknown preset", map[string]any{"preset": "dinner"}, fiber.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			cl := &client{t: t, app: app}

			status, env := cl.do(http.MethodPost, "/pick", tt.body)
			if status != tt.want {
				t.Errorf("POST /pick status = %d, want %d", status, tt.want)
			}
			if env.Status != "error" {
				t.Errorf("status field = %q, want error", env.Status)
			}
			if tt.wantField != "" && (len(env.Fields) == 0 || env.Fields[0].Field != tt.wantField) {
				t.Errorf("fields = %+v, want %s", env.Fields, tt.wantField)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		query     string
		want      int
		wantLabel string
	}{
		{"?value=0", fiber.StatusOK, "No Adventure"},
		{"?value=0.3", fiber.StatusOK, "Balanced-"},
		{"?value=7", fiber.StatusOK, "Surprise Me"},
		{"?value=-1", fiber.StatusOK, "No Adventure"},
		{"", fiber.StatusBadRequest, ""},
		{"?value=abc", fiber.StatusBadRequest, ""},
	}

	app, _ := newTestApp(t)
	cl := &client{t: t, app: app}
	for _, tt := range tests {
		status, env := cl.do(http.MethodGet, "/label"+tt.query, nil)
		if status != tt.want {
			t.Errorf("GET /label%s status = %d, want %d", tt.query, status, tt.want)
			continue
		}
		if tt.want == fiber.StatusOK {
			got := decode[models.AdventureLabelResponse](t, env)
			if got.Label != tt.wantLabel {
				t.Errorf("GET /label%s label = %q, want %q", tt.query, got.Label, tt.wantLabel)
			}
		}
	}
}

func TestStats(t *testing.T) {
	app, store := newTestApp(t)
	testutil.SeedStat(t, store, "Pad Thai", 3, 1)
	testutil.SeedStat(t, store, "Burgers", 0, 0)
	cl := &client{t: t, app: app}

	status, env := cl.do(http.MethodGet, "/stats", nil)
	if status != fiber.StatusOK {
		t.Fatalf("GET /stats status = %d, want 200", status)
	}
	list := decode[[]models.StatResponse](t, env)
	if len(list) != 2 || list[0].Title != "Burgers" || list[0].Score != 0.5 {
		t.Errorf("GET /stats = %+v", list)
	}

	status, env = cl.do(http.MethodGet, "/stats/Pad%20Thai", nil)
	if status != fiber.StatusOK {
		t.Fatalf("GET /stats/Pad%%20Thai status = %d, want 200 (%s)", status, env.Error)
	}
	one := decode[models.StatResponse](t, env)
	if one.SuccessCount != 3 || one.FailureCount != 1 || one.Score != picker.BetaMean(3, 1) {
		t.Errorf("GET /stats/Pad%%20Thai = %+v", one)
	}

	if status, _ := cl.do(http.MethodGet, "/stats/Sushi", nil); status != fiber.StatusNotFound {
		t.Errorf("GET /stats/Sushi status = %d, want 404", status)
	}
}

func TestPresets(t *testing.T) {
	app, _ := newTestApp(t)
	cl := &client{t: t, app: app}

	_, env := cl.do(http.MethodGet, "/presets", nil)
	got := decode[[]models.Preset](t, env)
	if len(got) != 1 || got[0].Name != "lunch" {
		t.Errorf("GET /presets = %+v", got)
	}
}

func TestDecisions_Limit(t *testing.T) {
	app, _ := newTestApp(t)
	cl := &client{t: t, app: app}

	for _, q := range []string{"?limit=0", "?limit=x", "?limit=-3"} {
		if status, _ := cl.do(http.MethodGet, "/decisions"+q, nil); status != fiber.StatusBadRequest {
			t.Errorf("GET /decisions%s status = %d, want 400", q, status)
		}
	}
	status, env := cl.do(http.MethodGet, "/decisions?limit=9999", nil)
	if status != fiber.StatusOK {
		t.Fatalf("GET /decisions?limit=9999 status = %d, want 200", status)
	}
	if got := decode[[]models.Decision](t, env); len(got) != 0 {
		t.Errorf("GET /decisions = %+v, want empty", got)
	}
}

func TestSession_PickAccept(t *testing.T) {
	app, store := newTestApp(t)
	cl := &client{t: t, app: app}
	pool := []string{"Tacos", "Ramen", "Pizza"}

	status, env := cl.do(http.MethodPost, "/session/pick", map[string]any{"pool": pool})
	if status != fiber.StatusOK {
		t.Fatalf("POST /session/pick status = %d, want 200 (%s)", status, env.Error)
	}
	picked := decode[models.SessionPickResponse](t, env)
	if picked.Session.Pending != picked.Title {
		t.Errorf("pending = %q, want %q", picked.Session.Pending, picked.Title)
	}
	if len(picked.Preview) < 6 {
		t.Errorf("preview frames = %d, want at least 6", len(picked.Preview))
	}
	for _, f := range picked.Preview {
		if f.DelayMS < 80 {
			t.Errorf("preview delay = %dms, want >= 80ms", f.DelayMS)
		}
	}

	status, env = cl.do(http.MethodPost, "/session/accept", map[string]any{"title": picked.Title})
	if status != fiber.StatusOK {
		t.Fatalf("POST /session/accept status = %d, want 200 (%s)", status, env.Error)
	}
	after := decode[models.SessionResponse](t, env)
	if after.Pending != "" {
		t.Errorf("pending after accept = %q, want empty", after.Pending)
	}
	if len(after.Recent) != 1 || after.Recent[0] != picked.Title {
		t.Errorf("recent after accept = %v, want [%s]", after.Recent, picked.Title)
	}

	stat, err := store.GetStat(context.Background(), picked.Title)
	if err != nil || stat.SuccessCount != 1 {
		t.Errorf("stat after accept = %+v, %v; want success 1", stat, err)
	}

	_, env = cl.do(http.MethodGet, "/decisions", nil)
	if got := decode[[]models.Decision](t, env); len(got) != 1 || got[0].Title != picked.Title {
		t.Errorf("GET /decisions = %+v, want one %s", got, picked.Title)
	}
}

func TestSession_SkipPicksAnother(t *testing.T) {
	app, store := newTestApp(t)
	cl := &client{t: t, app: app}
	pool := []string{"Tacos", "Ramen"}

	_, env := cl.do(http.MethodPost, "/session/pick", map[string]any{"pool": pool})
	first := decode[models.SessionPickResponse](t, env)

	status, env := cl.do(http.MethodPost, "/session/skip", map[string]any{"title": first.Title, "pool": pool})
	if status != fiber.StatusOK {
		t.Fatalf("POST /session/skip status = %d, want 200 (%s)", status, env.Error)
	}
	next := decode[models.SessionPickResponse](t, env)
	if next.Title == first.Title {
		t.Errorf("skip re-picked %q, want the other option", next.Title)
	}

	stat, _ := store.GetStat(context.Background(), first.Title)
	if stat == nil || stat.FailureCount != 1 {
		t.Errorf("stat after skip = %+v, want failure 1", stat)
	}
}

func TestSession_Adventure(t *testing.T) {
	app, _ := newTestApp(t)
	cl := &client{t: t, app: app}

	_, env := cl.do(http.MethodGet, "/session", nil)
	if got := decode[models.SessionResponse](t, env); got.Adventure != 0.3 || len(got.Recent) != 0 {
		t.Errorf("GET /session = %+v, want default state", got)
	}

	status, env := cl.do(http.MethodPut, "/session/adventure", map[string]any{"adventure": 0.9})
	if status != fiber.StatusOK {
		t.Fatalf("PUT /session/adventure status = %d, want 200 (%s)", status, env.Error)
	}

	_, env = cl.do(http.MethodGet, "/session", nil)
	got := decode[models.SessionResponse](t, env)
	if got.Adventure != 0.9 || got.AdventureLabel != "High" {
		t.Errorf("GET /session = %+v, want adventure 0.9 High", got)
	}

	for _, body := range []map[string]any{{"adventure": 1.5}, {"adventure": -0.1}, {}} {
		if status, _ := cl.do(http.MethodPut, "/session/adventure", body); status != fiber.StatusBadRequest {
			t.Errorf("PUT /session/adventure %v status = %d, want 400", body, status)
		}
	}
}

func TestSession_PresetSetsStartingAdventure(t *testing.T) {
	app, _ := newTestApp(t)
	cl := &client{t: t, app: app}

	_, env := cl.do(http.MethodPost, "/session/pick", map[string]any{"preset": "lunch"})
	got := decode[models.SessionPickResponse](t, env)
	if got.Session.Adventure != 0.8 {
		t.Errorf("session adventure = %v, want preset's 0.8", got.Session.Adventure)
	}
}

func TestSession_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"pick empty pool", "/session/pick", map[string]any{"pool": []string{" "}}, fiber.StatusUnprocessableEntity},
		{"pick unknown preset", "/session/pick", map[string]any{"preset": "nope"}, fiber.StatusNotFound},
		{"accept missing title", "/session/accept", map[string]any{}, fiber.StatusBadRequest},
		{"accept blank title", "/session/accept", map[string]any{"title": "   "}, fiber.StatusBadRequest},
		{"skip blank title", "/session/skip", map[string]any{"title": " ", "pool": []string{"a"}}, fiber.StatusBadRequest},
		{"skip empty pool", "/session/skip", map[string]any{"title": "a", "pool": []string{}}, fiber.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			cl := &client{t: t, app: app}
			if status, _ := cl.do(http.MethodPost, tt.path, tt.body); status != tt.want {
				t.Errorf("POST %s status = %d, want %d", tt.path, status, tt.want)
			}
		})
	}
}
