package api

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	fibersession "github.com/gofiber/fiber/v3/middleware/session"

	"pickwise/internal/logging"
	"pickwise/internal/metrics"
	"pickwise/internal/models"
	"pickwise/internal/picker"
	"pickwise/internal/prefs"
	"pickwise/internal/session"
)

// stateKey is the cookie-session key holding the serialized session.State.
const stateKey = "pickwise_state"

var errNoSession = errors.New("session middleware not configured")

// SessionHandler runs a selection session per browser session. The state
// between requests lives in the fiber session store.
type SessionHandler struct {
	backend          prefs.Backend
	presets          []models.Preset
	defaultAdventure float64
	src              picker.Source
	previewSrc       picker.Source

	// mu serializes session operations; stat updates are read-modify-write.
	mu sync.Mutex
}

// NewSessionHandler creates a new session handler. src drives the real
// picks, previewSrc only the cosmetic preview frames.
func NewSessionHandler(backend prefs.Backend, presets []models.Preset, defaultAdventure float64, src, previewSrc picker.Source) *SessionHandler {
	return &SessionHandler{
		backend:          backend,
		presets:          presets,
		defaultAdventure: picker.ClampAdventure(defaultAdventure),
		src:              src,
		previewSrc:       previewSrc,
	}
}

// Get returns the current session state.
func (h *SessionHandler) Get(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	sel, _, err := h.load(c)
	if err != nil {
		return jsonInternalError(c, "failed to load session", err)
	}
	return jsonSuccess(c, sessionResponse(sel))
}

// SetAdventure changes the session's adventurousness.
func (h *SessionHandler) SetAdventure(c fiber.Ctx) error {
	var body adventureRequest
	if err := bindJSON(c, &body); err != nil {
		return jsonRequestError(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sel, _, err := h.load(c)
	if err != nil {
		return jsonInternalError(c, "failed to load session", err)
	}
	sel.SetAdventure(*body.Adventure)
	if err := h.save(c, sel); err != nil {
		return jsonInternalError(c, "failed to save session", err)
	}
	return jsonSuccess(c, sessionResponse(sel))
}

// Pick draws the next title for the session.
func (h *SessionHandler) Pick(c fiber.Ctx) error {
	var body poolRequest
	if err := bindJSON(c, &body); err != nil {
		return jsonRequestError(c, err)
	}
	pool, preset, err := resolvePool(h.presets, body.Pool, body.Preset)
	if err != nil {
		return jsonPoolError(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sel, fresh, err := h.load(c)
	if err != nil {
		return jsonInternalError(c, "failed to load session", err)
	}
	if fresh && preset != nil {
		sel.SetAdventure(preset.Adventure)
	}

	title, ok, err := sel.PickOne(c.Context(), pool)
	if err != nil {
		return jsonInternalError(c, "failed to pick", err)
	}
	if !ok {
		return jsonError(c, fiber.StatusUnprocessableEntity, errPoolEmpty.Error())
	}
	metrics.RecordPick(sel.Adventure())

	return h.respondPick(c, sel, title, pool)
}

// Accept records the title as chosen.
func (h *SessionHandler) Accept(c fiber.Ctx) error {
	var body titleRequest
	if err := bindJSON(c, &body); err != nil {
		return jsonRequestError(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sel, _, err := h.load(c)
	if err != nil {
		return jsonInternalError(c, "failed to load session", err)
	}
	if err := sel.Accept(c.Context(), body.Title); err != nil {
		if errors.Is(err, prefs.ErrEmptyTitle) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return jsonInternalError(c, "failed to accept", err)
	}
	metrics.RecordOutcome(models.OutcomeAccepted)

	if err := h.save(c, sel); err != nil {
		return jsonInternalError(c, "failed to save session", err)
	}
	return jsonSuccess(c, sessionResponse(sel))
}

// Skip records the title as rejected and picks again.
func (h *SessionHandler) Skip(c fiber.Ctx) error {
	var body skipRequest
	if err := bindJSON(c, &body); err != nil {
		return jsonRequestError(c, err)
	}
	pool, _, err := resolvePool(h.presets, body.Pool, body.Preset)
	if err != nil {
		return jsonPoolError(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sel, _, err := h.load(c)
	if err != nil {
		return jsonInternalError(c, "failed to load session", err)
	}

	title, ok, err := sel.Skip(c.Context(), body.Title, pool)
	if err != nil {
		if errors.Is(err, prefs.ErrEmptyTitle) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return jsonInternalError(c, "failed to skip", err)
	}
	metrics.RecordOutcome(models.OutcomeSkipped)
	if !ok {
		return jsonError(c, fiber.StatusUnprocessableEntity, errPoolEmpty.Error())
	}
	metrics.RecordPick(sel.Adventure())

	return h.respondPick(c, sel, title, pool)
}

func (h *SessionHandler) respondPick(c fiber.Ctx, sel *session.Session, title string, pool []string) error {
	if err := h.save(c, sel); err != nil {
		return jsonInternalError(c, "failed to save session", err)
	}

	frames := picker.Preview(pool, h.previewSrc)
	preview := make([]models.PreviewFrame, len(frames))
	for i, f := range frames {
		preview[i] = models.PreviewFrame{Title: f.Title, DelayMS: f.Delay.Milliseconds()}
	}

	return jsonSuccess(c, models.SessionPickResponse{
		Title:   title,
		Preview: preview,
		Session: sessionResponse(sel),
	})
}

// load rebuilds the selection session from the cookie session. fresh is
// true when no state was stored yet.
func (h *SessionHandler) load(c fiber.Ctx) (sel *session.Session, fresh bool, err error) {
	sess := fibersession.FromContext(c)
	if sess == nil {
		return nil, false, errNoSession
	}

	sel = session.New(h.backend,
		session.WithJournal(h.backend),
		session.WithSource(h.src),
		session.WithAdventure(h.defaultAdventure),
	)

	raw, _ := sess.Get(stateKey).(string)
	if raw == "" {
		return sel, true, nil
	}

	var st session.State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		logging.Warn().Err(err).Msg("discarding unreadable session state")
		return sel, true, nil
	}
	sel.Restore(st)
	return sel, false, nil
}

func (h *SessionHandler) save(c fiber.Ctx, sel *session.Session) error {
	sess := fibersession.FromContext(c)
	if sess == nil {
		return errNoSession
	}

	data, err := json.Marshal(sel.State())
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	sess.Set(stateKey, string(data))
	return nil
}

func sessionResponse(sel *session.Session) models.SessionResponse {
	st := sel.State()
	return models.SessionResponse{
		Recent:         st.Recent,
		Pending:        st.Pending,
		Adventure:      st.Adventure,
		AdventureLabel: picker.AdventureLabel(st.Adventure),
	}
}
