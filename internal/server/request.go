package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/logging"
	"github.com/mwiater/prefdash/internal/session"
)

// CookieName holds the browser's session identifier.
const CookieName = "prefdash_session"

var errPresetPipeline = errors.New("preset targets another pipeline")

// sessionID returns the request's session, issuing a new cookie when the
// request has none or carries an invalid one.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && session.ValidateID(c.Value) == nil {
		return c.Value
	}
	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// selection is the state a request asks for. Explicit is false when the request
// names no preset and no filter column, in which case a stored state may be used.
type selection struct {
	state      dashboard.SelectionState
	explicit   bool
	stackedSet bool
}

// parseSelection reads preset, stage columns and stacked from a query. A
// column present with only blank values selects nothing; an absent column is
// left unset.
func parseSelection(q url.Values, p dashboard.Pipeline, presets *dashboard.Presets, defaultStacked bool) (selection, error) {
	sel := selection{state: dashboard.NewState(p.Name).WithStacked(defaultStacked)}

	if id := strings.TrimSpace(q.Get("preset")); id != "" {
		preset, err := presets.Lookup(id)
		if err != nil {
			return selection{}, err
		}
		if preset.Pipeline != p.Name {
			return selection{}, fmt.Errorf("%w: %s is a %s preset", errPresetPipeline, preset.ID, preset.Pipeline)
		}
		sel.state = preset.State().WithStacked(defaultStacked)
		sel.explicit = true
	}

	for _, col := range p.Columns() {
		raw, ok := q[string(col)]
		if !ok {
			continue
		}
		values := make([]string, 0, len(raw))
		for _, v := range raw {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		sel.state = sel.state.With(col, values)
		sel.explicit = true
	}

	if q.Has("stacked") {
		stacked := true
		if v := strings.TrimSpace(q.Get("stacked")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return selection{}, fmt.Errorf("invalid stacked value %q", v)
			}
			stacked = b
		}
		sel.state = sel.state.WithStacked(stacked)
		sel.stackedSet = true
	}
	return sel, nil
}

// render runs one pass for the request's session and persists the reconciled state.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string) (dashboard.View, dashboard.SelectionState, error) {
	p, err := dashboard.LookupPipeline(name)
	if err != nil {
		return dashboard.View{}, dashboard.SelectionState{}, err
	}
	id := sessionID(w, r)

	sel, err := parseSelection(r.URL.Query(), p, s.dash.Presets(), s.opts.Stacked)
	if err != nil {
		return dashboard.View{}, dashboard.SelectionState{}, badRequest{err}
	}
	state := sel.state
	if !sel.explicit {
		stored, ok, err := s.store.Load(r.Context(), id, p.Name)
		if err != nil {
			logging.LogEvent("[SESSION] load %s: %v", id, err)
		} else if ok {
			if sel.stackedSet {
				stored = stored.WithStacked(state.Stacked)
			}
			state = stored
		}
	}

	view, next, err := s.dash.View(string(p.Name), state)
	if err != nil {
		return dashboard.View{}, dashboard.SelectionState{}, err
	}
	if view.Outcome == dashboard.OutcomeOK || view.Outcome == dashboard.OutcomeNoData {
		if err := s.store.Save(r.Context(), id, next); err != nil {
			logging.LogEvent("[SESSION] save %s: %v", id, err)
		}
	}

	logging.LogRender(string(p.Name), id, string(view.Outcome), map[string]any{
		"domain": view.Domain,
		"rows":   view.Rows,
		"charts": len(view.Charts()),
		"path":   r.URL.Path,
	})
	return view, next, nil
}

// badRequest marks errors caused by the request itself.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }
