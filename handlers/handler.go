package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"agi_race/archive"
	"agi_race/export"
	"agi_race/metrics"
	"agi_race/reveal"
	"agi_race/session"
	"agi_race/story"
	"agi_race/templates"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const recentRunsLimit = 20

type Handler struct {
	Manager *session.Manager
	Archive *archive.Archive // nil when archiving is off
	Metrics *metrics.Metrics
	Log     zerolog.Logger

	Title          string
	RevealInterval time.Duration

	turns sync.WaitGroup
}

// Routes builds the router with middleware and every endpoint.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(h.Log))
	r.Use(chimw.Recoverer)

	r.Get("/", h.Index)
	r.Post("/choice", h.Choose)
	r.Post("/restart", h.Restart)
	r.Get("/state", h.State)
	r.Get(templates.StreamURL, h.StreamStory)
	r.Get("/chronicle.pdf", h.DownloadChronicle)
	r.Get("/runs", h.RecentRuns)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Handle("/metrics", h.Metrics.Handler())
	return r
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	s := h.Manager.FromRequest(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(h.Title, s.Controller.Snapshot()).Render(r.Context(), w); err != nil {
		h.Log.Error().Err(err).Msg("render index")
	}
}

// Choose applies the posted choice id. Ids are resolved against the choices
// currently on screen, so a stale or forged id never reaches the narrator.
// The reply is generated in the background; the page polls while it waits.
func (h *Handler) Choose(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	if id == "" {
		http.Error(w, "missing choice id", http.StatusBadRequest)
		return
	}
	s := h.Manager.FromRequest(w, r)

	choice, ok := s.Controller.Choice(id)
	if !ok {
		h.Log.Warn().Str("session", s.ID).Str("choice", id).Msg("choice not on screen")
		h.Metrics.Choices.WithLabelValues("stale").Inc()
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.begin(r.Context(), s, choice)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Restart goes through the controller so it is ignored while a reply is pending.
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	s := h.Manager.FromRequest(w, r)
	h.begin(r.Context(), s, story.RestartChoice())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Wait blocks until every background turn has finished.
func (h *Handler) Wait() {
	h.turns.Wait()
}

func (h *Handler) begin(ctx context.Context, s *session.Session, choice story.Choice) {
	turn, out := s.Controller.Begin(choice)
	if turn == nil {
		h.Metrics.Choices.WithLabelValues(out.String()).Inc()
		return
	}

	// The generation call always runs to completion, even after the request
	// that started it has been answered.
	ctx = context.WithoutCancel(ctx)
	h.turns.Add(1)
	go func() {
		defer h.turns.Done()
		h.finish(ctx, s, turn.Run(ctx))
	}()
}

func (h *Handler) finish(ctx context.Context, s *session.Session, out story.Outcome) {
	h.Metrics.Choices.WithLabelValues(out.String()).Inc()
	if out != story.OutcomeGameOver || !h.Archive.Enabled() {
		return
	}
	view := s.Controller.Snapshot()
	if _, err := h.Archive.Record(ctx, s.ID, view.State, view.History); err != nil {
		h.Log.Warn().Err(err).Str("session", s.ID).Msg("archive run")
		return
	}
	h.Metrics.ArchivedRuns.Inc()
}

type stateResponse struct {
	State   story.GameState      `json:"state"`
	History []story.HistoryEntry `json:"history"`
	Loading bool                 `json:"loading"`
	Error   string               `json:"error,omitempty"`
	Status  string               `json:"status"`
}

// State returns the caller's snapshot as JSON.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	view := h.Manager.FromRequest(w, r).Controller.Snapshot()
	history := view.History
	if history == nil {
		history = []story.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, stateResponse{
		State:   view.State,
		History: history,
		Loading: view.Loading,
		Error:   view.Error,
		Status:  view.Status.String(),
	})
}

// StreamStory reveals the current story text as server-sent events, one
// character per message, and ends with a "done" event. Every page load opens
// its own stream; the reveal stops as soon as the client disconnects.
func (h *Handler) StreamStory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Manager.Lookup(r)
	if !ok {
		http.Error(w, "no session", http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	text := s.Controller.Snapshot().State.StoryText
	err := reveal.Reveal(r.Context(), text, h.RevealInterval, func(f reveal.Frame) error {
		delta, err := json.Marshal(f.Delta)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", delta); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		return
	}
	fmt.Fprint(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
}

// DownloadChronicle sends the caller's run as a PDF.
func (h *Handler) DownloadChronicle(w http.ResponseWriter, r *http.Request) {
	view := h.Manager.FromRequest(w, r).Controller.Snapshot()

	var buf bytes.Buffer
	if err := export.WriteChronicle(&buf, view.State, view.History); err != nil {
		h.Log.Error().Err(err).Msg("render chronicle")
		http.Error(w, "could not build the chronicle", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="chronicle.pdf"`)
	_, _ = w.Write(buf.Bytes())
}

// RecentRuns lists archived finished runs.
func (h *Handler) RecentRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Archive.Recent(r.Context(), recentRunsLimit)
	if errors.Is(err, archive.ErrDisabled) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "archive_disabled"})
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("list runs")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db_error"})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request with its status and duration.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
