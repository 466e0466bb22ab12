package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"agi_race/archive"
	"agi_race/handlers"
	"agi_race/metrics"
	"agi_race/mocks"
	"agi_race/session"
	"agi_race/story"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	h        *handlers.Handler
	handler  http.Handler
	narrator *mocks.MockNarrator
	metrics  *metrics.Metrics
}

func newTestServer(t *testing.T, arc *archive.Archive) *testServer {
	t.Helper()
	n := mocks.NewMockNarrator(t)
	m := metrics.New()
	h := &handlers.Handler{
		Manager:        session.NewManager(n, time.Hour, m, zerolog.Nop()),
		Archive:        arc,
		Metrics:        m,
		Log:            zerolog.Nop(),
		Title:          "AGI Arms Race",
		RevealInterval: time.Millisecond,
	}
	return &testServer{h: h, handler: h.Routes(), narrator: n, metrics: m}
}

func (s *testServer) do(t *testing.T, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// open loads the page once and returns the session cookie it set.
func (s *testServer) open(t *testing.T) *http.Cookie {
	t.Helper()
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func postForm(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type stateBody struct {
	State   story.GameState      `json:"state"`
	History []story.HistoryEntry `json:"history"`
	Loading bool                 `json:"loading"`
	Error   string               `json:"error"`
	Status  string               `json:"status"`
}

func (s *testServer) state(t *testing.T, cookie *http.Cookie) stateBody {
	t.Helper()
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/state", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var body stateBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func advanced() story.GameState {
	return story.GameState{
		StoryText: "The new cluster comes online ahead of schedule.",
		Resources: story.Resources{Compute: 85, Talent: 50, Funding: 45, PublicTrust: 80, AIProgress: 18},
		Choices:   []story.Choice{{ID: "choice_1", Text: "Run the first training job."}},
		Feedback:  "Compute jumped while funding took the hit.",
	}
}

func TestIndex_SetsCookieAndRendersInitialState(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Project Chimera")
	assert.Contains(t, rec.Body.String(), `value="boost_compute"`)
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestChoose_AdvancesTheGame(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.open(t)
	initial := story.InitialState()
	s.narrator.On("NextState", mock.Anything, initial, initial.Choices[1].Text, mock.Anything).
		Return(advanced()).Once()

	rec := s.do(t, postForm("/choice", "id=boost_compute"), cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	s.h.Wait()

	body := s.state(t, cookie)
	assert.Equal(t, advanced(), body.State)
	assert.Equal(t, []story.HistoryEntry{{Story: initial.StoryText, Choice: initial.Choices[1].Text}}, body.History)
	assert.Equal(t, "idle", body.Status)
	assert.False(t, body.Loading)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Choices.WithLabelValues("advanced")))
}

func TestChoose_RedirectsBeforeTheReplyArrives(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.open(t)
	release := make(chan struct{})
	s.narrator.On("NextState", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(advanced()).Once()

	rec := s.do(t, postForm("/choice", "id=boost_compute"), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil), cookie).Body.String()
	assert.Contains(t, page, "Simulating consequences")
	assert.Contains(t, page, `http-equiv="refresh"`)
	assert.NotContains(t, page, `value="boost_compute"`)

	body := s.state(t, cookie)
	assert.True(t, body.Loading)
	assert.Equal(t, "awaiting_response", body.Status)

	// A second submit while waiting is dropped without a narrator call.
	rec = s.do(t, postForm("/choice", "id=boost_compute"), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	close(release)
	s.h.Wait()

	body = s.state(t, cookie)
	assert.False(t, body.Loading)
	assert.Equal(t, advanced(), body.State)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Choices.WithLabelValues("advanced")))
	s.narrator.AssertNumberOfCalls(t, "NextState", 1)
}

func TestChoose_UnknownIDNeverReachesNarrator(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.open(t)

	rec := s.do(t, postForm("/choice", "id=launch_rockets"), cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, story.InitialState(), s.state(t, cookie).State)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Choices.WithLabelValues("stale")))
	s.narrator.AssertNotCalled(t, "NextState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChoose_MissingID(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, postForm("/choice", ""), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGameOver_IsArchivedAndRestartable(t *testing.T) {
	arc, err := archive.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = arc.Close() })

	s := newTestServer(t, arc)
	cookie := s.open(t)
	final := story.GameState{
		StoryText:   "Aethelred announces first.",
		Resources:   story.Resources{Compute: 30, Talent: 20, Funding: 0, PublicTrust: 40, AIProgress: 70},
		IsGameOver:  true,
		OutcomeText: "The money ran out.",
		Feedback:    "Funding hit zero.",
	}
	s.narrator.On("NextState", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(final).Once()

	rec := s.do(t, postForm("/choice", "id=public_relations"), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	s.h.Wait()

	body := s.state(t, cookie)
	assert.True(t, body.State.IsGameOver)
	assert.Equal(t, "game_over", body.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ArchivedRuns))

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/runs", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []archive.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "The money ran out.", runs[0].Outcome)
	assert.Equal(t, 1, runs[0].Turns)

	rec = s.do(t, postForm("/restart", ""), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	body = s.state(t, cookie)
	assert.Equal(t, story.InitialState(), body.State)
	assert.Empty(t, body.History)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Choices.WithLabelValues("restarted")))
}

func TestRecentRuns_DisabledArchive(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/runs", nil), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "archive_disabled")
}

func TestStreamStory(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/story/stream", nil), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	cookie := s.open(t)
	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/story/stream", nil), cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	out := rec.Body.String()
	assert.True(t, strings.HasPrefix(out, "data: \"Y\"\n\n"), out[:min(len(out), 40)])
	assert.Equal(t, len([]rune(story.InitialState().StoryText)), strings.Count(out, "data: \""))
	assert.True(t, strings.HasSuffix(out, "event: done\ndata: {}\n\n"))
}

func TestStreamStory_StopsWhenClientLeaves(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.open(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/story/stream", nil).WithContext(ctx), cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "data: \"")
	assert.NotContains(t, rec.Body.String(), "event: done")

	// A fresh stream for the same session starts over from the first character.
	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/story/stream", nil), cookie)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "data: \"Y\"\n\n"))
	assert.True(t, strings.HasSuffix(rec.Body.String(), "event: done\ndata: {}\n\n"))
}

func TestDownloadChronicle(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.open(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/chronicle.pdf", nil), cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	s.open(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "agi_race_sessions 1")
}
