package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agi_race/metrics"
	"agi_race/mocks"
	"agi_race/story"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *metrics.Metrics, *time.Time) {
	m := metrics.New()
	mgr := NewManager(mocks.NewMockNarrator(t), ttl, m, zerolog.Nop())
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return clock }
	return mgr, m, &clock
}

func TestFromRequest_CreatesAndReuses(t *testing.T) {
	mgr, m, _ := newTestManager(t, time.Hour)

	rec := httptest.NewRecorder()
	s := mgr.FromRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, s)
	assert.Equal(t, story.InitialState(), s.Controller.Snapshot().State)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, s.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again := mgr.FromRequest(httptest.NewRecorder(), req)
	assert.Same(t, s, again)
	assert.Equal(t, 1, mgr.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions))
}

func TestFromRequest_UnknownCookieGetsNewSession(t *testing.T) {
	mgr, _, _ := newTestManager(t, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	s := mgr.FromRequest(rec, req)

	assert.NotEqual(t, "stale", s.ID)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestLookup_DoesNotCreate(t *testing.T) {
	mgr, _, _ := newTestManager(t, time.Hour)

	_, ok := mgr.Lookup(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, ok)
	assert.Zero(t, mgr.Len())
}

func TestSweep_EvictsIdle(t *testing.T) {
	mgr, m, clock := newTestManager(t, time.Hour)
	old := mgr.Create()
	*clock = clock.Add(50 * time.Minute)
	fresh := mgr.Create()

	*clock = clock.Add(20 * time.Minute)
	removed := mgr.Sweep()

	assert.Equal(t, 1, removed)
	_, ok := mgr.Get(old.ID)
	assert.False(t, ok)
	_, ok = mgr.Get(fresh.ID)
	assert.True(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions))
}

func TestGet_TouchKeepsSessionAlive(t *testing.T) {
	mgr, _, clock := newTestManager(t, time.Hour)
	s := mgr.Create()

	*clock = clock.Add(45 * time.Minute)
	_, ok := mgr.Get(s.ID)
	require.True(t, ok)

	*clock = clock.Add(45 * time.Minute)
	assert.Zero(t, mgr.Sweep())
}
