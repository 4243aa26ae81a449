/* admin_test.go
 * Contains unit tests for the admin HTTP endpoints using httptest
 */

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	apiPkg "bracket-bot/api/api"
	"bracket-bot/api/bracket"
	"bracket-bot/api/shared"
	"bracket-bot/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region test helpers

// createTestServer returns a server whose API is backed by a mock store with
// a seeded sample tournament.
func createTestServer(t *testing.T, playIn bool) (*Server, *apiPkg.MockStore) {
	t.Helper()

	mockStore := apiPkg.NewMockStore()
	a := &apiPkg.API{Store: mockStore}
	err := a.SetupTournament("Test Playoffs 2025", *store.CreateSampleRoster(playIn))
	require.NoError(t, err)

	return &Server{api: a}, mockStore
}

// createBareServer returns a server whose store holds no tournament yet.
func createBareServer() (*Server, *apiPkg.MockStore) {
	mockStore := apiPkg.NewMockStore()
	return &Server{api: &apiPkg.API{Store: mockStore}}, mockStore
}

// authedRequest builds a request that already carries the admin bearer token.
func authedRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()

	t.Setenv("ADMIN_API_TOKEN", "secret_token")
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer secret_token")
	return req
}

// endregion

// region authorization tests

func TestAdminRoutes_RejectMissingToken(t *testing.T) {
	t.Setenv("ADMIN_API_TOKEN", "secret_token")
	server, mockStore := createTestServer(t, false)

	req := httptest.NewRequest(http.MethodPost, "/admin/rescore", nil)
	w := httptest.NewRecorder()

	server.RescoreHandler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, mockStore.Leaderboard)
}

func TestAdminRoutes_RejectWrongToken(t *testing.T) {
	t.Setenv("ADMIN_API_TOKEN", "secret_token")
	server, _ := createTestServer(t, false)

	req := httptest.NewRequest(http.MethodPost, "/admin/rescore", nil)
	req.Header.Set("Authorization", "Bearer not_the_token")
	w := httptest.NewRecorder()

	server.RescoreHandler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes_RejectWhenNoTokenConfigured(t *testing.T) {
	// An unset ADMIN_API_TOKEN locks the admin surface entirely
	t.Setenv("ADMIN_API_TOKEN", "")
	server, _ := createTestServer(t, false)

	req := httptest.NewRequest(http.MethodPost, "/admin/rescore", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()

	server.RescoreHandler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// endregion

// region HealthHandler tests

func TestHealthHandler_Success(t *testing.T) {
	server, _ := createBareServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	server.HealthHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok\n", w.Body.String())
}

func TestHealthHandler_WrongMethod(t *testing.T) {
	server, _ := createBareServer()

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	server.HealthHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// endregion

// region RescoreHandler tests

func TestRescoreHandler_Success(t *testing.T) {
	server, mockStore := createTestServer(t, false)
	user := shared.User{UserId: "user123", Username: "TestUser"}
	require.NoError(t, server.api.SubmitPick(user, bracket.FirstRound, 0, "Celtics", 5))
	require.NoError(t, server.api.RecordResult(bracket.FirstRound, 0, "Celtics", 5))

	req := authedRequest(t, http.MethodPost, "/admin/rescore", nil)
	w := httptest.NewRecorder()

	server.RescoreHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockStore.Leaderboard)
	require.Len(t, mockStore.Leaderboard.Entries, 1)
	assert.Equal(t, "TestUser", mockStore.Leaderboard.Entries[0].Username)
	assert.Equal(t, 2, mockStore.Leaderboard.Entries[0].Score.Total)
}

func TestRescoreHandler_NoTournament(t *testing.T) {
	server, _ := createBareServer()

	req := authedRequest(t, http.MethodPost, "/admin/rescore", nil)
	w := httptest.NewRecorder()

	server.RescoreHandler(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no official bracket")
}

func TestRescoreHandler_WrongMethod(t *testing.T) {
	server, _ := createTestServer(t, false)

	req := authedRequest(t, http.MethodGet, "/admin/rescore", nil)
	w := httptest.NewRecorder()

	server.RescoreHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// endregion

// region ExportHandler tests

func TestExportHandler_Success(t *testing.T) {
	server, _ := createTestServer(t, false)
	user := shared.User{UserId: "user123", Username: "TestUser"}
	require.NoError(t, server.api.SubmitPick(user, bracket.FirstRound, 0, "Celtics", 5))

	req := authedRequest(t, http.MethodGet, "/admin/export", nil)
	w := httptest.NewRecorder()

	server.ExportHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	body := w.Body.String()
	assert.Contains(t, body, `"tournament": "test-playoffs-2025"`)
	assert.Contains(t, body, `"Test Playoffs 2025"`)
	assert.Contains(t, body, `"user123"`)
}

func TestExportHandler_NoTournament(t *testing.T) {
	server, _ := createBareServer()

	req := authedRequest(t, http.MethodGet, "/admin/export", nil)
	w := httptest.NewRecorder()

	server.ExportHandler(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandler_WrongMethod(t *testing.T) {
	server, _ := createTestServer(t, false)

	req := authedRequest(t, http.MethodPost, "/admin/export", nil)
	w := httptest.NewRecorder()

	server.ExportHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// endregion

// region ImportHandler tests

func TestImportHandler_RoundTrip(t *testing.T) {
	source, _ := createTestServer(t, false)
	user := shared.User{UserId: "user123", Username: "TestUser"}
	require.NoError(t, source.api.SubmitPick(user, bracket.FirstRound, 0, "Celtics", 5))
	require.NoError(t, source.api.RecordResult(bracket.FirstRound, 0, "Celtics", 5))

	var snapshot bytes.Buffer
	require.NoError(t, source.api.ExportSnapshot(&snapshot))

	target, targetStore := createBareServer()
	req := authedRequest(t, http.MethodPost, "/admin/import", &snapshot)
	w := httptest.NewRecorder()

	target.ImportHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"succeeded":1`)

	require.NotNil(t, targetStore.Official)
	assert.Equal(t, "Test Playoffs 2025", targetStore.Official.Name)
	assert.Equal(t, "Celtics", targetStore.Official.Bracket.FirstRound[0].Winner)
	entry, ok := targetStore.Entries["user123"]
	require.True(t, ok)
	assert.Equal(t, "Celtics", entry.Bracket.FirstRound[0].Winner)
}

func TestImportHandler_InvalidJSON(t *testing.T) {
	server, _ := createBareServer()

	req := authedRequest(t, http.MethodPost, "/admin/import", bytes.NewBufferString("not a snapshot"))
	w := httptest.NewRecorder()

	server.ImportHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportHandler_EmptyBody(t *testing.T) {
	server, _ := createBareServer()

	req := authedRequest(t, http.MethodPost, "/admin/import", nil)
	w := httptest.NewRecorder()

	server.ImportHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportHandler_InvalidRoster(t *testing.T) {
	server, targetStore := createBareServer()

	snap := apiPkg.Snapshot{Tournament: "broken"}
	body, err := json.Marshal(snap)
	require.NoError(t, err)

	req := authedRequest(t, http.MethodPost, "/admin/import", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	server.ImportHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "roster in snapshot is invalid")
	assert.Nil(t, targetStore.Official)
}

func TestImportHandler_BrokenOfficialTree(t *testing.T) {
	server, _ := createBareServer()

	snap := apiPkg.Snapshot{
		Tournament: "broken",
		Official: store.OfficialRecord{
			Name:   "Broken Import",
			Roster: *store.CreateSampleRoster(false),
			Bracket: bracket.Bracket{
				FirstRound: make([]bracket.Matchup, 3),
			},
		},
	}
	body, err := json.Marshal(snap)
	require.NoError(t, err)

	req := authedRequest(t, http.MethodPost, "/admin/import", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	server.ImportHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "official bracket in snapshot is invalid")
}

func TestImportHandler_PartialFailure(t *testing.T) {
	source, _ := createTestServer(t, false)
	require.NoError(t, source.api.SubmitPick(shared.User{UserId: "user1", Username: "UserOne"}, bracket.FirstRound, 0, "Celtics", 5))
	require.NoError(t, source.api.SubmitPick(shared.User{UserId: "user2", Username: "UserTwo"}, bracket.FirstRound, 0, "Heat", 0))

	var snapshot bytes.Buffer
	require.NoError(t, source.api.ExportSnapshot(&snapshot))

	target, targetStore := createBareServer()
	targetStore.FailEntryIds["user2"] = true

	req := authedRequest(t, http.MethodPost, "/admin/import", &snapshot)
	w := httptest.NewRecorder()

	target.ImportHandler(w, req)

	// The official tree landed so the reply reports the partial outcome
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"succeeded":1`)
	assert.Contains(t, w.Body.String(), `"failed":["user2"]`)
	require.NotNil(t, targetStore.Official)
	_, ok := targetStore.Entries["user1"]
	assert.True(t, ok)
}

func TestImportHandler_StoreError(t *testing.T) {
	source, _ := createTestServer(t, false)

	var snapshot bytes.Buffer
	require.NoError(t, source.api.ExportSnapshot(&snapshot))

	target, targetStore := createBareServer()
	targetStore.StoreOfficialBracketError = errors.New("connection reset")

	req := authedRequest(t, http.MethodPost, "/admin/import", &snapshot)
	w := httptest.NewRecorder()

	target.ImportHandler(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// endregion

// region ScoringConfigHandler tests

func TestScoringConfigHandler_Success(t *testing.T) {
	server, mockStore := createTestServer(t, false)

	body := bytes.NewBufferString(`{"upsetBonus":4,"seriesBonusEnabled":false}`)
	req := authedRequest(t, http.MethodPost, "/admin/scoring-config", body)
	w := httptest.NewRecorder()

	server.ScoringConfigHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockStore.Config)

	cfg, err := server.api.GetScoringConfig()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.UpsetBonus)
	assert.False(t, cfg.SeriesBonusEnabled)
	assert.Equal(t, 5, cfg.MVPBonus)
}

func TestScoringConfigHandler_InvalidJSON(t *testing.T) {
	server, _ := createTestServer(t, false)

	req := authedRequest(t, http.MethodPost, "/admin/scoring-config", bytes.NewBufferString("{bad"))
	w := httptest.NewRecorder()

	server.ScoringConfigHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoringConfigHandler_StoreError(t *testing.T) {
	server, mockStore := createTestServer(t, false)
	mockStore.StoreScoringConfigError = errors.New("write concern failed")

	req := authedRequest(t, http.MethodPost, "/admin/scoring-config", bytes.NewBufferString(`{"mvpBonus":10}`))
	w := httptest.NewRecorder()

	server.ScoringConfigHandler(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestScoringConfigHandler_WrongMethod(t *testing.T) {
	server, _ := createTestServer(t, false)

	req := authedRequest(t, http.MethodGet, "/admin/scoring-config", nil)
	w := httptest.NewRecorder()

	server.ScoringConfigHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// endregion

// region rate limiting tests

func TestGetVisitor_AllowsBurstThenLimits(t *testing.T) {
	limiter := getVisitor("203.0.113.9")

	allowed := 0
	for i := 0; i < 120; i++ {
		if limiter.Allow() {
			allowed++
		}
	}

	assert.Equal(t, 100, allowed)
}

func TestGetVisitor_SameLimiterPerIP(t *testing.T) {
	first := getVisitor("198.51.100.7")
	second := getVisitor("198.51.100.7")
	other := getVisitor("198.51.100.8")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestRateLimited_RejectsExhaustedVisitor(t *testing.T) {
	// Drain the bucket for this address before going through the middleware
	limiter := getVisitor("198.51.100.4")
	for limiter.Allow() {
	}

	handler := rateLimited(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/export", nil)
	req.RemoteAddr = "198.51.100.4:4444"
	w := httptest.NewRecorder()

	handler(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimited_AllowsFreshVisitor(t *testing.T) {
	handler := rateLimited(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/export", nil)
	req.RemoteAddr = "198.51.100.5:4444"
	w := httptest.NewRecorder()

	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientIP_StripsPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.1.2.3:9999"

	assert.Equal(t, "10.1.2.3", clientIP(req))
}

func TestClientIP_NoPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.1.2.3"

	assert.Equal(t, "10.1.2.3", clientIP(req))
}

// endregion
