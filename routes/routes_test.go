package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/tournament-manager/handlers"
	"github.com/Dosada05/tournament-manager/middleware"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("routes-secret")

// newRouter wires handlers with nil services; only requests rejected before
// reaching a service may be sent through it.
func newRouter(t *testing.T) http.Handler {
	t.Helper()
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "routes_test_total", Help: "test"}))

	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Auth:       handlers.NewAuthHandler(nil, string(secret)),
		Sport:      handlers.NewSportHandler(nil),
		Tournament: handlers.NewTournamentHandler(nil),
		Standings:  handlers.NewStandingsHandler(nil),
		Team:       handlers.NewTeamHandler(nil),
		Match:      handlers.NewMatchHandler(nil, nil),
		Prediction: handlers.NewPredictionHandler(nil),
	}, Options{
		JWTSecret:      secret,
		AllowedOrigins: []string{"*"},
		Gatherer:       registry,
	})
	return router
}

func token(t *testing.T, role models.UserRole) string {
	t.Helper()
	tok, err := middleware.GenerateToken(secret, &models.User{ID: 1, Role: role}, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestPublicEndpoints(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{path: "/api/health", contentType: "application/json", contains: `"ok"`},
		{path: "/swagger/doc.json", contentType: "application/json", contains: `"/api/matches/score"`},
		{path: "/metrics", contains: "routes_test_total"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			if tt.contentType != "" {
				assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			}
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestProtectedEndpoints(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{name: "bracket without token", path: "/api/matches/brackets/1", want: http.StatusUnauthorized},
		{name: "bracket as viewer", path: "/api/matches/brackets/1", token: token(t, models.RoleViewer), want: http.StatusForbidden},
		{name: "score as viewer", path: "/api/matches/score", token: token(t, models.RoleViewer), want: http.StatusForbidden},
		{name: "correction as organizer", path: "/api/matches/1/correction", token: token(t, models.RoleOrganizer), want: http.StatusForbidden},
		{name: "recount as organizer", path: "/api/tournaments/1/standings/recount", token: token(t, models.RoleOrganizer), want: http.StatusForbidden},
		{name: "team registration without token", path: "/api/teams", want: http.StatusUnauthorized},
		{name: "sport creation as viewer", path: "/api/sports", token: token(t, models.RoleViewer), want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/matches/score", nil)
	req.Header.Set("Origin", "https://app.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
