package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entdash/backoffice/internal/domain/models"
)

type stubStats struct {
	lastRange    models.RangeKind
	lastActivity models.ActivityType
	lastEnt      string
	total        models.StatTotal
	count        models.StatCount
	teams        []models.Team
	err          error
}

func (s *stubStats) RechargeTotal(_ context.Context, rng models.RangeKind, ent string) (models.StatTotal, error) {
	s.lastRange, s.lastEnt = rng, ent
	return s.total, s.err
}

func (s *stubStats) RedeemTotal(_ context.Context, rng models.RangeKind, ent string) (models.StatTotal, error) {
	s.lastRange, s.lastEnt = rng, ent
	return s.total, s.err
}

func (s *stubStats) BonusTotal(_ context.Context, rng models.RangeKind, ent string) (models.StatTotal, error) {
	s.lastRange, s.lastEnt = rng, ent
	return s.total, s.err
}

func (s *stubStats) UniqueUsers(_ context.Context, rng models.RangeKind, ent string) (models.StatCount, error) {
	s.lastRange, s.lastEnt = rng, ent
	return s.count, s.err
}

func (s *stubStats) PendingCount(_ context.Context, activity models.ActivityType, ent string) (models.StatCount, error) {
	s.lastActivity, s.lastEnt = activity, ent
	return s.count, s.err
}

func (s *stubStats) Teams(context.Context) ([]models.Team, error) {
	return s.teams, s.err
}

func newStatsRouter(svc *stubStats) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewStatsHandler(svc, nil)
	r := gin.New()
	r.GET("/stats/recharge-total", h.RechargeTotal)
	r.GET("/stats/pending-count", h.PendingCount)
	r.GET("/teams", h.Teams)
	return r
}

func getRequest(r *gin.Engine, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRechargeTotalDefaultsToDay(t *testing.T) {
	svc := &stubStats{total: models.StatTotal{Range: models.RangeDay, Ent: "all", Total: 500}}
	r := newStatsRouter(svc)

	w := getRequest(r, "/stats/recharge-total")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.RangeDay, svc.lastRange)
	assert.Equal(t, "", svc.lastEnt)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Contains(t, payload, "total")
	assert.Contains(t, payload, "start_date")
}

func TestRechargeTotalPassesRangeAndEnt(t *testing.T) {
	svc := &stubStats{}
	r := newStatsRouter(svc)

	w := getRequest(r, "/stats/recharge-total?range=week&ent=ent3")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, models.RangeWeek, svc.lastRange)
	assert.Equal(t, "ent3", svc.lastEnt)
}

func TestRechargeTotalRejectsBadRange(t *testing.T) {
	svc := &stubStats{}
	r := newStatsRouter(svc)

	w := getRequest(r, "/stats/recharge-total?range=year")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPendingCountValidatesActivity(t *testing.T) {
	svc := &stubStats{}
	r := newStatsRouter(svc)

	w := getRequest(r, "/stats/pending-count?activity=withdraw")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = getRequest(r, "/stats/pending-count?activity=transfer")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ActivityTransfer, svc.lastActivity)
}

func TestPendingCountServiceError(t *testing.T) {
	svc := &stubStats{err: errors.New("boom")}
	r := newStatsRouter(svc)

	w := getRequest(r, "/stats/pending-count?activity=recharge")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "Internal Server Error", payload["error"])
}

func TestTeamsReturnsEmptyArray(t *testing.T) {
	svc := &stubStats{}
	r := newStatsRouter(svc)

	w := getRequest(r, "/teams")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"teams":[]}`, w.Body.String())
}
