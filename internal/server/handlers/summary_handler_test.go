package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entdash/backoffice/internal/config"
	"github.com/entdash/backoffice/internal/domain/models"
)

type stubSummarizer struct {
	lastFilter models.SummaryFilter
	result     models.CycleSummary
	err        error
}

func (s *stubSummarizer) TeamCycleSummary(_ context.Context, filter models.SummaryFilter) (models.CycleSummary, error) {
	s.lastFilter = filter
	return s.result, s.err
}

func testHandlerConfig() config.SummaryConfig {
	return config.SummaryConfig{
		CycleShiftHours:        5,
		CycleBoundaryHour:      7,
		RechargeAcceptStatuses: []int{4, 5},
		RedeemMinStatus:        2,
		DefaultEnt:             "ent1",
		DefaultDate:            "2025-12-01",
		Timezone:               "UTC",
	}
}

func newSummaryRouter(svc *stubSummarizer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSummaryHandler(svc, testHandlerConfig(), nil)
	r := gin.New()
	r.POST("/summary", h.TeamCycleSummary)
	r.GET("/summary", h.TeamCycleSummary)
	r.GET("/summary/export", h.ExportTeamCycleSummary)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTeamCycleSummaryAppliesDefaults(t *testing.T) {
	svc := &stubSummarizer{}
	r := newSummaryRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "2025-12-01", svc.lastFilter.StartDate)
	assert.Equal(t, "2025-12-01", svc.lastFilter.EndDate)
	assert.Equal(t, []string{"ent1"}, svc.lastFilter.TeamCodes)
}

func TestTeamCycleSummaryBodyFilters(t *testing.T) {
	svc := &stubSummarizer{}
	r := newSummaryRouter(svc)

	body := `{"start_date":"2025-01-10","end_date":"2025-01-12","team_codes":["ent2","ent3"]}`
	w := doRequest(t, r, http.MethodPost, "/summary", body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "2025-01-10", svc.lastFilter.StartDate)
	assert.Equal(t, "2025-01-12", svc.lastFilter.EndDate)
	assert.Equal(t, []string{"ent2", "ent3"}, svc.lastFilter.TeamCodes)
}

func TestTeamCycleSummaryCommaJoinedTeamCodes(t *testing.T) {
	svc := &stubSummarizer{}
	r := newSummaryRouter(svc)

	body := `{"start_date":"2025-01-10","end_date":"2025-01-10","team_codes":"ent2, ent3"}`
	w := doRequest(t, r, http.MethodPost, "/summary", body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"ent2", "ent3"}, svc.lastFilter.TeamCodes)
}

func TestTeamCycleSummarySingularTeamCode(t *testing.T) {
	svc := &stubSummarizer{}
	r := newSummaryRouter(svc)

	body := `{"start_date":"2025-01-10","end_date":"2025-01-10","team_code":"ent7"}`
	w := doRequest(t, r, http.MethodPost, "/summary", body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"ent7"}, svc.lastFilter.TeamCodes)
}

func TestTeamCycleSummaryEntShorthand(t *testing.T) {
	svc := &stubSummarizer{}
	r := newSummaryRouter(svc)

	body := `{"start_date":"2025-01-10","end_date":"2025-01-10","ent":"ent4"}`
	w := doRequest(t, r, http.MethodPost, "/summary", body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"ent4"}, svc.lastFilter.TeamCodes)
}

func TestTeamCycleSummaryEntAllMeansNoFilter(t *testing.T) {
	svc := &stubSummarizer{}
	r := newSummaryRouter(svc)

	body := `{"start_date":"2025-01-10","end_date":"2025-01-10","ent":"all"}`
	w := doRequest(t, r, http.MethodPost, "/summary", body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, svc.lastFilter.TeamCodes)
}

func TestTeamCycleSummaryQueryParams(t *testing.T) {
	svc := &stubSummarizer{}
	r := newSummaryRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/summary?start_date=2025-01-10&end_date=2025-01-11&team_codes=ent5,ent6", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "2025-01-10", svc.lastFilter.StartDate)
	assert.Equal(t, "2025-01-11", svc.lastFilter.EndDate)
	assert.Equal(t, []string{"ent5", "ent6"}, svc.lastFilter.TeamCodes)
}

func TestTeamCycleSummaryRejectsBadDate(t *testing.T) {
	svc := &stubSummarizer{}
	r := newSummaryRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/summary?start_date=10-01-2025", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamCycleSummaryServiceError(t *testing.T) {
	svc := &stubSummarizer{err: errors.New("connection refused")}
	r := newSummaryRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/summary", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "Internal Server Error", payload["error"])
	assert.Equal(t, "connection refused", payload["details"])
}

func TestTeamCycleSummaryResponseEnvelope(t *testing.T) {
	svc := &stubSummarizer{result: models.CycleSummary{
		Data: []models.TeamTotal{
			{TeamCode: "ent1", In: 100, Out: 40, TotalCreditsLoaded: 110, Bonus: 10, BonusPct: 10, HoldingPct: 60},
		},
		Daily: []models.DailyTotal{
			{Date: "2025-01-10", In: 100, Out: 40, TotalCreditsLoaded: 110, Bonus: 10, HoldingPct: 60},
		},
	}}
	r := newSummaryRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Contains(t, payload, "data")
	require.Contains(t, payload, "daily")

	var rows []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload["data"], &rows))
	require.Len(t, rows, 1)
	for _, key := range []string{"Team_Code", "In", "Out", "Total_Credits_Loaded", "Bonus", "Bonus_%", "Holding_%"} {
		assert.Contains(t, rows[0], key)
	}

	var daily []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload["daily"], &daily))
	require.Len(t, daily, 1)
	assert.Contains(t, daily[0], "date")
	assert.NotContains(t, daily[0], "Bonus_%")
}

func TestExportTeamCycleSummaryHeaders(t *testing.T) {
	svc := &stubSummarizer{}
	r := newSummaryRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/summary/export?start_date=2025-01-10&end_date=2025-01-10", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="team-cycle-summary_2025-01-10_2025-01-10.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.NotZero(t, w.Body.Len())
}
