package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawlytics/drawlytics/internal/domain"
)

type fakeDrawReader struct {
	draws     domain.DrawCollection
	lastLimit int
	err       error
}

func (f *fakeDrawReader) History(_ context.Context, _ domain.GameType, limit int) (domain.DrawCollection, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.draws) {
		return f.draws[:limit], nil
	}
	return f.draws, nil
}

func (f *fakeDrawReader) LatestDate(context.Context, domain.GameType) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if len(f.draws) == 0 {
		return "", nil
	}
	return f.draws[0].Date, nil
}

func (f *fakeDrawReader) Count(context.Context, domain.GameType) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.draws), nil
}

func newTestRouter(reader DrawReader) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(reader, zerolog.Nop()).RegisterRoutes(r)
	return r
}

func TestHandleListDraws(t *testing.T) {
	reader := &fakeDrawReader{draws: domain.DrawCollection{
		{Date: "2024-01-08", Numbers: []int{2, 4, 6, 8, 10}, SpecialBall: 20, Type: domain.GamePowerball},
		{Date: "2024-01-01", Numbers: []int{1, 2, 3, 4, 5}, SpecialBall: 6, Type: domain.GamePowerball},
	}}
	router := newTestRouter(reader)

	req := httptest.NewRequest(http.MethodGet, "/games/powerball/draws", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Game       string        `json:"game"`
		Total      int           `json:"total"`
		LatestDate string        `json:"latestDate"`
		Draws      []domain.Draw `json:"draws"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "powerball", body.Game)
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "2024-01-08", body.LatestDate)
	require.Len(t, body.Draws, 2)
	assert.Equal(t, []int{2, 4, 6, 8, 10}, body.Draws[0].Numbers)
}

func TestHandleListDraws_Limit(t *testing.T) {
	reader := &fakeDrawReader{draws: domain.DrawCollection{
		{Date: "2024-01-08", Numbers: []int{2, 4, 6, 8, 10}, SpecialBall: 20, Type: domain.GamePowerball},
		{Date: "2024-01-01", Numbers: []int{1, 2, 3, 4, 5}, SpecialBall: 6, Type: domain.GamePowerball},
	}}
	router := newTestRouter(reader)

	req := httptest.NewRequest(http.MethodGet, "/games/powerball/draws?limit=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, reader.lastLimit)
}

func TestHandleListDraws_UnknownGame(t *testing.T) {
	router := newTestRouter(&fakeDrawReader{})

	req := httptest.NewRequest(http.MethodGet, "/games/euromillions/draws", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListDraws_BadLimit(t *testing.T) {
	router := newTestRouter(&fakeDrawReader{})

	req := httptest.NewRequest(http.MethodGet, "/games/powerball/draws?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListDraws_EmptyHistory(t *testing.T) {
	router := newTestRouter(&fakeDrawReader{})

	req := httptest.NewRequest(http.MethodGet, "/games/mega-millions/draws", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, "[]", string(body["draws"]), "empty history serializes as [], not null")
}
