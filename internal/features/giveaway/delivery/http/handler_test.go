package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot-backend/internal/features/giveaway/models"
	giveawayservice "giveaway-bot-backend/internal/features/giveaway/service"
)

type stubService struct {
	startID  string
	startErr error
	endErr   error
	ids      []string

	weights map[string]int
	boosts  map[string]int
}

func (s *stubService) StartGiveaway(ctx context.Context, channelID, guildID, durationToken string, winners int, prize string) (string, error) {
	if _, err := models.ParseDuration(durationToken); err != nil {
		return "", err
	}
	return s.startID, s.startErr
}

func (s *stubService) EndGiveaway(ctx context.Context, entryID string) error {
	return s.endErr
}

func (s *stubService) RerollGiveaway(ctx context.Context, entryID string) error {
	return s.endErr
}

func (s *stubService) ListActiveGiveaways(ctx context.Context) ([]string, error) {
	return s.ids, nil
}

func (s *stubService) SetUserWeight(ctx context.Context, userID string, amount int) error {
	if s.weights == nil {
		s.weights = make(map[string]int)
	}
	s.weights[userID] = amount
	return nil
}

func (s *stubService) SetUserBoost(ctx context.Context, userID string, amount int) error {
	if s.boosts == nil {
		s.boosts = make(map[string]int)
	}
	s.boosts[userID] = amount
	return nil
}

func newTestRouter(svc giveawayservice.GiveawayService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewGiveawayHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStartGiveawayEndpoint(t *testing.T) {
	router := newTestRouter(&stubService{startID: "123"})

	w := doJSON(t, router, http.MethodPost, "/api/v1/giveaways",
		`{"channel":"c","guild":"g","duration":"10m","winners":1,"prize":"Nitro"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"123"}`, w.Body.String())
}

func TestStartGiveawayEndpointInvalidDuration(t *testing.T) {
	router := newTestRouter(&stubService{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/giveaways",
		`{"channel":"c","guild":"g","duration":"5x","winners":1,"prize":"Nitro"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartGiveawayEndpointMissingFields(t *testing.T) {
	router := newTestRouter(&stubService{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/giveaways", `{"duration":"10m"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEndGiveawayEndpointNotFound(t *testing.T) {
	router := newTestRouter(&stubService{endErr: giveawayservice.ErrNotFound})

	w := doJSON(t, router, http.MethodPost, "/api/v1/giveaways/42/end", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEndGiveawayEndpoint(t *testing.T) {
	router := newTestRouter(&stubService{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/giveaways/42/end", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"completed"}`, w.Body.String())
}

func TestRerollGiveawayEndpointNotFound(t *testing.T) {
	router := newTestRouter(&stubService{endErr: giveawayservice.ErrNotFound})

	w := doJSON(t, router, http.MethodPost, "/api/v1/giveaways/42/reroll", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListGiveawaysEndpoint(t *testing.T) {
	router := newTestRouter(&stubService{ids: []string{"1", "2"}})

	w := doJSON(t, router, http.MethodGet, "/api/v1/giveaways", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"giveaways":["1","2"]}`, w.Body.String())
}

func TestSetWeightEndpoint(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)

	w := doJSON(t, router, http.MethodPut, "/api/v1/users/alice/weight", `{"amount":5}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, svc.weights["alice"])
}

func TestSetBoostEndpointZeroAmount(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)

	// Zero is a valid explicit reset, not a missing field.
	w := doJSON(t, router, http.MethodPut, "/api/v1/users/alice/boost", `{"amount":0}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.boosts["alice"])
}

func TestSetWeightEndpointMissingAmount(t *testing.T) {
	router := newTestRouter(&stubService{})

	w := doJSON(t, router, http.MethodPut, "/api/v1/users/alice/weight", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
