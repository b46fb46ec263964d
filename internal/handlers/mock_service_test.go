package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"plant_monitor/internal/models"
	"plant_monitor/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAnalysis struct {
	res     models.AnalysisResult
	err     error
	calls   int
	lastReq models.AnalysisRequest
}

func (m *mockAnalysis) Run(ctx context.Context, req models.AnalysisRequest) (models.AnalysisResult, error) {
	m.calls++
	m.lastReq = req
	return m.res, m.err
}

type mockMonitoring struct {
	mu            sync.Mutex
	trigger       *models.TriggerRecord
	err           error
	clearErr      error
	cleared       int
	lastClearedBy int
}

func (m *mockMonitoring) setTrigger(rec *models.TriggerRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trigger = rec
}

func (m *mockMonitoring) GetTrigger(ctx context.Context) (*models.TriggerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trigger, m.err
}
func (m *mockMonitoring) ClearTrigger(ctx context.Context, clearedBy int) (*models.TriggerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	m.lastClearedBy = clearedBy
	if m.clearErr != nil {
		return nil, m.clearErr
	}
	prev := m.trigger
	m.trigger = nil
	return prev, nil
}

type mockPlants struct {
	plants    []models.Plant
	added     models.Plant
	addErr    error
	getResp   models.Plant
	getErr    error
	listErr   error
	updateErr error

	lastNew    service.NewPlant
	lastID     string
	lastStatus string
}

func (m *mockPlants) AddPlant(ctx context.Context, in service.NewPlant) (models.Plant, error) {
	m.lastNew = in
	return m.added, m.addErr
}
func (m *mockPlants) ListPlants(ctx context.Context) ([]models.Plant, error) {
	return m.plants, m.listErr
}
func (m *mockPlants) GetPlant(ctx context.Context, id string) (models.Plant, error) {
	m.lastID = id
	return m.getResp, m.getErr
}
func (m *mockPlants) UpdatePlantStatus(ctx context.Context, id, status string) error {
	m.lastID = id
	m.lastStatus = status
	return m.updateErr
}

type mockEventLog struct {
	resp     []models.AnalysisEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.AnalysisEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
