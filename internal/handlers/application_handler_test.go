package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/job-application-tracker/internal/auth"
	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
	"github.com/justsurfingit/job-application-tracker/internal/services"
	"github.com/justsurfingit/job-application-tracker/internal/validation"
)

// fakeService is an in-memory ApplicationService that mirrors the real
// owner-scoping behaviour: every lookup filters on both id and owner.
type fakeService struct {
	apps   map[string]*models.Application
	nextID int
	err    error // when set, every call fails with it
}

func newFakeService() *fakeService {
	return &fakeService{apps: map[string]*models.Application{}}
}

func (f *fakeService) Create(_ context.Context, ownerID string, req *dtos.ApplicationCreateRequest) (*models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	req.Normalize()
	if fields := validation.Struct(req); fields != nil {
		return nil, &services.ValidationError{Fields: fields}
	}

	status := req.Status
	if status == "" {
		status = models.StatusApplied
	}
	f.nextID++
	id := fmt.Sprintf("%024d", f.nextID)
	now := time.Now().UTC()
	app := &models.Application{
		Title:       req.Title,
		Company:     req.Company,
		Status:      status,
		UserID:      ownerID,
		AppliedDate: now,
		Notes:       req.Notes,
		JobURL:      req.JobURL,
		ResumeURL:   req.ResumeURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.apps[id] = app
	return app, nil
}

func (f *fakeService) List(_ context.Context, ownerID string) ([]models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Application{}
	for _, app := range f.apps {
		if app.UserID == ownerID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeService) find(id, ownerID string) (*models.Application, error) {
	app, ok := f.apps[id]
	if !ok || app.UserID != ownerID {
		return nil, services.ErrNotFound
	}
	return app, nil
}

func (f *fakeService) Get(_ context.Context, id, ownerID string) (*models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.find(id, ownerID)
}

func (f *fakeService) Update(_ context.Context, id, ownerID string, req *dtos.ApplicationUpdateRequest) (*models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	req.Normalize()
	if fields := validation.Struct(req); fields != nil {
		return nil, &services.ValidationError{Fields: fields}
	}
	app, err := f.find(id, ownerID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		app.Title = *req.Title
	}
	if req.Company != nil {
		app.Company = *req.Company
	}
	if req.Status != nil {
		app.Status = *req.Status
	}
	if req.AppliedDate != nil {
		app.AppliedDate = *req.AppliedDate
	}
	if req.Notes != nil {
		app.Notes = *req.Notes
	}
	if req.JobURL != nil {
		app.JobURL = *req.JobURL
	}
	if req.ResumeURL != nil {
		app.ResumeURL = *req.ResumeURL
	}
	app.UpdatedAt = time.Now().UTC()
	return app, nil
}

func (f *fakeService) Delete(_ context.Context, id, ownerID string) error {
	if f.err != nil {
		return f.err
	}
	if _, err := f.find(id, ownerID); err != nil {
		return err
	}
	delete(f.apps, id)
	return nil
}

func (f *fakeService) Search(_ context.Context, ownerID, _ string) ([]models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.List(context.Background(), ownerID)
}

func (f *fakeService) Stats(_ context.Context, ownerID string) (*dtos.StatsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := map[models.Status]int64{}
	var total int64
	for _, app := range f.apps {
		if app.UserID == ownerID {
			counts[app.Status]++
			total++
		}
	}
	for _, s := range models.AllStatuses {
		if _, ok := counts[s]; !ok {
			counts[s] = 0
		}
	}
	active := total - counts[models.StatusRejected] - counts[models.StatusArchived]
	rate := 0
	if total > 0 {
		rate = int(float64(counts[models.StatusOfferReceived])/float64(total)*100 + 0.5)
	}
	return &dtos.StatsResponse{
		TotalJobs:          total,
		ActiveApplications: active,
		SuccessRate:        rate,
		StatusCounts:       counts,
		UserID:             ownerID,
		Timestamp:          time.Now().UTC(),
	}, nil
}

// newRouter wires the handler behind a middleware that seeds the given
// subject, standing in for a verified token. An empty subject simulates an
// unauthenticated request slipping past the guard.
func newRouter(svc ApplicationService, subject string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewApplicationHandler(svc)

	r := gin.New()
	if subject != "" {
		r.Use(func(c *gin.Context) {
			auth.SetSubject(c, subject)
			c.Next()
		})
	}
	r.POST("/applications", h.CreateApplication)
	r.GET("/applications", h.ListApplications)
	r.GET("/applications/stats", h.GetStats)
	r.GET("/applications/search", h.SearchApplications)
	r.GET("/applications/:id", h.GetApplication)
	r.PUT("/applications/:id", h.UpdateApplication)
	r.DELETE("/applications/:id", h.DeleteApplication)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateApplication_StampsVerifiedOwner(t *testing.T) {
	svc := newFakeService()
	r := newRouter(svc, "u1")

	w := doJSON(r, http.MethodPost, "/applications", gin.H{
		"title":   "SWE",
		"company": "Acme",
		"user_id": "someone-else",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var app models.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &app))
	assert.Equal(t, "u1", app.UserID)
	assert.Equal(t, models.StatusApplied, app.Status)
}

func TestCreateApplication_BogusStatusRejected(t *testing.T) {
	svc := newFakeService()
	r := newRouter(svc, "u1")

	w := doJSON(r, http.MethodPost, "/applications", gin.H{
		"title":   "SWE",
		"company": "Acme",
		"status":  "Bogus",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string                  `json:"error"`
		Details []validation.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ValidationFailed", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "status", resp.Details[0].Field)

	// nothing persisted
	assert.Empty(t, svc.apps)
}

func TestCreateApplication_NoIdentity(t *testing.T) {
	r := newRouter(newFakeService(), "")

	w := doJSON(r, http.MethodPost, "/applications", gin.H{
		"title":   "SWE",
		"company": "Acme",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListApplications_RoundTrip(t *testing.T) {
	svc := newFakeService()
	r := newRouter(svc, "u1")

	w := doJSON(r, http.MethodPost, "/applications", gin.H{"title": "SWE", "company": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/applications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var apps []models.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
	require.Len(t, apps, 1)
	assert.Equal(t, "SWE", apps[0].Title)
}

func TestListApplications_ScopedToCaller(t *testing.T) {
	svc := newFakeService()
	doJSON(newRouter(svc, "u1"), http.MethodPost, "/applications", gin.H{"title": "SWE", "company": "Acme"})

	w := doJSON(newRouter(svc, "u2"), http.MethodGet, "/applications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var apps []models.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
	assert.Empty(t, apps)
}

func TestUpdateApplication_CrossOwnerIsNotFound(t *testing.T) {
	svc := newFakeService()
	w := doJSON(newRouter(svc, "u1"), http.MethodPost, "/applications", gin.H{"title": "SWE", "company": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)

	var id string
	for k := range svc.apps {
		id = k
	}

	// authenticated as u2, targeting u1's record: NotFound, never Unauthorized
	w = doJSON(newRouter(svc, "u2"), http.MethodPut, "/applications/"+id, gin.H{"status": "Interviewed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, models.StatusApplied, svc.apps[id].Status)
}

func TestUpdateApplication_PatchesOnlyGivenFields(t *testing.T) {
	svc := newFakeService()
	r := newRouter(svc, "u1")
	doJSON(r, http.MethodPost, "/applications", gin.H{
		"title":   "SWE",
		"company": "Acme",
		"notes":   "phone screen on Friday",
	})

	var id string
	for k := range svc.apps {
		id = k
	}

	w := doJSON(r, http.MethodPut, "/applications/"+id, gin.H{"status": "Interviewed"})
	require.Equal(t, http.StatusOK, w.Code)

	var app models.Application
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &app))
	assert.Equal(t, models.StatusInterviewed, app.Status)
	assert.Equal(t, "SWE", app.Title)
	assert.Equal(t, "phone screen on Friday", app.Notes)
}

func TestDeleteApplication(t *testing.T) {
	svc := newFakeService()
	r := newRouter(svc, "u1")
	doJSON(r, http.MethodPost, "/applications", gin.H{"title": "SWE", "company": "Acme"})

	var id string
	for k := range svc.apps {
		id = k
	}

	w := doJSON(r, http.MethodDelete, "/applications/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, svc.apps)

	// deleting again reports NotFound
	w = doJSON(r, http.MethodDelete, "/applications/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStats_SingleRecordScenario(t *testing.T) {
	svc := newFakeService()
	r := newRouter(svc, "u1")
	doJSON(r, http.MethodPost, "/applications", gin.H{
		"title":   "SWE",
		"company": "Acme",
		"status":  "Applied",
	})

	w := doJSON(r, http.MethodGet, "/applications/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats dtos.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalJobs)
	assert.Equal(t, int64(1), stats.StatusCounts[models.StatusApplied])
	assert.Equal(t, int64(1), stats.ActiveApplications)
	assert.Equal(t, 0, stats.SuccessRate)
	assert.Len(t, stats.StatusCounts, len(models.AllStatuses))
}

func TestSearchApplications_RequiresQuery(t *testing.T) {
	r := newRouter(newFakeService(), "u1")

	w := doJSON(r, http.MethodGet, "/applications/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/applications/search?q=acme", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpstreamFailureSurfacedNotMasked(t *testing.T) {
	svc := newFakeService()
	svc.err = fmt.Errorf("connection refused")
	r := newRouter(svc, "u1")

	w := doJSON(r, http.MethodGet, "/applications", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UpstreamFailure", resp.Error)
}
