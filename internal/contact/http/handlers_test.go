package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
)

type fakeService struct {
	got     *domain.Payload
	sub     *domain.Submission
	err     error
	items   []domain.Submission
	listErr error
	submits int
}

func (f *fakeService) HandleSubmit(_ context.Context, p domain.Payload) (*domain.Submission, error) {
	f.submits++
	f.got = &p
	if err := domain.ValidatePayload(p); err != nil {
		return nil, err
	}
	return f.sub, f.err
}

func (f *fakeService) ListRecent(context.Context) ([]domain.Submission, error) {
	return f.items, f.listErr
}

func newRouter(svc IntakeService, submitMW ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(svc).Register(r.Group("/api/contact"), submitMW...)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

const validBody = `{"name":"Asha","email":"asha@example.com","phone":"9876543210","countryCode":"+91",
"category":"Services","subCategory":"Branding","subject":"","message":"Need a storefront sign"}`

func TestSubmitSuccess(t *testing.T) {
	svc := &fakeService{sub: &domain.Submission{ID: "abc"}}
	rr := do(newRouter(svc), http.MethodPost, "/api/contact", validBody)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true,"id":"abc"}`, rr.Body.String())
	require.NotNil(t, svc.got)
	assert.Equal(t, "+91", svc.got.CountryCode)
	assert.Equal(t, "Branding", svc.got.SubCategory)
}

func TestSubmitMissingFields(t *testing.T) {
	svc := &fakeService{sub: &domain.Submission{ID: "abc"}}
	r := newRouter(svc)

	for _, body := range []string{
		`{"name":"Asha"}`,
		`{}`,
		`null`,
		"",
	} {
		rr := do(r, http.MethodPost, "/api/contact", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.JSONEq(t, `{"error":"Missing required fields"}`, rr.Body.String(), body)
	}
}

func TestSubmitMalformedBody(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	for _, body := range []string{
		`{"name":`,
		`{"name":42,"email":"a@b.c"}`,
		`[1,2]`,
	} {
		rr := do(r, http.MethodPost, "/api/contact", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.JSONEq(t, `{"error":"Invalid request body"}`, rr.Body.String(), body)
	}
	assert.Zero(t, svc.submits)
}

func TestSubmitNotificationFailureKeepsID(t *testing.T) {
	svc := &fakeService{
		sub: &domain.Submission{ID: "kept-1"},
		err: &domain.NotificationError{SubmissionID: "kept-1", Err: errors.New("535 auth failed")},
	}
	rr := do(newRouter(svc), http.MethodPost, "/api/contact", validBody)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Email Error: 535 auth failed","id":"kept-1"}`, rr.Body.String())
}

func TestSubmitStorageFailure(t *testing.T) {
	svc := &fakeService{err: &domain.StorageError{Op: "create", Err: errors.New("connection refused")}}
	rr := do(newRouter(svc), http.MethodPost, "/api/contact", validBody)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Server Error: storage create: connection refused"}`, rr.Body.String())
}

func TestSubmitRunsMiddlewareOnlyOnPost(t *testing.T) {
	blocked := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
	}
	svc := &fakeService{sub: &domain.Submission{ID: "abc"}}
	r := newRouter(svc, blocked)

	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/contact", validBody).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/contact", "").Code)
	assert.Zero(t, svc.submits)
}

func TestLatest(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := &fakeService{items: []domain.Submission{
		{ID: "2", Name: "B", CreatedAt: ts.Add(time.Second)},
		{ID: "1", Name: "A", CreatedAt: ts},
	}}
	rr := do(newRouter(svc), http.MethodGet, "/api/contact", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		OK     bool                `json:"ok"`
		Latest []domain.Submission `json:"latest"`
		Count  int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Latest, 2)
	assert.Equal(t, "2", resp.Latest[0].ID)
	assert.True(t, resp.Latest[1].CreatedAt.Equal(ts))
}

func TestLatestEmptyIsArray(t *testing.T) {
	rr := do(newRouter(&fakeService{}), http.MethodGet, "/api/contact", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true,"latest":[],"count":0}`, rr.Body.String())
}

func TestLatestFailureHidesDetail(t *testing.T) {
	svc := &fakeService{listErr: &domain.StorageError{Op: "list", Err: errors.New("secret dsn leaked")}}
	rr := do(newRouter(svc), http.MethodGet, "/api/contact", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())
}

func TestPrefill(t *testing.T) {
	r := newRouter(&fakeService{})
	cases := []struct {
		query string
		want  string
	}{
		{"?category=Services&subcategory=indoor-signs", `{"ok":true,"category":"Services","subCategory":"Signage"}`},
		{"?category=Project&subcategory=hOTEL", `{"ok":true,"category":"Project","subCategory":"Hotel"}`},
		{"?category=Services&subcategory=printing", `{"ok":true,"category":"Services","subCategory":null}`},
		{"?category=Other&subcategory=x", `{"ok":true,"category":"Other","subCategory":null}`},
		{"", `{"ok":true,"category":null,"subCategory":null}`},
	}
	for _, tc := range cases {
		rr := do(r, http.MethodGet, "/api/contact/prefill"+tc.query, "")
		require.Equal(t, http.StatusOK, rr.Code, tc.query)
		assert.JSONEq(t, tc.want, rr.Body.String(), tc.query)
	}
}
