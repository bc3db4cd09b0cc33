package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "favtrack/internal/errors"
	"favtrack/internal/model"
	"favtrack/internal/service"
)

// MockFavoriteService is a mock implementation of FavoriteService.
type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) List(ctx context.Context, ownerID uint, limit, offset int) (*service.ListResult, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult), args.Error(1)
}

func (m *MockFavoriteService) Create(ctx context.Context, ownerID uint, in service.FavoriteInput) (*model.Favorite, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteService) Get(ctx context.Context, ownerID, id uint) (*model.Favorite, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteService) Update(ctx context.Context, ownerID, id uint, in service.FavoriteInput) (*model.Favorite, error) {
	args := m.Called(ctx, ownerID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteService) Delete(ctx context.Context, ownerID, id uint) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", uint(1))
	return c, rec
}

func TestFavoriteHandler_ListInvalidQuery(t *testing.T) {
	mockSvc := new(MockFavoriteService)
	h := NewFavoriteHandler(mockSvc)

	c, rec := newContext(t, http.MethodGet, "/api/favorites?limit=abc", "")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "limit")
	mockSvc.AssertNotCalled(t, "List")
}

func TestFavoriteHandler_ListResponseShape(t *testing.T) {
	next := 10
	mockSvc := new(MockFavoriteService)
	mockSvc.On("List", mock.Anything, uint(1), 10, 0).Return(&service.ListResult{
		Items: []model.Favorite{{ID: 1, UserID: 1, Title: "Dune", Type: model.MediaTypeMovie}},
		Total: 11, NextOffset: &next,
	}, nil)
	h := NewFavoriteHandler(mockSvc)

	c, rec := newContext(t, http.MethodGet, "/api/favorites", "")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "items")
	assert.Contains(t, body, "total")
	assert.Contains(t, body, "nextOffset")
	mockSvc.AssertExpectations(t)
}

func TestFavoriteHandler_CreateValidationStatus(t *testing.T) {
	mockSvc := new(MockFavoriteService)
	mockSvc.On("Create", mock.Anything, uint(1), mock.Anything).Return(nil,
		apperrors.NewValidation(map[string]string{"title": "is required"}))
	h := NewFavoriteHandler(mockSvc)

	c, rec := newContext(t, http.MethodPost, "/api/favorites", `{"type":"movie"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "is required", body.Errors["title"])
}

func TestFavoriteHandler_CreateEnvelope(t *testing.T) {
	mockSvc := new(MockFavoriteService)
	mockSvc.On("Create", mock.Anything, uint(1), mock.Anything).Return(
		&model.Favorite{ID: 3, UserID: 1, Title: "Dune", Type: model.MediaTypeMovie}, nil)
	h := NewFavoriteHandler(mockSvc)

	c, rec := newContext(t, http.MethodPost, "/api/favorites", `{"title":"Dune","type":"movie"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Item model.Favorite `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint(3), body.Item.ID)
	assert.Equal(t, "Dune", body.Item.Title)
}

func TestFavoriteHandler_DeleteStatuses(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"first delete", nil, http.StatusOK},
		{"already deleted", apperrors.ErrFavoriteNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockFavoriteService)
			mockSvc.On("Delete", mock.Anything, uint(1), uint(3)).Return(tt.serviceErr)
			h := NewFavoriteHandler(mockSvc)

			c, rec := newContext(t, http.MethodDelete, "/api/favorites/3", "")
			c.SetParamNames("id")
			c.SetParamValues("3")
			require.NoError(t, h.Delete(c))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.serviceErr == nil {
				assert.JSONEq(t, `{"success":true}`, rec.Body.String())
			}
		})
	}
}

func TestFavoriteHandler_NonNumericIDIsNotFound(t *testing.T) {
	mockSvc := new(MockFavoriteService)
	h := NewFavoriteHandler(mockSvc)

	c, rec := newContext(t, http.MethodGet, "/api/favorites/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockSvc.AssertNotCalled(t, "Get")
}
