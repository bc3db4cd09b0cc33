package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "favtrack/internal/errors"
	"favtrack/internal/model"
)

// MockFavoriteRepository is a mock implementation of FavoriteRepository.
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, fav *model.Favorite) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *MockFavoriteRepository) FindOwned(ctx context.Context, ownerID, id uint) (*model.Favorite, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) ListOwned(ctx context.Context, ownerID uint, limit, offset int) ([]model.Favorite, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) CountOwned(ctx context.Context, ownerID uint) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFavoriteRepository) UpdateOwned(ctx context.Context, fav *model.Favorite, updates map[string]interface{}) error {
	args := m.Called(ctx, fav, updates)
	return args.Error(0)
}

func (m *MockFavoriteRepository) DeleteOwned(ctx context.Context, ownerID, id uint) (int64, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(int64), args.Error(1)
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func makeFavorites(n int) []model.Favorite {
	favs := make([]model.Favorite, n)
	for i := range favs {
		favs[i] = model.Favorite{ID: uint(i + 1), UserID: 1, Title: "Dune", Type: model.MediaTypeMovie}
	}
	return favs
}

func TestFavoriteService_ListClamping(t *testing.T) {
	tests := []struct {
		name           string
		limit          int
		offset         int
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults applied", 0, 0, DefaultPageSize, 0},
		{"negative limit", -3, 0, DefaultPageSize, 0},
		{"oversized limit", 500, 0, MaxPageSize, 0},
		{"negative offset", 10, -5, 10, 0},
		{"in-range passthrough", 25, 30, 25, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockFavoriteRepository)
			mockRepo.On("CountOwned", mock.Anything, uint(1)).Return(int64(0), nil)
			mockRepo.On("ListOwned", mock.Anything, uint(1), tt.expectedLimit, tt.expectedOffset).
				Return([]model.Favorite{}, nil)

			service := NewFavoriteService(mockRepo, nil)
			_, err := service.List(context.Background(), 1, tt.limit, tt.offset)

			require.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestFavoriteService_ListNextOffset(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		offset     int
		pageLen    int
		nextOffset *int
	}{
		{"first of many", 25, 0, 10, intPtr(10)},
		{"middle page", 25, 10, 10, intPtr(20)},
		{"final partial page", 25, 20, 5, nil},
		{"exact fit", 20, 10, 10, nil},
		{"single page", 1, 0, 1, nil},
		{"empty list", 0, 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockFavoriteRepository)
			mockRepo.On("CountOwned", mock.Anything, uint(1)).Return(tt.total, nil)
			mockRepo.On("ListOwned", mock.Anything, uint(1), 10, tt.offset).
				Return(makeFavorites(tt.pageLen), nil)

			service := NewFavoriteService(mockRepo, nil)
			result, err := service.List(context.Background(), 1, 10, tt.offset)

			require.NoError(t, err)
			assert.Equal(t, tt.total, result.Total)
			assert.Len(t, result.Items, tt.pageLen)
			if tt.nextOffset == nil {
				assert.Nil(t, result.NextOffset)
			} else {
				require.NotNil(t, result.NextOffset)
				assert.Equal(t, *tt.nextOffset, *result.NextOffset)
			}
		})
	}
}

func TestFavoriteService_ListEmptySerializesItemsArray(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	mockRepo.On("CountOwned", mock.Anything, uint(1)).Return(int64(0), nil)
	// gorm's Find leaves the slice nil when nothing matches
	mockRepo.On("ListOwned", mock.Anything, uint(1), DefaultPageSize, 0).Return(nil, nil)

	service := NewFavoriteService(mockRepo, nil)
	result, err := service.List(context.Background(), 1, 0, 0)

	require.NoError(t, err)
	require.NotNil(t, result.Items)

	payload, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0,"nextOffset":null}`, string(payload))
}

func TestFavoriteService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		input  FavoriteInput
		fields []string
	}{
		{
			name:   "missing title and type",
			input:  FavoriteInput{},
			fields: []string{"title", "type"},
		},
		{
			name:   "blank title",
			input:  FavoriteInput{Title: strPtr("   "), Type: strPtr("movie")},
			fields: []string{"title"},
		},
		{
			name:   "unknown media type",
			input:  FavoriteInput{Title: strPtr("Dune"), Type: strPtr("podcast")},
			fields: []string{"type"},
		},
		{
			name: "out of range optionals",
			input: FavoriteInput{
				Title:  strPtr("Dune"),
				Type:   strPtr("movie"),
				Rating: floatPtr(10.5),
				Year:   intPtr(1200),
				Budget: floatPtr(-1),
			},
			fields: []string{"rating", "year", "budget"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockFavoriteRepository)
			service := NewFavoriteService(mockRepo, nil)

			_, err := service.Create(context.Background(), 1, tt.input)

			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			for _, field := range tt.fields {
				assert.Contains(t, ve.Fields, field)
			}
			assert.Len(t, ve.Fields, len(tt.fields))
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestFavoriteService_CreateSuccess(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Favorite")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Favorite).ID = 3
	}).Return(nil)

	service := NewFavoriteService(mockRepo, nil)
	fav, err := service.Create(context.Background(), 1, FavoriteInput{
		Title:  strPtr("  Dune  "),
		Type:   strPtr("movie"),
		Year:   intPtr(2021),
		Rating: floatPtr(8.0),
	})

	require.NoError(t, err)
	assert.Equal(t, uint(3), fav.ID)
	assert.Equal(t, uint(1), fav.UserID)
	assert.Equal(t, "Dune", fav.Title)
	assert.Equal(t, model.MediaTypeMovie, fav.Type)
	require.NotNil(t, fav.Year)
	assert.Equal(t, 2021, *fav.Year)
	mockRepo.AssertExpectations(t)
}

func TestFavoriteService_UpdateRequiresFields(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	service := NewFavoriteService(mockRepo, nil)

	_, err := service.Update(context.Background(), 1, 3, FavoriteInput{})

	assert.ErrorIs(t, err, apperrors.ErrNoUpdateFields)
	mockRepo.AssertNotCalled(t, "FindOwned")
	mockRepo.AssertNotCalled(t, "UpdateOwned")
}

func TestFavoriteService_UpdateNotOwned(t *testing.T) {
	mockRepo := new(MockFavoriteRepository)
	// owned by someone else looks exactly like non-existent
	mockRepo.On("FindOwned", mock.Anything, uint(1), uint(3)).Return(nil, gorm.ErrRecordNotFound)

	service := NewFavoriteService(mockRepo, nil)
	_, err := service.Update(context.Background(), 1, 3, FavoriteInput{Title: strPtr("Dune Part Two")})

	assert.ErrorIs(t, err, apperrors.ErrFavoriteNotFound)
	mockRepo.AssertNotCalled(t, "UpdateOwned")
}

func TestFavoriteService_UpdateSuccess(t *testing.T) {
	existing := &model.Favorite{ID: 3, UserID: 1, Title: "Dune", Type: model.MediaTypeMovie}

	mockRepo := new(MockFavoriteRepository)
	mockRepo.On("FindOwned", mock.Anything, uint(1), uint(3)).Return(existing, nil)
	mockRepo.On("UpdateOwned", mock.Anything, existing, map[string]interface{}{
		"title":  "Dune Part Two",
		"year":   2024,
		"rating": 8.5,
	}).Return(nil)

	service := NewFavoriteService(mockRepo, nil)
	fav, err := service.Update(context.Background(), 1, 3, FavoriteInput{
		Title:  strPtr("Dune Part Two"),
		Year:   intPtr(2024),
		Rating: floatPtr(8.5),
	})

	require.NoError(t, err)
	assert.Equal(t, uint(3), fav.ID)
	mockRepo.AssertExpectations(t)
}

func TestFavoriteService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		rowsAffected  int64
		expectedError error
	}{
		{"first delete succeeds", 1, nil},
		{"repeat delete is not found", 0, apperrors.ErrFavoriteNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockFavoriteRepository)
			mockRepo.On("DeleteOwned", mock.Anything, uint(1), uint(3)).Return(tt.rowsAffected, nil)

			service := NewFavoriteService(mockRepo, nil)
			err := service.Delete(context.Background(), 1, 3)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
