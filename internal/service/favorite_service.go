package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"favtrack/internal/cache"
	apperrors "favtrack/internal/errors"
	"favtrack/internal/model"
	"favtrack/internal/repository"
)

const (
	// DefaultPageSize is used when the client does not request a limit.
	DefaultPageSize = 10
	// MaxPageSize caps the page size regardless of what the client asks for.
	MaxPageSize = 50

	minYear = 1888
	maxYear = 3000
)

// ListResult is one page of favorites. NextOffset is nil when the page
// reaches or exceeds the total, which is the client's only stop signal.
type ListResult struct {
	Items      []model.Favorite `json:"items"`
	Total      int64            `json:"total"`
	NextOffset *int             `json:"nextOffset"`
}

// FavoriteInput carries the writable fields of a favorite. Title and Type
// are required on create; on update every field is optional but at least
// one must be set.
type FavoriteInput struct {
	Title           *string
	Type            *string
	Director        *string
	Budget          *float64
	Location        *string
	DurationMinutes *int
	Year            *int
	Description     *string
	Rating          *float64
}

// FavoriteService handles owner-scoped CRUD on favorites.
type FavoriteService interface {
	List(ctx context.Context, ownerID uint, limit, offset int) (*ListResult, error)
	Create(ctx context.Context, ownerID uint, in FavoriteInput) (*model.Favorite, error)
	Get(ctx context.Context, ownerID, id uint) (*model.Favorite, error)
	Update(ctx context.Context, ownerID, id uint, in FavoriteInput) (*model.Favorite, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	pages     *cache.ListCache
}

// NewFavoriteService creates a favorites service. pages may be nil to
// disable list-page caching.
func NewFavoriteService(favorites repository.FavoriteRepository, pages *cache.ListCache) FavoriteService {
	return &favoriteService{favorites: favorites, pages: pages}
}

// List returns one page of the owner's favorites, newest first. Limit and
// offset are clamped server-side.
func (s *favoriteService) List(ctx context.Context, ownerID uint, limit, offset int) (*ListResult, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	gen := s.pages.Generation(ctx, ownerID)
	if payload := s.pages.GetPage(ctx, ownerID, gen, limit, offset); payload != nil {
		var cached ListResult
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
	}

	total, err := s.favorites.CountOwned(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}
	items, err := s.favorites.ListOwned(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if items == nil {
		// an empty page still serializes as "items": []
		items = []model.Favorite{}
	}

	result := &ListResult{Items: items, Total: total}
	if next := offset + len(items); int64(next) < total {
		result.NextOffset = &next
	}

	if payload, err := json.Marshal(result); err == nil {
		s.pages.SetPage(ctx, ownerID, gen, limit, offset, payload)
	}
	return result, nil
}

// Create validates the input and stores a new favorite for the owner.
func (s *favoriteService) Create(ctx context.Context, ownerID uint, in FavoriteInput) (*model.Favorite, error) {
	fields := map[string]string{}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		fields["title"] = "is required"
	}
	if in.Type == nil || !model.MediaType(*in.Type).Valid() {
		fields["type"] = "must be one of: movie tv"
	}
	validateOptional(in, fields)
	if len(fields) > 0 {
		return nil, apperrors.NewValidation(fields)
	}

	fav := &model.Favorite{
		UserID:      ownerID,
		Title:       strings.TrimSpace(*in.Title),
		Type:        model.MediaType(*in.Type),
		Director:    in.Director,
		Location:    in.Location,
		Year:        in.Year,
		Description: in.Description,
		Rating:      in.Rating,
	}
	if in.Budget != nil {
		b := decimal.NewFromFloat(*in.Budget)
		fav.Budget = &b
	}
	if in.DurationMinutes != nil {
		d := uint(*in.DurationMinutes)
		fav.DurationMinutes = &d
	}

	if err := s.favorites.Create(ctx, fav); err != nil {
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	s.pages.Invalidate(ctx, ownerID)
	return fav, nil
}

// Get returns a single owned favorite, or not-found when it does not exist
// or belongs to another user.
func (s *favoriteService) Get(ctx context.Context, ownerID, id uint) (*model.Favorite, error) {
	fav, err := s.favorites.FindOwned(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFavoriteNotFound
		}
		return nil, fmt.Errorf("find favorite: %w", err)
	}
	return fav, nil
}

// Update applies the supplied fields to an owned favorite. At least one
// field must be supplied.
func (s *favoriteService) Update(ctx context.Context, ownerID, id uint, in FavoriteInput) (*model.Favorite, error) {
	fields := map[string]string{}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		fields["title"] = "must not be empty"
	}
	if in.Type != nil && !model.MediaType(*in.Type).Valid() {
		fields["type"] = "must be one of: movie tv"
	}
	validateOptional(in, fields)
	if len(fields) > 0 {
		return nil, apperrors.NewValidation(fields)
	}

	updates := updateColumns(in)
	if len(updates) == 0 {
		return nil, apperrors.ErrNoUpdateFields
	}

	fav, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.favorites.UpdateOwned(ctx, fav, updates); err != nil {
		return nil, fmt.Errorf("update favorite: %w", err)
	}
	s.pages.Invalidate(ctx, ownerID)
	return fav, nil
}

// Delete removes an owned favorite. Deleting an id that is gone or foreign
// returns not-found, so a repeated delete is never reported as success.
func (s *favoriteService) Delete(ctx context.Context, ownerID, id uint) error {
	rows, err := s.favorites.DeleteOwned(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrFavoriteNotFound
	}
	s.pages.Invalidate(ctx, ownerID)
	return nil
}

func validateOptional(in FavoriteInput, fields map[string]string) {
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > 10) {
		fields["rating"] = "must be between 0 and 10"
	}
	if in.DurationMinutes != nil && *in.DurationMinutes < 0 {
		fields["durationMinutes"] = "must not be negative"
	}
	if in.Budget != nil && *in.Budget < 0 {
		fields["budget"] = "must not be negative"
	}
	if in.Year != nil && (*in.Year < minYear || *in.Year > maxYear) {
		fields["year"] = fmt.Sprintf("must be between %d and %d", minYear, maxYear)
	}
}

// updateColumns maps supplied input fields to their column names.
func updateColumns(in FavoriteInput) map[string]interface{} {
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.Director != nil {
		updates["director"] = *in.Director
	}
	if in.Budget != nil {
		updates["budget"] = decimal.NewFromFloat(*in.Budget)
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.DurationMinutes != nil {
		updates["duration_minutes"] = *in.DurationMinutes
	}
	if in.Year != nil {
		updates["year"] = *in.Year
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Rating != nil {
		updates["rating"] = *in.Rating
	}
	return updates
}
