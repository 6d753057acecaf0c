package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/boilerplate-api/internal/apperror"
	"github.com/sakif/boilerplate-api/internal/model"
	"github.com/sakif/boilerplate-api/internal/repository"
)

// MaxTitleLength bounds item titles, matching the 255-char column the
// entity would have on a stricter database.
const MaxTitleLength = 255

// ItemService handles business logic for the example item resource.
// Every read and mutation is scoped to the owning user.
type ItemService struct {
	repo   repository.ItemRepository
	logger *slog.Logger
}

// NewItemService creates an ItemService.
func NewItemService(repo repository.ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{repo: repo, logger: logger}
}

// List returns the user's items, newest first.
func (s *ItemService) List(ctx context.Context, userID string) ([]model.Item, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/item: listing items: %w", err)
	}
	return items, nil
}

// Get returns a single item after checking ownership.
// A missing item is NotFound; someone else's item is Forbidden.
func (s *ItemService) Get(ctx context.Context, itemID, userID string) (*model.Item, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("service/item: fetching item %s: %w", itemID, err)
	}

	if item.UserID != userID {
		return nil, fmt.Errorf("service/item: %w", apperror.Forbidden("not authorized to access this item"))
	}

	return item, nil
}

// Create makes a new item owned by the user.
func (s *ItemService) Create(ctx context.Context, userID, title, description string) (*model.Item, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	item := &model.Item{
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("service/item: creating item: %w", err)
	}

	s.logger.Info("item created",
		slog.String("itemID", item.ID),
		slog.String("userID", userID),
	)
	return item, nil
}

// UpdateItemParams is a partial update: nil fields leave the stored value
// untouched.
type UpdateItemParams struct {
	Title       *string
	Description *string
	IsActive    *bool
}

// Update applies the patch to an item after checking ownership.
func (s *ItemService) Update(ctx context.Context, itemID, userID string, params UpdateItemParams) (*model.Item, error) {
	item, err := s.Get(ctx, itemID, userID) // validates ownership
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if err := validateTitle(*params.Title); err != nil {
			return nil, err
		}
		item.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		item.Description = *params.Description
	}
	if params.IsActive != nil {
		item.IsActive = *params.IsActive
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("service/item: updating item %s: %w", itemID, err)
	}
	return item, nil
}

// Delete removes an item after checking ownership.
func (s *ItemService) Delete(ctx context.Context, itemID, userID string) error {
	if _, err := s.Get(ctx, itemID, userID); err != nil { // validates ownership
		return err
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("service/item: deleting item %s: %w", itemID, err)
	}

	s.logger.Info("item deleted",
		slog.String("itemID", itemID),
		slog.String("userID", userID),
	)
	return nil
}

func validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return fmt.Errorf("service/item: %w", apperror.ValidationFailed("title", "title is required"))
	}
	if len(trimmed) > MaxTitleLength {
		return fmt.Errorf("service/item: %w", apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or fewer", MaxTitleLength)))
	}
	return nil
}
