package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/boilerplate-api/internal/apperror"
	"github.com/sakif/boilerplate-api/internal/model"
)

type fakeItemRepo struct {
	byID   map[string]*model.Item
	nextID int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{byID: make(map[string]*model.Item)}
}

func (f *fakeItemRepo) ListForUser(_ context.Context, userID string) ([]model.Item, error) {
	items := []model.Item{}
	for _, item := range f.byID {
		if item.UserID == userID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id string) (*model.Item, error) {
	item, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("item", id)
	}
	copied := *item
	return &copied, nil
}

func (f *fakeItemRepo) Create(_ context.Context, item *model.Item) error {
	f.nextID++
	item.ID = "item-" + string(rune('a'+f.nextID))
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	copied := *item
	f.byID[item.ID] = &copied
	return nil
}

func (f *fakeItemRepo) Update(_ context.Context, item *model.Item) error {
	if _, ok := f.byID[item.ID]; !ok {
		return apperror.NotFound("item", item.ID)
	}
	copied := *item
	copied.UpdatedAt = time.Now()
	f.byID[item.ID] = &copied
	return nil
}

func (f *fakeItemRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperror.NotFound("item", id)
	}
	delete(f.byID, id)
	return nil
}

func newTestItemService() (*ItemService, *fakeItemRepo) {
	repo := newFakeItemRepo()
	return NewItemService(repo, testLogger()), repo
}

func TestItemCreate(t *testing.T) {
	svc, _ := newTestItemService()

	item, err := svc.Create(context.Background(), "user-1", "  My item  ", "a description")
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "user-1", item.UserID)
	assert.Equal(t, "My item", item.Title, "title should be trimmed")
	assert.Equal(t, "a description", item.Description)
	assert.True(t, item.IsActive)
}

func TestItemCreate_TitleValidation(t *testing.T) {
	svc, _ := newTestItemService()

	_, err := svc.Create(context.Background(), "user-1", "   ", "desc")
	assert.ErrorIs(t, err, apperror.ErrValidation, "blank title")

	_, err = svc.Create(context.Background(), "user-1", strings.Repeat("x", MaxTitleLength+1), "desc")
	assert.ErrorIs(t, err, apperror.ErrValidation, "overlong title")

	_, err = svc.Create(context.Background(), "user-1", strings.Repeat("x", MaxTitleLength), "desc")
	assert.NoError(t, err, "title at the limit is fine")
}

func TestItemGet_Ownership(t *testing.T) {
	svc, _ := newTestItemService()
	item, err := svc.Create(context.Background(), "owner", "mine", "")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), item.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)

	// Someone else's item: Forbidden, not NotFound.
	_, err = svc.Get(context.Background(), item.ID, "intruder")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Get(context.Background(), "missing-id", "owner")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestItemUpdate_PartialPatch(t *testing.T) {
	svc, _ := newTestItemService()
	item, err := svc.Create(context.Background(), "owner", "before", "keep me")
	require.NoError(t, err)

	newTitle := "after"
	inactive := false
	updated, err := svc.Update(context.Background(), item.ID, "owner", UpdateItemParams{
		Title:    &newTitle,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "keep me", updated.Description, "absent field untouched")
}

func TestItemUpdate_OwnershipAndValidation(t *testing.T) {
	svc, _ := newTestItemService()
	item, err := svc.Create(context.Background(), "owner", "title", "")
	require.NoError(t, err)

	newTitle := "hijacked"
	_, err = svc.Update(context.Background(), item.ID, "intruder", UpdateItemParams{Title: &newTitle})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	blank := "   "
	_, err = svc.Update(context.Background(), item.ID, "owner", UpdateItemParams{Title: &blank})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestItemDeleteService(t *testing.T) {
	svc, repo := newTestItemService()
	item, err := svc.Create(context.Background(), "owner", "doomed", "")
	require.NoError(t, err)

	// Non-owner cannot delete; the item survives.
	err = svc.Delete(context.Background(), item.ID, "intruder")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Len(t, repo.byID, 1)

	require.NoError(t, svc.Delete(context.Background(), item.ID, "owner"))
	assert.Empty(t, repo.byID)

	err = svc.Delete(context.Background(), item.ID, "owner")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestItemList_ScopedToUser(t *testing.T) {
	svc, _ := newTestItemService()
	_, err := svc.Create(context.Background(), "alice", "a1", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "alice", "a2", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "bob", "b1", "")
	require.NoError(t, err)

	items, err := svc.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "alice", item.UserID)
	}
}
