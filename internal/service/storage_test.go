package service

import (
	"Go_Stow/internal/apperr"
	"Go_Stow/internal/dto"
	"Go_Stow/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int        { return &v }
func strPtr(v string) *string  { return &v }
func uintPtr(v uint64) *uint64 { return &v }

func TestOwns(t *testing.T) {
	areaA := &model.StorageArea{AreaNo: 1, UserNo: 10}
	areaB := &model.StorageArea{AreaNo: 2, UserNo: 20}

	assert.True(t, Owns(10, areaA))
	assert.False(t, Owns(10, areaB))
	assert.False(t, Owns(20, areaA))
	assert.True(t, Owns(10, &model.StorageItem{AreaNo: 1, Area: areaA}))
	assert.False(t, Owns(10, &model.StorageItem{AreaNo: 2, Area: areaB}))
	assert.False(t, Owns(10, &model.StorageItem{AreaNo: 1}))
	assert.False(t, Owns(0, &model.StorageArea{}))
	assert.True(t, Owns(10, &model.Profile{UserNo: 10}))
	assert.False(t, Owns(10, nil))
}

func TestAreaLifecycle(t *testing.T) {
	db, _ := setup(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com", "01011111111", true)
	b := createUser(t, db, "b@x.com", "01022222222", true)

	_, err := CreateArea(ctx, a.UserNo, b.UserNo, "garage")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	area, err := CreateArea(ctx, a.UserNo, a.UserNo, "  garage ")
	require.NoError(t, err)
	assert.Equal(t, "garage", area.AreaName)
	assert.True(t, area.StorageOwner)
	_, err = CreateArea(ctx, a.UserNo, a.UserNo, "attic")
	require.NoError(t, err)

	areas, err := ListAreas(ctx, a.UserNo, a.UserNo)
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "garage", areas[0].AreaName)

	empty, err := ListAreas(ctx, b.UserNo, b.UserNo)
	require.NoError(t, err)
	assert.Empty(t, empty)

	got, err := GetArea(ctx, a.UserNo, area.AreaNo)
	require.NoError(t, err)
	assert.Equal(t, area.AreaNo, got.AreaNo)

	_, err = GetArea(ctx, b.UserNo, area.AreaNo)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = GetArea(ctx, b.UserNo, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = RenameArea(ctx, b.UserNo, area.AreaNo, "mine")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	renamed, err := RenameArea(ctx, a.UserNo, area.AreaNo, "workshop")
	require.NoError(t, err)
	assert.Equal(t, "workshop", renamed.AreaName)
}

func TestDeleteAreaRemovesItems(t *testing.T) {
	db, _ := setup(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com", "01011111111", true)
	b := createUser(t, db, "b@x.com", "01022222222", true)
	area := createArea(t, db, a.UserNo, "garage")
	createItem(t, db, area.AreaNo, "shelf")
	createItem(t, db, area.AreaNo, "box")

	assert.ErrorIs(t, DeleteArea(ctx, b.UserNo, area.AreaNo), apperr.ErrForbidden)
	require.NoError(t, DeleteArea(ctx, a.UserNo, area.AreaNo))

	var items int64
	require.NoError(t, db.Model(&model.StorageItem{}).Where("area_no = ?", area.AreaNo).Count(&items).Error)
	assert.Zero(t, items)
	assert.ErrorIs(t, DeleteArea(ctx, a.UserNo, area.AreaNo), apperr.ErrNotFound)
}

func TestCreateItemChecksAreaOwnership(t *testing.T) {
	db, _ := setup(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com", "01011111111", true)
	b := createUser(t, db, "b@x.com", "01022222222", true)
	areaA := createArea(t, db, a.UserNo, "garage")

	req := dto.StorageCreateRequest{
		AreaNo:      areaA.AreaNo,
		Name:        "shelf",
		Column:      intPtr(0),
		Row:         intPtr(3),
		Location:    "north wall",
		Description: strPtr("metal"),
	}
	_, err := CreateItem(ctx, b.UserNo, req)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	missing := req
	missing.AreaNo = 9999
	_, err = CreateItem(ctx, a.UserNo, missing)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	item, err := CreateItem(ctx, a.UserNo, req)
	require.NoError(t, err)
	assert.Equal(t, areaA.AreaNo, item.AreaNo)
	assert.Equal(t, 0, item.Column)
	assert.Equal(t, 3, item.Row)
	assert.False(t, item.CreatedDate.IsZero())
}

func TestItemAccessIsDerivedFromArea(t *testing.T) {
	db, _ := setup(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com", "01011111111", true)
	b := createUser(t, db, "b@x.com", "01022222222", true)
	areaA := createArea(t, db, a.UserNo, "garage")
	item := createItem(t, db, areaA.AreaNo, "shelf")

	got, err := GetItem(ctx, a.UserNo, item.StorageNo)
	require.NoError(t, err)
	assert.Equal(t, "shelf", got.Name)

	_, err = GetItem(ctx, b.UserNo, item.StorageNo)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = GetItem(ctx, b.UserNo, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = UpdateItem(ctx, b.UserNo, item.StorageNo, dto.StorageUpdateRequest{Name: strPtr("stolen")})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = DeleteItem(ctx, b.UserNo, item.StorageNo)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = ListItemsByArea(ctx, b.UserNo, areaA.AreaNo)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestListItemsByArea(t *testing.T) {
	db, _ := setup(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com", "01011111111", true)
	full := createArea(t, db, a.UserNo, "garage")
	empty := createArea(t, db, a.UserNo, "attic")
	createItem(t, db, full.AreaNo, "shelf")
	createItem(t, db, full.AreaNo, "box")

	items, err := ListItemsByArea(ctx, a.UserNo, full.AreaNo)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = ListItemsByArea(ctx, a.UserNo, empty.AreaNo)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = ListItemsByArea(ctx, a.UserNo, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateItem(t *testing.T) {
	db, _ := setup(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com", "01011111111", true)
	b := createUser(t, db, "b@x.com", "01022222222", true)
	garage := createArea(t, db, a.UserNo, "garage")
	attic := createArea(t, db, a.UserNo, "attic")
	foreign := createArea(t, db, b.UserNo, "theirs")
	item := createItem(t, db, garage.AreaNo, "shelf")

	updated, err := UpdateItem(ctx, a.UserNo, item.StorageNo, dto.StorageUpdateRequest{Row: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Row)
	assert.Equal(t, "shelf", updated.Name)
	assert.Equal(t, "left", updated.Location)
	require.NotNil(t, updated.ModifiedDate)

	_, err = UpdateItem(ctx, a.UserNo, item.StorageNo, dto.StorageUpdateRequest{AreaNo: uintPtr(foreign.AreaNo)})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	moved, err := UpdateItem(ctx, a.UserNo, item.StorageNo, dto.StorageUpdateRequest{AreaNo: uintPtr(attic.AreaNo), Name: strPtr("rack")})
	require.NoError(t, err)
	assert.Equal(t, attic.AreaNo, moved.AreaNo)
	assert.Equal(t, "rack", moved.Name)
}

func TestDeleteItem(t *testing.T) {
	db, _ := setup(t)
	ctx := context.Background()
	a := createUser(t, db, "a@x.com", "01011111111", true)
	area := createArea(t, db, a.UserNo, "garage")
	item := createItem(t, db, area.AreaNo, "shelf")

	deleted, err := DeleteItem(ctx, a.UserNo, item.StorageNo)
	require.NoError(t, err)
	assert.Equal(t, item.StorageNo, deleted.StorageNo)

	_, err = GetItem(ctx, a.UserNo, item.StorageNo)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
