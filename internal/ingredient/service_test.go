package ingredient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-pantry/internal/ingredient/entity"
	"github.com/ovaphlow/pitchfork/service-pantry/internal/search"
	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

type mockStore struct {
	rows []entity.Ingredient
	err  error
}

func seeded(names ...string) *mockStore {
	m := &mockStore{}
	for i, n := range names {
		m.rows = append(m.rows, entity.Ingredient{ID: int64(i + 1), Name: n})
	}
	return m
}

func (m *mockStore) Create(_ context.Context, in *entity.Ingredient) error {
	if m.err != nil {
		return m.err
	}
	for _, r := range m.rows {
		if r.Name == in.Name {
			return apperr.Newf(apperr.ErrConflict, "ingredients.create: duplicate value violates ingredients_name_key")
		}
	}
	in.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *in)
	return nil
}

func (m *mockStore) GetByID(_ context.Context, id int64) (*entity.Ingredient, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rows {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *mockStore) List(_ context.Context, skip, limit int) ([]entity.Ingredient, error) {
	if m.err != nil {
		return nil, m.err
	}
	end := min(skip+limit, len(m.rows))
	if skip >= end {
		return []entity.Ingredient{}, nil
	}
	return m.rows[skip:end], nil
}

func (m *mockStore) All(_ context.Context) ([]entity.Ingredient, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func (m *mockStore) Update(_ context.Context, in *entity.Ingredient) error {
	for i, r := range m.rows {
		if r.ID == in.ID {
			m.rows[i] = *in
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

var staples = []string{
	"Bacon", "Lamb", "Mayonnaise", "Ciabatta", "French Lentils", "Leek", "Butter",
	"Cheese", "Potatoes", "Lettuce", "Green Plantain", "Yellow Plantain", "Chicharron",
}

func TestSearchSeededScenario(t *testing.T) {
	svc := NewService(seeded("Bacon", "Lamb", "Mayonnaise"), nil)

	got, err := svc.Search(context.Background(), "lam", 60)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lamb", got[0].Name)
}

func TestSearch(t *testing.T) {
	svc := NewService(seeded(staples...), nil)

	got, err := svc.Search(context.Background(), "lamb", 90)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lamb", got[0].Name)

	got, err = svc.Search(context.Background(), "lam", 60)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Lamb", got[0].Name)

	all, err := svc.Search(context.Background(), "qqq", 0)
	require.NoError(t, err)
	assert.Len(t, all, len(staples))
}

func TestSearchCapsResults(t *testing.T) {
	names := make([]string, 80)
	for i := range names {
		names[i] = fmt.Sprintf("Tomato %d", i)
	}
	svc := NewService(seeded(names...), nil)

	got, err := svc.Search(context.Background(), "tomato", 60)
	require.NoError(t, err)
	assert.Len(t, got, MaxSearchResults)
	assert.Equal(t, "Tomato 0", got[0].Name)
}

func TestSearchThresholdRange(t *testing.T) {
	svc := NewService(seeded(staples...), nil)
	_, err := svc.Search(context.Background(), "lamb", 101)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = svc.Search(context.Background(), "lamb", -5)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestSearchStorageError(t *testing.T) {
	store := seeded(staples...)
	store.err = &apperr.StorageError{Op: "ingredients.all", Err: errors.New("db down")}
	svc := NewService(store, nil)

	got, err := svc.Search(context.Background(), "lamb", 60)
	assert.Nil(t, got)
	assert.True(t, apperr.IsStorage(err))
}

func TestCreateUpdateDelete(t *testing.T) {
	store := seeded(staples...)
	svc := NewService(store, nil)
	ctx := context.Background()

	ing, err := svc.Create(ctx, Input{Name: "  Saffron "})
	require.NoError(t, err)
	assert.Equal(t, "Saffron", ing.Name)

	_, err = svc.Create(ctx, Input{Name: "Bacon"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Create(ctx, Input{Name: "   "})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	up, err := svc.Update(ctx, ing.ID, Input{Name: "Saffron Threads"})
	require.NoError(t, err)
	assert.Equal(t, "Saffron Threads", up.Name)

	require.NoError(t, svc.Delete(ctx, ing.ID))
	_, err = svc.Get(ctx, ing.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSearchHandlerParams(t *testing.T) {
	h := NewHandler(NewService(seeded(staples...), nil), nil)

	tests := []struct {
		url  string
		want int
	}{
		{"/ingredients/search?query=lamb", http.StatusOK},
		{"/ingredients/search?query=lamb&threshold=100", http.StatusOK},
		{"/ingredients/search", http.StatusBadRequest},
		{"/ingredients/search?query=lamb&threshold=abc", http.StatusBadRequest},
		{"/ingredients/search?query=lamb&threshold=150", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Search(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSearchHandlerQueryLength(t *testing.T) {
	h := NewHandler(NewService(seeded(staples...), nil), nil)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"at limit", strings.Repeat("a", search.MaxQueryLength), http.StatusOK},
		{"multibyte at limit", strings.Repeat("ñ", search.MaxQueryLength), http.StatusOK},
		{"over limit", strings.Repeat("a", search.MaxQueryLength+1), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Search(rec, httptest.NewRequest(http.MethodGet, "/ingredients/search?query="+url.QueryEscape(tt.query), nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
