package category_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/emporia/internal/core/category"
	"github.com/taibuivan/emporia/internal/event"
	"github.com/taibuivan/emporia/internal/platform/apperr"
	"github.com/taibuivan/emporia/internal/platform/cache"
	"github.com/taibuivan/emporia/internal/platform/dberr"
	"github.com/taibuivan/emporia/pkg/id"
	"github.com/taibuivan/emporia/pkg/pagination"
)

// fakeRepository is an in-memory Repository good enough for service tests.
// Page returns canned results instead of real keyset queries; the SQL
// behavior has its own coverage.
type fakeRepository struct {
	mu         sync.Mutex
	byID       map[string]category.Category
	pageResult *category.PageResult
	pageErr    error
	lastPage   *category.PageQuery
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: map[string]category.Category{}}
}

func (r *fakeRepository) CategoryByID(_ context.Context, categoryID string) (*category.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[categoryID]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return &c, nil
}

func (r *fakeRepository) Create(_ context.Context, c *category.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.byID[c.ID] = *c
	return nil
}

func (r *fakeRepository) Update(_ context.Context, c *category.Category) (*category.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[c.ID]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	r.byID[c.ID] = *c
	return c, nil
}

func (r *fakeRepository) Delete(_ context.Context, categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[categoryID]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.byID, categoryID)
	return nil
}

func (r *fakeRepository) Page(_ context.Context, q category.PageQuery) (*category.PageResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPage = &q
	if r.pageErr != nil {
		return nil, r.pageErr
	}
	if r.pageResult != nil {
		return r.pageResult, nil
	}
	return &category.PageResult{CountOnOtherEnd: -1}, nil
}

// fakePublisher records every published event.
type fakePublisher struct {
	mu       sync.Mutex
	err      error
	subjects []string
	payloads [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, evt event.Event, payload []byte, _ nats.Header) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, evt.Subject())
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.subjects...)
}

func newTestService(t *testing.T) (*category.Service, *fakeRepository, *fakePublisher, *miniredis.Miniredis, *cache.Client) {
	t.Helper()

	srv := miniredis.RunT(t)
	cacheClient := cache.NewClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}))

	repository := newFakeRepository()
	publisher := &fakePublisher{}

	service := category.NewService(repository, cacheClient, publisher, category.Config{
		QueryLimit: 100,
		EntryTTL:   20 * time.Second,
		ListingTTL: 30 * time.Second,
	}, slog.New(slog.DiscardHandler))

	return service, repository, publisher, srv, cacheClient
}

/*
TestService_Create covers validation, server-side id generation and the
post-commit event.
*/
func TestService_Create(t *testing.T) {
	t.Run("valid_input", func(t *testing.T) {
		service, repository, publisher, _, _ := newTestService(t)

		created, err := service.Create(context.Background(), category.CreateInput{Name: "Electronics"})
		require.NoError(t, err)

		assert.True(t, id.Valid(created.ID), "id is generated server-side")
		assert.Equal(t, "Electronics", created.Name)
		assert.NotNil(t, created.SubCategories)
		assert.False(t, created.CreatedAt.IsZero())

		_, ok := repository.byID[created.ID]
		assert.True(t, ok)

		require.Equal(t, []string{"categories.update.index.set.single"}, publisher.published())
		got := category.Category{}
		require.NoError(t, json.Unmarshal(publisher.payloads[0], &got))
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("missing_name", func(t *testing.T) {
		service, _, publisher, _, _ := newTestService(t)

		_, err := service.Create(context.Background(), category.CreateInput{Name: "  "})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		assert.Empty(t, publisher.published(), "nothing published on validation failure")
	})

	t.Run("bad_image_url", func(t *testing.T) {
		service, _, _, _, _ := newTestService(t)

		badURL := "not a url"
		_, err := service.Create(context.Background(), category.CreateInput{Name: "x", ImageURL: &badURL})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("publish_failure_is_swallowed", func(t *testing.T) {
		service, _, publisher, _, _ := newTestService(t)
		publisher.err = event.ErrPublishRefused

		created, err := service.Create(context.Background(), category.CreateInput{Name: "Books"})
		require.NoError(t, err, "the commit already happened; publish refusal must not fail the call")
		assert.NotEmpty(t, created.ID)
	})
}

/*
TestService_Update covers last-writer-wins replacement and the not-found
path.
*/
func TestService_Update(t *testing.T) {
	t.Run("existing_row", func(t *testing.T) {
		service, _, publisher, _, _ := newTestService(t)

		created, err := service.Create(context.Background(), category.CreateInput{Name: "Before"})
		require.NoError(t, err)

		updated, err := service.Update(context.Background(), category.UpdateInput{ID: created.ID, Name: "After"})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Name)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "created_at never changes on update")

		subjects := publisher.published()
		assert.Equal(t, "categories.update.index.update.single", subjects[len(subjects)-1])
	})

	t.Run("missing_row", func(t *testing.T) {
		service, _, _, _, _ := newTestService(t)

		_, err := service.Update(context.Background(), category.UpdateInput{ID: id.New(), Name: "x"})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("malformed_id", func(t *testing.T) {
		service, _, _, _, _ := newTestService(t)

		_, err := service.Update(context.Background(), category.UpdateInput{ID: "NOT/AN/ID", Name: "x"})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestService_Delete covers removal and the id-only delete event.
*/
func TestService_Delete(t *testing.T) {
	service, repository, publisher, _, _ := newTestService(t)

	created, err := service.Create(context.Background(), category.CreateInput{Name: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	_, ok := repository.byID[created.ID]
	assert.False(t, ok)

	subjects := publisher.published()
	require.Equal(t, "categories.update.index.delete.single", subjects[len(subjects)-1])

	got := category.Category{}
	require.NoError(t, json.Unmarshal(publisher.payloads[len(publisher.payloads)-1], &got))
	assert.Equal(t, created.ID, got.ID)

	err = service.Delete(context.Background(), created.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code, "second delete reports not found")
}

/*
TestService_CategoryByID covers the cache-aside read: hit, miss-then-store,
store miss (never cached) and corrupted cache payloads.
*/
func TestService_CategoryByID(t *testing.T) {
	t.Run("cache_hit_skips_store", func(t *testing.T) {
		service, repository, publisher, srv, _ := newTestService(t)

		cached := category.Category{ID: id.New(), Name: "FromCache"}
		payload, err := json.Marshal(cached)
		require.NoError(t, err)
		require.NoError(t, srv.Set(cache.CategoryKey(cached.ID), string(payload)))

		got, err := service.CategoryByID(context.Background(), cached.ID)
		require.NoError(t, err)
		assert.Equal(t, "FromCache", got.Name)
		assert.Empty(t, repository.byID, "store untouched")
		assert.Empty(t, publisher.published(), "hits publish nothing")
	})

	t.Run("miss_publishes_refill", func(t *testing.T) {
		service, repository, publisher, _, _ := newTestService(t)

		stored := category.Category{ID: id.New(), Name: "FromStore"}
		repository.byID[stored.ID] = stored

		got, err := service.CategoryByID(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, "FromStore", got.Name)
		assert.Equal(t, []string{"categories.update.index.update.single"}, publisher.published())
	})

	t.Run("store_miss_not_cached", func(t *testing.T) {
		service, _, publisher, srv, _ := newTestService(t)

		missingID := id.New()
		_, err := service.CategoryByID(context.Background(), missingID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
		assert.False(t, srv.Exists(cache.CategoryKey(missingID)))
		assert.Empty(t, publisher.published())
	})

	t.Run("corrupted_payload_degrades_to_store", func(t *testing.T) {
		service, repository, _, srv, _ := newTestService(t)

		stored := category.Category{ID: id.New(), Name: "Truth"}
		repository.byID[stored.ID] = stored
		require.NoError(t, srv.Set(cache.CategoryKey(stored.ID), "{garbage"))

		got, err := service.CategoryByID(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, "Truth", got.Name)
	})

	t.Run("cache_down_degrades_to_store", func(t *testing.T) {
		service, repository, _, srv, _ := newTestService(t)

		stored := category.Category{ID: id.New(), Name: "Resilient"}
		repository.byID[stored.ID] = stored
		srv.Close()

		got, err := service.CategoryByID(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, "Resilient", got.Name)
	})
}

/*
TestService_Categories covers the connection read path: parameter
validation, cache hit/miss, count clamping and the cache-population event.
*/
func TestService_Categories(t *testing.T) {
	t.Run("invalid_params_rejected", func(t *testing.T) {
		service, repository, _, _, _ := newTestService(t)

		after := "x"
		tests := []struct {
			name   string
			params pagination.Params
		}{
			{"no_count", pagination.Params{}},
			{"both_counts", func() pagination.Params {
				n := int32(5)
				return pagination.Params{First: &n, Last: &n}
			}()},
			{"after_with_last", func() pagination.Params {
				n := int32(5)
				return pagination.Params{Last: &n, After: &after}
			}()},
			{"zero_count", pagination.Forward(0, nil)},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.Categories(context.Background(), tt.params)
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			})
		}
		assert.Nil(t, repository.lastPage, "invalid requests never reach the store")
	})

	t.Run("malformed_cursor_rejected", func(t *testing.T) {
		service, _, _, _, _ := newTestService(t)

		bad := "%%%not-base64%%%"
		_, err := service.Categories(context.Background(), pagination.Forward(5, &bad))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("miss_queries_store_and_publishes", func(t *testing.T) {
		service, repository, publisher, _, _ := newTestService(t)

		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		repository.pageResult = &category.PageResult{
			Rows: []category.Category{
				{ID: "e1", Name: "one", CreatedAt: base},
				{ID: "e2", Name: "two", CreatedAt: base.Add(time.Second)},
				{ID: "e3", Name: "probe", CreatedAt: base.Add(2 * time.Second)},
			},
			CountOnOtherEnd: -1,
		}

		conn, err := service.Categories(context.Background(), pagination.Forward(2, nil))
		require.NoError(t, err)
		require.Len(t, conn.Edges, 2)
		assert.True(t, conn.PageInfo.HasNextPage)

		require.NotNil(t, repository.lastPage)
		assert.Equal(t, int32(3), repository.lastPage.Probe, "page size plus probe row")
		assert.Equal(t, category.ScopeAll, repository.lastPage.Scope)

		require.Equal(t, []string{"categories.update.index.update.batch"}, publisher.published())

		request := category.ConnectionCacheRequest{}
		require.NoError(t, json.Unmarshal(publisher.payloads[0], &request))
		assert.Equal(t, category.ListingAll, request.Listing)
		assert.Len(t, request.Connection.Edges, 2)
		assert.Equal(t, "categories:all:cursor=[NONE]:index=first:2", request.CacheKey())
	})

	t.Run("hit_skips_store", func(t *testing.T) {
		service, repository, publisher, srv, _ := newTestService(t)

		params := pagination.Forward(3, nil)
		request := category.ConnectionCacheRequest{
			Connection: category.Connection{Edges: []category.Edge{{Node: category.Category{ID: "cached"}}}},
			Pagination: params,
			Listing:    category.ListingAll,
		}
		payload, err := json.Marshal(request)
		require.NoError(t, err)
		require.NoError(t, srv.Set(request.CacheKey(), string(payload)))

		conn, err := service.Categories(context.Background(), params)
		require.NoError(t, err)
		require.Len(t, conn.Edges, 1)
		assert.Equal(t, "cached", conn.Edges[0].Node.ID)
		assert.Nil(t, repository.lastPage)
		assert.Empty(t, publisher.published())
	})

	t.Run("count_clamped_to_query_limit", func(t *testing.T) {
		service, repository, publisher, _, _ := newTestService(t)

		_, err := service.Categories(context.Background(), pagination.Forward(10_000, nil))
		require.NoError(t, err)

		require.NotNil(t, repository.lastPage)
		assert.Equal(t, int32(101), repository.lastPage.Probe, "clamped to QUERY_LIMIT plus probe")

		request := category.ConnectionCacheRequest{}
		require.NoError(t, json.Unmarshal(publisher.payloads[0], &request))
		require.NotNil(t, request.Pagination.First)
		assert.Equal(t, int32(100), *request.Pagination.First, "event echoes the clamped count")
	})
}

/*
TestService_SubCategories covers the two disjoint sub-listing operations.
*/
func TestService_SubCategories(t *testing.T) {
	t.Run("children_of_parent", func(t *testing.T) {
		service, repository, publisher, _, _ := newTestService(t)

		parentID := id.New()
		conn, err := service.SubCategoriesOf(context.Background(), parentID, pagination.Forward(5, nil))
		require.NoError(t, err)
		assert.Empty(t, conn.Edges)

		require.NotNil(t, repository.lastPage)
		assert.Equal(t, category.ScopeChildrenOf, repository.lastPage.Scope)
		require.NotNil(t, repository.lastPage.ParentID)
		assert.Equal(t, parentID, *repository.lastPage.ParentID)

		request := category.ConnectionCacheRequest{}
		require.NoError(t, json.Unmarshal(publisher.payloads[0], &request))
		assert.Equal(t, "categories:subcategories:parent="+parentID+":cursor=[NONE]:index=first:5", request.CacheKey())
	})

	t.Run("invalid_parent_id", func(t *testing.T) {
		service, _, _, _, _ := newTestService(t)

		_, err := service.SubCategoriesOf(context.Background(), "NOPE", pagination.Forward(5, nil))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("top_level", func(t *testing.T) {
		service, repository, publisher, _, _ := newTestService(t)

		_, err := service.TopLevelCategories(context.Background(), pagination.Forward(5, nil))
		require.NoError(t, err)

		require.NotNil(t, repository.lastPage)
		assert.Equal(t, category.ScopeTopLevel, repository.lastPage.Scope)
		assert.Nil(t, repository.lastPage.ParentID)

		request := category.ConnectionCacheRequest{}
		require.NoError(t, json.Unmarshal(publisher.payloads[0], &request))
		assert.Equal(t, "categories:subcategories:parent=[NONE]:cursor=[NONE]:index=first:5", request.CacheKey())
	})
}
