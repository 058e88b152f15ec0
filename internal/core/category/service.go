package category

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/taibuivan/emporia/internal/event"
	"github.com/taibuivan/emporia/internal/platform/apperr"
	"github.com/taibuivan/emporia/internal/platform/cache"
	"github.com/taibuivan/emporia/internal/platform/validate"
	"github.com/taibuivan/emporia/pkg/cursor"
	"github.com/taibuivan/emporia/pkg/id"
	"github.com/taibuivan/emporia/pkg/pagination"
)

// Publisher is the slice of the event publisher the service depends on.
type Publisher interface {
	Publish(context context.Context, evt event.Event, payload []byte, header nats.Header) error
}

// Config tunes the read/write paths.
type Config struct {
	// QueryLimit is the maximum first/last honored by connection reads.
	QueryLimit int32
	// EntryTTL bounds staleness of single-entity cache entries.
	EntryTTL time.Duration
	// ListingTTL bounds staleness of connection cache entries. Listings
	// are allowed to go stale until expiry, so this stays short.
	ListingTTL time.Duration
}

// Service implements the categories read and write paths.
//
// # Cache Discipline
//
// The service never writes the cache. Every state change and every cache
// miss publishes an event; the cache-update worker is the single writer
// per key. Reads consult the cache first and degrade to the store on any
// cache failure.
type Service struct {
	repo      Repository
	cache     *cache.Client
	publisher Publisher
	cfg       Config
	logger    *slog.Logger
}

func NewService(repo Repository, cacheClient *cache.Client, publisher Publisher, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cacheClient,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// # Write Path

// Create validates input, generates the id server-side, commits a single
// INSERT and announces the canonical post-state.
func (service *Service) Create(context context.Context, input CreateInput) (*Category, error) {
	if err := validateFields(input.Name, input.ImageURL, input.ParentID, input.SubCategories); err != nil {
		return nil, err
	}

	c := &Category{
		ID:            id.New(),
		Name:          input.Name,
		SubCategories: normalizeSubCategories(input.SubCategories),
		ImageURL:      input.ImageURL,
		ParentID:      input.ParentID,
	}

	if err := service.repo.Create(context, c); err != nil {
		return nil, err
	}

	service.publishState(context, event.SetSingle(event.Categories), c)
	service.logger.Info("category_created", slog.String("category_id", c.ID))

	return c, nil
}

// Update rewrites the row unconditionally (last writer wins) and announces
// the committed post-state. Concurrent updates may publish out of commit
// order; the worker applies them as idempotent replaces, and the entry TTL
// bounds any transient inversion.
func (service *Service) Update(context context.Context, input UpdateInput) (*Category, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldID, !id.Valid(input.ID), "Must be a valid category id")
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if err := validateFields(input.Name, input.ImageURL, input.ParentID, input.SubCategories); err != nil {
		return nil, err
	}

	updated, err := service.repo.Update(context, &Category{
		ID:            input.ID,
		Name:          input.Name,
		SubCategories: normalizeSubCategories(input.SubCategories),
		ImageURL:      input.ImageURL,
		ParentID:      input.ParentID,
	})
	if err != nil {
		return nil, err
	}

	service.publishState(context, event.UpdateSingle(event.Categories), updated)
	service.logger.Info("category_updated", slog.String("category_id", updated.ID))

	return updated, nil
}

// Delete removes the row and announces the deleted id.
func (service *Service) Delete(context context.Context, categoryID string) error {
	validator := &validate.Validator{}
	validator.Custom(FieldID, !id.Valid(categoryID), "Must be a valid category id")
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Delete(context, categoryID); err != nil {
		return err
	}

	service.publishState(context, event.DeleteSingle(event.Categories), &Category{ID: categoryID})
	service.logger.Warn("category_deleted", slog.String("category_id", categoryID))

	return nil
}

// # Read Path

// CategoryByID is the cache-aside single lookup.
//
// A store hit after a cache miss publishes the row so the worker refills
// the cache; a store miss is never cached (no negative caching).
func (service *Service) CategoryByID(context context.Context, categoryID string) (*Category, error) {
	key := cache.CategoryKey(categoryID)

	if payload, err := service.cache.Get(context, key); err == nil {
		c := &Category{}
		if err := json.Unmarshal(payload, c); err == nil {
			return c, nil
		}
		service.logger.Warn("cache_payload_corrupted", slog.String("key", key))
	} else if !errors.Is(err, cache.ErrMiss) {
		// Degrade to the store on any cache fault; never surface it.
		service.logger.Warn("cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}

	c, err := service.repo.CategoryByID(context, categoryID)
	if err != nil {
		return nil, err
	}

	service.publishState(context, event.UpdateSingle(event.Categories), c)

	return c, nil
}

// Categories pages over the whole catalog.
func (service *Service) Categories(context context.Context, params pagination.Params) (*Connection, error) {
	return service.connection(context, params, ScopeAll, nil, ListingAll)
}

// SubCategoriesOf pages over the children of one parent.
func (service *Service) SubCategoriesOf(context context.Context, parentID string, params pagination.Params) (*Connection, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldParentID, !id.Valid(parentID), "Must be a valid category id")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.connection(context, params, ScopeChildrenOf, &parentID, ListingSubCategories)
}

// TopLevelCategories pages over categories without a parent. It is a
// distinct operation from SubCategoriesOf: the two row sets are disjoint
// and are never conflated.
func (service *Service) TopLevelCategories(context context.Context, params pagination.Params) (*Connection, error) {
	return service.connection(context, params, ScopeTopLevel, nil, ListingSubCategories)
}

// connection is the shared cache-aside keyset read.
func (service *Service) connection(context context.Context, params pagination.Params, scope Scope, parentID *string, listing ListingKind) (*Connection, error) {
	if err := params.Validate(); err != nil {
		return nil, apperr.ValidationError(err.Error())
	}

	// Clamp before anything else so the cache key, the SQL limit and the
	// pagination echoed in the event all agree.
	actualCount := params.Count(service.cfg.QueryLimit)
	params = clamped(params, actualCount)

	request := ConnectionCacheRequest{Pagination: params, Listing: listing, ParentID: parentID}
	key := request.CacheKey()

	if payload, err := service.cache.Get(context, key); err == nil {
		cached := ConnectionCacheRequest{}
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached.Connection, nil
		}
		service.logger.Warn("cache_payload_corrupted", slog.String("key", key))
	} else if !errors.Is(err, cache.ErrMiss) {
		service.logger.Warn("cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}

	boundary, err := decodeBoundary(params)
	if err != nil {
		return nil, err
	}

	result, err := service.repo.Page(context, PageQuery{
		Forward:  params.IsForward(),
		Probe:    actualCount + 1,
		Boundary: boundary,
		Scope:    scope,
		ParentID: parentID,
	})
	if err != nil {
		return nil, err
	}

	connection := BuildConnection(result, params, actualCount)

	request.Connection = connection
	if payload, err := json.Marshal(request); err == nil {
		service.publish(context, event.UpdateBatch(event.Categories), payload)
	}

	return &connection, nil
}

// # Internals

// publishState marshals the entity and fires the event. Payload encode
// failures are impossible for these types but logged defensively anyway.
func (service *Service) publishState(context context.Context, evt event.Event, c *Category) {
	payload, err := json.Marshal(c)
	if err != nil {
		service.logger.Error("event_payload_encode_failed", slog.Any("error", err))
		return
	}
	service.publish(context, evt, payload)
}

// publish fires an event after the canonical action already succeeded.
// Refusals are logged, never surfaced: the store is durable and the next
// cache miss republishes the state.
func (service *Service) publish(context context.Context, evt event.Event, payload []byte) {
	if err := service.publisher.Publish(context, evt, payload, nil); err != nil {
		service.logger.Error("event_publish_failed",
			slog.String("subject", evt.Subject()),
			slog.Any("error", err),
		)
	}
}

func decodeBoundary(params pagination.Params) (*Boundary, error) {
	raw := params.Cursor()
	if raw == nil {
		return nil, nil
	}

	createdAt, categoryID, err := cursor.Decode(*raw)
	if err != nil {
		return nil, apperr.ValidationError("Invalid pagination cursor")
	}

	return &Boundary{CreatedAt: createdAt, ID: categoryID}, nil
}

func clamped(params pagination.Params, count int32) pagination.Params {
	if params.First != nil {
		params.First = &count
	} else if params.Last != nil {
		params.Last = &count
	}
	return params
}

func validateFields(name string, imageURL *string, parentID *string, subCategories []string) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 200)

	if imageURL != nil {
		validator.URL(FieldImageURL, *imageURL)
	}
	if parentID != nil {
		validator.Custom(FieldParentID, !id.Valid(*parentID), "Must be a valid category id")
	}
	for _, sub := range subCategories {
		validator.Custom("sub_categories", !id.Valid(sub), "Must contain only valid category ids")
	}

	return validator.Err()
}

// normalizeSubCategories keeps the stored array non-nil so the column
// round-trips as an empty array rather than NULL.
func normalizeSubCategories(subCategories []string) []string {
	if subCategories == nil {
		return []string{}
	}
	return subCategories
}
