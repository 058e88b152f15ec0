package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/emporia/internal/platform/database/schema"
	"github.com/taibuivan/emporia/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) CategoryByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
	`,
		columnList(), schema.RefCategory.Table, schema.RefCategory.ID,
	)

	c := &Category{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&c.ID, &c.Name, &c.SubCategories, &c.ImageURL, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}

	return c, nil
}

// Create inserts c and fills in the store-assigned timestamps. A single
// INSERT ... RETURNING is the linearization point for the write path.
func (repository *PostgresRepository) Create(context context.Context, c *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s
	`,
		schema.RefCategory.Table, schema.RefCategory.ID, schema.RefCategory.Name,
		schema.RefCategory.SubCategories, schema.RefCategory.ImageURL, schema.RefCategory.ParentID,
		schema.RefCategory.CreatedAt, schema.RefCategory.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, c.ID, c.Name, c.SubCategories, c.ImageURL, c.ParentID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	return dberr.Wrap(err, "create_category")
}

// Update rewrites every mutable column unconditionally (last writer wins)
// and returns the committed post-state. created_at is never touched.
func (repository *PostgresRepository) Update(context context.Context, c *Category) (*Category, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.RefCategory.Table,
		schema.RefCategory.Name, schema.RefCategory.SubCategories, schema.RefCategory.ImageURL,
		schema.RefCategory.ParentID, schema.RefCategory.UpdatedAt,
		schema.RefCategory.ID,
		columnList(),
	)

	updated := &Category{}
	err := repository.db.QueryRow(context, query, c.ID, c.Name, c.SubCategories, c.ImageURL, c.ParentID).Scan(
		&updated.ID, &updated.Name, &updated.SubCategories, &updated.ImageURL, &updated.ParentID,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "update_category")
	}

	return updated, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.RefCategory.Table, schema.RefCategory.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// Page fetches one keyset page.
//
// With a boundary, the page rows and the count on the other side of the
// boundary are queried concurrently and joined; cancelling the caller's
// context cancels both. The boundary predicates mix equality and strict
// inequality so rows sharing a timestamp are never skipped:
//
//	forward page:   (created_at = t AND id > i) OR created_at > t
//	forward count:  created_at < t OR (created_at = t AND id <= i)
//
// and the exact mirror for backward paging.
func (repository *PostgresRepository) Page(context context.Context, q PageQuery) (*PageResult, error) {
	if q.Boundary == nil {
		return repository.pageFromEnd(context, q)
	}

	// The page query binds ($1 created_at, $2 id, $3 limit); the count
	// query has no limit, so its scope argument sits at $3.
	pageScope, pageScopeArgs := scopeClause(&q, 4)
	countScope, countScopeArgs := scopeClause(&q, 3)

	var pageQuery, countQuery string
	if q.Forward {
		pageQuery = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE ((%s = $1 AND %s > $2) OR %s > $1)%s
			ORDER BY %s ASC, %s ASC
			LIMIT $3
		`,
			columnList(), schema.RefCategory.Table,
			schema.RefCategory.CreatedAt, schema.RefCategory.ID, schema.RefCategory.CreatedAt,
			pageScope,
			schema.RefCategory.CreatedAt, schema.RefCategory.ID,
		)
		countQuery = fmt.Sprintf(`
			SELECT count(*) FROM %s
			WHERE (%s < $1 OR (%s = $1 AND %s <= $2))%s
		`,
			schema.RefCategory.Table,
			schema.RefCategory.CreatedAt, schema.RefCategory.CreatedAt, schema.RefCategory.ID,
			countScope,
		)
	} else {
		pageQuery = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE ((%s = $1 AND %s < $2) OR %s < $1)%s
			ORDER BY %s DESC, %s DESC
			LIMIT $3
		`,
			columnList(), schema.RefCategory.Table,
			schema.RefCategory.CreatedAt, schema.RefCategory.ID, schema.RefCategory.CreatedAt,
			pageScope,
			schema.RefCategory.CreatedAt, schema.RefCategory.ID,
		)
		countQuery = fmt.Sprintf(`
			SELECT count(*) FROM %s
			WHERE (%s > $1 OR (%s = $1 AND %s > $2))%s
		`,
			schema.RefCategory.Table,
			schema.RefCategory.CreatedAt, schema.RefCategory.CreatedAt, schema.RefCategory.ID,
			countScope,
		)
	}

	pageArgs := append([]any{q.Boundary.CreatedAt, q.Boundary.ID, q.Probe}, pageScopeArgs...)
	countArgs := append([]any{q.Boundary.CreatedAt, q.Boundary.ID}, countScopeArgs...)

	result := &PageResult{}
	group, groupCtx := errgroup.WithContext(context)

	group.Go(func() error {
		rows, err := repository.queryRows(groupCtx, pageQuery, pageArgs...)
		if err != nil {
			return err
		}
		result.Rows = rows
		return nil
	})
	group.Go(func() error {
		return repository.db.QueryRow(groupCtx, countQuery, countArgs...).Scan(&result.CountOnOtherEnd)
	})

	if err := group.Wait(); err != nil {
		return nil, dberr.Wrap(err, "page_categories")
	}

	return result, nil
}

// pageFromEnd serves cursor-less requests: a single ordered query from the
// start (forward) or the end (backward) of the collection.
func (repository *PostgresRepository) pageFromEnd(context context.Context, q PageQuery) (*PageResult, error) {
	scope, scopeArgs := scopeClause(&q, 2)

	direction := "ASC"
	if !q.Forward {
		direction = "DESC"
	}

	where := ""
	if scope != "" {
		// There is no boundary clause to anchor on, so the scope predicate
		// opens the WHERE itself.
		where = " WHERE " + scope[len(" AND "):]
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s%s
		ORDER BY %s %s, %s %s
		LIMIT $1
	`,
		columnList(), schema.RefCategory.Table, where,
		schema.RefCategory.CreatedAt, direction, schema.RefCategory.ID, direction,
	)

	rows, err := repository.queryRows(context, query, append([]any{q.Probe}, scopeArgs...)...)
	if err != nil {
		return nil, dberr.Wrap(err, "page_categories")
	}

	return &PageResult{Rows: rows, CountOnOtherEnd: -1}, nil
}

func (repository *PostgresRepository) queryRows(context context.Context, query string, args ...any) ([]Category, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SubCategories, &c.ImageURL, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// scopeClause renders the parent predicate as an " AND ..." fragment.
// argIndex is the positional parameter the parent id binds to when the
// scope needs one.
func scopeClause(q *PageQuery, argIndex int) (string, []any) {
	switch q.Scope {
	case ScopeTopLevel:
		return fmt.Sprintf(" AND %s IS NULL", schema.RefCategory.ParentID), nil
	case ScopeChildrenOf:
		return fmt.Sprintf(" AND %s = $%d", schema.RefCategory.ParentID, argIndex), []any{q.ParentID}
	default:
		return "", nil
	}
}

func columnList() string {
	return schema.RefCategory.ID + ", " + schema.RefCategory.Name + ", " +
		schema.RefCategory.SubCategories + ", " + schema.RefCategory.ImageURL + ", " +
		schema.RefCategory.ParentID + ", " + schema.RefCategory.CreatedAt + ", " +
		schema.RefCategory.UpdatedAt
}
