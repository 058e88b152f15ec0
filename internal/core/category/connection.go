package category

import (
	"github.com/taibuivan/emporia/pkg/cursor"
	"github.com/taibuivan/emporia/pkg/pagination"
	"github.com/taibuivan/emporia/pkg/slice"
)

// BuildConnection assembles a Relay connection from one page fetch.
//
// rows arrive in query order: ascending for forward pages, descending for
// backward pages. The probe row (if present) is dropped, backward pages
// are re-reversed so clients always observe ascending (created_at, id)
// order, and the paging flags follow the direction:
//
//	forward:  has_next     = probe row seen
//	          has_previous = rows exist before the cursor (false from start)
//	backward: has_previous = probe row seen
//	          has_next     = rows exist after the cursor (false from end)
func BuildConnection(result *PageResult, params pagination.Params, actualCount int32) Connection {
	rows := result.Rows
	hasMore := int32(len(rows)) > actualCount
	if hasMore {
		rows = rows[:actualCount]
	}

	hadCursor := params.Cursor() != nil
	onOtherEnd := hadCursor && result.CountOnOtherEnd > 0

	var info PageInfo
	if params.IsForward() {
		info = PageInfo{HasNextPage: hasMore, HasPreviousPage: onOtherEnd}
	} else {
		info = PageInfo{HasNextPage: onOtherEnd, HasPreviousPage: hasMore}
		rows = reversed(rows)
	}

	edges := slice.Map(rows, func(row Category) Edge {
		return Edge{
			Cursor: cursor.Encode(row.CreatedAt, row.ID),
			Node:   row,
		}
	})
	if edges == nil {
		edges = []Edge{}
	}

	return Connection{Edges: edges, PageInfo: info}
}

func reversed(rows []Category) []Category {
	out := make([]Category, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row
	}
	return out
}
