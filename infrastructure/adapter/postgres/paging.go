package postgres

import (
	"fmt"

	"github.com/storedesk/storedesk/domain/entity"
)

// newestFirst orders list queries. id breaks created_at ties so a keyset
// cursor always has a single successor.
const newestFirst = " ORDER BY created_at DESC, id DESC"

// afterCursor returns the keyset condition for rows strictly after cursor,
// using placeholders $argIndex and $argIndex+1.
func afterCursor(cursor *entity.PageCursor, argIndex int) (string, []interface{}) {
	clause := fmt.Sprintf("(created_at, id) < ($%d::timestamptz, $%d::uuid)", argIndex, argIndex+1)
	return clause, []interface{}{cursor.CreatedAt, cursor.ID}
}
