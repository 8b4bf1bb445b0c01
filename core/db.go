package core

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type (
	// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx.
	DBExecutor interface {
		sqlx.ExtContext
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	DB interface {
		DBExecutor

		BeginTxx(context.Context, *sql.TxOptions) (*sqlx.Tx, error)
		PingContext(context.Context) error
		Close() error
	}
)

var (
	_ DB         = (*sqlx.DB)(nil)
	_ DBExecutor = (*sqlx.Tx)(nil)
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// FilterOrderings keeps the orderings whose Field is a key of allowed, renaming it to the mapped column.
// Unknown fields are dropped so user input never reaches an ORDER BY clause verbatim.
func FilterOrderings(orderings []DBOrdering, allowed map[string]string) []DBOrdering {
	out := make([]DBOrdering, 0, len(orderings))
	for _, ord := range orderings {
		if col, ok := allowed[ord.Field]; ok {
			out = append(out, DBOrdering{Field: col, Ascending: ord.Ascending})
		}
	}
	return out
}
