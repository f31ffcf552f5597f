package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert stock: %w", &pgconn.PgError{Code: "23505", ConstraintName: "stock_name_key"})

	constraint, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "stock_name_key", constraint)

	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)

	assert.True(t, ForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, ForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}

func TestBuilder_UsesDollarPlaceholders(t *testing.T) {
	sql, args, err := Builder().
		Update("stock").
		Set("quantity", squirrel.Expr("quantity - ?", 3)).
		Where(squirrel.Eq{"id": "x"}).
		Where(squirrel.GtOrEq{"quantity": 3}).
		ToSql()

	assert.NoError(t, err)
	assert.Equal(t, "UPDATE stock SET quantity = quantity - $1 WHERE id = $2 AND quantity >= $3", sql)
	assert.Equal(t, []any{3, "x", 3}, args)
}
