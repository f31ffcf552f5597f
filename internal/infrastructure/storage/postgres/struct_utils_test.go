package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"invoicer/internal/core/entity"
	"invoicer/internal/core/id"
	"invoicer/internal/core/types"
)

type sampleRow struct {
	Seq      int64          `db:"seq"`
	ID       id.ID          `db:"id"`
	Name     string         `db:"name"`
	Quantity types.Quantity `db:"quantity"`
	Ignored  string         `db:"-"`
	NoTag    string

	entity.Timestamps
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[sampleRow]()
	assert.Equal(t, []string{"seq", "id", "name", "quantity", "created_at", "updated_at"}, cols)

	cols = ExtractDBColumns[*sampleRow]("seq")
	assert.Equal(t, []string{"id", "name", "quantity", "created_at", "updated_at"}, cols)
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	row := &sampleRow{
		Seq:      7,
		ID:       id.New(),
		Name:     "Cement",
		Quantity: types.MustMoney("12.5"),
		Ignored:  "x",
	}
	row.Stamp(now)

	m := StructToMap(row, "seq")

	assert.Len(t, m, 5)
	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, "Cement", m["name"])
	assert.Equal(t, row.Quantity, m["quantity"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, now, m["updated_at"])
	assert.NotContains(t, m, "seq")
}
