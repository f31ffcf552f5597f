package dto

import (
	"invoicer/internal/core/types"
	"invoicer/internal/domain/registers/stock"
)

// StockRequest creates or overwrites a stock record.
type StockRequest struct {
	Name     string        `json:"name" binding:"required"`
	Quantity types.Lenient `json:"quantity"`
}

// BulkStockItem is one row of a bulk upsert.
type BulkStockItem struct {
	Name     string        `json:"name"`
	Quantity types.Lenient `json:"quantity"`
}

// BulkStockRequest is the body of POST /stock/bulk.
type BulkStockRequest struct {
	Items []BulkStockItem `json:"items" binding:"required"`
}

// Rows converts the request into service rows.
func (r BulkStockRequest) Rows() []stock.BulkRow {
	rows := make([]stock.BulkRow, len(r.Items))
	for i, item := range r.Items {
		rows[i] = stock.BulkRow{Name: item.Name, Quantity: item.Quantity.Decimal()}
	}
	return rows
}
