package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// topPerParent ranks the rows of table inside each parentCol group and keeps
// the first limit of every group. Rows come back grouped by parent, in rank
// order.
func topPerParent(db *gorm.DB, table, columns, parentCol string, parentIDs []uint, order string, limit int) *gorm.DB {
	ranked := db.Table(table).
		Select(fmt.Sprintf("%s, ROW_NUMBER() OVER (PARTITION BY %s ORDER BY %s) AS rn", columns, parentCol, order)).
		Where(parentCol+" IN ?", parentIDs)
	return db.Table("(?) AS ranked", ranked).
		Select(columns).
		Where("rn <= ?", limit).
		Order(parentCol + ", rn")
}

type groupCount struct {
	OwnerID uint  `gorm:"column:owner_id"`
	Total   int64 `gorm:"column:total"`
}

// countByParent counts the rows of m per parentCol value. Parents without
// rows are absent from the result.
func countByParent(db *gorm.DB, m any, parentCol string, parentIDs []uint) (map[uint]int64, error) {
	var rows []groupCount
	if err := db.Model(m).
		Select(parentCol+" AS owner_id, COUNT(*) AS total").
		Where(parentCol+" IN ?", parentIDs).
		Group(parentCol).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.OwnerID] = row.Total
	}
	return out, nil
}
