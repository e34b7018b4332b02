package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// sortable lists the columns OrderBy accepts; anything else is ignored.
var sortable = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"sort_order": true,
	"name":       true,
	"title":      true,
}

// OrderBy sorts by one known column.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	if !sortable[s.Field] {
		return db
	}
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field}, Desc: s.Desc})
}
