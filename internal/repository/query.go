package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Page bounds a list query. Limit <= 0 means no limit.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsClause matches column against a literal substring. '!' is the
// escape character because a backslash would itself need escaping on MySQL.
func containsClause(column, term string) (string, string) {
	return column + " LIKE ? ESCAPE '!'", "%" + likeEscaper.Replace(term) + "%"
}
