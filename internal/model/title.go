package model

// Title is a catalog entry. CategoryID is cleared, not cascaded, when its
// category goes away; genres hang off the genre_titles join table.
type Title struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null;index" json:"name"`
	Year        int       `gorm:"not null;index" json:"year"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  *uint     `gorm:"index" json:"-"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category"`
	Genres      []Genre   `gorm:"many2many:genre_titles;" json:"genre"`
	Rating      *int      `json:"rating"`
}

// GenreTitle is the join record between a title and a genre. Deleting either
// side removes only the join rows.
type GenreTitle struct {
	TitleID uint `gorm:"primaryKey"`
	GenreID uint `gorm:"primaryKey"`
}

func (GenreTitle) TableName() string {
	return "genre_titles"
}
