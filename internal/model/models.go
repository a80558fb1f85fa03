package model

// All returns every persisted model in migration order.
func All() []any {
	return []any{&User{}, &Category{}, &Genre{}, &Title{}, &GenreTitle{}}
}
