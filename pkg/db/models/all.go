package models

// All lists every persisted model, parents first.
func All() []any {
	return []any{
		&Snack{},
		&Vote{},
		&Order{},
		&OrderItem{},
		&Announcement{},
		&Suggestion{},
		&Comment{},
		&TrendingSnack{},
	}
}
