package model

// AllModels 需要自动迁移的模型
func AllModels() []any {
	return []any{
		&User{},
		&Category{},
		&City{},
		&Listing{},
		&Picture{},
		&Favorite{},
		&Report{},
	}
}
