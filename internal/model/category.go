package model

// Category 分类，ParentID 自引用形成层级
type Category struct {
	ID       int64     `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	ParentID *int64    `gorm:"index" json:"parent_id"`
	Parent   *Category `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

func (Category) TableName() string { return "categories" }

// City 城市
type City struct {
	ID        int64    `gorm:"primaryKey" json:"id"`
	Name      string   `gorm:"size:100;not null" json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (City) TableName() string { return "cities" }
