package model

// User 发布者
// 沙箱不做密码登录，token 由命令行签发
type User struct {
	BaseModel
	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:255;uniqueIndex" json:"email"`
	Phone string `gorm:"size:32" json:"phone"`
}

func (User) TableName() string { return "users" }
