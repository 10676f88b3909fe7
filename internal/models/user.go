package models

// UserModel is a community member. Rows are written by the external identity
// collaborator; this core only reads them for ownership checks and to resolve
// display names on comments.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role" gorm:"default:user"`
}

func (UserModel) TableName() string { return "users" }
