package database

import (
	"errors"
	"time"
)

var ErrUsernameExists = errors.New("username already exists")

type User struct {
	UserID    uint      `json:"userId" gorm:"autoIncrement;primaryKey;column:user_id" extensions:"!x-nullable"`
	Username  string    `json:"username" gorm:"unique;not null" extensions:"!x-nullable"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ExistsUsername(username string) error {
	var count int64
	if err := DB.Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameExists
	}
	return nil
}

func CreateUser(user *User) error {
	return DB.Create(user).Error
}

func FindUserByUsername(username string) (*User, error) {
	var user User
	if err := DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func FindUserByID(id uint) (*User, error) {
	var user User
	if err := DB.Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
