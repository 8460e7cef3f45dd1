package dbmodels

import "campus-workflow-backend/models"

type User struct {
	BaseModel
	FirstName string `gorm:"type:varchar(255)"`
	LastName  string `gorm:"type:varchar(255)"`
	Email     string `gorm:"type:varchar(255);index:idx_user_email"`
	Phone     string `gorm:"type:varchar(100)"`
	Role      models.Role `gorm:"type:varchar(100);index:idx_user_role"`
	// only meaningful for general secretaries, who are split across
	// technical/cultural/sports
	Category models.EventCategory `gorm:"type:varchar(100)"`
	ClubName string               `gorm:"type:varchar(255)"`
	IsActive bool                 `gorm:"default:true"`
}

func (u User) GetFullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
