package model

// swagger:model User
type User struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	DisplayName string `gorm:"size:100;not null" json:"displayName"`
	Email       string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string `gorm:"size:100;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserView is the public shape of a user returned by the API.
type UserView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (u *User) View() UserView {
	return UserView{
		ID:          u.ID,
		Name:        u.Name,
		DisplayName: u.DisplayName,
		Email:       u.Email,
	}
}
