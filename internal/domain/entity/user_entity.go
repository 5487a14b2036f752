package entity

import (
	"time"
)

// Gender values accepted on a profile. Empty means unset.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// User is the aggregate root for the identity domain.
// Password holds a bcrypt hash and is never serialized.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Gender    string    `json:"gender,omitempty"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Author is the public projection of a User joined onto blogs and comments.
type Author struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

func (u *User) Author() Author {
	return Author{ID: u.ID, Name: u.Name, Username: u.Username, Email: u.Email, Avatar: u.Avatar}
}

// Profile is a user's public page with social counts relative to a viewer.
type Profile struct {
	*User
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	Posts       int64 `json:"posts"`
	IsFollowing bool  `json:"isFollowing"`
}
