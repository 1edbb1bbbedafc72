package domain

import "time"

// User represents a bot user (staff member or visitor)
type User struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Phone     string
	Role      Role
	CreatedAt time.Time
}

// DisplayName returns the best available human name
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return "@" + u.Username
	default:
		return "—"
	}
}

// UserField is an editable profile field
type UserField string

const (
	UserFieldUsername  UserField = "username"
	UserFieldFirstName UserField = "first_name"
	UserFieldLastName  UserField = "last_name"
	UserFieldPhone     UserField = "phone"
)

// UserFields lists editable fields in prompt order
func UserFields() []UserField {
	return []UserField{UserFieldUsername, UserFieldFirstName, UserFieldLastName, UserFieldPhone}
}

// Label returns user-facing field name
func (f UserField) Label() string {
	switch f {
	case UserFieldUsername:
		return "Username"
	case UserFieldFirstName:
		return "Имя"
	case UserFieldLastName:
		return "Фамилия"
	case UserFieldPhone:
		return "Телефон"
	default:
		return string(f)
	}
}
