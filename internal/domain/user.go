package domain

import (
	"strings"
	"time"
)

const BirthdateLayout = "2006-01-02"

type Gender string

const (
	GenderMale   Gender = "MASCULINO"
	GenderFemale Gender = "FEMENINO"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// ParseGender accepts the enum names case-insensitively ("Masculino" included).
func ParseGender(s string) (Gender, bool) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	return g, g.Valid()
}

type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Birthdate    time.Time
	Gender       Gender
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of a User.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Birthdate string    `json:"birthdate"`
	Gender    Gender    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Birthdate: u.Birthdate.Format(BirthdateLayout),
		Gender:    u.Gender,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileUpdate carries the fields a user may change. Nil fields are left untouched.
type ProfileUpdate struct {
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Birthdate *string `json:"birthdate"`
	Gender    *Gender `json:"gender"`
}

func (u ProfileUpdate) Empty() bool {
	return u.Email == nil && u.Username == nil && u.Password == nil && u.Birthdate == nil && u.Gender == nil
}

// UserChanges is a validated ProfileUpdate ready for storage.
type UserChanges struct {
	Email        *string
	Username     *string
	PasswordHash *string
	Birthdate    *time.Time
	Gender       *Gender
}
