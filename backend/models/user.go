package models

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// ParseRole maps an empty value to the default student role.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleStudent, true
	}
	r := Role(s)
	return r, r.Valid()
}

type User struct {
	Base
	FullName        string                         `gorm:"not null" json:"fullName"`
	Email           string                         `gorm:"uniqueIndex;not null" json:"email"`
	Password        string                         `gorm:"not null" json:"-"`
	Role            Role                           `gorm:"type:varchar(20);default:student;not null" json:"role"`
	IsActive        bool                           `gorm:"default:true;not null" json:"isActive"`
	Avatar          string                         `json:"avatar"`
	Bio             string                         `json:"bio"`
	Skills          datatypes.JSONSlice[string]    `json:"skills"`
	EnrolledCourses datatypes.JSONSlice[uuid.UUID] `json:"enrolledCourses"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func (u *User) HasEnrolled(courseID uuid.UUID) bool {
	for _, id := range u.EnrolledCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// Principal is the authenticated caller, decoded from a token.
type Principal struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	FullName string    `json:"fullName"`
}

// AuthorRef is the public summary of an account embedded in content responses.
type AuthorRef struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
}
