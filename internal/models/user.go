package models

import (
	"time"
)

type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeAlumni  UserType = "alumni"
	UserTypeFaculty UserType = "faculty"
	UserTypeOther   UserType = "other"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeAlumni, UserTypeFaculty, UserTypeOther:
		return true
	}
	return false
}

type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GoogleID        string    `gorm:"index" json:"-"` // Google subject id
	Name            string    `gorm:"not null" json:"name"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	ProfileImg      string    `json:"profile_img"`
	CoverImg        string    `json:"cover_img"`
	Bio             string    `gorm:"size:300" json:"bio"`
	About           string    `gorm:"type:text" json:"about"`
	UserType        UserType  `gorm:"type:varchar(20);not null;default:'student'" json:"user_type"`
	Batch           string    `gorm:"size:20" json:"batch"`        // student / alumni
	CompanyName     string    `json:"company_name"`                // alumni
	Role            string    `json:"role"`                        // alumni
	Department      string    `json:"department"`                  // faculty
	Designation     string    `json:"designation"`                 // faculty
	City            string    `json:"city"`
	State           string    `json:"state"`
	Country         string    `json:"country"`
	LinkedinURL     string    `json:"linkedin_url"`
	GithubURL       string    `json:"github_url"`
	InstagramURL    string    `json:"instagram_url"`
	FacebookURL     string    `json:"facebook_url"`
	PersonalWebsite string    `json:"personal_website"`
	PostsCount      int       `gorm:"not null;default:0" json:"posts_count"`
	FollowersCount  int       `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount  int       `gorm:"not null;default:0" json:"following_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Public is the profile as other users see it, without the e-mail address.
func (u *User) Public() *User {
	p := *u
	p.Email = ""
	return &p
}
