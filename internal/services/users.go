package services

import (
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/utils"
)

// ProfilePatch 资料修改。空字段表示不修改。
type ProfilePatch struct {
	Name            string `json:"name" form:"name"`
	Bio             string `json:"bio" form:"bio"`
	About           string `json:"about" form:"about"`
	UserType        string `json:"user_type" form:"user_type"`
	Batch           string `json:"batch" form:"batch"`
	CompanyName     string `json:"company_name" form:"company_name"`
	Role            string `json:"role" form:"role"`
	Department      string `json:"department" form:"department"`
	Designation     string `json:"designation" form:"designation"`
	City            string `json:"city" form:"city"`
	State           string `json:"state" form:"state"`
	Country         string `json:"country" form:"country"`
	LinkedinURL     string `json:"linkedin_url" form:"linkedin_url"`
	GithubURL       string `json:"github_url" form:"github_url"`
	InstagramURL    string `json:"instagram_url" form:"instagram_url"`
	FacebookURL     string `json:"facebook_url" form:"facebook_url"`
	PersonalWebsite string `json:"personal_website" form:"personal_website"`
	ProfileImg      string `json:"profile_img" form:"profile_img"`
	CoverImg        string `json:"cover_img" form:"cover_img"`
}

// maxRunes mirrors the varchar sizes of the users table.
var maxRunes = map[string]int{
	"name":         255,
	"bio":          300,
	"batch":        20,
	"company_name": 255,
	"role":         255,
	"department":   255,
	"designation":  255,
	"city":         255,
	"state":        255,
	"country":      255,
}

// fields turns the patch into column updates, validating as it goes.
func (p ProfilePatch) fields() (map[string]any, error) {
	out := make(map[string]any)

	text := map[string]string{
		"name":         p.Name,
		"bio":          p.Bio,
		"about":        p.About,
		"batch":        p.Batch,
		"company_name": p.CompanyName,
		"role":         p.Role,
		"department":   p.Department,
		"designation":  p.Designation,
		"city":         p.City,
		"state":        p.State,
		"country":      p.Country,
	}
	for col, v := range text {
		v = utils.SanitizeText(v)
		if v == "" {
			continue
		}
		if limit, ok := maxRunes[col]; ok && utf8.RuneCountInString(v) > limit {
			return nil, apperr.Newf(apperr.KindValidation, "%s must be at most %d characters", col, limit)
		}
		out[col] = v
	}

	links := map[string]string{
		"linkedin_url":     p.LinkedinURL,
		"github_url":       p.GithubURL,
		"instagram_url":    p.InstagramURL,
		"facebook_url":     p.FacebookURL,
		"personal_website": p.PersonalWebsite,
		"profile_img":      p.ProfileImg,
		"cover_img":        p.CoverImg,
	}
	for col, v := range links {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !validLink(v) {
			return nil, apperr.Newf(apperr.KindValidation, "%s must be an http(s) URL or an uploaded file path", col)
		}
		out[col] = v
	}

	if t := strings.TrimSpace(p.UserType); t != "" {
		if !models.UserType(t).Valid() {
			return nil, apperr.Validation("user_type must be one of student, alumni, faculty, other")
		}
		out["user_type"] = t
	}
	return out, nil
}

// validLink accepts absolute http(s) URLs and paths under /uploads/.
func validLink(s string) bool {
	if strings.HasPrefix(s, "/uploads/") {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Me(ctx context.Context, user *models.User) (*models.User, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, user.ID)
}

// UpdateProfile 修改资料，只能修改自己的
func (s *UserService) UpdateProfile(ctx context.Context, requester *models.User, id uint, patch ProfilePatch) (*models.User, error) {
	if err := requireUser(requester); err != nil {
		return nil, err
	}
	if requester.ID != id {
		return nil, apperr.Forbidden("you can only update your own profile")
	}
	fields, err := patch.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("no fields to update")
	}
	return s.users.Update(ctx, id, fields)
}

// CompleteRegistration records the classification chosen after the first
// sign-in. user_type is mandatory here.
func (s *UserService) CompleteRegistration(ctx context.Context, user *models.User, in ProfilePatch) (*models.User, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.UserType) == "" {
		return nil, apperr.Validation("user_type is required")
	}
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	return s.users.Update(ctx, user.ID, fields)
}
