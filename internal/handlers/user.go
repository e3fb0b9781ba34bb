package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users   *services.UserService
	uploads *services.UploadService
}

func NewUserHandler(users *services.UserService, uploads *services.UploadService) *UserHandler {
	return &UserHandler{users: users, uploads: uploads}
}

// Profile 用户主页 GET /api/users/:userId
func (h *UserHandler) Profile(c *gin.Context) {
	id, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// Update accepts either JSON or a multipart form. In the multipart form,
// profile_img and cover_img may be files; they are stored like any other
// upload and their URLs written into the profile.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}

	// Pull image files out of the form first; the binder only maps text values.
	files := map[string]*multipart.FileHeader{}
	if c.ContentType() == "multipart/form-data" {
		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, apperr.Validation("invalid multipart form"))
			return
		}
		for _, field := range []string{"profile_img", "cover_img"} {
			if fhs := form.File[field]; len(fhs) > 0 {
				files[field] = fhs[0]
				delete(form.File, field)
			}
		}
	}

	var patch services.ProfilePatch
	if err := c.ShouldBind(&patch); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	if len(files) > 0 {
		// reject before touching the disk
		if me := currentUser(c); me == nil || me.ID != id {
			respondError(c, apperr.Forbidden("you can only update your own profile"))
			return
		}
		targets := map[string]*string{"profile_img": &patch.ProfileImg, "cover_img": &patch.CoverImg}
		for field, fh := range files {
			url, err := h.saveImage(c.Request.Context(), fh)
			if err != nil {
				respondError(c, err)
				return
			}
			*targets[field] = url
		}
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!", "user": user})
}

func (h *UserHandler) saveImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", apperr.Validation("could not read uploaded file")
	}
	defer f.Close()

	res, err := h.uploads.Save(ctx, services.UploadPosts, f)
	if err != nil {
		return "", err
	}
	return res.FileURL, nil
}
