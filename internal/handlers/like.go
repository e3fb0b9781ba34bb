package handlers

import (
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likes *services.LikeService
}

func NewLikeHandler(likes *services.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

type toggleLikeRequest struct {
	PostID uint `json:"postId"`
}

// Toggle 点赞/取消点赞 POST /api/likes/toggle
func (h *LikeHandler) Toggle(c *gin.Context) {
	var req toggleLikeRequest
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.likes.ToggleLike(c.Request.Context(), currentUser(c), req.PostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *LikeHandler) Status(c *gin.Context) {
	postID, err := queryID(c, "postId")
	if err != nil {
		respondError(c, err)
		return
	}
	state, err := h.likes.LikeStatus(c.Request.Context(), currentUser(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
