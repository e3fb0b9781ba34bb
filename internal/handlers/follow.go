package handlers

import (
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	graph *services.GraphService
}

func NewFollowHandler(graph *services.GraphService) *FollowHandler {
	return &FollowHandler{graph: graph}
}

type followRequest struct {
	FollowingID uint `json:"followingId"`
}

func (h *FollowHandler) Follow(c *gin.Context) {
	var req followRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.graph.Follow(c.Request.Context(), currentUser(c), req.FollowingID); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Followed successfully")
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	id, err := pathID(c, "followingId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.graph.Unfollow(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Unfollowed successfully")
}

// Followers 粉丝列表
func (h *FollowHandler) Followers(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.graph.ListFollowers(c.Request.Context(), userID, pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Following 关注列表
func (h *FollowHandler) Following(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.graph.ListFollowing(c.Request.Context(), userID, pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FollowHandler) Check(c *gin.Context) {
	id, err := pathID(c, "followingId")
	if err != nil {
		respondError(c, err)
		return
	}
	following, err := h.graph.IsFollowing(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}
