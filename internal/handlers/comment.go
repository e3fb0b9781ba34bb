package handlers

import (
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) List(c *gin.Context) {
	postID, err := pathID(c, "postId")
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.comments.ListComments(c.Request.Context(), postID, pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type createCommentRequest struct {
	PostID uint   `json:"postId"`
	Text   string `json:"comment_text"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.comments.AddComment(c.Request.Context(), currentUser(c), req.PostID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Delete 删除评论（评论作者或帖子作者）
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.comments.DeleteComment(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Comment deleted")
}
