package handlers

import (
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// List 帖子列表 GET /api/posts?userId=&limit=&offset=&cursor=
func (h *PostHandler) List(c *gin.Context) {
	userID, err := queryID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.posts.ListPosts(c.Request.Context(), models.PostFilter{UserID: userID}, pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	post, err := h.posts.GetPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

type createPostRequest struct {
	Desc   string `json:"desc_text"`
	ImgURL string `json:"img_url"`
}

// Create 发布帖子。作者取自登录用户，忽略请求体里的 user_id。
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.posts.CreatePost(c.Request.Context(), currentUser(c), req.Desc, req.ImgURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.posts.DeletePost(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Post deleted successfully")
}
