package handlers

import (
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
)

// StoryHandler serves the 24-hour stories.
type StoryHandler struct {
	stories *services.StoryService
}

func NewStoryHandler(stories *services.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

func (h *StoryHandler) List(c *gin.Context) {
	list, err := h.stories.ListStories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type addStoryRequest struct {
	ImgURL    string           `json:"img_url"`
	MediaType models.MediaType `json:"media_type"`
}

func (h *StoryHandler) Create(c *gin.Context) {
	var req addStoryRequest
	if !bindJSON(c, &req) {
		return
	}
	story, err := h.stories.AddStory(c.Request.Context(), currentUser(c), req.ImgURL, req.MediaType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (h *StoryHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.stories.DeleteStory(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Story deleted successfully")
}
