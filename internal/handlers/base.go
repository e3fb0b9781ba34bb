package handlers

import (
	"strings"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/middleware"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/utils"
	"github.com/gin-gonic/gin"
)

// respondError writes the error envelope for err.
func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// message 返回 {"message": ...}
func message(c *gin.Context, code int, text string) {
	c.JSON(code, gin.H{"message": text})
}

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, error) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		return 0, apperr.Newf(apperr.KindValidation, "invalid %s", name)
	}
	return id, nil
}

// queryID parses an optional numeric query parameter. Empty means 0.
func queryID(c *gin.Context, name string) (uint, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return 0, nil
	}
	id, ok := utils.ParseID(v)
	if !ok {
		return 0, apperr.Newf(apperr.KindValidation, "invalid %s", name)
	}
	return id, nil
}

// pageFrom reads limit, offset and cursor from the query string.
func pageFrom(c *gin.Context) models.PageRequest {
	return models.PageRequest{
		Limit:  utils.StringToInt(c.Query("limit")),
		Offset: utils.StringToInt(c.Query("offset")),
		Cursor: c.Query("cursor"),
	}.Normalize()
}

// bindJSON decodes the body, reporting malformed input as a validation error.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return false
	}
	return true
}
