package handlers

import (
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
)

// UploadHandler 媒体上传 Handler
type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload 处理上传请求 (POST /api/upload[/posts|/stories])，文件字段名为 file。
// The type is sniffed from the content, not from the client's Content-Type.
func (h *UploadHandler) Upload(kind services.UploadKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			respondError(c, apperr.Validation("file is required"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, apperr.Validation("could not read uploaded file"))
			return
		}
		defer f.Close()

		res, err := h.uploads.Save(c.Request.Context(), kind, f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
