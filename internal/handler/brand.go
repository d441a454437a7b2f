package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/shop-admin-console/internal/service"
	"github.com/maxviazov/shop-admin-console/pkg/response"
)

// BrandHandler proxies brand logo uploads to the backend.
type BrandHandler struct {
	svc service.Console
}

func NewBrandHandler(svc service.Console) *BrandHandler { return &BrandHandler{svc: svc} }

func (h *BrandHandler) Register(r *gin.RouterGroup) {
	r.POST("/brands/logo", h.uploadLogo)
}

// uploadLogo expects multipart fields brand_id and file.
func (h *BrandHandler) uploadLogo(c *gin.Context) {
	// cap the body so an oversized file fails fast instead of filling memory
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxLogoBytes+64<<10)

	fh, err := c.FormFile("file")
	if err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.WriteError(c, err)
		return
	}
	defer f.Close()

	res, err := h.svc.UploadBrandLogo(c.Request.Context(), service.LogoInput{
		BrandID:     c.PostForm("brand_id"),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, res)
}
