package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/shop-admin-console/internal/service"
	"github.com/maxviazov/shop-admin-console/pkg/response"
)

const defaultNoticeLimit = 20

type NoticeHandler struct {
	svc service.Console
}

func NewNoticeHandler(svc service.Console) *NoticeHandler { return &NoticeHandler{svc: svc} }

func (h *NoticeHandler) Register(r *gin.RouterGroup) {
	r.GET("/notices", h.list)
}

// list returns the newest toasts first; ?limit=0 returns all buffered ones.
func (h *NoticeHandler) list(c *gin.Context) {
	limit := defaultNoticeLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.WriteError(c, service.ErrInvalidInput)
			return
		}
		limit = n
	}
	response.WriteData(c, http.StatusOK, gin.H{"notices": h.svc.Notices(limit)})
}
