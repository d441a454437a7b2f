package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/shop-admin-console/internal/listview"
	"github.com/maxviazov/shop-admin-console/internal/service"
	"github.com/maxviazov/shop-admin-console/pkg/response"
)

type ScreenHandler struct {
	svc service.Console
}

func NewScreenHandler(svc service.Console) *ScreenHandler { return &ScreenHandler{svc: svc} }

func (h *ScreenHandler) Register(r *gin.RouterGroup) {
	r.GET("/screens", h.list)
	g := r.Group("/screens/:resource")
	{
		g.GET("", h.view)
		g.PUT("/search", h.search)
		g.PUT("/filters", h.filters)
		g.PUT("/sort", h.sort)
		g.PUT("/page", h.page)
		g.POST("/clear", h.clear)
		g.POST("/refresh", h.refresh)

		g.POST("/items/:id/delete", h.requestAction(listview.ActionDelete))
		g.POST("/items/:id/toggle-status", h.requestAction(listview.ActionToggleStatus))

		g.GET("/confirmation", h.pending)
		g.POST("/confirmation/confirm", h.confirm)
		g.POST("/confirmation/cancel", h.cancel)
	}
}

func (h *ScreenHandler) list(c *gin.Context) {
	response.WriteData(c, http.StatusOK, gin.H{"screens": h.svc.Screens()})
}

func (h *ScreenHandler) view(c *gin.Context) {
	v, err := h.svc.View(c.Request.Context(), c.Param("resource"))
	writeView(c, v, err)
}

func (h *ScreenHandler) search(c *gin.Context) {
	var req service.SearchInput
	if !bind(c, &req) {
		return
	}
	v, err := h.svc.Search(c.Request.Context(), c.Param("resource"), req)
	writeView(c, v, err)
}

func (h *ScreenHandler) filters(c *gin.Context) {
	var req service.FilterInput
	if !bind(c, &req) {
		return
	}
	v, err := h.svc.Filter(c.Request.Context(), c.Param("resource"), req)
	writeView(c, v, err)
}

func (h *ScreenHandler) sort(c *gin.Context) {
	var req service.SortInput
	if !bind(c, &req) {
		return
	}
	v, err := h.svc.Sort(c.Request.Context(), c.Param("resource"), req)
	writeView(c, v, err)
}

func (h *ScreenHandler) page(c *gin.Context) {
	var req service.PageInput
	if !bind(c, &req) {
		return
	}
	v, err := h.svc.Page(c.Request.Context(), c.Param("resource"), req)
	writeView(c, v, err)
}

func (h *ScreenHandler) clear(c *gin.Context) {
	v, err := h.svc.Clear(c.Request.Context(), c.Param("resource"))
	writeView(c, v, err)
}

func (h *ScreenHandler) refresh(c *gin.Context) {
	v, err := h.svc.Refresh(c.Request.Context(), c.Param("resource"))
	writeView(c, v, err)
}

type itemActionRequest struct {
	Label string `json:"label"`
}

// requestAction opens a confirmation dialog; nothing is changed until confirm.
func (h *ScreenHandler) requestAction(action listview.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemActionRequest
		if !bindOptional(c, &req) {
			return
		}
		conf, err := h.svc.RequestAction(c.Request.Context(), c.Param("resource"), action, service.ItemInput{ID: c.Param("id"), Label: req.Label})
		if err != nil {
			response.WriteError(c, err)
			return
		}
		response.WriteData(c, http.StatusAccepted, conf)
	}
}

func (h *ScreenHandler) pending(c *gin.Context) {
	conf, err := h.svc.Pending(c.Request.Context(), c.Param("resource"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, conf)
}

func (h *ScreenHandler) confirm(c *gin.Context) {
	conf, err := h.svc.Confirm(c.Request.Context(), c.Param("resource"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, conf)
}

func (h *ScreenHandler) cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Request.Context(), c.Param("resource")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bind decodes the JSON body; parse details are not echoed back.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return false
	}
	return true
}

// bindOptional is bind for requests whose body may be absent or empty.
func bindOptional(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.WriteError(c, service.ErrInvalidInput)
		return false
	}
	return true
}

func writeView(c *gin.Context, v any, err error) {
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, v)
}
