package dispatch

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	pool *Pool
}

func NewHandler(pool *Pool) *Handler {
	return &Handler{pool: pool}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/hospitals", h.ListHospitals)
}

func (h *Handler) ListHospitals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pool.Snapshot())
}
