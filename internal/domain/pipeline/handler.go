package pipeline

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resculens/resculens/internal/domain/dispatch"
)

type Handler struct {
	p *Pipeline
}

func NewHandler(p *Pipeline) *Handler {
	return &Handler{p: p}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/triage", h.Triage)
}

type triageRequest struct {
	Transcript string             `json:"transcript"`
	Location   *dispatch.Location `json:"location,omitempty"`
}

type triageResponse struct {
	IncidentID       string               `json:"incident_id"`
	Urgency          string               `json:"urgency"`
	DispatchRequired bool                 `json:"dispatch_required"`
	Reasoning        []string             `json:"reasoning"`
	Symptoms         []string             `json:"symptoms"`
	Assignment       *dispatch.Assignment `json:"assignment,omitempty"`
}

func (h *Handler) Triage(c echo.Context) error {
	var req triageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Transcript == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transcript is required")
	}

	out, err := h.p.Process(c.Request().Context(), req.Transcript, req.Location)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, triageResponse{
		IncidentID:       out.Incident.ID.String(),
		Urgency:          string(out.Incident.Urgency),
		DispatchRequired: out.Incident.DispatchRequired,
		Reasoning:        out.Incident.Reasoning,
		Symptoms:         out.Incident.Symptoms,
		Assignment:       out.Assignment,
	})
}
