// Package webhook handles inbound telephony callbacks (SMS and voice
// transcriptions) and feeds them into the triage pipeline. Responses are
// TwiML, the XML dialect Twilio-compatible gateways expect.
package webhook

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/resculens/resculens/internal/domain/pipeline"
	"github.com/resculens/resculens/internal/domain/triage"
)

// twimlMessaging is a minimal TwiML messaging response.
type twimlMessaging struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// twimlVoice prompts the caller and records the call for transcription.
type twimlVoice struct {
	XMLName xml.Name    `xml:"Response"`
	Say     string      `xml:"Say"`
	Record  twimlRecord `xml:"Record"`
}

type twimlRecord struct {
	Transcribe         bool   `xml:"transcribe,attr"`
	TranscribeCallback string `xml:"transcribeCallback,attr"`
	MaxLength          int    `xml:"maxLength,attr"`
	PlayBeep           bool   `xml:"playBeep,attr"`
}

// Handler serves the inbound webhook endpoints.
type Handler struct {
	pipeline *pipeline.Pipeline
	logger   zerolog.Logger
}

func NewHandler(p *pipeline.Pipeline, logger zerolog.Logger) *Handler {
	return &Handler{pipeline: p, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/webhooks/sms", h.HandleSMS)
	g.POST("/webhooks/voice", h.HandleVoice)
	g.POST("/webhooks/transcription", h.HandleTranscription)
}

// HandleSMS triages an inbound SMS body. The gateway receives a TwiML reply
// telling the caller what happens next. Caller location is not available on
// this channel, so no bed is allocated here.
func (h *Handler) HandleSMS(c echo.Context) error {
	transcript := strings.TrimSpace(c.FormValue("Body"))
	if transcript == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Body is required")
	}

	outcome, err := h.pipeline.Process(c.Request().Context(), transcript, nil)
	if err != nil {
		return err
	}
	inc := outcome.Incident

	shortID := inc.ID.String()[:8]
	var msg string
	switch inc.Urgency {
	case triage.SeverityCritical:
		msg = fmt.Sprintf("EMERGENCY ALERT RECEIVED. Dispatching units immediately. ID: %s", shortID)
	case triage.SeverityHigh:
		msg = fmt.Sprintf("Help is on the way. Severity: High. ID: %s", shortID)
	default:
		advice := "Monitor condition"
		if len(inc.Reasoning) > 0 {
			advice = inc.Reasoning[0]
		}
		msg = fmt.Sprintf("Incident recorded. Advice: %s", advice)
	}

	h.logger.Info().
		Str("incident_id", inc.ID.String()).
		Str("urgency", string(inc.Urgency)).
		Str("from", c.FormValue("From")).
		Msg("inbound sms triaged")

	return c.XML(http.StatusOK, twimlMessaging{Message: msg})
}

// HandleVoice answers an inbound call with a prompt and records the caller.
// The recording gateway posts the transcription to /webhooks/transcription.
func (h *Handler) HandleVoice(c echo.Context) error {
	return c.XML(http.StatusOK, twimlVoice{
		Say: "This is RescuLens 911. Please state your emergency after the beep.",
		Record: twimlRecord{
			Transcribe:         true,
			TranscribeCallback: "/webhooks/transcription",
			MaxLength:          30,
			PlayBeep:           true,
		},
	})
}

// HandleTranscription triages the transcribed text of a recorded call.
// Empty transcriptions are acknowledged and dropped.
func (h *Handler) HandleTranscription(c echo.Context) error {
	transcript := strings.TrimSpace(c.FormValue("TranscriptionText"))
	if transcript == "" {
		return c.NoContent(http.StatusNoContent)
	}

	outcome, err := h.pipeline.Process(c.Request().Context(), transcript, nil)
	if err != nil {
		return err
	}

	h.logger.Info().
		Str("incident_id", outcome.Incident.ID.String()).
		Str("urgency", string(outcome.Incident.Urgency)).
		Msg("voice transcription triaged")

	return c.JSON(http.StatusOK, map[string]string{"status": "processed"})
}
