package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/advisor-planner/internal/auth"
	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/notifications"
)

type NotificationHandler struct {
	Hub *notifications.Hub
}

// NewNotificationHandler создает SSE-обработчик уведомлений.
func NewNotificationHandler(hub *notifications.Hub) *NotificationHandler {
	return &NotificationHandler{Hub: hub}
}

// Stream открывает SSE-поток событий для консультанта.
func (h *NotificationHandler) Stream(c echo.Context) error {
	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return serverError(c)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	ch, unsubscribe := h.Hub.Subscribe(advisorID)
	defer unsubscribe()

	_ = writeSSE(c, notifications.Event{Type: notifications.EventConnected, Data: map[string]string{"advisor_id": advisorID.String()}})
	flusher.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(c, event); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}

func writeSSE(c echo.Context, event notifications.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := c.Response().Write([]byte("event: " + event.Type + "\n")); err != nil {
		return err
	}
	if _, err := c.Response().Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}

	return nil
}

func publishPlanGenerated(hub *notifications.Hub, advisorID uuid.UUID, plan models.GeneratedPlan) {
	if hub == nil {
		return
	}

	hub.Publish(advisorID, notifications.Event{
		Type: notifications.EventPlanGenerated,
		Data: map[string]interface{}{
			"plan_id":          plan.ID.String(),
			"client_id":        plan.ClientID.String(),
			"plan_type":        string(plan.PlanType),
			"completion_score": plan.Completion.Score,
		},
	})
}

func publishPlanDeleted(hub *notifications.Hub, advisorID uuid.UUID, planID uuid.UUID) {
	if hub == nil {
		return
	}

	hub.Publish(advisorID, notifications.Event{
		Type: notifications.EventPlanDeleted,
		Data: map[string]interface{}{
			"plan_id": planID.String(),
		},
	})
}
