package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/showtime/movie-booking/internal/repository"
	"github.com/showtime/movie-booking/internal/service"
)

// NotificationHandler serves stored notifications and the live SSE
// stream. Stored rows come from the queue consumer; the stream is fed
// by the same consumer through the registry.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
	Streams       *service.StreamRegistry
}

func NewNotificationHandler(n *repository.NotificationRepo, s *service.StreamRegistry) *NotificationHandler {
	return &NotificationHandler{Notifications: n, Streams: s}
}

// List handles GET /v1/notifications?unread=true.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	unreadOnly := c.QueryParam("unread") == "true"
	rows, err := h.Notifications.ListByUser(c.Request().Context(), userID, unreadOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load notifications failed"})
	}
	items := make([]notificationResp, 0, len(rows))
	for _, n := range rows {
		items = append(items, toNotificationResp(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MarkRead handles POST /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Notifications.MarkRead(c.Request().Context(), userID, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Notifications.MarkAllRead(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Stream handles GET /v1/notifications/stream, a server-sent events
// endpoint. The connection stays open until the client disconnects;
// each broadcast notification is written as one SSE data frame.
func (h *NotificationHandler) Stream(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ch, unsubscribe := h.Streams.Subscribe(userID)
	defer unsubscribe()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-ch:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(toNotificationResp(n))
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: notification\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
