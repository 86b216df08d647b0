package notification

import (
	"net/http"

	"github.com/frahmantamala/expense-tracker/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Toaster *Toaster
}

func NewHandler(baseHandler *transport.BaseHandler, toaster *Toaster) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Toaster:     toaster,
	}
}

type NotificationsResponse struct {
	Notifications []Toast `json:"notifications"`
}

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, NotificationsResponse{Notifications: h.Toaster.Active()})
}
