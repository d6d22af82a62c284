package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/appointment-hub/internal/docstore"
)

type feedStore interface {
	SubscribeAppointments(ctx context.Context, filter docstore.AppointmentFilter, order docstore.AppointmentOrder, fn func([]docstore.Appointment)) (*docstore.Subscription, error)
	SubscribeServices(ctx context.Context, order docstore.ServiceOrder, fn func([]docstore.Service)) (*docstore.Subscription, error)
}

// FeedHandler upgrades requests to websockets and pushes a fresh collection
// snapshot to each connection whenever the underlying data changes.
type FeedHandler struct {
	store    feedStore
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewFeedHandler(store feedStore, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients carry the session cookie; origin policy is
			// enforced by the CORS layer in front of the router.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: defaultLogger(logger),
	}
}

// Appointments streams appointment snapshots. Administrators receive the
// whole collection; everyone else is pinned to their own appointments, which
// is also what ?scope=mine selects explicitly.
func (h *FeedHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	filter := docstore.AppointmentFilter{}
	if !principal.IsAdmin || r.URL.Query().Get("scope") == "mine" {
		filter.UserID = principal.UserID
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	writer := newFeedConn(conn)
	sub, err := h.store.SubscribeAppointments(context.Background(), filter, docstore.AppointmentOrderDateDesc, func(appointments []docstore.Appointment) {
		payload := make([]appointmentDTO, 0, len(appointments))
		for _, appointment := range appointments {
			payload = append(payload, toAppointmentDTO(appointment))
		}
		writer.send(feedMessage{Collection: docstore.CollectionAppointments, Appointments: payload})
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "appointment feed subscription failed", "error", err)
		writer.close()
		return
	}

	h.logger.InfoContext(r.Context(), "appointment feed opened", "user_id", principal.UserID)
	h.drain(conn, sub, writer)
}

// Services streams catalog snapshots ordered by title.
func (h *FeedHandler) Services(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	writer := newFeedConn(conn)
	sub, err := h.store.SubscribeServices(context.Background(), docstore.ServiceOrderTitle, func(services []docstore.Service) {
		payload := make([]serviceDTO, 0, len(services))
		for _, service := range services {
			payload = append(payload, toServiceDTO(service))
		}
		writer.send(feedMessage{Collection: docstore.CollectionServices, Services: payload})
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "service feed subscription failed", "error", err)
		writer.close()
		return
	}

	h.drain(conn, sub, writer)
}

// drain blocks reading the connection until the client goes away, then
// releases the subscription. Clients are not expected to send anything.
func (h *FeedHandler) drain(conn *websocket.Conn, sub *docstore.Subscription, writer *feedConn) {
	defer func() {
		sub.Unsubscribe()
		writer.close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

type feedMessage struct {
	Collection   string           `json:"collection"`
	Appointments []appointmentDTO `json:"appointments,omitempty"`
	Services     []serviceDTO     `json:"services,omitempty"`
}

// feedConn serializes writes; snapshot deliveries and control frames arrive
// from different goroutines.
type feedConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func newFeedConn(conn *websocket.Conn) *feedConn {
	return &feedConn{conn: conn}
}

func (c *feedConn) send(message feedMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteJSON(message); err != nil {
		c.closed = true
		c.conn.Close()
	}
}

func (c *feedConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.conn.Close()
}
