package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/elkisser/the-cookie-box/internal/cart"
	"github.com/elkisser/the-cookie-box/internal/pkg/response"
)

const sessionCookie = "cart_session"

type Handler struct {
	manager *Manager
}

func NewHandler(m *Manager) *Handler {
	return &Handler{manager: m}
}

// session resolves the visitor's session. Signed-in users get a stable
// session keyed by their user id so the cart follows them across
// devices; guests are keyed by cookie, minted on first contact. Guest
// cookie values must be UUIDs: anything else is discarded, which keeps
// forged cookies out of the user-keyed namespace.
func (h *Handler) session(c *gin.Context) *Session {
	if userID := c.GetString("user_id"); userID != "" {
		return h.manager.GetOrCreate(c.Request.Context(), "user:"+userID)
	}

	id, _ := c.Cookie(sessionCookie)
	if _, err := uuid.Parse(id); err != nil {
		id = ""
	}
	s := h.manager.GetOrCreate(c.Request.Context(), id)
	if s.ID != id {
		c.SetCookie(sessionCookie, s.ID, 24*60*60, "/", "", false, true)
	}
	return s
}

func (h *Handler) GetCart(c *gin.Context) {
	s := h.session(c)
	response.Success(c, http.StatusOK, newCartResponse(s))
}

func (h *Handler) AddItem(c *gin.Context) {
	s := h.session(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid cart item payload", err.Error())
		return
	}

	s.Cart.AddItem(c.Request.Context(), cart.Product{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	})

	response.Success(c, http.StatusCreated, newCartResponse(s))
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	s := h.session(c)

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid quantity payload", err.Error())
		return
	}

	s.Cart.SetQuantity(c.Request.Context(), c.Param("productId"), req.Quantity)
	response.Success(c, http.StatusOK, newCartResponse(s))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	s := h.session(c)
	s.Cart.RemoveItem(c.Request.Context(), c.Param("productId"))
	response.Success(c, http.StatusOK, newCartResponse(s))
}

func (h *Handler) ClearCart(c *gin.Context) {
	s := h.session(c)
	s.Cart.Clear(c.Request.Context())
	response.Success(c, http.StatusOK, newCartResponse(s))
}

func (h *Handler) ListNotifications(c *gin.Context) {
	s := h.session(c)

	visible := s.Toasts.Visible()
	out := make([]NotificationResponse, 0, len(visible))
	for _, n := range visible {
		out = append(out, NotificationResponse{
			ID:         n.ID,
			Message:    n.Message,
			Kind:       n.Kind,
			DurationMs: n.Duration.Milliseconds(),
		})
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) DismissNotification(c *gin.Context) {
	s := h.session(c)
	s.Toasts.Dismiss(c.Param("id"))
	response.Success(c, http.StatusOK, nil)
}
