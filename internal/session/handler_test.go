package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elkisser/the-cookie-box/internal/cart"
	"github.com/elkisser/the-cookie-box/internal/session"
)

func setupRouter(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := session.NewManager(func(string) cart.Slot {
		return cart.NewMemorySlot()
	}, time.Hour, nil)
	t.Cleanup(m.CloseAll)

	router := gin.New()
	session.RegisterRoutes(router.Group("/api/v1"), session.NewHandler(m))
	return router, m
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) session.CartResponse {
	t.Helper()

	var envelope struct {
		Success bool                 `json:"success"`
		Data    session.CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func sessionCookie(w *httptest.ResponseRecorder) []*http.Cookie {
	return w.Result().Cookies()
}

func TestCartHandler_AddItem(t *testing.T) {
	router, _ := setupRouter(t)

	t.Run("adds_and_returns_cart", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
			`{"id":"p1","name":"Choco Chip","price":"5","imageUrl":"http://img/p1.jpg"}`, nil)

		require.Equal(t, http.StatusCreated, w.Code)
		data := decodeCart(t, w)
		require.Len(t, data.Items, 1)
		assert.Equal(t, 1, data.Items[0].Quantity)
		assert.Equal(t, 1, data.TotalItems)
	})

	t.Run("rejects_missing_fields", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"price":"5"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartHandler_SessionStickiness(t *testing.T) {
	router, _ := setupRouter(t)

	first := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"id":"p1","name":"Choco Chip","price":"5"}`, nil)
	require.Equal(t, http.StatusCreated, first.Code)

	cookies := sessionCookie(first)
	require.NotEmpty(t, cookies)

	// same cookie sees the same cart
	second := doJSON(t, router, http.MethodGet, "/api/v1/cart", "", cookies)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Len(t, decodeCart(t, second).Items, 1)

	// no cookie is a fresh cart
	third := doJSON(t, router, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, third.Code)
	assert.Empty(t, decodeCart(t, third).Items)
}

func TestCartHandler_ForgedCookies(t *testing.T) {
	ctx := context.Background()
	router, m := setupRouter(t)

	t.Run("user_keyed_session_is_unreachable_by_cookie", func(t *testing.T) {
		userID := uuid.NewString()
		owned := m.GetOrCreate(ctx, "user:"+userID)
		owned.Cart.AddItem(ctx, cart.Product{ID: "p1", Name: "Choco Chip", Price: decimal.NewFromInt(5)})

		w := doJSON(t, router, http.MethodGet, "/api/v1/cart", "",
			[]*http.Cookie{{Name: "cart_session", Value: "user:" + userID}})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeCart(t, w).Items)

		cookies := sessionCookie(w)
		require.NotEmpty(t, cookies)
		assert.NotEqual(t, "user:"+userID, cookies[0].Value)
	})

	t.Run("non_uuid_cookie_gets_fresh_session", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/cart", "",
			[]*http.Cookie{{Name: "cart_session", Value: "not-a-uuid"}})

		require.Equal(t, http.StatusOK, w.Code)
		cookies := sessionCookie(w)
		require.NotEmpty(t, cookies)
		_, err := uuid.Parse(cookies[0].Value)
		assert.NoError(t, err)
	})
}

func TestCartHandler_UpdateAndRemove(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"id":"p1","name":"Choco Chip","price":"5"}`, nil)
	cookies := sessionCookie(w)

	w = doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/p1", `{"quantity":3}`, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeCart(t, w)
	require.Len(t, data.Items, 1)
	assert.Equal(t, 3, data.Items[0].Quantity)
	assert.Equal(t, "15", data.TotalPrice.String())

	// quantity zero removes the item
	w = doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/p1", `{"quantity":0}`, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Items)
}

func TestCartHandler_Clear(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"id":"p1","name":"Choco Chip","price":"5"}`, nil)
	cookies := sessionCookie(w)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/cart", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Items)
}

func TestNotificationHandler(t *testing.T) {
	router, _ := setupRouter(t)

	// a cart mutation leaves a toast behind
	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"id":"p1","name":"Choco Chip","price":"5"}`, nil)
	cookies := sessionCookie(w)

	w = doJSON(t, router, http.MethodGet, "/api/v1/notifications", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []session.NotificationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Contains(t, envelope.Data[0].Message, "Choco Chip")
	assert.Equal(t, int64(2000), envelope.Data[0].DurationMs)

	// dismiss it, idempotently
	id := envelope.Data[0].ID
	w = doJSON(t, router, http.MethodDelete, "/api/v1/notifications/"+id, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/api/v1/notifications/"+id, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/notifications", "", cookies)
	var after struct {
		Data []session.NotificationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Empty(t, after.Data)
}
