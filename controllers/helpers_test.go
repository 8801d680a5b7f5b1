package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"community_exchange/app"
	"community_exchange/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct{ sessions map[string]string }

func (f *fakeSessions) Create(_ context.Context, id, userID string) error {
	if f.sessions == nil {
		f.sessions = map[string]string{}
	}
	f.sessions[id] = userID
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type testEnv struct {
	router *gin.Engine
	store  *fakeStore
}

// testAuth resolves the principal from the X-User-ID header, standing in for
// the redis session middleware.
func testAuth(store *fakeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetHeader("X-User-ID")
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		u, err := store.FindUserByID(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		app.SetPrincipal(c, u.Principal())
		c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := &Srv{
		Store:    store,
		Sessions: &fakeSessions{},
		Log:      log,
		Cfg:      app.Config{WebOrigin: "http://localhost", SessionTTL: time.Hour},
	}

	uc := NewUserController(s)
	itemCtl := NewItemController(s)
	approvalCtl := NewApprovalController(s)
	borrowCtl := NewBorrowController(s)
	pointsCtl := NewPointsController(s)
	msgCtl := NewMessageController(s)
	ratingCtl := NewRatingController(s)

	r := gin.New()
	authMW := testAuth(store)
	staffMW := app.StaffOnly()

	r.POST("/api/register", uc.Register)
	r.POST("/api/login", uc.Login)
	r.POST("/api/logout", authMW, uc.Logout)
	r.GET("/api/user", authMW, uc.Me)

	items := r.Group("/api/items", authMW)
	items.GET("", itemCtl.ListItems)
	items.POST("", itemCtl.CreateItem)
	items.GET("/:id", itemCtl.GetItem)
	items.PUT("/:id", itemCtl.UpdateItem)
	items.DELETE("/:id", itemCtl.DeleteItem)
	items.POST("/:id/complete-transfer", itemCtl.CompleteTransfer)

	borrow := r.Group("/api/borrow-requests", authMW)
	borrow.GET("", borrowCtl.List)
	borrow.POST("", borrowCtl.Create)
	borrow.GET("/:id", borrowCtl.Get)
	borrow.POST("/:id/approve", borrowCtl.Approve)
	borrow.POST("/:id/deny", borrowCtl.Deny)
	borrow.POST("/:id/return_item", borrowCtl.Return)

	approval := r.Group("/api/item-approval", authMW, staffMW)
	approval.GET("/pending", approvalCtl.PendingItems)
	approval.POST("/approve", approvalCtl.Approve)
	approval.POST("/reject", approvalCtl.Reject)
	r.GET("/api/inspection-reports", authMW, staffMW, approvalCtl.ListReports)

	points := r.Group("/api/user-points", authMW)
	points.GET("/my_points", pointsCtl.MyPoints)
	points.GET("/transactions", pointsCtl.Transactions)

	messages := r.Group("/api/messages", authMW)
	messages.POST("", msgCtl.Create)
	messages.GET("/inbox", msgCtl.Inbox)
	messages.GET("/sent", msgCtl.Sent)
	messages.POST("/:id/mark_as_read", msgCtl.MarkRead)

	ratings := r.Group("/api/ratings", authMW)
	ratings.GET("", ratingCtl.List)
	ratings.POST("", ratingCtl.Create)
	ratings.PUT("/:id", ratingCtl.Update)
	ratings.DELETE("/:id", ratingCtl.Delete)

	return &testEnv{router: r, store: store}
}

func (e *testEnv) addUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

// do issues a request as the given user (empty id means anonymous) and
// returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into))
}

// listItem creates a PENDING listing owned by the given customer.
func (e *testEnv) listItem(t *testing.T, owner *models.User, name, ownershipType string) *models.Item {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/items", gin.H{
		"name":           name,
		"category":       "tools",
		"description":    "a " + name,
		"ownership_type": ownershipType,
	}, owner.ID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var it models.Item
	decodeJSON(t, w, &it)
	return &it
}

// approveItem moves a listing to APPROVED via the staff endpoint.
func (e *testEnv) approveItem(t *testing.T, staff *models.User, itemID string, stars int) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/item-approval/approve", gin.H{
		"item_id": itemID,
		"stars":   stars,
		"comment": "looks fine",
	}, staff.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (e *testEnv) balance(t *testing.T, userID string) int {
	t.Helper()
	w := e.do(t, http.MethodGet, "/api/user-points/my_points", nil, userID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		TotalPoints int `json:"total_points"`
	}
	decodeJSON(t, w, &out)
	return out.TotalPoints
}
