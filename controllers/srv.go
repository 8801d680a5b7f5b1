package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"community_exchange/app"
	"community_exchange/apperr"
	"community_exchange/db"
	"community_exchange/guard"
	"community_exchange/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Store is everything the HTTP layer needs from persistence. *db.Repo is the
// production implementation; tests substitute an in-memory one.
type Store interface {
	// users
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	TouchUserLogin(ctx context.Context, userID string) error

	// items
	CreateItem(ctx context.Context, p models.Principal, in guard.NewItemInput) (*models.Item, error)
	FindItemByID(ctx context.Context, id string) (*models.Item, error)
	ListApprovedItems(ctx context.Context) ([]models.Item, error)
	ListPendingItems(ctx context.Context) ([]models.Item, error)
	ListItemsByOwner(ctx context.Context, ownerID string) ([]models.Item, error)
	UpdateItem(ctx context.Context, p models.Principal, itemID string, patch models.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, p models.Principal, itemID string) error
	ApproveItem(ctx context.Context, p models.Principal, itemID string, stars int, comment string) (*models.Item, error)
	RejectItem(ctx context.Context, p models.Principal, itemID string, comment string) (*models.Item, error)
	CompleteTransfer(ctx context.Context, p models.Principal, itemID string) (*models.Item, error)

	// borrow requests
	CreateBorrowRequest(ctx context.Context, p models.Principal, itemID string) (*models.BorrowRequest, error)
	FindBorrowRequestByID(ctx context.Context, id string) (*models.BorrowRequest, error)
	ListBorrowRequests(ctx context.Context, p models.Principal) ([]models.BorrowRequest, error)
	ApproveBorrowRequest(ctx context.Context, p models.Principal, requestID string) (*models.BorrowRequest, error)
	DenyBorrowRequest(ctx context.Context, p models.Principal, requestID string) (*models.BorrowRequest, error)
	ReturnBorrowedItem(ctx context.Context, p models.Principal, requestID string) (*models.BorrowRequest, error)

	// points
	PointsBalance(ctx context.Context, userID string) (int, error)
	PointsTransactionsFor(ctx context.Context, userID string) ([]models.PointsTransaction, error)

	// messages
	CreateMessage(ctx context.Context, p models.Principal, recipientID string, itemID *string, subject, body string) (*models.Message, error)
	ListInbox(ctx context.Context, userID string) ([]models.Message, error)
	ListSent(ctx context.Context, userID string) ([]models.Message, error)
	MarkMessageRead(ctx context.Context, p models.Principal, id string) (*models.Message, error)

	// ratings
	CreateRating(ctx context.Context, p models.Principal, itemID string, stars int, comment string) (*models.Rating, error)
	ListRatings(ctx context.Context, itemID string) ([]models.Rating, error)
	UpdateRating(ctx context.Context, p models.Principal, id string, stars int, comment string) (*models.Rating, error)
	DeleteRating(ctx context.Context, p models.Principal, id string) error

	// inspections
	ListInspectionReports(ctx context.Context) ([]models.InspectionReport, error)
}

var _ Store = (*db.Repo)(nil)

// Sessions is the slice of the session store the login flow needs.
type Sessions interface {
	Create(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

type Srv struct {
	Store    Store
	Sessions Sessions
	Log      *logrus.Logger
	Cfg      app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Store:    db.NewRepo(a.DB),
		Sessions: a.AppSessions(),
		Log:      a.Log,
		Cfg:      a.Config,
	}
}

// principal aborts with 401 when no session middleware ran.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := app.CurrentPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
	}
	return p, ok
}

// respondErr maps taxonomy errors to their status; anything unclassified is
// logged and hidden behind a 500.
func (s *Srv) respondErr(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		if s.Log != nil {
			s.Log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		c.JSON(status, app.H{"error": "internal error"})
		return
	}
	c.JSON(status, app.H{"error": err.Error()})
}

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// clearAppCookie 删除会话 Cookie
func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	secure := strings.HasPrefix(s.Cfg.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
