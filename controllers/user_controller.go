package controllers

import (
	"net/http"

	"community_exchange/app"
	"community_exchange/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

type registerRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Role     string  `json:"role"`
	Location *string `json:"location"`
}

// POST /api/register
func (uc *UserController) Register(c *gin.Context) {
	var in registerRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !models.ValidRole(role) {
		c.JSON(http.StatusBadRequest, app.H{"error": "role must be CUSTOMER or STAFF"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.respondErr(c, err)
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Location:     in.Location,
	}
	if err := uc.Store.CreateUser(c.Request.Context(), u); err != nil {
		uc.respondErr(c, err)
		return
	}
	uc.Log.WithField("username", u.Username).WithField("role", u.Role).Info("user registered")
	c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/login
func (uc *UserController) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, err := uc.Store.FindUserByUsername(c.Request.Context(), in.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}

	sid := uuid.NewString()
	if err := uc.Sessions.Create(c.Request.Context(), sid, u.ID); err != nil {
		uc.respondErr(c, err)
		return
	}
	_ = uc.Store.TouchUserLogin(c.Request.Context(), u.ID)
	uc.setAppCookie(c.Writer, sid, uc.Cfg.SessionTTL)
	c.JSON(http.StatusOK, u)
}

// POST /api/logout
func (uc *UserController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = uc.Sessions.Delete(c.Request.Context(), ck.Value)
	}
	uc.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/user
func (uc *UserController) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	u, err := uc.Store.FindUserByID(c.Request.Context(), p.ID)
	if err != nil {
		uc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
