package controllers

import (
	"net/http"

	"community_exchange/app"

	"github.com/gin-gonic/gin"
)

type MessageController struct{ *Srv }

func NewMessageController(s *Srv) *MessageController { return &MessageController{Srv: s} }

type createMessageRequest struct {
	Recipient string  `json:"recipient" binding:"required"`
	Item      *string `json:"item"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
}

// POST /api/messages
func (mc *MessageController) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in createMessageRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	m, err := mc.Store.CreateMessage(c.Request.Context(), p, in.Recipient, in.Item, in.Subject, in.Body)
	if err != nil {
		mc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GET /api/messages/inbox
func (mc *MessageController) Inbox(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	ms, err := mc.Store.ListInbox(c.Request.Context(), p.ID)
	if err != nil {
		mc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"messages": ms})
}

// GET /api/messages/sent
func (mc *MessageController) Sent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	ms, err := mc.Store.ListSent(c.Request.Context(), p.ID)
	if err != nil {
		mc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"messages": ms})
}

// POST /api/messages/:id/mark_as_read — 仅收件人
func (mc *MessageController) MarkRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	m, err := mc.Store.MarkMessageRead(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		mc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
