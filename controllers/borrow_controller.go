package controllers

import (
	"net/http"

	"community_exchange/app"

	"github.com/gin-gonic/gin"
)

type BorrowController struct{ *Srv }

func NewBorrowController(s *Srv) *BorrowController { return &BorrowController{Srv: s} }

// GET /api/borrow-requests — 借用人看自己发出的，物主看收到的
func (bc *BorrowController) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	reqs, err := bc.Store.ListBorrowRequests(c.Request.Context(), p)
	if err != nil {
		bc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": reqs})
}

// GET /api/borrow-requests/:id
func (bc *BorrowController) Get(c *gin.Context) {
	req, err := bc.Store.FindBorrowRequestByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		bc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

type createBorrowRequest struct {
	Item string `json:"item" binding:"required"`
}

// POST /api/borrow-requests — 只能对 APPROVED 的别人物品发起，一人一件一条未结请求
func (bc *BorrowController) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in createBorrowRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	req, err := bc.Store.CreateBorrowRequest(c.Request.Context(), p, in.Item)
	if err != nil {
		bc.respondErr(c, err)
		return
	}
	bc.Log.WithField("request_id", req.ID).WithField("item_id", req.ItemID).
		WithField("borrower", p.ID).Info("borrow request created")
	c.JSON(http.StatusCreated, req)
}

// POST /api/borrow-requests/:id/approve — 物主批准，+15 分
func (bc *BorrowController) Approve(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	req, err := bc.Store.ApproveBorrowRequest(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		bc.respondErr(c, err)
		return
	}
	bc.Log.WithField("request_id", req.ID).WithField("owner", p.ID).Info("borrow request approved")
	c.JSON(http.StatusOK, req)
}

// POST /api/borrow-requests/:id/deny
func (bc *BorrowController) Deny(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	req, err := bc.Store.DenyBorrowRequest(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		bc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// POST /api/borrow-requests/:id/return_item — 借用人归还；不产生积分
func (bc *BorrowController) Return(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	req, err := bc.Store.ReturnBorrowedItem(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		bc.respondErr(c, err)
		return
	}
	bc.Log.WithField("request_id", req.ID).WithField("borrower", p.ID).Info("item returned")
	c.JSON(http.StatusOK, req)
}
