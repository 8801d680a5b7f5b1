package controllers

import (
	"net/http"

	"community_exchange/app"

	"github.com/gin-gonic/gin"
)

// ApprovalController is the staff curation surface.
type ApprovalController struct{ *Srv }

func NewApprovalController(s *Srv) *ApprovalController { return &ApprovalController{Srv: s} }

// GET /api/item-approval/pending
func (ac *ApprovalController) PendingItems(c *gin.Context) {
	items, err := ac.Store.ListPendingItems(c.Request.Context())
	if err != nil {
		ac.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

type approveItemRequest struct {
	ItemID  string `json:"item_id" binding:"required"`
	Stars   int    `json:"stars" binding:"required"`
	Comment string `json:"comment"`
}

// POST /api/item-approval/approve — PENDING → APPROVED，物主 +10 分
func (ac *ApprovalController) Approve(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in approveItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ac.Store.ApproveItem(c.Request.Context(), p, in.ItemID, in.Stars, in.Comment)
	if err != nil {
		ac.respondErr(c, err)
		return
	}
	ac.Log.WithField("item_id", it.ID).WithField("staff", p.ID).
		WithField("stars", in.Stars).Info("item approved")
	c.JSON(http.StatusOK, it)
}

type rejectItemRequest struct {
	ItemID  string `json:"item_id" binding:"required"`
	Comment string `json:"comment"`
}

// POST /api/item-approval/reject — PENDING → REJECTED，评语必填
func (ac *ApprovalController) Reject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in rejectItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ac.Store.RejectItem(c.Request.Context(), p, in.ItemID, in.Comment)
	if err != nil {
		ac.respondErr(c, err)
		return
	}
	ac.Log.WithField("item_id", it.ID).WithField("staff", p.ID).Info("item rejected")
	c.JSON(http.StatusOK, it)
}

// GET /api/inspection-reports
func (ac *ApprovalController) ListReports(c *gin.Context) {
	reports, err := ac.Store.ListInspectionReports(c.Request.Context())
	if err != nil {
		ac.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"reports": reports})
}
