package controllers

import (
	"net/http"

	"community_exchange/app"

	"github.com/gin-gonic/gin"
)

type PointsController struct{ *Srv }

func NewPointsController(s *Srv) *PointsController { return &PointsController{Srv: s} }

// GET /api/user-points/my_points — 余额永远是账本求和
func (pc *PointsController) MyPoints(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	total, err := pc.Store.PointsBalance(c.Request.Context(), p.ID)
	if err != nil {
		pc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total_points": total})
}

// GET /api/user-points/transactions — 新的在前
func (pc *PointsController) Transactions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	txs, err := pc.Store.PointsTransactionsFor(c.Request.Context(), p.ID)
	if err != nil {
		pc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"transactions": txs})
}
