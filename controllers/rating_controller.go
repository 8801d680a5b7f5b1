package controllers

import (
	"net/http"

	"community_exchange/app"

	"github.com/gin-gonic/gin"
)

type RatingController struct{ *Srv }

func NewRatingController(s *Srv) *RatingController { return &RatingController{Srv: s} }

type ratingRequest struct {
	ItemID  string `json:"item_id" binding:"required"`
	Stars   int    `json:"stars" binding:"required"`
	Comment string `json:"comment"`
}

// POST /api/ratings — 每人每件一条
func (rc *RatingController) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in ratingRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	rating, err := rc.Store.CreateRating(c.Request.Context(), p, in.ItemID, in.Stars, in.Comment)
	if err != nil {
		rc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

// GET /api/ratings?item_id=
func (rc *RatingController) List(c *gin.Context) {
	rs, err := rc.Store.ListRatings(c.Request.Context(), c.Query("item_id"))
	if err != nil {
		rc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ratings": rs})
}

type updateRatingRequest struct {
	Stars   int    `json:"stars" binding:"required"`
	Comment string `json:"comment"`
}

// PUT /api/ratings/:id — 仅作者
func (rc *RatingController) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in updateRatingRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	rating, err := rc.Store.UpdateRating(c.Request.Context(), p, c.Param("id"), in.Stars, in.Comment)
	if err != nil {
		rc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// DELETE /api/ratings/:id — 仅作者
func (rc *RatingController) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := rc.Store.DeleteRating(c.Request.Context(), p, c.Param("id")); err != nil {
		rc.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
