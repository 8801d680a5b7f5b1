package controllers

import (
	"net/http"

	"community_exchange/app"
	"community_exchange/guard"
	"community_exchange/models"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

type createItemRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	OwnershipType string `json:"ownership_type"`
}

// POST /api/items — 新列表进入 PENDING，等待审核
func (ic *ItemController) CreateItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var in createItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ic.Store.CreateItem(c.Request.Context(), p, guard.NewItemInput{
		Name:          in.Name,
		Category:      in.Category,
		Description:   in.Description,
		OwnershipType: in.OwnershipType,
	})
	if err != nil {
		ic.respondErr(c, err)
		return
	}
	ic.Log.WithField("item_id", it.ID).WithField("owner", p.ID).Info("item listed")
	c.JSON(http.StatusCreated, it)
}

// GET /api/items — 默认已审核列表；?mine=1 返回自己的（任何状态）
func (ic *ItemController) ListItems(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var (
		items []models.Item
		err   error
	)
	if c.Query("mine") == "1" {
		items, err = ic.Store.ListItemsByOwner(c.Request.Context(), p.ID)
	} else {
		items, err = ic.Store.ListApprovedItems(c.Request.Context())
	}
	if err != nil {
		ic.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/items/:id
func (ic *ItemController) GetItem(c *gin.Context) {
	it, err := ic.Store.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ic.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// PUT /api/items/:id — 仅物主；不改变审核状态
func (ic *ItemController) UpdateItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var patch models.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it, err := ic.Store.UpdateItem(c.Request.Context(), p, c.Param("id"), patch)
	if err != nil {
		ic.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// DELETE /api/items/:id — 仅物主；未结借用请求一并强制关闭
func (ic *ItemController) DeleteItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := ic.Store.DeleteItem(c.Request.Context(), p, c.Param("id")); err != nil {
		ic.respondErr(c, err)
		return
	}
	ic.Log.WithField("item_id", c.Param("id")).WithField("owner", p.ID).Info("item deleted")
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/items/:id/complete-transfer — 物主标记交易完成，按
// SELL/EXCHANGE/SHARE 发一次性奖励
func (ic *ItemController) CompleteTransfer(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	it, err := ic.Store.CompleteTransfer(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		ic.respondErr(c, err)
		return
	}
	ic.Log.WithField("item_id", it.ID).WithField("ownership_type", it.OwnershipType).
		Info("transfer completed")
	c.JSON(http.StatusOK, it)
}
