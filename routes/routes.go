package routes

import (
	"time"

	"community_exchange/app"
	"community_exchange/controllers"
	"community_exchange/db"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	repo := db.NewRepo(a.DB)
	uc := controllers.NewUserController(s)
	itemCtl := controllers.NewItemController(s)
	approvalCtl := controllers.NewApprovalController(s)
	borrowCtl := controllers.NewBorrowController(s)
	pointsCtl := controllers.NewPointsController(s)
	msgCtl := controllers.NewMessageController(s)
	ratingCtl := controllers.NewRatingController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.AppSessions(), repo)
	staffMW := app.StaffOnly()
	seenMW := app.TouchLastSeen(repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 注册 / 登录（公开）
	// ------------------------------
	r.POST("/api/register", uc.Register)
	r.POST("/api/login", uc.Login)

	auth := r.Group("/api", authMW, seenMW)
	{
		auth.POST("/logout", uc.Logout)
		auth.GET("/user", uc.Me)
	}

	// ------------------------------
	// 物品列表与借用
	// ------------------------------
	items := r.Group("/api/items", authMW, seenMW)
	{
		items.GET("", itemCtl.ListItems) // ?mine=1 查自己的
		items.POST("", itemCtl.CreateItem)
		items.GET("/:id", itemCtl.GetItem)
		items.PUT("/:id", itemCtl.UpdateItem)
		items.DELETE("/:id", itemCtl.DeleteItem)
		items.POST("/:id/complete-transfer", itemCtl.CompleteTransfer)
	}

	borrow := r.Group("/api/borrow-requests", authMW, seenMW)
	{
		borrow.GET("", borrowCtl.List)
		borrow.POST("", borrowCtl.Create)
		borrow.GET("/:id", borrowCtl.Get)
		borrow.POST("/:id/approve", borrowCtl.Approve)
		borrow.POST("/:id/deny", borrowCtl.Deny)
		borrow.POST("/:id/return_item", borrowCtl.Return)
	}

	// ------------------------------
	// 审核（仅 STAFF）
	// ------------------------------
	approval := r.Group("/api/item-approval", authMW, staffMW)
	{
		approval.GET("/pending", approvalCtl.PendingItems)
		approval.POST("/approve", approvalCtl.Approve)
		approval.POST("/reject", approvalCtl.Reject)
	}
	r.GET("/api/inspection-reports", authMW, staffMW, approvalCtl.ListReports)

	// ------------------------------
	// 积分
	// ------------------------------
	points := r.Group("/api/user-points", authMW, seenMW)
	{
		points.GET("/my_points", pointsCtl.MyPoints)
		points.GET("/transactions", pointsCtl.Transactions)
	}

	// ------------------------------
	// 站内信与评分
	// ------------------------------
	messages := r.Group("/api/messages", authMW, seenMW)
	{
		messages.POST("", msgCtl.Create)
		messages.GET("/inbox", msgCtl.Inbox)
		messages.GET("/sent", msgCtl.Sent)
		messages.POST("/:id/mark_as_read", msgCtl.MarkRead)
	}

	ratings := r.Group("/api/ratings", authMW, seenMW)
	{
		ratings.GET("", ratingCtl.List)
		ratings.POST("", ratingCtl.Create)
		ratings.PUT("/:id", ratingCtl.Update)
		ratings.DELETE("/:id", ratingCtl.Delete)
	}
}
