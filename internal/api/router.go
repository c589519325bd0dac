package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hostel-allocation-backend/config"
	"hostel-allocation-backend/internal/auth"
	"hostel-allocation-backend/internal/mw"
	"hostel-allocation-backend/internal/notification"
	"hostel-allocation-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, webpushOptions *webpush.Options, pool *notification.WorkerPool) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	otp := auth.NewOTPStore(cfg.Auth.OTPTTL)
	handler := NewHandler(s, &cfg.Auth, webpushOptions, pool, otp)

	limit := rate.Limit(10)
	if cfg.Server.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.Server.RateLimitPerSec)
	}
	burst := int(limit)
	if burst < 5 {
		burst = 5
	}
	rateLimiter := mw.RateLimiter(limit, burst)

	cacheTTL := 5 * time.Minute
	if cfg.Server.CacheTTLSeconds > 0 {
		cacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Staff accounts and login
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/otp/request", handler.RequestOTP)
		api.POST("/auth/otp/verify", handler.VerifyOTP)

		// Push subscriptions for bed-availability alerts
		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		authEnabled := cfg.Auth.JWTSecret != "" && !cfg.Auth.DisableAuthRoutes

		protected := api.Group("")
		if authEnabled {
			protected.Use(mw.RequireAuth(cfg.Auth.JWTSecret))
		}

		// Structure removal and the money ledgers are owner-only.
		owner := protected.Group("")
		if authEnabled {
			owner.Use(mw.RequireRole("owner"))
		}

		// Hostel structure; capacity writes trigger provisioning.
		protected.GET("/buildings", caching, GetBuildings(db))
		protected.POST("/buildings", handler.CreateBuilding)
		protected.GET("/buildings/:building_id", handler.GetBuilding)
		protected.PUT("/buildings/:building_id", handler.UpdateBuilding)
		owner.DELETE("/buildings/:building_id", handler.DeleteBuilding)
		protected.GET("/buildings/:building_id/floors", handler.ListFloors)
		protected.PUT("/floors/:floor_id", handler.UpdateFloor)
		protected.GET("/floors/:floor_id/rooms", handler.ListRooms)
		protected.PUT("/rooms/:room_id", handler.UpdateRoom)
		protected.POST("/rooms/:room_id/beds", handler.CreateBed)
		protected.DELETE("/beds/:bed_id", handler.DeleteBed)

		// Students
		protected.GET("/students", handler.ListStudents)
		protected.POST("/students", handler.CreateStudent)
		protected.GET("/students/:student_id", handler.GetStudent)
		protected.DELETE("/students/:student_id", handler.DeleteStudent)

		// Allocation core
		protected.POST("/allocations", handler.AllocateBed)
		protected.DELETE("/allocations/:allocation_id", handler.DeallocateBed)
		protected.GET("/allocations", handler.ListAllocations)
		protected.GET("/allocations/:allocation_id", handler.GetAllocation)
		protected.GET("/rooms/:room_id/status", handler.GetRoomStatus)
		protected.GET("/beds/available", handler.ListAvailableBeds)

		// Fee ledger, expenses, mess, issues: plain CRUD consumers.
		protected.POST("/fees", handler.CreateFee)
		protected.GET("/fees", handler.ListFees)
		protected.PUT("/fees/:fee_id", handler.UpdateFee)
		protected.DELETE("/fees/:fee_id", handler.DeleteFee)

		owner.POST("/expenses", handler.CreateExpense)
		owner.GET("/expenses", handler.ListExpenses)
		owner.PUT("/expenses/:expense_id", handler.UpdateExpense)
		owner.DELETE("/expenses/:expense_id", handler.DeleteExpense)

		protected.GET("/mess/:building_id", handler.GetMess)
		protected.PUT("/mess/:building_id", handler.PutMess)

		protected.POST("/issues", handler.CreateIssue)
		protected.GET("/issues", handler.ListIssues)
		protected.PUT("/issues/:issue_id", handler.UpdateIssue)

		// Read-only report projections.
		protected.GET("/reports/buildings/:building_id/hierarchy", caching, handler.BuildingHierarchyReport)
		protected.GET("/reports/buildings/:building_id/occupied-beds", handler.OccupiedBedsReport)
		protected.GET("/reports/buildings/:building_id/students", handler.BuildingStudentsReport)
	}

	return r
}
