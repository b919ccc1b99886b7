package router

import (
	"Go_Stow/config"
	"Go_Stow/internal/handler"
	"Go_Stow/internal/logging"
	"Go_Stow/internal/middleware"
	"Go_Stow/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(), utils.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.MaxMultipartMemory = cfg.Storage.MaxImageBytes + 1<<20

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"Hello": "World"})
	})

	limiter := middleware.NewIPLimiter(cfg.AuthRate, cfg.AuthBurst)
	auth := middleware.Auth()
	self := middleware.RequireSelf("user_no")

	users := r.Group("/users")
	{
		public := users.Group("", middleware.RateLimit(limiter))
		public.POST("/signup", handler.Signup)
		public.POST("/verify-code", handler.VerifyCode)
		public.POST("/resend-code", handler.ResendCode)
		public.POST("/login", handler.Login)
		public.POST("/refresh", handler.Refresh)
		public.GET("/auth/:provider", handler.BeginSocialAuth)
		public.GET("/auth/:provider/callback", handler.SocialAuthCallback)

		users.PUT("/change-password", auth, handler.ChangePassword)
		users.GET("/me", auth, handler.Me)
		users.GET("/:user_no/info", auth, self, handler.UserInfo)
		users.POST("/profile-create/:user_no", auth, self, handler.CreateProfile)
		users.PUT("/profile-update/:user_no", auth, self, handler.UpdateProfile)
		users.GET("/profile/:user_no", auth, self, handler.GetProfile)
		users.POST("/profile-image/:user_no", auth, self, handler.UploadProfileImage)
	}

	storages := r.Group("/storages", auth)
	{
		spaces := storages.Group("/:user_no/spaces", self)
		spaces.POST("", handler.CreateArea)
		spaces.GET("", handler.ListAreas)
		spaces.GET("/:area_no", handler.GetArea)
		spaces.PUT("/:area_no", handler.UpdateArea)
		spaces.DELETE("/:area_no", handler.DeleteArea)

		items := storages.Group("/storage")
		items.POST("", handler.CreateStorage)
		items.GET("/:id", handler.GetStorage)
		items.PUT("/:id", handler.UpdateStorage)
		items.DELETE("/:id", handler.DeleteStorage)
		items.GET("/:id/storages", handler.ListStoragesByArea)
	}
	return r
}
