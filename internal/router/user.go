package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// Public routes (no authentication required)
		users.POST("/register", r.authHandler.Register)
		users.POST("/login", r.authHandler.Login)
		users.POST("/refresh-token", r.authHandler.RefreshToken)

		// Protected routes (JWT authentication required)
		protected := users.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.POST("/change-password", r.userHandler.ChangePassword)
			protected.GET("/current-user", r.userHandler.GetCurrentUser)
			protected.PATCH("/update-account", r.userHandler.UpdateAccount)
			protected.PATCH("/avatar", r.userHandler.UpdateAvatar)
			protected.PATCH("/cover-image", r.userHandler.UpdateCoverImage)
			protected.GET("/channel/:username", r.channelHandler.GetChannelProfile)
			protected.GET("/history", r.userHandler.GetWatchHistory)
		}
	}
}
