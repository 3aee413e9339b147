package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/africandeluxe/RedditClone2-Backend/config"
	"github.com/africandeluxe/RedditClone2-Backend/controllers"
	"github.com/africandeluxe/RedditClone2-Backend/middleware"
	"github.com/africandeluxe/RedditClone2-Backend/stores"
	"github.com/africandeluxe/RedditClone2-Backend/utils"
)

// Deps carries the collaborators the handlers need. Everything is constructed
// in main and injected here.
type Deps struct {
	Users    stores.UserStore
	Posts    stores.PostStore
	Comments stores.CommentStore
	Cache    *utils.Cache
	Storage  *utils.ObjectStorage
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Deps) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if utils.Logger != nil {
		r.Use(utils.Ginzap(utils.Logger))
		r.Use(utils.RecoveryWithZap(utils.Logger))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Reddit Clone API")
	})
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(deps.Users)
	postController := controllers.NewPostController(deps.Posts, deps.Comments, deps.Users, deps.Cache)
	commentController := controllers.NewCommentController(deps.Comments, deps.Posts, deps.Users, deps.Cache)
	uploadController := controllers.NewUploadController(deps.Users, deps.Storage)

	authRequired := middleware.AuthRequired(deps.Users)
	rateLimited := middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", rateLimited, authController.Register)
	authGroup.POST("/login", rateLimited, authController.Login)
	authGroup.POST("/refresh", rateLimited, authController.Refresh)
	authGroup.GET("/me", authRequired, authController.Me)
	authGroup.PUT("/update-username", authRequired, authController.UpdateUsername)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", postController.ListPosts)
	postsGroup.GET("/my-posts", authRequired, postController.ListMyPosts)
	postsGroup.GET("/:id", postController.GetPost)
	postsGroup.POST("", authRequired, postController.CreatePost)
	postsGroup.PUT("/:id", authRequired, postController.UpdatePost)
	postsGroup.DELETE("/:id", authRequired, postController.DeletePost)
	postsGroup.POST("/:id/vote", authRequired, postController.VotePost)

	commentsGroup := api.Group("/comments")
	commentsGroup.POST("/:id", authRequired, commentController.CreateComment)
	commentsGroup.DELETE("/:id", authRequired, commentController.DeleteComment)
	commentsGroup.POST("/:id/vote", authRequired, commentController.VoteComment)

	api.POST("/upload/profile-picture", authRequired, uploadController.ProfilePicture)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
