package server

import (
	"log"
	"strings"
	"time"

	"github.com/globuddy/globuddy-server/internal/config"
	"github.com/globuddy/globuddy-server/internal/middleware"
	"github.com/globuddy/globuddy-server/pkg/storage"

	commentHttp "github.com/globuddy/globuddy-server/internal/modules/comment/delivery/http"
	commentRepo "github.com/globuddy/globuddy-server/internal/modules/comment/repository"
	commentService "github.com/globuddy/globuddy-server/internal/modules/comment/service"

	connectionHttp "github.com/globuddy/globuddy-server/internal/modules/connection/delivery/http"
	connectionRepo "github.com/globuddy/globuddy-server/internal/modules/connection/repository"
	connectionService "github.com/globuddy/globuddy-server/internal/modules/connection/service"

	feedHttp "github.com/globuddy/globuddy-server/internal/modules/feed/delivery/http"
	feedService "github.com/globuddy/globuddy-server/internal/modules/feed/service"

	groupHttp "github.com/globuddy/globuddy-server/internal/modules/group/delivery/http"
	groupRepo "github.com/globuddy/globuddy-server/internal/modules/group/repository"
	groupService "github.com/globuddy/globuddy-server/internal/modules/group/service"

	likeHttp "github.com/globuddy/globuddy-server/internal/modules/like/delivery/http"
	likeRepo "github.com/globuddy/globuddy-server/internal/modules/like/repository"
	likeService "github.com/globuddy/globuddy-server/internal/modules/like/service"

	messageHttp "github.com/globuddy/globuddy-server/internal/modules/message/delivery/http"
	messageRepo "github.com/globuddy/globuddy-server/internal/modules/message/repository"
	messageService "github.com/globuddy/globuddy-server/internal/modules/message/service"

	notiHttp "github.com/globuddy/globuddy-server/internal/modules/notification/delivery/http"
	notifRepo "github.com/globuddy/globuddy-server/internal/modules/notification/repository"
	notifService "github.com/globuddy/globuddy-server/internal/modules/notification/service"

	postHttp "github.com/globuddy/globuddy-server/internal/modules/post/delivery/http"
	postRepo "github.com/globuddy/globuddy-server/internal/modules/post/repository"
	postService "github.com/globuddy/globuddy-server/internal/modules/post/service"

	profileHttp "github.com/globuddy/globuddy-server/internal/modules/profile/delivery/http"
	profileService "github.com/globuddy/globuddy-server/internal/modules/profile/service"

	searchService "github.com/globuddy/globuddy-server/internal/modules/search/service"

	userHttp "github.com/globuddy/globuddy-server/internal/modules/user/delivery/http"
	userRepo "github.com/globuddy/globuddy-server/internal/modules/user/repository"
	userService "github.com/globuddy/globuddy-server/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	users := userRepo.NewUserRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		// Avatar and group image uploads return errors until configured.
		log.Printf("cloudinary storage not configured: %v", err)
		imageStorage = nil
	}

	var meiliClient meilisearch.ServiceManager
	if meiliHost := cfg.MeiliSearchHost; meiliHost != "" {
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient = meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	searchSvc := searchService.NewSearchService(meiliClient)

	authSvc := userService.NewAuthService(users, searchSvc)
	authHandler := userHttp.NewAuthHandler(authSvc)

	profileSvc := profileService.NewProfileService(users, searchSvc, imageStorage)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	connections := connectionRepo.NewConnectionRepository(db)
	connectionSvc := connectionService.NewConnectionService(connections, users)
	connectionHandler := connectionHttp.NewConnectionHandler(connectionSvc)

	notifications := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notifications, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	posts := postRepo.NewPostRepository(db)
	postSvc := postService.NewPostService(posts, redisClient)
	postHandler := postHttp.NewPostHandler(postSvc)

	comments := commentRepo.NewCommentRepository(db)
	commentSvc := commentService.NewCommentService(comments, posts, notificationSvc)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	likes := likeRepo.NewLikeRepository(db)
	likeSvc := likeService.NewLikeService(likes, posts, notificationSvc, redisClient)
	likeHandler := likeHttp.NewLikeHandler(likeSvc)

	feedSvc := feedService.NewFeedService(posts, users)
	feedHandler := feedHttp.NewFeedHandler(feedSvc)

	messages := messageRepo.NewMessageRepository(db)
	messageSvc := messageService.NewMessageService(messages, users, notificationSvc)
	messageHandler := messageHttp.NewMessageHandler(messageSvc)

	groups := groupRepo.NewGroupRepository(db)
	groupSvc := groupService.NewGroupService(groups, notificationSvc, imageStorage)
	groupHandler := groupHttp.NewGroupHandler(groupSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware()

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Profile routes
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.GET("/profile/:username", profileHandler.GetProfileByUsername)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.DELETE("/profile/languages/:language", profileHandler.DeleteLearningLanguage)
		protected.POST("/profile/avatar", profileHandler.UploadAvatar)
		protected.GET("/users/search", profileHandler.SearchUsers)
		protected.GET("/users/:username/follow-counts", profileHandler.GetFollowCounts)

		// Connection routes
		protected.POST("/connections", connectionHandler.Follow)
		protected.DELETE("/connections", connectionHandler.Unfollow)
		protected.GET("/connections/status", connectionHandler.Status)
		protected.GET("/connections/followers", connectionHandler.Followers)
		protected.GET("/connections/following", connectionHandler.Following)

		// Post routes
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts", postHandler.GetPosts)
		protected.GET("/posts/:id", postHandler.GetPost)
		protected.PUT("/posts/:id", postHandler.UpdatePost)
		protected.DELETE("/posts/:id", postHandler.DeletePost)

		// Comment routes
		protected.POST("/comments", commentHandler.CreateComment)
		protected.GET("/comments", commentHandler.GetComments)
		protected.DELETE("/comments/:id", commentHandler.DeleteComment)

		// Like routes
		protected.POST("/likes", likeHandler.ToggleLike)
		protected.GET("/likes", likeHandler.GetLikes)

		// Feed routes
		protected.GET("/feed", feedHandler.GetFeed)
		protected.GET("/partners", feedHandler.GetPartners)

		// Message routes
		protected.POST("/messages", messageHandler.SendMessage)
		protected.GET("/messages", messageHandler.GetConversation)
		protected.GET("/conversations", messageHandler.GetConversations)

		// Group routes
		protected.POST("/groups", groupHandler.CreateGroup)
		protected.GET("/groups", groupHandler.GetGroups)
		protected.GET("/groups/:id", groupHandler.GetGroup)
		protected.PUT("/groups/:id", groupHandler.UpdateGroup)
		protected.DELETE("/groups/:id", groupHandler.DeleteGroup)
		protected.POST("/groups/:id/members", groupHandler.JoinGroup)
		protected.DELETE("/groups/:id/members", groupHandler.LeaveGroup)
		protected.GET("/groups/:id/members", groupHandler.GetMembers)
		protected.POST("/groups/:id/messages", groupHandler.SendMessage)
		protected.GET("/groups/:id/messages", groupHandler.GetMessages)
		protected.POST("/groups/:id/avatar", groupHandler.UploadImage)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.PATCH("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PATCH("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.DELETE("/notifications/:id", notificationHandler.Delete)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
