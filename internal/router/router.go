package router

import (
	"time"

	"github.com/anonto42/nano-midea/social/internal/handlers"
	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/anonto42/nano-midea/social/pkg/firebase"
	"github.com/anonto42/nano-midea/social/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps carries everything SetupRoutes wires into the handlers
type Deps struct {
	DB *gorm.DB
	// Stories defaults to the SQL store when nil
	Stories        repositories.StoryRepository
	Firebase       firebase.TokenVerifier
	JWTSecret      string
	JWTTTL         time.Duration
	MetricsEnabled bool
}

// SetupMiddleware configures global Echo middleware, the error renderer and the validator
func SetupMiddleware(e *echo.Echo, metrics bool) {
	e.HTTPErrorHandler = handlers.ErrorHandler
	e.Validator = validators.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	if metrics {
		e.Use(middleware.Metrics())
	}
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))
	log.Info().Msg("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	// Health check - always accessible
	healthHandler := handlers.NewHealthHandler(deps.DB)
	e.GET("/health", healthHandler.HealthCheck)
	if deps.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGormUserRepository(deps.DB)
	friendshipRepo := repositories.NewGormFriendshipRepository(deps.DB)
	postRepo := repositories.NewGormPostRepository(deps.DB)
	commentRepo := repositories.NewGormCommentRepository(deps.DB)
	reactionRepo := repositories.NewGormReactionRepository(deps.DB)
	savedPostRepo := repositories.NewGormSavedPostRepository(deps.DB)
	groupRepo := repositories.NewGormGroupRepository(deps.DB)
	conversationRepo := repositories.NewGormConversationRepository(deps.DB)
	notificationRepo := repositories.NewGormNotificationRepository(deps.DB)
	storyViewRepo := repositories.NewGormStoryViewRepository(deps.DB)
	pageRepo := repositories.NewGormPageRepository(deps.DB)
	eventRepo := repositories.NewGormEventRepository(deps.DB)
	storyRepo := deps.Stories
	if storyRepo == nil {
		storyRepo = repositories.NewGormStoryRepository(deps.DB)
	}

	// --- Services ---
	visibility := services.NewVisibility(friendshipRepo, groupRepo)
	notifier := services.NewNotifier(notificationRepo)
	friendships := services.NewFriendshipService(friendshipRepo, userRepo, notifier)
	posts := services.NewPostService(postRepo, reactionRepo, friendshipRepo, visibility)
	groups := services.NewGroupService(groupRepo, postRepo, friendshipRepo)

	// Every /api/v1 route resolves a viewer; anonymous requests pass through
	api := e.Group("/api/v1")
	api.Use(middleware.Authenticate(middleware.AuthConfig{
		Secret:   deps.JWTSecret,
		Firebase: deps.Firebase,
		Users:    userRepo,
	}))

	authHandler := handlers.NewAuthHandler(userRepo, deps.Firebase, deps.JWTSecret, deps.JWTTTL)
	authHandler.RegisterAuthRoutes(api)
	log.Info().Msg("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo, postRepo, friendships, posts)
	userHandler.RegisterProfileRoutes(api)
	log.Info().Msg("User profile routes configured.")

	feedHandler := handlers.NewFeedHandler(posts)
	feedHandler.RegisterFeedRoutes(api)
	postHandler := handlers.NewPostHandler(posts)
	postHandler.RegisterPostRoutes(api)
	savedPostHandler := handlers.NewSavedPostHandler(savedPostRepo, posts)
	savedPostHandler.RegisterSavedPostRoutes(api)
	log.Info().Msg("Post routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, posts)
	commentHandler.RegisterCommentRoutes(api)
	reactionHandler := handlers.NewReactionHandler(reactionRepo, commentRepo, posts)
	reactionHandler.RegisterReactionRoutes(api)
	log.Info().Msg("Comment and reaction routes configured.")

	friendshipHandler := handlers.NewFriendshipHandler(friendships)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Info().Msg("Friendship routes configured.")

	groupHandler := handlers.NewGroupHandler(groups, posts)
	groupHandler.RegisterGroupRoutes(api)
	log.Info().Msg("Group routes configured.")

	messageHandler := handlers.NewMessageHandler(conversationRepo, userRepo)
	messageHandler.RegisterMessageRoutes(api)
	log.Info().Msg("Message routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Info().Msg("Notification routes configured.")

	storyHandler := handlers.NewStoryHandler(storyRepo, storyViewRepo, userRepo, friendships, visibility)
	storyHandler.RegisterStoryRoutes(api)
	log.Info().Msg("Story routes configured.")

	pageHandler := handlers.NewPageHandler(pageRepo, postRepo)
	pageHandler.RegisterPageRoutes(api)
	eventHandler := handlers.NewEventHandler(eventRepo)
	eventHandler.RegisterEventRoutes(api)
	log.Info().Msg("Page and event routes configured.")

	searchHandler := handlers.NewSearchHandler(userRepo, groupRepo, pageRepo, posts)
	searchHandler.RegisterSearchRoutes(api)

	log.Info().Msg("All routes configured.")
}
