// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/javajoker/campaign-wizard/internal/config"
	"github.com/javajoker/campaign-wizard/internal/handlers"
	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/middleware"
	"github.com/javajoker/campaign-wizard/internal/repository"
	"github.com/javajoker/campaign-wizard/internal/services"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

// Handlers groups the HTTP handlers the routes dispatch to.
type Handlers struct {
	Campaign *handlers.CampaignHandler
	Wizard   *handlers.WizardHandler
	Asset    *handlers.AssetHandler
	User     *handlers.UserHandler
}

// Initialize wires the gorm stores and services into a ready router.
func Initialize(db *gorm.DB, cfg *config.Config, index services.IndexQueue, search services.SearchIndex) (*gin.Engine, error) {
	drafts := repository.NewDraftStore(db)
	submissions := repository.NewSubmissionStore(db)
	history := repository.NewHistoryStore(db)
	assets := repository.NewAssetStore(db)

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	userService := services.NewUserService(repository.NewUserStore(db))
	submissionService := services.NewSubmissionService(drafts, submissions, userService, index)
	reconciler := services.NewReconciler(repository.NewInfluencerStore(db), assets, drafts)
	wizardService := services.NewWizardService(
		drafts,
		history,
		userService,
		reconciler,
		submissionService,
		services.NewFinalizer(submissions),
		index,
	)
	campaignService := services.NewCampaignService(drafts, history, userService, search, index)
	assetService := services.NewAssetService(drafts, assets, userService, storageService, storageService.CreativeAssetUploadOptions())

	h := Handlers{
		Campaign: handlers.NewCampaignHandler(campaignService, submissionService),
		Wizard:   handlers.NewWizardHandler(wizardService),
		Asset:    handlers.NewAssetHandler(assetService),
		User:     handlers.NewUserHandler(userService),
	}
	return New(cfg, db, h), nil
}

// New builds the gin engine around h. db may be nil, which disables audit rows.
func New(cfg *config.Config, db *gorm.DB, h Handlers) *gin.Engine {
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	generalLimiter := middleware.PerMinute(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	uploadLimiter := middleware.PerMinute(cfg.RateLimit.UploadsPerMinute, 1)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(middleware.AuditLogMiddleware(db))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   "1.0.0",
			"languages": i18n.GetSupportedLanguages(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.AWS.AccessKeyID == "" {
		r.Static("/uploads", cfg.Storage.LocalDir)
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthRequired())
	v1.Use(generalLimiter.Middleware())
	{
		users := v1.Group("/users")
		{
			users.POST("/sync", h.User.Sync)
			users.GET("/me", h.User.Me)
		}

		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", h.Campaign.Create)
			campaigns.GET("", h.Campaign.List)
			campaigns.GET("/search", h.Campaign.Search)
			campaigns.GET("/:id", h.Campaign.Get)
			campaigns.DELETE("/:id", h.Campaign.Delete)
			campaigns.GET("/:id/history", h.Campaign.History)
			campaigns.POST("/:id/submit", h.Campaign.Submit)
			campaigns.POST("/:id/assets", uploadLimiter.Middleware(), h.Asset.Upload)

			// Wizard steps
			campaigns.GET("/:id/wizard/:step", h.Wizard.GetStep)
			campaigns.PATCH("/:id/wizard/:step", h.Wizard.SaveStep)
		}
	}

	return r
}
