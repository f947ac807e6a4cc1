package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/classifier"
	"civic-jharkhand-be/config"
	"civic-jharkhand-be/controllers"
	"civic-jharkhand-be/middlewares"
	"civic-jharkhand-be/routes"
	"civic-jharkhand-be/services"
	"civic-jharkhand-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	redisClient, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient == nil {
		logger.Warn("REDIS_ADDRESS not set, report rate limiting disabled")
	} else {
		defer redisClient.Close()
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}
	auth := services.NewAuthService(st.users, tokens, logger)
	reports := services.NewReportService(st.reports, logger)
	leaderboard := services.NewLeaderboardService(st.reports)

	if err := ensureAdmin(ctx, auth); err != nil {
		return err
	}

	var cls classifier.Classifier = classifier.Fallback{}
	if len(cfg.GeminiAPIKeys) > 0 {
		gemini, err := classifier.NewGeminiClassifier(ctx, cfg.GeminiAPIKeys, cfg.GeminiModel, logger)
		if err != nil {
			return err
		}
		cls = gemini
	} else {
		logger.Warn("GEMINI_API_KEYS not set, image classification always suggests Other")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	router := routes.Setup(&routes.Dependencies{
		Auth:         controllers.NewAuthController(auth, logger),
		Reports:      controllers.NewReportController(reports, leaderboard, logger),
		Uploads:      controllers.NewUploadController(cfg.UploadDir, cfg.UploadMaxBytes, cls, logger),
		Authenticate: middlewares.AuthMiddleware(tokens, auth, logger),
		RateLimit:    middlewares.ReportRateLimiter(redisClient, cfg.ReportPerDay, logger),
		UploadDir:    cfg.UploadDir,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ensureAdmin creates the ADMIN_EMAIL account when it does not exist yet.
func ensureAdmin(ctx context.Context, auth *services.AuthService) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	admin, err := auth.CreateAdmin(ctx, services.RegisterInput{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if errors.Is(err, apperrors.ErrDuplicateEmail) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to ensure admin: %w", err)
	}
	logger.Info("admin account created", zap.String("user_id", admin.ID.Hex()))
	return nil
}
