package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"encuesta/internal/cache"
	"encuesta/internal/service"
	"encuesta/internal/transport/rest"
	"encuesta/internal/transport/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the survey wizard service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rdb, err := connectRedis(ctx)
		if err != nil {
			return err
		}
		defer rdb.Close()

		api := service.NewAPIClient(cfg.SurveyAPIURL, cfg.SurveyAPIKey, cfg.HTTPTimeout, logger)
		if !api.IsConfigured() {
			logger.Warn("SURVEY_API_KEY is empty, remote calls will fail")
		}

		sessionCache := cache.NewSessionCache(rdb, cfg.SessionTTL)
		surveyCache := cache.NewSurveyCache(rdb, cfg.SurveyTTL)

		authSvc := service.NewAuthService(cfg.JWTSecret, cfg.SurveyAPIKey, cfg.TokenTTL)
		progress := service.NewProgressController(api, logger)
		progress.SetResolvedTTL(cfg.SessionTTL)
		wizardSvc := service.NewWizardService(api, sessionCache, surveyCache, authSvc, progress, cfg.SurveyID, logger)

		hub := ws.NewHub(logger)
		defer hub.Stop()
		wizardSvc.SetBroadcaster(hub)

		router := rest.NewRouter(&rest.Container{
			AuthService:   authSvc,
			WizardService: wizardSvc,
			WSHub:         hub,
			Logger:        logger,
		})

		logger.Info("wizard configured",
			zap.Int64("survey_id", cfg.SurveyID),
			zap.String("survey_api", cfg.SurveyAPIURL))
		return listen(ctx, "wizard", cfg.HTTPPort, router)
	},
}
