package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"encuesta/internal/repository"
	"encuesta/internal/service"
	"encuesta/internal/transport/rest"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the reference survey API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := connectMongo(ctx)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.MongoDB)
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}

		surveyRepo := repository.NewSurveyRepo(db)
		responseRepo := repository.NewResponseRepo(db)

		router := rest.NewAPIRouter(&rest.APIContainer{
			AuthService:        service.NewAuthService(cfg.JWTSecret, cfg.SurveyAPIKey, cfg.TokenTTL),
			SurveyService:      service.NewSurveyService(surveyRepo),
			ParticipantService: service.NewParticipantService(repository.NewInvitationRepo(db), responseRepo, surveyRepo),
			ProgressService:    service.NewProgressService(repository.NewProgressRepo(db)),
		})
		return listen(ctx, "api", cfg.APIPort, router)
	},
}
