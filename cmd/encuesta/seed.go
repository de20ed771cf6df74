package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"encuesta/internal/config"
	"encuesta/internal/model"
	"encuesta/internal/repository"
	"encuesta/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load a survey and its invitation codes into MongoDB",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := config.LoadSurveyFile(args[0])
		if err != nil {
			return err
		}

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

		surveySvc := service.NewSurveyService(repository.NewSurveyRepo(db))
		if err := surveySvc.Save(ctx, &seed.Survey); err != nil {
			return fmt.Errorf("save survey %d: %w", seed.Survey.ID, err)
		}

		invitations := repository.NewInvitationRepo(db)
		for _, code := range seed.InvitationCodes {
			rec := &model.InvitationCodeRecord{Code: code, Active: true}
			if err := invitations.Upsert(ctx, rec); err != nil {
				return fmt.Errorf("save invitation code %q: %w", code, err)
			}
		}

		logger.Info("seeded survey",
			zap.Int64("survey_id", seed.Survey.ID),
			zap.String("name", seed.Survey.Name),
			zap.Int("groups", len(seed.Survey.QuestionGroups)),
			zap.Int("invitation_codes", len(seed.InvitationCodes)))
		return nil
	},
}
