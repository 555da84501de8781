package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/training-service/internal/auth"
	"github.com/SAP-F-2025/training-service/internal/cache"
	"github.com/SAP-F-2025/training-service/internal/config"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/repositories"
	"github.com/SAP-F-2025/training-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/training-service/internal/utils"
	"github.com/SAP-F-2025/training-service/internal/validator"
	"github.com/SAP-F-2025/training-service/pkg"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedAdmin = models.Requester{UserID: "seed-admin", Role: models.RoleAdmin, Name: "Seed Admin"}

// NewSeedCmd loads the sample course and quiz. Running it twice is a no-op.
func NewSeedCmd() *cobra.Command {
	var tokenRole string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample training content",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			db, err := pkg.InitDatabase(cfg)
			if err != nil {
				return err
			}
			if err := pkg.MigrateDatabase(db); err != nil {
				return err
			}

			repo := postgres.NewRepository(db, cache.NewCacheManager(nil, cfg.QuizCacheDuration(), utils.ToSlogLogger(logger)), utils.ToSlogLogger(logger))
			if err := seed(ctx, db, repo, logger); err != nil {
				return err
			}

			if tokenRole != "" {
				return printDevToken(cmd, cfg, tokenRole)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tokenRole, "token-for", "", "also print a development token for this role (ADMIN, MANAGER, STAFF)")
	return cmd
}

func seed(ctx context.Context, db *gorm.DB, repo repositories.Repository, logger utils.Logger) error {
	req := foodSafetyQuiz()
	if errs := validator.New().ValidateQuizCreate(req); errs != nil {
		return fmt.Errorf("sample quiz is invalid: %w", errs)
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&models.Quiz{}).Where("title = ?", req.Title).Count(&existing).Error; err != nil {
		return err
	}

	return repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := repo.User().Upsert(ctx, tx, seedAdmin.User()); err != nil {
			return err
		}

		if existing == 0 {
			quiz := req.ToModel(seedAdmin.UserID)
			if err := repo.Quiz().Create(ctx, tx, quiz); err != nil {
				return err
			}
			logger.Info("Seeded quiz", "quiz_id", quiz.ID, "title", quiz.Title, "questions", len(quiz.Questions))
		}

		course := foodSafetyCourse()
		err := tx.WithContext(ctx).Where("title = ?", course.Title).First(&models.Course{}).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.WithContext(ctx).Create(course).Error; err != nil {
			return fmt.Errorf("failed to seed course: %w", err)
		}
		logger.Info("Seeded course", "course_id", course.ID, "title", course.Title)
		return nil
	})
}

func printDevToken(cmd *cobra.Command, cfg *config.Config, role string) error {
	if cfg.Auth.Provider != "" && cfg.Auth.Provider != "jwt" {
		return fmt.Errorf("development tokens need the jwt auth provider, got %q", cfg.Auth.Provider)
	}
	r := models.UserRole(role)
	if !r.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	requester := models.Requester{UserID: "dev-" + string(r), Role: r, Name: "Dev " + string(r)}
	token, err := auth.NewHMACVerifier(cfg.Auth.JWTSecret).IssueToken(requester, 24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
