package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/config"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/repository/storage/sqlite"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-trainer/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the training until every configured game is played or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var stats repository.StatsRepository
	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		stats = repository.NewStatsRepository(redisStorage.Connection)
	}

	var archive repository.ArchiveRepository
	if conf.SQLiteStoragePath != "" {
		sqliteStorage, err := sqlite.New(conf.SQLiteStoragePath)
		if err != nil {
			return fmt.Errorf("could not open sqlite storage: %w", err)
		}

		defer func() {
			if err = sqliteStorage.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}
		}()

		if err = sqliteStorage.Init(ctx); err != nil {
			return fmt.Errorf("could not init sqlite storage: %w", err)
		}

		archive = repository.NewArchiveRepository(sqliteStorage.Connection)
	}

	engine := usecase.NewEngine(logger, usecase.EngineOptions{
		SourcePath:    conf.Engine.SourcePath,
		DefaultWeight: conf.Engine.DefaultWeight,
		LearningRate:  conf.Engine.LearningRate,
		DrawRate:      conf.Engine.DrawRate,
		PollInterval:  conf.Engine.PollInterval,
	})

	trainer := usecase.NewTrainer(logger, engine, stats, archive, usecase.TrainerOptions{
		RunID:          conf.Training.RunID,
		Games:          conf.Training.Games,
		UpdateLimit:    conf.Engine.UpdateLimit,
		AutoUpdate:     conf.Engine.AutoUpdate,
		FirstMark:      entity.Mark(conf.Training.FirstMark),
		RotateOpenings: conf.Training.RotateOpenings,
	})

	group, groupCtx := errgroup.WithContext(ctx)
	trainingCtx, finish := context.WithCancel(groupCtx)
	defer finish()

	// run HTTP server
	if conf.HTTPPort != "" {
		group.Go(func() error {
			log.Info("Starting HTTP server", "port", conf.HTTPPort)
			if err := rest.Start(trainingCtx, conf.HTTPPort, rest.NewHandlers(trainer, stats, archive)); err != nil {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	// run training, the HTTP server goes down with it
	group.Go(func() error {
		defer finish()

		summary, err := trainer.Run(trainingCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("training failed: %w", err)
		}

		log.Info("Training summary",
			"games", summary.Games, "wins_x", summary.WinsX, "wins_o", summary.WinsO, "draws", summary.Draws)
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	log.Info("Application shut down")

	return nil
}
