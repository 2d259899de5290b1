package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

var ErrRunNotFound = errors.New("training run not found")

type StatsRepository interface {
	Save(ctx context.Context, summary entity.TrainingSummary) error
	GetByRunID(ctx context.Context, runID string) (entity.TrainingSummary, error)
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

func (that *dbStats) Save(ctx context.Context, summary entity.TrainingSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("could not marshal training summary: %w", err)
	}

	err = that.client.Set(ctx, statsKey(summary.RunID), summaryJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set training summary: %w", err)
	}

	return nil
}

func (that *dbStats) GetByRunID(ctx context.Context, runID string) (entity.TrainingSummary, error) {
	response, err := that.client.Get(ctx, statsKey(runID)).Result()

	if errors.Is(err, redis.Nil) {
		return entity.TrainingSummary{}, ErrRunNotFound
	}

	if err != nil {
		return entity.TrainingSummary{}, fmt.Errorf("failed to get training summary: %w", err)
	}

	var summary entity.TrainingSummary
	if err = json.Unmarshal([]byte(response), &summary); err != nil {
		return entity.TrainingSummary{}, fmt.Errorf("failed to unmarshal training summary: %w", err)
	}

	return summary, nil
}

func statsKey(runID string) string {
	return "training:" + runID
}
