package repository

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	model "task-manager.com/task-manager/internal/models"
)

// RedisRepository keeps the JSON document under a single key.
type RedisRepository struct {
	client rueidis.Client
	key    string
}

func NewRedisRepository(client rueidis.Client, key string) *RedisRepository {
	return &RedisRepository{
		client: client,
		key:    key,
	}
}

func (r *RedisRepository) Save(ctx context.Context, tasks []model.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return err
	}

	cmd := r.client.B().Set().Key(r.key).Value(rueidis.BinaryString(data)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisRepository) Load(ctx context.Context) ([]model.Task, error) {
	cmd := r.client.B().Get().Key(r.key).Build()
	data, err := r.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		return nil, fmt.Errorf("load redis key %s: %w", r.key, err)
	}
	return tasks, nil
}
