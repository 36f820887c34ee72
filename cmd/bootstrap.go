package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"

	config "task-manager.com/task-manager/internal/configs"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

type app struct {
	cfg     config.Config
	service *services.TaskService
	closers []func()
}

func newApp(opts ...services.Option) (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("could not read .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if storageKind != "" {
		cfg.Storage = strings.ToLower(storageKind)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	repo, err := a.newPersister()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.service = services.NewTaskService(repo, opts...)

	return a, nil
}

func (a *app) newPersister() (repository.Persister, error) {
	switch a.cfg.Storage {
	case config.StorageSQLite:
		db, err := config.NewDatabaseClient(a.cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}

		repo := repository.NewSQLiteRepository(db)
		if err := repo.Migrate(); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		return repo, nil

	case config.StorageRedis:
		client, err := config.NewRedisClient(a.cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return repository.NewRedisRepository(client, a.cfg.RedisTasksKey), nil

	default:
		repo := repository.NewJSONFileRepository(a.cfg.DataFile)
		if err := repo.EnsureDir(); err != nil {
			return nil, err
		}
		return repo, nil
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
