package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"survey-assessment-backend/internal/config"
	"survey-assessment-backend/utilities"
)

// InitDBFromConfig opens the PostgreSQL pool described by cfg.DB.
func InitDBFromConfig(cfg *config.APIConfig) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if utilities.ParseLevel(cfg.Logging.Level) == utilities.LevelDebug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	conn, err := gorm.Open(postgres.Open(cfg.DB.DSN(cfg.Context.TimeZone)), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to postgres at %s:%d", cfg.DB.Host, cfg.DB.Port)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, errors.Wrap(err, "cannot access postgres pool")
	}
	pool := cfg.DB.Pool
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetime) * time.Second)
	}

	utilities.Info("Connected to postgres %s:%d/%s", cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
	return conn, nil
}

// ConnectRedis returns a client that has answered PING.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "cannot reach redis at %s", cfg.Addr)
	}
	utilities.Info("Connected to redis %s (db %d)", cfg.Addr, cfg.DB)
	return client, nil
}

// ConnectMongo returns a client that has answered a ping within the
// configured connect timeout.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	timeout := time.Duration(cfg.ConnectTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create mongo client")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "cannot reach mongo")
	}
	utilities.Info("Connected to mongo database %s", cfg.Database)
	return client, nil
}
