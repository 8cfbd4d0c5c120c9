package intergration

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	appmongo "github.com/trendora/backend/pkg/mongodb"
)

type Env struct {
	Mongo    *mongodb.MongoDBContainer
	DB       *mongo.Database
	MongoURI string
	Redis    *miniredis.Miniredis
	RDB      *redis.Client
	Cancel   context.CancelFunc
}

func Setup(ctx context.Context) (*Env, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	mongoC, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		cancel()
		return nil, err
	}

	uri, err := mongoC.ConnectionString(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	db, err := appmongo.Connect(ctx, uri, "trendora_test")
	if err != nil {
		cancel()
		return nil, err
	}

	mr, err := miniredis.Run()
	if err != nil {
		cancel()
		return nil, err
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return &Env{
		Mongo:    mongoC,
		DB:       db,
		MongoURI: uri,
		Redis:    mr,
		RDB:      rdb,
		Cancel:   cancel,
	}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	e.Cancel()
	_ = e.RDB.Close()
	e.Redis.Close()
	_ = e.DB.Client().Disconnect(ctx)
	_ = e.Mongo.Terminate(ctx)
}
