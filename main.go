package main

import (
	"context"
	"time"

	"github.com/africandeluxe/RedditClone2-Backend/config"
	"github.com/africandeluxe/RedditClone2-Backend/routes"
	"github.com/africandeluxe/RedditClone2-Backend/stores"
	"github.com/africandeluxe/RedditClone2-Backend/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	cache := utils.NewCache(cfg)

	storage, err := utils.NewObjectStorage(context.Background(), cfg)
	if err != nil {
		utils.Sugar.Fatalf("object storage init failed: %v", err)
	}

	handle := db.Handle()
	router := routes.SetupRouter(routes.Deps{
		Users:    stores.NewMongoUserStore(handle),
		Posts:    stores.NewMongoPostStore(handle),
		Comments: stores.NewMongoCommentStore(handle),
		Cache:    cache,
		Storage:  storage,
	})

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			utils.Sugar.Errorf("mongo close error: %v", err)
		}
		if err := cache.Close(); err != nil {
			utils.Sugar.Errorf("redis close error: %v", err)
		}
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	srv := utils.NewGraceServer(":"+cfg.AppPort, router, shutdown)
	if err := srv.ListenAndServe(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
