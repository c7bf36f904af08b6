package main

import (
	"context"

	"go.uber.org/zap"

	auctionapp "github.com/lmoreau/auctionhouse/internal/auction/application"
	auctionhttp "github.com/lmoreau/auctionhouse/internal/auction/infra/http"
	auctionpg "github.com/lmoreau/auctionhouse/internal/auction/infra/repository/postgres"
	categoryhttp "github.com/lmoreau/auctionhouse/internal/category/infra/http"
	categorypg "github.com/lmoreau/auctionhouse/internal/category/infra/repository/postgres"
	"github.com/lmoreau/auctionhouse/internal/shared/auth"
	"github.com/lmoreau/auctionhouse/internal/shared/config"
	"github.com/lmoreau/auctionhouse/internal/shared/db"
	"github.com/lmoreau/auctionhouse/internal/shared/db/migrations"
	"github.com/lmoreau/auctionhouse/internal/shared/httpserver"
	"github.com/lmoreau/auctionhouse/internal/shared/logger"
	userapp "github.com/lmoreau/auctionhouse/internal/user/application"
	userhttp "github.com/lmoreau/auctionhouse/internal/user/infra/http"
	userpg "github.com/lmoreau/auctionhouse/internal/user/infra/repository/postgres"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting auctionhouse server...")

	cfg := config.Load()

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(cfg.PostgresDSN()); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.GetPostgresDBPool(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer pool.Close()

	// repositories
	itemRepo := auctionpg.NewItemRepository(pool)
	bidRepo := auctionpg.NewBidRepository(pool)
	userRepo := userpg.NewUserRepository(pool)
	categoryRepo := categorypg.NewCategoryRepository(pool)

	// auction use cases + service
	placeBidUC := auctionapp.NewPlaceBidUseCase(itemRepo, bidRepo, cfg.BidMaxRetries)
	getItemStateUC := auctionapp.NewGetItemStateUseCase(itemRepo, bidRepo)
	closeExpiredUC := auctionapp.NewCloseExpiredUseCase(itemRepo)
	manageItemsUC := auctionapp.NewManageItemsUseCase(itemRepo)
	listItemsUC := auctionapp.NewListItemsUseCase(itemRepo, bidRepo)
	listBidsUC := auctionapp.NewListBidsUseCase(bidRepo)
	auctionService := auctionapp.NewAuctionService(
		placeBidUC, getItemStateUC, closeExpiredUC, manageItemsUC, listItemsUC, listBidsUC)

	userService := userapp.NewUserService(userRepo, cfg.JWTSecret)

	// background sweep closing expired auctions, bids are still rejected
	// correctly between ticks through lazy expiry
	go closeExpiredUC.RunSweep(ctx, cfg.CloseSweepInterval)

	server := httpserver.NewServer()
	api := server.API()
	authMW := auth.Middleware(cfg.JWTSecret)

	auctionhttp.NewAuctionHandler(auctionService).RegisterRoutes(api, authMW)
	userhttp.NewUserHandler(userService).RegisterRoutes(api, authMW)
	categoryhttp.NewCategoryHandler(categoryRepo).RegisterRoutes(api, authMW)

	if err := server.Start(cfg.HTTPAddr, cancel); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
