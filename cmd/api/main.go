package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-media-review/internal/core/auth"
	"go-media-review/internal/core/cache"
	"go-media-review/internal/core/config"
	"go-media-review/internal/core/database"
	"go-media-review/internal/core/logger"
	"go-media-review/internal/core/server"
	"go-media-review/internal/domain"
	"go-media-review/internal/mail"
	"go-media-review/internal/repo"
	"go-media-review/internal/service"
	"go-media-review/internal/transport/http/handler"
	"go-media-review/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// 数据库（失败直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.OtpCode{},
			&domain.Category{},
			&domain.Genre{},
			&domain.Title{},
			&domain.Review{},
			&domain.Comment{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// Redis 缓存（可选，评分读穿用）
	var rc *cache.Cache
	if cfg.Redis.Addr != "" {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	// 邮件：生产走 SMTP，本地打日志
	var mailer mail.Mailer
	if cfg.SMTP.Enabled {
		mailer = &mail.SMTPMailer{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}
	} else {
		mailer = &mail.LogMailer{L: log}
	}

	// 仓储
	userRepo := repo.NewUserRepo(db)
	otpRepo := repo.NewOtpRepo(db)
	catRepo := repo.NewCategoryRepo(db)
	genreRepo := repo.NewGenreRepo(db)
	titleRepo := repo.NewTitleRepo(db)
	reviewRepo := repo.NewReviewRepo(db)
	commentRepo := repo.NewCommentRepo(db)

	// 服务
	otpIssuer := service.NewOtpIssuer(otpRepo, mailer, log, time.Duration(cfg.OTP.TTLMin)*time.Minute)
	signupSvc := service.NewSignupService(userRepo, otpIssuer, log)
	tokenSvc := service.NewTokenService(userRepo, otpRepo, jwter)
	userSvc := service.NewUserService(userRepo, log)
	catalogSvc := service.NewCatalogService(catRepo, genreRepo, titleRepo, rc, log)
	reviewSvc := service.NewReviewService(reviewRepo, commentRepo, titleRepo, catalogSvc, log)

	// 模块注册
	router.Register(
		handler.NewAuthHandler(signupSvc, tokenSvc),
		handler.NewUserHandler(userSvc, jwter, userRepo),
		handler.NewCatalogHandler(catalogSvc, jwter, userRepo),
		handler.NewTitleHandler(catalogSvc, jwter, userRepo),
		handler.NewReviewHandler(reviewSvc, jwter, userRepo),
	)

	r := router.NewAPIEngine(log)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
