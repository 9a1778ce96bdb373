package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/account-server/internal/api/grpc/context"
	"github.com/dtroode/account-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/account-server/internal/api/grpc/server"
	"github.com/dtroode/account-server/internal/clock"
	"github.com/dtroode/account-server/internal/config"
	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/mail"
	"github.com/dtroode/account-server/internal/model"
	"github.com/dtroode/account-server/internal/password"
	"github.com/dtroode/account-server/internal/repository/memory"
	"github.com/dtroode/account-server/internal/repository/postgres"
	"github.com/dtroode/account-server/internal/server"
	"github.com/dtroode/account-server/internal/service"
	"github.com/dtroode/account-server/internal/telemetry"
	"github.com/dtroode/account-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel).With("env", cfg.Env)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		logger.Fatal("failed to initialize tracing", "error", err)
	}

	clk := clock.Real{}
	hasher := password.NewHasher(password.Params{
		Time:    cfg.KDF.Time,
		MemKiB:  cfg.KDF.MemKiB,
		Threads: cfg.KDF.Par,
		SaltLen: password.DefaultParams.SaltLen,
		KeyLen:  password.DefaultParams.KeyLen,
	})

	var userStore model.UserStore
	if cfg.Database.DSN == "" {
		logger.Warn("DATABASE_DSN is empty, users are kept in memory")
		userStore = memory.NewUserRepository(hasher, clk)
	} else {
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err)
		}
		defer db.Close()
		userStore = postgres.NewUserRepository(db, hasher)
	}

	var mailer model.Mailer
	if cfg.SMTP.Host == "" {
		mailer = mail.NewLogSender(logger)
	} else {
		mailer = mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}
	dispatcher := mail.NewDispatcher(mailer, logger)

	codec := token.NewJWT([]byte(cfg.Token.Secret), clk)
	tokenService := service.NewTokenService(codec, cfg.Token.SessionTTL, cfg.Token.ResetTTL, logger)
	gate := service.NewGate(codec, userStore, logger)
	resetService := service.NewPasswordReset(userStore, tokenService, gate, dispatcher, cfg.ExposeResetToken(), logger)
	authService := service.NewAuth(userStore, tokenService, resetService, logger)
	ctxMgr := grpcctx.NewManager()

	grpcServer := registerGRPCServer(logger, authService, resetService, gate, ctxMgr, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer

	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}
	wg.Wait()

	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Error("pending mails were not delivered", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(
	logger *logger.Logger,
	authService *service.Auth,
	resetService *service.PasswordReset,
	gate *service.Gate,
	ctxMgr model.ContextManager,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(authService, resetService, gate, ctxMgr, logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}
