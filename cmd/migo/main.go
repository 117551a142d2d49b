package main

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Xiaobonor/Migo-Backend/internal/bootstrap"
	"github.com/Xiaobonor/Migo-Backend/internal/config"
	httptransport "github.com/Xiaobonor/Migo-Backend/internal/http"
	"github.com/Xiaobonor/Migo-Backend/internal/http/handler"
	httpmiddleware "github.com/Xiaobonor/Migo-Backend/internal/http/middleware"
	"github.com/Xiaobonor/Migo-Backend/internal/identity"
	apimiddleware "github.com/Xiaobonor/Migo-Backend/internal/middleware"
	"github.com/Xiaobonor/Migo-Backend/internal/repository"
	"github.com/Xiaobonor/Migo-Backend/internal/server"
	"github.com/Xiaobonor/Migo-Backend/internal/service"
	"github.com/Xiaobonor/Migo-Backend/internal/telemetry"
	"github.com/Xiaobonor/Migo-Backend/internal/token"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newMongoClient,
			newDatabase,
			newUserRepository,
			newNoteRepository,
			newDiaryRepository,
			newTokenIssuer,
			newTokenVerifier,
			newRenewalPolicy,
			newGoogleVerifier,
			newRateLimiter,
			service.NewAuthService,
			service.NewNoteService,
			service.NewDiaryService,
			handler.NewAuthHandler,
			handler.NewNoteHandler,
			handler.NewDiaryHandler,
			newAuthMiddleware,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureIndexes, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newMongoClient(lc fx.Lifecycle, cfg config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

func newDatabase(client *mongo.Client, cfg config.Config) *mongo.Database {
	return client.Database(cfg.DatabaseName)
}

func newUserRepository(db *mongo.Database) repository.UserRepository {
	return repository.NewMongoUserRepo(db)
}

func newNoteRepository(db *mongo.Database) repository.NoteRepository {
	return repository.NewMongoNoteRepo(db)
}

func newDiaryRepository(db *mongo.Database) repository.DiaryRepository {
	return repository.NewMongoDiaryRepo(db)
}

func newTokenIssuer(cfg config.Config) *token.Issuer {
	return token.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTAlgorithm, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

func newTokenVerifier(cfg config.Config) *token.Verifier {
	return token.NewVerifier([]byte(cfg.JWTSecret), cfg.JWTAlgorithm)
}

func newRenewalPolicy(issuer *token.Issuer, verifier *token.Verifier) *token.RenewalPolicy {
	return token.NewRenewalPolicy(issuer, verifier)
}

func newGoogleVerifier(cfg config.Config) (identity.Verifier, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return identity.NewGoogleVerifier(ctx, cfg.GoogleClientID, cfg.GoogleClockSkew)
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newAuthMiddleware(authService *service.AuthService) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{AuthService: authService}
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
