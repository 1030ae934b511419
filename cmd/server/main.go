package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/vabase/identity/internal/handler"
	"github.com/vabase/identity/internal/storage/postgres"
	"github.com/vabase/identity/internal/storage/redisstate"
	"github.com/vabase/identity/pkg/auth"
	"github.com/vabase/identity/pkg/config"
	"github.com/vabase/identity/pkg/email"
	"github.com/vabase/identity/pkg/httpserver"
	"github.com/vabase/identity/pkg/logger"
	"github.com/vabase/identity/pkg/pg"
	redisconn "github.com/vabase/identity/pkg/redis"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"production"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	TokenSecret  string `env:"TOKEN_SECRET,required"`
	NicknameSalt string `env:"NICKNAME_SALT,required"`

	SweepInterval time.Duration `env:"TOKEN_SWEEP_INTERVAL" envDefault:"168h"`
}

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	logOpts := []logger.Option{logger.WithService("identity")}
	if appCfg.Environment == "development" {
		logOpts = append(logOpts, logger.WithDevelopment())
	}
	if appCfg.LogLevel == "debug" {
		logOpts = append(logOpts, logger.WithLevel(slog.LevelDebug))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	if err := run(appCfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(appCfg appConfig, log *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pgCfg pg.Config
	config.MustLoad(&pgCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	var redisCfg redisconn.Config
	config.MustLoad(&redisCfg)

	redisClient, err := redisconn.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	storage := postgres.NewStorage(pool)
	states := redisstate.NewStore(redisClient)

	mailer, err := buildMailer(appCfg, log)
	if err != nil {
		return err
	}

	var ghCfg auth.GithubOAuthConfig
	var yaCfg auth.YandexOAuthConfig
	var vkCfg auth.VKOAuthConfig
	config.MustLoad(&ghCfg)
	config.MustLoad(&yaCfg)
	config.MustLoad(&vkCfg)

	svc := auth.NewService(storage, storage, storage, states, appCfg.TokenSecret,
		auth.WithLogger(log),
		auth.WithMailer(mailer),
		auth.WithNicknameSalt(appCfg.NicknameSalt),
		auth.WithProviderAdapter(auth.NewGithubAdapter(ghCfg)),
		auth.WithProviderAdapter(auth.NewYandexAdapter(yaCfg)),
		auth.WithProviderAdapter(auth.NewVKAdapter(vkCfg)),
	)

	// Expired verification tokens accumulate until swept.
	go svc.Verification().RunSweeper(ctx, appCfg.SweepInterval)

	var handlerCfg handler.Config
	config.MustLoad(&handlerCfg)
	h := handler.New(svc, handlerCfg, log)

	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)
	srv := httpserver.New(srvCfg, log)

	return srv.Run(ctx, h.Router())
}

// buildMailer assembles the outbound-mail stack. Development runs log
// messages instead of delivering them.
func buildMailer(appCfg appConfig, log *slog.Logger) (*email.Mailer, error) {
	var mailerCfg email.MailerConfig
	config.MustLoad(&mailerCfg)

	if appCfg.Environment == "development" {
		return email.NewMailer(email.NewDevSender(log), mailerCfg), nil
	}

	var senderCfg email.Config
	config.MustLoad(&senderCfg)

	sender, err := email.NewPostmarkSender(senderCfg)
	if err != nil {
		return nil, err
	}
	return email.NewMailer(sender, mailerCfg), nil
}
