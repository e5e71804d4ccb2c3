package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/DEFRA/fes-frontend/archive"
	"github.com/DEFRA/fes-frontend/auth"
	"github.com/DEFRA/fes-frontend/i18n"
	"github.com/DEFRA/fes-frontend/logger"
	"github.com/DEFRA/fes-frontend/orchestration"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/DEFRA/fes-frontend/session"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:           "fes-frontend",
		Short:         "Fish export service exporter frontend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (default ./config.yaml)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the exporter journeys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(configFile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), viper.GetString("service_name"), viper.GetString("app_version"))
			return nil
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	if err := loadConfig(configFile); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	l := logger.New(logger.Config{Level: viper.GetString("log.level"), Format: viper.GetString("log.format")})
	defer l.Sync()
	zap.ReplaceGlobals(l)

	a, closers, err := newApp(ctx, l)
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				l.Warn("closing dependency failed", zap.Error(err))
			}
		}
	}()
	if err != nil {
		return err
	}

	router := httprouter.New()
	addRoutes(router, a)

	var wg sync.WaitGroup
	wg.Add(1)
	srv := startServer(a.handler(router), &wg)
	l.Info("starting server", zap.String("addr", srv.Addr), zap.String("version", viper.GetString("app_version")))

	<-ctx.Done()
	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	wg.Wait()
	return nil
}

// newApp wires the dependencies named by configuration. The closers release
// whatever was opened, even when wiring fails part way.
func newApp(ctx context.Context, l *zap.Logger) (*app, []io.Closer, error) {
	var closers []io.Closer
	a := &app{logger: l, flags: fallbackFlags{}, archive: archive.Nop{}}

	var store session.Store
	switch viper.GetString("session.store") {
	case "redis":
		rs, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		})
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, rs)
		store = rs
	case "postgres":
		pg, err := session.OpenPostgresStore(ctx, viper.GetString("postgres.dsn"))
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, pg)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, closers, fmt.Errorf("creating session table: %w", err)
		}
		go sweepSessions(ctx, pg, l)
		store = pg
	default:
		store = session.NewMemoryStore()
	}
	a.sessions = session.NewManager(store,
		session.WithCookieName(viper.GetString("session.cookie_name")),
		session.WithTTL(viper.GetDuration("session.ttl")),
		session.WithSecureCookie(viper.GetBool("session.secure")),
	)

	if viper.GetBool("unleash.enabled") {
		flags, err := newUnleashFlags(l)
		if err != nil {
			return nil, closers, fmt.Errorf("starting feature flags: %w", err)
		}
		closers = append(closers, flags)
		a.flags = flags
	}

	a.api = orchestration.New(viper.GetString("orchestration_url"),
		orchestration.WithTimeout(viper.GetDuration("orchestration_timeout")))

	if bucket := viper.GetString("upload.bucket"); bucket != "" {
		s3, err := archive.NewS3Archive(ctx, archive.Config{
			Bucket:    bucket,
			Region:    viper.GetString("upload.region"),
			Endpoint:  viper.GetString("upload.endpoint"),
			AccessKey: viper.GetString("upload.access_key"),
			SecretKey: viper.GetString("upload.secret_key"),
		}, l)
		if err != nil {
			return nil, closers, fmt.Errorf("configuring upload archive: %w", err)
		}
		a.archive = s3
	}

	if !viper.GetBool("auth.disabled") {
		v, err := auth.NewVerifier(viper.GetString("auth.secret"), viper.GetString("auth.public_key"), viper.GetString("auth.issuer"))
		if err != nil && !errors.Is(err, auth.ErrMissingKey) {
			return nil, closers, fmt.Errorf("configuring identity tokens: %w", err)
		}
		if err != nil {
			l.Warn("no identity token key configured, every page will be forbidden")
		}
		a.verifier = v
	}

	catalog, err := i18n.Load()
	if err != nil {
		return nil, closers, err
	}
	a.catalog = catalog
	if a.renderer, err = render.New(catalog); err != nil {
		return nil, closers, err
	}
	return a, closers, nil
}

// sweepSessions deletes expired Postgres sessions until ctx is done. Redis
// expires keys itself.
func sweepSessions(ctx context.Context, pg *session.PostgresStore, l *zap.Logger) {
	ticker := time.NewTicker(viper.GetDuration("postgres.sweep_interval"))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := pg.DeleteExpired(ctx)
			if err != nil {
				l.Warn("sweeping expired sessions failed", zap.Error(err))
				continue
			}
			l.Debug("expired sessions swept", zap.Int64("removed", removed))
		}
	}
}
