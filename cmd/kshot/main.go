package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yominosekai/kshot/internal/profile"
	"github.com/yominosekai/kshot/internal/version"
	"github.com/yominosekai/kshot/server"
	"github.com/yominosekai/kshot/store"
	"github.com/yominosekai/kshot/store/db"
)

const greetingBanner = `kshot - activity analytics for the knowledge base`

var rootCmd = &cobra.Command{
	Use:   "kshot",
	Short: "Activity analytics server for the internal knowledge base",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:         viper.GetString("mode"),
			Addr:         viper.GetString("addr"),
			Port:         viper.GetInt("port"),
			Data:         viper.GetString("data"),
			SharedDriver: viper.GetString("shared-driver"),
			SharedDSN:    viper.GetString("shared-dsn"),
			LocalDSN:     viper.GetString("local-dsn"),
			Version:      version.GetCurrentVersion(viper.GetString("mode")),
		}
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", slog.Any("error", err))
			os.Exit(1)
		}
		initLogger(instanceProfile)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sharedDriver, err := db.NewSharedDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to open shared store", slog.Any("error", err))
			os.Exit(1)
		}
		localDriver, err := db.NewLocalDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to open local store", slog.Any("error", err))
			os.Exit(1)
		}

		storeInstance := store.New(sharedDriver, localDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate stores", slog.Any("error", err))
			os.Exit(1)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			slog.Error("failed to create server", slog.Any("error", err))
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			slog.Info("received signal, shutting down", slog.String("signal", sig.String()))
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Println(greetingBanner)
		fmt.Printf("version %s, mode %s, listening on %s:%d\n",
			instanceProfile.Version, instanceProfile.Mode, instanceProfile.Addr, instanceProfile.Port)

		if err := s.Start(ctx); err != nil {
			slog.Error("server exited", slog.Any("error", err))
			cancel()
		}

		<-ctx.Done()
	},
}

func init() {
	// .env is optional, handy in dev.
	_ = godotenv.Load()

	viper.SetDefault("mode", "demo")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)
	viper.SetDefault("data", ".")
	viper.SetDefault("shared-driver", "sqlite")

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().String("shared-driver", "sqlite", `shared store driver, can be "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("shared-dsn", "", "dsn of the shared store")
	rootCmd.PersistentFlags().String("local-dsn", "", "dsn of the local login event store")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("kshot")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func initLogger(p *profile.Profile) {
	var handler slog.Handler
	if p.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
