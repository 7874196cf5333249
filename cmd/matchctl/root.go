package main

import (
	"fmt"
	"log"
	"os"

	"skill-match/internal/config"
	"skill-match/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "matchctl"

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "matchctl scores resumes against a catalog of career roles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig()
		},
	}
)

// Execute executes the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

func init() {
	envs := map[string]string{
		"catalog":        "CATALOG_PATH",
		"catalog-source": "CATALOG_SOURCE",
		"db.host":        "DB_HOST",
		"db.port":        "DB_PORT",
		"db.name":        "DB_NAME",
		"db.user":        "DB_USER",
		"db.password":    "DB_PASSWORD",
		"db.ssl-mode":    "DB_SSL_MODE",
		"db.migrations":  "DB_MIGRATIONS_DIR",
		"top":            "MATCH_TOP_ROLES",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
	viper.SetDefault("catalog", "known_skills.json")
	viper.SetDefault("catalog-source", config.CatalogSourceFile)
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.ssl-mode", "disable")
	viper.SetDefault("top", 5)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is none)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().Bool("log-json", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("catalog", "c", "", "path to the role catalog JSON (env CATALOG_PATH)")
	rootCmd.PersistentFlags().String("catalog-source", "", "catalog source: file or postgres (env CATALOG_SOURCE)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("log-json"))
	viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag("catalog-source", rootCmd.PersistentFlags().Lookup("catalog-source"))
}

func initConfig() error {
	// a missing .env is fine
	_ = godotenv.Load()

	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
	return nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("log-json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

func catalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		Source: viper.GetString("catalog-source"),
		Path:   viper.GetString("catalog"),
	}
}

func databaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		DBHost:        viper.GetString("db.host"),
		DBPort:        viper.GetString("db.port"),
		DBName:        viper.GetString("db.name"),
		DBUser:        viper.GetString("db.user"),
		DBPassword:    viper.GetString("db.password"),
		DBSSLMode:     viper.GetString("db.ssl-mode"),
		MigrationsDir: viper.GetString("db.migrations"),
	}
}
