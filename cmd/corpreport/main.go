package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/recoveryfit/corpreport/internal/app"
	"github.com/recoveryfit/corpreport/internal/config"

	log "github.com/sirupsen/logrus"
)

// main runs the CLI entrypoint and exits on unrecoverable command errors.
func main() {
	if errRun := run(context.Background(), os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run parses flags, loads config, and starts the server or runs a
// one-shot maintenance command.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("corpreport", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	port := fs.Int("port", 8428, "server port when the config omits one")
	migrateOnly := fs.Bool("migrate", false, "run database migrations and exit")
	createAdmin := fs.String("create-admin", "", "create an admin account as user:password and exit")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	if errValidate := validatePort(*port); errValidate != nil {
		return errValidate
	}

	appCfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if strings.TrimSpace(*cfgPath) != "" {
		appCfg.ConfigPath = config.ResolveConfigPath(*cfgPath)
	}

	if *migrateOnly {
		return app.Migrate(ctx, appCfg)
	}
	if strings.TrimSpace(*createAdmin) != "" {
		return runCreateAdmin(appCfg, *createAdmin)
	}

	return app.RunServer(ctx, appCfg, *port)
}

// runCreateAdmin parses the user:password spec and creates the account.
func runCreateAdmin(appCfg config.AppConfig, spec string) error {
	username, password, found := strings.Cut(spec, ":")
	if !found || strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("invalid create-admin value, expected user:password")
	}

	configPath := config.ResolveConfigPath(appCfg.ConfigPath)
	dsn, errDSN := config.LoadDatabaseDSN(configPath)
	if errDSN != nil {
		return errDSN
	}
	if errCreate := app.CreateAdminUser(dsn, strings.TrimSpace(username), password); errCreate != nil {
		return errCreate
	}
	log.Infof("admin account %q created", strings.TrimSpace(username))
	return nil
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}
