package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/taskrules/internal/config"
	"github.com/rcliao/taskrules/internal/domain"
	"github.com/rcliao/taskrules/internal/rules"
	"github.com/rcliao/taskrules/internal/service"
	"github.com/rcliao/taskrules/internal/storage"
)

// app is the wiring shared by all subcommands.
type app struct {
	contacts   *service.ContactService
	resolution *service.ResolutionService
	utils      *rules.Utils
	closer     io.Closer
}

func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

var (
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:   "taskrules",
		Short: "Evaluate task rules against stored contact reports",
		Long: `taskrules answers task questions over a contact's report history:
the most recent matching report, whether a form was submitted inside a
window, and whether a task is resolved.

Contacts are read from the configured store (file or sqlite).
Import documents first:
  taskrules import contacts.json

Then query them:
  taskrules resolved <contact> --form V --due 2017-02-19 --start 3 --end 3`,
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("settings", "", "settings file (.json or .yaml), overrides TASKRULES_SETTINGS")
	rootCmd.PersistentFlags().String("store", "", "contact store: file or sqlite, overrides TASKRULES_STORE")
	rootCmd.PersistentFlags().String("store-path", "", "store directory or database file, overrides TASKRULES_STORE_PATH")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(resolvedCmd)
	rootCmd.AddCommand(lmpCmd)
	rootCmd.AddCommand(scheduleCmd)
}

// initConfig applies flag overrides on top of the environment. Validation is
// left to openApp, after the overrides.
func initConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if v, _ := rootCmd.PersistentFlags().GetString("settings"); v != "" {
		cfg.SettingsPath = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("store"); v != "" {
		cfg.StoreKind = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("store-path"); v != "" {
		cfg.StorePath = v
	}
}

func openApp() (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("load settings %s: %w", cfg.SettingsPath, err)
	}

	var (
		store  service.ContactStorage
		closer io.Closer
	)
	switch cfg.StoreKind {
	case config.StoreFile:
		fileStorage, err := storage.NewFileStorage(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		store = fileStorage
	case config.StoreSQLite:
		sqliteStorage, err := storage.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		store, closer = sqliteStorage, sqliteStorage
	}

	utils := rules.New(settings)
	contacts := service.NewContactService(store)
	return &app{
		contacts:   contacts,
		resolution: service.NewResolutionService(contacts, utils),
		utils:      utils,
		closer:     closer,
	}, nil
}

func printJSON(w io.Writer, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("format result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// parseDate accepts epoch milliseconds, RFC 3339 timestamps, and plain
// dates which are read in local time.
func parseDate(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD, RFC 3339 or epoch milliseconds", s)
	}
	return t, nil
}

// parseFilter turns path=value pairs into a field filter. Values are read as
// JSON literals when possible, so 23 is a number and "23" or 23a strings.
func parseFilter(pairs []string) (domain.FieldFilter, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	filter := make(domain.FieldFilter, len(pairs))
	for _, pair := range pairs {
		path, raw, ok := strings.Cut(pair, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid field filter %q: want path=value", pair)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		filter[path] = value
	}
	return filter, nil
}
