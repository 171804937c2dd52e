package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/borgmon/desk-alarm/pkg/logger"
	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/borgmon/desk-alarm/pkg/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// DeskAlarm carries the state shared by every command
type DeskAlarm struct {
	fs          afero.Fs
	configStore *store.ConfigStore
	config      *models.Config
	logger      *slog.Logger
	alarms      *store.AlarmStore

	// now is the wall clock used by listings and the checker
	now func() time.Time
}

func main() {
	da := &DeskAlarm{fs: afero.NewOsFs(), now: time.Now}

	if err := RootCommand(da).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorMessage(err))
		os.Exit(exitCode(err))
	}
}

// RootCommand creates the desk-alarm command tree. Without a subcommand it
// behaves like "run".
func RootCommand(da *DeskAlarm) *cobra.Command {
	var (
		configPath string
		dataDir    string
		logLevel   string
	)

	runCmd := runCommand(da)

	rootCmd := &cobra.Command{
		Use:           store.AppName,
		Short:         "A small alarm clock for the desktop",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(runCmd.Flags())

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+store.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding alarms.json and history.json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = store.DefaultConfigPath()
		}
		da.configStore = store.NewConfigStore(da.fs, configPath)

		v := da.configStore.Viper()
		if err := v.BindPFlag("data_dir", cmd.Flags().Lookup("data-dir")); err != nil {
			return fmt.Errorf("error binding flags: %w", err)
		}
		if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
			return fmt.Errorf("error binding flags: %w", err)
		}

		config, err := da.configStore.Load()
		if err != nil {
			return err
		}
		if err := config.Validate(); err != nil {
			return err
		}
		da.config = config

		da.logger = logger.NewWithWriter(cmd.ErrOrStderr(), config.Log.Level, config.Log.Env).Logger
		slog.SetDefault(da.logger)

		da.alarms = store.NewAlarmStore(da.fs, config.DataDir, da.logger)
		da.alarms.Now = da.now
		return da.alarms.Init()
	}

	rootCmd.AddCommand(
		runCmd,
		addCommand(da),
		listCommand(da),
		updateCommand(da),
		deleteCommand(da),
		historyCommand(da),
		exportCommand(da),
		importCommand(da),
		configCommand(da),
	)

	return rootCmd
}

// exitCode maps application error codes to process exit codes
func exitCode(err error) int {
	switch models.ErrorCode(err) {
	case models.ErrInvalid:
		return 2
	case models.ErrNotFound:
		return 3
	default:
		return 1
	}
}

func errorMessage(err error) string {
	if models.ErrorCode(err) == models.ErrInternal {
		return err.Error()
	}
	return models.ErrorDescription(err)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
