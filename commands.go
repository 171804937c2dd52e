package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/borgmon/desk-alarm/pkg/calendar"
	"github.com/borgmon/desk-alarm/pkg/logger"
	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/borgmon/desk-alarm/pkg/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func addCommand(da *DeskAlarm) *cobra.Command {
	var (
		hour, minute, second int
		period, note         string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an alarm",
		Example: `  desk-alarm add --hour 7 --minute 30 --period AM --note "wake up"
  desk-alarm add --hour 12 --minute 0 --second 30 --period PM`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := models.ParsePeriod(period)
			if err != nil {
				return err
			}
			if err := models.ValidateTime(hour, minute, second, p); err != nil {
				return err
			}

			alarm, err := da.alarms.Create(hour, minute, second, p, note)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Created alarm #%d at %s\n", alarm.ID, models.FormatDisplay(alarm))
			return nil
		},
	}

	cmd.Flags().IntVar(&hour, "hour", 0, "hour on the 12-hour clock (1-12)")
	cmd.Flags().IntVar(&minute, "minute", 0, "minute (0-59)")
	cmd.Flags().IntVar(&second, "second", 0, "second (0-59)")
	cmd.Flags().StringVar(&period, "period", "", "AM or PM")
	cmd.Flags().StringVar(&note, "note", "", "text shown when the alarm fires")
	_ = cmd.MarkFlagRequired("hour")
	_ = cmd.MarkFlagRequired("minute")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func listCommand(da *DeskAlarm) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show alarms in storage order with their next occurrence",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alarms := da.alarms.ReadAll()
			if len(alarms) == 0 {
				printf(cmd.OutOrStdout(), "No alarms\n")
				return nil
			}

			now := da.now()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printf(tw, "ID\tTIME\tSECOND\tNEXT\tNOTE\n")
			for _, alarm := range alarms {
				next := "inactive"
				if at := calendar.NextOccurrence(alarm, now); !at.IsZero() {
					next = at.Format("Mon Jan 2 15:04:05")
				}
				printf(tw, "%d\t%s\t%02d\t%s\t%s\n", alarm.ID, models.FormatDisplay(alarm), alarm.Second, next, alarm.Note)
			}
			return tw.Flush()
		},
	}
}

func updateCommand(da *DeskAlarm) *cobra.Command {
	var (
		hour, minute, second int
		period, note         string
	)

	cmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Change fields of an alarm; only the given flags are applied",
		Example: `  desk-alarm update 3 --period PM`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var fields store.UpdateFields
			flags := cmd.Flags()
			if flags.Changed("hour") {
				if err := models.ValidateHour12(hour); err != nil {
					return err
				}
				fields.Hour12 = &hour
			}
			if flags.Changed("minute") {
				if err := models.ValidateMinute(minute); err != nil {
					return err
				}
				fields.Minute = &minute
			}
			if flags.Changed("second") {
				if err := models.ValidateSecond(second); err != nil {
					return err
				}
				fields.Second = &second
			}
			if flags.Changed("period") {
				p, err := models.ParsePeriod(period)
				if err != nil {
					return err
				}
				fields.Period = &p
			}
			if flags.Changed("note") {
				fields.Note = &note
			}
			if fields == (store.UpdateFields{}) {
				return models.Errorf(models.ErrInvalid, "nothing to update, pass at least one of --hour --minute --second --period --note")
			}

			alarm, found, err := da.alarms.Update(id, fields)
			if err != nil {
				return err
			}
			if !found {
				return models.Errorf(models.ErrNotFound, "alarm #%d does not exist", id)
			}
			printf(cmd.OutOrStdout(), "Updated alarm #%d: %s\n", alarm.ID, models.FormatDisplay(alarm))
			return nil
		},
	}

	cmd.Flags().IntVar(&hour, "hour", 0, "hour on the 12-hour clock (1-12)")
	cmd.Flags().IntVar(&minute, "minute", 0, "minute (0-59)")
	cmd.Flags().IntVar(&second, "second", 0, "second (0-59)")
	cmd.Flags().StringVar(&period, "period", "", "AM or PM")
	cmd.Flags().StringVar(&note, "note", "", "text shown when the alarm fires")

	return cmd
}

func deleteCommand(da *DeskAlarm) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Move an alarm to the history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			found, err := da.alarms.Delete(id)
			if err != nil {
				return err
			}
			if !found {
				return models.Errorf(models.ErrNotFound, "alarm #%d does not exist", id)
			}
			printf(cmd.OutOrStdout(), "Deleted alarm #%d\n", id)
			return nil
		},
	}
}

func historyCommand(da *DeskAlarm) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show deleted alarms, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history := da.alarms.History()
			if len(history) == 0 {
				printf(cmd.OutOrStdout(), "No deleted alarms\n")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printf(tw, "ID\tTIME\tSECOND\tCREATED\tDELETED\tNOTE\n")
			for _, entry := range history {
				printf(tw, "%d\t%s\t%02d\t%s\t%s\t%s\n",
					entry.ID, models.FormatDisplay(entry.Alarm), entry.Second, entry.CreatedAt, entry.DeletedAt, entry.Note)
			}
			return tw.Flush()
		},
	}
}

func exportCommand(da *DeskAlarm) *cobra.Command {
	var (
		output      string
		withHistory bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write alarms as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var history []models.HistoryEntry
			if withHistory {
				history = da.alarms.History()
			}

			alarms := da.alarms.ReadAll()
			if output == "" || output == "-" {
				return calendar.Export(cmd.OutOrStdout(), alarms, history, da.now())
			}

			f, err := da.fs.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := calendar.Export(f, alarms, history, da.now()); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			da.logger.Info("Alarms exported", "file", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")
	cmd.Flags().BoolVar(&withHistory, "history", false, "include deleted alarms as cancelled events")

	return cmd
}

func importCommand(da *DeskAlarm) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import SOURCE",
		Short: "Create alarms from the timed events of an iCalendar file or URL",
		Long: `Create one alarm per timed event, at the event's local start time.
Cancelled and all-day events are skipped, and so are events matching an
existing alarm's time and note.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := calendar.Fetch(cmd.Context(), da.fs, args[0])
			if err != nil {
				return err
			}
			drafts, err := calendar.Import(data, da.logger)
			if err != nil {
				return models.Errorf(models.ErrInvalid, "%s: %v", args[0], err)
			}

			existing := make(map[string]bool)
			for _, alarm := range da.alarms.ReadAll() {
				existing[calendar.AlarmKey(alarm)] = true
			}

			created := 0
			for _, d := range drafts {
				if existing[d.Key()] {
					continue
				}
				if err := models.ValidateTime(d.Hour12, d.Minute, d.Second, d.Period); err != nil {
					da.logger.Warn("Skipping event", "uid", d.UID, logger.Err(err))
					continue
				}
				if dryRun {
					printf(cmd.OutOrStdout(), "Would create %02d:%02d:%02d %s %s\n", d.Hour12, d.Minute, d.Second, d.Period, d.Note)
				} else {
					alarm, err := da.alarms.Create(d.Hour12, d.Minute, d.Second, d.Period, d.Note)
					if err != nil {
						return err
					}
					printf(cmd.OutOrStdout(), "Created alarm #%d at %s %s\n", alarm.ID, models.FormatDisplay(alarm), alarm.Note)
				}
				existing[d.Key()] = true
				created++
			}

			verb := "Imported"
			if dryRun {
				verb = "Would import"
			}
			printf(cmd.OutOrStdout(), "%s %d of %d events\n", verb, created, len(drafts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the alarms without creating them")

	return cmd
}

func configCommand(da *DeskAlarm) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asYAML {
				data, err := yaml.Marshal(da.config)
				if err != nil {
					return fmt.Errorf("failed to encode config: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			v := da.configStore.Viper()
			keys := v.AllKeys()
			sort.Strings(keys)

			w := cmd.OutOrStdout()
			printf(w, "# %s\n", da.configStore.Path())
			for _, key := range keys {
				printf(w, "%s = %v\n", key, v.Get(key))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the decoded configuration as YAML")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := afero.Exists(da.fs, da.configStore.Path())
			if err != nil {
				return err
			}
			if exists && !force {
				return models.Errorf(models.ErrInvalid, "%s already exists, use --force to overwrite", da.configStore.Path())
			}
			if err := da.configStore.Save(da.config); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Wrote %s\n", da.configStore.Path())
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id <= 0 {
		return 0, models.Errorf(models.ErrInvalid, "invalid alarm id %q", arg)
	}
	return id, nil
}
