package cmd

import (
	"errors"

	"github.com/chatsched/chatsched/db/migrator"
	"github.com/spf13/cobra"
)

var (
	quiet bool
)

func newDatabaseResetCmd() *cobra.Command {
	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Reset the database",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig(configurationFile)
			if err != nil {
				return err
			}
			if !yes {
				if !prompt(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure? This operation is irreversible.") {
					return errors.New("canceled")
				}
			}
			m := migrator.New(&cfg.Database)
			if !quiet {
				cmd.Println("resetting database...")
			}
			if err := m.Reset(); err != nil {
				return err
			}
			if !quiet {
				cmd.Println("database successfully reset")
			}
			return nil
		},
	}
	reset.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "yes")
	return reset
}

func newDatabaseCmd() *cobra.Command {

	database := &cobra.Command{
		Use:   "db",
		Short: "Database commands",
		Long:  ``,
	}

	database.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	database.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the migration status",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig(configurationFile)
			if err != nil {
				return err
			}
			status, err := migrator.New(&cfg.Database).Status()
			if err != nil {
				return err
			}
			cmd.Println(status)
			return nil
		},
	})

	database.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run any new migrations",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig(configurationFile)
			if err != nil {
				return err
			}
			if err := migrator.New(&cfg.Database).Up(); err != nil {
				return err
			}
			if !quiet {
				cmd.Println("database is up-to-date")
			}
			return nil
		},
	})

	database.AddCommand(newDatabaseResetCmd())

	return database
}
