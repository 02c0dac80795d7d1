package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/chatsched/chatsched/client"
	"github.com/chatsched/chatsched/dashboard"
	"github.com/chatsched/chatsched/db/entities"
	"github.com/chatsched/chatsched/pkg/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type dashOptions struct {
	url  string
	mock bool
}

func (o *dashOptions) session(cmd *cobra.Command) (*dashboard.Session, error) {
	cfg, err := initConfig(configurationFile)
	if err != nil {
		return nil, err
	}
	if o.url != "" {
		cfg.Client.URL = o.url
	}
	if cmd.Flags().Changed("mock") {
		cfg.Client.Mock = o.mock
	}
	if err := cfg.Client.Validate(); err != nil {
		return nil, err
	}

	log := zap.NewNop().Sugar()
	if verbose {
		log = zap.Must(zap.NewDevelopment()).Sugar()
	}
	return dashboard.NewSession(client.New(cfg.Client), dashboard.Options{Log: log}), nil
}

// connect opens a session and connects the workspace.
func (o *dashOptions) connect(cmd *cobra.Command) (*dashboard.Session, error) {
	s, err := o.session(cmd)
	if err != nil {
		return nil, err
	}
	if f := s.Connect(cmd.Context()); f.IsError() {
		return nil, errors.New(f.Message)
	}
	return s, nil
}

func feedback(cmd *cobra.Command, f dashboard.Feedback) error {
	if f.IsError() {
		return errors.New(f.Message)
	}
	cmd.Println(f.Message)
	return nil
}

func printMessages(w io.Writer, messages []*entities.ScheduledMessage) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCHANNEL\tSTATUS\tSCHEDULED\tCONTENT")
	for _, msg := range messages {
		_, _ = fmt.Fprintf(tw, "%s\t#%s\t%s\t%s\t%s\n",
			msg.ID,
			msg.ChannelName,
			msg.Status,
			msg.ScheduledTime.Local().Format(time.DateTime),
			msg.Content,
		)
	}
	_ = tw.Flush()
}

// parseScheduleTime accepts an RFC 3339 time or a duration from now.
func parseScheduleTime(at string, in time.Duration, now time.Time) (time.Time, error) {
	switch {
	case at != "" && in != 0:
		return time.Time{}, errors.New("--at and --in are mutually exclusive")
	case at != "":
		var t types.Time
		if err := t.UnmarshalJSON([]byte(`"` + at + `"`)); err != nil {
			return time.Time{}, fmt.Errorf("invalid --at: %w", err)
		}
		return t.Time, nil
	case in != 0:
		return now.Add(in), nil
	}
	return time.Time{}, errors.New("one of --at or --in is required")
}

func newDashCmd() *cobra.Command {
	opts := &dashOptions{}

	dash := &cobra.Command{
		Use:   "dash",
		Short: "Dashboard commands",
		Long:  `Connect to the workspace, send and schedule messages, and manage scheduled messages.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Context() == nil {
				cmd.SetContext(context.Background())
			}
		},
	}

	dash.PersistentFlags().StringVarP(&opts.url, "url", "", "", "HTTP address of the admin API (defaults to client.url).")
	dash.PersistentFlags().BoolVarP(&opts.mock, "mock", "", false, "Use the in-memory mocked workspace.")

	dash.AddCommand(&cobra.Command{
		Use:   "connect",
		Short: "Connect the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			f := s.Connect(cmd.Context())
			if err := feedback(cmd, f); err != nil {
				return err
			}
			ws := s.Workspace()
			cmd.Printf("%s (%s) %s\n", ws.Name, ws.Domain, ws.ID)
			return nil
		},
	})

	dash.AddCommand(&cobra.Command{
		Use:   "channels",
		Short: "List channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			channels, err := s.LoadChannels(cmd.Context())
			if err != nil {
				return err
			}
			for _, ch := range channels {
				if ch.IsPrivate {
					cmd.Printf("%s\t#%s (Private)\n", ch.ID, ch.Name)
				} else {
					cmd.Printf("%s\t#%s\n", ch.ID, ch.Name)
				}
			}
			return nil
		},
	})

	dash.AddCommand(&cobra.Command{
		Use:   "send CHANNEL_ID MESSAGE",
		Short: "Send a message now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			f, err := s.SendNow(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return feedback(cmd, f)
		},
	})

	var (
		at string
		in time.Duration
	)
	schedule := &cobra.Command{
		Use:   "schedule CHANNEL_ID MESSAGE",
		Short: "Schedule a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseScheduleTime(at, in, time.Now())
			if err != nil {
				return err
			}
			s, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			f, err := s.Schedule(cmd.Context(), args[0], args[1], when)
			if err != nil {
				return err
			}
			return feedback(cmd, f)
		},
	}
	schedule.Flags().StringVarP(&at, "at", "", "", "Delivery time in RFC 3339, e.g. 2026-10-20T09:00:00Z.")
	schedule.Flags().DurationVarP(&in, "in", "", 0, "Delivery delay from now, e.g. 2h.")
	dash.AddCommand(schedule)

	dash.AddCommand(&cobra.Command{
		Use:   "scheduled",
		Short: "List scheduled messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			messages, err := s.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			printMessages(cmd.OutOrStdout(), messages)
			return nil
		},
	})

	dash.AddCommand(&cobra.Command{
		Use:   "cancel MESSAGE_ID",
		Short: "Cancel a scheduled message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			if err := s.Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("message %s cancelled\n", args[0])
			return nil
		},
	})

	return dash
}
