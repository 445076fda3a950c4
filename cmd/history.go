package main

import (
	"fmt"

	"github.com/devicerescue/devicerescue/internal/storage"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var deviceID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent workflow events",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.OpenEventStore("")
			if err != nil {
				return errors.Wrap(err, "open event store")
			}
			defer store.Close()

			events, err := store.RecentEvents(deviceID, limit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("no workflow events recorded")
				return nil
			}
			for _, ev := range events {
				fmt.Printf("%s  %-7s %-16s %s\n",
					ev.At.Format("2006-01-02 15:04:05"), ev.Level, ev.DeviceID, ev.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&deviceID, "id", "", "Filter by device identifier")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum events to show")
	return cmd
}
