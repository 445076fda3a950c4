package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDetectCmd() *cobra.Command {
	var deviceID string
	var extra []string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Classify a device's chipset and low-level mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			dctx, err := buildContext(cmd, deviceID, extra)
			if err != nil {
				return err
			}
			det := newDispatcher().DetectChipset(dctx)
			if det == nil {
				fmt.Println("no detection")
				return nil
			}
			fmt.Printf("chipset:    %s\n", det.Chipset)
			fmt.Printf("vendor:     %s\n", det.Vendor)
			fmt.Printf("mode:       %s\n", det.Mode)
			fmt.Printf("confidence: %.2f\n", det.Confidence)
			for _, note := range det.Notes {
				fmt.Printf("note:       %s\n", note)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&deviceID, "id", "", "Device identifier (adb serial)")
	cmd.Flags().StringArrayVar(&extra, "set", nil, "Extra context key=value (repeatable)")
	return cmd
}
