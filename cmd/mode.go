package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newEnterModeCmd() *cobra.Command {
	var deviceID, target string
	var extra []string

	cmd := &cobra.Command{
		Use:   "enter-mode",
		Short: "Switch a device into a low-level mode (edl, download, fastboot)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				return errors.New("--target is required")
			}
			dctx, err := buildContext(cmd, deviceID, extra)
			if err != nil {
				return err
			}
			res := newDispatcher().EnterChipsetMode(dctx, target, rootChipsetOverride)
			printActionResult(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&deviceID, "id", "", "Device identifier (adb serial)")
	cmd.Flags().StringVar(&target, "target", "", "Target mode")
	cmd.Flags().StringArrayVar(&extra, "set", nil, "Extra context key=value (repeatable)")
	return cmd
}

func newRecoverCmd() *cobra.Command {
	var deviceID string
	var extra []string

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Check vendor recovery tooling for a device",
		RunE: func(cmd *cobra.Command, args []string) error {
			dctx, err := buildContext(cmd, deviceID, extra)
			if err != nil {
				return err
			}
			res := newDispatcher().RecoverChipsetDevice(dctx, rootChipsetOverride)
			printActionResult(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&deviceID, "id", "", "Device identifier (adb serial)")
	cmd.Flags().StringArrayVar(&extra, "set", nil, "Extra context key=value (repeatable)")
	return cmd
}
