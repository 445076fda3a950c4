package main

import (
	"fmt"

	"github.com/devicerescue/devicerescue/pkg/cmdexec"
	"github.com/devicerescue/devicerescue/pkg/edl"
	"github.com/devicerescue/devicerescue/pkg/tools"
	"github.com/spf13/cobra"
)

func newToolkit() *edl.Toolkit {
	return edl.NewToolkit(newDispatcher(), tools.PathResolver{}, cmdexec.ExecRunner{})
}

func newEDLCmd() *cobra.Command {
	var deviceID string
	var extra []string

	cmd := &cobra.Command{
		Use:   "edl",
		Short: "Low-level EDL operations (Qualcomm)",
	}
	cmd.PersistentFlags().StringVar(&deviceID, "id", "", "Device identifier (adb serial)")
	cmd.PersistentFlags().StringArrayVar(&extra, "set", nil, "Extra context key=value (repeatable)")

	flash := &cobra.Command{
		Use:   "flash <partition> <image>",
		Short: "Flash an image onto a partition through the EDL loader",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dctx, err := buildContext(cmd, deviceID, extra)
			if err != nil {
				return err
			}
			printActionResult(newToolkit().Flash(dctx, args[0], args[1], rootLoaderPath))
			return nil
		},
	}

	dump := &cobra.Command{
		Use:   "dump <partition> <out>",
		Short: "Dump a partition to a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dctx, err := buildContext(cmd, deviceID, extra)
			if err != nil {
				return err
			}
			printActionResult(newToolkit().Dump(dctx, args[0], args[1], rootLoaderPath))
			return nil
		},
	}

	parts := &cobra.Command{
		Use:   "parts",
		Short: "Read the device partition table",
		RunE: func(cmd *cobra.Command, args []string) error {
			dctx, err := buildContext(cmd, deviceID, extra)
			if err != nil {
				return err
			}
			res := newToolkit().ReadPartitionTable(dctx, rootLoaderPath)
			printActionResult(res)
			if res.Success {
				for _, name := range edl.PartitionNames(res.Data["output"]) {
					fmt.Println(name)
				}
			}
			return nil
		},
	}

	backup := &cobra.Command{
		Use:   "backup <partition> <out>",
		Short: "Back up a partition (refuses to overwrite)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dctx, err := buildContext(cmd, deviceID, extra)
			if err != nil {
				return err
			}
			printActionResult(newToolkit().BackupPartition(dctx, args[0], args[1], rootLoaderPath))
			return nil
		},
	}

	restore := &cobra.Command{
		Use:   "restore <partition> <image>",
		Short: "Restore a previously dumped partition image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dctx, err := buildContext(cmd, deviceID, extra)
			if err != nil {
				return err
			}
			printActionResult(newToolkit().RestorePartition(dctx, args[0], args[1], rootLoaderPath))
			return nil
		},
	}

	sparse := &cobra.Command{
		Use:   "sparse <sparse-image> <raw-out>",
		Short: "Convert an Android sparse image to a raw image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			printActionResult(newToolkit().ConvertSparseImage(args[0], args[1]))
			return nil
		},
	}

	hash := &cobra.Command{
		Use:   "hash <file> [expected-sha256]",
		Short: "Compute (and optionally verify) a file's SHA-256",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected := ""
			if len(args) == 2 {
				expected = args[1]
			}
			printActionResult(edl.VerifyHash(args[0], expected))
			return nil
		},
	}

	checklist := &cobra.Command{
		Use:   "checklist",
		Short: "Evaluate EDL recovery preconditions",
		RunE: func(cmd *cobra.Command, args []string) error {
			dctx, err := buildContext(cmd, deviceID, extra)
			if err != nil {
				return err
			}
			for _, item := range newToolkit().RecoveryChecklist(dctx) {
				verdict := "FAIL"
				if item.OK {
					verdict = "PASS"
				}
				fmt.Printf("%s  %-12s %s\n", verdict, item.Name, item.Detail)
			}
			return nil
		},
	}

	cmd.AddCommand(flash, dump, parts, backup, restore, sparse, hash, checklist)
	return cmd
}
