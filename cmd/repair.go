package main

import (
	"fmt"

	adbprovider "github.com/devicerescue/devicerescue/internal/providers/adb"
	"github.com/devicerescue/devicerescue/internal/storage"
	"github.com/devicerescue/devicerescue/pkg/cmdexec"
	"github.com/devicerescue/devicerescue/pkg/edl"
	"github.com/devicerescue/devicerescue/pkg/repairflow"
	"github.com/devicerescue/devicerescue/pkg/tools"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRepairCmd() *cobra.Command {
	var autoConfirm bool

	cmd := &cobra.Command{
		Use:   "repair <device-id>",
		Short: "Run the scan-and-remediate workflow against one device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID := args[0]

			provider, err := adbprovider.NewDefault()
			if err != nil {
				return errors.Wrap(err, "init adb provider")
			}
			sink, err := storage.OpenEventStore("")
			if err != nil {
				log.Warn().Err(err).Msg("event store unavailable, continuing without history")
			} else {
				defer sink.Close()
			}

			resolver := tools.PathResolver{}
			runner := cmdexec.ExecRunner{}
			cfg := repairflow.Config{
				Runner:      runner,
				Provider:    provider,
				Resolver:    resolver,
				Shell:       provider,
				Partitions:  edl.NewToolkit(newDispatcher(), resolver, runner),
				Performance: &adbprovider.PerformanceAnalyzer{Provider: provider},
				Network:     &adbprovider.NetworkAnalyzer{Provider: provider},
				Display:     &adbprovider.DisplayAnalyzer{Provider: provider},
				SetupWizard: &adbprovider.SetupWizardAnalyzer{Provider: provider},
				LoaderPath:  rootLoaderPath,
				Progress: func(message string) {
					fmt.Println("..", message)
				},
			}
			if sink != nil {
				cfg.Sink = sink
			}
			if autoConfirm {
				cfg.Confirm = func(prompt string) bool { return true }
			} else {
				cfg.Confirm = promptConfirm
			}

			result := repairflow.New(cfg).Run(cmd.Context(), deviceID)
			printRepairResult(result)
			if !result.Success {
				return errors.New(result.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&autoConfirm, "yes", false, "Apply every remediation action without prompting")
	return cmd
}

func printRepairResult(result repairflow.Result) {
	fmt.Printf("run %s for device %s\n", result.RunID, result.DeviceID)
	fmt.Printf("initialize: %s\n", result.Initialize.Message)
	if !result.Initialize.Success {
		return
	}
	fmt.Printf("scan:       %s (%d partitions)\n", result.Scan.Message, len(result.Scan.Partitions))
	fmt.Printf("remediate:  %s\n", result.Remediate.Message)
	for _, action := range result.Remediate.Actions {
		switch {
		case action.Skipped:
			fmt.Printf("  - %-24s skipped (%s)\n", action.Name, action.Reason)
		case action.Success:
			fmt.Printf("  - %-24s applied\n", action.Name)
		default:
			fmt.Printf("  - %-24s FAILED\n", action.Name)
			for _, step := range action.Steps {
				if !step.Success {
					fmt.Printf("      %s: %s\n", step.Command, step.Detail)
				}
			}
		}
	}
	fmt.Printf("verify:     %s (interfaces %d -> %d, applied %d, skipped %d)\n",
		result.Verify.Message,
		result.Verify.InterfacesBefore, result.Verify.InterfacesAfter,
		result.Verify.ActionsApplied, result.Verify.ActionsSkipped)
}
