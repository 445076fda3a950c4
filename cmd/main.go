package main

import (
	"os"

	envload "github.com/devicerescue/devicerescue/internal"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devicerescue",
	Short: "Detect and repair USB-attached mobile devices",
	Long: `devicerescue classifies attached devices by chipset (Qualcomm, MediaTek,
Samsung Exynos), switches them into low-level recovery modes, drives EDL
flash/dump operations through installed vendor tools, and runs a guided
scan-and-remediate workflow against a single device.`,
}

var (
	rootChipsetOverride string
	rootLoaderPath      string
)

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	rootCmd.PersistentFlags().StringVar(&rootChipsetOverride, "chipset", "", "Force a chipset handler instead of auto-detection")
	rootCmd.PersistentFlags().StringVar(&rootLoaderPath, "loader", "", "EDL loader (firehose programmer) path")
	rootCmd.AddCommand(
		newDetectCmd(),
		newEnterModeCmd(),
		newRecoverCmd(),
		newRepairCmd(),
		newEDLCmd(),
		newHistoryCmd(),
	)
	_ = envload.Ensure()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("devicerescue command failed")
	}
}
