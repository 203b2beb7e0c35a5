package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "forex-trading",
	Short: "Event-driven forex backtesting engine with ML-based signals",
}

func Execute() error {
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(indicatorsCmd)
	return rootCmd.Execute()
}
