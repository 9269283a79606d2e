package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ProjectFusion/pkg/log"

	"github.com/joho/godotenv"
	cli "github.com/spf13/cobra"
)

var rootCmd = &cli.Command{
	Use:           "fusion",
	Short:         "Face fusion, age prediction and translation from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cli.Command, args []string) {
		envFile, _ := cmd.Flags().GetString("env")
		if err := godotenv.Load(envFile); err != nil {
			log.NewLogger().Debugf("No env file loaded from %s: %v", envFile, err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("env", "e", ".env", "Path to the env file to load.")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.NewLogger().Errorf("ERROR: %v", err)
		stop()
		os.Exit(1)
	}
}
