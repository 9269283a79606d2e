package main

import (
	"fmt"

	filesService "ProjectFusion/internal/api/files/service"
	fusionService "ProjectFusion/internal/api/fusion/service"
	"ProjectFusion/internal/config"
	"ProjectFusion/internal/entity"
	"ProjectFusion/pkg/filestore"
	"ProjectFusion/pkg/frameprocessor"
	"ProjectFusion/pkg/log"
	websocketPkg "ProjectFusion/pkg/websocket"

	cli "github.com/spf13/cobra"
)

var runCmd = &cli.Command{
	Use:   "run",
	Short: "Swap the source face into the target image",
	RunE:  RunFusion,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("source", "s", "", "Path to the source face image.")
	runCmd.Flags().StringP("target", "t", "", "Path to the target image.")
	runCmd.Flags().StringP("output", "o", ".", "Output file or directory.")
	runCmd.Flags().StringSlice("processors", entity.DefaultFusionConfig().FrameProcessors, "Frame processors to apply, in order.")
	runCmd.Flags().Int("max-memory", 0, "Memory cap in GiB, overrides FUSION_MAX_MEMORY.")

	_ = runCmd.MarkFlagRequired("source")
	_ = runCmd.MarkFlagRequired("target")
}

func RunFusion(cmd *cli.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	target, _ := cmd.Flags().GetString("target")
	output, _ := cmd.Flags().GetString("output")
	processors, _ := cmd.Flags().GetStringSlice("processors")
	maxMemory, _ := cmd.Flags().GetInt("max-memory")

	logger := log.NewLogger()

	cfg := config.FusionConfigFromEnv()
	cfg.FrameProcessors = processors
	if maxMemory > 0 {
		cfg.MaxMemory = maxMemory
	}

	inference := websocketPkg.NewFromEnv(logger)
	defer inference.Close()

	store, err := filestore.NewFromEnv(logger)
	if err != nil {
		return err
	}

	svc := fusionService.New(
		logger,
		cfg,
		frameprocessor.NewRemoteAnalyser(cfg, inference),
		frameprocessor.NewDefaultRegistry(cfg, inference, logger),
		store,
		filesService.New(logger, store, nil, nil),
	)

	outputPath, err := svc.Run(cmd.Context(), source, target, output)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), outputPath)
	return nil
}
