package main

import (
	"os"

	ageService "ProjectFusion/internal/api/age/service"
	"ProjectFusion/pkg/log"
	"ProjectFusion/pkg/utils"
	websocketPkg "ProjectFusion/pkg/websocket"

	jsoniter "github.com/json-iterator/go"
	cli "github.com/spf13/cobra"
)

var ageCmd = &cli.Command{
	Use:   "age <image>",
	Short: "Predict the age bucket of the face in an image",
	Args:  cli.ExactArgs(1),
	RunE:  PredictAge,
}

func init() {
	rootCmd.AddCommand(ageCmd)

	ageCmd.Flags().StringP("provider", "p", "", "Classifier backend: inference or gemini.")
}

func PredictAge(cmd *cli.Command, args []string) error {
	provider, _ := cmd.Flags().GetString("provider")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	logger := log.NewLogger()
	inference := websocketPkg.NewFromEnv(logger)
	defer inference.Close()

	svc := ageService.New(logger, ageService.NewClassifierHandle(provider, inference), nil, utils.New())
	defer svc.Close()

	prediction := svc.PredictAge(cmd.Context(), data)

	encoder := jsoniter.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(prediction)
}
