package main

import (
	"strings"

	translateService "ProjectFusion/internal/api/translate/service"
	"ProjectFusion/pkg/langdetect"
	"ProjectFusion/pkg/log"

	jsoniter "github.com/json-iterator/go"
	cli "github.com/spf13/cobra"
)

var translateCmd = &cli.Command{
	Use:   "translate <text>",
	Short: "Translate a prompt into English",
	Args:  cli.MinimumNArgs(1),
	RunE:  TranslatePrompt,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringP("provider", "p", "", "Translation backend: gemini or openai.")
}

func TranslatePrompt(cmd *cli.Command, args []string) error {
	provider, _ := cmd.Flags().GetString("provider")

	svc := translateService.New(log.NewLogger(), langdetect.New(), translateService.NewTranslatorHandle(provider), nil)
	defer svc.Close()

	result := svc.Translate(cmd.Context(), strings.Join(args, " "))

	encoder := jsoniter.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
