package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallnest/researchagent/hello"
)

var helloFlags struct {
	useModel bool
}

var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Run the hello-world graph demonstration",
	RunE:  runHello,
}

func init() {
	helloCmd.Flags().BoolVar(&helloFlags.useModel, "use-model", false, "Generate the texts with the configured model")
}

func runHello(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var opts []hello.Option
	if helloFlags.useModel {
		m, err := newModel(cfg)
		if err != nil {
			return err
		}
		opts = append(opts, hello.WithModel(m))
	}

	result, err := hello.Run(cmd.Context(), opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, answerStyle.Render(result.Message))
	for _, rec := range result.History {
		fmt.Fprintln(out, timingStyle.Render(fmt.Sprintf("%-8s %v", rec.Node, rec.Duration.Round(timeRounding))))
	}
	return nil
}
