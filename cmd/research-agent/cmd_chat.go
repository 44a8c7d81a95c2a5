package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallnest/researchagent/chat"
	"github.com/smallnest/researchagent/model"
)

var chatFlags struct {
	prompt      string
	stream      bool
	interactive bool
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Send a single prompt to the model",
	RunE:  runChat,
}

func init() {
	f := chatCmd.Flags()
	f.StringVar(&chatFlags.prompt, "prompt", "", "Prompt to send")
	f.BoolVar(&chatFlags.stream, "stream", false, "Stream the response as it is generated")
	f.BoolVar(&chatFlags.interactive, "interactive", false, "Hold a multi-turn conversation on stdin")

	chatCmd.MarkFlagsOneRequired("prompt", "interactive")
	chatCmd.MarkFlagsMutuallyExclusive("prompt", "interactive")
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := newModel(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if chatFlags.interactive {
		return runChatLoop(ctx, cmd, m)
	}

	if chatFlags.stream {
		err := chat.RunStream(ctx, m, chatFlags.prompt, func(chunk string) error {
			_, werr := fmt.Fprint(out, chunk)
			return werr
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		return nil
	}

	result, err := chat.Run(ctx, m, chatFlags.prompt)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, answerStyle.Render(result.Response))
	fmt.Fprintln(out, timingStyle.Render(fmt.Sprintf("took %v", result.GenerationTime.Round(timeRounding))))
	return nil
}

// runChatLoop reads prompts line by line from stdin, keeping the
// conversation in a bounded history so each turn sees the previous ones.
func runChatLoop(ctx context.Context, cmd *cobra.Command, m model.Model) error {
	out := cmd.OutOrStdout()
	history := chat.NewHistory(chat.DefaultHistoryLimit)

	fmt.Fprintln(out, headingStyle.Render("Chat session (empty line to quit)"))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			break
		}

		result, err := chat.RunWithHistory(ctx, m, history, prompt)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("Error: "+err.Error()))
			continue
		}
		fmt.Fprintln(out, answerStyle.Render(result.Response))
	}
	return scanner.Err()
}
