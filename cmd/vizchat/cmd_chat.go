package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/vizchat/chatapi"
	"github.com/spektr-org/vizchat/descriptor"
	"github.com/spektr-org/vizchat/engine"
	"github.com/spektr-org/vizchat/render"
)

var chatFlags struct {
	format  string
	preview bool
	replay  int
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat; charts are written to the output directory",
	Long: `Starts (or resumes) a conversation with the backend. Each reply that carries
a visualization is rendered into the output directory and previewed as a table.

Commands:
  /reset   clear the conversation and start a new one
  /quit    exit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatFlags.format, "format", "", "chart file format (default from config, png)")
	chatCmd.Flags().BoolVar(&chatFlags.preview, "preview", true, "print a table preview of each chart")
	chatCmd.Flags().IntVar(&chatFlags.replay, "replay", 6, "number of history messages to show on resume")
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	format, err := defaultFormat(chatFlags.format)
	if err != nil {
		return err
	}
	client, sessions := newChat()

	st, err := sessions.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if st.Resumed {
		history, err := client.History(ctx, st.ChatID)
		var apiErr *chatapi.APIError
		switch {
		case errors.As(err, &apiErr):
			logger.Warn("stored chat rejected, starting over", zap.String("chat_id", st.ChatID), zap.Error(err))
			if err := sessions.Forget(); err != nil {
				return err
			}
			if st, err = sessions.Bootstrap(ctx); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			replay(history)
		}
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("chat %s (/reset, /quit)", st.ChatID)))

	turn := 0
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(userStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			st, err = sessions.Reset(ctx)
			if err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
				continue
			}
			fmt.Println(dimStyle.Render("new chat " + st.ChatID))
			continue
		}

		reply, err := client.Send(ctx, st.ChatID, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		printMessage(reply)
		if reply.HasVisualization() {
			turn++
			showChart(reply, turn, format)
		}
	}
}

func replay(history []descriptor.Message) {
	start := 0
	if chatFlags.replay >= 0 && len(history) > chatFlags.replay {
		start = len(history) - chatFlags.replay
		fmt.Println(dimStyle.Render(fmt.Sprintf("... %d earlier messages", start)))
	}
	for _, m := range history[start:] {
		printMessage(m)
		if m.HasVisualization() {
			fmt.Println(dimStyle.Render("  [chart] " + engine.Caption(m.Resolve(engineOptions()...))))
		}
	}
}

func showChart(m descriptor.Message, turn int, format render.Format) {
	result := m.Resolve(engineOptions()...)
	if result.Type != "chart" {
		fmt.Println(noticeStyle.Render("  " + result.Notice))
		return
	}
	stamp := time.Now().Format("150405")
	path := filepath.Join(cfg.OutputDir, chartFileName(turn, stamp+" "+result.Title, format))
	if err := writeOutput(result, format, path); err != nil {
		fmt.Println(errorStyle.Render("  " + err.Error()))
		return
	}
	fmt.Println(dimStyle.Render("  " + engine.Caption(result) + " -> " + path))
	if chatFlags.preview {
		fmt.Println(render.Table(engine.BuildTable(result.Spec), false))
	}
}
