package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/vizchat/artifact"
	"github.com/spektr-org/vizchat/engine"
	"github.com/spektr-org/vizchat/render"
)

var historyFlags struct {
	format   string
	parallel int
	upload   bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Render every chart in the current conversation",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "", "chart file format (default from config, png)")
	historyCmd.Flags().IntVarP(&historyFlags.parallel, "parallel", "p", 4, "charts rendered at once")
	historyCmd.Flags().BoolVar(&historyFlags.upload, "upload", false, "upload each chart to S3-compatible storage")
}

type historyRow struct {
	index   int
	caption string
	path    string
	url     string
	notice  string
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	format, err := defaultFormat(historyFlags.format)
	if err != nil {
		return err
	}
	client, sessions := newChat()
	st, err := sessions.Bootstrap(ctx)
	if err != nil {
		return err
	}
	messages, err := client.History(ctx, st.ChatID)
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		rows []historyRow
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, historyFlags.parallel))
	for i, m := range messages {
		if !m.HasVisualization() {
			continue
		}
		g.Go(func() error {
			row := historyRow{index: i + 1}
			result := m.Resolve(engineOptions()...)
			if result.Type != "chart" {
				row.notice = result.Notice
			} else if out, err := render.Render(result, format, renderOptions()); err != nil {
				logger.Warn("chart not rendered", zap.Int("message", i+1), zap.Error(err))
				row.notice = err.Error()
			} else {
				row.caption = engine.Caption(result)
				name := chartFileName(i+1, result.Title, format)
				row.path = filepath.Join(cfg.OutputDir, st.ChatID, name)
				if err := writeFile(row.path, out); err != nil {
					return fmt.Errorf("message %d: %w", i+1, err)
				}
				if historyFlags.upload {
					url, err := upload(gCtx, row.path, artifact.ChartKey(st.ChatID, strings.TrimSuffix(name, filepath.Ext(name)), format.Extension()), format)
					if err != nil {
						return fmt.Errorf("message %d: %w", i+1, err)
					}
					row.url = url
				}
			}
			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("history rendered", zap.String("chat_id", st.ChatID), zap.Int("messages", len(messages)), zap.Int("charts", len(rows)))
	printHistory(cmd.OutOrStdout(), rows)
	return nil
}

func printHistory(w io.Writer, rows []historyRow) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Chart", "File"})
	t.SortBy([]table.SortBy{{Name: "#", Mode: table.AscNumeric}})
	for _, r := range rows {
		if r.notice != "" {
			t.AppendRow(table.Row{r.index, noticeStyle.Render(r.notice), ""})
			continue
		}
		file := r.path
		if r.url != "" {
			file += "\n" + r.url
		}
		t.AppendRow(table.Row{r.index, r.caption, file})
	}
	fmt.Fprintln(w, t.Render())
}
