package engine

import (
	"errors"
	"fmt"
)

// ============================================================================
// TEXT BUILDER: user-facing placeholders and notices
// ============================================================================

const (
	NoticeNoData      = "No chart data available"
	NoticeNoFields    = "Chart unavailable: the data has no fields to plot"
	noticeUnknownKind = "unknown chart type: %s"
	noticeGroupValue  = "Chart unavailable: %q has no value for group %q"
)

// NoticeFor maps a resolution error onto the text shown in place of a chart.
func NoticeFor(err error) string {
	var kindErr *UnsupportedKindError
	if errors.As(err, &kindErr) {
		return fmt.Sprintf(noticeUnknownKind, kindErr.Kind)
	}
	var groupErr *GroupValueError
	if errors.As(err, &groupErr) {
		return fmt.Sprintf(noticeGroupValue, groupErr.Category, groupErr.Group)
	}
	if errors.Is(err, ErrUnresolvableKeys) {
		return NoticeNoFields
	}
	return NoticeNoData
}

// Caption summarizes a rendered chart in one line, e.g. for terminal output:
// "bar: Total by Region (4 points)".
func Caption(r *Result) string {
	if r == nil || r.Type == "none" {
		return ""
	}
	if r.Type == "notice" {
		return r.Notice
	}
	c := r.ChartConfig
	title := c.Title
	if title == "" {
		switch c.ChartType {
		case "scatter":
			title = fmt.Sprintf("%s vs %s", c.YAxis, c.XAxis)
		case "grouped_bar":
			title = fmt.Sprintf("%d series by %s", len(c.Series), c.XAxis)
		default:
			title = fmt.Sprintf("%s by %s", LabelForField(c.YAxis, c.YKey), c.XAxis)
		}
	}
	points := 0
	if len(c.Series) > 0 {
		points = len(c.Series[0].Data)
	}
	return fmt.Sprintf("%s: %s (%d points)", c.ChartType, title, points)
}
