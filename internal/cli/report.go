package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

// RenderPeriodReport renders the period metrics as a styled terminal report.
func RenderPeriodReport(metrics *model.PeriodMetrics) string {
	var b strings.Builder

	b.WriteString(FormatTitle(fmt.Sprintf("来院分析 %s 〜 %s",
		metrics.Start.Format("2006-01-02"), metrics.End.Format("2006-01-02"))))
	b.WriteString("\n")

	summary := [][2]string{
		{"総売上", formatYen(metrics.TotalRevenue)},
		{"新規患者数", fmt.Sprintf("%d", len(metrics.NewPatients))},
		{"既存患者数", fmt.Sprintf("%d", len(metrics.ExistingPatients))},
		{"その他件数", fmt.Sprintf("%d", len(metrics.OtherPatients))},
		{"新規平均単価（当日）", formatYen(metrics.SameDayNewAverage)},
		{"新規平均単価（累計）", formatYen(metrics.NewAverage)},
		{"既存平均単価（累計）", formatYen(metrics.ExistingAverage)},
	}

	var rows []string
	for _, row := range summary {
		rows = append(rows, TableCellStyle.Render(BoldStyle.Render(row[0]))+row[1])
	}
	b.WriteString(RenderBox("サマリー", strings.Join(rows, "\n")))
	b.WriteString("\n")

	if len(metrics.CategoryTotals) > 0 {
		b.WriteString(renderCategoryTotals(metrics.CategoryTotals))
	}

	return b.String()
}

func renderCategoryTotals(totals map[string]float64) string {
	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return totals[categories[i]] > totals[categories[j]]
	})

	var rows []string
	for _, category := range categories {
		rows = append(rows, TableCellStyle.Render(category)+formatYen(totals[category]))
	}
	return RenderBox("カテゴリ別売上", strings.Join(rows, "\n"))
}

// RenderTransitionMatrix renders one matrix as an aligned text grid.
func RenderTransitionMatrix(title string, matrix *model.TransitionMatrix) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")

	if len(matrix.Categories) == 0 {
		b.WriteString(SubtleStyle.Render("対象データなし"))
		b.WriteString("\n")
		return b.String()
	}

	width := 0
	for _, c := range matrix.Categories {
		if w := lipgloss.Width(c); w > width {
			width = w
		}
	}

	header := pad("初回カテゴリ", width)
	for _, to := range matrix.Categories {
		header += "  " + pad(to, width)
	}
	header += "  " + pad("合計", width)
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, from := range matrix.Categories {
		row := pad(from, width)
		for _, to := range matrix.Categories {
			row += "  " + pad(fmt.Sprintf("%d", matrix.Count(from, to)), width)
		}
		row += "  " + pad(fmt.Sprintf("%d", matrix.RowTotal(from)), width)
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHolidayCalendar renders the observed calendar, highlighting days with
// no appointments.
func RenderHolidayCalendar(calendar model.HolidayCalendar) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("休診日 %d日 / 全%d日", calendar.HolidayCount(), len(calendar))))
	b.WriteString("\n")

	for _, entry := range calendar {
		line := fmt.Sprintf("%s  %3d件", entry.Date.Format("2006-01-02"), entry.AppointmentCount)
		if entry.IsHoliday {
			b.WriteString(WarningStyle.Render(line + "  休診"))
		} else {
			b.WriteString(SubtleStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderRecordErrors renders validation findings grouped by patient.
func RenderRecordErrors(errs []model.RecordError) string {
	if len(errs) == 0 {
		return FormatSuccess("検証エラーなし") + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("検証エラー %d件", len(errs))))
	b.WriteString("\n")

	for _, e := range errs {
		patient := e.PatientID
		if patient == "" {
			patient = "(患者コードなし)"
		}
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("%s %s [%s] %s", ErrorIcon, patient, e.Field, e.Message)))
		b.WriteString("\n")
	}

	return b.String()
}

func formatYen(amount float64) string {
	return fmt.Sprintf("¥%s", groupDigits(int64(amount+0.5)))
}

func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}

func pad(s string, width int) string {
	if diff := width - lipgloss.Width(s); diff > 0 {
		return s + strings.Repeat(" ", diff)
	}
	return s
}
