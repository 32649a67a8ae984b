package services

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"airbnb-etl/models"
)

var (
	headerColor  = color.New(color.FgMagenta, color.Bold)
	sectionColor = color.New(color.FgYellow, color.Bold)
	valueColor   = color.New(color.FgGreen, color.Bold)
)

// Reporter renders pipeline results as console tables.
type Reporter struct {
	out  io.Writer
	head int
}

// NewReporter writes to out, showing at most head rows per view.
func NewReporter(out io.Writer, head int) *Reporter {
	if head <= 0 {
		head = 10
	}
	return &Reporter{out: out, head: head}
}

// PrintInfo shows the shape and missing counts of a table.
func (r *Reporter) PrintInfo(title string, info models.DatasetInfo) {
	r.banner(title)
	r.section("Shape")
	fmt.Fprintf(r.out, "  %s rows × %s columns\n\n",
		valueColor.Sprint(info.Rows), valueColor.Sprint(info.Columns))

	r.section("Missing values per column")
	cols := make([]string, 0, len(info.Missing))
	for c := range info.Missing {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	for _, c := range cols {
		fmt.Fprintf(r.out, "  %-32s %d\n", truncate(c, 30), info.Missing[c])
	}
	fmt.Fprintln(r.out)
}

// PrintAggregate shows the views produced by the aggregation stage.
func (r *Reporter) PrintAggregate(res *AggregateResult) {
	r.banner("AGGREGATED LISTINGS")
	r.selections(res.Prepared)
	r.frame("Filtered by neighbourhood group", models.TableFrame(res.ByGroup))
	r.frame("Selected columns (price > 100, reviews > 10)", res.Projection)
	r.frame("Average values by group and price category", models.GroupMeanFrame(res.GroupMeans, GroupMeanColumns))
	sorted, _ := Select(res.Sorted, AnalysisColumns...)
	r.frame("Sorted by price desc, reviews asc", sorted)
	r.frame("Ranked neighbourhood groups", models.GroupRankFrame(res.Ranks))
}

// PrintAnalysis shows the views produced by the analysis stage.
func (r *Reporter) PrintAnalysis(res *AnalysisResult) {
	r.banner("LISTINGS ANALYSIS")
	r.frame("Mean price by group and room type", res.Pivot.Frame())
	r.frame("Melted data", res.Melted)
	r.frame("Correlation matrix", res.Correlation.Frame())
	r.frame("Descriptive statistics", models.StatsFrame(res.Statistics))
	r.frame("Monthly trends", models.MonthlyTrendFrame(res.Trends))
	r.frame("Monthly averages", models.MonthlyAverageFrame(res.Averages))
}

// selections shows label and position addressing over the prepared table.
func (r *Reporter) selections(t models.Table) {
	cols := t.Columns()
	if l, err := t.Loc(0); err == nil {
		r.frame("Row with label 0 (loc)", models.RowFrame(cols, l))
	} else {
		r.note("Row with label 0 (loc)", err)
	}
	if l, err := t.ILoc(0); err == nil {
		r.frame("Row at position 0 (iloc)", models.RowFrame(cols, l))
	} else {
		r.note("Row at position 0 (iloc)", err)
	}
	if rng, err := t.LocRange(3, 6); err == nil {
		r.frame("Rows labelled 3 to 6 (loc)", models.TableFrame(rng))
	} else {
		r.note("Rows labelled 3 to 6 (loc)", err)
	}

	byLabel, errLabel := t.Cell(0, models.ColName)
	byPos, errPos := t.CellAt(0, 1)
	r.section("Single cells")
	fmt.Fprintf(r.out, "  loc[0, %s] = %s\n", models.ColName, cellText(byLabel, errLabel))
	fmt.Fprintf(r.out, "  iloc[0, 1] = %s\n\n", cellText(byPos, errPos))
}

func (r *Reporter) note(title string, err error) {
	r.section(title)
	fmt.Fprintf(r.out, "  %v\n\n", err)
}

func cellText(v any, err error) string {
	if err != nil {
		return err.Error()
	}
	return displayCell(models.FormatValue(v))
}

func (r *Reporter) banner(title string) {
	sep := strings.Repeat("═", 54)
	fmt.Fprintf(r.out, "\n%s\n", headerColor.Sprint(sep))
	fmt.Fprintf(r.out, "%s\n", headerColor.Sprint("  "+title))
	fmt.Fprintf(r.out, "%s\n\n", headerColor.Sprint(sep))
}

func (r *Reporter) section(title string) {
	fmt.Fprintf(r.out, "%s\n", sectionColor.Sprint("  "+title))
	fmt.Fprintf(r.out, "  %s\n", strings.Repeat("─", 54))
}

func (r *Reporter) frame(title string, f *models.Frame) {
	r.section(fmt.Sprintf("%s (%d rows)", title, f.Len()))
	if f.Len() == 0 {
		fmt.Fprintf(r.out, "  No rows\n\n")
		return
	}

	records := f.Records()
	if len(records) > r.head+1 {
		records = records[:r.head+1]
	}
	widths := make([]int, len(f.Columns))
	for _, rec := range records {
		for i, cell := range rec {
			widths[i] = max(widths[i], len([]rune(displayCell(cell))))
		}
	}
	for n, rec := range records {
		var b strings.Builder
		b.WriteString(" ")
		for i, cell := range rec {
			fmt.Fprintf(&b, " %-*s", widths[i], displayCell(cell))
		}
		line := b.String()
		if n == 0 {
			line = color.New(color.Bold).Sprint(line)
		}
		fmt.Fprintln(r.out, line)
	}
	fmt.Fprintln(r.out)
}

// displayCell shortens long text and rounds long decimals for the console.
func displayCell(s string) string {
	if s == "" {
		return "NaN"
	}
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot > 5 {
		if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(v, 0) {
			return fmt.Sprintf("%.4f", v)
		}
	}
	return truncate(s, 28)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
