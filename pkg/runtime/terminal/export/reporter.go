package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/relationship-roi/pkg/models/api"
	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type TableConfig struct {
	NameWidth   int
	CountWidth  int
	AmountWidth int
	CauseWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:   20,
		CountWidth:  7,
		AmountWidth: 12,
		CauseWidth:  16,
	}
}

type Reporter struct {
	writer io.Writer
	format string
	config TableConfig
}

func NewReporter(writer io.Writer, format string) (*Reporter, error) {
	if writer == nil {
		writer = os.Stdout
	}
	switch format {
	case "":
		format = FormatText
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &Reporter{
		writer: writer,
		format: format,
		config: DefaultTableConfig(),
	}, nil
}

// pad left-aligns s to width display columns. Wide runes count as two.
func pad(s string, width int) string {
	cols := 0
	for _, r := range s {
		if r >= 0x1100 {
			cols += 2
		} else {
			cols++
		}
	}
	if cols >= width {
		return s
	}
	return s + strings.Repeat(" ", width-cols)
}

func won(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String() + "원"
	}
	return b.String() + "원"
}

func (c *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"won": won,
		"formatRow": func(name string, entries any, loss any, roi any, cause string) string {
			return fmt.Sprintf("| %s | %*v | %*v | %*v | %s |",
				pad(name, c.config.NameWidth),
				c.config.CountWidth, entries,
				c.config.AmountWidth, loss,
				c.config.CountWidth, roi,
				pad(cause, c.config.CauseWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.AmountWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.CauseWidth+2))
		},
	}
}

func (c *Reporter) encode(v any) (bool, error) {
	switch c.format {
	case FormatJSON:
		enc := json.NewEncoder(c.writer)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return true, enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(c.writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func (c *Reporter) render(name, tmpl string, data any) error {
	t, err := template.New(name).Funcs(c.funcs()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

const reportTemplate = `
{{.WindowLabel}}
시간가치: {{won .TimeValuePerHourWon}}/h
순손실: {{won .Totals.NetLossWon}}  (비용 {{won .Totals.CostWon}}, 편익 {{won .Totals.BenefitWon}}, ROI {{.Totals.RoiPct}}%)
최대 손실: {{.TopPersonLabel}}  주요 원인: {{.TopCauseLabel}}
{{if .People}}
{{separator}}
{{formatRow "Name" "Entries" "Net loss" "ROI %" "Cause"}}
{{separator}}
{{range .People}}{{formatRow .PersonName .Entries (won .NetLossWon) .RoiPct .TopCauseLabel}}
{{end}}{{separator}}
{{end}}`

func (c *Reporter) Report(r api.Report) error {
	if done, err := c.encode(r); done {
		return err
	}
	return c.render("report", reportTemplate, r)
}

const verdictTemplate = `
{{.Title}}
[{{.Grade}}] {{.Verdict}}

{{.Reasoning}}
{{range .Sentences}}
- {{.Label}}: {{.Text}}{{end}}
{{range .Actions}}
> {{.}}{{end}}

{{.Disclaimer}}
`

func (c *Reporter) Verdict(v api.CoachVerdict) error {
	if done, err := c.encode(v); done {
		return err
	}
	return c.render("verdict", verdictTemplate, v)
}

const shareTemplate = `{{.Level}} ({{.Score}}/100) {{.Summary}}
{{range .Findings}}- {{.Label}} @{{.Index}}: {{.Match}}
{{end}}`

func (c *Reporter) ShareReport(r api.ShareSafetyReport) error {
	if done, err := c.encode(r); done {
		return err
	}
	return c.render("share", shareTemplate, r)
}

const ledgerTemplate = `plan: {{.Plan}}{{if .ExpiresAt}} (until {{.ExpiresAt.Format "2006-01-02"}}){{end}}
people:
{{range .People}}  {{.ID}}  {{.Name}}{{if .IsClient}} (client){{end}}
{{end}}entries:
{{range .Entries}}  {{.ID}}  {{.Date}}  {{.PersonID}}  {{.Minutes}}m  {{won .MoneyWon}}  mood {{.MoodDelta}}  recip {{.Reciprocity}}{{if .BoundaryHit}}  boundary{{end}}
{{end}}`

func (c *Reporter) Ledger(l api.Ledger) error {
	if done, err := c.encode(l); done {
		return err
	}
	return c.render("ledger", ledgerTemplate, l)
}
