package report

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"fixbench/internal/runner"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"matchRate": formatMatchRate,
	"seconds":   formatSeconds,
}).Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>fixbench report {{.RunID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
.matched { color: #2e7d32; }
.mismatched { color: #c62828; }
</style>
</head>
<body>
<h1>fixbench run {{.RunID}}</h1>
<p>Fixtures root: {{.FixturesRoot}}</p>
<p>Toolchain: {{.Toolchain.Version}}</p>
<p>Started {{.StartedAt.Format "2006-01-02 15:04:05 MST"}}, finished {{.FinishedAt.Format "2006-01-02 15:04:05 MST"}}</p>
<p>Matched {{.Summary.Matched}}/{{.Summary.FixturesTotal}} ({{matchRate .Summary.MatchRate}}%)</p>
<table>
<tr><th>Fixture</th><th>Matched</th><th>Duration</th><th>Mismatches</th></tr>
{{range .Fixtures}}<tr>
<td>{{.Fixture}}</td>
{{if .Matched}}<td class="matched">matched</td>{{else}}<td class="mismatched">mismatched</td>{{end}}
<td>{{seconds .DurationSeconds}}</td>
<td>{{range .Mismatches}}<div>{{.Detail}}</div>{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

// RenderHTML renders one run's results as an HTML document.
func RenderHTML(results runner.Results) (string, error) {
	var builder strings.Builder
	if err := reportTemplate.Execute(&builder, results); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return builder.String(), nil
}

// WriteHTML renders the report and writes it next to results.json.
func WriteHTML(path string, results runner.Results) error {
	html, err := RenderHTML(results)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
