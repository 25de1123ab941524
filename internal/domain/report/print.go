package report

import (
	"bytes"
	"fmt"
	"html/template"
)

// printTemplate is the printable report page. Styles are inline so the
// document prints the same with no external assets.
var printTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Georgia, serif; margin: 40px; color: #1f2937; }
  header { text-align: center; border-bottom: 2px solid #1f2937; padding-bottom: 12px; }
  header h1 { margin: 0; font-size: 22px; }
  header h2 { margin: 4px 0 0; font-size: 16px; font-weight: normal; }
  .meta { font-size: 12px; color: #6b7280; margin-top: 4px; }
  section { margin-top: 28px; page-break-inside: avoid; }
  section h3 { font-size: 15px; border-bottom: 1px solid #9ca3af; padding-bottom: 4px; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th, td { border: 1px solid #d1d5db; padding: 6px 8px; text-align: left; }
  th { background: #f3f4f6; }
  .noshow { font-size: 13px; font-style: italic; margin-top: 6px; }
  footer { margin-top: 40px; font-size: 11px; color: #6b7280; text-align: center; border-top: 1px solid #d1d5db; padding-top: 8px; }
  @media print { body { margin: 16px; } }
</style>
</head>
<body>
<header>
  <h1>{{.ClinicName}}</h1>
  <h2>{{.Title}}</h2>
  <div class="meta">{{if .WindowLabel}}{{.WindowLabel}} · {{end}}Generated {{.GeneratedAt.Format "January 2, 2006 3:04 PM"}}</div>
</header>
{{range .Sections}}
<section>
  <h3>{{.Doctor.Name}}{{if .Doctor.Track}} ({{.Doctor.Track}}){{end}} — {{.Count}} appointment{{if ne .Count 1}}s{{end}}</h3>
  <table>
    <tr><th>Date</th><th>Time</th><th>Patient</th><th>Service</th><th>Status</th></tr>
    {{range .Appointments}}
    <tr><td>{{.DateISO}}</td><td>{{.TimeOfDay}}</td><td>{{.PatientName}}</td><td>{{.ServiceType}}</td><td>{{.Status}}</td></tr>
    {{end}}
  </table>
  {{if .NoShowNames}}<p class="noshow">Did not show: {{.NoShowNames}}</p>{{end}}
</section>
{{end}}
<footer>
  {{.ClinicName}} · Total appointments: {{.Total}} · Page <span class="page"></span>
</footer>
</body>
</html>
`))

// RenderHTML produces the printable document for a report.
func RenderHTML(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
