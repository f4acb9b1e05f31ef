package http

import (
	"bytes"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"slicealloc/ml"
	"slicealloc/pipeline"
)

// previewRows bounds the uploaded-data table; results are always shown in full.
const previewRows = 1000

type table struct {
	Columns   []string
	Rows      [][]string
	Truncated int
}

type pageData struct {
	Filename string
	Error    string
	RunID    string
	Input    *table
	Results  *table
}

func newPreview(frame ml.Frame) *table {
	input := &table{Columns: frame.Columns, Rows: frame.Rows}
	if len(input.Rows) > previewRows {
		input.Truncated = len(input.Rows) - previewRows
		input.Rows = input.Rows[:previewRows]
	}
	return input
}

func newResultPage(filename string, run *pipeline.Run) pageData {
	input := newPreview(run.Input)

	results := &table{Columns: pipeline.OutputColumns(), Rows: make([][]string, len(run.Results))}
	for i, result := range run.Results {
		values := result.Values()
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = pipeline.FormatFloat(v)
		}
		results.Rows[i] = row
	}

	return pageData{Filename: filename, RunID: run.ID, Input: input, Results: results}
}

func (h *Handlers) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>5G Network Resource Allocator</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 72rem; color: #262730; }
table { border-collapse: collapse; margin: 1rem 0; font-size: 0.9rem; }
th, td { border: 1px solid #ddd; padding: 0.25rem 0.5rem; text-align: right; }
th { background: #f0f2f6; }
.error { color: #9c1c1c; background: #fde8e8; padding: 0.75rem; border-radius: 0.25rem; }
.hint { color: #555; }
.scroll { max-height: 28rem; overflow: auto; }
</style>
</head>
<body>
<h1>5G Network Resource Allocator</h1>
<p>Upload a CSV file with input metrics to get allocated resources.</p>
<form method="post" action="/allocate" enctype="multipart/form-data">
<label for="file">Upload your slice_input_metrics.csv</label>
<input type="file" id="file" name="file" accept=".csv,text/csv">
<button type="submit">Allocate</button>
</form>
{{- if .Error}}
<p class="error">{{.Error}}</p>
{{- else if not .Results}}
<p class="hint">Awaiting file upload...</p>
{{- end}}
{{- with .Input}}
<h2>Uploaded Data</h2>
{{template "table" .}}
{{- end}}
{{- with .Results}}
<h2>Allocated Resources</h2>
{{template "table" .}}
<p><a href="/download/{{$.RunID}}" download="resource_allocation_output.csv">Download Results as CSV</a></p>
{{- end}}
</body>
</html>
{{define "table"}}<div class="scroll"><table>
<thead><tr><th></th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range $i, $row := .Rows}}
<tr><th>{{$i}}</th>{{range $row}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table></div>
{{- if .Truncated}}
<p class="hint">{{.Truncated}} more rows not shown.</p>
{{- end}}{{end}}`))
