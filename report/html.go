// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"io"

	"github.com/google/safehtml/template"
)

const reportHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table.vlsplot { border-collapse: collapse; margin-bottom: 1em; }
table.vlsplot th, table.vlsplot td { padding: 0 1em; text-align: right; }
table.vlsplot td.missing { color: #999; }
p.note { color: #a00; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- range .Header}}
<h2>{{.}}</h2>
{{- end}}
{{- range .Tables}}
<table class="vlsplot">
{{- with .Caption}}
<caption>{{.}}</caption>
{{- end}}
<tr><th>{{range .Columns}}<th>{{.}}{{end}}
{{- range .Rows}}
<tr><th>{{.Label}}{{range .Cells}}{{if eq . "insufficient data"}}<td class="missing">{{else}}<td>{{end}}{{.}}{{end}}
{{- end}}
</table>
{{- range .Notes}}
<p class="note">{{.}}</p>
{{- end}}
{{- end}}
{{- with .Lines}}
<pre>
{{- range .}}
{{.}}
{{- end}}
</pre>
{{- end}}
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Parse(reportHTML))

// WriteHTML writes r to w as a standalone HTML page.
func (r *Report) WriteHTML(w io.Writer) error {
	return htmlTemplate.Execute(w, r)
}
