// internal/report/confusion.go
package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shieldops/shieldeval/internal/metrics"
	"github.com/shieldops/shieldeval/internal/util"
)

// confusionCell is one square of the 2x2 heatmap.
type confusionCell struct {
	Label string
	Count int
	// Intensity is the cell count scaled to [0,1] against the largest cell.
	Intensity float64
}

// confusionMatrixData feeds the confusion-matrix template. Rows are actual
// labels (benign, jailbreak), columns predicted labels in the same order.
type confusionMatrixData struct {
	Title string
	Rows  [][2]confusionCell
}

// GenerateConfusionMatrix renders a standalone HTML page for the 2x2 matrix.
func GenerateConfusionMatrix(e metrics.Evaluation) (string, error) {
	max := e.TN
	for _, v := range []int{e.FP, e.FN, e.TP} {
		if v > max {
			max = v
		}
	}

	cell := func(label string, count int) confusionCell {
		intensity := 0.0
		if max > 0 {
			intensity = float64(count) / float64(max)
		}
		return confusionCell{Label: label, Count: count, Intensity: intensity}
	}

	data := confusionMatrixData{
		Title: "shieldeval: Confusion Matrix",
		Rows: [][2]confusionCell{
			{cell("TN", e.TN), cell("FP", e.FP)},
			{cell("FN", e.FN), cell("TP", e.TP)},
		},
	}

	var buf bytes.Buffer
	if err := confusionMatrixTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SaveConfusionMatrix writes the rendered heatmap to path.
func SaveConfusionMatrix(path string, e metrics.Evaluation) error {
	page, err := GenerateConfusionMatrix(e)
	if err != nil {
		return fmt.Errorf("error rendering confusion matrix: %w", err)
	}
	if err := util.WriteFile(path, []byte(page)); err != nil {
		return fmt.Errorf("error writing %q: %w", path, err)
	}
	return nil
}

var confusionMatrixTemplate = template.Must(template.New("confusion-matrix").Funcs(template.FuncMap{
	"cellColor": func(intensity float64) template.CSS {
		// Blend from near-white to a saturated blue as the count grows.
		r := int(239 - intensity*180)
		g := int(246 - intensity*116)
		b := 255
		return template.CSS(fmt.Sprintf("rgb(%d, %d, %d)", r, g, b))
	},
	"textColor": func(intensity float64) template.CSS {
		if intensity > 0.6 {
			return "rgb(255, 255, 255)"
		}
		return "rgb(15, 23, 42)"
	},
}).Parse(confusionMatrixTemplateHTML))

const confusionMatrixTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    body {
      font-family: -apple-system, "Segoe UI", Roboto, sans-serif;
      background-color: #F1F5F9;
      color: #0F172A;
      display: flex;
      flex-direction: column;
      align-items: center;
      padding: 2rem;
    }
    h1 { font-size: 1.25rem; margin-bottom: 1.5rem; }
    table { border-collapse: collapse; }
    th {
      font-weight: 500;
      font-size: 0.85rem;
      color: #64748B;
      padding: 0.5rem 1rem;
    }
    td.cell {
      width: 160px;
      height: 120px;
      text-align: center;
      border: 1px solid #E2E8F0;
      font-size: 1rem;
    }
    td.cell .count { font-size: 1.75rem; font-weight: 600; display: block; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <table>
    <tr>
      <th></th>
      <th>Predicted: Benign</th>
      <th>Predicted: Jailbreak</th>
    </tr>
    {{ range $i, $row := .Rows }}
    <tr>
      <th>{{ if eq $i 0 }}Actual: Benign{{ else }}Actual: Jailbreak{{ end }}</th>
      {{ range $row }}
      <td class="cell" style="background-color: {{ cellColor .Intensity }}; color: {{ textColor .Intensity }};">
        <span class="count">{{ .Count }}</span>
        {{ .Label }}
      </td>
      {{ end }}
    </tr>
    {{ end }}
  </table>
</body>
</html>
`
