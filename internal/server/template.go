package server

import "html/template"

var pageTemplate = template.Must(template.New("dashboard").Parse(pageTemplateHTML))

const pageTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>LLM Bias Dashboard</title>
<script src="https://cdn.jsdelivr.net/npm/echarts@5/dist/echarts.min.js"></script>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; padding: 1.5rem; color: #222; }
  h1 { margin-top: 0; }
  .info { background: #eef5fc; border-left: 4px solid #1c83e1; padding: 0.75rem 1rem; margin-bottom: 1rem; }
  .tabs a { margin-right: 1rem; }
  .tabs a.active { font-weight: bold; text-decoration: none; color: #222; }
  .layout { display: flex; gap: 1.5rem; align-items: flex-start; }
  .main { flex: 3; min-width: 0; }
  .filters { flex: 1; min-width: 16rem; }
  .filters label { display: block; font-weight: 600; margin-top: 0.75rem; }
  .filters select { width: 100%; }
  .charts { display: flex; gap: 1rem; }
  .chart { flex: 1; height: 400px; min-width: 0; }
  .warning { background: #fffbe6; border-left: 4px solid #faca2b; padding: 0.5rem 1rem; }
  .error { background: #fdecea; border-left: 4px solid #ff4b4b; padding: 0.5rem 1rem; }
  .presets a { display: inline-block; margin: 0.25rem 0.5rem 0 0; }
</style>
</head>
<body>
<h1>LLM Bias Dashboard</h1>
<div class="info">
  <strong>Using This Dashboard</strong>
  {{range .Instructions}}<p>{{.}}</p>{{end}}
</div>

<div class="tabs">
  Select Level of Analysis:
  {{range .Pipelines}}<a href="/?pipeline={{.Name}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}
</div>

<div class="layout">
  <div class="main">
    {{if .View.Heading}}<h2>{{.View.Heading}}</h2>{{end}}
    {{with .View.Message}}<div class="{{if eq $.View.Outcome "ok" "no_data"}}warning{{else}}error{{end}}">{{.}}</div>{{end}}
    <div class="charts">
    {{range .Panels}}
      {{if .Option}}
        <div class="chart" id="{{.ID}}" data-image="{{.ImageURL}}"></div>
      {{else}}
        <div class="chart"><div class="warning">{{.Message}}</div></div>
      {{end}}
    {{end}}
    </div>
  </div>

  <form class="filters" method="get" action="/">
    <input type="hidden" name="pipeline" value="{{.View.Pipeline}}">
    {{range .Fields}}
      <label for="f-{{.Name}}">{{.Label}}</label>
      {{if .Multiple}}
        <input type="hidden" name="{{.Name}}" value="" data-stage="{{.Stage}}">
        <select id="f-{{.Name}}" name="{{.Name}}" multiple size="6" data-stage="{{.Stage}}"{{if .Resets}} data-resets{{end}} onchange="submitStage(this)">
          {{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
        </select>
      {{else}}
        <select id="f-{{.Name}}" name="{{.Name}}" data-stage="{{.Stage}}"{{if .Resets}} data-resets{{end}} onchange="submitStage(this)">
          {{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
        </select>
        {{if eq .Name "domain"}}{{with $.View.Explanation}}<p><strong>{{$.View.Domain}}:</strong> {{.}}</p>{{end}}{{end}}
      {{end}}
    {{end}}
    <label><input type="checkbox" name="stacked" value="true"{{if .Stacked}} checked{{end}} onchange="this.form.submit()"> Stacked bars</label>
    <input type="hidden" name="stacked" value="false">
    <noscript><button type="submit">Apply</button></noscript>
    {{if .Presets}}
      <label>Presets</label>
      <div class="presets">
        {{range .Presets}}<a href="/?preset={{.ID}}">{{.Title}}</a>{{end}}
      </div>
    {{end}}
  </form>
</div>

<script>
  // disabled controls are left out of the submitted query
  function submitStage(el) {
    if (el.hasAttribute("data-resets")) {
      const stage = Number(el.dataset.stage);
      for (const f of el.form.querySelectorAll("[data-stage]")) {
        if (Number(f.dataset.stage) > stage) f.disabled = true;
      }
    }
    el.form.submit();
  }

  const options = {
  {{- range .Panels}}{{if .Option}}
    {{.ID}}: {{.Option}},
  {{- end}}{{end}}
  };
  for (const [id, option] of Object.entries(options)) {
    const chart = echarts.init(document.getElementById(id));
    chart.setOption(option);
    window.addEventListener("resize", () => chart.resize());
  }
</script>
</body>
</html>
`
