// internal/web/page.go
package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Favicon preview</title>
  <link rel="icon" href="/favicon.ico" sizes="any">
  <link rel="icon" href="/favicon.svg" type="image/svg+xml">
  <style>
    body { font-family: -apple-system, Helvetica, Arial, sans-serif; background: #f4f4f2; color: #2c2c2b; margin: 2rem; }
    .grid { display: flex; flex-wrap: wrap; gap: 1.5rem; align-items: flex-end; }
    figure { margin: 0; text-align: center; }
    figcaption { font-size: 0.75rem; margin-top: 0.25rem; }
    img.preview { max-width: 192px; image-rendering: pixelated; }
    #status { margin: 1rem 0; font-size: 0.85rem; }
    table { border-collapse: collapse; font-size: 0.8rem; }
    td, th { padding: 0.25rem 0.75rem; text-align: left; border-bottom: 1px solid #ddd; }
  </style>
</head>
<body>
  <h1>Favicon preview <small>{{.Version}}</small></h1>

  <button id="generate">Generate</button>
  <div id="status"></div>

  <h2>Generated files</h2>
  <div class="grid">
    {{range .Sizes}}
    <figure>
      <img class="preview asset" data-name="{{.Name}}" src="/assets/{{.Name}}" width="{{.Size}}" alt="{{.Name}}">
      <figcaption>{{.Name}} ({{.Size}}x{{.Size}})</figcaption>
    </figure>
    {{end}}
    <figure>
      <img class="preview asset" data-name="{{.ICOName}}" src="/assets/{{.ICOName}}" alt="{{.ICOName}}">
      <figcaption>{{.ICOName}} {{.ICOSizes}}</figcaption>
    </figure>
  </div>

  <h2>Recent runs</h2>
  <table>
    <thead><tr><th>Started</th><th>Status</th><th>Outputs</th><th>Changed</th><th>Fallback font</th></tr></thead>
    <tbody id="runs"></tbody>
  </table>

  <script>
    const statusEl = document.getElementById('status');

    function refreshAssets() {
      const stamp = Date.now();
      document.querySelectorAll('img.asset').forEach(img => {
        img.src = '/assets/' + img.dataset.name + '?t=' + stamp;
      });
    }

    async function loadRuns() {
      const res = await fetch('/api/runs?limit=10');
      if (!res.ok) { return; }
      const body = await res.json();
      const rows = (body.data || []).map(r =>
        '<tr><td>' + new Date(r.started_at).toLocaleString() + '</td><td>' + r.status +
        '</td><td>' + (r.outputs || []).length + '</td><td>' + r.changed +
        '</td><td>' + (r.font_fallback ? 'yes' : 'no') + '</td></tr>');
      document.getElementById('runs').innerHTML = rows.join('');
    }

    document.getElementById('generate').addEventListener('click', async () => {
      statusEl.textContent = 'Generating...';
      const res = await fetch('/api/generate', { method: 'POST' });
      const body = await res.json();
      statusEl.textContent = res.ok ? 'Done' : 'Failed: ' + body.error;
    });

    const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
    ws.onmessage = event => {
      const msg = JSON.parse(event.data);
      if (msg.type === 'generated') {
        refreshAssets();
        loadRuns();
      }
    };

    loadRuns();
  </script>
</body>
</html>
`
