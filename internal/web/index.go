package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Martifolio</title>
  <style>
    :root { --bg:#ffffff; --ink:#111111; --ink-soft:#9c9c9c; --panel:#f6f6f6; --up:#1a7f37; --down:#cf222e; }
    * { box-sizing:border-box; }
    body { margin:0; padding:2rem; background:var(--bg); color:var(--ink); font-family:'Space Mono','JetBrains Mono',monospace; }
    #app { max-width:1200px; margin:0 auto; background:var(--panel); border:3px solid var(--ink); padding:2rem; box-shadow:12px 12px 0 rgba(0,0,0,.15); }
    h1 { margin:0 0 1rem; font-size:1.2rem; letter-spacing:.1em; text-transform:uppercase; }
    .stats { display:grid; grid-template-columns:repeat(4, 1fr); gap:1rem; margin-bottom:1.5rem; }
    .stat { border:2px solid var(--ink); padding:.75rem; background:#fff; }
    .stat .label { font-size:.7rem; color:var(--ink-soft); text-transform:uppercase; }
    .stat .value { font-size:1.1rem; font-weight:700; }
    table { width:100%; border-collapse:collapse; background:#fff; }
    th, td { border:1px solid var(--ink); padding:.4rem .6rem; text-align:right; font-size:.85rem; }
    th:first-child, td:first-child { text-align:left; }
    .up { color:var(--up); } .down { color:var(--down); }
    #alerts { margin-top:1.5rem; }
    #alerts li { margin:.25rem 0; }
    #updated { font-size:.75rem; color:var(--ink-soft); margin-top:1rem; }
  </style>
</head>
<body>
  <div id="app">
    <h1>Portfolio</h1>
    <div class="stats">
      <div class="stat"><div class="label">Invested</div><div class="value" id="invested">-</div></div>
      <div class="stat"><div class="label">Value</div><div class="value" id="value">-</div></div>
      <div class="stat"><div class="label">Unrealized P&amp;L</div><div class="value" id="unrealized">-</div></div>
      <div class="stat"><div class="label">Realized P&amp;L</div><div class="value" id="realized">-</div></div>
    </div>
    <table>
      <thead>
        <tr><th>Asset</th><th>Symbol</th><th>Qty</th><th>Avg Buy</th><th>Price</th><th>Invested</th><th>Value</th><th>Unrealized</th><th>ROI %</th><th>Realized</th></tr>
      </thead>
      <tbody id="rows"></tbody>
    </table>
    <div id="alerts"><ul id="alert-list"></ul></div>
    <div id="updated"></div>
  </div>
  <script>
    const money = v => {
      const n = Number(v);
      if (Math.abs(n) >= 1) return '$' + n.toLocaleString('en-US', {minimumFractionDigits:2, maximumFractionDigits:2});
      return '$' + n.toFixed(6);
    };
    const signed = (el, v) => { el.textContent = money(v); el.className = 'value ' + (Number(v) >= 0 ? 'up' : 'down'); };
    function render(s) {
      document.getElementById('invested').textContent = money(s.summary.total_invested);
      document.getElementById('value').textContent = money(s.summary.total_value);
      signed(document.getElementById('unrealized'), s.summary.net_unrealized);
      signed(document.getElementById('realized'), s.summary.realized_pnl);
      const body = document.getElementById('rows');
      body.innerHTML = '';
      for (const r of s.rows || []) {
        const tr = document.createElement('tr');
        const cls = Number(r.unrealized_pnl) >= 0 ? 'up' : 'down';
        tr.innerHTML = '<td>' + r.asset + '</td><td>' + r.symbol + '</td><td>' + r.quantity + '</td><td>' +
          money(r.average_buy_price) + '</td><td>' + money(r.current_price) + '</td><td>' + money(r.invested) +
          '</td><td>' + money(r.current_value) + '</td><td class="' + cls + '">' + money(r.unrealized_pnl) +
          '</td><td class="' + cls + '">' + Number(r.roi_pct).toFixed(2) + '</td><td>' + money(r.realized_pnl) + '</td>';
        body.appendChild(tr);
      }
      const list = document.getElementById('alert-list');
      list.innerHTML = '';
      for (const a of s.alerts || []) {
        const li = document.createElement('li');
        li.textContent = a;
        list.appendChild(li);
      }
      document.getElementById('updated').textContent = 'updated ' + s.ts;
    }
    fetch('/api/portfolio').then(r => r.ok ? r.json() : null).then(s => s && render(s));
    const stream = new EventSource('/api/portfolio/stream');
    stream.addEventListener('portfolio', e => render(JSON.parse(e.data)));
  </script>
</body>
</html>`
