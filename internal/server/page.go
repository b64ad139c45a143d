package server

// viewPage is the preview page shell. Render frames replace the whole
// content pane; a click inside the pane resolves the nearest stamped source
// line and reports it back as a reveal.
const viewPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{TITLE}} - livemark</title>
<style>
body { margin: 0; font-family: sans-serif; display: flex; flex-direction: column; height: 100vh; }
#content { flex: 1; overflow-y: auto; padding: 1rem 2rem; }
#content .lm-spacer { min-height: 1em; }
#content .lm-revealed { background: #fff3bf; transition: background 0.2s; }
#findings { max-height: 10rem; overflow-y: auto; border-top: 1px solid #ccc; padding: 0.5rem 2rem; font-size: 0.85rem; }
#findings:empty { display: none; }
#findings .lm-error { color: #b00020; }
#findings .lm-warning { color: #8a6d00; }
</style>
</head>
<body>
<div id="content"></div>
<div id="findings"></div>
<script>
(function () {
  var doc = {{DOC}};
  var content = document.getElementById("content");
  var findings = document.getElementById("findings");
  var ws = null;

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    ws = new WebSocket(proto + location.host + "/ws?doc=" + encodeURIComponent(doc));

    ws.onmessage = function (ev) {
      var frame = JSON.parse(ev.data);
      if (frame.type === "render") {
        content.innerHTML = frame.lines.map(function (l) {
          return l.blank ? '<div class="lm-spacer"></div>' : l.html;
        }).join("\n");
      } else if (frame.type === "diagnostics") {
        findings.innerHTML = frame.findings.map(function (f) {
          var cls = f.severity === "error" ? "lm-error" : "lm-warning";
          return '<div class="' + cls + '">' + (f.line + 1) + ":" + (f.column + 1) +
            " [" + f.code + "] " + escapeHTML(f.message) + "</div>";
        }).join("");
      } else if (frame.type === "reveal") {
        reveal(frame.line);
      }
    };
    ws.onclose = function () { setTimeout(connect, 1000); };
  }

  content.addEventListener("click", function (ev) {
    var el = ev.target.closest("[data-source-line]");
    if (!el || !ws || ws.readyState !== WebSocket.OPEN) { return; }
    ws.send(JSON.stringify({ type: "reveal", line: parseInt(el.getAttribute("data-source-line"), 10) }));
  });

  function reveal(line) {
    var el = content.querySelector('[data-source-line="' + line + '"]');
    if (!el) { return; }
    el.scrollIntoView({ block: "center", behavior: "smooth" });
    var prev = content.querySelector(".lm-revealed");
    if (prev) { prev.classList.remove("lm-revealed"); }
    el.classList.add("lm-revealed");
    setTimeout(function () { el.classList.remove("lm-revealed"); }, 1000);
  }

  function escapeHTML(s) {
    return s.replace(/&/g, "&amp;").replace(/</g, "&lt;").replace(/>/g, "&gt;");
  }

  connect();
})();
</script>
</body>
</html>
`
