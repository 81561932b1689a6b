package server

import (
	"html/template"
	"net/http"

	"github.com/matzehuels/cellblend/pkg/render"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>cellblend</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 2rem; color: #222; }
    header { display: flex; gap: 1rem; align-items: baseline; margin-bottom: 1rem; }
    .meta { color: #777; font-size: 0.9rem; }
    button { font: inherit; padding: 0.3rem 0.8rem; }
  </style>
</head>
<body>
  <header>
    <strong>cellblend</strong>
    <span class="meta">{{.Cells}} cells &middot; version {{.Version}}</span>
    <button data-post="/regenerate">Regenerate</button>
    <button data-post="/reset">Reset colors</button>
    <a href="/adjacency.svg">neighbor graph</a>
  </header>
  {{.SVG}}
  <script>
    document.querySelectorAll('button[data-post]').forEach(b => {
      b.addEventListener('click', () => fetch(b.dataset.post, { method: 'POST' }));
    });
    const seen = {{.Version}};
    new EventSource('/events').addEventListener('state', e => {
      if (JSON.parse(e.data).version !== seen) window.location.reload();
    });
  </script>
</body>
</html>
`))

type pageData struct {
	Cells   int
	Version uint64
	SVG     template.HTML
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) error {
	st := s.store.Snapshot()
	svg := render.SVG(st, render.WithSites(), render.WithClickScript(clickPath))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return pageTmpl.Execute(w, pageData{
		Cells:   st.Len(),
		Version: st.Version,
		SVG:     template.HTML(svg),
	})
}
