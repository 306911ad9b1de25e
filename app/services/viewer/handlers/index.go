package handlers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
)

//go:embed assets
var assets embed.FS

type index struct {
	tmpl     *template.Template
	eventsWS string
	chainURL string
}

// newIndex parses the index page and works out the node endpoints the page
// connects to from the node's public url.
func newIndex(nodeURL string) (index, error) {
	u, err := url.Parse(strings.TrimSuffix(nodeURL, "/"))
	if err != nil || u.Host == "" {
		return index{}, fmt.Errorf("invalid node url %q", nodeURL)
	}

	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}

	tmpl, err := template.ParseFS(assets, "assets/views/index.html")
	if err != nil {
		return index{}, fmt.Errorf("loading index template: %w", err)
	}

	ig := index{
		tmpl:     tmpl,
		eventsWS: fmt.Sprintf("%s://%s%s/v1/events", scheme, u.Host, u.Path),
		chainURL: fmt.Sprintf("%s://%s%s/v1/chain", u.Scheme, u.Host, u.Path),
	}

	return ig, nil
}

func (ig index) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data := struct {
		EventsURL string
		ChainURL  string
	}{
		EventsURL: ig.eventsWS,
		ChainURL:  ig.chainURL,
	}

	var buf bytes.Buffer
	if err := ig.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering index page: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(buf.Bytes())
	return err
}
