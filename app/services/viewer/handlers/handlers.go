// Package handlers contains the full set of handler functions and routes
// supported by the viewer.
package handlers

import (
	"context"
	"net/http"
	"os"

	"github.com/ardanlabs/powchain/business/web/mid"
	"github.com/ardanlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by the viewer.
type Config struct {
	Shutdown chan os.Signal
	Log      *zap.SugaredLogger
	NodeURL  string
}

// UIMux constructs an http.Handler with all application routes defined.
func UIMux(cfg Config) (http.Handler, error) {
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Panics(),
	)

	// Register the index page for the website.
	ig, err := newIndex(cfg.NodeURL)
	if err != nil {
		return nil, err
	}
	app.Handle(http.MethodGet, "", "/", ig.handler)

	// Register the assets.
	fs := http.FileServer(http.FS(assets))
	f := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		fs.ServeHTTP(w, r)
		return nil
	}
	app.Handle(http.MethodGet, "", "/assets/*", f)

	return app, nil
}
