package web

import (
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"io"
	"net/http"
)

// Options for the web server
type Options struct {
	Rows     int
	User     string
	Password string
	LogTo    io.Writer
}

// NewRouter sets up the page handlers for the given model config.
func NewRouter(conf *Config, opts Options) (http.Handler, *Network, error) {
	net, err := NewNetwork(conf)
	if err != nil {
		return nil, nil, err
	}
	t, err := NewTemplates()
	if err != nil {
		return nil, nil, err
	}
	if opts.Rows <= 0 {
		opts.Rows = 50
	}
	trainPage := NewTrainPage(t.Clone(), net)
	samplesPage := NewSamplesPage(t.Clone(), net, opts.Rows)
	configPage := NewConfigPage(t.Clone(), conf)

	r := mux.NewRouter()
	r.Handle("/", http.RedirectHandler("/train/stats", http.StatusFound))

	r.Handle("/train", http.RedirectHandler("/train/stats", http.StatusFound))
	r.HandleFunc("/train/{cmd:(?:stats|start|stop|continue)}", trainPage.Base())
	r.HandleFunc("/stats", trainPage.Stats())
	r.HandleFunc("/ws", trainPage.Websocket())

	r.Handle("/samples", http.RedirectHandler("/samples/train/1", http.StatusFound))
	r.HandleFunc("/samples/{dset}/opt/{opt:(?:all|errors|prev|next)}", samplesPage.Setopt())
	r.HandleFunc("/samples/{dset}/{page:[0-9]+}", samplesPage.Base())

	r.HandleFunc("/config", configPage.Base())
	r.HandleFunc("/config/save", configPage.Save()).Methods("POST")
	r.HandleFunc("/config/reset", configPage.Reset())

	r.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))

	var h http.Handler = r
	if opts.User != "" {
		h = NewAuthMiddleware(opts.User, opts.Password).Middleware(h)
	}
	h = handlers.CompressHandler(h)
	if opts.LogTo != nil {
		h = handlers.LoggingHandler(opts.LogTo, h)
	}
	return h, net, nil
}
