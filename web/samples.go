package web

import (
	"github.com/gorilla/mux"
	"github.com/jnb666/reber/grammar"
	"github.com/jnb666/reber/nnet"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"html/template"
	"log"
	"net/http"
	"strconv"
)

// Sample is one row in the samples table
type Sample struct {
	Index    int
	Text     string
	Label    string
	Predict  string
	Accepted bool
	Error    bool
}

type SamplesPage struct {
	*Templates
	Dset    string
	Page    int
	Pages   int
	Total   int
	Errors  bool
	Rows    int
	Samples []Sample
	net     *Network
}

// Base data for handler functions to view the generated sequences
func NewSamplesPage(t *Templates, net *Network, rows int) *SamplesPage {
	p := &SamplesPage{net: net, Templates: t, Rows: rows, Page: 1}
	for _, name := range []string{"all", "errors", "prev", "next"} {
		p.AddOption(Link{Name: name, Url: "./opt/" + name})
	}
	return p
}

// Handler function for the samples page
func (p *SamplesPage) Base() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.net.Lock()
		defer p.net.Unlock()
		vars := mux.Vars(r)
		p.Dset = vars["dset"]
		data, ok := p.net.Data[p.Dset]
		if !ok {
			http.NotFound(w, r)
			return
		}
		sess := p.Session(r)
		p.Errors, _ = sess.Values["errors"].(bool)
		p.Page, _ = strconv.Atoi(vars["page"])
		p.Total, p.Pages = p.pageCount()
		if p.Page > p.Pages || p.Page < 1 {
			p.Page = 1
		}
		p.Select("/samples")
		if p.Errors {
			p.SelectOptions([]string{"errors"})
		} else {
			p.SelectOptions([]string{"all"})
		}
		p.Samples = p.samples(data)
		p.Exec(w, "samples", p)
	}
}

// Set option from top menu
func (p *SamplesPage) Setopt() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.net.Lock()
		defer p.net.Unlock()
		vars := mux.Vars(r)
		p.Dset = vars["dset"]
		sess := p.Session(r)
		p.Errors, _ = sess.Values["errors"].(bool)
		p.Total, p.Pages = p.pageCount()
		switch vars["opt"] {
		case "all":
			p.Errors = false
			p.Page = 1
		case "errors":
			p.Errors = true
			p.Page = 1
		case "prev":
			p.Page = mod(p.Page-1, 1, p.Pages)
		case "next":
			p.Page = mod(p.Page+1, 1, p.Pages)
		}
		sess.Values["errors"] = p.Errors
		if err := sess.Save(r, w); err != nil {
			log.Println("save session:", err)
		}
		http.Redirect(w, r, "/samples/"+p.Dset+"/"+strconv.Itoa(p.Page), http.StatusFound)
	}
}

func (p *SamplesPage) Heading() template.HTML {
	return p.net.heading()
}

// Datasets lists the loaded data sets
func (p *SamplesPage) Datasets() []Link {
	var links []Link
	for _, key := range nnet.DataTypes {
		if _, ok := p.net.Data[key]; ok {
			links = append(links, Link{Name: key, Url: "/samples/" + key + "/1", Selected: key == p.Dset})
		}
	}
	return links
}

// LengthPlot is a histogram of the sequence lengths
func (p *SamplesPage) LengthPlot(width, height int) template.HTML {
	d, ok := p.net.Data[p.Dset].(*nnet.SeqData)
	if !ok || d.Len() == 0 {
		return ""
	}
	avg, hist := d.Lengths()
	plt := newPlot()
	plt.Title.Text = "sequence length: " + avg.String()
	h, err := plotter.NewHist(plotter.Values(hist.Values()), len(hist.Keys()))
	if err != nil {
		log.Println("length plot:", err)
		return ""
	}
	h.FillColor = plotutil.Color(2)
	plt.Add(h)
	return writePlot(plt, width, height)
}

func (p *SamplesPage) samples(data nnet.Data) []Sample {
	var list []Sample
	start := (p.Page - 1) * p.Rows
	n := 0
	chars := data.Alphabet()
	g, _ := grammar.Lookup(p.net.Grammar)
	for i := range p.net.Labels[p.Dset] {
		if !p.show(i) {
			continue
		}
		if n >= start && n < start+p.Rows {
			s := Sample{Index: i + 1, Label: p.className(p.label(i))}
			text, err := chars.Decode(data.Seq(i))
			if err != nil {
				text = err.Error()
			}
			s.Text = text
			if g != nil {
				s.Accepted = g.Accepts(text)
			}
			if pred := p.predict(i); pred >= 0 {
				s.Predict = p.className(pred)
				s.Error = pred != p.label(i)
			}
			list = append(list, s)
		}
		n++
	}
	return list
}

func (p *SamplesPage) pageCount() (nseq, pages int) {
	for i := range p.net.Labels[p.Dset] {
		if p.show(i) {
			nseq++
		}
	}
	pages = nseq / p.Rows
	if nseq%p.Rows != 0 || pages == 0 {
		pages++
	}
	return nseq, pages
}

func (p *SamplesPage) show(i int) bool {
	if !p.Errors {
		return true
	}
	pred := p.predict(i)
	return pred >= 0 && pred != p.label(i)
}

func (p *SamplesPage) label(i int) int32 {
	return p.net.Labels[p.Dset][i]
}

// predicted label or -1 if not yet trained
func (p *SamplesPage) predict(i int) int32 {
	pred, ok := p.net.Pred[p.Dset]
	if !ok || p.net.Epoch == 0 || i >= len(pred) {
		return -1
	}
	return pred[i]
}

func (p *SamplesPage) className(label int32) string {
	classes := p.net.Data[p.Dset].Classes()
	if label < 0 || int(label) >= len(classes) {
		return strconv.Itoa(int(label))
	}
	return classes[label]
}
