package web

import (
	"fmt"
	"github.com/jnb666/reber/nnet"
	"html/template"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
)

// Config is the current settings together with the model name used for the config files.
type Config struct {
	nnet.Config
	Name string
}

// Load config for the given model name from DataDir, saving the defaults if not found.
func NewConfig(name string) (*Config, error) {
	if !nnet.FileExists(name + ".net") {
		conf := nnet.DefaultConfig()
		conf.DataSet = name
		if err := conf.SaveDefault(name); err != nil {
			return nil, err
		}
	}
	conf, err := nnet.LoadConfig(name + ".net")
	if err != nil {
		return nil, err
	}
	return &Config{Config: conf, Name: name}, nil
}

type ConfigPage struct {
	*Templates
	Fields []Field
	conf   *Config
	sync.Mutex
}

type Field struct {
	Name    string
	Value   string
	Error   string
	Boolean bool
	On      bool
}

// Base data for handler functions to view and update the config
func NewConfigPage(t *Templates, conf *Config) *ConfigPage {
	p := &ConfigPage{conf: conf}
	p.Templates = t.Select("/config")
	p.AddOption(Link{Name: "save", Url: "/config/save", Submit: true})
	p.AddOption(Link{Name: "reset", Url: "/config/reset"})
	p.Fields = getFields(&conf.Config)
	return p
}

// Handler function for the config template
func (p *ConfigPage) Base() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.Lock()
		defer p.Unlock()
		p.Exec(w, "config", p)
	}
}

// Handler function for the config form save action
func (p *ConfigPage) Save() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.Lock()
		defer p.Unlock()
		if err := r.ParseForm(); err != nil {
			logError(w, err)
			return
		}
		haveErrors := false
		conf := p.conf.Config
		for i, fld := range p.Fields {
			val := r.Form.Get(fld.Name)
			var err error
			if fld.Boolean {
				p.Fields[i].On = (val == "true")
				conf, err = conf.SetBool(fld.Name, p.Fields[i].On)
			} else {
				p.Fields[i].Value = val
				conf, err = conf.SetString(fld.Name, val)
			}
			p.Fields[i].Error = ""
			if err != nil {
				p.Fields[i].Error = "invalid syntax"
				haveErrors = true
			}
		}
		if !haveErrors {
			if err := conf.Save(p.conf.Name + ".net"); err != nil {
				logError(w, err)
				return
			}
			p.conf.Config = conf
		}
		http.Redirect(w, r, "/config", http.StatusFound)
	}
}

// Handler function for the config reset action
func (p *ConfigPage) Reset() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		p.Lock()
		defer p.Unlock()
		conf, err := nnet.LoadConfig(p.conf.Name + ".default")
		if err != nil {
			logError(w, err)
			return
		}
		if err = conf.Save(p.conf.Name + ".net"); err != nil {
			logError(w, err)
			return
		}
		log.Println("reset config:", p.conf.Name)
		p.conf.Config = conf
		p.Fields = getFields(&conf)
		http.Redirect(w, r, "/config", http.StatusFound)
	}
}

func (p *ConfigPage) Heading() template.HTML {
	files, err := os.ReadDir(nnet.DataDir)
	if err != nil {
		log.Println(err)
		return ""
	}
	var models []string
	for _, file := range files {
		if name := file.Name(); strings.HasSuffix(name, ".net") {
			models = append(models, strings.TrimSuffix(name, ".net"))
		}
	}
	return template.HTML(fmt.Sprintf("model: %s &nbsp; saved configs: %s",
		template.HTMLEscapeString(p.conf.Name), template.HTMLEscapeString(strings.Join(models, " "))))
}

func getFields(conf *nnet.Config) []Field {
	var flds []Field
	for _, key := range conf.Fields() {
		f := Field{Name: key, Value: fmt.Sprint(conf.Get(key))}
		f.On, f.Boolean = conf.Get(key).(bool)
		flds = append(flds, f)
	}
	return flds
}
