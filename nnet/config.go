package nnet

import (
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path"
	"reflect"
	"strconv"
	"strings"
)

// Dataset generation and training configuration settings
type Config struct {
	DataSet      string
	Grammar      string
	TrainSamples int
	ValidSamples int
	TestSamples  int
	Model        string
	Eta          float64
	TrainBatch   int
	TestBatch    int
	MaxEpoch     int
	MaxSamples   int
	LogEvery     int
	StopAfter    int
	MinLoss      float64
	Shuffle      bool
	RandSeed     int64
	DebugLevel   int
}

// Default settings for the embedded Reber dataset
func DefaultConfig() Config {
	return Config{
		DataSet:      "reber",
		Grammar:      "embedded",
		TrainSamples: 10000,
		ValidSamples: 2000,
		TestSamples:  2000,
		Model:        "perceptron",
		Eta:          0.1,
		TrainBatch:   100,
		TestBatch:    1000,
		MaxEpoch:     20,
		LogEvery:     1,
		Shuffle:      true,
		RandSeed:     42,
	}
}

func isYAML(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// Load config from json or yaml file under DataDir
func LoadConfig(name string) (c Config, err error) {
	filePath := path.Join(DataDir, name)
	var f *os.File
	if f, err = os.Open(filePath); err != nil {
		return c, errors.Wrap(err, "load config")
	}
	defer f.Close()
	fmt.Println("loading config from", name)
	if err = c.decode(f, isYAML(name)); err != nil {
		return c, errors.Wrapf(err, "decoding %s", filePath)
	}
	return c, nil
}

func (c *Config) decode(r io.Reader, asYAML bool) error {
	if asYAML {
		return yaml.NewDecoder(r).Decode(c)
	}
	return json.NewDecoder(r).Decode(c)
}

// Save default config and overwites current config
func (c Config) SaveDefault(name string) error {
	err := c.Save(name + ".default")
	if err != nil {
		return err
	}
	err = c.Save(name + ".net")
	return err
}

// Save config to JSON or YAML file under DataDir
func (c Config) Save(name string) error {
	if err := os.MkdirAll(DataDir, 0755); err != nil {
		return errors.Wrap(err, "save config")
	}
	filePath := path.Join(DataDir, "."+name)
	f, err := os.Create(filePath)
	if err != nil {
		return errors.Wrap(err, "save config")
	}
	fmt.Println("saving config to", name)
	if isYAML(name) {
		enc := yaml.NewEncoder(f)
		err = enc.Encode(c)
		if err == nil {
			err = enc.Close()
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(c)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(filePath, path.Join(DataDir, name))
	}
	if err != nil {
		os.Remove(filePath)
		return errors.Wrapf(err, "saving %s", name)
	}
	return nil
}

func (c Config) Fields() []string {
	st := reflect.TypeOf(c)
	fld := make([]string, st.NumField())
	for i := range fld {
		fld[i] = st.Field(i).Name
	}
	return fld
}

func (c Config) Get(key string) interface{} {
	s := reflect.ValueOf(c)
	return s.FieldByName(key).Interface()
}

func (c Config) String() string {
	fields := c.Fields()
	str := []string{"== Config =="}
	for _, key := range fields {
		str = append(str, fmt.Sprintf("%-14s: %v", key, c.Get(key)))
	}
	return strings.Join(str, "\n")
}

func (c Config) SetString(key, val string) (Config, error) {
	s := reflect.ValueOf(&c).Elem()
	f := s.FieldByName(key)
	if !f.IsValid() {
		return c, errors.Errorf("invalid config field %q", key)
	}
	var err error
	switch f.Type().Kind() {
	case reflect.Int, reflect.Int64:
		var x int64
		if x, err = strconv.ParseInt(val, 10, 64); err == nil {
			f.SetInt(x)
		}
	case reflect.Float64:
		var x float64
		if x, err = strconv.ParseFloat(val, 64); err == nil {
			f.SetFloat(x)
		}
	case reflect.String:
		f.SetString(val)
	case reflect.Bool:
		var x bool
		if x, err = strconv.ParseBool(val); err == nil {
			f.SetBool(x)
		}
	default:
		return c, errors.Errorf("invalid type for SetString: %v", f.Type().Kind())
	}
	return c, err
}

func (c Config) SetBool(key string, val bool) (Config, error) {
	s := reflect.ValueOf(&c).Elem()
	f := s.FieldByName(key)
	if f.IsValid() && f.Type().Kind() == reflect.Bool {
		f.SetBool(val)
		return c, nil
	}
	return c, errors.Errorf("invalid type for SetBool: %s", key)
}
