// Package web has a web based interface to browse the generated data and train models on it.
package web

import (
	"fmt"
	"github.com/gorilla/websocket"
	"github.com/jnb666/reber/nnet"
	"html/template"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Network holds the model with associated training / test data and configuration
type Network struct {
	*Config
	Data      map[string]nnet.Data
	Labels    map[string][]int32
	Pred      map[string][]int32
	Epoch     int
	model     nnet.Model
	test      *nnet.TestBase
	trainData *nnet.Dataset
	conn      *websocket.Conn
	rng       *rand.Rand
	testRng   *rand.Rand
	running   bool
	stop      bool
	run       int
	sync.Mutex
}

// Create a new network and load the data sets given the config.
func NewNetwork(conf *Config) (*Network, error) {
	n := &Network{Config: conf, test: nnet.NewTestBase()}
	if err := n.Init(conf.Config); err != nil {
		return nil, err
	}
	return n, nil
}

// Initialise the model and data. If the data files do not exist they are generated.
func (n *Network) Init(conf nnet.Config) error {
	log.Printf("init network: dataSet=%s model=%s\n", conf.DataSet, conf.Model)
	data, err := nnet.LoadData(conf.DataSet)
	if err != nil {
		log.Println("generate data:", err)
		built, err := nnet.Build(conf, nnet.SetSeed(conf.RandSeed))
		if err != nil {
			return err
		}
		if err = nnet.SaveData(conf.DataSet, built); err != nil {
			return err
		}
		data = make(map[string]nnet.Data)
		for key, d := range built {
			data[key] = d
		}
	}
	n.Data = data
	n.rng = nnet.SetSeed(conf.RandSeed)
	n.testRng = nnet.SetSeed(conf.RandSeed)
	n.trainData = nnet.NewDataset(data["train"], conf.TrainBatch, conf.MaxSamples, n.rng)
	if n.model, err = nnet.NewModel(conf, data["train"].Alphabet()); err != nil {
		return err
	}
	if conf.DebugLevel >= 1 {
		fmt.Println(nnet.Describe(n.model, conf))
	}
	n.test.Init(conf, data, n.testRng).Predict()
	n.Labels = make(map[string][]int32)
	n.Pred = make(map[string][]int32)
	for key, d := range data {
		n.Labels[key] = make([]int32, d.Len())
		d.Label(seq(d.Len()), n.Labels[key])
	}
	n.Epoch = 0
	return nil
}

// Perform training run in the background
func (n *Network) Train(restart bool) error {
	log.Printf("train %s: restart=%v\n", n.Name, restart)
	if restart {
		if n.Epoch != 0 {
			if err := n.Init(n.Config.Config); err != nil {
				return err
			}
			n.test.Reset()
		}
		n.Epoch = 1
	} else {
		n.Epoch++
	}
	if n.Epoch > n.MaxEpoch {
		return nil
	}
	n.running = true
	n.stop = false
	n.run++
	run, epoch := n.run, n.Epoch
	go func() {
		start := time.Now()
		done, quit := false, false
		for !done && !quit {
			loss := nnet.TrainEpoch(n.model, n.trainData, n.Config.Config)
			n.Lock()
			done = n.test.Test(n.model, epoch, loss, start)
			n.Unlock()
			epoch, quit = n.nextEpoch(run, epoch)
		}
		n.endRun(run)
		log.Println("train: end - quit =", quit)
	}()
	return nil
}

// clear the running flag unless a newer run has been started
func (n *Network) endRun(run int) {
	n.Lock()
	defer n.Unlock()
	if run != n.run {
		return
	}
	if last := len(n.test.Stats) - 1; last >= 0 {
		log.Println(n.test.Stats[last].String(n.test.Headers))
	}
	n.running = false
	n.stop = false
}

func (n *Network) nextEpoch(run, epoch int) (int, bool) {
	n.Lock()
	if run != n.run {
		n.Unlock()
		return epoch + 1, true
	}
	quit := false
	n.Epoch = epoch
	// check for interrupt
	if n.stop {
		n.stop = false
		n.running = false
		quit = true
	}
	// update predictions for each sequence
	for key, pred := range n.test.Pred {
		n.Pred[key] = append(n.Pred[key][:0], pred...)
	}
	conn := n.conn
	n.Unlock()
	// notify via websocket
	if conn != nil {
		msg := []byte(strconv.Itoa(epoch))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Println("nextEpoch: error writing to websocket", err)
		}
	}
	return epoch + 1, quit
}

// Stats returns a copy of the training stats
func (n *Network) Stats() []nnet.Stats {
	res := make([]nnet.Stats, len(n.test.Stats))
	for i, s := range n.test.Stats {
		res[i] = s.Copy()
	}
	return res
}

func (n *Network) heading() template.HTML {
	s := fmt.Sprintf(`%s: epoch <span id="epoch">%d</span>/%d`, n.Name, n.Epoch, n.MaxEpoch)
	return template.HTML(s)
}

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func mod(i, min, max int) int {
	if i < min {
		i = max
	}
	if i > max {
		i = min
	}
	return i
}
