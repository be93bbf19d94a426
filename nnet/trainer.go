package nnet

import (
	"fmt"
	"github.com/jnb666/reber/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"math/rand"
	"strings"
	"time"
)

// number of epochs used for the moving average of the validation error
const emaN = 10

var (
	epochsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reber_train_epochs_total",
		Help: "Number of training epochs completed.",
	})
	trainLoss = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reber_train_loss",
		Help: "Training loss from the most recent epoch.",
	})
)

// Training statistics
type Stats struct {
	Epoch     int
	Values    []float64
	BestSince int
	Elapsed   time.Duration
}

func StatsHeaders(d map[string]Data) []string {
	h := []string{"loss"}
	for _, key := range DataTypes {
		if _, ok := d[key]; ok {
			h = append(h, key+" error")
			if key == "valid" {
				h = append(h, "valid avg")
			}
		}
	}
	return h
}

func (s Stats) Format() []string {
	str := []string{fmt.Sprintf("%7.4f", s.Values[0])}
	for _, v := range s.Values[1:] {
		str = append(str, fmt.Sprintf("%6.2f%%", v*100))
	}
	return str
}

func (s Stats) String(headers []string) string {
	msg := fmt.Sprintf("epoch %3d:", s.Epoch)
	for i, val := range s.Format() {
		msg += fmt.Sprintf("  %s =%s", headers[i], val)
	}
	if s.BestSince >= 0 {
		msg += fmt.Sprintf(" [%d]", s.BestSince)
	}
	return msg
}

func (s Stats) Copy() Stats {
	s.Values = append([]float64{}, s.Values...)
	return s
}

// Tester interface to evaluate the performance after each epoch, Test method returns true if training should stop.
type Tester interface {
	Test(m Model, epoch int, loss float64, start time.Time) bool
}

// Tester which evaluates the error for each of the data sets and updates the stats.
type TestBase struct {
	Conf    Config
	Data    map[string]*Dataset
	Pred    map[string][]int32
	Stats   []Stats
	Headers []string
	Samples int
}

// Create a new base class which implements the Tester interface.
func NewTestBase() *TestBase {
	return &TestBase{Stats: []Stats{}}
}

// Initialise the test datasets and configuration.
func (t *TestBase) Init(conf Config, data map[string]Data, rng *rand.Rand) *TestBase {
	t.Conf = conf
	t.Data = make(map[string]*Dataset)
	t.Headers = StatsHeaders(data)
	t.Samples = minSamples(conf.MaxSamples, data["train"].Len())
	t.Pred = nil
	if conf.DebugLevel >= 1 {
		fmt.Printf("init tester: samples=%d batch size=%d\n", t.Samples, conf.TestBatch)
	}
	for key, d := range data {
		if conf.DebugLevel >= 1 {
			fmt.Println("dataset =>", key)
		}
		t.Data[key] = NewDataset(d, conf.TestBatch, t.Samples, rng)
	}
	return t
}

// Generate the predicted results when test is next run.
func (t *TestBase) Predict() *TestBase {
	t.Pred = make(map[string][]int32)
	for key, dset := range t.Data {
		t.Pred[key] = make([]int32, dset.Len())
	}
	return t
}

// Reset stats prior to new run
func (t *TestBase) Reset() {
	t.Stats = t.Stats[:0]
}

// Test performance of the model, called from the Train function on completion of each epoch.
func (t *TestBase) Test(m Model, epoch int, loss float64, start time.Time) bool {
	if t.Conf.DebugLevel >= 1 {
		fmt.Printf("== TEST EPOCH %d ==\n", epoch)
	}
	s := Stats{Epoch: epoch, Values: []float64{loss}, BestSince: -1}
	for _, key := range DataTypes {
		if dset, ok := t.Data[key]; ok {
			if dset.Samples < dset.Len() {
				dset.Shuffle()
			}
			var pred []int32
			if t.Pred != nil {
				pred = t.Pred[key]
			}
			errVal := Evaluate(m, dset, pred)
			s.Values = append(s.Values, errVal)
			if key == "valid" {
				ix := len(s.Values)
				// save average validation error
				avgVal := 0.0
				if len(t.Stats) > 0 {
					avgVal = t.Stats[len(t.Stats)-1].Values[ix]
				}
				avgVal = stats.EMA(avgVal).Add(errVal, emaN)
				s.Values = append(s.Values, avgVal)
				// get number of epochs where average validation error has increased
				for i := len(t.Stats) - 1; i >= 0; i-- {
					if t.Stats[i].Values[ix] > avgVal {
						s.BestSince = len(t.Stats) - 1 - i
						break
					}
				}
			}
		}
	}
	s.Elapsed = time.Since(start)
	t.Stats = append(t.Stats, s)
	epochsTotal.Inc()
	trainLoss.Set(loss)
	c := t.Conf
	return epoch >= c.MaxEpoch || loss <= c.MinLoss || (c.StopAfter > 0 && s.BestSince >= c.StopAfter)
}

type testLogger struct {
	*TestBase
}

// Create a new tester which logs stats to stdout.
func NewTestLogger(conf Config, data map[string]Data, rng *rand.Rand) Tester {
	return testLogger{TestBase: NewTestBase().Init(conf, data, rng)}
}

func (t testLogger) Test(m Model, epoch int, loss float64, start time.Time) bool {
	done := t.TestBase.Test(m, epoch, loss, start)
	s := t.Stats[len(t.Stats)-1]
	if done || t.Conf.LogEvery == 0 || epoch%t.Conf.LogEvery == 0 {
		fmt.Println(s.String(t.Headers))
	}
	if done {
		fmt.Printf("run time: %s\n", s.Elapsed.Round(10*time.Millisecond))
	}
	return done
}

// Train the model on the given training set until the tester signals to stop.
func Train(m Model, dset *Dataset, test Tester, conf Config) {
	done := false
	start := time.Now()
	for epoch := 1; epoch <= conf.MaxEpoch && !done; epoch++ {
		loss := TrainEpoch(m, dset, conf)
		done = test.Test(m, epoch, loss, start)
	}
}

// Perform one training epoch on dataset, returns the loss reported by the model.
func TrainEpoch(m Model, dset *Dataset, conf Config) float64 {
	if conf.Shuffle {
		dset.Shuffle()
	}
	dset.NextEpoch()
	if conf.DebugLevel >= 1 {
		fmt.Printf("== train epoch %d: %d batches ==\n", dset.Epoch(), dset.Batches)
	}
	return m.Fit(dset)
}

// Summary of the label counts and sequence lengths for each data set.
func Summary(data map[string]Data) string {
	var str []string
	for _, key := range DataTypes {
		d, ok := data[key].(*SeqData)
		if !ok {
			continue
		}
		count := d.Count()
		avg, _ := d.Lengths()
		str = append(str, fmt.Sprintf("%-5s: %5d valid %5d corrupt  length %s", key, count[Valid], count[Corrupt], avg))
	}
	return strings.Join(str, "\n")
}

func minSamples(a, b int) int {
	if a == 0 {
		return b
	}
	if a < b {
		return a
	}
	return b
}
