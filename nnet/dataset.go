package nnet

import (
	"encoding/gob"
	"fmt"
	"github.com/jnb666/reber/grammar"
	"github.com/jnb666/reber/stats"
	"github.com/pkg/errors"
	"math/rand"
	"os"
	"path"
)

var (
	DataDir   = dataDir()
	DataTypes = []string{"train", "test", "valid"}
)

// Label values for generated strings
const (
	Corrupt int32 = 0
	Valid   int32 = 1
)

func init() {
	gob.Register(&SeqData{})
}

func dataDir() string {
	if dir := os.Getenv("REBER_DATA"); dir != "" {
		return dir
	}
	return "data"
}

// Data interface type represents the raw data for a training or test set
type Data interface {
	Len() int
	Classes() []string
	Shape() []int
	Alphabet() grammar.Alphabet
	Label(index []int, label []int32)
	Input(index []int, buf []float32)
	Seq(i int) []int32
}

// SeqData is a set of variable length character id sequences with binary labels.
type SeqData struct {
	Grammar string
	Chars   grammar.Alphabet
	Class   []string
	MaxLen  int
	Seqs    [][]int32
	Labels  []int32
}

// NewData function creates a new data set which implements the Data interface
func NewData(grammarName string, chars grammar.Alphabet, seqs [][]int32, labels []int32) *SeqData {
	d := &SeqData{
		Grammar: grammarName,
		Chars:   chars,
		Class:   []string{"corrupt", "valid"},
		Seqs:    seqs,
		Labels:  labels,
	}
	for _, s := range seqs {
		if len(s) > d.MaxLen {
			d.MaxLen = len(s)
		}
	}
	return d
}

func (d *SeqData) Len() int { return len(d.Labels) }

func (d *SeqData) Classes() []string { return d.Class }

// Shape of input is max sequence length * alphabet size
func (d *SeqData) Shape() []int { return []int{d.MaxLen, len(d.Chars)} }

func (d *SeqData) Alphabet() grammar.Alphabet { return d.Chars }

func (d *SeqData) Seq(i int) []int32 { return d.Seqs[i] }

func (d *SeqData) Label(index []int, label []int32) {
	for i, ix := range index {
		label[i] = d.Labels[ix]
	}
}

// Input sets one hot encoded sequences padded with zeros to MaxLen in buf.
func (d *SeqData) Input(index []int, buf []float32) {
	nchars := len(d.Chars)
	nfeat := d.MaxLen * nchars
	for i, ix := range index {
		row := buf[i*nfeat : (i+1)*nfeat]
		for j := range row {
			row[j] = 0
		}
		for pos, id := range d.Seqs[ix] {
			if pos >= d.MaxLen {
				break
			}
			row[pos*nchars+int(id)] = 1
		}
	}
}

// String decodes sequence i
func (d *SeqData) String(i int) string {
	s, err := d.Chars.Decode(d.Seqs[i])
	if err != nil {
		return err.Error()
	}
	return s
}

// Lengths returns summary statistics on the sequence lengths
func (d *SeqData) Lengths() (*stats.Average, *stats.Histogram) {
	avg := new(stats.Average)
	hist := stats.NewHistogram()
	for _, s := range d.Seqs {
		avg.Add(float64(len(s)))
		hist.Add(len(s))
	}
	return avg, hist
}

// Count the number of examples with each label
func (d *SeqData) Count() map[int32]int {
	count := make(map[int32]int)
	for _, l := range d.Labels {
		count[l]++
	}
	return count
}

// Dataset type encapsulates a set of training, test or validation data.
type Dataset struct {
	Data
	Samples   int
	BatchSize int
	Batches   int
	indexes   []int
	seqs      [][]int32
	labels    []int32
	epoch     int
	batch     int
	rng       *rand.Rand
}

// Create a new Dataset struct, set the batch size and maxSamples
func NewDataset(data Data, batchSize, maxSamples int, rng *rand.Rand) *Dataset {
	d := &Dataset{Data: data, Samples: data.Len(), rng: rng}
	if maxSamples > 0 && d.Samples > maxSamples {
		d.Samples = maxSamples
	}
	if batchSize == 0 || batchSize > d.Samples {
		d.BatchSize = d.Samples
	} else {
		d.BatchSize = batchSize
	}
	if d.BatchSize > 0 {
		d.Batches = d.Samples / d.BatchSize
		if d.Samples%d.BatchSize != 0 {
			d.Batches++
		}
	}
	d.seqs = make([][]int32, d.BatchSize)
	d.labels = make([]int32, d.BatchSize)
	d.indexes = make([]int, d.Samples)
	for i := range d.indexes {
		d.indexes[i] = i
	}
	return d
}

// Get given batch of sequences and labels. The returned slices are reused by the next call.
func (d *Dataset) GetBatch(batch int) (seqs [][]int32, labels []int32) {
	start := batch * d.BatchSize
	end := start + d.BatchSize
	if end > d.Samples {
		end = d.Samples
	}
	index := d.indexes[start:end]
	n := len(index)
	for i, ix := range index {
		d.seqs[i] = d.Seq(ix)
	}
	d.Label(index, d.labels[:n])
	return d.seqs[:n], d.labels[:n]
}

// Index returns the sample indexes for the given batch in the current order.
func (d *Dataset) Index(batch int) []int {
	start := batch * d.BatchSize
	end := start + d.BatchSize
	if end > d.Samples {
		end = d.Samples
	}
	return d.indexes[start:end]
}

// Get next batch of data
func (d *Dataset) NextBatch() (seqs [][]int32, labels []int32) {
	seqs, labels = d.GetBatch(d.batch)
	if d.Batches > 0 {
		d.batch = (d.batch + 1) % d.Batches
	}
	return
}

// Rewind to start of data
func (d *Dataset) Rewind() {
	d.epoch = 0
	d.batch = 0
}

// Called at start of each epoch
func (d *Dataset) NextEpoch() {
	d.epoch++
	d.batch = 0
}

// Epoch returns the current epoch number
func (d *Dataset) Epoch() int { return d.epoch }

// Shuffle the data set
func (d *Dataset) Shuffle() {
	d.indexes = d.rng.Perm(d.Data.Len())[:d.Samples]
}

// Load data from disk given the dataset name.
func LoadData(model string) (d map[string]Data, err error) {
	var data Data
	d = make(map[string]Data)
	for _, key := range DataTypes {
		name := model + "_" + key
		if FileExists(name + ".dat") {
			if data, err = LoadDataFile(name); err != nil {
				return
			}
			d[key] = data
		}
	}
	if _, ok := d["train"]; !ok {
		return d, errors.Errorf("no training data for %s in %s", model, DataDir)
	}
	return d, nil
}

// Decode data from file in gob format under DataDir
func LoadDataFile(name string) (Data, error) {
	filePath := path.Join(DataDir, name+".dat")
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "load data")
	}
	defer f.Close()
	fmt.Printf("loading data from %s.dat:\t", name)
	var d Data
	if err = gob.NewDecoder(f).Decode(&d); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filePath)
	}
	fmt.Println(append(d.Shape(), d.Len()))
	return d, nil
}

// Encode in gob format and save to file under DataDir
func SaveDataFile(d Data, name string) error {
	if err := os.MkdirAll(DataDir, 0755); err != nil {
		return errors.Wrap(err, "save data")
	}
	filePath := path.Join(DataDir, name+".dat")
	f, err := os.Create(filePath)
	if err != nil {
		return errors.Wrap(err, "save data")
	}
	defer f.Close()
	fmt.Println("saving data to", name+".dat")
	if err = gob.NewEncoder(f).Encode(&d); err != nil {
		return errors.Wrapf(err, "encoding %s", filePath)
	}
	return nil
}

// Check if file exists under DataDir
func FileExists(name string) bool {
	filePath := path.Join(DataDir, name)
	_, err := os.Stat(filePath)
	return err == nil
}
