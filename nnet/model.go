// Package nnet contains routines for generating grammar datasets and for training and
// testing classifiers on them.
package nnet

import (
	"fmt"
	"github.com/jnb666/reber/grammar"
	"github.com/pkg/errors"
	"math/rand"
	"os"
	"strings"
	"time"
)

// Model is the classifier consuming a dataset.
type Model interface {
	// Fit performs one training epoch and returns the training loss.
	Fit(dset *Dataset) float64
	// Predict sets the predicted label for each sequence.
	Predict(seqs [][]int32, pred []int32)
	String() string
}

// NewModel creates the model named in the config.
func NewModel(conf Config, chars grammar.Alphabet) (Model, error) {
	switch conf.Model {
	case "perceptron", "":
		return NewPerceptron(chars, conf.Eta), nil
	case "oracle":
		g, err := grammar.Lookup(conf.Grammar)
		if err != nil {
			return nil, err
		}
		return &Oracle{Grammar: g, Chars: chars}, nil
	default:
		return nil, errors.Errorf("invalid model type: %s", conf.Model)
	}
}

// Calculate the error rate from the predicted versus actual labels.
// If pred slice is not nil then also return the predicted labels for each sample.
func Evaluate(m Model, dset *Dataset, pred []int32) float64 {
	if dset.Samples == 0 {
		return 0
	}
	classes := make([]int32, dset.BatchSize)
	nerr := 0
	for batch := 0; batch < dset.Batches; batch++ {
		seqs, labels := dset.GetBatch(batch)
		m.Predict(seqs, classes[:len(seqs)])
		for i, y := range labels {
			if classes[i] != y {
				nerr++
			}
		}
		if pred != nil {
			for i, ix := range dset.Index(batch) {
				pred[ix] = classes[i]
			}
		}
	}
	return float64(nerr) / float64(dset.Samples)
}

// Perceptron is a linear classifier over character bigram counts, including
// bigrams with start and end of sequence markers.
type Perceptron struct {
	Eta     float64
	Weights []float64
	Bias    float64
	nchars  int
}

// NewPerceptron creates a perceptron with zero weights and the given learning rate.
func NewPerceptron(chars grammar.Alphabet, eta float64) *Perceptron {
	n := len(chars) + 2
	return &Perceptron{Eta: eta, Weights: make([]float64, n*n), nchars: len(chars)}
}

// bigram feature indexes: id nchars is the start marker and nchars+1 the end marker
func (p *Perceptron) features(seq []int32, feat []int) []int {
	n := p.nchars + 2
	prev := p.nchars
	feat = feat[:0]
	for _, id := range seq {
		feat = append(feat, prev*n+int(id))
		prev = int(id)
	}
	return append(feat, prev*n+p.nchars+1)
}

func (p *Perceptron) score(feat []int) float64 {
	sum := p.Bias
	for _, f := range feat {
		sum += p.Weights[f]
	}
	return sum
}

// Fit updates the weights on each misclassified example. Loss is the fraction of mistakes.
func (p *Perceptron) Fit(dset *Dataset) float64 {
	if dset.Samples == 0 {
		return 0
	}
	var feat []int
	mistakes := 0
	for batch := 0; batch < dset.Batches; batch++ {
		seqs, labels := dset.NextBatch()
		for i, seq := range seqs {
			feat = p.features(seq, feat)
			var y int32
			if p.score(feat) > 0 {
				y = Valid
			}
			if y == labels[i] {
				continue
			}
			mistakes++
			delta := p.Eta
			if labels[i] == Corrupt {
				delta = -delta
			}
			for _, f := range feat {
				p.Weights[f] += delta
			}
			p.Bias += delta
		}
	}
	return float64(mistakes) / float64(dset.Samples)
}

func (p *Perceptron) Predict(seqs [][]int32, pred []int32) {
	var feat []int
	for i, seq := range seqs {
		feat = p.features(seq, feat)
		pred[i] = Corrupt
		if p.score(feat) > 0 {
			pred[i] = Valid
		}
	}
}

func (p *Perceptron) String() string {
	return fmt.Sprintf("perceptron: %d bigram features eta=%g", len(p.Weights), p.Eta)
}

// Oracle labels a sequence as valid if the grammar accepts it. Its error on the corrupt
// examples is the fraction of corrupted strings which are still grammatical.
type Oracle struct {
	Grammar *grammar.Grammar
	Chars   grammar.Alphabet
}

// Fit has nothing to learn, it returns the error rate on the training set.
func (o *Oracle) Fit(dset *Dataset) float64 {
	return Evaluate(o, dset, nil)
}

func (o *Oracle) Predict(seqs [][]int32, pred []int32) {
	for i, seq := range seqs {
		pred[i] = Corrupt
		if s, err := o.Chars.Decode(seq); err == nil && o.Grammar.Accepts(s) {
			pred[i] = Valid
		}
	}
}

func (o *Oracle) String() string {
	return "oracle: " + o.Grammar.String() + " grammar"
}

// Describe the model and the config settings
func Describe(m Model, conf Config) string {
	return strings.Join([]string{conf.String(), "== Model ==", m.String()}, "\n")
}

// Set random number seed, or random seed if seed <= 0
func SetSeed(seed int64) *rand.Rand {
	if seed <= 0 {
		seed = time.Now().UTC().UnixNano()
	}
	fmt.Println("random seed =", seed)
	return rand.New(rand.NewSource(seed))
}

// Exit in case of error
func CheckErr(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
