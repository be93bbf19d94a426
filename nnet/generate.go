package nnet

import (
	"fmt"
	"github.com/jnb666/reber/grammar"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"math/rand"
)

var generatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reber_generated_strings_total",
	Help: "Number of strings generated for datasets, by label.",
}, []string{"label"})

// Generate assembles a labeled dataset of n examples: the first n/2 are valid strings from the
// grammar and the remaining n-n/2 are corrupted strings. All valid examples come first, so the
// caller should shuffle before training.
func Generate(rng grammar.Rand, g *grammar.Grammar, chars grammar.Alphabet, n int) *SeqData {
	nvalid := n / 2
	seqs := make([][]int32, 0, n)
	labels := make([]int32, 0, n)
	for i := 0; i < nvalid; i++ {
		seqs = append(seqs, chars.MustEncode(g.Generate(rng)))
		labels = append(labels, Valid)
	}
	for i := nvalid; i < n; i++ {
		seqs = append(seqs, chars.MustEncode(g.Corrupt(rng, chars)))
		labels = append(labels, Corrupt)
	}
	generatedTotal.WithLabelValues("valid").Add(float64(nvalid))
	generatedTotal.WithLabelValues("corrupt").Add(float64(n - nvalid))
	return NewData(g.Name, chars, seqs, labels)
}

// Build generates the data sets with the sizes given in the config, in DataTypes order.
// Sets with zero size are skipped.
func Build(conf Config, rng *rand.Rand) (map[string]*SeqData, error) {
	g, err := grammar.Lookup(conf.Grammar)
	if err != nil {
		return nil, err
	}
	if err = g.Validate(grammar.Chars); err != nil {
		return nil, err
	}
	sizes := map[string]int{
		"train": conf.TrainSamples,
		"valid": conf.ValidSamples,
		"test":  conf.TestSamples,
	}
	data := make(map[string]*SeqData)
	for _, key := range DataTypes {
		if sizes[key] <= 0 {
			continue
		}
		d := Generate(rng, g, grammar.Chars, sizes[key])
		if conf.DebugLevel >= 1 {
			avg, _ := d.Lengths()
			fmt.Printf("%s: %d sequences, length %s\n", key, d.Len(), avg)
		}
		data[key] = d
	}
	return data, nil
}

// Save the generated data sets to files under DataDir named after the dataset.
func SaveData(dataSet string, data map[string]*SeqData) error {
	for _, key := range DataTypes {
		if d, ok := data[key]; ok {
			if err := SaveDataFile(d, dataSet+"_"+key); err != nil {
				return err
			}
		}
	}
	return nil
}
