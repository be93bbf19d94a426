package nnet

import (
	"math/rand"
	"testing"

	"github.com/jnb666/reber/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d := Generate(rng, grammar.EmbeddedReber, grammar.Chars, 10000)
	require.Equal(t, 10000, d.Len())
	count := d.Count()
	assert.Equal(t, 5000, count[Valid])
	assert.Equal(t, 5000, count[Corrupt])
	for i, label := range d.Labels {
		if i < 5000 {
			require.Equal(t, Valid, label, "index %d", i)
			require.True(t, grammar.EmbeddedReber.Accepts(d.String(i)))
		} else {
			require.Equal(t, Corrupt, label, "index %d", i)
		}
	}
	avg, hist := d.Lengths()
	t.Logf("lengths: %s", avg)
	assert.Equal(t, float64(d.MaxLen), avg.Max)
	assert.Equal(t, 10000, hist.Total)
	assert.GreaterOrEqual(t, avg.Min, 9.0)
}

func TestGenerateOdd(t *testing.T) {
	d := Generate(rand.New(rand.NewSource(1)), grammar.Reber, grammar.Chars, 7)
	count := d.Count()
	assert.Equal(t, 3, count[Valid])
	assert.Equal(t, 4, count[Corrupt])
	assert.Equal(t, []int32{1, 1, 1, 0, 0, 0, 0}, d.Labels)
}

func TestGenerateSeeded(t *testing.T) {
	d1 := Generate(rand.New(rand.NewSource(5)), grammar.Reber, grammar.Chars, 50)
	d2 := Generate(rand.New(rand.NewSource(5)), grammar.Reber, grammar.Chars, 50)
	assert.Equal(t, d1.Seqs, d2.Seqs)
}

func TestInput(t *testing.T) {
	d := NewData("reber", grammar.Chars, [][]int32{{0, 4}, {1}}, []int32{1, 0})
	assert.Equal(t, []int{2, 7}, d.Shape())
	assert.Equal(t, []string{"corrupt", "valid"}, d.Classes())
	buf := make([]float32, 2*14)
	for i := range buf {
		buf[i] = 9
	}
	d.Input([]int{1, 0}, buf)
	expect := make([]float32, 28)
	expect[1] = 1
	expect[14+0] = 1
	expect[14+7+4] = 1
	assert.Equal(t, expect, buf)
	label := make([]int32, 2)
	d.Label([]int{1, 0}, label)
	assert.Equal(t, []int32{0, 1}, label)
	assert.Equal(t, "BT", d.String(0))
}

func TestDataFile(t *testing.T) {
	DataDir = t.TempDir()
	d := Generate(rand.New(rand.NewSource(2)), grammar.Reber, grammar.Chars, 20)
	require.NoError(t, SaveDataFile(d, "test_train"))
	assert.True(t, FileExists("test_train.dat"))

	data, err := LoadData("test")
	require.NoError(t, err)
	require.Contains(t, data, "train")
	got := data["train"].(*SeqData)
	assert.Equal(t, d.Seqs, got.Seqs)
	assert.Equal(t, d.Labels, got.Labels)
	assert.Equal(t, grammar.Chars, got.Alphabet())
	assert.Equal(t, d.MaxLen, got.MaxLen)

	_, err = LoadData("missing")
	assert.Error(t, err)
}

func TestDatasetBatches(t *testing.T) {
	d := Generate(rand.New(rand.NewSource(3)), grammar.Reber, grammar.Chars, 10)
	dset := NewDataset(d, 3, 0, rand.New(rand.NewSource(4)))
	assert.Equal(t, 10, dset.Samples)
	assert.Equal(t, 4, dset.Batches)
	for _, shuffle := range []bool{false, true} {
		if shuffle {
			dset.Shuffle()
		}
		dset.NextEpoch()
		seen := make(map[int]int)
		total := 0
		for batch := 0; batch < dset.Batches; batch++ {
			seqs, labels := dset.NextBatch()
			require.Equal(t, len(seqs), len(labels))
			for i, ix := range dset.Index(batch) {
				seen[ix]++
				assert.Equal(t, d.Seqs[ix], seqs[i])
				assert.Equal(t, d.Labels[ix], labels[i])
			}
			total += len(seqs)
		}
		assert.Equal(t, 10, total)
		assert.Len(t, seen, 10)
	}
}

func TestDatasetMaxSamples(t *testing.T) {
	d := Generate(rand.New(rand.NewSource(3)), grammar.Reber, grammar.Chars, 10)
	dset := NewDataset(d, 0, 4, rand.New(rand.NewSource(4)))
	assert.Equal(t, 4, dset.Samples)
	assert.Equal(t, 4, dset.BatchSize)
	assert.Equal(t, 1, dset.Batches)
	dset.Shuffle()
	seqs, _ := dset.GetBatch(0)
	assert.Len(t, seqs, 4)
}

func TestBuild(t *testing.T) {
	conf := DefaultConfig()
	conf.TrainSamples, conf.ValidSamples, conf.TestSamples = 100, 20, 0
	data, err := Build(conf, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, data, 2)
	assert.Equal(t, 100, data["train"].Len())
	assert.Equal(t, 20, data["valid"].Len())
	assert.Equal(t, "embedded", data["train"].Grammar)

	// sets are drawn from one stream in DataTypes order
	conf.TestSamples = 30
	data, err = Build(conf, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	for _, key := range DataTypes {
		want := Generate(rng, grammar.EmbeddedReber, grammar.Chars, data[key].Len())
		assert.Equal(t, want.Seqs, data[key].Seqs, key)
	}

	conf.Grammar = "nope"
	_, err = Build(conf, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
