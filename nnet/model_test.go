package nnet

import (
	"math/rand"
	"testing"

	"github.com/jnb666/reber/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(t *testing.T, conf Config) map[string]Data {
	built, err := Build(conf, rand.New(rand.NewSource(conf.RandSeed)))
	require.NoError(t, err)
	data := make(map[string]Data)
	for key, d := range built {
		data[key] = d
	}
	return data
}

func smallConfig() Config {
	conf := DefaultConfig()
	conf.Grammar = "reber"
	conf.TrainSamples, conf.ValidSamples, conf.TestSamples = 400, 100, 100
	conf.TrainBatch, conf.TestBatch = 50, 100
	conf.MaxEpoch = 3
	return conf
}

func TestNewModel(t *testing.T) {
	conf := DefaultConfig()
	m, err := NewModel(conf, grammar.Chars)
	require.NoError(t, err)
	assert.IsType(t, &Perceptron{}, m)
	conf.Model = "oracle"
	m, err = NewModel(conf, grammar.Chars)
	require.NoError(t, err)
	assert.Equal(t, "oracle: embedded grammar", m.String())
	conf.Model = "lstm"
	_, err = NewModel(conf, grammar.Chars)
	assert.Error(t, err)
}

func TestPerceptronFeatures(t *testing.T) {
	p := NewPerceptron(grammar.Chars, 1)
	assert.Len(t, p.Weights, 81)
	// start=7 end=8 with 9 symbols per row
	feat := p.features([]int32{0, 1}, nil)
	assert.Equal(t, []int{7*9 + 0, 0*9 + 1, 1*9 + 8}, feat)
}

func TestPerceptronEmpty(t *testing.T) {
	p := NewPerceptron(grammar.Chars, 0.1)
	dset := NewDataset(NewData("reber", grammar.Chars, nil, nil), 10, 0, rand.New(rand.NewSource(1)))
	assert.Equal(t, 0.0, p.Fit(dset))
}

func TestOracle(t *testing.T) {
	conf := smallConfig()
	conf.Model = "oracle"
	data := testData(t, conf)
	m, err := NewModel(conf, grammar.Chars)
	require.NoError(t, err)
	dset := NewDataset(data["train"], conf.TestBatch, 0, rand.New(rand.NewSource(1)))
	pred := make([]int32, dset.Len())
	errRate := Evaluate(m, dset, pred)
	t.Logf("oracle error = %.2f%%", errRate*100)
	for i, label := range data["train"].(*SeqData).Labels {
		if label == Valid {
			require.Equal(t, Valid, pred[i], "valid example %d", i)
		}
	}
	assert.Less(t, errRate, 0.5)
}

func TestTrain(t *testing.T) {
	conf := smallConfig()
	data := testData(t, conf)
	rng := rand.New(rand.NewSource(2))
	m, err := NewModel(conf, grammar.Chars)
	require.NoError(t, err)
	trainData := NewDataset(data["train"], conf.TrainBatch, conf.MaxSamples, rng)
	tester := NewTestBase().Init(conf, data, rng).Predict()
	Train(m, trainData, tester, conf)
	require.Len(t, tester.Stats, 3)
	assert.Equal(t, []string{"loss", "train error", "test error", "valid error", "valid avg"}, tester.Headers)
	for i, s := range tester.Stats {
		assert.Equal(t, i+1, s.Epoch)
		assert.Len(t, s.Values, 5)
		t.Log(s.String(tester.Headers))
	}
	assert.Len(t, tester.Pred["train"], 400)
}

func TestTrainMinLoss(t *testing.T) {
	conf := smallConfig()
	conf.Model = "oracle"
	conf.MinLoss = 1
	conf.MaxEpoch = 10
	data := testData(t, conf)
	rng := rand.New(rand.NewSource(2))
	m, err := NewModel(conf, grammar.Chars)
	require.NoError(t, err)
	tester := NewTestLogger(conf, data, rng)
	Train(m, NewDataset(data["train"], conf.TrainBatch, 0, rng), tester, conf)
	assert.Len(t, tester.(testLogger).Stats, 1)
}

func TestSummary(t *testing.T) {
	conf := smallConfig()
	s := Summary(testData(t, conf))
	t.Log("\n" + s)
	assert.Contains(t, s, "train:   200 valid   200 corrupt")
}
