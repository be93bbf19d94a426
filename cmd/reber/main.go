// Command reber generates Reber grammar datasets and trains classifiers on them.
package main

import (
	"github.com/jnb666/reber/nnet"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "reber",
		Short:         "Reber grammar dataset generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&nnet.DataDir, "data", nnet.DataDir, "directory for data and config files")
	root.AddCommand(
		generateCmd(),
		sampleCmd(),
		checkCmd(),
		trainCmd(),
		webCmd(),
	)
	nnet.CheckErr(root.Execute())
}

// config settings which can be overridden from the command line
type overrides struct {
	conf nnet.Config
}

func (o *overrides) register(cmd *cobra.Command) {
	def := nnet.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&o.conf.Grammar, "grammar", def.Grammar, "grammar name")
	f.StringVar(&o.conf.Model, "model", def.Model, "model type: perceptron or oracle")
	f.IntVar(&o.conf.TrainSamples, "train", def.TrainSamples, "number of training samples")
	f.IntVar(&o.conf.ValidSamples, "valid", def.ValidSamples, "number of validation samples")
	f.IntVar(&o.conf.TestSamples, "test", def.TestSamples, "number of test samples")
	f.Float64Var(&o.conf.Eta, "eta", def.Eta, "learning rate")
	f.Int64Var(&o.conf.RandSeed, "seed", def.RandSeed, "random number seed")
	f.IntVar(&o.conf.MaxEpoch, "epochs", def.MaxEpoch, "max epochs")
	f.IntVar(&o.conf.MaxSamples, "samples", def.MaxSamples, "max samples")
	f.IntVar(&o.conf.TrainBatch, "batch", def.TrainBatch, "train batch size")
	f.IntVar(&o.conf.TestBatch, "testbatch", def.TestBatch, "test batch size")
	f.IntVar(&o.conf.DebugLevel, "debug", def.DebugLevel, "debug logging level")
	f.BoolVar(&o.conf.Shuffle, "shuffle", def.Shuffle, "shuffle training data each epoch")
}

// apply flags which were set on the command line to conf
func (o *overrides) apply(cmd *cobra.Command, conf nnet.Config) nnet.Config {
	names := map[string]string{
		"grammar": "Grammar", "model": "Model", "train": "TrainSamples", "valid": "ValidSamples",
		"test": "TestSamples", "eta": "Eta", "seed": "RandSeed", "epochs": "MaxEpoch",
		"samples": "MaxSamples", "batch": "TrainBatch", "testbatch": "TestBatch",
		"debug": "DebugLevel", "shuffle": "Shuffle",
	}
	for flag, field := range names {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		var err error
		if val, ok := o.conf.Get(field).(bool); ok {
			conf, err = conf.SetBool(field, val)
		} else {
			conf, err = conf.SetString(field, cmd.Flags().Lookup(flag).Value.String())
		}
		nnet.CheckErr(err)
	}
	return conf
}
