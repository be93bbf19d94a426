package main

import (
	"fmt"
	"github.com/jnb666/reber/nnet"
	"github.com/spf13/cobra"
)

func predict(m nnet.Model, dset *nnet.Dataset) {
	seqs, labels := dset.GetBatch(0)
	pred := make([]int32, len(seqs))
	m.Predict(seqs, pred)
	fmt.Println("predict:", pred)
	fmt.Println("labels: ", labels)
}

func trainCmd() *cobra.Command {
	var o overrides
	cmd := &cobra.Command{
		Use:   "train <model>",
		Short: "Train a model on the data set named in the model config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := args[0]
			fmt.Println("load model:", model)
			conf, err := nnet.LoadConfig(model + ".net")
			if err != nil {
				return err
			}
			conf = o.apply(cmd, conf)

			// load training and test data
			data, err := nnet.LoadData(conf.DataSet)
			if err != nil {
				return err
			}
			rng := nnet.SetSeed(conf.RandSeed)
			trainData := nnet.NewDataset(data["train"], conf.TrainBatch, conf.MaxSamples, rng)
			m, err := nnet.NewModel(conf, data["train"].Alphabet())
			if err != nil {
				return err
			}
			fmt.Println(nnet.Describe(m, conf))
			if conf.DebugLevel >= 1 {
				fmt.Println("== Before ==")
				predict(m, trainData)
			}

			// train the model
			tester := nnet.NewTestLogger(conf, data, rng)
			nnet.Train(m, trainData, tester, conf)

			if conf.DebugLevel >= 1 {
				fmt.Println("== After ==")
				predict(m, trainData)
			}
			return nil
		},
	}
	o.register(cmd)
	return cmd
}
