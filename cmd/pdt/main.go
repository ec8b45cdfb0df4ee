package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
	"go-ml.dev/pkg/zorros/zlog"

	"github.com/ravaghi/PDT/dataset"
	"github.com/ravaghi/PDT/metrics"
	"github.com/ravaghi/PDT/model"
	"github.com/ravaghi/PDT/trainer"
)

var cfgFile string

func main() {
	root := &cobra.Command{
		Use:           "pdt",
		Short:         "experiment scaffolding for genomic sequence classification",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	root.AddCommand(trainCmd())
	if err := root.Execute(); err != nil {
		zlog.Error(err.Error())
		os.Exit(1)
	}
}

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "train, evaluate and test the baseline model on a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return zorros.Trace(err)
			}
			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
				if err := viper.ReadInConfig(); err != nil {
					return zorros.Wrapf(err, "read config: %v", err.Error())
				}
			}
			return train(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.String("task", "TaxonomyClassification", "TaxonomyClassification | VariantEffectPrediction | PlantDeepSEA")
	f.String("train", "", "training dataset (tsv, tsv.xz or sqlite)")
	f.String("val", "", "validation dataset")
	f.String("test", "", "test dataset")
	f.Int("batch-size", 32, "records per batch")
	f.Int("epochs", 10, "training epochs")
	f.Float64("lr", 0.01, "learning rate")
	f.Int("vocab", 5, "sequence alphabet size")
	f.Int("classes", 2, "number of classes or label dimensions")
	f.Int("seq-len", 0, "fixed record length of non-packed tasks")
	f.Int("tissues", 0, "tissue contexts of variant effect datasets")
	f.Int("workers", dataset.DefaultWorkers, "batch collation workers")
	f.Int64("seed", 0, "batch shuffling seed, 0 leaves it unseeded")
	f.String("metrics-out", "", "write metrics history CSV to this file")
	return cmd
}

func train(ctx context.Context) error {
	taskName := viper.GetString("task")
	// variable-length packing only applies to the taxonomy pipeline;
	// the other tasks read fixed-length records in file order
	varLen := taskName == "TaxonomyClassification"

	open := func(key string) (*dataset.DataLoader, error) {
		path := viper.GetString(key)
		if path == "" {
			return nil, zorros.Errorf("no %v dataset configured", key)
		}
		return dataset.Open(path, viper.GetInt("batch-size"),
			dataset.WithVarLen(varLen),
			dataset.WithWorkers(viper.GetInt("workers")),
			dataset.WithSeed(viper.GetInt64("seed")))
	}
	trainSet, err := open("train")
	if err != nil {
		return err
	}
	valSet, err := open("val")
	if err != nil {
		return err
	}
	testSet, err := open("test")
	if err != nil {
		return err
	}

	mdl := model.NewBaseline(model.BaselineConfig{
		Vocab:   viper.GetInt("vocab"),
		Classes: viper.GetInt("classes"),
		SeqLen:  viper.GetInt("seq-len"),
		Tissues: viper.GetInt("tissues"),
		Seed:    viper.GetInt64("seed"),
	})
	var crit model.Criterion = model.BCE{}
	if taskName == "TaxonomyClassification" {
		crit = model.CrossEntropy{}
	}

	history := &metrics.History{}
	t, err := trainer.New(trainer.Config{
		Task:      taskName,
		Model:     mdl,
		Optimizer: model.NewSGD(mdl, viper.GetFloat64("lr")),
		Criterion: crit,
		Train:     trainSet,
		Val:       valSet,
		Test:      testSet,
		Sink:      metrics.MultiSink{metrics.LogSink{}, history},
	})
	if err != nil {
		return err
	}

	epochs := viper.GetInt("epochs")
	zlog.Info(fmt.Sprintf("training %v for %d epochs, %d train batches per epoch", taskName, epochs, trainSet.Len()))
	if err = t.Run(ctx, epochs); err != nil {
		return err
	}
	if out := viper.GetString("metrics-out"); out != "" {
		if err = history.Flush(iokit.File(out)); err != nil {
			return err
		}
		zlog.Info(fmt.Sprintf("metrics history written to %v", out))
	}
	return nil
}
