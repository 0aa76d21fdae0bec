// Copyright 2024 gridmf Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gridmf/gridmf/base/log"
	"github.com/gridmf/gridmf/config"
	"github.com/gridmf/gridmf/dataset"
	"github.com/gridmf/gridmf/graph"
	"github.com/gridmf/gridmf/mf"
)

var rootCommand = &cobra.Command{
	Use:   "gridmf",
	Short: "Parallel SGD matrix factorization over a bipartite rating graph",
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)
		conf := loadConfig(cmd)
		g := loadGraph(conf)
		if conf.Model.Load != "" {
			restore(conf.Model.Load, g)
			sum, rms := mf.Evaluate(g, conf.Train.Jobs)
			fmt.Printf("movies=%d users=%d ratings=%d sum=%g rms=%g\n",
				g.NumMovies(), g.NumUsers(), g.NumRatings(), sum, rms)
			return
		}
		trainer, err := mf.NewTrainer(conf.Train.Algo, conf.Train.Learn)
		if err != nil {
			log.Logger().Fatal("failed to create trainer", zap.Error(err))
		}
		result, err := trainer.Fit(context.Background(), g, conf.FitConfig())
		if err != nil {
			log.Logger().Fatal("failed to fit", zap.Error(err))
		}
		if conf.Model.Save != "" {
			save(conf.Model.Save, g)
		}
		fmt.Printf("movies=%d users=%d ratings=%d elapsed=%s sum=%g rms=%g\n",
			g.NumMovies(), g.NumUsers(), g.NumRatings(), result.Elapsed, result.Sum, result.RMS)
	},
}

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Report the rating distribution across worker bands",
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Root().PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.Root().PersistentFlags(), debug)
		conf := loadConfig(cmd)
		g := loadGraph(conf)
		fmt.Printf("movies=%d users=%d ratings=%d\n", g.NumMovies(), g.NumUsers(), g.NumRatings())
		counts := g.BandCounts(conf.Train.Jobs)
		cells := make([]string, len(counts))
		for i, c := range counts {
			cells[i] = fmt.Sprintf("%d", c)
		}
		fmt.Printf("band_ratings=%s\n", strings.Join(cells, " "))
	},
}

func loadConfig(cmd *cobra.Command) *config.Config {
	flagSet := cmd.Root().PersistentFlags()
	if err := config.BindFlags(flagSet); err != nil {
		log.Logger().Fatal("failed to bind flags", zap.Error(err))
	}
	configPath, _ := flagSet.GetString("config")
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		log.Logger().Fatal("failed to load config", zap.Error(err))
	}
	return conf
}

func loadGraph(conf *config.Config) *graph.Graph {
	g, err := dataset.LoadRatings(conf.Input.File)
	if err != nil {
		log.Logger().Fatal("failed to load ratings", zap.Error(err))
	}
	if err = g.Validate(); err != nil {
		log.Logger().Fatal("invalid rating graph", zap.Error(err))
	}
	return g
}

func save(path string, g *graph.Graph) {
	file, err := os.Create(path)
	if err != nil {
		log.Logger().Fatal("failed to create snapshot", zap.Error(err))
	}
	defer file.Close()
	if err = mf.Marshal(file, g); err != nil {
		log.Logger().Fatal("failed to save snapshot", zap.Error(err))
	}
	log.Logger().Info("saved snapshot", zap.String("path", path))
}

func restore(path string, g *graph.Graph) {
	file, err := os.Open(path)
	if err != nil {
		log.Logger().Fatal("failed to open snapshot", zap.Error(err))
	}
	defer file.Close()
	if err = mf.Unmarshal(file, g); err != nil {
		log.Logger().Fatal("failed to load snapshot", zap.Error(err))
	}
	log.Logger().Info("loaded snapshot", zap.String("path", path))
}

func init() {
	rootCommand.AddCommand(statsCommand)
	flagSet := rootCommand.PersistentFlags()
	flagSet.StringP("config", "c", "", "configuration file path")
	flagSet.StringP("input", "i", "", "rating triplet file path")
	flagSet.String("algo", mf.AlgoBlockAndSliceBoth, "scheduler variant ("+strings.Join(mf.AlgoNames, ", ")+")")
	flagSet.String("learn", mf.LearnIntel, "step schedule ("+strings.Join(mf.LearnNames, ", ")+")")
	flagSet.IntP("jobs", "j", runtime.NumCPU(), "number of workers")
	flagSet.Int32("users-per-blk", 2048, "user slice width")
	flagSet.Int32("movies-per-blk", 512, "movie band width")
	flagSet.Bool("verify-per-iter", false, "evaluate between rounds")
	flagSet.String("save", "", "save factors to a snapshot after training")
	flagSet.String("load", "", "load factors from a snapshot and evaluate")
	flagSet.Bool("debug", false, "use debug log mode")
	log.AddFlags(flagSet)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
