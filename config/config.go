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

// Package config loads and validates the training configuration from a file,
// environment variables and command line flags, in ascending precedence.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gridmf/gridmf/mf"
)

// Config is the root configuration.
type Config struct {
	Input InputConfig `mapstructure:"input"`
	Train TrainConfig `mapstructure:"train"`
	Model ModelConfig `mapstructure:"model"`
}

// InputConfig locates the rating triplet file.
type InputConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

// TrainConfig selects the scheduler and its parameters.
type TrainConfig struct {
	Algo          string `mapstructure:"algo" validate:"oneof=nodeMovie edgeMovie block blockAndSliceUsers blockAndSliceBoth sliceMarch"`
	Learn         string `mapstructure:"learn" validate:"oneof=Intel Purdue Bottou Inv"`
	Jobs          int    `mapstructure:"jobs" validate:"gt=0"`
	UsersPerBlk   int32  `mapstructure:"users_per_blk" validate:"gt=0"`
	MoviesPerBlk  int32  `mapstructure:"movies_per_blk" validate:"gt=0"`
	VerifyPerIter bool   `mapstructure:"verify_per_iter"`
}

// ModelConfig controls factor snapshot persistence.
type ModelConfig struct {
	Save string `mapstructure:"save"`
	Load string `mapstructure:"load"`
}

func setDefault() {
	viper.SetDefault("train.algo", mf.AlgoBlockAndSliceBoth)
	viper.SetDefault("train.learn", mf.LearnIntel)
	viper.SetDefault("train.jobs", 1)
	viper.SetDefault("train.users_per_blk", 2048)
	viper.SetDefault("train.movies_per_blk", 512)
	viper.SetDefault("train.verify_per_iter", false)
}

// LoadConfig loads a configuration file if path is non-empty, overlays
// GRIDMF_* environment variables and validates the result.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetEnvPrefix("gridmf")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := validator.New().Struct(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// BindFlags maps command line flags onto configuration keys. Flags changed by
// the user take precedence over the file and the environment.
func BindFlags(flagSet *pflag.FlagSet) error {
	bindings := map[string]string{
		"input":           "input.file",
		"algo":            "train.algo",
		"learn":           "train.learn",
		"jobs":            "train.jobs",
		"users-per-blk":   "train.users_per_blk",
		"movies-per-blk":  "train.movies_per_blk",
		"verify-per-iter": "train.verify_per_iter",
		"save":            "model.save",
		"load":            "model.load",
	}
	for flag, key := range bindings {
		if err := viper.BindPFlag(key, flagSet.Lookup(flag)); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// FitConfig converts the training section into the trainer's configuration.
func (conf *Config) FitConfig() *mf.FitConfig {
	return mf.NewFitConfig().
		SetJobs(conf.Train.Jobs).
		SetVerifyPerIter(conf.Train.VerifyPerIter).
		SetUsersPerBlockSlice(conf.Train.UsersPerBlk).
		SetMoviesPerBlockSlice(conf.Train.MoviesPerBlk)
}
