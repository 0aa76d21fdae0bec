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

package mf

// Scheduler variant names.
const (
	AlgoNodeMovie          = "nodeMovie"
	AlgoEdgeMovie          = "edgeMovie"
	AlgoBlock              = "block"
	AlgoBlockAndSliceUsers = "blockAndSliceUsers"
	AlgoBlockAndSliceBoth  = "blockAndSliceBoth"
	AlgoSliceMarch         = "sliceMarch"
)

// AlgoNames lists the supported scheduler variants.
var AlgoNames = []string{
	AlgoNodeMovie, AlgoEdgeMovie, AlgoBlock,
	AlgoBlockAndSliceUsers, AlgoBlockAndSliceBoth, AlgoSliceMarch,
}

// FitConfig controls one training run.
type FitConfig struct {
	Jobs                int
	Verbose             int
	VerifyPerIter       bool
	UsersPerBlockSlice  int32
	MoviesPerBlockSlice int32
	// MarchRound selects the schedule round the marching scheduler takes its
	// fixed step size from.
	MarchRound int
}

// NewFitConfig creates a config with default values.
func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs:                1,
		Verbose:             1,
		UsersPerBlockSlice:  2048,
		MoviesPerBlockSlice: 512,
	}
}

// SetJobs sets the number of workers.
func (config *FitConfig) SetJobs(nJobs int) *FitConfig {
	config.Jobs = nJobs
	return config
}

// SetVerbose sets the round interval of progress logging.
func (config *FitConfig) SetVerbose(verbose int) *FitConfig {
	config.Verbose = verbose
	return config
}

// SetVerifyPerIter enables evaluation between rounds.
func (config *FitConfig) SetVerifyPerIter(v bool) *FitConfig {
	config.VerifyPerIter = v
	return config
}

// SetUsersPerBlockSlice sets the user slice width of the slicing schedulers.
func (config *FitConfig) SetUsersPerBlockSlice(n int32) *FitConfig {
	config.UsersPerBlockSlice = n
	return config
}

// SetMoviesPerBlockSlice sets the movie band width of the both-axis scheduler.
func (config *FitConfig) SetMoviesPerBlockSlice(n int32) *FitConfig {
	config.MoviesPerBlockSlice = n
	return config
}

// LoadFitConfig returns config if it is non-nil and defaults otherwise.
func (config *FitConfig) LoadFitConfig() *FitConfig {
	if config == nil {
		return NewFitConfig()
	}
	return config
}
