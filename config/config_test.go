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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/gridmf/gridmf/mf"
)

func writeTempConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	path := writeTempConfig(t, `
[input]
file = "ratings.txt"
`)
	conf, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "ratings.txt", conf.Input.File)
	assert.Equal(t, mf.AlgoBlockAndSliceBoth, conf.Train.Algo)
	assert.Equal(t, mf.LearnIntel, conf.Train.Learn)
	assert.Equal(t, 1, conf.Train.Jobs)
	assert.Equal(t, int32(2048), conf.Train.UsersPerBlk)
	assert.Equal(t, int32(512), conf.Train.MoviesPerBlk)
	assert.False(t, conf.Train.VerifyPerIter)
}

func TestLoadConfigFile(t *testing.T) {
	viper.Reset()
	path := writeTempConfig(t, `
[input]
file = "ml-1m.txt"

[train]
algo = "sliceMarch"
learn = "Bottou"
jobs = 8
users_per_blk = 256
movies_per_blk = 64
verify_per_iter = true

[model]
save = "factors.bin"
`)
	conf, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, mf.AlgoSliceMarch, conf.Train.Algo)
	assert.Equal(t, mf.LearnBottou, conf.Train.Learn)
	assert.Equal(t, 8, conf.Train.Jobs)
	assert.Equal(t, int32(256), conf.Train.UsersPerBlk)
	assert.Equal(t, int32(64), conf.Train.MoviesPerBlk)
	assert.True(t, conf.Train.VerifyPerIter)
	assert.Equal(t, "factors.bin", conf.Model.Save)

	fitConfig := conf.FitConfig()
	assert.Equal(t, 8, fitConfig.Jobs)
	assert.Equal(t, int32(256), fitConfig.UsersPerBlockSlice)
	assert.Equal(t, int32(64), fitConfig.MoviesPerBlockSlice)
	assert.True(t, fitConfig.VerifyPerIter)
}

func TestLoadConfigInvalid(t *testing.T) {
	viper.Reset()
	path := writeTempConfig(t, `
[input]
file = "ratings.txt"

[train]
algo = "simulatedAnnealing"
`)
	_, err := LoadConfig(path)
	assert.Error(t, err)

	// input.file is required
	viper.Reset()
	path = writeTempConfig(t, `
[train]
jobs = 4
`)
	_, err = LoadConfig(path)
	assert.Error(t, err)

	viper.Reset()
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("GRIDMF_TRAIN_JOBS", "16")
	path := writeTempConfig(t, `
[input]
file = "ratings.txt"
`)
	conf, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 16, conf.Train.Jobs)
}
