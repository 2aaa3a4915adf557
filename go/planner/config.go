/*
Copyright 2026 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package planner

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"google.golang.org/grpc/codes"

	"github.com/yiguolei/crate/go/planerrors"
	"github.com/yiguolei/crate/go/utils"
)

// EnvPrefix is the prefix of the environment variables that configure the
// planner, e.g. PLANNER_PAGE_SIZE_HINT.
const EnvPrefix = "PLANNER"

const (
	keyCollapse            = "collapse"
	keyPageSizeHint        = "page-size-hint"
	keySubqueryConcurrency = "subquery-concurrency"
	keyStatsTTL            = "stats-ttl"
)

// Config controls how statements are planned.
type Config struct {
	// Collapse merges logical operators before the physical plan is built.
	Collapse bool
	// PageSizeHint is passed to every collect; 0 lets the executor decide.
	PageSizeHint        int
	SubqueryConcurrency int
	// StatsTTL is how long table statistics are trusted. 0 means forever.
	StatsTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		Collapse:            true,
		SubqueryConcurrency: 4,
	}
}

// RegisterFlags registers the planner flags on fs, using the current values of cfg as defaults.
func (cfg *Config) RegisterFlags(fs *pflag.FlagSet) {
	utils.SetFlagBoolVar(fs, &cfg.Collapse, keyCollapse, cfg.Collapse, "merge logical operators before building the physical plan")
	utils.SetFlagIntVar(fs, &cfg.PageSizeHint, keyPageSizeHint, cfg.PageSizeHint, "number of rows collects should fetch per page, 0 for no hint")
	utils.SetFlagIntVar(fs, &cfg.SubqueryConcurrency, keySubqueryConcurrency, cfg.SubqueryConcurrency, "maximum number of subqueries planned in parallel")
	utils.SetFlagDurationVar(fs, &cfg.StatsTTL, keyStatsTTL, cfg.StatsTTL, "how long table statistics are used before they expire, 0 to keep them")
}

// LoadConfig resolves the configuration from, in order of precedence, the
// flags set on fs, PLANNER_* environment variables, configFile and the
// defaults. An empty configFile is skipped.
func LoadConfig(fs *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault(keyCollapse, def.Collapse)
	v.SetDefault(keyPageSizeHint, def.PageSizeHint)
	v.SetDefault(keySubqueryConcurrency, def.SubqueryConcurrency)
	v.SetDefault(keyStatsTTL, def.StatsTTL)

	for _, key := range []string{keyCollapse, keyPageSizeHint, keySubqueryConcurrency, keyStatsTTL} {
		flag := fs.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return Config{}, planerrors.Wrapf(err, "binding flag %s", key)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, planerrors.Wrapf(err, "reading planner config %s", configFile)
		}
	}

	cfg := Config{
		Collapse:            v.GetBool(keyCollapse),
		PageSizeHint:        v.GetInt(keyPageSizeHint),
		SubqueryConcurrency: v.GetInt(keySubqueryConcurrency),
		StatsTTL:            v.GetDuration(keyStatsTTL),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	switch {
	case cfg.PageSizeHint < 0:
		return planerrors.Errorf(codes.InvalidArgument, "%s must not be negative, got %d", keyPageSizeHint, cfg.PageSizeHint)
	case cfg.SubqueryConcurrency < 1:
		return planerrors.Errorf(codes.InvalidArgument, "%s must be at least 1, got %d", keySubqueryConcurrency, cfg.SubqueryConcurrency)
	case cfg.StatsTTL < 0:
		return planerrors.Errorf(codes.InvalidArgument, "%s must not be negative, got %v", keyStatsTTL, cfg.StatsTTL)
	}
	return nil
}
