// Copyright (c) 2011 Florian Weimer. All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are
// met:
//
// * Redistributions of source code must retain the above copyright
//   notice, this list of conditions and the following disclaimer.
//
// * Redistributions in binary form must reproduce the above copyright
//   notice, this list of conditions and the following disclaimer in the
//   documentation and/or other materials provided with the distribution.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
// "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
// LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
// A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
// OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
// LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
// DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
// THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
// (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package pattern

import (
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"

	"github.com/GRbit/go-pattern/engine"
)

// Config holds the settings shared by patterns built through a Cache.
type Config struct {
	// Engine names a registered engine; empty selects DefaultEngine.
	Engine string `yaml:"engine"`
	// JIT selects "pcre-jit" when Engine is "pcre".
	JIT bool `yaml:"jit"`
	// Optimize builds the optimized form of each pattern after compiling.
	Optimize bool `yaml:"optimize"`
	// CacheSize bounds the number of patterns a Cache keeps.
	CacheSize int `yaml:"cache_size"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
	// Flags are flag names ORed into every operation.
	Flags []string `yaml:"flags"`
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() *Config {
	return &Config{
		CacheSize: 128,
		LogLevel:  "info",
	}
}

// configDoc is the YAML form of Config. Absent keys stay nil, and a null
// document (empty or comments only) leaves every field nil.
type configDoc struct {
	Engine    *string  `yaml:"engine"`
	JIT       *bool    `yaml:"jit"`
	Optimize  *bool    `yaml:"optimize"`
	CacheSize *int     `yaml:"cache_size"`
	LogLevel  *string  `yaml:"log_level"`
	Flags     []string `yaml:"flags"`
}

func (d *configDoc) apply(cfg *Config) {
	if d.Engine != nil {
		cfg.Engine = *d.Engine
	}
	if d.JIT != nil {
		cfg.JIT = *d.JIT
	}
	if d.Optimize != nil {
		cfg.Optimize = *d.Optimize
	}
	if d.CacheSize != nil {
		cfg.CacheSize = *d.CacheSize
	}
	if d.LogLevel != nil {
		cfg.LogLevel = *d.LogLevel
	}
	if d.Flags != nil {
		cfg.Flags = d.Flags
	}
}

// LoadConfig reads a YAML document over DefaultConfig and validates the
// result. Unknown keys are an error. Keys left out keep their defaults, so
// an empty document yields the defaults.
func LoadConfig(r io.Reader) (*Config, error) {
	var doc configDoc

	dec := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, ErrValue.Wrap(err, "config")
	}

	cfg := DefaultConfig()
	doc.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every setting names something that exists.
func (c *Config) Validate() error {
	if c.CacheSize <= 0 {
		return ErrValue.New("cache_size must be positive")
	}
	if _, err := c.ResolveEngine(); err != nil {
		return err
	}
	if _, err := c.ResolveFlags(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// ResolveEngine returns the engine the settings select.
func (c *Config) ResolveEngine() (engine.Engine, error) {
	name := c.Engine
	if c.JIT {
		if name == "" {
			name = defaultEngineName
		}
		if name != "pcre" {
			return nil, ErrValue.New("jit needs the pcre engine, not " + name)
		}
		name = "pcre-jit"
	}

	return LookupEngine(name)
}

// ResolveFlags parses Flags.
func (c *Config) ResolveFlags() (Flags, error) {
	return ParseFlags(c.Flags)
}

// Level parses LogLevel; empty means info.
func (c *Config) Level() (logrus.Level, error) {
	if strings.TrimSpace(c.LogLevel) == "" {
		return logrus.InfoLevel, nil
	}

	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, ErrValue.Wrap(err, "log_level")
	}

	return lvl, nil
}

// NewLogger returns a logger writing to out at the configured level.
func (c *Config) NewLogger(out io.Writer) (*logrus.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)

	return l, nil
}
