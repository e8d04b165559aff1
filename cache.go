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
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/GRbit/go-pattern/engine"
)

// Cache keeps recently used patterns so that repeated expressions compile
// once. It is safe for concurrent use.
type Cache struct {
	patterns *lru.Cache[string, *Pattern]
	engine   engine.Engine
	flags    Flags
	optimize bool
	log      logrus.FieldLogger
}

// NewCache builds a Cache from cfg; nil means DefaultConfig. Log output
// goes to stderr.
func NewCache(cfg *Config) (*Cache, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return nil, err
	}

	return newCache(cfg, log)
}

// NewCacheWithLogger is NewCache with an explicit logger.
func NewCacheWithLogger(cfg *Config, log logrus.FieldLogger) (*Cache, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return newCache(cfg, log)
}

func newCache(cfg *Config, log logrus.FieldLogger) (*Cache, error) {
	eng, err := cfg.ResolveEngine()
	if err != nil {
		return nil, err
	}
	flags, err := cfg.ResolveFlags()
	if err != nil {
		return nil, err
	}

	c := &Cache{
		engine:   eng,
		flags:    flags,
		optimize: cfg.Optimize,
		log:      log,
	}

	patterns, err := lru.NewWithEvict(cfg.CacheSize, func(expr string, _ *Pattern) {
		c.log.WithField("pattern", expr).Debug("pattern evicted from cache")
	})
	if err != nil {
		return nil, ErrValue.Wrap(err, "cache")
	}
	c.patterns = patterns

	return c, nil
}

// Get returns a copy of the cached Pattern for expr, creating it on a
// miss. The copy shares compiled forms with the cache; Set on it leaves the
// cached entry alone.
func (c *Cache) Get(expr string) *Pattern {
	p := c.get(expr)
	q := *p

	return &q
}

func (c *Cache) get(expr string) *Pattern {
	if p, ok := c.patterns.Get(expr); ok {
		return p
	}

	opts := []Option{WithEngine(c.engine), WithLogger(c.log)}
	if c.optimize {
		opts = append(opts, WithOptimize())
	}
	p := New(expr, opts...)

	if prev, ok, _ := c.patterns.PeekOrAdd(expr, p); ok {
		return prev
	}

	return p
}

// Compile returns expr compiled with flags and the configured flags.
func (c *Cache) Compile(expr string, flags Flags) (*Compiled, error) {
	return c.get(expr).Compile(c.Flags(flags))
}

// Flags merges flags with the configured ones.
func (c *Cache) Flags(flags Flags) Flags {
	return flags | c.flags
}

// Engine returns the configured engine.
func (c *Cache) Engine() engine.Engine {
	return c.engine
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	return c.patterns.Len()
}

// Purge drops every cached pattern.
func (c *Cache) Purge() {
	c.patterns.Purge()
}
