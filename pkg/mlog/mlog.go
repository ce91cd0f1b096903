// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mlog provides the merge engine's file logger: a single
// zerolog.Logger writing to merge_to_master.log, truncated each run.
// Each entry is one zerolog JSON line carrying its level and message.
package mlog

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

const LogFileName = "merge_to_master.log"

var logger zerolog.Logger

func init() {
	logger = zerolog.New(discardWriter{}).With().Logger()
}

// Start opens (truncating) LogFileName in dir and routes subsequent
// Info/Warn/Debug calls there. Callers should defer the returned
// closer.
func Start(dir string) (Closer, error) {
	path := LogFileName
	if dir != "" {
		path = dir + string(os.PathSeparator) + LogFileName
	}
	f, err := os.Create(path)
	if err != nil {
		return Closer{}, fmt.Errorf("open log %s: %w", path, err)
	}
	logger = zerolog.New(f).With().Logger()
	return Closer{f}, nil
}

func Info(msg string)                { logger.Info().Msg(msg) }
func Infof(format string, a ...any)  { logger.Info().Msg(fmt.Sprintf(format, a...)) }
func Warn(msg string)                { logger.Warn().Msg(msg) }
func Warnf(format string, a ...any)  { logger.Warn().Msg(fmt.Sprintf(format, a...)) }
func Debugf(format string, a ...any) { logger.Debug().Msg(fmt.Sprintf(format, a...)) }

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type Closer struct{ f *os.File }

func (c Closer) Close() error {
	if c.f == nil {
		return nil
	}
	return c.f.Close()
}
