// Copyright 2015 Google Inc.
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

// Program mergetomaster merges a plugin's edits into one of its
// declared masters, producing a single self-contained master file.
//
// Usage: mergetomaster [OPTIONS] PLUGIN MASTER
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pborman/getopt"

	"github.com/greatness7/mergetomaster/pkg/backup"
	"github.com/greatness7/mergetomaster/pkg/esp"
	"github.com/greatness7/mergetomaster/pkg/merge"
	"github.com/greatness7/mergetomaster/pkg/mlog"
)

// exitIfErr writes err to standard error and exits with status 1. If
// err is nil it does nothing.
func exitIfErr(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop(1)
	}
}

var stop = os.Exit

func main() {
	var removeDeleted, overwrite, preserveDuplicateRefs, applyMovedRefs, help bool

	getopt.BoolVarLong(&removeDeleted, "remove-deleted", 'r', "remove deleted objects and references")
	getopt.BoolVarLong(&overwrite, "overwrite", 'o', "overwrite the master without creating a backup")
	getopt.BoolVarLong(&preserveDuplicateRefs, "preserve-duplicate-references", 0, "skip duplicate-reference removal")
	getopt.BoolVarLong(&applyMovedRefs, "apply-moved-references", 0, "apply moved-reference relocations")
	getopt.BoolVarLong(&help, "help", '?', "display help")
	getopt.SetParameters("PLUGIN MASTER")

	if err := getopt.Getopt(nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		getopt.PrintUsage(os.Stderr)
		stop(1)
	}

	if help {
		getopt.CommandLine.PrintUsage(os.Stderr)
		stop(0)
	}

	args := getopt.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "mergetomaster: expected PLUGIN and MASTER arguments")
		getopt.PrintUsage(os.Stderr)
		stop(1)
	}
	pluginPath, masterPath := args[0], args[1]

	for _, p := range []string{pluginPath, masterPath} {
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			fmt.Fprintf(os.Stderr, "mergetomaster: invalid file path: %s\n", p)
			stop(1)
		}
	}

	closer, err := mlog.Start(".")
	exitIfErr(err)
	defer closer.Close()

	exitIfErr(run(pluginPath, masterPath, merge.Options{
		RemoveDeleted:               removeDeleted,
		PreserveDuplicateReferences: preserveDuplicateRefs,
		ApplyMovedReferences:        applyMovedRefs,
	}, overwrite))
}

func run(pluginPath, masterPath string, opts merge.Options, overwrite bool) error {
	pluginStream, err := esp.Decode(pluginPath)
	if err != nil {
		return err
	}

	masterStream, err := esp.Decode(masterPath)
	if err != nil {
		return err
	}
	masterData := merge.Collect(masterStream.Records)

	masterFI, err := os.Stat(masterPath)
	if err != nil {
		return err
	}

	header := findHeader(pluginStream.Records)
	if header == nil {
		return fmt.Errorf("%s: no header record", pluginPath)
	}
	masterName := filepath.Base(masterPath)
	if err := merge.EnsureMasterPresent(header, masterName, uint64(masterFI.Size()), true); err != nil {
		return err
	}

	merged, err := merge.MergePlugins(pluginStream.Records, masterData, masterName, filepath.Dir(masterPath), opts)
	if err != nil {
		return err
	}

	if !overwrite {
		dest, err := backup.Rotate(masterPath, exeStem())
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		mlog.Infof("backed up %s to %s", masterPath, dest)
	}

	out := &esp.Plugin{Records: merged.IntoRecords()}
	if err := out.EncodeToPath(masterPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Merge Successful: %s\n", masterPath)
	fmt.Fprintf(os.Stderr, "Log available at: %s\n", mlog.LogFileName)
	return nil
}

func findHeader(records []esp.Record) *esp.Header {
	for _, r := range records {
		if h, ok := r.(*esp.Header); ok {
			return h
		}
	}
	return nil
}

func exeStem() string {
	exe, err := os.Executable()
	if err != nil {
		return "mergetomaster"
	}
	base := filepath.Base(exe)
	return base[:len(base)-len(filepath.Ext(base))]
}
