// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// xrgraph validates, inspects and reformats pipeline documents.
//
// Usage:
//
//	xrgraph [flags] <command> <document> [<document>...]
//
// Documents can be local files or "gs://<bucket>/<object>" paths. See -help for the commands and flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"k8s.io/klog/v2"
)

var (
	flagStrict = flag.Bool("strict", false, "Decode the operators \"inputs\" and \"outputs\" strictly: "+
		"elements that are not tensor names are errors instead of being skipped.")
	flagRejectDuplicates = flag.Bool("reject_duplicates", false,
		"Reject documents that declare a tensor name more than once. By default the last declaration is used.")
	flagOut = flag.String("out", "", "Where to write the document generated by \"format\" and \"roundtrip\". "+
		"If empty it is printed to the standard output.")
	flagModels = flag.String("models", "", "Directory (or gs://<bucket>/<prefix>) with the model assets of the "+
		"run_algorithm operators, used by \"roundtrip\". Defaults to the directory of the document.")
)

type command struct {
	name, help string
	run        func(ctx context.Context, w io.Writer, paths []string) error
}

var commands = []command{
	{"validate", "Parse and validate the documents, without building pipelines.", validate},
	{"inspect", "List the tensors and operators of the documents.", inspect},
	{"format", "Rewrite the document in the canonical layout: pretty-printed, keys in order.", format},
	{"roundtrip", "Build the pipeline of the document, encode it back, and check that the encoded " +
		"document builds the same pipeline.", roundtrip},
}

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintf(out, "Usage: xrgraph [flags] <command> <document> [<document>...]\n\nCommands:\n")
	for _, cmd := range commands {
		_, _ = fmt.Fprintf(out, "  %-10s %s\n", cmd.name, cmd.help)
	}
	_, _ = fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		klog.Errorf("Missing command and document. See 'xrgraph -help'.")
		os.Exit(1)
	}
	var cmd *command
	for ii := range commands {
		if commands[ii].name == args[0] {
			cmd = &commands[ii]
		}
	}
	if cmd == nil {
		klog.Errorf("Unknown command %q. See 'xrgraph -help'.", args[0])
		os.Exit(1)
	}

	ctx := klog.NewContext(context.Background(), klog.Background())
	if err := cmd.run(ctx, os.Stdout, args[1:]); err != nil {
		klog.Errorf("xrgraph %s: %v", cmd.name, err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}
