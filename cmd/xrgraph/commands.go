// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline"
	"github.com/xrgraph/xrgraph/pkg/core/pipeline/recorder"
	"github.com/xrgraph/xrgraph/pkg/ext/runalgorithm"
	"github.com/xrgraph/xrgraph/pkg/graphjson"
	"github.com/xrgraph/xrgraph/pkg/support/blobs"
	"github.com/xrgraph/xrgraph/pkg/support/jsonfile"
	"k8s.io/klog/v2"
)

// newDecoder configured by the flags.
func newDecoder(session pipeline.Session) *graphjson.Decoder {
	d := graphjson.NewDecoder(session).StrictLists(*flagStrict)
	if *flagRejectDuplicates {
		d.Duplicates(graphjson.RejectDuplicates)
	}
	return d
}

func parse(ctx context.Context, docPath string) (*graphjson.Description, error) {
	doc, err := jsonfile.LoadE(ctx, docPath)
	if err != nil {
		return nil, err
	}
	return newDecoder(nil).KnownTypes(newMux(nil).Types()...).Parse(doc)
}

func validate(ctx context.Context, w io.Writer, paths []string) error {
	table := newPlainTableWithReds(true, lipgloss.Left, lipgloss.Right, lipgloss.Right, lipgloss.Left)
	table.Table.Headers("Document", "Tensors", "Operators", "Status")
	var numInvalid int
	for ii, name := range MinimalUniquePaths(paths...) {
		desc, err := parse(ctx, paths[ii])
		if err != nil {
			numInvalid++
			table.Row(true, name, "", "", err.Error())
			continue
		}
		table.Row(false, name, humanize.Comma(int64(len(desc.Tensors))), humanize.Comma(int64(len(desc.Operators))), "ok")
	}
	_, _ = fmt.Fprintln(w, table.Table.Render())
	if numInvalid > 0 {
		return errors.Errorf("%d of %d documents are invalid", numInvalid, len(paths))
	}
	return nil
}

func inspect(ctx context.Context, w io.Writer, paths []string) error {
	names := MinimalUniquePaths(paths...)
	for ii, docPath := range paths {
		desc, err := parse(ctx, docPath)
		if err != nil {
			return errors.WithMessagef(err, "inspecting %q", docPath)
		}
		summary(w, names[ii], desc)
		tensorsTable(w, desc)
		operatorsTable(w, desc)
	}
	return nil
}

func summary(w io.Writer, name string, desc *graphjson.Description) {
	var numPlaceholders, numGLTF int
	var memory uintptr
	for _, decl := range desc.Tensors {
		if decl.Placeholder {
			numPlaceholders++
		}
		if decl.IsGLTF() {
			numGLTF++
			continue
		}
		memory += decl.Attribute.Memory()
	}
	_, _ = fmt.Fprintln(w, titleStyle.Render("Summary"))
	table := newPlainTable(false, lipgloss.Right, lipgloss.Left)
	table.Row("document", name)
	table.Row("# tensors", humanize.Comma(int64(len(desc.Tensors))))
	table.Row("# placeholders", humanize.Comma(int64(numPlaceholders)))
	table.Row("# glTF", humanize.Comma(int64(numGLTF)))
	table.Row("# operators", humanize.Comma(int64(len(desc.Operators))))
	table.Row("tensors memory", humanize.Bytes(uint64(memory)))
	if len(desc.Metadata) > 0 {
		var compact bytes.Buffer
		if err := json.Compact(&compact, desc.Metadata); err == nil {
			table.Row("metadata", compact.String())
		}
	}
	_, _ = fmt.Fprintln(w, table.Render())
}

func tensorsTable(w io.Writer, desc *graphjson.Description) {
	_, _ = fmt.Fprintln(w, titleStyle.Render("Tensors"))
	table := newPlainTable(true, lipgloss.Left, lipgloss.Left, lipgloss.Right, lipgloss.Left, lipgloss.Left,
		lipgloss.Center, lipgloss.Right)
	table.Headers("Name", "Dimensions", "Channels", "Usage", "Data Type", "Placeholder", "Bytes")
	for _, decl := range desc.Tensors {
		placeholder := ""
		if decl.Placeholder {
			placeholder = "yes"
		}
		if decl.IsGLTF() {
			table.Row(decl.Name, "glTF", "", "", "", placeholder, "")
			continue
		}
		attr := decl.Attribute
		table.Row(decl.Name, fmt.Sprintf("%v", attr.Dimensions), strconv.Itoa(int(attr.Channels)), attr.Usage.String(),
			attr.DataType.String(), placeholder, humanize.Bytes(uint64(attr.Memory())))
	}
	_, _ = fmt.Fprintln(w, table.Render())
}

func operatorsTable(w io.Writer, desc *graphjson.Description) {
	_, _ = fmt.Fprintln(w, titleStyle.Render("Operators"))
	table := newPlainTable(true, lipgloss.Right, lipgloss.Left)
	table.Headers("#", "Type", "Inputs", "Outputs", "Parameters")
	for ii, op := range desc.Operators {
		table.Row(strconv.Itoa(ii), op.Type(), strings.Join(op.Inputs(), ", "), strings.Join(op.Outputs(), ", "),
			parameters(op))
	}
	_, _ = fmt.Fprintln(w, table.Render())
}

// parameters of op other than its inputs and outputs.
func parameters(op graphjson.Operator) string {
	switch op := op.(type) {
	case graphjson.GetAffine:
		return fmt.Sprintf("src=%v dst=%v", op.SrcPoints, op.DstPoints)
	case graphjson.CvtColor:
		return fmt.Sprintf("flag=%d", op.Flag)
	case graphjson.Arithmetic:
		return strconv.Quote(op.Expression)
	case graphjson.Custom:
		var parts []string
		for _, m := range op.Record.Fields {
			switch m.Key {
			case graphjson.KeyType, graphjson.KeyInputs, graphjson.KeyOutputs:
				continue
			}
			parts = append(parts, m.Key+"="+string(m.Value))
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// output writes doc to -out, or pretty-printed to w.
func output(ctx context.Context, w io.Writer, doc graphjson.Document) error {
	if *flagOut != "" {
		if err := jsonfile.WriteE(ctx, *flagOut, doc); err != nil {
			return err
		}
		klog.FromContext(ctx).V(1).Info("wrote document", "path", *flagOut, "bytes", len(doc))
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", jsonfile.Indent); err != nil {
		return errors.Wrap(err, "invalid document")
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func format(ctx context.Context, w io.Writer, paths []string) error {
	if len(paths) != 1 {
		return errors.Errorf("format takes exactly one document, got %d", len(paths))
	}
	desc, err := parse(ctx, paths[0])
	if err != nil {
		return err
	}
	doc, err := graphjson.Encode(desc)
	if err != nil {
		return err
	}
	return output(ctx, w, doc)
}

// modelsProvider returns the provider of the model assets of the document at docPath.
func modelsProvider(docPath string) *runalgorithm.CachingProvider {
	dir := *flagModels
	if dir == "" {
		if strings.HasPrefix(docPath, blobs.GCSScheme) {
			dir = path.Dir(strings.TrimPrefix(docPath, blobs.GCSScheme))
			dir = blobs.GCSScheme + dir
		} else {
			dir = filepath.Dir(docPath)
		}
	}
	if strings.HasPrefix(dir, blobs.GCSScheme) {
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(dir, blobs.GCSScheme), "/")
		return runalgorithm.StoreProvider(&blobs.GCSStore{Bucket: bucket}, prefix)
	}
	return runalgorithm.StoreProvider(&blobs.LocalStore{Root: dir}, "")
}

// newMux handles the custom operators supported by the tool.
func newMux(models runalgorithm.ModelProvider) *graphjson.Mux {
	return graphjson.NewMux().Handle(runalgorithm.OpType, runalgorithm.New(models).HandleRecord)
}

// build decodes doc with a recorder, handling run_algorithm operators.
func build(ctx context.Context, doc graphjson.Document, models runalgorithm.ModelProvider) (*graphjson.Result, error) {
	return newDecoder(recorder.NewSession()).WithHandler(newMux(models).HandleRecord).Decode(ctx, doc)
}

func roundtrip(ctx context.Context, w io.Writer, paths []string) error {
	if len(paths) != 1 {
		return errors.Errorf("roundtrip takes exactly one document, got %d", len(paths))
	}
	docPath := paths[0]
	doc, err := jsonfile.LoadE(ctx, docPath)
	if err != nil {
		return err
	}
	models := modelsProvider(docPath)
	first, err := build(ctx, doc, models)
	if err != nil {
		return errors.WithMessagef(err, "building %q", docPath)
	}
	encoded, err := graphjson.Encode(first.Description)
	if err != nil {
		return errors.WithMessage(err, "encoding")
	}
	second, err := build(ctx, encoded, models)
	if err != nil {
		return errors.WithMessage(err, "building the encoded document")
	}
	want, got := first.Pipeline.(*recorder.Pipeline).String(), second.Pipeline.(*recorder.Pipeline).String()
	if klog.V(1).Enabled() {
		klog.Infof("%s", got)
	}
	if want != got {
		return errors.Errorf("the encoded document builds a different pipeline:\n%s\nwant:\n%s", got, want)
	}
	return output(ctx, w, encoded)
}
