package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/near/near-jsonrpc-go/pkg/value"
)

// Output formats.
const (
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// render writes v to w in the given format.
func render(w io.Writer, format string, v value.Value) error {
	switch format {
	case OutputYAML:
		return renderYAML(w, v)
	case OutputTable:
		renderTable(w, v)
		return nil
	default:
		data, err := v.MarshalIndent("", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
}

func renderYAML(w io.Writer, v value.Value) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(v)); err != nil {
		return err
	}
	return enc.Close()
}

// yamlNode converts v keeping member order and number literals.
func yamlNode(v value.Value) *yaml.Node {
	switch v.Kind() {
	case value.KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.Members() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				yamlNode(m.Value))
		}
		return n
	case value.KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			n.Content = append(n.Content, yamlNode(item))
		}
		return n
	case value.KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case value.KindNumber:
		tag := "!!float"
		if v.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.Literal()}
	case value.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.String()}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// renderTable prints objects as key/value rows and arrays of objects as one
// row per item. Nested values are shown as compact JSON.
func renderTable(w io.Writer, v value.Value) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	switch {
	case v.Kind() == value.KindObject:
		t.AppendHeader(table.Row{"Field", "Value"})
		t.AppendSeparator()
		for _, m := range v.Members() {
			t.AppendRow(table.Row{m.Key, cell(m.Value)})
		}
	case v.Kind() == value.KindArray && allObjects(v):
		columns := columnsOf(v)
		header := make(table.Row, len(columns))
		for i, c := range columns {
			header[i] = c
		}
		t.AppendHeader(header)
		t.AppendSeparator()
		for _, item := range v.Items() {
			row := make(table.Row, len(columns))
			for i, c := range columns {
				if field, ok := item.Get(c); ok {
					row[i] = cell(field)
				}
			}
			t.AppendRow(row)
		}
	default:
		t.AppendHeader(table.Row{"Value"})
		t.AppendRow(table.Row{cell(v)})
	}

	t.Render()
}

func allObjects(v value.Value) bool {
	if v.Len() == 0 {
		return false
	}
	for _, item := range v.Items() {
		if item.Kind() != value.KindObject {
			return false
		}
	}
	return true
}

// columnsOf returns the keys of the first item followed by keys that only
// later items have, sorted.
func columnsOf(v value.Value) []string {
	items := v.Items()
	columns := items[0].Keys()
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}

	var extra []string
	for _, item := range items[1:] {
		for _, k := range item.Keys() {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(columns, extra...)
}

func cell(v value.Value) string {
	const maxWidth = 80
	var s string
	if text, ok := v.AsString(); ok {
		s = text
	} else {
		s = v.String()
	}
	if len(s) > maxWidth {
		s = s[:maxWidth-3] + "..."
	}
	return strings.ReplaceAll(s, "\n", " ")
}
