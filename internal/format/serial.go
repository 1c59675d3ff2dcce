package format

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// JSONFormatter serializes the row set as an ordered sequence of objects,
// one per row, mapping header name to cell text. Object keys keep the
// configured column order, which plain map marshaling would not.
type JSONFormatter struct{}

// Render implements Formatter.
func (f *JSONFormatter) Render(headers []string, rows [][]string, _ Options) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  {")
		for j, h := range headers {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(h)
			if err != nil {
				return "", fmt.Errorf("marshal header %q: %w", h, err)
			}
			val, err := json.Marshal(cellOrEmpty(row, j))
			if err != nil {
				return "", fmt.Errorf("marshal cell: %w", err)
			}
			buf.WriteString("\n    ")
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(val)
		}
		buf.WriteString("\n  }")
	}
	if len(rows) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.String(), nil
}

// YAMLFormatter serializes the row set as a YAML sequence of mappings.
// The document is built from yaml.Node values so the mapping keys keep
// the configured column order instead of yaml's alphabetical map order.
type YAMLFormatter struct{}

// Render implements Formatter.
func (f *YAMLFormatter) Render(headers []string, rows [][]string, _ Options) (string, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		mapping := &yaml.Node{Kind: yaml.MappingNode}
		for j, h := range headers {
			mapping.Content = append(mapping.Content,
				scalarNode(h),
				scalarNode(cellOrEmpty(row, j)),
			)
		}
		seq.Content = append(seq.Content, mapping)
	}

	out, err := yaml.Marshal(seq)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	return string(out), nil
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func cellOrEmpty(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
