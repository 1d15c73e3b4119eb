package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization of an artifact document.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, falling back to content sniffing.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

type encoderDoc struct {
	Classes []string `json:"classes" yaml:"classes"`
}

type treeNodeDoc struct {
	Feature   int     `json:"feature" yaml:"feature"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Left      int     `json:"left" yaml:"left"`
	Right     int     `json:"right" yaml:"right"`
	Value     float64 `json:"value" yaml:"value"`
}

type treeDoc struct {
	Nodes []treeNodeDoc `json:"nodes" yaml:"nodes"`
}

type modelDoc struct {
	Type         string             `json:"type" yaml:"type"`
	Features     []string           `json:"features" yaml:"features"`
	Intercept    float64            `json:"intercept" yaml:"intercept"`
	Coefficients map[string]float64 `json:"coefficients" yaml:"coefficients"`
	Trees        []treeDoc          `json:"trees" yaml:"trees"`
}

// DecodeEncoders parses an encoder collection keyed by field name.
func DecodeEncoders(data []byte, format Format) (EncoderSet, error) {
	var doc map[string]encoderDoc
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("decode encoders: %w", err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("decode encoders: no encoders defined")
	}
	set := make(EncoderSet, len(doc))
	for field, enc := range doc {
		le, err := NewLabelEncoder(enc.Classes)
		if err != nil {
			return nil, fmt.Errorf("encoder %q: %w", field, err)
		}
		set[field] = le
	}
	return set, nil
}

// DecodeRegressor parses a model artifact into a Regressor.
func DecodeRegressor(data []byte, format Format) (Regressor, error) {
	var doc modelDoc
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	switch doc.Type {
	case KindLinear:
		return NewLinearRegressor(doc.Features, doc.Intercept, doc.Coefficients)
	case KindTreeEnsemble:
		trees := make([]Tree, 0, len(doc.Trees))
		for _, td := range doc.Trees {
			tree := make(Tree, 0, len(td.Nodes))
			for _, n := range td.Nodes {
				tree = append(tree, TreeNode(n))
			}
			trees = append(trees, tree)
		}
		return NewTreeEnsemble(doc.Features, trees)
	default:
		return nil, fmt.Errorf("decode model: unsupported model type %q", doc.Type)
	}
}

func decode(data []byte, format Format, out any) error {
	if format == FormatAuto {
		format = sniff(data)
	}
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, out)
	case FormatYAML:
		return yaml.Unmarshal(data, out)
	default:
		return fmt.Errorf("unknown artifact format %q", format)
	}
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}
