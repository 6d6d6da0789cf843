package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SaveSetting updates a single scalar setting in the config file,
// identified by a dot-separated key like "ui.word_diff" or "ref".
// It works on yaml.Node so comments and formatting in the rest of the
// file survive the rewrite.
func SaveSetting(configPath, key, value string) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user's own config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	setNestedScalar(doc.Content[0], strings.Split(key, "."), value)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}

	return writeAtomically(configPath, buf.Bytes())
}

// setNestedScalar walks (creating as needed) nested mappings down to
// the last path element and sets it to value.
func setNestedScalar(mapping *yaml.Node, path []string, value string) {
	name := path[0]

	// Mapping content alternates key and value nodes.
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != name {
			continue
		}
		target := mapping.Content[i+1]
		if len(path) == 1 {
			setScalar(target, value)
			return
		}
		if target.Kind != yaml.MappingNode {
			*target = yaml.Node{Kind: yaml.MappingNode}
		}
		setNestedScalar(target, path[1:], value)
		return
	}

	// Key absent: append it.
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: name}
	if len(path) == 1 {
		valNode := &yaml.Node{}
		setScalar(valNode, value)
		mapping.Content = append(mapping.Content, keyNode, valNode)
		return
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	mapping.Content = append(mapping.Content, keyNode, child)
	setNestedScalar(child, path[1:], value)
}

// setScalar replaces a node with an untagged scalar so booleans and
// numbers keep their YAML types on re-encode.
func setScalar(n *yaml.Node, value string) {
	n.Kind = yaml.ScalarNode
	n.Tag = ""
	n.Value = value
	n.Style = 0
	n.Content = nil
}

// writeAtomically writes data via a temp file and rename so a crash
// mid-write never leaves a truncated config.
func writeAtomically(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".diffscope.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempName := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempName, configPath); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("replacing config file: %w", err)
	}
	return nil
}
