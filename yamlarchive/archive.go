// Package yamlarchive stores pfx effects as YAML documents.
package yamlarchive

import (
	"fmt"

	"github.com/TheBitDrifter/pfx"
	"gopkg.in/yaml.v3"
)

var _ pfx.Archive = &Archive{}

// Archive is a pfx.Archive over a YAML mapping node. Writers keep field order.
type Archive struct {
	node  *yaml.Node
	input bool
}

func NewWriter() *Archive {
	return &Archive{node: &yaml.Node{Kind: yaml.MappingNode}}
}

func NewReader(data []byte) (*Archive, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse archive: %w", err)
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root = doc.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("archive root must be a mapping, got kind %d", root.Kind)
	}
	return &Archive{node: root, input: true}, nil
}

func (a *Archive) IsInput() bool {
	return a.input
}

// Bytes encodes a written archive.
func (a *Archive) Bytes() ([]byte, error) {
	return yaml.Marshal(a.node)
}

func (a *Archive) Value(name string, ptr any) error {
	if a.input {
		value := a.lookup(name)
		if value == nil {
			return nil
		}
		if err := value.Decode(ptr); err != nil {
			return fmt.Errorf("failed to decode %s: %w", name, err)
		}
		return nil
	}
	value := &yaml.Node{}
	if err := value.Encode(ptr); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	a.append(name, value)
	return nil
}

func (a *Archive) Object(name string, fn func(pfx.Archive) error) error {
	if a.input {
		value := a.lookup(name)
		if value == nil {
			return nil
		}
		if value.Kind != yaml.MappingNode {
			return fmt.Errorf("%s: expected a mapping", name)
		}
		return fn(&Archive{node: value, input: true})
	}
	child := NewWriter()
	if err := fn(child); err != nil {
		return err
	}
	a.append(name, child.node)
	return nil
}

func (a *Archive) Array(name string, n *int, fn func(i int, ar pfx.Archive) error) error {
	if a.input {
		*n = 0
		value := a.lookup(name)
		if value == nil {
			return nil
		}
		if value.Kind != yaml.SequenceNode {
			return fmt.Errorf("%s: expected a sequence", name)
		}
		*n = len(value.Content)
		for i, item := range value.Content {
			if item.Kind != yaml.MappingNode {
				return fmt.Errorf("%s[%d]: expected a mapping", name, i)
			}
			if err := fn(i, &Archive{node: item, input: true}); err != nil {
				return err
			}
		}
		return nil
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for i := 0; i < *n; i++ {
		child := NewWriter()
		if err := fn(i, child); err != nil {
			return err
		}
		seq.Content = append(seq.Content, child.node)
	}
	a.append(name, seq)
	return nil
}

func (a *Archive) lookup(name string) *yaml.Node {
	for i := 0; i+1 < len(a.node.Content); i += 2 {
		if a.node.Content[i].Value == name {
			return a.node.Content[i+1]
		}
	}
	return nil
}

func (a *Archive) append(name string, value *yaml.Node) {
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
	a.node.Content = append(a.node.Content, key, value)
}

// Save encodes effect as YAML.
func Save(effect *pfx.Effect) ([]byte, error) {
	ar := NewWriter()
	if err := effect.Serialize(ar); err != nil {
		return nil, err
	}
	return ar.Bytes()
}

// Load decodes data into a new effect named name using the default registry.
func Load(name string, data []byte) (*pfx.Effect, error) {
	ar, err := NewReader(data)
	if err != nil {
		return nil, err
	}
	effect := pfx.Factory.NewEffect(name)
	if err := effect.Serialize(ar); err != nil {
		return nil, err
	}
	return effect, nil
}
