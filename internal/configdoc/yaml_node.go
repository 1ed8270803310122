// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package configdoc

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ToYAMLNode converts a ConfigSchema built with anchors into a yaml.Node tree.
// Definitions used more than once go under "definitions" with an anchor and
// are aliased elsewhere; definitions used once are inlined.
func ToYAMLNode(js *ConfigSchema) *yaml.Node {
	defNames := make(map[*ConfigSchema]string, len(js.Definitions))
	for name, def := range js.Definitions {
		defNames[def] = name
	}

	// 1. Count references to definitions
	counts := make(map[*ConfigSchema]int)
	var count func(*ConfigSchema)
	count = func(s *ConfigSchema) {
		if s == nil {
			return
		}
		if _, isDef := defNames[s]; isDef {
			counts[s]++
			// Stop at the second visit; recursive schemas would loop forever.
			if counts[s] > 1 {
				return
			}
		}
		for _, child := range children(s) {
			count(child)
		}
	}
	for _, name := range sortedKeys(js.Properties) {
		count(js.Properties[name])
	}

	// 2. Anchor shared definitions
	shared := make(map[*ConfigSchema]*yaml.Node)
	var sharedNames []string
	for def, name := range defNames {
		if counts[def] > 1 {
			shared[def] = &yaml.Node{Kind: yaml.MappingNode, Anchor: name}
			sharedNames = append(sharedNames, name)
		}
	}
	sort.Strings(sharedNames)

	var convert func(*ConfigSchema) *yaml.Node
	convert = func(s *ConfigSchema) *yaml.Node {
		if s == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		if anchored, ok := shared[s]; ok {
			return &yaml.Node{Kind: yaml.AliasNode, Value: anchored.Anchor, Alias: anchored}
		}
		node := &yaml.Node{Kind: yaml.MappingNode}
		fillNode(node, s, convert)
		return node
	}

	// 3. Populate anchored definitions
	for _, name := range sharedNames {
		def := js.Definitions[name]
		fillNode(shared[def], def, convert)
	}

	// 4. Root
	root := &yaml.Node{Kind: yaml.MappingNode}
	content := []*yaml.Node{}
	content = appendScalar(content, "$schema", js.Schema)
	content = appendScalar(content, "$id", js.ID)
	content = appendScalar(content, "title", js.Title)
	content = appendScalar(content, "description", js.Description)
	content = appendScalar(content, "type", js.Type)

	if len(sharedNames) > 0 {
		defsNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range sharedNames {
			defsNode.Content = append(defsNode.Content, scalar(name), shared[js.Definitions[name]])
		}
		content = append(content, scalar("definitions"), defsNode)
	}
	if len(js.Properties) > 0 {
		content = append(content, scalar("properties"), mapToNode(js.Properties, convert))
	}
	if len(js.Required) > 0 {
		content = append(content, scalar("required"), strSliceToNode(js.Required))
	}
	root.Content = content
	return root
}

func children(s *ConfigSchema) []*ConfigSchema {
	var out []*ConfigSchema
	for _, name := range sortedKeys(s.Properties) {
		out = append(out, s.Properties[name])
	}
	if s.Items != nil {
		out = append(out, s.Items)
	}
	if s.AdditionalProperties != nil {
		out = append(out, s.AdditionalProperties)
	}
	return append(out, s.AnyOf...)
}

// fillNode populates a node's content from the schema.
func fillNode(node *yaml.Node, js *ConfigSchema, convert func(*ConfigSchema) *yaml.Node) {
	content := []*yaml.Node{}
	content = appendScalar(content, "title", js.Title)
	content = appendScalar(content, "description", js.Description)
	content = appendScalar(content, "type", js.Type)
	content = appendScalar(content, "$ref", js.Ref)

	if len(js.Properties) > 0 {
		content = append(content, scalar("properties"), mapToNode(js.Properties, convert))
	}
	if js.Items != nil {
		content = append(content, scalar("items"), convert(js.Items))
	}
	if js.AdditionalProperties != nil {
		content = append(content, scalar("additionalProperties"), convert(js.AdditionalProperties))
	}
	if len(js.AnyOf) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, s := range js.AnyOf {
			seq.Content = append(seq.Content, convert(s))
		}
		content = append(content, scalar("anyOf"), seq)
	}
	if len(js.Enum) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, v := range js.Enum {
			seq.Content = append(seq.Content, anyToNode(v))
		}
		content = append(content, scalar("enum"), seq)
	}
	if js.Default != nil {
		content = append(content, scalar("default"), anyToNode(js.Default))
	}
	if len(js.Examples) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, v := range js.Examples {
			seq.Content = append(seq.Content, anyToNode(v))
		}
		content = append(content, scalar("examples"), seq)
	}
	if len(js.Required) > 0 {
		content = append(content, scalar("required"), strSliceToNode(js.Required))
	}
	node.Content = content
}

// mapToNode converts a properties map to a MappingNode with sorted keys.
func mapToNode(m map[string]*ConfigSchema, convert func(*ConfigSchema) *yaml.Node) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range sortedKeys(m) {
		node.Content = append(node.Content, scalar(k), convert(m[k]))
	}
	return node
}

func sortedKeys(m map[string]*ConfigSchema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendScalar(content []*yaml.Node, key, value string) []*yaml.Node {
	if value == "" {
		return content
	}
	return append(content, scalar(key), scalar(value))
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

func strSliceToNode(s []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range s {
		node.Content = append(node.Content, scalar(v))
	}
	return node
}

// anyToNode encodes a plain value, keeping its YAML type.
func anyToNode(v any) *yaml.Node {
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return scalar(fmt.Sprintf("%v", v))
	}
	return node
}
