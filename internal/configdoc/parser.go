// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package configdoc

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/logging"
	"grimm.is/kcldoc/internal/resolver"
	"grimm.is/kcldoc/internal/schema"
	"grimm.is/kcldoc/internal/types"
)

// SourceExt is the extension of schema source files.
const SourceExt = ".k"

// Parser collects parsed schema documents for reference generation.
type Parser struct {
	parser *schema.Parser
	logger *logging.Logger
	docs   []*schema.Document
}

// NewParser creates a new documentation parser.
func NewParser(logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.WithComponent("configdoc")
	}
	return &Parser{parser: schema.NewParser(logger), logger: logger}
}

// ParseFile parses one source file.
func (p *Parser) ParseFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.KindNotFound, "read %s", path)
	}
	p.AddDocument(p.parser.Parse(path, src))
	return nil
}

// ParseDir parses every source file below dir.
func (p *Parser) ParseDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != SourceExt {
			return nil
		}
		return p.ParseFile(path)
	})
}

// AddDocument adds an already parsed document.
func (p *Parser) AddDocument(doc *schema.Document) {
	if doc == nil {
		return
	}
	if len(doc.Diagnostics) > 0 {
		p.logger.Warn("document has diagnostics", "file", doc.Filename, "count", len(doc.Diagnostics))
	}
	p.docs = append(p.docs, doc)
}

// Documents returns the parsed documents in the order they were added.
func (p *Parser) Documents() []*schema.Document {
	return p.docs
}

// Diagnostics returns the parse diagnostics of every document.
func (p *Parser) Diagnostics() hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, d := range p.docs {
		diags = append(diags, d.Diagnostics...)
	}
	return diags
}

// Build builds the reference from everything parsed so far.
func (p *Parser) Build(title string) *Reference {
	return Build(title, p.docs...)
}

// Build builds a reference from parsed documents. A schema name declared in
// more than one document keeps its first declaration.
func Build(title string, docs ...*schema.Document) *Reference {
	ref := &Reference{
		Title:       title,
		Description: "Reference of every schema, its attributes and their documentation.",
		Version:     "1",
		Schemas:     make(map[string]*SchemaDoc),
	}
	for _, doc := range docs {
		for _, s := range doc.Schemas {
			if _, ok := ref.Schemas[s.Name]; ok {
				continue
			}
			ref.Schemas[s.Name] = buildSchemaDoc(doc.Filename, s)
		}
	}
	return ref
}

// SchemaNames returns the schema names in sorted order.
func (r *Reference) SchemaNames() []string {
	names := make([]string, 0, len(r.Schemas))
	for name := range r.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func buildSchemaDoc(filename string, s *schema.Schema) *SchemaDoc {
	res := resolver.Resolve(s)
	sd := &SchemaDoc{
		Name:        s.Name,
		Header:      s.Header(),
		Base:        s.Base,
		Protocol:    s.Protocol,
		Description: s.Summary,
		Source:      filepath.Base(filename),
	}
	for _, v := range res.Views {
		sd.Fields = append(sd.Fields, buildField(v))
	}
	for _, ex := range s.Examples {
		sd.Examples = append(sd.Examples, ex.Text)
	}
	for _, o := range res.Orphans {
		if o.Name != "" {
			sd.Orphans = append(sd.Orphans, o.Name)
		}
	}
	return sd
}

func buildField(v resolver.View) *Field {
	d := v.Decl
	f := &Field{
		Name:        d.Name,
		Signature:   d.Signature(),
		Type:        d.Type.String(),
		TypeModel:   d.Type,
		Description: cleanDescription(v.Description()),
		Required:    d.Required,
		Optional:    !d.Required,
		Enum:        enumValues(d.Type),
		RefType:     refType(d.Type),
	}
	if d.Default != nil {
		f.Default = d.Default.Text
		if d.Default.IsKnown() {
			f.DefaultValue = plainValue(d.Default)
		}
	}
	for _, m := range v.Mismatches {
		f.Issues = append(f.Issues, m.Message)
	}
	return f
}

// plainValue converts a decoded default to JSON-compatible Go values.
func plainValue(lit *types.DefaultLiteral) any {
	if lit.Value.IsNull() {
		return nil
	}
	data, err := ctyjson.Marshal(lit.Value, lit.Value.Type())
	if err != nil {
		return nil
	}
	var out any
	if err := gojson.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// enumValues returns the values of a union made only of literal types.
func enumValues(t types.Type) []any {
	members := []types.Type{t}
	if t.Kind == types.KindUnion {
		members = t.Members
	}
	var out []any
	for _, m := range members {
		if m.Kind != types.KindLiteral {
			return nil
		}
		lit := types.ParseLiteral(m.Text)
		if !lit.IsKnown() {
			return nil
		}
		out = append(out, plainValue(&lit))
	}
	return out
}

// refType returns the schema a type refers to, looking through lists and mappings.
func refType(t types.Type) string {
	switch t.Kind {
	case types.KindSchemaRef:
		return t.Name
	case types.KindList, types.KindMapping:
		if t.Elem != nil {
			return refType(*t.Elem)
		}
	}
	return ""
}

// cleanDescription collapses whitespace runs to single spaces.
func cleanDescription(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}
