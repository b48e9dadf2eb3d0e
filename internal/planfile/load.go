package planfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlplan/internal/ir"
	"github.com/roach88/sqlplan/internal/relir"
)

// Format is a plan document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatForPath picks the format from a file extension. JSON documents are
// read as YAML.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, true
	case ".cue":
		return FormatCUE, true
	default:
		return "", false
	}
}

// Plan is a loaded plan document.
type Plan struct {
	// Root is the node to compile: a table node, or a value when the
	// document sets value.
	Root relir.Node
	// Nodes holds every named table node.
	Nodes map[string]relir.TableNode
	// Fingerprint identifies the document content independently of its
	// syntax.
	Fingerprint string
}

// LoadFile reads and resolves the plan document at path.
func LoadFile(path string) (*Plan, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unrecognized plan file extension: %s", path)}
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("plan file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading plan file: %v", err)}
	}
	return load(data, format, path)
}

// Load resolves a plan document held in memory.
func Load(data []byte, format Format) (*Plan, error) {
	return load(data, format, "plan."+string(format))
}

func load(data []byte, format Format, filename string) (*Plan, error) {
	doc, err := Decode(data, format, filename)
	if err != nil {
		return nil, err
	}
	return Resolve(doc)
}

// Decode parses a plan document without resolving it.
func Decode(data []byte, format Format, filename string) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing YAML: %v", err)}
		}
	case FormatCUE:
		ctx := cuecontext.New()
		v := ctx.CompileBytes(data, cue.Filename(filename))
		if err := v.Err(); err != nil {
			return nil, cueLoadError(err)
		}
		if err := v.Decode(&doc); err != nil {
			return nil, cueLoadError(err)
		}
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unknown plan format %q", format)}
	}
	return &doc, nil
}

// cueLoadError keeps the position of the first CUE error.
func cueLoadError(err error) *LoadError {
	le := &LoadError{Code: ErrCodeParse, Message: err.Error()}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	le.Message = errs[0].Error()
	if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// Resolve builds the relir plan described by doc.
func Resolve(doc *Document) (*Plan, error) {
	if doc.Root == "" && doc.Value == nil {
		return nil, &LoadError{Code: ErrCodeNoRoot, Message: "plan sets neither root nor value"}
	}
	if doc.Root != "" && doc.Value != nil {
		return nil, &LoadError{Code: ErrCodeNoRoot, Message: "plan sets both root and value"}
	}

	r := newResolver(doc)
	if err := r.all(); err != nil {
		return nil, err
	}

	plan := &Plan{Nodes: r.nodes}
	if doc.Root != "" {
		root, ok := r.nodes[doc.Root]
		if !ok {
			return nil, &LoadError{Code: ErrCodeUnknownRef, Path: "root", Message: fmt.Sprintf("undefined node %q", doc.Root)}
		}
		plan.Root = root
	} else {
		v, err := r.expr(*doc.Value, "value")
		if err != nil {
			return nil, err
		}
		plan.Root = v
	}

	fp, err := fingerprint(doc)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	plan.Fingerprint = fp
	return plan, nil
}

func fingerprint(doc *Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	return ir.Fingerprint(ir.DomainPlan, v)
}
