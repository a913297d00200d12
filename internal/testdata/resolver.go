// Package testdata resolves values out of the JSON documents tests are
// parameterized with
package testdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/adyen/shopsuite/internal/logging"
)

var (
	errNotFound      = errors.New("no value at path")
	errInvalidJSON   = errors.New("document is not valid JSON")
	errNotObject     = errors.New("not an object")
	errNotArray      = errors.New("not an array")
	errIndexRange    = errors.New("index out of range")
	errNotScalar     = errors.New("value is not a scalar")
	errNullTerminal  = errors.New("value is null")
	errDecodeFailure = errors.New("cannot decode value")
)

// Resolver reads structured documents from a base directory. Documents are
// read from disk on every call. Lookups never return errors: a failed lookup
// reports ok=false and is logged
type Resolver struct {
	baseDir string
	logger  *zap.Logger
}

// NewResolver returns a resolver for documents under baseDir
func NewResolver(baseDir string, logger *zap.Logger) *Resolver {
	return &Resolver{baseDir: baseDir, logger: logging.OrNop(logger)}
}

// DocumentPath returns the file a document name refers to. The .json
// extension is added when missing
func (r *Resolver) DocumentPath(name string) string {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return filepath.Join(r.baseDir, name)
}

// Value returns the scalar at path as text. Numbers keep their literal form
func (r *Resolver) Value(name, path string) (string, bool) {
	logger := r.logger.With(zap.String("document", name), zap.String("path", path))

	doc, err := r.load(name)
	if err != nil {
		logger.Error("failed to load document", zap.Error(err))
		return "", false
	}

	node, err := walk(doc, path)
	if err != nil {
		logger.Warn("value not found", zap.Error(err))
		return "", false
	}

	value, err := scalarText(node)
	if err != nil {
		logger.Warn("value not usable", zap.Error(err))
		return "", false
	}

	logger.Debug("value resolved", zap.String("value", value))
	return value, true
}

// DecodeInto decodes the node at path into target, which must be a pointer.
// An empty path decodes the whole document. Struct fields are matched by
// their json tags
func (r *Resolver) DecodeInto(name, path string, target interface{}) bool {
	logger := r.logger.With(zap.String("document", name), zap.String("path", path))

	doc, err := r.load(name)
	if err != nil {
		logger.Error("failed to load document", zap.Error(err))
		return false
	}

	node := doc
	if path != "" {
		if node, err = walk(doc, path); err != nil {
			logger.Warn("value not found", zap.Error(err))
			return false
		}
	}
	if node.Type == gjson.Null {
		logger.Warn("value not found", zap.Error(errNullTerminal))
		return false
	}

	if err := decode(node.Value(), target); err != nil {
		logger.Error("failed to decode value", zap.Error(err))
		return false
	}

	logger.Debug("value decoded", zap.String("type", fmt.Sprintf("%T", target)))
	return true
}

// Decode is the generic form of Resolver.DecodeInto
func Decode[T any](r *Resolver, name, path string) (T, bool) {
	var out T
	if !r.DecodeInto(name, path, &out) {
		var zero T
		return zero, false
	}
	return out, true
}

// Records flattens a document. An array root yields one record per element,
// an object root a single record. Any other root, or a document that cannot
// be read, yields no records
func (r *Resolver) Records(name string) []Record {
	logger := r.logger.With(zap.String("document", name))

	doc, err := r.load(name)
	if err != nil {
		logger.Error("failed to load document", zap.Error(err))
		return []Record{}
	}

	var records []Record
	switch {
	case doc.IsArray():
		doc.ForEach(func(_, element gjson.Result) bool {
			rec := newRecord()
			flatten(element, "", &rec)
			records = append(records, rec)
			return true
		})
	case doc.IsObject():
		rec := newRecord()
		flatten(doc, "", &rec)
		records = append(records, rec)
	default:
		logger.Warn("document root is neither an array nor an object")
		return []Record{}
	}

	if records == nil {
		records = []Record{}
	}
	logger.Debug("document flattened", zap.Int("records", len(records)))
	return records
}

func (r *Resolver) load(name string) (gjson.Result, error) {
	path := r.DocumentPath(name)
	r.logger.Info("reading document", zap.String("file", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%s: %w", path, errInvalidJSON)
	}
	return gjson.ParseBytes(data), nil
}

// walk follows path from root. Every intermediate node must be an object;
// an index is only applied to arrays
func walk(root gjson.Result, path string) (gjson.Result, error) {
	segments, err := parsePath(path)
	if err != nil {
		return gjson.Result{}, err
	}

	node := root
	for _, seg := range segments {
		if !node.IsObject() {
			return gjson.Result{}, fmt.Errorf("%s: parent %w", seg.key, errNotObject)
		}

		child, ok := property(node, seg.key)
		if !ok {
			return gjson.Result{}, fmt.Errorf("%s: %w", seg.key, errNotFound)
		}
		node = child

		if !seg.hasIndex {
			continue
		}
		if !node.IsArray() {
			return gjson.Result{}, fmt.Errorf("%s[%d]: %w", seg.key, seg.index, errNotArray)
		}
		elements := node.Array()
		if seg.index >= len(elements) {
			return gjson.Result{}, fmt.Errorf("%s[%d]: %w (length %d)", seg.key, seg.index, errIndexRange, len(elements))
		}
		node = elements[seg.index]
	}
	return node, nil
}

// property looks up a direct member of obj by exact key. A repeated key
// yields its last value
func property(obj gjson.Result, key string) (gjson.Result, bool) {
	var found gjson.Result
	var ok bool
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
		}
		return true
	})
	return found, ok
}

type member struct {
	key   string
	value gjson.Result
}

// members lists the members of obj in document order. A repeated key keeps
// only its last occurrence
func members(obj gjson.Result) []member {
	var all []member
	last := make(map[string]int)
	obj.ForEach(func(k, v gjson.Result) bool {
		last[k.String()] = len(all)
		all = append(all, member{key: k.String(), value: v})
		return true
	})

	kept := all[:0]
	for i, m := range all {
		if last[m.key] == i {
			kept = append(kept, m)
		}
	}
	return kept
}

func scalarText(node gjson.Result) (string, error) {
	switch node.Type {
	case gjson.String:
		return node.Str, nil
	case gjson.Number:
		return node.Raw, nil
	case gjson.True, gjson.False:
		return strconv.FormatBool(node.Bool()), nil
	case gjson.Null:
		return "", errNullTerminal
	default:
		return "", errNotScalar
	}
}

// flatten writes every leaf under node into rec. Object members extend the
// prefix with ".name", array elements with "[i]"
func flatten(node gjson.Result, prefix string, rec *Record) {
	switch {
	case node.IsObject():
		for _, m := range members(node) {
			key := m.key
			if prefix != "" {
				key = prefix + "." + key
			}
			flatten(m.value, key, rec)
		}
	case node.IsArray():
		i := 0
		node.ForEach(func(_, v gjson.Result) bool {
			flatten(v, fmt.Sprintf("%s[%d]", prefix, i), rec)
			i++
			return true
		})
	default:
		rec.set(prefix, leafText(node))
	}
}

func leafText(node gjson.Result) string {
	switch node.Type {
	case gjson.Null:
		return "null"
	case gjson.Number:
		return node.Raw
	case gjson.String:
		return node.Str
	default:
		return node.String()
	}
}

func decode(input, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errDecodeFailure, err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", errDecodeFailure, err)
	}
	return nil
}
