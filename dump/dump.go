// Package dump serializes a type tree into versioned JSON documents.
package dump

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/skdltmxn/wiztype/internal/logflags"
	"github.com/skdltmxn/wiztype/rtti"
)

// ErrUnsupportedVersion indicates an unknown output version was requested.
var ErrUnsupportedVersion = errors.New("dump: unsupported output version")

// Output versions.
const (
	V1 = 1
	V2 = 2

	Latest = V2
)

// Versions returns the supported output versions.
func Versions() []int {
	return []int{V1, V2}
}

// Dumper assembles the output document of one version.
type Dumper interface {
	// Version returns the output version the dumper produces.
	Version() int

	// Build reads every class of tree and returns the document to encode.
	Build(tree *rtti.Tree) (any, error)
}

// New returns the dumper for version.
func New(version int) (Dumper, error) {
	switch version {
	case V1:
		return dumperV1{}, nil
	case V2:
		return dumperV2{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
}

type dumperV1 struct{}

func (dumperV1) Version() int { return V1 }

// Build returns a DocumentV1.
func (dumperV1) Build(tree *rtti.Tree) (any, error) {
	log := logflags.DumperLogger()
	doc := orderedmap.New[string, *ClassV1]()

	for name, node := range tree.All() {
		class, err := readClass(node, plainEnum)
		if err != nil {
			return nil, err
		}
		log.Debugf("class %s: %d properties", name, class.Properties.Len())
		doc.Set(name, &ClassV1{Bases: class.Bases, Hash: class.Hash, Properties: class.Properties})
	}
	return doc, nil
}

type dumperV2 struct{}

func (dumperV2) Version() int { return V2 }

// Build returns a *DocumentV2.
func (dumperV2) Build(tree *rtti.Tree) (any, error) {
	log := logflags.DumperLogger()
	doc := &DocumentV2{Version: V2, Classes: orderedmap.New[string, *ClassV2]()}

	for name, node := range tree.All() {
		class, err := ReadClass(name, node)
		if err != nil {
			return nil, err
		}
		key := strconv.FormatUint(uint64(class.Hash), 10)
		if prev, present := doc.Classes.Set(key, class); present {
			log.Debugf("class %s replaces %s under hash %s", name, prev.Name, key)
		}
	}
	return doc, nil
}

// ReadClass returns the version 2 record of the class carried by node,
// registered in the tree as name.
func ReadClass(name string, node *rtti.HashNode) (*ClassV2, error) {
	class, err := readClass(node, maskedEnum)
	if err != nil {
		return nil, err
	}
	class.Name = name
	return class, nil
}

// Write encodes doc to w. A positive indent pretty-prints with that many
// spaces per level; otherwise the output is compact.
func Write(w io.Writer, doc any, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("dump: failed to encode document: %w", err)
	}
	return nil
}

// Dump builds the document of the given version from tree and writes it to w.
func Dump(w io.Writer, tree *rtti.Tree, version, indent int) error {
	d, err := New(version)
	if err != nil {
		return err
	}
	doc, err := d.Build(tree)
	if err != nil {
		return err
	}
	return Write(w, doc, indent)
}
