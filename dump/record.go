package dump

import (
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/skdltmxn/wiztype/rtti"
)

// Properties maps property names to their records in declaration order.
type Properties = orderedmap.OrderedMap[string, *Property]

// EnumOptions maps option names to integer or string values in table order.
type EnumOptions = orderedmap.OrderedMap[string, any]

// Property is the flat record of one class property.
type Property struct {
	Type        string       `json:"type"`
	ID          int32        `json:"id"`
	Offset      int32        `json:"offset"`
	Flags       int32        `json:"flags"`
	Container   string       `json:"container"`
	Dynamic     bool         `json:"dynamic"`
	Singleton   bool         `json:"singleton"`
	Pointer     bool         `json:"pointer"`
	Hash        uint32       `json:"hash"`
	EnumOptions *EnumOptions `json:"enum_options,omitempty"`
}

// ClassV1 is a class record of a version 1 document.
type ClassV1 struct {
	Bases      []string    `json:"bases"`
	Hash       uint32      `json:"hash"`
	Properties *Properties `json:"properties"`
}

// ClassV2 is a class record of a version 2 document.
type ClassV2 struct {
	Name       string      `json:"name"`
	Bases      []string    `json:"bases"`
	Hash       uint32      `json:"hash"`
	Properties *Properties `json:"properties"`
}

// DocumentV1 maps class names to class records.
type DocumentV1 = orderedmap.OrderedMap[string, *ClassV1]

// DocumentV2 holds class records keyed by the decimal class hash.
type DocumentV2 struct {
	Version int                                      `json:"version"`
	Classes *orderedmap.OrderedMap[string, *ClassV2] `json:"classes"`
}

// enumFormat turns an option value into its encoded form.
type enumFormat func(rtti.EnumValue) any

// plainEnum keeps option values as read.
func plainEnum(v rtti.EnumValue) any {
	return v.Value()
}

// maskedEnum encodes every value that reads as an integer, including
// numeric strings, as an unsigned 32-bit integer.
func maskedEnum(v rtti.EnumValue) any {
	if !v.IsString {
		return v.Int
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64); err == nil {
		return uint32(n & 0xFFFFFFFF)
	}
	return v.Str
}

// readClass resolves the bases, hash and property records of the type
// carried by node.
func readClass(node *rtti.HashNode, enum enumFormat) (*ClassV2, error) {
	typ, err := node.Type()
	if err != nil {
		return nil, err
	}
	if typ == nil {
		return nil, fmt.Errorf("dump: node 0x%x has no type descriptor", node.Addr())
	}

	class := &ClassV2{Properties: orderedmap.New[string, *Property]()}
	if class.Name, err = typ.Name(); err != nil {
		return nil, err
	}
	if class.Bases, err = typ.BaseNames(); err != nil {
		return nil, fmt.Errorf("dump: bases of %s: %w", class.Name, err)
	}
	if class.Bases == nil {
		class.Bases = []string{}
	}
	if class.Hash, err = typ.Hash(); err != nil {
		return nil, err
	}

	list, err := typ.PropertyList()
	if err != nil || list == nil {
		return class, err
	}

	props, err := list.Properties()
	if err != nil {
		return nil, fmt.Errorf("dump: properties of %s: %w", class.Name, err)
	}
	for _, p := range props {
		name, record, err := readProperty(p, enum)
		if err != nil {
			return nil, fmt.Errorf("dump: property of %s at 0x%x: %w", class.Name, p.Addr(), err)
		}
		class.Properties.Set(name, record)
	}
	return class, nil
}

// readProperty resolves p into a flat record. Missing references leave
// their fields at the zero value.
func readProperty(p *rtti.Property, enum enumFormat) (string, *Property, error) {
	var rec Property

	name, err := p.Name()
	if err != nil {
		return "", nil, err
	}
	if rec.ID, err = p.Index(); err != nil {
		return "", nil, err
	}
	if rec.Offset, err = p.Offset(); err != nil {
		return "", nil, err
	}
	if rec.Flags, err = p.Flags(); err != nil {
		return "", nil, err
	}
	if rec.Hash, err = p.FullHash(); err != nil {
		return "", nil, err
	}

	typ, err := p.Type()
	if err != nil {
		return "", nil, err
	}
	if typ != nil {
		if rec.Type, err = typ.Name(); err != nil {
			return "", nil, err
		}
		if rec.Pointer, err = typ.IsPointer(); err != nil {
			return "", nil, err
		}
	}

	container, err := p.Container()
	if err != nil {
		return "", nil, err
	}
	if container != nil {
		if rec.Container, err = container.Name(); err != nil {
			return "", nil, err
		}
		if rec.Dynamic, err = container.IsDynamic(); err != nil {
			return "", nil, err
		}
	}

	list, err := p.List()
	if err != nil {
		return "", nil, err
	}
	if list != nil {
		if rec.Singleton, err = list.IsSingleton(); err != nil {
			return "", nil, err
		}
	}

	opts, err := p.EnumOptions()
	if err != nil {
		return "", nil, err
	}
	if len(opts) > 0 {
		rec.EnumOptions = orderedmap.New[string, any]()
		for _, opt := range opts {
			rec.EnumOptions.Set(opt.Name, enum(opt.Value))
		}
	}

	return name, &rec, nil
}
