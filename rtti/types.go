package rtti

import (
	"sync"

	"github.com/skdltmxn/wiztype/memview"
)

// Types resolves the structure names used by pointer and array fields below.
var Types = memview.NewRegistry()

// Structure names registered in Types.
const (
	typeHashNode        = "HashNode"
	typeType            = "Type"
	typePropertyList    = "PropertyList"
	typeProperty        = "Property"
	typeFunction        = "Function"
	typeFunctionDetails = "FunctionDetails"
	typeContainer       = "Container"
)

func init() {
	Types.Register(typeHashNode, func(v memview.View) any { return &HashNode{view: v} })
	Types.Register(typeType, func(v memview.View) any { return &Type{view: v} })
	Types.Register(typePropertyList, func(v memview.View) any { return &PropertyList{view: v} })
	Types.Register(typeProperty, func(v memview.View) any { return &Property{view: v} })
	Types.Register(typeFunction, func(v memview.View) any { return &Function{view: v} })
	Types.Register(typeFunctionDetails, func(v memview.View) any { return &FunctionDetails{view: v} })
	Types.Register(typeContainer, func(v memview.View) any { return &Container{view: v} })
}

// listNameSSOSize is the inline threshold of property list names, which are
// stored in a narrower string type than the rest of the registry.
const listNameSSOSize = 10

// propertyNameWindow bounds the search for a property name terminator.
const propertyNameWindow = 100

var (
	hashNodeLeft   = memview.Ref[*HashNode]("left", 0x00, typeHashNode)
	hashNodeParent = memview.Ref[*HashNode]("parent", 0x08, typeHashNode)
	hashNodeRight  = memview.Ref[*HashNode]("right", 0x10, typeHashNode)
	hashNodeIsLeaf = memview.Bool("is_leaf", 0x19)
	hashNodeHash   = memview.Uint32("hash", 0x20)
	hashNodeData   = memview.Ref[*Type]("node_data", 0x28, typeType)
)

// HashNode is a node of the registry tree.
type HashNode struct {
	view memview.View
}

// NewHashNode returns the node at addr.
func NewHashNode(ctx *memview.Context, addr uint64) *HashNode {
	return &HashNode{view: memview.View{Addr: addr, Ctx: ctx}}
}

func (n *HashNode) Addr() uint64 { return n.view.Addr }

func (n *HashNode) Left() (*HashNode, error)   { return hashNodeLeft.Get(n.view) }
func (n *HashNode) Parent() (*HashNode, error) { return hashNodeParent.Get(n.view) }
func (n *HashNode) Right() (*HashNode, error)  { return hashNodeRight.Get(n.view) }
func (n *HashNode) IsLeaf() (bool, error)      { return hashNodeIsLeaf.Get(n.view) }
func (n *HashNode) Hash() (uint32, error)      { return hashNodeHash.Get(n.view) }

// Type returns the descriptor carried by the node, or nil.
func (n *HashNode) Type() (*Type, error) { return hashNodeData.Get(n.view) }

var (
	typeName          = memview.String("name", 0x38, memview.DefaultSSOSize)
	typeHash          = memview.Uint32("hash", 0x58)
	typeSize          = memview.Int32("size", 0x60)
	typeName2         = memview.String("name_2", 0x68, memview.DefaultSSOSize)
	typeIsPointer     = memview.Bool("is_pointer", 0x88)
	typeIsRef         = memview.Bool("is_ref", 0x89)
	typePropertyListF = memview.Ref[*PropertyList]("property_list", 0x90, typePropertyList)
)

// Type describes one registered type.
type Type struct {
	view memview.View

	basesOnce sync.Once
	bases     []*PropertyList
	basesErr  error
}

func (t *Type) Addr() uint64 { return t.view.Addr }

func (t *Type) Name() (string, error)          { return typeName.Get(t.view) }
func (t *Type) Hash() (uint32, error)          { return typeHash.Get(t.view) }
func (t *Type) Size() (int32, error)           { return typeSize.Get(t.view) }
func (t *Type) SecondaryName() (string, error) { return typeName2.Get(t.view) }
func (t *Type) IsPointer() (bool, error)       { return typeIsPointer.Get(t.view) }
func (t *Type) IsRef() (bool, error)           { return typeIsRef.Get(t.view) }

// PropertyList returns the field list of the type, or nil for types without one.
func (t *Type) PropertyList() (*PropertyList, error) { return typePropertyListF.Get(t.view) }

// Bases returns the base class lists of t, nearest first. The chain is read
// once per Type value.
func (t *Type) Bases() ([]*PropertyList, error) {
	t.basesOnce.Do(func() {
		t.bases, t.basesErr = t.loadBases()
	})

	if t.basesErr != nil {
		return nil, t.basesErr
	}
	return t.bases, nil
}

func (t *Type) loadBases() ([]*PropertyList, error) {
	list, err := t.PropertyList()
	if err != nil || list == nil {
		return nil, err
	}

	bases := []*PropertyList{}
	for {
		base, err := list.Base()
		if err != nil {
			return nil, err
		}
		if base == nil {
			return bases, nil
		}
		bases = append(bases, base)
		list = base
	}
}

// BaseNames returns the names of the base classes of t, nearest first.
func (t *Type) BaseNames() ([]string, error) {
	bases, err := t.Bases()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(bases))
	for i, base := range bases {
		if names[i], err = base.Name(); err != nil {
			return nil, err
		}
	}
	return names, nil
}

var (
	listIsSingleton = memview.Bool("is_singleton", 0x09)
	listOffset      = memview.Int32("offset", 0x10)
	listBase        = memview.Ref[*PropertyList]("base_class_list", 0x18, typePropertyList)
	listType        = memview.Ref[*Type]("type", 0x20, typeType)
	listPointerType = memview.Ref[*Type]("pointer_version", 0x30, typeType)
	listProperties  = memview.Vector[*Property]("properties", 0x58, typeProperty)
	listFunctions   = memview.Vector[*Function]("functions", 0x70, typeFunction)
	listName        = memview.String("name", 0xB8, listNameSSOSize)
)

// PropertyList holds the fields and methods declared by one class.
type PropertyList struct {
	view memview.View
}

func (l *PropertyList) Addr() uint64 { return l.view.Addr }

func (l *PropertyList) IsSingleton() (bool, error)       { return listIsSingleton.Get(l.view) }
func (l *PropertyList) Offset() (int32, error)           { return listOffset.Get(l.view) }
func (l *PropertyList) Base() (*PropertyList, error)     { return listBase.Get(l.view) }
func (l *PropertyList) Type() (*Type, error)             { return listType.Get(l.view) }
func (l *PropertyList) PointerType() (*Type, error)      { return listPointerType.Get(l.view) }
func (l *PropertyList) Properties() ([]*Property, error) { return listProperties.Get(l.view) }
func (l *PropertyList) Functions() ([]*Function, error)  { return listFunctions.Get(l.view) }
func (l *PropertyList) Name() (string, error)            { return listName.Get(l.view) }

var (
	propertyList        = memview.Ref[*PropertyList]("list", 0x38, typePropertyList)
	propertyContainer   = memview.Ref[*Container]("container", 0x40, typeContainer)
	propertyIndex       = memview.Int32("index", 0x50)
	propertyName        = memview.CString("name", 0x58, propertyNameWindow)
	propertyNameHash    = memview.Uint32("name_hash", 0x60)
	propertyFullHash    = memview.Uint32("full_hash", 0x64)
	propertyOffset      = memview.Int32("offset", 0x68)
	propertyType        = memview.Ref[*Type]("type", 0x70, typeType)
	propertyFlags       = memview.Int32("flags", 0x80)
	propertyNote        = memview.String("note", 0x80, memview.DefaultSSOSize)
	propertyPSInfo      = memview.String("ps_info", 0x90, memview.DefaultSSOSize)
	propertyEnumOptions = memview.Field[[]EnumOption]{Name: "enum_options", Offset: 0x98, Decode: decodeEnumOptions}
)

// Property describes one field of a class.
type Property struct {
	view memview.View
}

func (p *Property) Addr() uint64 { return p.view.Addr }

func (p *Property) List() (*PropertyList, error)   { return propertyList.Get(p.view) }
func (p *Property) Container() (*Container, error) { return propertyContainer.Get(p.view) }
func (p *Property) Index() (int32, error)          { return propertyIndex.Get(p.view) }
func (p *Property) Name() (string, error)          { return propertyName.Get(p.view) }
func (p *Property) NameHash() (uint32, error)      { return propertyNameHash.Get(p.view) }
func (p *Property) FullHash() (uint32, error)      { return propertyFullHash.Get(p.view) }
func (p *Property) Offset() (int32, error)         { return propertyOffset.Get(p.view) }
func (p *Property) Type() (*Type, error)           { return propertyType.Get(p.view) }
func (p *Property) Flags() (int32, error)          { return propertyFlags.Get(p.view) }
func (p *Property) Note() (string, error)          { return propertyNote.Get(p.view) }
func (p *Property) SerializationInfo() (string, error) {
	return propertyPSInfo.Get(p.view)
}

// EnumOptions returns the option table of the property. It returns nil if the
// property has no table.
func (p *Property) EnumOptions() ([]EnumOption, error) { return propertyEnumOptions.Get(p.view) }

var (
	functionList    = memview.Ref[*PropertyList]("list", 0x30, typePropertyList)
	functionName    = memview.String("name", 0x38, memview.DefaultSSOSize)
	functionDetails = memview.Ref[*FunctionDetails]("details", 0x58, typeFunctionDetails)
)

// Function describes one method exposed by a class.
type Function struct {
	view memview.View
}

func (f *Function) Addr() uint64 { return f.view.Addr }

func (f *Function) List() (*PropertyList, error)        { return functionList.Get(f.view) }
func (f *Function) Name() (string, error)               { return functionName.Get(f.view) }
func (f *Function) Details() (*FunctionDetails, error) { return functionDetails.Get(f.view) }

var (
	detailsCalledFunction = memview.Uint64("called_function", 0x30)
	detailsSomething      = memview.Uint32("something", 0x3C)
)

// FunctionDetails holds the dispatch information of a Function.
type FunctionDetails struct {
	view memview.View
}

func (d *FunctionDetails) Addr() uint64 { return d.view.Addr }

// CalledFunction returns the address of the native implementation.
func (d *FunctionDetails) CalledFunction() (uint64, error) { return detailsCalledFunction.Get(d.view) }

// Something returns an unidentified 32-bit member.
func (d *FunctionDetails) Something() (uint32, error) { return detailsSomething.Get(d.view) }

var containerVtable = memview.Pointer("vtable", 0x00)

// Container describes how a property stores its value (a plain member,
// a list, a vector and so on). Its name and dynamic flag are only reachable
// through its virtual methods.
type Container struct {
	view memview.View
}

func (c *Container) Addr() uint64 { return c.view.Addr }

func (c *Container) Vtable() (uint64, error) { return containerVtable.Get(c.view) }

// Name returns the display name of the container type.
func (c *Container) Name() (string, error) {
	vtable, err := c.Vtable()
	if err != nil {
		return "", err
	}
	return ContainerName(c.view.Ctx, vtable)
}

// IsDynamic reports whether the container holds a variable number of values.
func (c *Container) IsDynamic() (bool, error) {
	vtable, err := c.Vtable()
	if err != nil {
		return false, err
	}
	return ClassifyDynamic(c.view.Ctx.Mem, vtable)
}
