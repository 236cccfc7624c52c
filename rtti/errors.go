// Package rtti reads the runtime type registry of a running game client.
//
// The registry is a binary tree of hash nodes. Each node carries a type
// descriptor, which in turn links to a property list describing the fields,
// base classes and methods of the type. All of these are decoded lazily from
// foreign memory through the views in types.go.
package rtti

import (
	"errors"
)

// Sentinel errors for common conditions.
var (
	// ErrSignatureNotFound indicates the registry accessor signature did not
	// match anywhere in the target.
	ErrSignatureNotFound = errors.New("rtti: registry signature not found")

	// ErrNoEntryNode indicates the registry root has no parent link to start
	// the walk from.
	ErrNoEntryNode = errors.New("rtti: registry root has no entry node")

	// ErrUnknownInstruction indicates accessor machine code did not match any
	// known idiom. The target is most likely a different client build.
	ErrUnknownInstruction = errors.New("rtti: unrecognized accessor instruction")
)
