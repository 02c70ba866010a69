// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/fairlaunch/consts"
)

// Typed is implemented by every object that is encoded with a leading
// type byte (actions, messages).
type Typed interface {
	GetTypeID() uint8
}

// Marshaler is a [Typed] object that knows its encoded size and how to
// write itself to a [Packer].
type Marshaler interface {
	Typed
	Size() int
	Marshal(p *Packer)
}

type TypeParser[T Typed] struct {
	indexToDecoder map[uint8]func(*Packer) (T, error)
}

func NewTypeParser[T Typed]() *TypeParser[T] {
	return &TypeParser[T]{
		indexToDecoder: map[uint8]func(*Packer) (T, error){},
	}
}

// Register binds the type ID of [o] to the decoder [f].
func (p *TypeParser[T]) Register(o T, f func(*Packer) (T, error)) error {
	index := o.GetTypeID()
	if _, ok := p.indexToDecoder[index]; ok {
		return fmt.Errorf("%w: type id %d", ErrDuplicateItem, index)
	}
	p.indexToDecoder[index] = f
	return nil
}

func (p *TypeParser[T]) LookupIndex(index uint8) (func(*Packer) (T, error), bool) {
	f, ok := p.indexToDecoder[index]
	return f, ok
}

// Unmarshal decodes a type byte followed by the registered encoding of
// that type. All bytes must be consumed.
func (p *TypeParser[T]) Unmarshal(b []byte) (T, error) {
	var empty T
	r := NewReader(b, consts.MaxMessageSize)
	index := r.UnpackByte()
	if err := r.Err(); err != nil {
		return empty, err
	}
	f, ok := p.LookupIndex(index)
	if !ok {
		return empty, fmt.Errorf("%w: type id %d", ErrUnknownType, index)
	}
	o, err := f(r)
	if err != nil {
		return empty, err
	}
	if err := r.Err(); err != nil {
		return empty, err
	}
	if !r.Empty() {
		return empty, ErrTrailingBytes
	}
	return o, nil
}

// Marshal writes the type byte of [o] followed by its encoding.
func Marshal(o Marshaler) ([]byte, error) {
	p := NewWriter(consts.ByteLen+o.Size(), consts.MaxMessageSize)
	p.PackByte(o.GetTypeID())
	o.Marshal(p)
	return p.Bytes(), p.Err()
}
