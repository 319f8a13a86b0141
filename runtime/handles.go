// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"fmt"

	"github.com/luxfi/zapper/ir"
)

// Argument is anything a FunctionHandle call accepts in argument
// position: a plain value or a handle to an object produced by an
// earlier call, which is unwrapped to its object id.
type Argument interface {
	argumentWord() ir.Word
}

// Value wraps a plain Uint, Long, or Address argument.
type Value ir.Word

func (v Value) argumentWord() ir.Word { return ir.Word(v) }

func (o *ObjectHandle) argumentWord() ir.Word { return o.objectID }

// FunctionHandle is a callable bound to one class function: calling
// it runs the function through the runtime and, if the function
// returns an object reference, wraps the result in a fresh
// ObjectHandle.
type FunctionHandle struct {
	runtime          *Runtime
	className        string
	functionName     string
	argumentCount    int
	returnObjClass   *ir.Class
	receiverObjectID *ir.Word
}

// Call invokes the bound function on behalf of sender with args, in
// declared parameter order (excluding the implicit receiver).
func (h *FunctionHandle) Call(sender Account, args ...Argument) (interface{}, error) {
	if len(args) != h.argumentCount {
		return nil, fmt.Errorf("runtime: %s.%s expects %d arguments, got %d", h.className, h.functionName, h.argumentCount, len(args))
	}

	words := make([]ir.Word, 0, len(args)+1)
	if h.receiverObjectID != nil {
		words = append(words, *h.receiverObjectID)
	}
	for _, a := range args {
		words = append(words, a.argumentWord())
	}

	ret, err := h.runtime.CallFunction(h.className, h.functionName, sender, words)
	if err != nil {
		return nil, err
	}
	if h.returnObjClass == nil {
		return ret, nil
	}
	return NewObjectHandle(h.runtime, h.returnObjClass, ret), nil
}

// ObjectHandle is a façade over a live, on-chain object: it resolves
// field reads and exposes the object's non-constructor public
// functions as callables, mirroring the original's dynamic member
// lookup with explicit methods.
type ObjectHandle struct {
	runtime  *Runtime
	class    *ir.Class
	objectID ir.Word
}

// NewObjectHandle wraps objectID, an instance of class, for use
// through the runtime.
func NewObjectHandle(rt *Runtime, class *ir.Class, objectID ir.Word) *ObjectHandle {
	return &ObjectHandle{runtime: rt, class: class, objectID: objectID}
}

// ObjectID returns the wrapped object's id.
func (o *ObjectHandle) ObjectID() ir.Word { return o.objectID }

// ClassName returns the wrapped object's class.
func (o *ObjectHandle) ClassName() string { return o.class.QualifiedName() }

// Address returns the object's own on-chain address.
func (o *ObjectHandle) Address() (ir.Word, error) {
	state, err := o.runtime.GetRawState(o.objectID)
	if err != nil {
		return ir.Word{}, err
	}
	return ir.WordFromHex(state.AddrObject)
}

// Field reads a single field's current value. A reference-typed field
// is returned wrapped in its own ObjectHandle.
func (o *ObjectHandle) Field(name string) (interface{}, error) {
	field, ok := o.class.GetField(name)
	if !ok {
		return nil, fmt.Errorf("runtime: class %s has no field %s", o.class.QualifiedName(), name)
	}
	values, err := o.runtime.GetFieldValues(o.objectID)
	if err != nil {
		return nil, err
	}
	value := values[name]
	if field.Typ.IsClass() {
		fieldClass, ok := o.runtime.ledger.GetClassByName(field.Typ.ClassName)
		if !ok {
			return nil, fmt.Errorf("runtime: unknown field class %s", field.Typ.ClassName)
		}
		return NewObjectHandle(o.runtime, fieldClass, value), nil
	}
	return value, nil
}

// Function resolves a non-constructor, non-private function of the
// object's class as a callable bound to this receiver.
func (o *ObjectHandle) Function(name string) (*FunctionHandle, error) {
	fn, ok := o.class.GetFunction(name)
	if !ok {
		return nil, fmt.Errorf("runtime: class %s has no function %s", o.class.QualifiedName(), name)
	}
	if fn.IsConstructor {
		return nil, fmt.Errorf("runtime: cannot call constructor %s on an object handle, use a class handle instead", name)
	}
	if fn.IsPrivate {
		return nil, fmt.Errorf("runtime: function %s of %s is private", name, o.class.QualifiedName())
	}

	var returnObjClass *ir.Class
	returnType, _ := fn.ReturnRegister.Type()
	if returnType.IsClass() {
		c, ok := o.runtime.ledger.GetClassByName(returnType.ClassName)
		if !ok {
			return nil, fmt.Errorf("runtime: unknown return class %s", returnType.ClassName)
		}
		returnObjClass = c
	}

	receiver := o.objectID
	return &FunctionHandle{
		runtime:          o.runtime,
		className:        o.class.QualifiedName(),
		functionName:     name,
		argumentCount:    len(fn.ArgumentRegisters) - 1, // exclude the implicit self
		returnObjClass:   returnObjClass,
		receiverObjectID: &receiver,
	}, nil
}

// ClassHandle is a façade over a registered class's constructor
// functions.
type ClassHandle struct {
	runtime *Runtime
	class   *ir.Class
}

// NewClassHandle wraps class for constructor calls through rt.
func NewClassHandle(rt *Runtime, class *ir.Class) *ClassHandle {
	return &ClassHandle{runtime: rt, class: class}
}

// Function resolves a constructor function of the class as a
// callable; calling it always produces a fresh ObjectHandle of this
// class.
func (h *ClassHandle) Function(name string) (*FunctionHandle, error) {
	fn, ok := h.class.GetFunction(name)
	if !ok {
		return nil, fmt.Errorf("runtime: class %s has no function %s", h.class.QualifiedName(), name)
	}
	if !fn.IsConstructor {
		return nil, fmt.Errorf("runtime: %s is not a constructor function of %s", name, h.class.QualifiedName())
	}
	if fn.IsPrivate {
		return nil, fmt.Errorf("runtime: function %s of %s is private", name, h.class.QualifiedName())
	}

	return &FunctionHandle{
		runtime:        h.runtime,
		className:      h.class.QualifiedName(),
		functionName:   name,
		argumentCount:  len(fn.ArgumentRegisters),
		returnObjClass: h.class,
	}, nil
}
