package avm2

import "sort"

// ObjectHandle is an opaque reference to a heap-allocated Object (§4.E).
// Handles are indices into a Heap and are only meaningful relative to the
// Heap that issued them.
type ObjectHandle uint32

// propertyKey names a property by its resolved qualified name: a namespace
// URI (possibly empty, for the public namespace) and a local name (§4.D).
type propertyKey struct {
	ns    string
	local string
}

// Object is the runtime representation of an ActionScript instance, class
// object, or script object (§4.E): an optional originating class index plus
// a namespace-qualified property map. Grounded on
// original_source/avm2/runtime.py's ASObject (a plain attribute dict keyed
// by resolved name).
type Object struct {
	// ClassIndex identifies the ClassInfo/InstanceInfo pair this object was
	// constructed from, or -1 for an object with no originating class
	// (e.g. a script object, or one built by newobject/newactivation).
	ClassIndex int32

	props map[propertyKey]Value
	proto ObjectHandle
	hasProto bool
}

func newObject(classIndex int32) *Object {
	return &Object{ClassIndex: classIndex, props: make(map[propertyKey]Value)}
}

// Get looks up a property by qualified name, reporting whether it exists.
func (o *Object) Get(ns, local string) (Value, bool) {
	v, ok := o.props[propertyKey{ns, local}]
	return v, ok
}

// Set stores a property, creating the slot if absent (§4.E setproperty/
// initproperty).
func (o *Object) Set(ns, local string, v Value) {
	o.props[propertyKey{ns, local}] = v
}

// Delete removes a property, reporting whether it had been present
// (§4.G deleteproperty).
func (o *Object) Delete(ns, local string) bool {
	key := propertyKey{ns, local}
	if _, ok := o.props[key]; !ok {
		return false
	}
	delete(o.props, key)
	return true
}

// Resolve searches req's candidate namespaces in order, then falls back to
// the prototype chain, returning the first match (§4.D "first candidate
// namespace that has the property").
func (o *Object) Resolve(req NameRequest, heap *Heap) (Value, bool) {
	for _, ns := range req.Namespaces {
		if v, ok := o.Get(ns, req.Local); ok {
			return v, true
		}
	}
	if o.hasProto {
		if parent := heap.Get(o.proto); parent != nil {
			return parent.Resolve(req, heap)
		}
	}
	return Value{}, false
}

// Has reports whether a qualified property name is present, searching the
// prototype chain set by SetPrototype (§4.G `in`/hasnext-style scans).
func (o *Object) Has(ns, local string, heap *Heap) bool {
	if _, ok := o.props[propertyKey{ns, local}]; ok {
		return true
	}
	if o.hasProto {
		if parent := heap.Get(o.proto); parent != nil {
			return parent.Has(ns, local, heap)
		}
	}
	return false
}

// SetPrototype links o to a parent object consulted by Has/Resolve when a
// property is not found directly on o, modeling AVM2's class/instance
// prototype delegation (§4.E, §4.G getproperty fallback).
func (o *Object) SetPrototype(h ObjectHandle) {
	o.proto = h
	o.hasProto = true
}

// Names returns every directly-owned qualified property name, in
// unspecified order. Used by nextname/nextvalue/hasnext enumeration.
func (o *Object) Names() []propertyKey {
	names := make([]propertyKey, 0, len(o.props))
	for k := range o.props {
		names = append(names, k)
	}
	return names
}

// EnumerationOrder returns directly-owned property keys in a stable order
// (by namespace then local name), so that a for-in loop issuing repeated
// hasnext/nextname/nextvalue calls against the same 1-based index observes
// a consistent sequence. AVM2 leaves enumeration order to the host; Go map
// iteration order is randomized per run, so this sorts rather than relying
// on map order directly.
func (o *Object) EnumerationOrder() []propertyKey {
	names := o.Names()
	sort.Slice(names, func(i, j int) bool {
		if names[i].ns != names[j].ns {
			return names[i].ns < names[j].ns
		}
		return names[i].local < names[j].local
	})
	return names
}

// Heap owns every Object allocated during a VM's lifetime and hands out
// stable ObjectHandles (§4.E "new_object returns an opaque handle"). A Heap
// is scoped to one VM instance; it performs no garbage collection beyond
// ordinary Go ownership.
type Heap struct {
	objects []*Object
}

// NewObject allocates a fresh Object, optionally tagged with the class it
// was constructed from (classIndex < 0 means untagged), and returns its
// handle.
func (h *Heap) NewObject(classIndex int32) ObjectHandle {
	h.objects = append(h.objects, newObject(classIndex))
	return ObjectHandle(len(h.objects) - 1)
}

// Get dereferences a handle. Returns nil for an out-of-range handle, which
// callers treat as a logic error (handles are never exposed to bytecode
// directly; they only reach Go code through Value.Object()).
func (h *Heap) Get(handle ObjectHandle) *Object {
	idx := int(handle)
	if idx < 0 || idx >= len(h.objects) {
		return nil
	}
	return h.objects[idx]
}
