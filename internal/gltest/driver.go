// Package gltest provides an in-memory GL driver for tests and dry runs.
//
// Driver implements glmesh.Driver without a GL context. It hands out object
// names, tracks vertex array and buffer state, validates a subset of the
// rules a real driver enforces, records every call, and lets tests inject
// error codes after specific entry points.
package gltest

import (
	"fmt"
	"slices"
)

// GL enumerants the fake validates against.
const (
	glNoError          = 0x0000
	glInvalidEnum      = 0x0500
	glInvalidValue     = 0x0501
	glInvalidOperation = 0x0502

	glTriangleFan = 0x0006

	glUnsignedByte  = 0x1401
	glUnsignedShort = 0x1403
	glUnsignedInt   = 0x1405

	glArrayBuffer        = 0x8892
	glElementArrayBuffer = 0x8893
)

// Call is one recorded driver call. Name is the GL entry point
// ("glBindBuffer", ...), matching the API names glmesh reports in errors.
type Call struct {
	Name string
	Args []any
}

// String formats the call as name(arg, arg, ...).
func (c Call) String() string {
	s := c.Name + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprint(a)
	}
	return s + ")"
}

// Attrib is the recorded state of one vertex attribute slot.
type Attrib struct {
	Buffer     uint32
	Size       int32
	Type       uint32
	Normalized bool
	Stride     int32
	Offset     uintptr
	Enabled    bool
}

// VertexArray is the recorded state of a vertex array object.
type VertexArray struct {
	ElementBuffer uint32
	Attribs       map[uint32]Attrib
}

// Draw is one recorded draw call.
type Draw struct {
	VertexArray uint32
	Mode        uint32
	Count       int32
	Indexed     bool
	IndexType   uint32
}

type injection struct {
	api   string
	nth   int
	codes []uint32
}

// Driver is an in-memory glmesh.Driver. The zero value is not usable; call
// NewDriver.
type Driver struct {
	nextName uint32

	vertexArrays map[uint32]*VertexArray
	buffers      map[uint32][]byte

	boundVertexArray uint32
	boundArray       uint32
	boundElement     uint32

	pending    []uint32
	injections []*injection

	calls []Call
	draws []Draw
}

// NewDriver returns an empty driver with no pending errors.
func NewDriver() *Driver {
	d := &Driver{}
	d.Reset()
	return d
}

// Reset drops all objects, recorded calls, pending errors and injections.
func (d *Driver) Reset() {
	d.nextName = 0
	d.vertexArrays = make(map[uint32]*VertexArray)
	d.buffers = make(map[uint32][]byte)
	d.boundVertexArray = 0
	d.boundArray = 0
	d.boundElement = 0
	d.pending = nil
	d.injections = nil
	d.calls = nil
	d.draws = nil
}

// PushError appends codes to the pending error queue as if a previous call
// had failed.
func (d *Driver) PushError(codes ...uint32) {
	d.pending = append(d.pending, codes...)
}

// FailNext queues codes to be reported right after the next call to api.
func (d *Driver) FailNext(api string, codes ...uint32) {
	d.FailOn(api, 1, codes...)
}

// FailOn queues codes to be reported right after the nth future call to
// api (1 = the next one).
func (d *Driver) FailOn(api string, nth int, codes ...uint32) {
	d.injections = append(d.injections, &injection{api: api, nth: nth, codes: codes})
}

// Pending returns the codes not yet drained with GetError.
func (d *Driver) Pending() []uint32 { return slices.Clone(d.pending) }

// Calls returns every recorded call except GetError polls.
func (d *Driver) Calls() []Call { return slices.Clone(d.calls) }

// CallNames returns the names of the recorded calls, in order.
func (d *Driver) CallNames() []string {
	names := make([]string, len(d.calls))
	for i, c := range d.calls {
		names[i] = c.Name
	}
	return names
}

// CallsNamed returns the recorded calls to api.
func (d *Driver) CallsNamed(api string) []Call {
	var out []Call
	for _, c := range d.calls {
		if c.Name == api {
			out = append(out, c)
		}
	}
	return out
}

// Draws returns the recorded draw calls.
func (d *Driver) Draws() []Draw { return slices.Clone(d.draws) }

// LiveVertexArrays returns the names of the vertex arrays not yet deleted.
func (d *Driver) LiveVertexArrays() []uint32 { return sortedKeys(d.vertexArrays) }

// LiveBuffers returns the names of the buffers not yet deleted.
func (d *Driver) LiveBuffers() []uint32 { return sortedKeys(d.buffers) }

// VertexArray returns the state of a live vertex array.
func (d *Driver) VertexArray(vao uint32) (VertexArray, bool) {
	va, ok := d.vertexArrays[vao]
	if !ok {
		return VertexArray{}, false
	}
	cp := VertexArray{ElementBuffer: va.ElementBuffer, Attribs: make(map[uint32]Attrib, len(va.Attribs))}
	for k, v := range va.Attribs {
		cp.Attribs[k] = v
	}
	return cp, true
}

// Buffer returns a copy of the store of a live buffer.
func (d *Driver) Buffer(buffer uint32) ([]byte, bool) {
	data, ok := d.buffers[buffer]
	return slices.Clone(data), ok
}

// BoundVertexArray returns the currently bound vertex array.
func (d *Driver) BoundVertexArray() uint32 { return d.boundVertexArray }

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// record logs a call and fires any injection due for it.
func (d *Driver) record(api string, args ...any) {
	d.calls = append(d.calls, Call{Name: api, Args: args})

	kept := d.injections[:0]
	for _, inj := range d.injections {
		if inj.api == api {
			inj.nth--
			if inj.nth <= 0 {
				d.pending = append(d.pending, inj.codes...)
				continue
			}
		}
		kept = append(kept, inj)
	}
	d.injections = kept
}

func (d *Driver) raise(code uint32) {
	d.pending = append(d.pending, code)
}

func (d *Driver) genName() uint32 {
	d.nextName++
	return d.nextName
}

// GetError pops the oldest pending code.
func (d *Driver) GetError() uint32 {
	if len(d.pending) == 0 {
		return glNoError
	}
	code := d.pending[0]
	d.pending = d.pending[1:]
	return code
}

// GenVertexArray allocates a vertex array name.
func (d *Driver) GenVertexArray() uint32 {
	vao := d.genName()
	d.vertexArrays[vao] = &VertexArray{Attribs: make(map[uint32]Attrib)}
	d.record("glGenVertexArrays", vao)
	return vao
}

// DeleteVertexArray deletes vao. Unknown names are ignored, as in GL.
func (d *Driver) DeleteVertexArray(vao uint32) {
	delete(d.vertexArrays, vao)
	if d.boundVertexArray == vao {
		d.boundVertexArray = 0
	}
	d.record("glDeleteVertexArrays", vao)
}

// BindVertexArray binds vao, or unbinds with 0.
func (d *Driver) BindVertexArray(vao uint32) {
	if _, ok := d.vertexArrays[vao]; vao != 0 && !ok {
		d.raise(glInvalidOperation)
	} else {
		d.boundVertexArray = vao
	}
	d.record("glBindVertexArray", vao)
}

// BindBuffer binds buffer to target. Binding GL_ELEMENT_ARRAY_BUFFER while a
// vertex array is bound stores it in that vertex array.
func (d *Driver) BindBuffer(target, buffer uint32) {
	defer d.record("glBindBuffer", target, buffer)
	if _, ok := d.buffers[buffer]; buffer != 0 && !ok {
		d.raise(glInvalidOperation)
		return
	}
	switch target {
	case glArrayBuffer:
		d.boundArray = buffer
	case glElementArrayBuffer:
		d.boundElement = buffer
		if va, ok := d.vertexArrays[d.boundVertexArray]; ok {
			va.ElementBuffer = buffer
		}
	default:
		d.raise(glInvalidEnum)
	}
}

// VertexAttribPointer records the layout of slot index in the bound vertex
// array, sourcing from the bound GL_ARRAY_BUFFER.
func (d *Driver) VertexAttribPointer(index uint32, size int32, typ uint32, normalized bool, stride int32, offset uintptr) {
	defer d.record("glVertexAttribPointer", index, size, typ, normalized, stride, offset)
	va, ok := d.vertexArrays[d.boundVertexArray]
	switch {
	case size < 1 || size > 4 || stride < 0:
		d.raise(glInvalidValue)
	case !ok || d.boundArray == 0:
		d.raise(glInvalidOperation)
	default:
		a := va.Attribs[index]
		a.Buffer = d.boundArray
		a.Size = size
		a.Type = typ
		a.Normalized = normalized
		a.Stride = stride
		a.Offset = offset
		va.Attribs[index] = a
	}
}

// EnableVertexAttribArray enables slot index of the bound vertex array.
func (d *Driver) EnableVertexAttribArray(index uint32) {
	defer d.record("glEnableVertexAttribArray", index)
	va, ok := d.vertexArrays[d.boundVertexArray]
	if !ok {
		d.raise(glInvalidOperation)
		return
	}
	a := va.Attribs[index]
	a.Enabled = true
	va.Attribs[index] = a
}

// DrawArrays records a non-indexed draw.
func (d *Driver) DrawArrays(mode uint32, first, count int32) {
	defer d.record("glDrawArrays", mode, first, count)
	if !d.validDraw(mode, count) {
		return
	}
	d.draws = append(d.draws, Draw{VertexArray: d.boundVertexArray, Mode: mode, Count: count})
}

// DrawElements records an indexed draw. The bound vertex array must have an
// element buffer.
func (d *Driver) DrawElements(mode uint32, count int32, typ uint32, offset uintptr) {
	defer d.record("glDrawElements", mode, count, typ, offset)
	if !d.validDraw(mode, count) {
		return
	}
	if typ != glUnsignedByte && typ != glUnsignedShort && typ != glUnsignedInt {
		d.raise(glInvalidEnum)
		return
	}
	if d.vertexArrays[d.boundVertexArray].ElementBuffer == 0 {
		d.raise(glInvalidOperation)
		return
	}
	d.draws = append(d.draws, Draw{
		VertexArray: d.boundVertexArray,
		Mode:        mode,
		Count:       count,
		Indexed:     true,
		IndexType:   typ,
	})
}

func (d *Driver) validDraw(mode uint32, count int32) bool {
	if mode > glTriangleFan {
		d.raise(glInvalidEnum)
		return false
	}
	if count < 0 {
		d.raise(glInvalidValue)
		return false
	}
	if _, ok := d.vertexArrays[d.boundVertexArray]; !ok {
		d.raise(glInvalidOperation)
		return false
	}
	return true
}

// GenBuffer allocates a buffer name.
func (d *Driver) GenBuffer() uint32 {
	buf := d.genName()
	d.buffers[buf] = nil
	d.record("glGenBuffers", buf)
	return buf
}

// DeleteBuffer deletes buffer and clears it from every binding point.
func (d *Driver) DeleteBuffer(buffer uint32) {
	delete(d.buffers, buffer)
	if d.boundArray == buffer {
		d.boundArray = 0
	}
	if d.boundElement == buffer {
		d.boundElement = 0
	}
	for _, va := range d.vertexArrays {
		if va.ElementBuffer == buffer {
			va.ElementBuffer = 0
		}
	}
	d.record("glDeleteBuffers", buffer)
}

// BufferData copies data into the buffer bound to target.
func (d *Driver) BufferData(target uint32, data []byte, usage uint32) {
	defer d.record("glBufferData", target, len(data), usage)
	var bound uint32
	switch target {
	case glArrayBuffer:
		bound = d.boundArray
	case glElementArrayBuffer:
		bound = d.boundElement
		if va, ok := d.vertexArrays[d.boundVertexArray]; ok {
			bound = va.ElementBuffer
		}
	default:
		d.raise(glInvalidEnum)
		return
	}
	if bound == 0 {
		d.raise(glInvalidOperation)
		return
	}
	d.buffers[bound] = slices.Clone(data)
}
