package glmesh

import (
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/gputypes"
)

// Mesh binds one or more vertex buffers and an optional index buffer into a
// single drawable vertex array object.
//
// The order of the vertex buffers is significant: the buffer at position i
// is bound to attribute location i, so the vertex shader must declare its
// inputs with matching layout qualifiers:
//
//	layout(location = 0) in vec3 a_Position;
//	layout(location = 1) in vec4 a_Color;
//
// Each attribute is described as tightly packed, non-normalized float data
// with the component count the buffer reported at construction time.
//
// The buffers are referenced, not copied, and stay owned by the caller. Their
// contents may change between draws; Draw re-reads their counts every time.
//
// A Mesh must only be used on the thread that owns its GL context. It
// performs no locking.
type Mesh struct {
	driver     Driver
	handle     uint32
	topology   Topology
	index      IndexBuffer
	vertex     []VertexBuffer
	components []int
}

// NewMesh allocates a vertex array object and binds the given buffers to it.
//
// index may be nil, in which case Draw issues non-indexed draws and all
// vertex buffers must report the same vertex count. At least one vertex
// buffer is required. A buffer whose Handle is 0, such as a nil
// *Uint32IndexBuffer or a released one, is rejected with ErrInvalidArgument.
//
// Every GL call is checked with FailOnError. If any of them fails, the
// partially built vertex array is deleted before the error is returned, so
// a failed NewMesh never leaks a handle.
func NewMesh(d Driver, topology Topology, index IndexBuffer, vertex ...VertexBuffer) (m *Mesh, err error) {
	if d == nil {
		return nil, ErrNilDriver
	}
	if len(vertex) == 0 {
		return nil, ErrNoVertexBuffers
	}
	if !topology.Valid() {
		return nil, fmt.Errorf("%w: unknown topology %d", ErrInvalidArgument, int(topology))
	}
	for i, vb := range vertex {
		if vb == nil || vb.Handle() == 0 {
			return nil, fmt.Errorf("%w: vertex buffer %d is nil or released", ErrInvalidArgument, i)
		}
	}
	if index != nil && index.Handle() == 0 {
		return nil, fmt.Errorf("%w: index buffer is nil or released", ErrInvalidArgument)
	}

	m = &Mesh{
		driver:     d,
		topology:   topology,
		index:      index,
		vertex:     slices.Clone(vertex),
		components: make([]int, len(vertex)),
	}
	defer func() {
		if err != nil {
			m.Release()
			m = nil
		}
	}()

	m.handle = d.GenVertexArray()
	if err := FailOnError(d, "Failed to generate a vertex array", "glGenVertexArrays"); err != nil {
		return m, err
	}
	if err := failOnZeroName(m.handle, "Failed to generate a vertex array", "glGenVertexArrays"); err != nil {
		return m, err
	}

	d.BindVertexArray(m.handle)
	if err := FailOnError(d, "Failed to bind vertex array object", "glBindVertexArray"); err != nil {
		return m, err
	}

	if index != nil {
		d.BindBuffer(glElementArrayBuffer, index.Handle())
		if err := FailOnError(d, "Failed to bind index buffer", "glBindBuffer"); err != nil {
			return m, err
		}
	}

	for i, vb := range m.vertex {
		slot := uint32(i) //nolint:gosec // G115: i is bounded by len(vertex)
		m.components[i] = vb.ComponentsPerVertex()

		d.BindBuffer(glArrayBuffer, vb.Handle())
		if err := FailOnError(d, "Failed to bind vertex buffer", "glBindBuffer"); err != nil {
			return m, err
		}

		//nolint:gosec // G115: the driver rejects out-of-range sizes with GL_INVALID_VALUE
		d.VertexAttribPointer(slot, int32(m.components[i]), glFloat, false, 0, 0)
		if err := FailOnError(d, "Failed to associate vertex buffer with vertex array", "glVertexAttribPointer"); err != nil {
			return m, err
		}

		d.EnableVertexAttribArray(slot)
		if err := FailOnError(d, "Failed to enable vertex buffer", "glEnableVertexAttribArray"); err != nil {
			return m, err
		}
		Logger().Debug("glmesh: attribute bound", "vao", m.handle, "slot", slot, "buffer", vb.Handle(), "components", m.components[i])
	}

	Logger().Debug("glmesh: mesh created",
		"vao", m.handle,
		"topology", topology,
		"vertexBuffers", len(m.vertex),
		"indexed", index != nil,
	)
	return m, nil
}

// Draw binds the vertex array and issues one draw call.
//
// Without an index buffer it draws VertexCount vertices of the first
// buffer, after checking that every other buffer reports the same count.
// With an index buffer it draws ElementCount unsigned 32-bit indices and the
// vertex counts are not consulted.
//
// A failed Draw leaves the mesh intact; it can be retried once the cause
// (for example a buffer with the wrong size) has been fixed.
func (m *Mesh) Draw() error {
	if m.handle == 0 {
		return ErrMeshReleased
	}

	m.driver.BindVertexArray(m.handle)
	if err := FailOnError(m.driver, "Failed to bind vertex array object", "glBindVertexArray"); err != nil {
		return err
	}

	mode := m.topology.GLMode()
	if m.index == nil {
		count, err := m.vertexCount()
		if err != nil {
			return err
		}
		m.driver.DrawArrays(mode, 0, count)
		return FailOnError(m.driver, "Failed to draw vertex array object", "glDrawArrays")
	}

	count, err := drawCount("index buffer", m.index.ElementCount())
	if err != nil {
		return err
	}
	m.driver.DrawElements(mode, count, glUnsignedInt, 0)
	return FailOnError(m.driver, "Failed to draw vertex array object with indices", "glDrawElements")
}

// vertexCount returns the count of the first vertex buffer after checking
// that all other buffers agree with it.
func (m *Mesh) vertexCount() (int32, error) {
	want := m.vertex[0].VertexCount()
	count, err := drawCount("vertex buffer [0]", want)
	if err != nil {
		return 0, err
	}
	for i := 1; i < len(m.vertex); i++ {
		got := m.vertex[i].VertexCount()
		if _, err := drawCount(fmt.Sprintf("vertex buffer [%d]", i), got); err != nil {
			return 0, err
		}
		if got != want {
			return 0, &VertexCountMismatchError{Index: i, Want: want, Got: got}
		}
	}
	return count, nil
}

func drawCount(what string, n int) (int32, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %s has %d", ErrNegativeCount, what, n)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s has %d, more than a draw call accepts", ErrInvalidState, what, n)
	}
	return int32(n), nil //nolint:gosec // G115: range checked above
}

// Release deletes the vertex array object. Calling it again is a no-op.
//
// GL errors reported by the delete are logged, never returned: Release is
// commonly called while unwinding from another failure.
func (m *Mesh) Release() {
	if m.handle == 0 {
		return
	}
	handle := m.handle
	m.driver.DeleteVertexArray(handle)
	m.handle = 0
	LogOnError(m.driver, "Failed to free vertex array object", "glDeleteVertexArrays")
	Logger().Debug("glmesh: mesh released", "vao", handle)
}

// Close implements io.Closer. It calls Release and always returns nil.
func (m *Mesh) Close() error {
	m.Release()
	return nil
}

// Released reports whether the vertex array has been deleted.
func (m *Mesh) Released() bool { return m.handle == 0 }

// Handle returns the vertex array object name, or 0 after Release.
func (m *Mesh) Handle() uint32 { return m.handle }

// Topology returns the primitive topology fixed at construction.
func (m *Mesh) Topology() Topology { return m.topology }

// IndexBuffer returns the index buffer, or nil for a non-indexed mesh.
func (m *Mesh) IndexBuffer() IndexBuffer { return m.index }

// VertexBuffers returns the vertex buffers in attribute-location order.
func (m *Mesh) VertexBuffers() []VertexBuffer { return slices.Clone(m.vertex) }

// Layouts describes the attribute bindings made at construction as WebGPU
// vertex buffer layouts: layout i holds a single attribute at shader
// location i.
func (m *Mesh) Layouts() []gputypes.VertexBufferLayout {
	layouts := make([]gputypes.VertexBufferLayout, len(m.components))
	for i, n := range m.components {
		format := floatVertexFormat(n)
		layouts[i] = gputypes.VertexBufferLayout{
			ArrayStride: format.Size(),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{{
				Format:         format,
				Offset:         0,
				ShaderLocation: uint32(i), //nolint:gosec // G115: bounded by the buffer count
			}},
		}
	}
	return layouts
}

// VertexCountMismatchError is returned by Draw when a non-indexed mesh has
// vertex buffers reporting different vertex counts.
type VertexCountMismatchError struct {
	// Index is the position of the first buffer that disagrees with buffer 0.
	Index int
	// Want is the vertex count of buffer 0.
	Want int
	// Got is the vertex count of buffer Index.
	Got int
}

// Error implements error.
func (e *VertexCountMismatchError) Error() string {
	return fmt.Sprintf("glmesh: vertex buffers have mismatching numbers of vertices ([0] has %d but [%d] has %d)",
		e.Want, e.Index, e.Got)
}

// Unwrap returns ErrInvalidState.
func (e *VertexCountMismatchError) Unwrap() error { return ErrInvalidState }

// Delta returns Got - Want.
func (e *VertexCountMismatchError) Delta() int { return e.Got - e.Want }
