package glmesh

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
)

// VertexBuffer is the capability a Mesh needs from a vertex attribute source.
//
// Implementations own their GL buffer and may change its contents between
// draws; a Mesh binds Handle once at construction and re-reads VertexCount
// on every draw.
type VertexBuffer interface {
	// Handle returns the GL buffer name.
	Handle() uint32
	// ComponentsPerVertex returns the number of float components per vertex (1-4).
	ComponentsPerVertex() int
	// VertexCount returns the number of vertices currently stored.
	VertexCount() int
}

// IndexBuffer is the capability a Mesh needs from an element source.
// Indices are always unsigned 32-bit integers.
type IndexBuffer interface {
	// Handle returns the GL buffer name.
	Handle() uint32
	// ElementCount returns the number of indices currently stored.
	ElementCount() int
}

// gpuBuffer owns one GL buffer object. The GL target follows from usage:
// BufferUsageVertex binds to GL_ARRAY_BUFFER and BufferUsageIndex to
// GL_ELEMENT_ARRAY_BUFFER.
type gpuBuffer struct {
	driver Driver
	handle uint32
	usage  gputypes.BufferUsage
}

func (b *gpuBuffer) target() uint32 {
	if b.usage.Contains(gputypes.BufferUsageIndex) {
		return glElementArrayBuffer
	}
	return glArrayBuffer
}

func newGPUBuffer(d Driver, usage gputypes.BufferUsage, data []byte) (*gpuBuffer, error) {
	if d == nil {
		return nil, ErrNilDriver
	}
	b := &gpuBuffer{driver: d, usage: usage}
	b.handle = d.GenBuffer()
	if err := FailOnError(d, "Failed to generate buffer", "glGenBuffers"); err != nil {
		b.release()
		return nil, err
	}
	if err := failOnZeroName(b.handle, "Failed to generate buffer", "glGenBuffers"); err != nil {
		return nil, err
	}
	if err := b.set(data); err != nil {
		b.release()
		return nil, err
	}
	return b, nil
}

func (b *gpuBuffer) set(data []byte) error {
	if b.handle == 0 {
		return ErrBufferReleased
	}
	if b.target() == glElementArrayBuffer {
		// The element binding is vertex array state: unbind whatever mesh is
		// current so the upload does not replace its index buffer.
		b.driver.BindVertexArray(0)
		if err := FailOnError(b.driver, "Failed to unbind vertex array", "glBindVertexArray"); err != nil {
			return err
		}
	}
	b.driver.BindBuffer(b.target(), b.handle)
	if err := FailOnError(b.driver, "Failed to bind buffer object", "glBindBuffer"); err != nil {
		return err
	}
	b.driver.BufferData(b.target(), data, glDynamicDraw)
	if err := FailOnError(b.driver, "Failed to populate buffer object", "glBufferData"); err != nil {
		return err
	}
	return nil
}

func (b *gpuBuffer) release() {
	if b.handle == 0 {
		return
	}
	b.driver.DeleteBuffer(b.handle)
	b.handle = 0
	LogOnError(b.driver, "Failed to free buffer object", "glDeleteBuffers")
}

// FloatVertexBuffer is a VertexBuffer holding tightly packed float32 data.
type FloatVertexBuffer struct {
	buf         *gpuBuffer
	components  int
	vertexCount int
}

var _ VertexBuffer = (*FloatVertexBuffer)(nil)

// NewFloatVertexBuffer allocates a GL buffer and uploads data to it.
//
// componentsPerVertex must be between 1 and 4 and len(data) must be a
// multiple of it. data may be empty.
func NewFloatVertexBuffer(d Driver, componentsPerVertex int, data []float32) (*FloatVertexBuffer, error) {
	if err := validateVertexData(componentsPerVertex, data); err != nil {
		return nil, err
	}
	buf, err := newGPUBuffer(d, gputypes.BufferUsageVertex, float32Bytes(data))
	if err != nil {
		return nil, err
	}
	return &FloatVertexBuffer{
		buf:         buf,
		components:  componentsPerVertex,
		vertexCount: len(data) / componentsPerVertex,
	}, nil
}

func validateVertexData(components int, data []float32) error {
	if components < 1 || components > 4 {
		return fmt.Errorf("%w: components per vertex must be 1-4, got %d", ErrInvalidArgument, components)
	}
	if len(data)%components != 0 {
		return fmt.Errorf("%w: %d floats is not a multiple of %d components", ErrInvalidArgument, len(data), components)
	}
	return nil
}

// Set replaces the buffer contents. The component count cannot change.
// Meshes using the buffer see the new vertex count on their next draw.
func (b *FloatVertexBuffer) Set(data []float32) error {
	if err := validateVertexData(b.components, data); err != nil {
		return err
	}
	if err := b.buf.set(float32Bytes(data)); err != nil {
		return err
	}
	b.vertexCount = len(data) / b.components
	return nil
}

// Handle returns the GL buffer name, or 0 after Release or on a nil buffer.
func (b *FloatVertexBuffer) Handle() uint32 {
	if b == nil || b.buf == nil {
		return 0
	}
	return b.buf.handle
}

// ComponentsPerVertex returns the number of floats per vertex.
func (b *FloatVertexBuffer) ComponentsPerVertex() int {
	if b == nil {
		return 0
	}
	return b.components
}

// VertexCount returns the number of vertices uploaded by the last Set.
func (b *FloatVertexBuffer) VertexCount() int {
	if b == nil {
		return 0
	}
	return b.vertexCount
}

// Format returns the vertex format matching the component count.
func (b *FloatVertexBuffer) Format() gputypes.VertexFormat {
	return floatVertexFormat(b.components)
}

// Release frees the GL buffer. It is safe to call more than once.
func (b *FloatVertexBuffer) Release() {
	b.buf.release()
}

// Uint32IndexBuffer is an IndexBuffer holding uint32 indices.
type Uint32IndexBuffer struct {
	buf   *gpuBuffer
	count int
}

var _ IndexBuffer = (*Uint32IndexBuffer)(nil)

// NewUint32IndexBuffer allocates a GL element buffer and uploads indices to it.
func NewUint32IndexBuffer(d Driver, indices []uint32) (*Uint32IndexBuffer, error) {
	buf, err := newGPUBuffer(d, gputypes.BufferUsageIndex, uint32Bytes(indices))
	if err != nil {
		return nil, err
	}
	return &Uint32IndexBuffer{buf: buf, count: len(indices)}, nil
}

// Set replaces the indices.
func (b *Uint32IndexBuffer) Set(indices []uint32) error {
	if err := b.buf.set(uint32Bytes(indices)); err != nil {
		return err
	}
	b.count = len(indices)
	return nil
}

// Handle returns the GL buffer name, or 0 after Release or on a nil buffer.
func (b *Uint32IndexBuffer) Handle() uint32 {
	if b == nil || b.buf == nil {
		return 0
	}
	return b.buf.handle
}

// ElementCount returns the number of indices uploaded by the last Set.
func (b *Uint32IndexBuffer) ElementCount() int {
	if b == nil {
		return 0
	}
	return b.count
}

// Format always returns gputypes.IndexFormatUint32.
func (b *Uint32IndexBuffer) Format() gputypes.IndexFormat {
	return gputypes.IndexFormatUint32
}

// Release frees the GL buffer. It is safe to call more than once.
func (b *Uint32IndexBuffer) Release() {
	b.buf.release()
}

func float32Bytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

func uint32Bytes(data []uint32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

// floatVertexFormat returns the Float32xN format for n components, or
// VertexFormatUndefined if n is out of range.
func floatVertexFormat(n int) gputypes.VertexFormat {
	switch n {
	case 1:
		return gputypes.VertexFormatFloat32
	case 2:
		return gputypes.VertexFormatFloat32x2
	case 3:
		return gputypes.VertexFormatFloat32x3
	case 4:
		return gputypes.VertexFormatFloat32x4
	default:
		return gputypes.VertexFormatUndefined
	}
}
