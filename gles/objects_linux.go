//go:build linux && !(js && wasm)

package gles

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

// Call interfaces shared by every objectTable.
var (
	cifOnce sync.Once
	cifErr  error

	cifNames      types.CallInterface // void fn(GLsizei n, GLuint *names)
	cifBufferData types.CallInterface // void fn(GLenum, GLsizeiptr, const void *, GLenum)
)

func prepareCallInterfaces() error {
	cifOnce.Do(func() {
		cifErr = ffi.PrepareCallInterface(&cifNames, types.DefaultCall,
			types.VoidTypeDescriptor,
			[]*types.TypeDescriptor{
				types.SInt32TypeDescriptor,
				types.PointerTypeDescriptor,
			})
		if cifErr != nil {
			return
		}
		cifErr = ffi.PrepareCallInterface(&cifBufferData, types.DefaultCall,
			types.VoidTypeDescriptor,
			[]*types.TypeDescriptor{
				types.UInt32TypeDescriptor,
				types.PointerTypeDescriptor, // GLsizeiptr
				types.PointerTypeDescriptor,
				types.UInt32TypeDescriptor,
			})
	})
	return cifErr
}

// objectTable holds the entry points whose arguments include client memory.
// goffi takes a pointer to each argument value, so a pointer argument is
// passed as a pointer to a pointer variable.
type objectTable struct {
	genBuffers         unsafe.Pointer
	deleteBuffers      unsafe.Pointer
	genVertexArrays    unsafe.Pointer
	deleteVertexArrays unsafe.Pointer
	glBufferData       unsafe.Pointer
}

func newObjectTable(_ *gl.Context, getProcAddr gl.ProcAddressFunc) (objectTable, error) {
	if getProcAddr == nil {
		return objectTable{}, errors.New("gles: nil proc address loader")
	}
	if err := prepareCallInterfaces(); err != nil {
		return objectTable{}, fmt.Errorf("gles: failed to prepare call interfaces: %w", err)
	}

	var o objectTable
	for _, p := range []struct {
		name string
		dst  *unsafe.Pointer
	}{
		{"glGenBuffers", &o.genBuffers},
		{"glDeleteBuffers", &o.deleteBuffers},
		{"glGenVertexArrays", &o.genVertexArrays},
		{"glDeleteVertexArrays", &o.deleteVertexArrays},
		{"glBufferData", &o.glBufferData},
	} {
		*p.dst = getProcAddr(p.name)
		if *p.dst == nil {
			return objectTable{}, fmt.Errorf("gles: %s not found", p.name)
		}
	}
	return o, nil
}

// names calls a glGen* or glDelete* entry point for a single name.
func (o objectTable) names(fn unsafe.Pointer, name *uint32) {
	n := int32(1)
	ptr := unsafe.Pointer(name)
	args := [2]unsafe.Pointer{
		unsafe.Pointer(&n),
		unsafe.Pointer(&ptr),
	}
	_ = ffi.CallFunction(&cifNames, fn, nil, args[:])
}

func (o objectTable) genVertexArray() uint32 {
	var vao uint32
	o.names(o.genVertexArrays, &vao)
	return vao
}

func (o objectTable) deleteVertexArray(vao uint32) { o.names(o.deleteVertexArrays, &vao) }

func (o objectTable) genBuffer() uint32 {
	var buf uint32
	o.names(o.genBuffers, &buf)
	return buf
}

func (o objectTable) deleteBuffer(buffer uint32) { o.names(o.deleteBuffers, &buffer) }

func (o objectTable) bufferData(target uint32, data []byte, usage uint32) {
	size := uintptr(len(data))
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	args := [4]unsafe.Pointer{
		unsafe.Pointer(&target),
		unsafe.Pointer(&size),
		unsafe.Pointer(&ptr),
		unsafe.Pointer(&usage),
	}
	_ = ffi.CallFunction(&cifBufferData, o.glBufferData, nil, args[:])
	runtime.KeepAlive(data)
}
