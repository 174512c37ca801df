//go:build windows && !(js && wasm)

package gles

import (
	"unsafe"

	"github.com/gogpu/wgpu/hal/gles/gl"
)

// objectTable forwards to the context; the syscall bindings pass the name
// array and data pointers through unchanged.
type objectTable struct {
	ctx *gl.Context
}

func newObjectTable(ctx *gl.Context, _ gl.ProcAddressFunc) (objectTable, error) {
	return objectTable{ctx: ctx}, nil
}

func (o objectTable) genVertexArray() uint32 { return o.ctx.GenVertexArrays(1) }

func (o objectTable) deleteVertexArray(vao uint32) { o.ctx.DeleteVertexArrays(vao) }

func (o objectTable) genBuffer() uint32 { return o.ctx.GenBuffers(1) }

func (o objectTable) deleteBuffer(buffer uint32) { o.ctx.DeleteBuffers(buffer) }

func (o objectTable) bufferData(target uint32, data []byte, usage uint32) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	o.ctx.BufferData(target, len(data), ptr, usage)
}
