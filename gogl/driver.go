//go:build gogl

package gogl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/gogpu/glmesh"
)

// Init loads the GL entry points for the current context and returns the
// driver that uses them.
func Init() (Driver, error) {
	if err := gl.Init(); err != nil {
		return Driver{}, fmt.Errorf("gogl: failed to load GL functions: %w", err)
	}
	glmesh.Logger().Info("gogl: GL loaded",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
	)
	return Driver{}, nil
}

// Driver implements glmesh.Driver over the package-level go-gl function
// table. It carries no state.
type Driver struct{}

var _ glmesh.Driver = Driver{}

func (Driver) GetError() uint32 { return gl.GetError() }

func (Driver) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (Driver) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (Driver) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (Driver) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (Driver) VertexAttribPointer(index uint32, size int32, typ uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, typ, normalized, stride, offset)
}

func (Driver) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (Driver) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (Driver) DrawElements(mode uint32, count int32, typ uint32, offset uintptr) {
	gl.DrawElementsWithOffset(mode, count, typ, offset)
}

func (Driver) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (Driver) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (Driver) BufferData(target uint32, data []byte, usage uint32) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	gl.BufferData(target, len(data), ptr, usage)
}
