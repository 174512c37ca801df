//go:build (linux || windows) && !(js && wasm)

package gles

import (
	"github.com/gogpu/glmesh"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

// Driver implements glmesh.Driver on top of a loaded gl.Context.
//
// Object allocation, deletion and buffer uploads go through an entry point
// table of their own (see New); every other call is forwarded to the
// context.
type Driver struct {
	ctx *gl.Context
	obj objectTable
}

var _ glmesh.Driver = (*Driver)(nil)

// New returns a driver issuing calls through ctx. ctx must have been loaded
// with gl.Context.Load while its GL context was current, and getProcAddr
// must be the loader used for it. On Linux New resolves glGenBuffers,
// glDeleteBuffers, glGenVertexArrays, glDeleteVertexArrays and glBufferData
// through getProcAddr and calls them directly so that the name array and
// data pointers reach GL as pointers.
func New(ctx *gl.Context, getProcAddr gl.ProcAddressFunc) (*Driver, error) {
	obj, err := newObjectTable(ctx, getProcAddr)
	if err != nil {
		return nil, err
	}
	return &Driver{ctx: ctx, obj: obj}, nil
}

// Context returns the underlying function table.
func (d *Driver) Context() *gl.Context { return d.ctx }

func (d *Driver) GetError() uint32 { return d.ctx.GetError() }

func (d *Driver) GenVertexArray() uint32 { return d.obj.genVertexArray() }

func (d *Driver) DeleteVertexArray(vao uint32) { d.obj.deleteVertexArray(vao) }

func (d *Driver) BindVertexArray(vao uint32) { d.ctx.BindVertexArray(vao) }

func (d *Driver) BindBuffer(target, buffer uint32) { d.ctx.BindBuffer(target, buffer) }

func (d *Driver) VertexAttribPointer(index uint32, size int32, typ uint32, normalized bool, stride int32, offset uintptr) {
	d.ctx.VertexAttribPointer(index, size, typ, normalized, stride, offset)
}

func (d *Driver) EnableVertexAttribArray(index uint32) { d.ctx.EnableVertexAttribArray(index) }

func (d *Driver) DrawArrays(mode uint32, first, count int32) { d.ctx.DrawArrays(mode, first, count) }

func (d *Driver) DrawElements(mode uint32, count int32, typ uint32, offset uintptr) {
	d.ctx.DrawElements(mode, count, typ, offset)
}

func (d *Driver) GenBuffer() uint32 { return d.obj.genBuffer() }

func (d *Driver) DeleteBuffer(buffer uint32) { d.obj.deleteBuffer(buffer) }

// BufferData uploads data to the buffer bound to target. An empty slice
// allocates an empty store.
func (d *Driver) BufferData(target uint32, data []byte, usage uint32) {
	d.obj.bufferData(target, data, usage)
}
