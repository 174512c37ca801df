package glmesh

// Driver is the set of OpenGL (ES) 3.0 entry points glmesh needs.
//
// The method set mirrors gl.Context from github.com/gogpu/wgpu/hal/gles/gl,
// reduced to single-object variants. All methods must be called on the
// thread that owns the current GL context; Driver implementations perform
// no locking.
//
// Every state-mutating call is expected to be followed by a call to
// FailOnError or LogOnError so that errors are attributed to the call that
// caused them.
type Driver interface {
	// GetError pops the oldest pending error code, or returns 0 (GL_NO_ERROR).
	GetError() uint32

	GenVertexArray() uint32
	DeleteVertexArray(vao uint32)
	BindVertexArray(vao uint32)

	BindBuffer(target, buffer uint32)
	VertexAttribPointer(index uint32, size int32, typ uint32, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)

	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, typ uint32, offset uintptr)

	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	// BufferData replaces the store of the buffer bound to target.
	BufferData(target uint32, data []byte, usage uint32)
}
