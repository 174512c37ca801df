// Package glmesh wraps OpenGL (ES) 3.0 vertex array objects as drawable
// meshes and turns the GL error queue into attributable Go errors.
//
// # Overview
//
// A [Mesh] binds an ordered list of vertex buffers, and optionally an index
// buffer, into one vertex array object. Buffer i feeds attribute location i.
// [Mesh.Draw] issues the draw call for the mesh's [Topology]; callers decide
// when to draw and which program is bound.
//
//	vb, err := glmesh.NewFloatVertexBuffer(d, 3, positions)
//	if err != nil {
//	    return err
//	}
//	defer vb.Release()
//
//	mesh, err := glmesh.NewMesh(d, glmesh.Triangles, nil, vb)
//	if err != nil {
//	    return err
//	}
//	defer mesh.Release()
//
//	if err := mesh.Draw(); err != nil {
//	    return err
//	}
//
// # GL errors
//
// glGetError reports a queue of sticky error flags shared by the whole
// context. glmesh checks it immediately after every state-mutating call
// with [FailOnError], which drains the queue and returns a [*GLError] naming
// the failing entry point. Release paths use [LogOnError] instead, which
// writes to the logger configured with [SetLogger].
//
// # Drivers
//
// glmesh talks to GL through the [Driver] interface and imports no GL
// binding itself. Package gles provides a driver over
// github.com/gogpu/wgpu/hal/gles/gl, which calls GL through goffi and on
// Linux must be built with CGO_ENABLED=0. Package gogl provides one over
// github.com/go-gl/gl, which requires cgo. The two drivers therefore cannot
// be linked into the same Linux binary.
//
// # Threading
//
// GL contexts are bound to one OS thread. Meshes and buffers perform no
// locking and must only be used from the thread owning their context.
package glmesh
