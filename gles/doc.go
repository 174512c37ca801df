// Package gles adapts the pure-Go GL bindings of
// github.com/gogpu/wgpu/hal/gles/gl to glmesh.Driver.
//
// The bindings load GL entry points at runtime through goffi (Linux) or
// syscall (Windows). goffi refuses to build with cgo enabled, so on Linux
// programs importing gles are built with CGO_ENABLED=0:
//
//	h, err := gles.NewHeadless()
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	mesh, err := glmesh.NewMesh(h.Driver(), glmesh.Triangles, nil, positions)
//
// Applications that already own a GL context wrap its loaded gl.Context
// with New, passing the loader they gave to gl.Context.Load.
package gles
