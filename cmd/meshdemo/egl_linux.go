//go:build linux && !(js && wasm)

package main

import (
	"github.com/gogpu/glmesh"
	"github.com/gogpu/glmesh/gles"
)

func openEGL() (glmesh.Driver, func(), error) {
	h, err := gles.NewHeadless()
	if err != nil {
		return nil, nil, err
	}
	return h.Driver(), func() { _ = h.Close() }, nil
}
