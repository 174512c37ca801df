//go:build !linux || (js && wasm)

package main

import (
	"errors"

	"github.com/gogpu/glmesh"
)

func openEGL() (glmesh.Driver, func(), error) {
	return nil, nil, errors.New("the egl driver is only available on linux")
}
