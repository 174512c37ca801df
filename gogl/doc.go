// Package gogl adapts the cgo bindings of github.com/go-gl/gl/v3.3-core/gl
// to glmesh.Driver.
//
// The package is built only with the gogl build tag, which keeps cgo and the
// system GL headers out of default builds:
//
//	go build -tags gogl ./...
//
// The caller creates and makes current a GL 3.3 core context (with GLFW, SDL
// or similar), then calls Init once before using Driver.
package gogl
