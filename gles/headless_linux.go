//go:build linux && !(js && wasm)

package gles

import (
	"errors"
	"fmt"

	"github.com/gogpu/glmesh"
	"github.com/gogpu/wgpu/hal/gles/egl"
	"github.com/gogpu/wgpu/hal/gles/gl"
)

// ErrHeadlessClosed is returned by Headless methods after Close.
var ErrHeadlessClosed = errors.New("gles: headless context closed")

// Headless owns an offscreen desktop GL 3.3 core context created through
// EGL. The context is current on the thread that called NewHeadless; callers
// should runtime.LockOSThread before creating it and issue every GL call from
// that thread.
type Headless struct {
	eglCtx   *egl.Context
	driver   *Driver
	version  string
	renderer string
}

// NewHeadless initializes EGL, creates a context on whichever platform EGL
// detects (X11, Wayland or surfaceless), makes it current and loads the GL
// entry points.
func NewHeadless() (*Headless, error) {
	if err := egl.Init(); err != nil {
		return nil, fmt.Errorf("gles: failed to initialize EGL: %w", err)
	}

	config := egl.DefaultContextConfig()
	config.GLES = false
	ctx, err := egl.NewContext(config)
	if err != nil {
		return nil, fmt.Errorf("gles: failed to create EGL context: %w", err)
	}

	if err := ctx.MakeCurrent(); err != nil {
		ctx.Destroy()
		return nil, fmt.Errorf("gles: failed to make context current: %w", err)
	}

	glCtx := &gl.Context{}
	if err := glCtx.Load(egl.GetGLProcAddress); err != nil {
		ctx.Destroy()
		return nil, fmt.Errorf("gles: failed to load GL functions: %w", err)
	}

	driver, err := New(glCtx, egl.GetGLProcAddress)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}

	h := &Headless{
		eglCtx:   ctx,
		driver:   driver,
		version:  glCtx.GetString(gl.VERSION),
		renderer: glCtx.GetString(gl.RENDERER),
	}
	glmesh.Logger().Info("gles: headless context created",
		"version", h.version,
		"renderer", h.renderer,
		"window_kind", ctx.WindowKind(),
	)
	return h, nil
}

// Driver returns the driver bound to this context, or nil after Close.
func (h *Headless) Driver() *Driver { return h.driver }

// Version returns GL_VERSION as reported at creation.
func (h *Headless) Version() string { return h.version }

// Renderer returns GL_RENDERER as reported at creation.
func (h *Headless) Renderer() string { return h.renderer }

// MakeCurrent makes the context current on the calling thread.
func (h *Headless) MakeCurrent() error {
	if h.eglCtx == nil {
		return ErrHeadlessClosed
	}
	if err := h.eglCtx.MakeCurrent(); err != nil {
		return fmt.Errorf("gles: failed to make context current: %w", err)
	}
	return nil
}

// Close destroys the EGL context. Meshes and buffers created on it must be
// released first. Close is idempotent.
func (h *Headless) Close() error {
	if h.eglCtx == nil {
		return nil
	}
	h.eglCtx.Destroy()
	h.eglCtx = nil
	h.driver = nil
	glmesh.Logger().Debug("gles: headless context destroyed")
	return nil
}
