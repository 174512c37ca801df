package glmesh

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/glmesh/internal/gltest"
	"github.com/gogpu/gputypes"
)

func TestNewFloatVertexBuffer(t *testing.T) {
	d := gltest.NewDriver()
	data := []float32{0, 1, 2, 3, 4, 5}

	vb, err := NewFloatVertexBuffer(d, 2, data)
	if err != nil {
		t.Fatalf("NewFloatVertexBuffer() = %v", err)
	}
	defer vb.Release()

	if vb.Handle() == 0 {
		t.Fatal("Handle() = 0")
	}
	if got := vb.VertexCount(); got != 3 {
		t.Errorf("VertexCount() = %d, want 3", got)
	}
	if got := vb.ComponentsPerVertex(); got != 2 {
		t.Errorf("ComponentsPerVertex() = %d, want 2", got)
	}
	if got := vb.Format(); got != gputypes.VertexFormatFloat32x2 {
		t.Errorf("Format() = %v, want %v", got, gputypes.VertexFormatFloat32x2)
	}

	stored, ok := d.Buffer(vb.Handle())
	if !ok {
		t.Fatalf("buffer %d not live", vb.Handle())
	}
	if len(stored) != len(data)*4 {
		t.Fatalf("stored %d bytes, want %d", len(stored), len(data)*4)
	}
	for i, want := range data {
		got := math.Float32frombits(binary.NativeEndian.Uint32(stored[i*4:]))
		if got != want {
			t.Errorf("stored[%d] = %v, want %v", i, got, want)
		}
	}

	upload := d.CallsNamed("glBufferData")
	if len(upload) != 1 || upload[0].Args[0] != uint32(glArrayBuffer) {
		t.Errorf("glBufferData calls = %v, want one upload to GL_ARRAY_BUFFER", upload)
	}
}

func TestNewFloatVertexBufferInvalid(t *testing.T) {
	tests := []struct {
		name       string
		components int
		data       []float32
	}{
		{"zero components", 0, []float32{1}},
		{"five components", 5, []float32{1, 2, 3, 4, 5}},
		{"partial vertex", 3, []float32{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gltest.NewDriver()
			_, err := NewFloatVertexBuffer(d, tt.components, tt.data)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("NewFloatVertexBuffer() error = %v, want invalid argument", err)
			}
			if live := d.LiveBuffers(); len(live) != 0 {
				t.Errorf("live buffers = %v, want none", live)
			}
		})
	}

	if _, err := NewFloatVertexBuffer(nil, 3, nil); !errors.Is(err, ErrNilDriver) {
		t.Errorf("NewFloatVertexBuffer(nil) error = %v, want %v", err, ErrNilDriver)
	}
}

func TestBufferUploadFailureReleases(t *testing.T) {
	tests := []struct {
		name string
		api  string
	}{
		{"gen", "glGenBuffers"},
		{"bind", "glBindBuffer"},
		{"upload", "glBufferData"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gltest.NewDriver()
			d.FailNext(tt.api, glOutOfMemory)

			_, err := NewUint32IndexBuffer(d, []uint32{0, 1, 2})
			var glErr *GLError
			if !errors.As(err, &glErr) || glErr.API != tt.api {
				t.Fatalf("NewUint32IndexBuffer() error = %v, want *GLError from %s", err, tt.api)
			}
			if live := d.LiveBuffers(); len(live) != 0 {
				t.Errorf("live buffers = %v, want none", live)
			}
		})
	}
}

func TestBufferZeroName(t *testing.T) {
	fake := gltest.NewDriver()
	d := zeroGenDriver{fake}

	tests := []struct {
		name string
		make func() error
	}{
		{"vertex", func() error {
			_, err := NewFloatVertexBuffer(d, 2, []float32{0, 1})
			return err
		}},
		{"index", func() error {
			_, err := NewUint32IndexBuffer(d, []uint32{0})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(fake.Calls())
			err := tt.make()
			if !errors.Is(err, ErrZeroName) {
				t.Fatalf("error = %v, want %v", err, ErrZeroName)
			}
			if !strings.Contains(err.Error(), "glGenBuffers") {
				t.Errorf("error %q does not name glGenBuffers", err)
			}
			if n := len(fake.Calls()) - before; n != 0 {
				t.Errorf("made %d GL calls after a zero name, want 0", n)
			}
		})
	}
}

func TestNilBufferAccessors(t *testing.T) {
	var vb *FloatVertexBuffer
	var ib *Uint32IndexBuffer

	if h := vb.Handle(); h != 0 {
		t.Errorf("(*FloatVertexBuffer)(nil).Handle() = %d, want 0", h)
	}
	if n := vb.VertexCount(); n != 0 {
		t.Errorf("(*FloatVertexBuffer)(nil).VertexCount() = %d, want 0", n)
	}
	if n := vb.ComponentsPerVertex(); n != 0 {
		t.Errorf("(*FloatVertexBuffer)(nil).ComponentsPerVertex() = %d, want 0", n)
	}
	if h := ib.Handle(); h != 0 {
		t.Errorf("(*Uint32IndexBuffer)(nil).Handle() = %d, want 0", h)
	}
	if n := ib.ElementCount(); n != 0 {
		t.Errorf("(*Uint32IndexBuffer)(nil).ElementCount() = %d, want 0", n)
	}
}

func TestFloatVertexBufferSetSeenByMesh(t *testing.T) {
	d := gltest.NewDriver()
	pos, err := NewFloatVertexBuffer(d, 3, make([]float32, 9))
	if err != nil {
		t.Fatalf("NewFloatVertexBuffer() = %v", err)
	}
	defer pos.Release()
	color, err := NewFloatVertexBuffer(d, 4, make([]float32, 12))
	if err != nil {
		t.Fatalf("NewFloatVertexBuffer() = %v", err)
	}
	defer color.Release()

	m, err := NewMesh(d, Triangles, nil, pos, color)
	if err != nil {
		t.Fatalf("NewMesh() = %v", err)
	}
	defer m.Release()

	if err := m.Draw(); err != nil {
		t.Fatalf("Draw() = %v", err)
	}

	if err := pos.Set(make([]float32, 12)); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	var mismatch *VertexCountMismatchError
	if err := m.Draw(); !errors.As(err, &mismatch) || mismatch.Want != 4 || mismatch.Got != 3 {
		t.Fatalf("Draw() error = %v, want mismatch 4 vs 3", err)
	}

	if err := color.Set(make([]float32, 16)); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if err := m.Draw(); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	if last := d.Draws()[len(d.Draws())-1]; last.Count != 4 {
		t.Errorf("Count = %d, want 4", last.Count)
	}

	if err := pos.Set(make([]float32, 4)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Set() with a partial vertex error = %v, want invalid argument", err)
	}
	if pos.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d after rejected Set, want 4", pos.VertexCount())
	}
}

func TestIndexUploadKeepsBoundMeshElementSource(t *testing.T) {
	d := gltest.NewDriver()
	vb, err := NewFloatVertexBuffer(d, 2, make([]float32, 8))
	if err != nil {
		t.Fatalf("NewFloatVertexBuffer() = %v", err)
	}
	defer vb.Release()
	ib, err := NewUint32IndexBuffer(d, []uint32{0, 1, 2, 2, 3, 0})
	if err != nil {
		t.Fatalf("NewUint32IndexBuffer() = %v", err)
	}
	defer ib.Release()

	m, err := NewMesh(d, Triangles, ib, vb)
	if err != nil {
		t.Fatalf("NewMesh() = %v", err)
	}
	defer m.Release()

	// The mesh's vertex array is still bound here. Creating and updating
	// another index buffer must not rebind its element source.
	other, err := NewUint32IndexBuffer(d, []uint32{0, 1, 2})
	if err != nil {
		t.Fatalf("NewUint32IndexBuffer() = %v", err)
	}
	defer other.Release()
	if err := ib.Set([]uint32{0, 1, 2}); err != nil {
		t.Fatalf("Set() = %v", err)
	}

	va, _ := d.VertexArray(m.Handle())
	if va.ElementBuffer != ib.Handle() {
		t.Errorf("ElementBuffer = %d, want %d", va.ElementBuffer, ib.Handle())
	}

	if err := m.Draw(); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	if got := d.Draws()[0]; !got.Indexed || got.Count != 3 {
		t.Errorf("draw = %+v, want 3 indexed elements", got)
	}
	if ib.Format() != gputypes.IndexFormatUint32 {
		t.Errorf("Format() = %v, want %v", ib.Format(), gputypes.IndexFormatUint32)
	}
}

func TestBufferRelease(t *testing.T) {
	d := gltest.NewDriver()
	vb, err := NewFloatVertexBuffer(d, 1, []float32{1})
	if err != nil {
		t.Fatalf("NewFloatVertexBuffer() = %v", err)
	}
	ib, err := NewUint32IndexBuffer(d, []uint32{0})
	if err != nil {
		t.Fatalf("NewUint32IndexBuffer() = %v", err)
	}

	vb.Release()
	vb.Release()
	ib.Release()
	ib.Release()

	if live := d.LiveBuffers(); len(live) != 0 {
		t.Errorf("live buffers = %v, want none", live)
	}
	if n := len(d.CallsNamed("glDeleteBuffers")); n != 2 {
		t.Errorf("glDeleteBuffers called %d times, want 2", n)
	}
	if vb.Handle() != 0 || ib.Handle() != 0 {
		t.Errorf("handles = %d, %d after Release, want 0", vb.Handle(), ib.Handle())
	}
	if err := vb.Set([]float32{2}); !errors.Is(err, ErrBufferReleased) {
		t.Errorf("Set() after Release error = %v, want %v", err, ErrBufferReleased)
	}
	if err := ib.Set([]uint32{1}); !errors.Is(err, ErrBufferReleased) {
		t.Errorf("Set() after Release error = %v, want %v", err, ErrBufferReleased)
	}
}
