// Package meshfile loads mesh descriptions from YAML and builds them into
// glmesh meshes.
package meshfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/glmesh"
)

// ErrInvalidFile is wrapped by every validation error.
var ErrInvalidFile = errors.New("meshfile: invalid mesh file")

// File is a parsed mesh description.
type File struct {
	// Topology defaults to points when omitted.
	Topology   glmesh.Topology `yaml:"topology"`
	Transform  *Transform      `yaml:"transform,omitempty"`
	Attributes []Attribute     `yaml:"attributes"`
	Indices    []uint32        `yaml:"indices,omitempty"`
}

// Attribute is one vertex buffer. Its position in File.Attributes is its
// attribute slot.
type Attribute struct {
	Name       string    `yaml:"name"`
	Components int       `yaml:"components"`
	Data       []float32 `yaml:"data"`
}

// VertexCount returns the number of whole vertices in Data.
func (a Attribute) VertexCount() int {
	if a.Components <= 0 {
		return 0
	}
	return len(a.Data) / a.Components
}

// Transform is applied to attribute 0 before upload, as
// translate * rotate * scale.
type Transform struct {
	Translate [3]float32 `yaml:"translate"`
	Scale     *float32   `yaml:"scale,omitempty"`
	RotateZ   float32    `yaml:"rotate_z"` // degrees
}

// Matrix returns the combined transform.
func (t *Transform) Matrix() mgl32.Mat4 {
	if t == nil {
		return mgl32.Ident4()
	}
	s := float32(1)
	if t.Scale != nil {
		s = *t.Scale
	}
	return mgl32.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2]).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.RotateZ))).
		Mul4(mgl32.Scale3D(s, s, s))
}

// Apply returns a transformed copy of data holding vertices of the given
// size. Only 2 and 3 component positions are transformed; 2 component
// vertices are treated as z = 0 and keep their x and y.
func (t *Transform) Apply(data []float32, components int) []float32 {
	out := make([]float32, len(data))
	copy(out, data)
	if t == nil || (components != 2 && components != 3) {
		return out
	}
	m := t.Matrix()
	for i := 0; i+components <= len(out); i += components {
		v := mgl32.Vec3{out[i], out[i+1], 0}
		if components == 3 {
			v[2] = out[i+2]
		}
		v = mgl32.TransformCoordinate(v, m)
		copy(out[i:i+components], v[:components])
	}
	return out
}

// Load reads and validates the mesh description at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("meshfile: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a mesh description.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("meshfile: parse: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that the description can be built and drawn. Without
// indices every attribute must hold the same number of vertices; with
// indices every index must address a vertex present in all attributes.
func (f *File) Validate() error {
	if !f.Topology.Valid() {
		return fmt.Errorf("%w: topology %v", ErrInvalidFile, f.Topology)
	}
	if len(f.Attributes) == 0 {
		return fmt.Errorf("%w: no attributes", ErrInvalidFile)
	}

	seen := make(map[string]bool, len(f.Attributes))
	minVertices := -1
	for i, a := range f.Attributes {
		if a.Name == "" {
			return fmt.Errorf("%w: attribute %d has no name", ErrInvalidFile, i)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate attribute %q", ErrInvalidFile, a.Name)
		}
		seen[a.Name] = true
		if a.Components < 1 || a.Components > 4 {
			return fmt.Errorf("%w: attribute %q has %d components, want 1 to 4", ErrInvalidFile, a.Name, a.Components)
		}
		if len(a.Data)%a.Components != 0 {
			return fmt.Errorf("%w: attribute %q has %d values, not a multiple of %d",
				ErrInvalidFile, a.Name, len(a.Data), a.Components)
		}
		n := a.VertexCount()
		if len(f.Indices) == 0 && minVertices >= 0 && n != minVertices {
			return fmt.Errorf("%w: attribute %q has %d vertices but %q has %d",
				ErrInvalidFile, a.Name, n, f.Attributes[0].Name, minVertices)
		}
		if minVertices < 0 || n < minVertices {
			minVertices = n
		}
	}

	for i, idx := range f.Indices {
		if int(idx) >= minVertices {
			return fmt.Errorf("%w: index %d (%d) out of range, %d vertices", ErrInvalidFile, i, idx, minVertices)
		}
	}
	return nil
}

// Built owns the GPU objects created from a File.
type Built struct {
	Mesh   *glmesh.Mesh
	Vertex []*glmesh.FloatVertexBuffer
	Index  *glmesh.Uint32IndexBuffer
}

// Build uploads the attributes, applying the transform to attribute 0, and
// creates the mesh. Everything created is released if a step fails.
func (f *File) Build(d glmesh.Driver) (b *Built, err error) {
	b = &Built{}
	defer func() {
		if err != nil {
			b.Release()
			b = nil
		}
	}()

	vertex := make([]glmesh.VertexBuffer, 0, len(f.Attributes))
	for i, a := range f.Attributes {
		data := a.Data
		if i == 0 {
			data = f.Transform.Apply(data, a.Components)
		}
		vb, err := glmesh.NewFloatVertexBuffer(d, a.Components, data)
		if err != nil {
			return b, fmt.Errorf("meshfile: attribute %q: %w", a.Name, err)
		}
		b.Vertex = append(b.Vertex, vb)
		vertex = append(vertex, vb)
	}

	var index glmesh.IndexBuffer
	if len(f.Indices) > 0 {
		ib, err := glmesh.NewUint32IndexBuffer(d, f.Indices)
		if err != nil {
			return b, fmt.Errorf("meshfile: indices: %w", err)
		}
		b.Index = ib
		index = ib
	}

	b.Mesh, err = glmesh.NewMesh(d, f.Topology, index, vertex...)
	if err != nil {
		return b, fmt.Errorf("meshfile: %w", err)
	}
	return b, nil
}

// Release frees the mesh and then its buffers. It is idempotent.
func (b *Built) Release() {
	if b.Mesh != nil {
		b.Mesh.Release()
	}
	if b.Index != nil {
		b.Index.Release()
	}
	for _, vb := range b.Vertex {
		vb.Release()
	}
}
