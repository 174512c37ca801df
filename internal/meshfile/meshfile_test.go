package meshfile

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/glmesh"
	"github.com/gogpu/glmesh/internal/gltest"
)

const quad = `
topology: triangles
attributes:
  - name: position
    components: 2
    data: [0, 0, 1, 0, 1, 1, 0, 1]
  - name: color
    components: 3
    data: [1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1]
indices: [0, 1, 2, 2, 3, 0]
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(quad))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if f.Topology != glmesh.Triangles {
		t.Errorf("Topology = %v, want %v", f.Topology, glmesh.Triangles)
	}
	if len(f.Attributes) != 2 {
		t.Fatalf("len(Attributes) = %d, want 2", len(f.Attributes))
	}
	if got := f.Attributes[1].VertexCount(); got != 4 {
		t.Errorf("color VertexCount() = %d, want 4", got)
	}
	if len(f.Indices) != 6 {
		t.Errorf("len(Indices) = %d, want 6", len(f.Indices))
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no attributes", "topology: lines\n"},
		{"bad components", "attributes:\n  - {name: p, components: 5, data: [1, 2, 3, 4, 5]}\n"},
		{"partial vertex", "attributes:\n  - {name: p, components: 3, data: [1, 2]}\n"},
		{"missing name", "attributes:\n  - {components: 1, data: [1]}\n"},
		{
			name: "duplicate name",
			yaml: "attributes:\n  - {name: p, components: 1, data: [1]}\n  - {name: p, components: 1, data: [2]}\n",
		},
		{
			name: "count mismatch",
			yaml: "attributes:\n  - {name: p, components: 1, data: [1, 2]}\n  - {name: c, components: 1, data: [1]}\n",
		},
		{
			name: "index out of range",
			yaml: "attributes:\n  - {name: p, components: 1, data: [1, 2]}\nindices: [0, 2]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, ErrInvalidFile) {
				t.Errorf("Parse() error = %v, want %v", err, ErrInvalidFile)
			}
		})
	}
}

func TestParseUnknownTopology(t *testing.T) {
	_, err := Parse([]byte("topology: quads\nattributes:\n  - {name: p, components: 1, data: [1]}\n"))
	if !errors.Is(err, glmesh.ErrInvalidArgument) {
		t.Errorf("Parse() error = %v, want %v", err, glmesh.ErrInvalidArgument)
	}
}

func TestIndexedCountsMayDiffer(t *testing.T) {
	const y = `
attributes:
  - {name: p, components: 1, data: [1, 2, 3]}
  - {name: c, components: 1, data: [1, 2]}
indices: [0, 1]
`
	if _, err := Parse([]byte(y)); err != nil {
		t.Errorf("Parse() = %v, want nil", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.yaml")
	if err := os.WriteFile(path, []byte(quad), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load() = %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want %v", err, os.ErrNotExist)
	}
}

func approx(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }

func TestTransformApply(t *testing.T) {
	two := float32(2)
	tests := []struct {
		name       string
		transform  *Transform
		components int
		in         []float32
		want       []float32
	}{
		{"nil transform", nil, 3, []float32{1, 2, 3}, []float32{1, 2, 3}},
		{"translate", &Transform{Translate: [3]float32{1, 2, 3}}, 3, []float32{1, 1, 1}, []float32{2, 3, 4}},
		{"scale", &Transform{Scale: &two}, 2, []float32{1, -1}, []float32{2, -2}},
		{"rotate", &Transform{RotateZ: 90}, 2, []float32{1, 0}, []float32{0, 1}},
		{
			name:       "scale then rotate then translate",
			transform:  &Transform{Translate: [3]float32{0, 0, 5}, Scale: &two, RotateZ: 90},
			components: 3,
			in:         []float32{1, 0, 0},
			want:       []float32{0, 2, 5},
		},
		{"colors untouched", &Transform{Translate: [3]float32{1, 1, 1}}, 4, []float32{1, 2, 3, 4}, []float32{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]float32(nil), tt.in...)
			got := tt.transform.Apply(in, tt.components)
			for i := range tt.want {
				if !approx(got[i], tt.want[i]) {
					t.Errorf("Apply() = %v, want %v", got, tt.want)
					break
				}
			}
			for i := range in {
				if in[i] != tt.in[i] {
					t.Fatalf("Apply() modified its input: %v", in)
				}
			}
		})
	}
}

func TestBuild(t *testing.T) {
	f, err := Parse([]byte(quad))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	d := gltest.NewDriver()

	b, err := f.Build(d)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if len(b.Vertex) != 2 || b.Index == nil || b.Mesh == nil {
		t.Fatalf("Build() = %+v, want two vertex buffers, an index buffer and a mesh", b)
	}
	if err := b.Mesh.Draw(); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	draws := d.Draws()
	if len(draws) != 1 || !draws[0].Indexed || draws[0].Count != 6 || draws[0].Mode != glmesh.Triangles.GLMode() {
		t.Errorf("draws = %+v, want one indexed triangle draw of 6", draws)
	}

	b.Release()
	b.Release()
	if live := d.LiveBuffers(); len(live) != 0 {
		t.Errorf("live buffers = %v after Release", live)
	}
	if live := d.LiveVertexArrays(); len(live) != 0 {
		t.Errorf("live vertex arrays = %v after Release", live)
	}
}

func TestBuildNonIndexed(t *testing.T) {
	f := &File{
		Topology:   glmesh.LineStrip,
		Attributes: []Attribute{{Name: "p", Components: 2, Data: []float32{0, 0, 1, 1, 2, 0}}},
	}
	d := gltest.NewDriver()
	b, err := f.Build(d)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	defer b.Release()

	if b.Index != nil || b.Mesh.IndexBuffer() != nil {
		t.Error("non-indexed file built with an index buffer")
	}
	if err := b.Mesh.Draw(); err != nil {
		t.Fatalf("Draw() = %v", err)
	}
	if got := d.Draws()[0]; got.Indexed || got.Count != 3 {
		t.Errorf("draw = %+v, want 3 non-indexed vertices", got)
	}
}

func TestBuildFailureReleasesEverything(t *testing.T) {
	f, err := Parse([]byte(quad))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	d := gltest.NewDriver()
	d.FailNext("glEnableVertexAttribArray", uint32(glmesh.InvalidOperation))

	var glErr *glmesh.GLError
	if _, err := f.Build(d); !errors.As(err, &glErr) {
		t.Fatalf("Build() error = %v, want *GLError", err)
	}
	if live := d.LiveBuffers(); len(live) != 0 {
		t.Errorf("live buffers = %v after failed Build", live)
	}
	if live := d.LiveVertexArrays(); len(live) != 0 {
		t.Errorf("live vertex arrays = %v after failed Build", live)
	}
}
