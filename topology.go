package glmesh

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Topology is the kind of primitive a Mesh renders.
//
// It determines how the data in the vertex buffers (or the index buffer, if
// present) is grouped into points, lines or triangles.
type Topology uint8

const (
	// Points renders each vertex as a point.
	Points Topology = iota
	// LineStrip connects each vertex to the next.
	LineStrip
	// LineLoop is a LineStrip that also connects the last vertex to the first.
	LineLoop
	// Lines renders each pair of vertices as a separate segment.
	Lines
	// TriangleStrip renders each vertex after the second as a triangle with
	// the two preceding vertices.
	TriangleStrip
	// TriangleFan renders triangles that all share the first vertex.
	TriangleFan
	// Triangles renders each group of three vertices as a triangle.
	Triangles

	topologyCount
)

// glModes maps each Topology to its GL draw mode.
var glModes = [topologyCount]uint32{
	Points:        glPoints,
	LineStrip:     glLineStrip,
	LineLoop:      glLineLoop,
	Lines:         glLines,
	TriangleStrip: glTriangleStrip,
	TriangleFan:   glTriangleFan,
	Triangles:     glTriangles,
}

var topologyNames = [topologyCount]string{
	Points:        "points",
	LineStrip:     "line_strip",
	LineLoop:      "line_loop",
	Lines:         "lines",
	TriangleStrip: "triangle_strip",
	TriangleFan:   "triangle_fan",
	Triangles:     "triangles",
}

// Valid reports whether t is one of the defined topologies.
func (t Topology) Valid() bool {
	return t < topologyCount
}

// String returns the snake-case name of the topology.
func (t Topology) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
	return topologyNames[t]
}

// GLMode returns the GL draw mode for t (GL_TRIANGLES and so on).
// It returns 0xFFFFFFFF for an invalid topology.
func (t Topology) GLMode() uint32 {
	if !t.Valid() {
		return ^uint32(0)
	}
	return glModes[t]
}

// PrimitiveTopology returns the WebGPU topology equivalent to t.
// LineLoop and TriangleFan have no WebGPU counterpart and report false.
func (t Topology) PrimitiveTopology() (gputypes.PrimitiveTopology, bool) {
	switch t {
	case Points:
		return gputypes.PrimitiveTopologyPointList, true
	case LineStrip:
		return gputypes.PrimitiveTopologyLineStrip, true
	case Lines:
		return gputypes.PrimitiveTopologyLineList, true
	case TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, true
	case Triangles:
		return gputypes.PrimitiveTopologyTriangleList, true
	default:
		return 0, false
	}
}

// ParseTopology parses a topology name. Matching ignores case, so both
// "triangle_strip" and "TRIANGLE_STRIP" are accepted, as is the "GL_" prefix.
func ParseTopology(s string) (Topology, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "gl_")
	name = strings.ReplaceAll(name, "-", "_")
	for t, n := range topologyNames {
		if n == name {
			return Topology(t), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown topology %q", ErrInvalidArgument, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Topology) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown topology %d", ErrInvalidArgument, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Topology) UnmarshalText(text []byte) error {
	v, err := ParseTopology(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
