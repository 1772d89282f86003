package kernel

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Label    string    `json:"label"`    // which layer this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Append adds the triangles of o to m, rebasing o's indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// WriteSTL writes the meshes to w as one binary STL solid. Each triangle's
// normal is taken from its first vertex.
func WriteSTL(w io.Writer, meshes ...*Mesh) error {
	var header [80]byte
	copy(header[:], "strata layer preview")
	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrap(err, "stl header")
	}

	total := 0
	for _, m := range meshes {
		total += m.TriangleCount()
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(total)); err != nil {
		return errors.Wrap(err, "stl triangle count")
	}

	// normal, three vertices, attribute byte count
	var rec [50]byte
	for _, m := range meshes {
		for t := 0; t < m.TriangleCount(); t++ {
			idx := m.Indices[t*3 : t*3+3]
			putVec(rec[0:12], m.Normals, idx[0])
			for j, i := range idx {
				putVec(rec[12+j*12:24+j*12], m.Vertices, i)
			}
			if _, err := w.Write(rec[:]); err != nil {
				return errors.Wrapf(err, "stl triangle %d of %q", t, m.Label)
			}
		}
	}
	return nil
}

func putVec(dst []byte, src []float32, i uint32) {
	for k := 0; k < 3; k++ {
		binary.LittleEndian.PutUint32(dst[k*4:], math.Float32bits(src[int(i)*3+k]))
	}
}
