package geometry

// face is one flat-shaded face of a fixed mesh.
type face struct {
	corners   [][3]float32
	normal    [3]float32
	tangent   [3]float32
	bitangent [3]float32
	uvs       [][2]float32
	color     [4]float32
}

var quadUVs = [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

var triangleUVs = [][2]float32{{0, 0}, {1, 0}, {0.5, 1}}

var cubeFaces = []face{
	{ // front
		corners: [][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},
		normal:  [3]float32{0, 0, 1}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 1, 0},
		uvs: quadUVs, color: [4]float32{1, 1, 1, 1},
	},
	{ // back
		corners: [][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}},
		normal:  [3]float32{0, 0, -1}, tangent: [3]float32{-1, 0, 0}, bitangent: [3]float32{0, 1, 0},
		uvs: quadUVs, color: [4]float32{1, 0, 0, 1},
	},
	{ // top
		corners: [][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}},
		normal:  [3]float32{0, 1, 0}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 0, -1},
		uvs: quadUVs, color: [4]float32{0, 1, 0, 1},
	},
	{ // bottom
		corners: [][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}},
		normal:  [3]float32{0, -1, 0}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 0, 1},
		uvs: quadUVs, color: [4]float32{0, 0, 1, 1},
	},
	{ // right
		corners: [][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}},
		normal:  [3]float32{1, 0, 0}, tangent: [3]float32{0, 0, -1}, bitangent: [3]float32{0, 1, 0},
		uvs: quadUVs, color: [4]float32{1, 1, 0, 1},
	},
	{ // left
		corners: [][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}},
		normal:  [3]float32{-1, 0, 0}, tangent: [3]float32{0, 0, 1}, bitangent: [3]float32{0, 1, 0},
		uvs: quadUVs, color: [4]float32{1, 0, 1, 1},
	},
}

// Slant side normals of a pyramid with base half-extent 1 and height 2: (0, 1, 2)/√5.
const (
	slantA = 0.4472136
	slantB = 0.8944272
)

var pyramidApex = [3]float32{0, 1, 0}

var pyramidFaces = []face{
	{ // front
		corners: [][3]float32{{-1, -1, 1}, {1, -1, 1}, pyramidApex},
		normal:  [3]float32{0, slantA, slantB}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, slantB, -slantA},
		uvs: triangleUVs, color: [4]float32{1, 0, 0, 1},
	},
	{ // right
		corners: [][3]float32{{1, -1, 1}, {1, -1, -1}, pyramidApex},
		normal:  [3]float32{slantB, slantA, 0}, tangent: [3]float32{0, 0, -1}, bitangent: [3]float32{-slantA, slantB, 0},
		uvs: triangleUVs, color: [4]float32{0, 1, 0, 1},
	},
	{ // back
		corners: [][3]float32{{1, -1, -1}, {-1, -1, -1}, pyramidApex},
		normal:  [3]float32{0, slantA, -slantB}, tangent: [3]float32{-1, 0, 0}, bitangent: [3]float32{0, slantB, slantA},
		uvs: triangleUVs, color: [4]float32{0, 0, 1, 1},
	},
	{ // left
		corners: [][3]float32{{-1, -1, -1}, {-1, -1, 1}, pyramidApex},
		normal:  [3]float32{-slantB, slantA, 0}, tangent: [3]float32{0, 0, 1}, bitangent: [3]float32{slantA, slantB, 0},
		uvs: triangleUVs, color: [4]float32{1, 1, 0, 1},
	},
	{ // base
		corners: [][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}},
		normal:  [3]float32{0, -1, 0}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 0, 1},
		uvs: quadUVs, color: [4]float32{1, 1, 1, 1},
	},
}

// Cube returns a flat-shaded cube of half-extent 1 with 24 vertices (4 per face), 12
// triangles, per-face colors and a tangent frame on every face.
func Cube() *Geometry {
	return buildFaces(cubeFaces)
}

// Pyramid returns a flat-shaded square pyramid with its apex at (0, 1, 0) and its base at
// y = -1: 16 vertices and 6 triangles.
func Pyramid() *Geometry {
	return buildFaces(pyramidFaces)
}

// buildFaces flattens a face table into streams. Triangular faces emit one triangle, quads
// emit (0,1,2) and (0,2,3) relative to their first vertex.
func buildFaces(faces []face) *Geometry {
	g := &Geometry{}
	for _, f := range faces {
		base := uint16(g.VertexCount())
		for i, c := range f.corners {
			g.Positions = append(g.Positions, c[:]...)
			g.Normals = append(g.Normals, f.normal[:]...)
			g.Tangents = append(g.Tangents, f.tangent[:]...)
			g.Bitangents = append(g.Bitangents, f.bitangent[:]...)
			g.UVs = append(g.UVs, f.uvs[i][:]...)
			g.Colors = append(g.Colors, f.color[:]...)
		}
		g.Indices = append(g.Indices, base, base+1, base+2)
		if len(f.corners) == 4 {
			g.Indices = append(g.Indices, base, base+2, base+3)
		}
	}
	return g
}
