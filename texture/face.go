package texture

// Face names one side of a unit cube.
type Face int

const (
	North Face = iota
	South
	West
	East
	Down
	Up
)

// Faces lists every face in emission order.
var Faces = [6]Face{North, South, West, East, Down, Up}

var faceNames = [6]string{"north", "south", "west", "east", "down", "up"}

func (f Face) String() string { return faceNames[f] }

// Offset is the neighbor direction the face looks toward.
func (f Face) Offset() (dx, dy, dz int) {
	switch f {
	case North:
		return 0, 0, -1
	case South:
		return 0, 0, 1
	case West:
		return -1, 0, 0
	case East:
		return 1, 0, 0
	case Down:
		return 0, -1, 0
	default:
		return 0, 1, 0
	}
}

// BakedFace is one textured quad in block-local space.
type BakedFace struct {
	Positions  [4][3]float32
	UVs        [4][2]float32
	Normal     [3]float32
	TextureKey string
}

// Offset returns a copy of f translated by (dx,dy,dz).
func (f BakedFace) Offset(dx, dy, dz float32) BakedFace {
	out := f
	for i := range out.Positions {
		out.Positions[i][0] += dx
		out.Positions[i][1] += dy
		out.Positions[i][2] += dz
	}
	return out
}

// BakedBlock is the resolved cube for one block identity.
type BakedBlock struct {
	Faces      [6]BakedFace
	TextureKey string
}

// Face returns the baked quad for f.
func (b *BakedBlock) Face(f Face) BakedFace { return b.Faces[f] }

// Quad corners per face; UV i maps to corner i.
var cubeCorners = [6][4][3]float32{
	North: {{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	South: {{1, 0, 1}, {0, 0, 1}, {0, 1, 1}, {1, 1, 1}},
	West:  {{0, 0, 1}, {0, 0, 0}, {0, 1, 0}, {0, 1, 1}},
	East:  {{1, 0, 0}, {1, 0, 1}, {1, 1, 1}, {1, 1, 0}},
	Down:  {{0, 0, 1}, {1, 0, 1}, {1, 0, 0}, {0, 0, 0}},
	Up:    {{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1}},
}

var cubeNormals = [6][3]float32{
	North: {0, 0, -1},
	South: {0, 0, 1},
	West:  {-1, 0, 0},
	East:  {1, 0, 0},
	Down:  {0, -1, 0},
	Up:    {0, 1, 0},
}

var quadUVs = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// unitCube builds the six faces of [0,1]^3 with one texture key per face.
func unitCube(keys [6]string) [6]BakedFace {
	var faces [6]BakedFace
	for _, f := range Faces {
		faces[f] = BakedFace{
			Positions:  cubeCorners[f],
			UVs:        quadUVs,
			Normal:     cubeNormals[f],
			TextureKey: keys[f],
		}
	}
	return faces
}
