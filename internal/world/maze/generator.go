package maze

import (
	"math/rand"
	"time"
)

// Generation defaults
const (
	MinSize          = 7 // Smallest grid edge accepted by the generator
	DefaultRoomCount = 6
	RoomMargin       = 3 // Minimum wall gap between rooms and from the border
	MinRoomSize      = 3
	MaxRoomSize      = 7
	attemptsPerRoom  = 10
)

// Config holds configuration for maze generation
type Config struct {
	Width     int    // Requested width in cells (rounded up to odd)
	Height    int    // Requested height in cells (rounded up to odd)
	Seed      uint32 // Random seed (0 = use current time)
	RoomCount int    // Target number of rooms (0 = DefaultRoomCount)
	RoomSize  int    // Edge length of every room (0 = derived from grid size)
}

// Generator carves mazes from a Config.
type Generator struct {
	config Config
	seed   uint32
	rng    *rand.Rand
}

// NewGenerator creates a new maze generator
func NewGenerator(config Config) *Generator {
	seed := config.Seed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
		if seed == 0 {
			seed = 1
		}
	}

	return &Generator{
		config: config,
		seed:   seed,
		rng:    rand.New(rand.NewSource(int64(seed))),
	}
}

// New generates a maze of the given size with default room settings.
func New(width, height int, seed uint32) *Maze {
	return Generate(Config{Width: width, Height: height, Seed: seed})
}

// Generate builds a maze from config. Identical configs with a non-zero
// seed always produce identical mazes.
func Generate(config Config) *Maze {
	return NewGenerator(config).Generate()
}

// Generate creates the grid, places rooms, carves corridors and assigns
// spawn and exit.
func (g *Generator) Generate() *Maze {
	width := ensureOdd(g.config.Width)
	height := ensureOdd(g.config.Height)

	m := &Maze{
		width:     width,
		height:    height,
		cells:     make([]Cell, width*height), // zero value is Wall
		seed:      g.seed,
		exitIndex: -1,
	}

	roomCount := g.config.RoomCount
	if roomCount <= 0 {
		roomCount = DefaultRoomCount
	}
	// Rooms narrower than MinRoomSize can sit on even cells the backtracker
	// never opens, leaving them cut off.
	roomSize := g.config.RoomSize
	if roomSize <= 0 {
		roomSize = autoRoomSize(width, height)
	}
	roomSize = max(roomSize, MinRoomSize)

	m.rooms = g.placeRooms(width, height, roomCount, roomSize)
	for _, r := range m.rooms {
		m.carveRoom(r)
	}

	g.carvePassages(m)
	assignSpawnAndExit(m)

	return m
}

// placeRooms picks room positions by rejection sampling. Running out of
// attempts just yields fewer rooms.
func (g *Generator) placeRooms(width, height, count, size int) []Room {
	maxX := width - RoomMargin - size
	maxY := height - RoomMargin - size
	if maxX < RoomMargin || maxY < RoomMargin {
		return nil
	}

	rooms := make([]Room, 0, count)
	maxAttempts := count * attemptsPerRoom

	for attempt := 0; attempt < maxAttempts && len(rooms) < count; attempt++ {
		candidate := Room{
			X:      RoomMargin + g.rng.Intn(maxX-RoomMargin+1),
			Y:      RoomMargin + g.rng.Intn(maxY-RoomMargin+1),
			Width:  size,
			Height: size,
		}

		fits := true
		for _, other := range rooms {
			if other.Expanded(RoomMargin).Intersects(candidate) {
				fits = false
				break
			}
		}

		if fits {
			rooms = append(rooms, candidate)
		}
	}

	return rooms
}

func (m *Maze) carveRoom(r Room) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			m.cells[y*m.width+x] = Open
		}
	}
}

type point struct {
	x, y int
}

var jumpDirs = [4]point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

// carvePassages runs an iterative recursive backtracker over the odd cells
// starting at (1, 1). Visits are tracked apart from cell state so the
// already-open rooms are entered and stitched into the spanning tree.
func (g *Generator) carvePassages(m *Maze) {
	visited := make([]bool, len(m.cells))
	start := point{1, 1}

	visited[start.y*m.width+start.x] = true
	m.cells[start.y*m.width+start.x] = Open
	stack := []point{start}
	candidates := make([]point, 0, 4)

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates = candidates[:0]

		for _, d := range jumpDirs {
			nx, ny := curr.x+d.x, curr.y+d.y
			// Leave a one-cell wall border
			if nx > 0 && nx < m.width-1 && ny > 0 && ny < m.height-1 && !visited[ny*m.width+nx] {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[g.rng.Intn(len(candidates))]
		wallX, wallY := curr.x+d.x/2, curr.y+d.y/2
		nextX, nextY := curr.x+d.x, curr.y+d.y

		m.cells[wallY*m.width+wallX] = Open
		m.cells[nextY*m.width+nextX] = Open
		visited[nextY*m.width+nextX] = true

		stack = append(stack, point{nextX, nextY})
	}
}

// assignSpawnAndExit puts the spawn in the first room and marks the room
// farthest from it as the exit. Without rooms the spawn falls back to (1, 1)
// and the maze has no exit.
func assignSpawnAndExit(m *Maze) {
	if len(m.rooms) == 0 {
		m.spawnX, m.spawnY = 1.5, 1.5
		return
	}

	m.spawnX, m.spawnY = m.rooms[0].Center()
	if len(m.rooms) < 2 {
		return
	}

	best := -1
	bestDistSq := -1.0
	for i := 1; i < len(m.rooms); i++ {
		cx, cy := m.rooms[i].Center()
		dx, dy := cx-m.spawnX, cy-m.spawnY
		distSq := dx*dx + dy*dy
		if distSq > bestDistSq {
			bestDistSq = distSq
			best = i
		}
	}

	m.rooms[best].IsExit = true
	m.exitIndex = best
}

// --- Helpers ---

// ensureOdd rounds up to the next odd number so cells sit on odd coordinates
// and the walls between them on even ones.
func ensureOdd(n int) int {
	if n < MinSize {
		return MinSize
	}
	if n%2 == 0 {
		return n + 1
	}
	return n
}

func autoRoomSize(width, height int) int {
	edge := width
	if height < edge {
		edge = height
	}
	size := (edge - 2*RoomMargin) / 5
	if size < MinRoomSize {
		return MinRoomSize
	}
	if size > MaxRoomSize {
		return MaxRoomSize
	}
	return size
}
