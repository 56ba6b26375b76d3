// Package maze generates and queries the grid mazes the player escapes from.
package maze

// Cell is the state of a single grid cell.
type Cell uint8

// Cell states
const (
	Wall Cell = iota
	Open
)

// Room represents a rectangular safe room carved into the grid
type Room struct {
	X      int // Top-left cell X
	Y      int // Top-left cell Y
	Width  int
	Height int
	IsExit bool
}

// Center returns the room's center point in maze coordinates.
func (r Room) Center() (float64, float64) {
	return float64(r.X) + float64(r.Width)/2.0, float64(r.Y) + float64(r.Height)/2.0
}

// Contains reports whether the cell (x, y) lies inside the room.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Expanded returns the room grown by margin cells on every side.
func (r Room) Expanded(margin int) Room {
	return Room{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Intersects reports whether two rooms share at least one cell.
func (r Room) Intersects(other Room) bool {
	return r.X < other.X+other.Width && other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height && other.Y < r.Y+r.Height
}

// Maze is an immutable generated grid with its rooms.
// Every query treats out-of-bounds cells as walls.
type Maze struct {
	width, height int
	cells         []Cell
	rooms         []Room
	seed          uint32
	spawnX        float64
	spawnY        float64
	exitIndex     int
}

// Width returns the grid width in cells (always odd).
func (m *Maze) Width() int { return m.width }

// Height returns the grid height in cells (always odd).
func (m *Maze) Height() int { return m.height }

// Seed returns the seed that reproduces this maze.
func (m *Maze) Seed() uint32 { return m.seed }

// Cell returns the state of (x, y), Wall when out of bounds.
func (m *Maze) Cell(x, y int) Cell {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return Wall
	}
	return m.cells[y*m.width+x]
}

// IsWall reports whether (x, y) blocks movement and light.
func (m *Maze) IsWall(x, y int) bool {
	return m.Cell(x, y) == Wall
}

// Rooms returns a copy of the placed rooms. Index 0 is the spawn room.
func (m *Maze) Rooms() []Room {
	out := make([]Room, len(m.rooms))
	copy(out, m.rooms)
	return out
}

// Spawn returns the player start point.
func (m *Maze) Spawn() (float64, float64) {
	return m.spawnX, m.spawnY
}

// SpawnCell returns the grid cell containing the spawn point.
func (m *Maze) SpawnCell() (int, int) {
	return int(m.spawnX), int(m.spawnY)
}

// ExitRoomIndex returns the index of the exit room, or -1 when the maze
// has fewer than two rooms and no exit could be chosen.
func (m *Maze) ExitRoomIndex() int { return m.exitIndex }

// ExitRoom returns the exit room if one exists.
func (m *Maze) ExitRoom() (Room, bool) {
	if m.exitIndex < 0 {
		return Room{}, false
	}
	return m.rooms[m.exitIndex], true
}

// RoomAt returns the index of the room containing (x, y).
func (m *Maze) RoomAt(x, y int) (int, bool) {
	for i, r := range m.rooms {
		if r.Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}

// IsInRoom reports whether (x, y) lies inside any room.
func (m *Maze) IsInRoom(x, y int) bool {
	_, ok := m.RoomAt(x, y)
	return ok
}

// IsInExitRoom reports whether (x, y) lies inside the exit room.
func (m *Maze) IsInExitRoom(x, y int) bool {
	r, ok := m.ExitRoom()
	return ok && r.Contains(x, y)
}

// OpenCells counts the open cells in the grid.
func (m *Maze) OpenCells() int {
	n := 0
	for _, c := range m.cells {
		if c == Open {
			n++
		}
	}
	return n
}
