package maze

import (
	"reflect"
	"testing"
)

func TestGenerateForcesOddDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"even request", 20, 20, 21, 21},
		{"odd request", 31, 15, 31, 15},
		{"mixed", 40, 25, 41, 25},
		{"too small", 3, 0, MinSize, MinSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.width, tt.height, 7)
			if m.Width() != tt.wantW || m.Height() != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, m.Width(), m.Height())
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := Config{Width: 41, Height: 41, Seed: 1234, RoomCount: 6}
	a := Generate(cfg)
	b := Generate(cfg)

	if !reflect.DeepEqual(a.cells, b.cells) {
		t.Fatal("Expected identical grids for identical seeds")
	}
	if !reflect.DeepEqual(a.Rooms(), b.Rooms()) {
		t.Errorf("Expected identical rooms, got %v and %v", a.Rooms(), b.Rooms())
	}
	ax, ay := a.Spawn()
	bx, by := b.Spawn()
	if ax != bx || ay != by {
		t.Errorf("Expected identical spawn, got (%v,%v) and (%v,%v)", ax, ay, bx, by)
	}
	if a.ExitRoomIndex() != b.ExitRoomIndex() {
		t.Errorf("Expected identical exit index, got %d and %d", a.ExitRoomIndex(), b.ExitRoomIndex())
	}
}

func TestSeedZeroIsRecorded(t *testing.T) {
	m := Generate(Config{Width: 21, Height: 21})
	if m.Seed() == 0 {
		t.Fatal("Expected a non-zero recorded seed")
	}

	again := Generate(Config{Width: 21, Height: 21, Seed: m.Seed()})
	if !reflect.DeepEqual(m.cells, again.cells) {
		t.Error("Expected the recorded seed to reproduce the maze")
	}
}

func TestBorderIsWall(t *testing.T) {
	m := New(31, 21, 99)
	for x := 0; x < m.Width(); x++ {
		if !m.IsWall(x, 0) || !m.IsWall(x, m.Height()-1) {
			t.Fatalf("Expected wall on horizontal border at x=%d", x)
		}
	}
	for y := 0; y < m.Height(); y++ {
		if !m.IsWall(0, y) || !m.IsWall(m.Width()-1, y) {
			t.Fatalf("Expected wall on vertical border at y=%d", y)
		}
	}
}

func TestOutOfBoundsIsWall(t *testing.T) {
	m := New(21, 21, 5)
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {21, 5}, {5, 21}, {-100, -100}, {1000, 3}} {
		if !m.IsWall(c[0], c[1]) {
			t.Errorf("Expected (%d,%d) to be a wall", c[0], c[1])
		}
	}
}

// reachableCells counts open cells connected to the spawn cell.
func reachableCells(t *testing.T, m *Maze) int {
	t.Helper()
	sx, sy := m.SpawnCell()
	if m.IsWall(sx, sy) {
		t.Fatalf("seed %d: spawn cell (%d,%d) is a wall", m.Seed(), sx, sy)
	}

	seen := make([]bool, m.Width()*m.Height())
	queue := [][2]int{{sx, sy}}
	seen[sy*m.Width()+sx] = true
	reached := 1

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := c[0]+d[0], c[1]+d[1]
			if m.IsWall(nx, ny) || seen[ny*m.Width()+nx] {
				continue
			}
			seen[ny*m.Width()+nx] = true
			reached++
			queue = append(queue, [2]int{nx, ny})
		}
	}
	return reached
}

func TestAllOpenCellsReachable(t *testing.T) {
	for _, seed := range []uint32{1, 42, 777, 31337} {
		m := New(51, 51, seed)
		if reached := reachableCells(t, m); reached != m.OpenCells() {
			t.Errorf("seed %d: reached %d of %d open cells", seed, reached, m.OpenCells())
		}
	}
}

func TestTinyRoomSizeStaysConnected(t *testing.T) {
	sizes := [][2]int{{9, 9}, {15, 15}, {21, 35}, {31, 21}}

	for _, size := range sizes {
		for seed := uint32(1); seed < 200; seed++ {
			m := Generate(Config{Width: size[0], Height: size[1], Seed: seed, RoomSize: 1})
			if reached := reachableCells(t, m); reached != m.OpenCells() {
				t.Fatalf("%dx%d seed %d: reached %d of %d open cells", size[0], size[1], seed, reached, m.OpenCells())
			}
			for i, r := range m.Rooms() {
				if r.Width < MinRoomSize || r.Height < MinRoomSize {
					t.Fatalf("%dx%d seed %d: room %d is %dx%d, below the minimum", size[0], size[1], seed, i, r.Width, r.Height)
				}
			}
		}
	}
}

func TestRoomsKeepMargin(t *testing.T) {
	m := Generate(Config{Width: 61, Height: 61, Seed: 2024, RoomCount: 12})
	rooms := m.Rooms()
	if len(rooms) == 0 {
		t.Fatal("Expected at least one room")
	}

	for i, a := range rooms {
		if a.X < RoomMargin || a.Y < RoomMargin ||
			a.X+a.Width > m.Width()-RoomMargin || a.Y+a.Height > m.Height()-RoomMargin {
			t.Errorf("Room %d %+v violates the border margin", i, a)
		}
		for j := i + 1; j < len(rooms); j++ {
			if a.Expanded(RoomMargin).Intersects(rooms[j]) {
				t.Errorf("Rooms %d and %d are closer than %d cells", i, j, RoomMargin)
			}
		}
		for y := a.Y; y < a.Y+a.Height; y++ {
			for x := a.X; x < a.X+a.Width; x++ {
				if m.IsWall(x, y) {
					t.Fatalf("Room %d has a wall at (%d,%d)", i, x, y)
				}
			}
		}
	}
}

func TestExitIsFarthestRoom(t *testing.T) {
	m := Generate(Config{Width: 20, Height: 20, Seed: 42, RoomCount: 6})
	if m.Width() != 21 || m.Height() != 21 {
		t.Fatalf("Expected 21x21, got %dx%d", m.Width(), m.Height())
	}

	rooms := m.Rooms()
	if len(rooms) < 2 {
		t.Fatalf("Expected at least two rooms, got %d", len(rooms))
	}

	exits := 0
	for _, r := range rooms {
		if r.IsExit {
			exits++
		}
	}
	if exits != 1 {
		t.Fatalf("Expected exactly one exit room, got %d", exits)
	}

	exit, ok := m.ExitRoom()
	if !ok || !exit.IsExit {
		t.Fatal("Expected ExitRoom to return the flagged room")
	}

	sx, sy := rooms[0].Center()
	ex, ey := exit.Center()
	exitDist := (ex-sx)*(ex-sx) + (ey-sy)*(ey-sy)
	for i, r := range rooms {
		cx, cy := r.Center()
		if d := (cx-sx)*(cx-sx) + (cy-sy)*(cy-sy); d > exitDist {
			t.Errorf("Room %d is farther (%v) than the exit (%v)", i, d, exitDist)
		}
	}
}

func TestSpawnIsSpawnRoomCenter(t *testing.T) {
	m := New(41, 41, 8)
	rooms := m.Rooms()
	if len(rooms) == 0 {
		t.Fatal("Expected rooms")
	}

	cx, cy := rooms[0].Center()
	sx, sy := m.Spawn()
	if sx != cx || sy != cy {
		t.Errorf("Expected spawn (%v,%v), got (%v,%v)", cx, cy, sx, sy)
	}
	if !m.IsInRoom(m.SpawnCell()) {
		t.Error("Expected spawn cell inside a room")
	}
	if idx, ok := m.RoomAt(m.SpawnCell()); !ok || idx != 0 {
		t.Errorf("Expected spawn in room 0, got %d", idx)
	}
}

func TestDegenerateMazes(t *testing.T) {
	t.Run("no rooms", func(t *testing.T) {
		m := Generate(Config{Width: 21, Height: 21, Seed: 3, RoomSize: 30})
		if len(m.Rooms()) != 0 {
			t.Fatalf("Expected no rooms, got %d", len(m.Rooms()))
		}
		if x, y := m.Spawn(); x != 1.5 || y != 1.5 {
			t.Errorf("Expected spawn (1.5,1.5), got (%v,%v)", x, y)
		}
		if m.ExitRoomIndex() != -1 {
			t.Errorf("Expected no exit, got %d", m.ExitRoomIndex())
		}
		if m.IsWall(1, 1) {
			t.Error("Expected (1,1) to be open")
		}
	})

	t.Run("single room", func(t *testing.T) {
		m := Generate(Config{Width: 21, Height: 21, Seed: 3, RoomCount: 1})
		if len(m.Rooms()) != 1 {
			t.Fatalf("Expected one room, got %d", len(m.Rooms()))
		}
		if _, ok := m.ExitRoom(); ok {
			t.Error("Expected no exit room")
		}
		if m.IsInExitRoom(m.SpawnCell()) {
			t.Error("Expected spawn not to count as an exit")
		}
	})
}

func TestRoomIntersects(t *testing.T) {
	a := Room{X: 3, Y: 3, Width: 3, Height: 3}

	tests := []struct {
		name  string
		other Room
		want  bool
	}{
		{"same", a, true},
		{"touching edge", Room{X: 6, Y: 3, Width: 3, Height: 3}, false},
		{"overlap corner", Room{X: 5, Y: 5, Width: 3, Height: 3}, true},
		{"far", Room{X: 20, Y: 20, Width: 3, Height: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}
