package game

import (
	"math"

	"chosenoffset.com/lumenexit/internal/core/geom"
	"chosenoffset.com/lumenexit/internal/render/lighting"
	"chosenoffset.com/lumenexit/internal/world/maze"
)

// Player movement and stamina tuning
const (
	MoveSpeed        = 3.0 // Cells per second
	TurnSpeed        = 2.5 // Radians per second
	SprintMultiplier = 1.3
	CollisionRadius  = 0.15

	MaxStamina           = 100.0
	StaminaDrainRate     = 20.0 // Per second while sprinting
	StaminaRegenRate     = 8.0
	StaminaRegenDelay    = 1.5 // Seconds after sprinting before regen starts
	BaseExhaustion       = 0.5 // Fraction of stamina needed to sprint again after exhaustion
	ExhaustionIncrement  = 0.1
	ExhaustionResetDelay = 30.0
)

// Player is the pose plus everything that tracks the player through a maze.
type Player struct {
	Pose        geom.Pose
	Sprinting   bool
	Stamina     float64
	ReachedExit bool

	regenTimer    float64
	exhausted     bool
	threshold     float64
	resetTimer    float64
	hadExhaustion bool
	visited       []bool
	width, height int
}

// NewPlayer places a player at the maze spawn facing east and reveals the
// spawn surroundings.
func NewPlayer(m *maze.Maze) *Player {
	x, y := m.Spawn()
	p := &Player{
		Pose:      geom.NewPose(x, y, 0),
		Stamina:   MaxStamina,
		threshold: BaseExhaustion,
		visited:   make([]bool, m.Width()*m.Height()),
		width:     m.Width(),
		height:    m.Height(),
	}
	p.explore(m)
	return p
}

// Cell returns the grid cell the player stands in.
func (p *Player) Cell() (int, int) {
	c := p.Pose.Position().Cell()
	return c.X, c.Y
}

// Exhausted reports whether sprinting is locked out until stamina recovers.
func (p *Player) Exhausted() bool {
	return p.exhausted
}

// ExhaustionThreshold returns the stamina fraction needed to sprint again.
func (p *Player) ExhaustionThreshold() float64 {
	return p.threshold
}

// StaminaPercent returns stamina as a percentage.
func (p *Player) StaminaPercent() float64 {
	return p.Stamina / MaxStamina * 100
}

// Visited reports whether the cell has been seen by the player.
func (p *Player) Visited(x, y int) bool {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return false
	}
	return p.visited[y*p.width+x]
}

// VisitedCount returns how many cells have been revealed.
func (p *Player) VisitedCount() int {
	n := 0
	for _, v := range p.visited {
		if v {
			n++
		}
	}
	return n
}

// Update advances the player by dt seconds.
func (p *Player) Update(dt float64, c Controls, m *maze.Maze) {
	if c.Turn != 0 {
		p.Pose.Rotate(c.Turn)
	}

	speed := MoveSpeed
	if p.updateStamina(dt, c.Sprint) {
		speed *= SprintMultiplier
	}

	step := 0.0
	if c.Forward {
		step += speed * dt
	}
	if c.Backward {
		step -= speed * dt
	}
	if step != 0 {
		p.move(p.Pose.X+p.Pose.DirX*step, p.Pose.Y+p.Pose.DirY*step, m)
	}

	p.explore(m)
}

// updateStamina drains or regenerates stamina and reports whether the
// player sprints this tick. Each exhaustion soon after the last one raises
// the stamina needed before sprinting is allowed again.
func (p *Player) updateStamina(dt float64, wantSprint bool) bool {
	if !p.Sprinting && !p.exhausted && p.threshold > BaseExhaustion {
		p.resetTimer += dt
		if p.resetTimer >= ExhaustionResetDelay {
			p.threshold = BaseExhaustion
			p.resetTimer = 0
			p.hadExhaustion = false
		}
	}

	canSprint := p.Stamina > 0 && (!p.exhausted || p.Stamina >= MaxStamina*p.threshold)
	p.Sprinting = wantSprint && canSprint

	if !p.Sprinting {
		p.regenTimer += dt
		if p.regenTimer >= StaminaRegenDelay {
			p.Stamina = math.Min(p.Stamina+StaminaRegenRate*dt, MaxStamina)
			if p.exhausted && p.Stamina >= MaxStamina*p.threshold {
				p.exhausted = false
			}
		}
		return false
	}

	p.exhausted = false
	p.Stamina -= StaminaDrainRate * dt
	p.regenTimer = 0

	if p.Stamina <= 0 {
		p.Stamina = 0
		p.Sprinting = false

		if p.hadExhaustion && p.resetTimer < ExhaustionResetDelay {
			p.threshold = math.Min(p.threshold+ExhaustionIncrement, 1)
		}
		p.exhausted = true
		p.hadExhaustion = true
		p.resetTimer = 0
	}
	return true
}

// move tries the full step, then each axis alone so the player slides
// along walls, and stays put when both are blocked.
func (p *Player) move(nx, ny float64, grid lighting.Occluder) {
	switch {
	case !collides(nx, ny, grid):
		p.Pose.X, p.Pose.Y = nx, ny
	case !collides(nx, p.Pose.Y, grid):
		p.Pose.X = nx
	case !collides(p.Pose.X, ny, grid):
		p.Pose.Y = ny
	}
}

// collides tests the four corners of the player's bounding square.
func collides(x, y float64, grid lighting.Occluder) bool {
	r := CollisionRadius
	return grid.IsWall(int(math.Floor(x+r)), int(math.Floor(y+r))) ||
		grid.IsWall(int(math.Floor(x-r)), int(math.Floor(y+r))) ||
		grid.IsWall(int(math.Floor(x+r)), int(math.Floor(y-r))) ||
		grid.IsWall(int(math.Floor(x-r)), int(math.Floor(y-r)))
}

// explore marks the current cell visited. Entering a room reveals all of
// it, and entering the exit room finishes the run.
func (p *Player) explore(m *maze.Maze) {
	x, y := p.Cell()
	p.markVisited(x, y)

	idx, ok := m.RoomAt(x, y)
	if !ok {
		return
	}
	room := m.Rooms()[idx]
	for ry := room.Y; ry < room.Y+room.Height; ry++ {
		for rx := room.X; rx < room.X+room.Width; rx++ {
			p.markVisited(rx, ry)
		}
	}
	if room.IsExit {
		p.ReachedExit = true
	}
}

func (p *Player) markVisited(x, y int) {
	if x >= 0 && x < p.width && y >= 0 && y < p.height {
		p.visited[y*p.width+x] = true
	}
}
