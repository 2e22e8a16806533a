package runner

import "github.com/vovakirdan/inkdash/internal/core"

// Player is the runner's vertical physics body. Horizontal position is fixed;
// the world scrolls past it.
type Player struct {
	Pos      core.Vec2 // Center of the collision circle
	VY       float64   // Vertical velocity, positive = down
	Radius   float64
	Grounded bool
	Coyote   float64 // Seconds in which a jump is still legal after leaving support
}

// NewPlayer places a player at x resting on the ground line.
func NewPlayer(x, radius, groundY, coyoteTime float64) Player {
	return Player{
		Pos:      core.V(x, groundY-radius),
		Radius:   radius,
		Grounded: true,
		Coyote:   coyoteTime,
	}
}

// Bottom returns the y of the player's lowest point.
func (p *Player) Bottom() float64 {
	return p.Pos.Y + p.Radius
}

// Integrate applies gravity for dt seconds and resolves ground contact.
func (p *Player) Integrate(dt, gravity, groundY, coyoteTime float64) {
	p.VY += gravity * dt
	p.Pos.Y += p.VY * dt

	if p.Bottom() >= groundY {
		p.Land(groundY, coyoteTime)
		return
	}

	p.Grounded = false
	p.Coyote = core.Approach(p.Coyote, dt)
}

// Land rests the player's bottom edge on surfaceY.
func (p *Player) Land(surfaceY, coyoteTime float64) {
	p.Pos.Y = surfaceY - p.Radius
	p.VY = 0
	p.Grounded = true
	p.Coyote = coyoteTime
}

// CanJump reports whether a jump input would succeed.
func (p *Player) CanJump() bool {
	return p.Grounded || p.Coyote > 0
}

// Jump launches the player with the given (negative) impulse.
// It fails silently when airborne and out of coyote time.
func (p *Player) Jump(impulse float64) bool {
	if !p.CanJump() {
		return false
	}
	p.VY = impulse
	p.Grounded = false
	p.Coyote = 0
	return true
}
