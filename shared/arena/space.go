package arena

import "github.com/solarlune/resolv"

const (
	tagSolid = "solid"

	// Avatar collision box.
	AvatarWidth  = 24.0
	AvatarHeight = 48.0
)

// Space is a resolv collision space built from an arena definition. One
// exists per match on the server; each client builds its own for prediction.
type Space struct {
	def   *Def
	space *resolv.Space
}

func NewSpace(def *Def) *Space {
	sp := resolv.NewSpace(def.Width, def.Height, 16, 16)
	for _, p := range def.Platforms {
		obj := resolv.NewObject(p.X, p.Y, p.W, p.H, tagSolid)
		obj.SetShape(resolv.NewRectangle(0, 0, p.W, p.H))
		sp.Add(obj)
	}
	return &Space{def: def, space: sp}
}

func (s *Space) Def() *Def { return s.def }

// NewBody adds an avatar-sized body at the given top-left position.
func (s *Space) NewBody(x, y float64) *Body {
	obj := resolv.NewObject(x, y, AvatarWidth, AvatarHeight, "avatar")
	obj.SetShape(resolv.NewRectangle(0, 0, AvatarWidth, AvatarHeight))
	s.space.Add(obj)
	return &Body{obj: obj}
}

func (s *Space) RemoveBody(b *Body) {
	s.space.Remove(b.obj)
}

// HitsPlatform reports whether the rectangle intersects any platform.
func (s *Space) HitsPlatform(x, y, w, h float64) bool {
	for _, p := range s.def.Platforms {
		if Intersects(x, y, w, h, p.X, p.Y, p.W, p.H) {
			return true
		}
	}
	return false
}

// Intersects is the axis-aligned rectangle intersection test consumed by
// projectile collision resolution.
func Intersects(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	return ax < bx+bw && ax+aw > bx && ay < by+bh && ay+ah > by
}

// Body is one avatar's collision object. It satisfies sim.Collider.
type Body struct {
	obj *resolv.Object
}

func (b *Body) MoveX(dx float64) (hitWall bool) {
	if dx == 0 {
		return false
	}
	if check := b.obj.Check(dx, 0, tagSolid); check != nil {
		if solids := check.ObjectsByTags(tagSolid); len(solids) > 0 {
			contact := check.ContactWithObject(solids[0])
			dx = contact.X()
			hitWall = true
		}
	}
	b.obj.X += dx
	b.obj.Update()
	return hitWall
}

func (b *Body) MoveY(dy float64) (landed, hitCeiling bool) {
	checkDist := dy
	if dy >= 0 {
		// Probe one extra pixel so a resting body keeps reporting contact.
		checkDist++
	}
	if check := b.obj.Check(0, checkDist, tagSolid); check != nil {
		if solids := check.ObjectsByTags(tagSolid); len(solids) > 0 {
			contact := check.ContactWithObject(solids[0])
			b.obj.Y += contact.Y()
			b.obj.Update()
			if dy >= 0 {
				return true, false
			}
			return false, true
		}
	}
	b.obj.Y += dy
	b.obj.Update()
	return false, false
}

func (b *Body) Position() (float64, float64) { return b.obj.X, b.obj.Y }

func (b *Body) SetPosition(x, y float64) {
	b.obj.X, b.obj.Y = x, y
	b.obj.Update()
}

// Rect returns the body's collision rectangle for hit tests.
func (b *Body) Rect() (x, y, w, h float64) {
	return b.obj.X, b.obj.Y, b.obj.W, b.obj.H
}
