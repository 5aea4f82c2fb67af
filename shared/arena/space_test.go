package arena

import (
	"testing"
	"testing/fstest"
)

func TestIntersects(t *testing.T) {
	tests := []struct {
		name                           string
		ax, ay, aw, ah, bx, by, bw, bh float64
		want                           bool
	}{
		{"overlapping", 0, 0, 10, 10, 5, 5, 10, 10, true},
		{"contained", 0, 0, 10, 10, 2, 2, 2, 2, true},
		{"touching edges only", 0, 0, 10, 10, 10, 0, 10, 10, false},
		{"disjoint", 0, 0, 10, 10, 20, 20, 5, 5, false},
	}
	for _, tt := range tests {
		if got := Intersects(tt.ax, tt.ay, tt.aw, tt.ah, tt.bx, tt.by, tt.bw, tt.bh); got != tt.want {
			t.Errorf("%s: Intersects = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBodyLandsOnPlatform(t *testing.T) {
	def := &Def{
		Name: "test", Width: 400, Height: 400,
		Platforms: []Platform{{X: 0, Y: 200, W: 400, H: 20}},
	}
	sp := NewSpace(def)
	body := sp.NewBody(100, 200-AvatarHeight-30)

	landed := false
	for i := 0; i < 20 && !landed; i++ {
		landed, _ = body.MoveY(4)
	}
	if !landed {
		t.Fatal("falling body never landed on the platform")
	}
	_, y := body.Position()
	if y+AvatarHeight > 200+0.5 {
		t.Fatalf("body bottom = %v, want resting on platform top 200", y+AvatarHeight)
	}

	// A resting body keeps reporting support even with zero movement.
	landed, _ = body.MoveY(0)
	if !landed {
		t.Fatal("resting body lost its supporting surface on a zero move")
	}
}

func TestBodyStopsAtWall(t *testing.T) {
	def := &Def{
		Name: "test", Width: 400, Height: 400,
		Platforms: []Platform{{X: 200, Y: 0, W: 20, H: 400}},
	}
	sp := NewSpace(def)
	body := sp.NewBody(100, 100)

	hit := false
	for i := 0; i < 40 && !hit; i++ {
		hit = body.MoveX(8)
	}
	if !hit {
		t.Fatal("body never reported a wall hit")
	}
	x, _ := body.Position()
	if x+AvatarWidth > 200+0.5 {
		t.Fatalf("body right edge = %v, want stopped at wall x=200", x+AvatarWidth)
	}
}

func TestSpawnForCyclesAndFallsBack(t *testing.T) {
	def := Default()

	a := def.SpawnFor("red", 0)
	b := def.SpawnFor("red", 1)
	c := def.SpawnFor("red", 2)
	if a.Team != "red" || b.Team != "red" {
		t.Fatalf("spawn teams = %q,%q, want red", a.Team, b.Team)
	}
	if a == b {
		t.Fatal("expected distinct spawns for consecutive respawns")
	}
	if c != a {
		t.Fatal("expected spawn selection to cycle")
	}

	fb := def.SpawnFor("green", 0)
	if fb.X != float64(def.Width)/2 || fb.Y != float64(def.Height)/2 {
		t.Fatalf("fallback spawn = (%v,%v), want arena center", fb.X, fb.Y)
	}
}

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="40" height="30" tilewidth="16" tileheight="16" infinite="0" nextlayerid="3" nextobjectid="6">
 <objectgroup id="1" name="Platforms">
  <object id="1" x="0" y="440" width="640" height="16"/>
  <object id="2" x="256" y="320" width="128" height="16"/>
 </objectgroup>
 <objectgroup id="2" name="Spawns">
  <object id="3" x="64" y="420">
   <properties>
    <property name="team" value="red"/>
   </properties>
  </object>
  <object id="4" x="560" y="420">
   <properties>
    <property name="team" value="blue"/>
   </properties>
  </object>
 </objectgroup>
</map>
`

func TestLoadDefParsesTMX(t *testing.T) {
	fsys := fstest.MapFS{
		"arenas/pit.tmx": &fstest.MapFile{Data: []byte(testTMX)},
	}

	def, err := LoadDef(fsys, "arenas/pit.tmx")
	if err != nil {
		t.Fatalf("LoadDef: %v", err)
	}
	if def.Name != "pit" {
		t.Errorf("Name = %q, want pit", def.Name)
	}
	if def.Width != 640 || def.Height != 480 {
		t.Errorf("bounds = %dx%d, want 640x480", def.Width, def.Height)
	}
	if len(def.Platforms) != 2 {
		t.Fatalf("platforms = %d, want 2", len(def.Platforms))
	}
	if def.Platforms[0] != (Platform{X: 0, Y: 440, W: 640, H: 16}) {
		t.Errorf("platform[0] = %+v", def.Platforms[0])
	}
	if len(def.Spawns) != 2 || def.Spawns[0].Team != "red" || def.Spawns[1].Team != "blue" {
		t.Fatalf("spawns = %+v, want red and blue", def.Spawns)
	}
}

func TestLoadDefRejectsEmptyArena(t *testing.T) {
	empty := `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="10" height="10" tilewidth="16" tileheight="16" infinite="0" nextlayerid="1" nextobjectid="1"></map>
`
	fsys := fstest.MapFS{
		"empty.tmx": &fstest.MapFile{Data: []byte(empty)},
	}
	if _, err := LoadDef(fsys, "empty.tmx"); err == nil {
		t.Fatal("expected error for arena without platforms")
	}
}
