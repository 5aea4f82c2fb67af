package arena

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/lafriks/go-tiled"
)

// LoadDef parses a TMX arena file. It takes an fs.FS so callers can pass
// embed.FS or os.DirFS. Platforms come from a "Platforms" object group,
// spawn points from a "Spawns" object group with a "team" string property.
func LoadDef(fsys fs.FS, tmxPath string) (*Def, error) {
	arenaMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	def := &Def{
		Name:   strings.TrimSuffix(filepath.Base(tmxPath), filepath.Ext(tmxPath)),
		Width:  arenaMap.Width * arenaMap.TileWidth,
		Height: arenaMap.Height * arenaMap.TileHeight,
	}

	for _, og := range arenaMap.ObjectGroups {
		switch og.Name {
		case "Platforms":
			for _, o := range og.Objects {
				def.Platforms = append(def.Platforms, Platform{
					X: o.X, Y: o.Y, W: o.Width, H: o.Height,
				})
			}
		case "Spawns":
			for _, o := range og.Objects {
				def.Spawns = append(def.Spawns, SpawnPoint{
					X:    o.X,
					Y:    o.Y,
					Team: o.Properties.GetString("team"),
				})
			}
		}
	}

	if len(def.Platforms) == 0 {
		return nil, fmt.Errorf("arena %s defines no platforms", tmxPath)
	}
	return def, nil
}
