package netcomponents

import "github.com/yohamta/donburi"

// NetIDData tags a replicated entity with its wire id. Ids are opaque
// strings, stable for the lifetime of the owning connection.
type NetIDData struct {
	ID string
}

var NetID = donburi.NewComponentType[NetIDData]()
