package netzone

import "fmt"

// DragonflyStrategy models groups of routers connected by local links
// within a group and global links between one designated router per group,
// per spec §6 ("Dragonfly" zone variant): intra-group local hop(s), one
// global hop between groups, intra-group local hop(s) again.
type DragonflyStrategy struct {
	groupOf    map[string]string     // host/router name -> group name
	localLink  map[[2]string]LinkRef // (group, nodeName) -> link from node to that group's gateway router
	globalLink map[[2]string]LinkRef // (groupA, groupB) -> global link between their gateway routers
}

// NewDragonflyStrategy returns an empty dragonfly strategy.
func NewDragonflyStrategy() *DragonflyStrategy {
	return &DragonflyStrategy{
		groupOf:    make(map[string]string),
		localLink:  make(map[[2]string]LinkRef),
		globalLink: make(map[[2]string]LinkRef),
	}
}

// AddNode assigns host/router np to group, with the local link toward its
// group's gateway router.
func (d *DragonflyStrategy) AddNode(np *NetPoint, group string, toGatewayLink LinkRef) {
	d.groupOf[np.Name] = group
	d.localLink[[2]string{group, np.Name}] = toGatewayLink
}

// AddGlobalLink declares the global link connecting two groups' gateway
// routers, registered for both directions.
func (d *DragonflyStrategy) AddGlobalLink(groupA, groupB string, link LinkRef) {
	d.globalLink[[2]string{groupA, groupB}] = link
	rev := link
	if rev.Duplex != nil {
		rev.Forward = !rev.Forward
	}
	d.globalLink[[2]string{groupB, groupA}] = rev
}

func (d *DragonflyStrategy) LocalRoute(src, dst *NetPoint) (*Route, error) {
	gSrc, ok := d.groupOf[src.Name]
	if !ok {
		return nil, fmt.Errorf("dragonfly routing: %s has no group", src.Name)
	}
	gDst, ok := d.groupOf[dst.Name]
	if !ok {
		return nil, fmt.Errorf("dragonfly routing: %s has no group", dst.Name)
	}

	route := &Route{GwSrc: src, GwDst: dst}
	if gSrc == gDst {
		if l, ok := d.localLink[[2]string{gSrc, src.Name}]; ok {
			route.Append(l)
		}
		if l, ok := d.localLink[[2]string{gDst, dst.Name}]; ok {
			route.Append(LinkRef{Link: l.Link, Duplex: l.Duplex, Forward: !l.Forward})
		}
		return route, nil
	}

	route.Append(d.localLink[[2]string{gSrc, src.Name}])
	global, ok := d.globalLink[[2]string{gSrc, gDst}]
	if !ok {
		return nil, fmt.Errorf("dragonfly routing: no global link between %s and %s", gSrc, gDst)
	}
	route.Append(global)
	dstLocal := d.localLink[[2]string{gDst, dst.Name}]
	route.Append(LinkRef{Link: dstLocal.Link, Duplex: dstLocal.Duplex, Forward: !dstLocal.Forward})
	return route, nil
}

func (d *DragonflyStrategy) Seal() error { return nil }
