package netzone

import "fmt"

// ClusterStrategy models the common "cluster" shape: every host connects
// to one shared backbone link, and a route between two hosts is
// host→backbone→host, per spec §6 ("Cluster" zone variant).
type ClusterStrategy struct {
	backbone LinkRef
	hostLink map[string]LinkRef // host name -> its link onto the backbone
	hasBackbone bool
}

// NewClusterStrategy returns a cluster strategy using backbone as the
// shared uplink every host connects through.
func NewClusterStrategy(backbone LinkRef) *ClusterStrategy {
	return &ClusterStrategy{backbone: backbone, hasBackbone: true, hostLink: make(map[string]LinkRef)}
}

// AddHostLink registers the link connecting host to the backbone.
func (c *ClusterStrategy) AddHostLink(host *NetPoint, link LinkRef) {
	c.hostLink[host.Name] = link
}

func (c *ClusterStrategy) LocalRoute(src, dst *NetPoint) (*Route, error) {
	route := &Route{GwSrc: src, GwDst: dst}
	srcLink, ok := c.hostLink[src.Name]
	if !ok {
		return nil, fmt.Errorf("cluster routing: host %s not registered", src.Name)
	}
	dstLink, ok := c.hostLink[dst.Name]
	if !ok {
		return nil, fmt.Errorf("cluster routing: host %s not registered", dst.Name)
	}
	route.Append(srcLink)
	if c.hasBackbone {
		route.Append(c.backbone)
	}
	route.Append(LinkRef{Link: dstLink.Link, Duplex: dstLink.Duplex, Forward: !dstLink.Forward})
	return route, nil
}

func (c *ClusterStrategy) Seal() error { return nil }
