package netzone

// Strategy computes the route between two NetPoints that live directly in
// one zone (i.e. their englobing zone is exactly this one, or they are the
// gateway NetPoints representing a sub-zone boundary). Each routing model
// named in spec §6 implements this the way its variant name implies (spec
// §4.5: "Intra-zone routing is a property of the zone variant").
type Strategy interface {
	// LocalRoute returns the links directly connecting src and dst within
	// this zone's topology.
	LocalRoute(src, dst *NetPoint) (*Route, error)
	// Seal finalizes any precomputation (e.g. Floyd-Warshall's all-pairs
	// table) once the zone's hosts/routers/links are final.
	Seal() error
}
