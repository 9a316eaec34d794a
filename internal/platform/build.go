package platform

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/simgrid/simgrid/internal/host"
	"github.com/simgrid/simgrid/internal/lmm"
	"github.com/simgrid/simgrid/internal/netzone"
	"github.com/simgrid/simgrid/internal/resource"
)

// Platform is the fully-resolved object graph produced by Load: the zone
// tree, and every host/link/router by name, ready for an Engine to run
// against (spec §6's platform description, resolved).
type Platform struct {
	Root        *netzone.NetZone
	Zones       map[string]*netzone.NetZone
	Hosts       map[string]*host.Host
	Links       map[string]*resource.Link
	DuplexLinks map[string]*resource.SplitDuplexLink
	Routers     map[string]*netzone.NetPoint

	hostAvailability map[string]*Profile
	hostState        map[string]*Profile
	linkBandwidth    map[string]*Profile
	linkLatency      map[string]*Profile
}

// HostAvailabilityProfile returns the parsed availability profile for a
// host, if it named one, for an Engine to schedule against its Clock.
func (p *Platform) HostAvailabilityProfile(name string) (*Profile, bool) {
	pr, ok := p.hostAvailability[name]
	return pr, ok
}

// HostStateProfile returns the parsed state (on/off) profile for a host.
func (p *Platform) HostStateProfile(name string) (*Profile, bool) {
	pr, ok := p.hostState[name]
	return pr, ok
}

// LinkBandwidthProfile returns the parsed bandwidth profile for a link.
func (p *Platform) LinkBandwidthProfile(name string) (*Profile, bool) {
	pr, ok := p.linkBandwidth[name]
	return pr, ok
}

// LinkLatencyProfile returns the parsed latency profile for a link.
func (p *Platform) LinkLatencyProfile(name string) (*Profile, bool) {
	pr, ok := p.linkLatency[name]
	return pr, ok
}

// builder carries the mutable state threaded through the recursive zone
// walk: the solver every resource constraint binds into, and the
// resolved-object registries being populated.
type builder struct {
	solver *lmm.Solver
	plat   *Platform
}

// Load parses and resolves the platform XML document at path, building
// the full netzone/host/resource graph bound against solver.
func Load(path string, solver *lmm.Solver) (*Platform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("platform: %w", err)
	}
	defer f.Close()
	return build(f, solver)
}

// Parse resolves a platform document already in memory (e.g. received
// over the wire, or held by a test), bound against solver.
func Parse(r io.Reader, solver *lmm.Solver) (*Platform, error) {
	return build(r, solver)
}

// build parses r (the caller owns its lifetime) and resolves the graph.
// Exported through Load; split out so tests can parse in-memory strings.
func build(r io.Reader, solver *lmm.Solver) (*Platform, error) {
	doc, err := parseXML(r)
	if err != nil {
		return nil, err
	}

	b := &builder{
		solver: solver,
		plat: &Platform{
			Zones:            make(map[string]*netzone.NetZone),
			Hosts:            make(map[string]*host.Host),
			Links:            make(map[string]*resource.Link),
			DuplexLinks:      make(map[string]*resource.SplitDuplexLink),
			Routers:          make(map[string]*netzone.NetPoint),
			hostAvailability: make(map[string]*Profile),
			hostState:        make(map[string]*Profile),
			linkBandwidth:    make(map[string]*Profile),
			linkLatency:      make(map[string]*Profile),
		},
	}

	root, err := b.buildZone(&doc.Zone, nil)
	if err != nil {
		return nil, err
	}
	b.plat.Root = root
	if err := root.Seal(); err != nil {
		return nil, fmt.Errorf("platform: %w", err)
	}
	return b.plat, nil
}

func loadProfile(path string) (*Profile, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("platform: %w", err)
	}
	defer f.Close()
	return ParseProfile(f)
}

// buildZone constructs one zone (and recursively its children), its
// hosts/routers/links, and its routing strategy, then wires its gateway
// within parent. Grounded on spec §4.5/§6's zone schema.
func (b *builder) buildZone(xz *xmlZone, parent *netzone.NetZone) (*netzone.NetZone, error) {
	strategy, err := b.newStrategy(xz)
	if err != nil {
		return nil, err
	}
	zone := netzone.New(xz.ID, strategy)
	b.plat.Zones[xz.ID] = zone
	if parent != nil {
		parent.AddChild(zone)
	}

	points := make(map[string]*netzone.NetPoint)

	for _, xh := range xz.Hosts {
		h, np, err := b.buildHost(zone, &xh)
		if err != nil {
			return nil, err
		}
		points[xh.ID] = np
		b.plat.Hosts[xh.ID] = h
	}
	for _, xr := range xz.Routers {
		np := zone.AddRouter(xr.ID)
		points[xr.ID] = np
		b.plat.Routers[xr.ID] = np
	}
	// A Wi-Fi zone's single <link> is the shared medium, already built and
	// registered by newStrategy; every other zone builds its <link>
	// elements as ordinary (or split-duplex) resources here.
	if _, isWifi := strategy.(*netzone.WifiStrategy); !isWifi {
		for _, xl := range xz.Links {
			if err := b.buildLink(zone, &xl); err != nil {
				return nil, err
			}
		}
	}

	for _, xc := range xz.Zones {
		child, err := b.buildZone(&xc, zone)
		if err != nil {
			return nil, err
		}
		points[xc.ID] = child.Gateway
	}

	if err := b.wireRouting(zone, xz, points); err != nil {
		return nil, err
	}

	for _, xr := range xz.Bypass {
		route, err := b.resolveRouteHops(zone, points, xr.LinkCtns)
		if err != nil {
			return nil, fmt.Errorf("platform: bypass route %s->%s: %w", xr.Src, xr.Dst, err)
		}
		// Bypass endpoints name any host or router in the platform, not
		// just ones local to this zone (spec §8 scenario 6: a bypass on
		// the common ancestor zone between hosts nested in different
		// children), so resolution falls back to the global registries.
		src := b.resolvePoint(points, xr.Src)
		dst := b.resolvePoint(points, xr.Dst)
		if src == nil || dst == nil {
			return nil, fmt.Errorf("platform: bypass route references unknown endpoint %s or %s", xr.Src, xr.Dst)
		}
		route.GwSrc, route.GwDst = src, dst
		zone.SetBypassRoute(src, dst, route)
		if isSymmetric(xr.Symmetrical) {
			zone.SetBypassRoute(dst, src, reverseRoute(route))
		}
	}

	// Gateway: the explicit access_point attribute names the NetPoint (host
	// or router already registered in this zone) other zones reach this
	// one through; fall back to the sole router, then the sole host.
	if xz.AccessPoint != "" {
		zone.Gateway = points[xz.AccessPoint]
	} else if len(xz.Routers) == 1 {
		zone.Gateway = points[xz.Routers[0].ID]
	} else if len(xz.Hosts) == 1 {
		zone.Gateway = points[xz.Hosts[0].ID]
	}

	return zone, nil
}

// resolvePoint resolves a name first against the zone-local points map
// (hosts/routers/child gateways declared directly in this zone), then
// falls back to the platform-wide host/router registries.
func (b *builder) resolvePoint(local map[string]*netzone.NetPoint, name string) *netzone.NetPoint {
	if np, ok := local[name]; ok {
		return np
	}
	if h, ok := b.plat.Hosts[name]; ok {
		return h.NetPoint
	}
	if np, ok := b.plat.Routers[name]; ok {
		return np
	}
	return nil
}

func isSymmetric(attr string) bool {
	return attr == "" || strings.EqualFold(attr, "yes") || attr == "1"
}

func reverseRoute(r *netzone.Route) *netzone.Route {
	out := &netzone.Route{GwSrc: r.GwDst, GwDst: r.GwSrc}
	rev := make([]netzone.LinkRef, len(r.Links))
	for i, hop := range r.Links {
		j := len(r.Links) - 1 - i
		h := hop
		if h.Duplex != nil {
			h.Forward = !h.Forward
		}
		rev[j] = h
	}
	out.AppendAll(rev)
	return out
}

// buildHost constructs the Cpu, binds its LMM constraint, attaches disks,
// and records any profile files, per spec §6's host attributes.
func (b *builder) buildHost(zone *netzone.NetZone, xh *xmlHost) (*host.Host, *netzone.NetPoint, error) {
	pstates, err := ParseSpeedList(xh.Speed)
	if err != nil {
		return nil, nil, fmt.Errorf("platform: host %s: %w", xh.ID, err)
	}
	if len(pstates) == 0 {
		return nil, nil, fmt.Errorf("platform: host %s: missing speed attribute", xh.ID)
	}
	cores := xh.Core
	if cores <= 0 {
		cores = 1
	}
	cpu := resource.NewCpu(xh.ID+"-cpu", pstates, cores)
	cpu.BindConstraint(b.solver.NewConstraint(cpu.Peak(), lmm.Shared))
	if xh.Pstate > 0 {
		cpu.SetPstate(xh.Pstate)
	}

	np := zone.AddHost(xh.ID)
	h := host.New(xh.ID, cpu, np)

	for _, xd := range xh.Disks {
		readBW, err := ParseBandwidth(xd.ReadBW)
		if err != nil {
			return nil, nil, fmt.Errorf("platform: disk %s: %w", xd.ID, err)
		}
		writeBW, err := ParseBandwidth(xd.WriteBW)
		if err != nil {
			return nil, nil, fmt.Errorf("platform: disk %s: %w", xd.ID, err)
		}
		d := resource.NewDisk(xd.ID, readBW, writeBW)
		d.BindDirectionalConstraints(
			b.solver.NewConstraint(readBW, lmm.Shared),
			b.solver.NewConstraint(writeBW, lmm.Shared),
		)
		h.CreateDisk(d)
	}

	if xh.AvailabilityFile != "" {
		pr, err := loadProfile(xh.AvailabilityFile)
		if err != nil {
			return nil, nil, err
		}
		b.plat.hostAvailability[xh.ID] = pr
	}
	if xh.StateFile != "" {
		pr, err := loadProfile(xh.StateFile)
		if err != nil {
			return nil, nil, err
		}
		b.plat.hostState[xh.ID] = pr
	}

	for _, prop := range xh.Props {
		if prop.ID == "wifi_rate" {
			// not applied: wireRouting's wifi case only registers the
			// host as a station, so no per-host wifi rate is set.
			_ = prop
		}
	}

	return h, np, nil
}

// buildLink constructs a Link or SplitDuplexLink (per sharing_policy) and
// binds its LMM constraint(s), per spec §6's link attributes.
func (b *builder) buildLink(zone *netzone.NetZone, xl *xmlLink) error {
	bw, err := ParseBandwidth(xl.Bandwidth)
	if err != nil {
		return fmt.Errorf("platform: link %s: %w", xl.ID, err)
	}
	lat, err := ParseDuration(xl.Latency)
	if err != nil {
		return fmt.Errorf("platform: link %s: %w", xl.ID, err)
	}

	policy := strings.ToUpper(xl.SharingPolicy)
	if policy == "SPLITDUPLEX" {
		sd := resource.NewSplitDuplexLink(xl.ID, bw, lat)
		sd.Up.BindConstraint(b.solver.NewConstraint(bw, lmm.Shared))
		sd.Down.BindConstraint(b.solver.NewConstraint(bw, lmm.Shared))
		zone.AddSplitDuplexLink(sd)
		b.plat.DuplexLinks[xl.ID] = sd
		return nil
	}

	l := resource.NewLink(xl.ID, bw, lat)
	switch policy {
	case "FATPIPE":
		l.Policy = lmm.FatPipe
	case "WIFI":
		l.IsWifi = true
	}
	l.BindConstraint(b.solver.NewConstraint(bw, l.Policy))
	zone.AddLink(l)
	b.plat.Links[xl.ID] = l

	if xl.BandwidthFile != "" {
		pr, err := loadProfile(xl.BandwidthFile)
		if err != nil {
			return err
		}
		b.plat.linkBandwidth[xl.ID] = pr
	}
	if xl.LatencyFile != "" {
		pr, err := loadProfile(xl.LatencyFile)
		if err != nil {
			return err
		}
		b.plat.linkLatency[xl.ID] = pr
	}
	return nil
}

// resolveRouteHops turns a `<route>`/`<zoneRoute>`/`<bypassRoute>`
// element's `<link_ctn>` children into a hop list, consulting both plain
// and split-duplex links registered in zone.
func (b *builder) resolveRouteHops(zone *netzone.NetZone, points map[string]*netzone.NetPoint, ctns []xmlLinkCtn) (*netzone.Route, error) {
	route := &netzone.Route{}
	for _, ctn := range ctns {
		if l := zone.Link(ctn.ID); l != nil {
			route.Append(netzone.LinkRef{Link: l})
			continue
		}
		if sd := zone.SplitDuplexLink(ctn.ID); sd != nil {
			route.Append(netzone.LinkRef{Duplex: sd, Forward: true})
			continue
		}
		return nil, fmt.Errorf("platform: route references unknown link %s", ctn.ID)
	}
	return route, nil
}

// wireRouting builds the zone's Strategy-specific edge/route registrations
// from its <route>/<zoneRoute> children, per the variant named in
// xz.Routing (spec §6's routing-strategy enumeration).
func (b *builder) wireRouting(zone *netzone.NetZone, xz *xmlZone, points map[string]*netzone.NetPoint) error {
	all := append(append([]xmlRoute{}, xz.Routes...), xz.ZoneRoutes...)

	switch strat := zone.Strategy.(type) {
	case *netzone.FullStrategy:
		for _, xr := range all {
			hops, err := b.resolveRouteHops(zone, points, xr.LinkCtns)
			if err != nil {
				return fmt.Errorf("platform: route %s->%s: %w", xr.Src, xr.Dst, err)
			}
			src, dst := points[xr.Src], points[xr.Dst]
			if src == nil || dst == nil {
				return fmt.Errorf("platform: route references unknown endpoint %s or %s", xr.Src, xr.Dst)
			}
			strat.AddRoute(src, dst, hops.Links, isSymmetric(xr.Symmetrical))
		}
	case *netzone.FloydStrategy:
		for _, xr := range all {
			if len(xr.LinkCtns) != 1 {
				return fmt.Errorf("platform: floyd zone %s: route %s->%s must name exactly one link", zone.Name, xr.Src, xr.Dst)
			}
			hops, err := b.resolveRouteHops(zone, points, xr.LinkCtns)
			if err != nil {
				return err
			}
			src, dst := points[xr.Src], points[xr.Dst]
			if src == nil || dst == nil {
				return fmt.Errorf("platform: route references unknown endpoint %s or %s", xr.Src, xr.Dst)
			}
			strat.AddLink(src, dst, hops.Links[0], isSymmetric(xr.Symmetrical))
		}
	case *netzone.StarStrategy:
		for _, xr := range all {
			hops, err := b.resolveRouteHops(zone, points, xr.LinkCtns)
			if err != nil {
				return err
			}
			leaf := points[xr.Src]
			if leaf == nil {
				return fmt.Errorf("platform: star zone %s: unknown leaf %s", zone.Name, xr.Src)
			}
			strat.AddLeaf(leaf, hops.Links, isSymmetric(xr.Symmetrical))
		}
	case *netzone.ClusterStrategy:
		for _, xr := range all {
			hops, err := b.resolveRouteHops(zone, points, xr.LinkCtns)
			if err != nil {
				return err
			}
			if len(hops.Links) != 1 {
				return fmt.Errorf("platform: cluster zone %s: host link %s must be a single hop", zone.Name, xr.Src)
			}
			leafHost := points[xr.Src]
			if leafHost == nil {
				return fmt.Errorf("platform: cluster zone %s: unknown host %s", zone.Name, xr.Src)
			}
			strat.AddHostLink(leafHost, hops.Links[0])
		}
	case *netzone.WifiStrategy:
		for _, xh := range xz.Hosts {
			if np := points[xh.ID]; np != nil {
				strat.AddStation(np)
			}
		}
	case *netzone.VivaldiStrategy:
		for _, xh := range xz.Hosts {
			x, y, height, ok := vivaldiCoord(xh.Props)
			if ok {
				strat.AddNode(points[xh.ID], x, y, height)
			}
		}
	case *netzone.DragonflyStrategy, *netzone.TorusStrategy, *netzone.FatTreeStrategy:
		// These topology generators need a structured per-node layout
		// (group/coordinate/uplink-chain) that the generic <route> element
		// can't express; platforms using them must call the netzone
		// package's constructors directly rather than going through this
		// XML loader (noted in DESIGN.md as a simplification).
	}
	return nil
}

func vivaldiCoord(props []xmlProp) (x, y, height float64, ok bool) {
	for _, p := range props {
		if p.ID == "coordinates" {
			parts := strings.Split(p.Value, ",")
			if len(parts) != 3 {
				return 0, 0, 0, false
			}
			var vals [3]float64
			for i, s := range parts {
				var v float64
				if _, err := fmt.Sscanf(strings.TrimSpace(s), "%g", &v); err != nil {
					return 0, 0, 0, false
				}
				vals[i] = v
			}
			return vals[0], vals[1], vals[2], true
		}
	}
	return 0, 0, 0, false
}

// newStrategy constructs the routing strategy named by xz.Routing, per
// spec §6's enumeration {Full, Floyd, Dijkstra, Star, Cluster, Fat-tree,
// Dragonfly, Torus, Vivaldi, Wi-Fi}. Dijkstra shares Floyd's all-pairs
// table (a single-source shortest path table is a strict subset of it).
func (b *builder) newStrategy(xz *xmlZone) (netzone.Strategy, error) {
	switch strings.ToLower(xz.Routing) {
	case "", "full":
		return netzone.NewFullStrategy(), nil
	case "floyd", "dijkstra":
		return netzone.NewFloydStrategy(), nil
	case "star":
		// The center NetPoint must already exist among this zone's hosts
		// or routers; resolved lazily once they're registered, so Star
		// zones bind their center via the access_point attribute.
		if xz.AccessPoint == "" {
			return nil, fmt.Errorf("platform: star zone %s requires access_point", xz.ID)
		}
		return netzone.NewStarStrategy(&netzone.NetPoint{Name: xz.AccessPoint, ID: uuid.New()}), nil
	case "cluster":
		bw, err := ParseBandwidth(xz.BB_BW)
		if err != nil {
			return nil, fmt.Errorf("platform: cluster zone %s: %w", xz.ID, err)
		}
		lat, err := ParseDuration(xz.BB_Lat)
		if err != nil {
			return nil, fmt.Errorf("platform: cluster zone %s: %w", xz.ID, err)
		}
		backbone := resource.NewLink(xz.ID+"_backbone", bw, lat)
		backbone.BindConstraint(b.solver.NewConstraint(bw, lmm.Shared))
		return netzone.NewClusterStrategy(netzone.LinkRef{Link: backbone}), nil
	case "fat-tree", "fattree":
		return netzone.NewFatTreeStrategy(), nil
	case "dragonfly":
		return netzone.NewDragonflyStrategy(), nil
	case "torus":
		return netzone.NewTorusStrategy(nil), nil
	case "vivaldi":
		return netzone.NewVivaldiStrategy(), nil
	case "wifi", "wi-fi":
		if len(xz.Links) == 0 {
			return nil, fmt.Errorf("platform: wifi zone %s requires one <link> as its medium", xz.ID)
		}
		bw, err := ParseBandwidth(xz.Links[0].Bandwidth)
		if err != nil {
			return nil, err
		}
		lat, err := ParseDuration(xz.Links[0].Latency)
		if err != nil {
			return nil, err
		}
		medium := resource.NewLink(xz.Links[0].ID, bw, lat)
		medium.IsWifi = true
		medium.BindConstraint(b.solver.NewConstraint(bw, lmm.Shared))
		if xz.AccessPoint == "" {
			return nil, fmt.Errorf("platform: wifi zone %s requires access_point", xz.ID)
		}
		return netzone.NewWifiStrategy(medium, &netzone.NetPoint{Name: xz.AccessPoint, ID: uuid.New()}), nil
	default:
		return nil, fmt.Errorf("platform: zone %s: unknown routing strategy %q", xz.ID, xz.Routing)
	}
}
