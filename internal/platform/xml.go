// Package platform parses the XML platform description and the
// line-oriented profile file format (spec §6), and builds the
// netzone/resource/host object graph an Engine runs against. Kept on
// stdlib encoding/xml: no third-party XML library appears anywhere in the
// retrieved pack, so there's no ecosystem precedent to follow here (noted
// in DESIGN.md).
package platform

import (
	"encoding/xml"
	"fmt"
	"io"
)

// xmlProp is a platform XML `<prop id="..." value="..."/>` element.
type xmlProp struct {
	ID    string `xml:"id,attr"`
	Value string `xml:"value,attr"`
}

// xmlHost is the `<host>` element: speed (per-pstate, comma-separated),
// core count, starting pstate, and optional profile file paths.
type xmlHost struct {
	ID               string    `xml:"id,attr"`
	Speed            string    `xml:"speed,attr"`
	Core             int       `xml:"core,attr"`
	Pstate           int       `xml:"pstate,attr"`
	AvailabilityFile string    `xml:"availability_file,attr"`
	StateFile        string    `xml:"state_file,attr"`
	Props            []xmlProp `xml:"prop"`
	Disks            []xmlDisk `xml:"disk"`
}

type xmlDisk struct {
	ID      string `xml:"id,attr"`
	ReadBW  string `xml:"read_bw,attr"`
	WriteBW string `xml:"write_bw,attr"`
}

type xmlRouter struct {
	ID string `xml:"id,attr"`
}

// xmlLink is the `<link>` element. SharingPolicy selects among
// SHARED/FATPIPE/SPLITDUPLEX/WIFI per spec §6.
type xmlLink struct {
	ID              string `xml:"id,attr"`
	Bandwidth       string `xml:"bandwidth,attr"`
	Latency         string `xml:"latency,attr"`
	SharingPolicy   string `xml:"sharing_policy,attr"`
	BandwidthFile   string `xml:"bandwidth_file,attr"`
	LatencyFile     string `xml:"latency_file,attr"`
}

type xmlLinkCtn struct {
	ID string `xml:"id,attr"`
}

// xmlRoute is a `<route>` (intra-zone, possibly symmetric) or `<zoneRoute>`
// (inter-zone, carrying gw_src/gw_dst) element.
type xmlRoute struct {
	Src        string       `xml:"src,attr"`
	Dst        string       `xml:"dst,attr"`
	GwSrc      string       `xml:"gw_src,attr"`
	GwDst      string       `xml:"gw_dst,attr"`
	Symmetrical string      `xml:"symmetrical,attr"`
	LinkCtns   []xmlLinkCtn `xml:"link_ctn"`
}

// xmlZone is a `<zone>` element: a routing strategy, nested hosts/routers/
// links/routes, possibly nested sub-zones, and bypass routes.
type xmlZone struct {
	ID       string     `xml:"id,attr"`
	Routing  string     `xml:"routing,attr"`
	Hosts    []xmlHost  `xml:"host"`
	Routers  []xmlRouter `xml:"router"`
	Links    []xmlLink  `xml:"link"`
	Routes   []xmlRoute `xml:"route"`
	ZoneRoutes []xmlRoute `xml:"zoneRoute"`
	Bypass   []xmlRoute `xml:"bypassRoute"`
	Zones    []xmlZone  `xml:"zone"`

	// Cluster/FatTree/Dragonfly/Torus/Vivaldi/Wifi-specific attributes,
	// only meaningful when Routing names the matching strategy.
	Prefix       string `xml:"prefix,attr"`
	Suffix       string `xml:"suffix,attr"`
	Radical      string `xml:"radical,attr"`
	BB_BW        string `xml:"bb_bw,attr"`
	BB_Lat       string `xml:"bb_lat,attr"`
	Topology     string `xml:"topology,attr"` // fat_tree/dragonfly/torus level spec
	TopoParams   string `xml:"topo_parameters,attr"`
	AccessPoint  string `xml:"access_point,attr"` // wifi AP host id
}

// xmlPlatform is the document root.
type xmlPlatform struct {
	XMLName xml.Name `xml:"platform"`
	Version string   `xml:"version,attr"`
	Zone    xmlZone  `xml:"zone"`
}

// parseXML decodes the platform XML document from r into its in-memory AST,
// without resolving names into objects. ParseError-kind failures (spec
// §7) are reported here.
func parseXML(r io.Reader) (*xmlPlatform, error) {
	var doc xmlPlatform
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("platform: parse error: %w", err)
	}
	if doc.Zone.ID == "" {
		return nil, fmt.Errorf("platform: parse error: document has no root <zone>")
	}
	return &doc, nil
}
