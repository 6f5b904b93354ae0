package series

import (
	"slices"
	"strings"
)

// Kind classifies a series by what its SOP class stores. Kinds are bit flags so
// a set of kinds fits in one value.
type Kind uint8

const (
	Unknown   Kind = 0
	Image     Kind = 1 << 0
	Model     Kind = 1 << 1
	Report    Kind = 1 << 2
	Fiducials Kind = 1 << 3
)

var kindNames = []struct {
	kind Kind
	name string
}{
	{Image, "image"},
	{Model, "model"},
	{Report, "report"},
	{Fiducials, "fiducials"},
}

// SOP classes
const (
	SpatialFiducialsStorage = "1.2.840.10008.5.1.4.1.1.66.2"
	SegmentationStorage     = "1.2.840.10008.5.1.4.1.1.66.4"
	CTImageStorage          = "1.2.840.10008.5.1.4.1.1.2"
	EnhancedCTImageStorage  = "1.2.840.10008.5.1.4.1.1.2.1"
	MRImageStorage          = "1.2.840.10008.5.1.4.1.1.4"
	SecondaryCaptureStorage = "1.2.840.10008.5.1.4.1.1.7"
)

// sopClasses maps the storage SOP classes this package recognizes to their kind
var sopClasses = map[string]Kind{
	// carries mandatory segment or surface modules
	"1.2.840.10008.5.1.4.43.1":         Model,     // Generic Implant Template
	SegmentationStorage:                Model,
	"1.2.840.10008.5.1.4.1.1.66.5":     Model,     // Surface Segmentation
	"1.2.840.10008.5.1.4.1.1.68.1":     Model,     // Surface Scan Mesh
	"1.2.840.10008.5.1.4.1.1.68.2":     Model,     // Surface Scan Point Cloud
	SpatialFiducialsStorage:            Fiducials,
	"1.2.840.10008.5.1.4.1.1.1":        Image,     // CR
	"1.2.840.10008.5.1.4.1.1.1.1":      Image,     // DX presentation
	"1.2.840.10008.5.1.4.1.1.1.1.1":    Image,     // DX processing
	"1.2.840.10008.5.1.4.1.1.1.2":      Image,     // MG presentation
	"1.2.840.10008.5.1.4.1.1.1.2.1":    Image,     // MG processing
	"1.2.840.10008.5.1.4.1.1.1.3":      Image,     // IO presentation
	"1.2.840.10008.5.1.4.1.1.1.3.1":    Image,     // IO processing
	CTImageStorage:                     Image,
	EnhancedCTImageStorage:             Image,
	"1.2.840.10008.5.1.4.1.1.2.2":      Image,     // Legacy Converted Enhanced CT
	"1.2.840.10008.5.1.4.1.1.3.1":      Image,     // US multi-frame
	MRImageStorage:                     Image,
	"1.2.840.10008.5.1.4.1.1.4.1":      Image,     // Enhanced MR
	"1.2.840.10008.5.1.4.1.1.4.3":      Image,     // Enhanced MR Color
	"1.2.840.10008.5.1.4.1.1.4.4":      Image,     // Legacy Converted Enhanced MR
	"1.2.840.10008.5.1.4.1.1.6.1":      Image,     // US
	"1.2.840.10008.5.1.4.1.1.6.2":      Image,     // Enhanced US Volume
	"1.2.840.10008.5.1.4.1.1.6.3":      Image,     // Photoacoustic
	SecondaryCaptureStorage:            Image,
	"1.2.840.10008.5.1.4.1.1.7.1":      Image,     // multi-frame single bit SC
	"1.2.840.10008.5.1.4.1.1.7.2":      Image,     // multi-frame grayscale byte SC
	"1.2.840.10008.5.1.4.1.1.7.3":      Image,     // multi-frame grayscale word SC
	"1.2.840.10008.5.1.4.1.1.7.4":      Image,     // multi-frame true color SC
	"1.2.840.10008.5.1.4.1.1.12.1":     Image,     // XA
	"1.2.840.10008.5.1.4.1.1.12.1.1":   Image,     // Enhanced XA
	"1.2.840.10008.5.1.4.1.1.12.2":     Image,     // XRF
	"1.2.840.10008.5.1.4.1.1.12.2.1":   Image,     // Enhanced XRF
	"1.2.840.10008.5.1.4.1.1.13.1.1":   Image,     // X-Ray 3D Angiographic
	"1.2.840.10008.5.1.4.1.1.13.1.2":   Image,     // X-Ray 3D Craniofacial
	"1.2.840.10008.5.1.4.1.1.13.1.3":   Image,     // Breast Tomosynthesis
	"1.2.840.10008.5.1.4.1.1.13.1.4":   Image,     // Breast Projection presentation
	"1.2.840.10008.5.1.4.1.1.13.1.5":   Image,     // Breast Projection processing
	"1.2.840.10008.5.1.4.1.1.14.1":     Image,     // IVOCT presentation
	"1.2.840.10008.5.1.4.1.1.14.2":     Image,     // IVOCT processing
	"1.2.840.10008.5.1.4.1.1.20":       Image,     // NM
	"1.2.840.10008.5.1.4.1.1.30":       Image,     // Parametric Map
	"1.2.840.10008.5.1.4.1.1.77.1.1":   Image,     // VL Endoscopic
	"1.2.840.10008.5.1.4.1.1.77.1.1.1": Image,     // Video Endoscopic
	"1.2.840.10008.5.1.4.1.1.77.1.2":   Image,     // VL Microscopic
	"1.2.840.10008.5.1.4.1.1.77.1.2.1": Image,     // Video Microscopic
	"1.2.840.10008.5.1.4.1.1.77.1.3":   Image,     // VL Slide-Coordinates Microscopic
	"1.2.840.10008.5.1.4.1.1.77.1.4":   Image,     // VL Photographic
	"1.2.840.10008.5.1.4.1.1.77.1.4.1": Image,     // Video Photographic
	"1.2.840.10008.5.1.4.1.1.77.1.5.1": Image,     // Ophthalmic Photography 8 bit
	"1.2.840.10008.5.1.4.1.1.77.1.5.2": Image,     // Ophthalmic Photography 16 bit
	"1.2.840.10008.5.1.4.1.1.77.1.5.4": Image,     // Ophthalmic Tomography
	"1.2.840.10008.5.1.4.1.1.77.1.5.5": Image,     // Wide Field Ophthalmic Stereographic
	"1.2.840.10008.5.1.4.1.1.77.1.5.6": Image,     // Wide Field Ophthalmic 3D Coordinates
	"1.2.840.10008.5.1.4.1.1.77.1.5.7": Image,     // Ophthalmic OCT En Face
	"1.2.840.10008.5.1.4.1.1.77.1.5.8": Image,     // Ophthalmic OCT B-scan Volume Analysis
	"1.2.840.10008.5.1.4.1.1.77.1.6":   Image,     // VL Whole Slide Microscopy
	"1.2.840.10008.5.1.4.1.1.77.1.7":   Image,     // Dermoscopic Photography
	"1.2.840.10008.5.1.4.1.1.81.1":     Image,     // Ophthalmic Thickness Map
	"1.2.840.10008.5.1.4.1.1.82.1":     Image,     // Corneal Topography Map
	"1.2.840.10008.5.1.4.1.1.128":      Image,     // PET
	"1.2.840.10008.5.1.4.1.1.128.1":    Image,     // Legacy Converted Enhanced PET
	"1.2.840.10008.5.1.4.1.1.130":      Image,     // Enhanced PET
	"1.2.840.10008.5.1.4.1.1.481.1":    Image,     // RT Image
	"1.2.840.10008.5.1.4.1.1.481.2":    Image,     // RT Dose
}

// KindOf returns the kind of a SOP class UID, Unknown for classes outside the table
func KindOf(sopClassUID string) Kind {
	return sopClasses[strings.TrimSpace(sopClassUID)]
}

// SOPClasses lists the SOP class UIDs of every kind in k, sorted
func SOPClasses(k Kind) []string {
	var uids []string
	for uid, kind := range sopClasses {
		if k&kind != 0 {
			uids = append(uids, uid)
		}
	}
	slices.Sort(uids)
	return uids
}

// KindsOf folds the kinds of several SOP classes into one set
func KindsOf(sopClassUIDs ...string) Kind {
	var k Kind
	for _, uid := range sopClassUIDs {
		k |= KindOf(uid)
	}
	return k
}

// Has reports whether every kind of other is in k
func (k Kind) Has(other Kind) bool {
	return other != Unknown && k&other == other
}

// String names a single kind, or the kinds of a set joined by ", "
func (k Kind) String() string {
	if k == Unknown {
		return "unknown"
	}
	return KindString(k)
}

// KindString joins the names of the kinds in k with ", "
func KindString(k Kind) string {
	var names []string
	for _, kn := range kindNames {
		if k.Has(kn.kind) {
			names = append(names, kn.name)
		}
	}
	return strings.Join(names, ", ")
}

// ParseKind maps one name to its kind, Unknown when the name is not recognized
func ParseKind(name string) Kind {
	for _, kn := range kindNames {
		if kn.name == name {
			return kn.kind
		}
	}
	return Unknown
}

// ParseKinds reads a comma separated list such as "image, fiducials". Unknown
// names are ignored.
func ParseKinds(s string) Kind {
	var k Kind
	for _, part := range strings.Split(s, ",") {
		k |= ParseKind(strings.TrimSpace(part))
	}
	return k
}
