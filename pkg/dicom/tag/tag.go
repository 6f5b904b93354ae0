// Package tag defines the DICOM tags addressed by fiducial and multi-frame series
package tag

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// Equals compares two tags
func (t Tag) Equals(other Tag) bool {
	return t.Group == other.Group && t.Element == other.Element
}

// Less orders tags by group then element, the order elements are stored and encoded in
func (t Tag) Less(other Tag) bool {
	if t.Group != other.Group {
		return t.Group < other.Group
	}
	return t.Element < other.Element
}

// IsPrivate returns true if this is a private tag (odd group number)
func (t Tag) IsPrivate() bool {
	return t.Group%2 == 1
}

// IsGroup0002 returns true if this tag is in the File Meta Information group
func (t Tag) IsGroup0002() bool {
	return t.Group == 0x0002
}

// IsDelimiter returns true for the item and sequence delimitation tags of group FFFE
func (t Tag) IsDelimiter() bool {
	return t.Group == 0xFFFE
}

// Item and delimitation tags (Group FFFE, no VR)
var (
	Item                 = Tag{0xFFFE, 0xE000}
	ItemDelimitation     = Tag{0xFFFE, 0xE00D}
	SequenceDelimitation = Tag{0xFFFE, 0xE0DD}
)

// UndefinedLength marks sequences and items terminated by a delimitation tag
const UndefinedLength uint32 = 0xFFFFFFFF

// File Meta Information (Group 0002)
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	FileMetaInformationVersion     = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
	ImplementationVersionName      = Tag{0x0002, 0x0013}
)

// SOP Common Module
var (
	SpecificCharacterSet = Tag{0x0008, 0x0005} // CS
	InstanceCreationDate = Tag{0x0008, 0x0012} // DA
	InstanceCreationTime = Tag{0x0008, 0x0013} // TM
	SOPClassUID          = Tag{0x0008, 0x0016} // UI
	SOPInstanceUID       = Tag{0x0008, 0x0018} // UI
)

// Patient and Study Modules
var (
	PatientName      = Tag{0x0010, 0x0010}
	PatientID        = Tag{0x0010, 0x0020}
	StudyDate        = Tag{0x0008, 0x0020}
	StudyTime        = Tag{0x0008, 0x0030}
	StudyDescription = Tag{0x0008, 0x1030}
	StudyInstanceUID = Tag{0x0020, 0x000D}
	StudyID          = Tag{0x0020, 0x0010}
)

// General Series Module
var (
	SeriesDate        = Tag{0x0008, 0x0021} // DA
	SeriesTime        = Tag{0x0008, 0x0031} // TM
	Modality          = Tag{0x0008, 0x0060} // CS
	SeriesDescription = Tag{0x0008, 0x103E} // LO
	SeriesInstanceUID = Tag{0x0020, 0x000E} // UI
	SeriesNumber      = Tag{0x0020, 0x0011} // IS
	InstanceNumber    = Tag{0x0020, 0x0013} // IS
)

// Frame of Reference Module
var (
	FrameOfReferenceUID        = Tag{0x0020, 0x0052} // UI
	PositionReferenceIndicator = Tag{0x0020, 0x1040} // LO
)

// Content Identification Module
var (
	ContentDate        = Tag{0x0008, 0x0023} // DA
	ContentTime        = Tag{0x0008, 0x0033} // TM
	ContentLabel       = Tag{0x0070, 0x0080} // CS
	ContentDescription = Tag{0x0070, 0x0081} // LO
	ContentCreatorName = Tag{0x0070, 0x0084} // PN
)

// Multi-frame Functional Groups Module
var (
	NumberOfFrames                   = Tag{0x0028, 0x0008} // IS
	SharedFunctionalGroupsSequence   = Tag{0x5200, 0x9229} // SQ
	PerFrameFunctionalGroupsSequence = Tag{0x5200, 0x9230} // SQ
	PlanePositionSequence            = Tag{0x0020, 0x9113} // SQ
	ImagePositionPatient             = Tag{0x0020, 0x0032} // DS - x\y\z
	PlaneOrientationSequence         = Tag{0x0020, 0x9116} // SQ
	ImageOrientationPatient          = Tag{0x0020, 0x0037} // DS - 6 direction cosines
	PixelMeasuresSequence            = Tag{0x0028, 0x9110} // SQ
	PixelSpacing                     = Tag{0x0028, 0x0030} // DS - row\column
	SliceThickness                   = Tag{0x0018, 0x0050} // DS
	FrameContentSequence             = Tag{0x0020, 0x9111} // SQ
	FrameAcquisitionNumber           = Tag{0x0020, 0x9156} // US
	FrameAcquisitionDateTime         = Tag{0x0018, 0x9074} // DT
)

// Image Pixel Module (Group 0028)
var (
	Rows          = Tag{0x0028, 0x0010} // US
	Columns       = Tag{0x0028, 0x0011} // US
	BitsAllocated = Tag{0x0028, 0x0100} // US
	PixelData     = Tag{0x7FE0, 0x0010} // OB/OW
)

// Referenced Image Sequence
var (
	ReferencedImageSequence  = Tag{0x0008, 0x1140} // SQ
	ReferencedSOPClassUID    = Tag{0x0008, 0x1150} // UI
	ReferencedSOPInstanceUID = Tag{0x0008, 0x1155} // UI
	ReferencedFrameNumber    = Tag{0x0008, 0x1160} // IS - 1-n
	ReferencedSegmentNumber  = Tag{0x0062, 0x000B} // US - 1-n
)

// Spatial Fiducials Module
var (
	FiducialSetSequence            = Tag{0x0070, 0x031C} // SQ
	FiducialSequence               = Tag{0x0070, 0x031E} // SQ
	ShapeType                      = Tag{0x0070, 0x0306} // CS - POINT, LINE, PLANE ...
	FiducialDescription            = Tag{0x0070, 0x030F} // ST
	FiducialIdentifier             = Tag{0x0070, 0x0310} // LO
	GraphicCoordinatesDataSequence = Tag{0x0070, 0x0318} // SQ
	FiducialUID                    = Tag{0x0070, 0x031A} // UI
	GraphicData                    = Tag{0x0070, 0x0022} // FL - column\row pairs
	NumberOfContourPoints          = Tag{0x3006, 0x0046} // IS
	ContourData                    = Tag{0x3006, 0x0050} // DS - x\y\z triplets
)

// Private block reserved by the application (Group 0099).
// The creator element reserves elements 0x9900-0x99FF of the group.
var (
	PrivateGroup   = uint16(0x0099)
	PrivateCreator = Tag{0x0099, 0x0099} // LO - holds PrivateCreatorName
	PrivateBase    = uint16(0x9900)
)

// PrivateCreatorName is the value of the PrivateCreator element
const PrivateCreatorName = "Sight"

// Private returns the tag of a slot (0x10-0xFF) inside the private block.
// Slot s is element 0x99ss, so slots 0x10-0x14 of a fiducial set are
// elements 0x9910-0x9914.
func Private(slot uint8) Tag {
	return Tag{PrivateGroup, PrivateBase | uint16(slot)}
}
