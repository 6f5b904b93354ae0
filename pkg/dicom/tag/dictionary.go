package tag

import "github.com/jpfielding/fiducials.go/pkg/dicom/vr"

// Entry describes a known tag
type Entry struct {
	Keyword string
	VR      vr.VR
}

var dictionary = map[Tag]Entry{
	FileMetaInformationGroupLength: {"FileMetaInformationGroupLength", vr.UL},
	FileMetaInformationVersion:     {"FileMetaInformationVersion", vr.OB},
	MediaStorageSOPClassUID:        {"MediaStorageSOPClassUID", vr.UI},
	MediaStorageSOPInstanceUID:     {"MediaStorageSOPInstanceUID", vr.UI},
	TransferSyntaxUID:              {"TransferSyntaxUID", vr.UI},
	ImplementationClassUID:         {"ImplementationClassUID", vr.UI},
	ImplementationVersionName:      {"ImplementationVersionName", vr.SH},

	SpecificCharacterSet: {"SpecificCharacterSet", vr.CS},
	InstanceCreationDate: {"InstanceCreationDate", vr.DA},
	InstanceCreationTime: {"InstanceCreationTime", vr.TM},
	SOPClassUID:          {"SOPClassUID", vr.UI},
	SOPInstanceUID:       {"SOPInstanceUID", vr.UI},

	PatientName:      {"PatientName", vr.PN},
	PatientID:        {"PatientID", vr.LO},
	StudyDate:        {"StudyDate", vr.DA},
	StudyTime:        {"StudyTime", vr.TM},
	StudyDescription: {"StudyDescription", vr.LO},
	StudyInstanceUID: {"StudyInstanceUID", vr.UI},
	StudyID:          {"StudyID", vr.SH},

	SeriesDate:        {"SeriesDate", vr.DA},
	SeriesTime:        {"SeriesTime", vr.TM},
	Modality:          {"Modality", vr.CS},
	SeriesDescription: {"SeriesDescription", vr.LO},
	SeriesInstanceUID: {"SeriesInstanceUID", vr.UI},
	SeriesNumber:      {"SeriesNumber", vr.IS},
	InstanceNumber:    {"InstanceNumber", vr.IS},

	FrameOfReferenceUID:        {"FrameOfReferenceUID", vr.UI},
	PositionReferenceIndicator: {"PositionReferenceIndicator", vr.LO},

	ContentDate:        {"ContentDate", vr.DA},
	ContentTime:        {"ContentTime", vr.TM},
	ContentLabel:       {"ContentLabel", vr.CS},
	ContentDescription: {"ContentDescription", vr.LO},
	ContentCreatorName: {"ContentCreatorName", vr.PN},

	NumberOfFrames:                   {"NumberOfFrames", vr.IS},
	SharedFunctionalGroupsSequence:   {"SharedFunctionalGroupsSequence", vr.SQ},
	PerFrameFunctionalGroupsSequence: {"PerFrameFunctionalGroupsSequence", vr.SQ},
	PlanePositionSequence:            {"PlanePositionSequence", vr.SQ},
	ImagePositionPatient:             {"ImagePositionPatient", vr.DS},
	PlaneOrientationSequence:         {"PlaneOrientationSequence", vr.SQ},
	ImageOrientationPatient:          {"ImageOrientationPatient", vr.DS},
	PixelMeasuresSequence:            {"PixelMeasuresSequence", vr.SQ},
	PixelSpacing:                     {"PixelSpacing", vr.DS},
	SliceThickness:                   {"SliceThickness", vr.DS},
	FrameContentSequence:             {"FrameContentSequence", vr.SQ},
	FrameAcquisitionNumber:           {"FrameAcquisitionNumber", vr.US},
	FrameAcquisitionDateTime:         {"FrameAcquisitionDateTime", vr.DT},

	Rows:          {"Rows", vr.US},
	Columns:       {"Columns", vr.US},
	BitsAllocated: {"BitsAllocated", vr.US},
	PixelData:     {"PixelData", vr.OW},

	ReferencedImageSequence:  {"ReferencedImageSequence", vr.SQ},
	ReferencedSOPClassUID:    {"ReferencedSOPClassUID", vr.UI},
	ReferencedSOPInstanceUID: {"ReferencedSOPInstanceUID", vr.UI},
	ReferencedFrameNumber:    {"ReferencedFrameNumber", vr.IS},
	ReferencedSegmentNumber:  {"ReferencedSegmentNumber", vr.US},

	FiducialSetSequence:            {"FiducialSetSequence", vr.SQ},
	FiducialSequence:               {"FiducialSequence", vr.SQ},
	ShapeType:                      {"ShapeType", vr.CS},
	FiducialDescription:            {"FiducialDescription", vr.ST},
	FiducialIdentifier:             {"FiducialIdentifier", vr.LO},
	GraphicCoordinatesDataSequence: {"GraphicCoordinatesDataSequence", vr.SQ},
	FiducialUID:                    {"FiducialUID", vr.UI},
	GraphicData:                    {"GraphicData", vr.FL},
	NumberOfContourPoints:          {"NumberOfContourPoints", vr.IS},
	ContourData:                    {"ContourData", vr.DS},

	PrivateCreator: {"PrivateCreator", vr.LO},
}

// Lookup returns the dictionary entry for t. Elements of the application
// private block resolve to UT.
func Lookup(t Tag) (Entry, bool) {
	if e, ok := dictionary[t]; ok {
		return e, true
	}
	if t.Group == PrivateGroup && t.Element&0xFF00 == PrivateBase && t.Element&0x00FF >= 0x10 {
		return Entry{Keyword: "", VR: vr.UT}, true
	}
	return Entry{}, false
}

// VRFor returns the dictionary VR of t, falling back to UN for unknown tags and
// UL for group lengths
func VRFor(t Tag) vr.VR {
	if e, ok := Lookup(t); ok {
		return e.VR
	}
	if t.Element == 0x0000 {
		return vr.UL
	}
	return vr.UN
}

// LookupName returns a human-readable name for known tags
func (t Tag) LookupName() string {
	if e, ok := dictionary[t]; ok {
		return e.Keyword
	}
	return ""
}
