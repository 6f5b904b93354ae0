package series

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jpfielding/fiducials.go/pkg/dicom"
	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// Date represents a DICOM Date (DA VR)
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// IsZero checks if Date is uninitialized
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func NewDate(t time.Time) Date {
	return Date{
		Year:  t.Year(),
		Month: int(t.Month()),
		Day:   t.Day(),
	}
}

// ParseDate reads YYYYMMDD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t), nil
}

// Time represents a DICOM Time (TM VR)
type Time struct {
	Hour   int
	Minute int
	Second int
	Nano   int
}

func (t Time) String() string {
	// Format as HHMMSS.FFFFFF
	return fmt.Sprintf("%02d%02d%02d.%06d", t.Hour, t.Minute, t.Second, t.Nano/1000)
}

// IsZero checks if Time is uninitialized
func (t Time) IsZero() bool {
	return t.Hour == 0 && t.Minute == 0 && t.Second == 0 && t.Nano == 0
}

func NewTime(t time.Time) Time {
	return Time{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
		Nano:   t.Nanosecond(),
	}
}

// ParseTime reads HHMMSS with an optional fraction; HH and HHMM are accepted too
func ParseTime(s string) (Time, error) {
	var t Time
	frac := ""
	for i, c := range s {
		if c == '.' {
			s, frac = s[:i], s[i+1:]
			break
		}
	}
	fields := []*int{&t.Hour, &t.Minute, &t.Second}
	if len(s) == 0 || len(s)%2 != 0 || len(s) > 6 {
		return Time{}, fmt.Errorf("invalid time %q", s)
	}
	for i := 0; i < len(s); i += 2 {
		n, err := strconv.Atoi(s[i : i+2])
		if err != nil {
			return Time{}, fmt.Errorf("invalid time %q: %w", s, err)
		}
		*fields[i/2] = n
	}
	if frac != "" {
		for len(frac) < 9 {
			frac += "0"
		}
		n, err := strconv.Atoi(frac[:9])
		if err != nil {
			return Time{}, fmt.Errorf("invalid time fraction %q: %w", frac, err)
		}
		t.Nano = n
	}
	return t, nil
}

// GeneralSeries holds the General Series module attributes
type GeneralSeries struct {
	Modality          string
	SeriesInstanceUID string
	SeriesNumber      int
	SeriesDate        Date
	SeriesTime        Time
	SeriesDescription string
}

var (
	modality          = dicom.NewStringAttr(tag.Modality, vr.CS)
	seriesInstanceUID = dicom.NewStringAttr(tag.SeriesInstanceUID, vr.UI)
	seriesNumber      = dicom.NewFixedNumericAttr[int](tag.SeriesNumber, vr.IS, 1)
	seriesDate        = dicom.NewStringAttr(tag.SeriesDate, vr.DA)
	seriesTime        = dicom.NewStringAttr(tag.SeriesTime, vr.TM)
	seriesDescription = dicom.NewStringAttr(tag.SeriesDescription, vr.LO)
	sopClassUID       = dicom.NewStringAttr(tag.SOPClassUID, vr.UI)
	sopInstanceUID    = dicom.NewStringAttr(tag.SOPInstanceUID, vr.UI)
)

// Apply writes the module into ds. Zero fields are left untouched.
func (m *GeneralSeries) Apply(ds *dicom.DataSet) {
	if m.Modality != "" {
		modality.SetValue(ds, m.Modality)
	}
	if m.SeriesInstanceUID != "" {
		seriesInstanceUID.SetValue(ds, m.SeriesInstanceUID)
	}
	if m.SeriesNumber != 0 {
		seriesNumber.SetValue(ds, m.SeriesNumber)
	}
	if !m.SeriesDate.IsZero() {
		seriesDate.SetValue(ds, m.SeriesDate.String())
	}
	if !m.SeriesTime.IsZero() {
		seriesTime.SetValue(ds, m.SeriesTime.String())
	}
	if m.SeriesDescription != "" {
		seriesDescription.SetValue(ds, m.SeriesDescription)
	}
}

// readGeneralSeries collects the module from ds; malformed dates and times are left zero
func readGeneralSeries(ds *dicom.DataSet) GeneralSeries {
	var m GeneralSeries
	m.Modality, _ = modality.Value(ds)
	m.SeriesInstanceUID, _ = seriesInstanceUID.Value(ds)
	m.SeriesNumber, _ = seriesNumber.Value(ds)
	if s, ok := seriesDate.Value(ds); ok {
		m.SeriesDate, _ = ParseDate(s)
	}
	if s, ok := seriesTime.Value(ds); ok {
		m.SeriesTime, _ = ParseTime(s)
	}
	m.SeriesDescription, _ = seriesDescription.Value(ds)
	return m
}
