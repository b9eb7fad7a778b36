package metar

// Category is the kind of group a token was classified as.
type Category int

// The Category values. The order is the dense index order used to key
// archives and must match categoryNames.
const (
	KeywordGroup Category = iota
	LocationGroup
	ReportTimeGroup
	TrendGroup
	WindGroup
	VisibilityGroup
	CloudGroup
	WeatherGroup
	TemperatureGroup
	PressureGroup
	RunwayStateGroup
	SeaSurfaceGroup
	MinMaxTemperatureGroup
	PrecipitationGroup
	LayerForecastGroup
	PressureTendencyGroup
	CloudTypesGroup
	LowMidHighCloudGroup
	LightningGroup
	VicinityGroup
	MiscGroup
	UnknownGroup
)

// NumCategories is the number of Category values.
const NumCategories = int(UnknownGroup) + 1

var categoryNames = [NumCategories]string{
	"KeywordGroup",
	"LocationGroup",
	"ReportTimeGroup",
	"TrendGroup",
	"WindGroup",
	"VisibilityGroup",
	"CloudGroup",
	"WeatherGroup",
	"TemperatureGroup",
	"PressureGroup",
	"RunwayStateGroup",
	"SeaSurfaceGroup",
	"MinMaxTemperatureGroup",
	"PrecipitationGroup",
	"LayerForecastGroup",
	"PressureTendencyGroup",
	"CloudTypesGroup",
	"LowMidHighCloudGroup",
	"LightningGroup",
	"VicinityGroup",
	"MiscGroup",
	"UnknownGroup",
}

var categoryByName = indexNames(categoryNames[:])

// Categories returns every Category in index order.
func Categories() []Category {
	all := make([]Category, NumCategories)
	for i := range all {
		all[i] = Category(i)
	}
	return all
}

// String returns the stable name of the category, or "UNDEFINED" for values
// outside the closed set.
func (c Category) String() string {
	if !c.Valid() {
		return "UNDEFINED"
	}
	return categoryNames[c]
}

// Index returns the dense index of the category.
func (c Category) Index() int { return int(c) }

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool { return c >= 0 && int(c) < NumCategories }

// CategoryFromName is the inverse of Category.String.
func CategoryFromName(name string) (Category, bool) {
	i, ok := categoryByName[name]
	return Category(i), ok
}

// CategoryFromIndex is the inverse of Category.Index.
func CategoryFromIndex(i int) (Category, bool) {
	c := Category(i)
	return c, c.Valid()
}

// Part is the section of a report a group was parsed from.
type Part int

// The Part values, in dense index order.
const (
	UnknownPart Part = iota
	Header
	Metar
	Taf
	Remark
)

// NumParts is the number of Part values.
const NumParts = int(Remark) + 1

var partNames = [NumParts]string{"unknown", "header", "metar", "taf", "remark"}

var partByName = indexNames(partNames[:])

// Parts returns every Part in index order.
func Parts() []Part {
	all := make([]Part, NumParts)
	for i := range all {
		all[i] = Part(i)
	}
	return all
}

// String returns the stable lowercase name of the part.
func (p Part) String() string {
	if !p.Valid() {
		return "UNDEFINED"
	}
	return partNames[p]
}

// Index returns the dense index of the part.
func (p Part) Index() int { return int(p) }

// Valid reports whether p belongs to the closed set.
func (p Part) Valid() bool { return p >= 0 && int(p) < NumParts }

// PartFromName is the inverse of Part.String.
func PartFromName(name string) (Part, bool) {
	i, ok := partByName[name]
	return Part(i), ok
}

// PartFromIndex is the inverse of Part.Index.
func PartFromIndex(i int) (Part, bool) {
	p := Part(i)
	return p, p.Valid()
}

// ReportError is the reason a whole report failed to parse cleanly. None is
// the "no error" sentinel.
type ReportError int

// The ReportError values.
const (
	None ReportError = iota
	EmptyReport
	ExpectedReportTypeOrLocation
	ExpectedLocation
	ExpectedReportTime
	ExpectedTimeSpan
	UnexpectedReportEnd
	UnexpectedGroupAfterNil
	UnexpectedGroupAfterCnl
	UnexpectedNilOrCnlInReportBody
	AmdAllowedInTafOnly
	CnlAllowedInTafOnly
	MaintenanceIndicatorAllowedInMetarOnly
	ReportTooLarge
)

// NumReportErrors is the number of ReportError values, None included.
const NumReportErrors = int(ReportTooLarge) + 1

var reportErrorNames = [NumReportErrors]string{
	"no error",
	"empty report",
	"expected report type or location",
	"expected location",
	"expected report time",
	"expected time span",
	"unexpected report end",
	"unexpected group after NIL",
	"unexpected group after CNL",
	"unexpected NIL or CNL in report body",
	"unexpected AMD in non TAF report",
	"unexpected CNL in non TAF report",
	"unexpected maintenance indicator in TAF report",
	"report too large",
}

var reportErrorByName = indexNames(reportErrorNames[:])

// ReportErrors returns every ReportError in index order, None first.
func ReportErrors() []ReportError {
	all := make([]ReportError, NumReportErrors)
	for i := range all {
		all[i] = ReportError(i)
	}
	return all
}

// String returns the human readable name of the error.
func (e ReportError) String() string {
	if !e.Valid() {
		return "unknown error"
	}
	return reportErrorNames[e]
}

// Index returns the dense index of the error.
func (e ReportError) Index() int { return int(e) }

// Valid reports whether e belongs to the closed set.
func (e ReportError) Valid() bool { return e >= 0 && int(e) < NumReportErrors }

// ReportErrorFromName is the inverse of ReportError.String.
func ReportErrorFromName(name string) (ReportError, bool) {
	i, ok := reportErrorByName[name]
	return ReportError(i), ok
}

// ReportErrorFromIndex is the inverse of ReportError.Index.
func ReportErrorFromIndex(i int) (ReportError, bool) {
	e := ReportError(i)
	return e, e.Valid()
}

func indexNames(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}
