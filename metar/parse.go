package metar

import (
	"regexp"
	"strings"
)

// Group is a single classified token of a report.
type Group struct {
	Category Category
	Part     Part
	Raw      string
}

// Result is what a parser returns for one report. Groups parsed before an
// error are kept.
type Result struct {
	Error  ReportError
	Groups []Group
}

// OK reports whether the report parsed without a ReportError.
func (r Result) OK() bool { return r.Error == None }

// ParseFunc parses one report. Implementations must be free of side effects
// and must terminate.
type ParseFunc func(report string) Result

// MaxReportGroups is the largest number of groups Parse accepts in a single
// report before failing with ReportTooLarge.
const MaxReportGroups = 1000

var _ ParseFunc = Parse

type reportType int

const (
	typeUnknown reportType = iota
	typeMetar
	typeTaf
)

var (
	locationRe   = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)
	reportTimeRe = regexp.MustCompile(`^\d{6}Z$`)
	timeSpanRe   = regexp.MustCompile(`^\d{4}/\d{4}$`)
)

// Parse is a reference tokenizer for METAR and TAF reports. It recognises the
// report header (type, modifiers, location, report time and TAF validity),
// applies the NIL/CNL/AMD/maintenance rules, switches to the remark part at
// RMK and classifies every remaining token with a fixed rule table. Tokens no
// rule matches become UnknownGroup.
func Parse(report string) Result {
	tokens := strings.Fields(report)
	if n := len(tokens); n > 0 {
		// Trailing '=' marks the end of the report.
		if last := strings.TrimSuffix(tokens[n-1], "="); last == "" {
			tokens = tokens[:n-1]
		} else {
			tokens[n-1] = last
		}
	}
	if len(tokens) == 0 {
		return Result{Error: EmptyReport}
	}
	if len(tokens) > MaxReportGroups {
		return Result{Error: ReportTooLarge}
	}

	p := &parser{tokens: tokens, part: Header}
	err := p.run()
	return Result{Error: err, Groups: p.groups}
}

type parser struct {
	tokens []string
	pos    int
	rtype  reportType
	part   Part
	groups []Group
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() string { return p.tokens[p.pos] }

func (p *parser) take(c Category) {
	p.groups = append(p.groups, Group{Category: c, Part: p.part, Raw: p.tokens[p.pos]})
	p.pos++
}

func (p *parser) run() ReportError {
	if err := p.header(); err != None {
		return err
	}
	if p.done() {
		return None
	}
	if p.rtype == typeTaf {
		p.part = Taf
	} else {
		p.part = Metar
	}
	return p.body()
}

func (p *parser) header() ReportError {
	switch p.peek() {
	case "METAR", "SPECI":
		p.rtype = typeMetar
		p.take(KeywordGroup)
	case "TAF":
		p.rtype = typeTaf
		p.take(KeywordGroup)
	}

	for !p.done() && (p.peek() == "AMD" || p.peek() == "COR") {
		if p.peek() == "AMD" {
			if p.rtype == typeMetar {
				return AmdAllowedInTafOnly
			}
			p.rtype = typeTaf
		}
		p.take(KeywordGroup)
	}

	if p.done() {
		return UnexpectedReportEnd
	}
	if !locationRe.MatchString(p.peek()) {
		if p.rtype == typeUnknown {
			return ExpectedReportTypeOrLocation
		}
		return ExpectedLocation
	}
	p.take(LocationGroup)

	if p.done() {
		return UnexpectedReportEnd
	}
	if p.peek() == "NIL" {
		return None
	}
	if !reportTimeRe.MatchString(p.peek()) {
		return ExpectedReportTime
	}
	p.take(ReportTimeGroup)

	switch {
	case p.rtype == typeTaf:
		if p.done() {
			return UnexpectedReportEnd
		}
		if p.peek() == "NIL" {
			return None
		}
		if !timeSpanRe.MatchString(p.peek()) {
			return ExpectedTimeSpan
		}
		p.take(TrendGroup)
	case !p.done() && timeSpanRe.MatchString(p.peek()):
		p.rtype = typeTaf
		p.take(TrendGroup)
	default:
		p.rtype = typeMetar
	}
	return None
}

func (p *parser) body() ReportError {
	first := true
	for ; !p.done(); first = false {
		switch tok := p.peek(); tok {
		case "NIL":
			if !first {
				return UnexpectedNilOrCnlInReportBody
			}
			p.take(KeywordGroup)
			if !p.done() {
				return UnexpectedGroupAfterNil
			}
		case "CNL":
			if p.rtype != typeTaf {
				return CnlAllowedInTafOnly
			}
			if !first {
				return UnexpectedNilOrCnlInReportBody
			}
			p.take(KeywordGroup)
			if !p.done() {
				return UnexpectedGroupAfterCnl
			}
		case "$":
			if p.rtype == typeTaf {
				return MaintenanceIndicatorAllowedInMetarOnly
			}
			p.take(KeywordGroup)
		case "RMK":
			if p.part == Remark {
				p.take(UnknownGroup)
				continue
			}
			p.take(KeywordGroup)
			p.part = Remark
		default:
			p.take(classify(tok, p.part))
		}
	}
	return None
}

type partMask uint8

const (
	inMetar partMask = 1 << iota
	inTaf
	inRemark

	inBody = inMetar | inTaf
	inAny  = inBody | inRemark
)

func (m partMask) has(p Part) bool {
	switch p {
	case Metar:
		return m&inMetar != 0
	case Taf:
		return m&inTaf != 0
	case Remark:
		return m&inRemark != 0
	}
	return false
}

type rule struct {
	category Category
	where    partMask
	re       *regexp.Regexp
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{KeywordGroup, inBody, regexp.MustCompile(`^(AUTO|COR|AMD)$`)},
	{TrendGroup, inBody, regexp.MustCompile(`^(BECMG|TEMPO|INTER|NOSIG)$`)},
	{TrendGroup, inBody, regexp.MustCompile(`^(FM\d{6}|(TL|AT)\d{4}|PROB[34]0|\d{4}/\d{4})$`)},
	{WindGroup, inBody, regexp.MustCompile(`^(\d{3}|VRB|///)(\d{2,3}|//)(G\d{2,3})?(KT|MPS|KMH)$`)},
	{WindGroup, inBody, regexp.MustCompile(`^\d{3}V\d{3}$`)},
	{WindGroup, inAny, regexp.MustCompile(`^WS\d{3}/\d{5,6}(KT|MPS)$`)},
	{VisibilityGroup, inBody, regexp.MustCompile(`^(CAVOK|\d)$`)},
	{VisibilityGroup, inBody, regexp.MustCompile(`^(\d{4}|////)(NDV|N|S|E|W|NE|NW|SE|SW)?$`)},
	{VisibilityGroup, inAny, regexp.MustCompile(`^[PM]?(\d{1,2}|\d{1,2}/\d{1,2})SM$`)},
	{VisibilityGroup, inBody, regexp.MustCompile(`^R\d{2}[LCR]?/[PM]?\d{4}(V[PM]?\d{4})?(FT)?/?[UDN]?$`)},
	{CloudGroup, inAny, regexp.MustCompile(`^(FEW|SCT|BKN|OVC|///)(\d{3}|///)(CB|TCU|///)?$`)},
	{CloudGroup, inBody, regexp.MustCompile(`^(VV(\d{3}|///)|NSC|SKC|CLR|NCD)$`)},
	{WeatherGroup, inBody, regexp.MustCompile(`^(\+|-|VC|RE)?(MI|PR|BC|DR|BL|SH|TS|FZ)?(DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS)+$`)},
	{WeatherGroup, inBody, regexp.MustCompile(`^((VC|RE)?(TS|SH)|NSW|//)$`)},
	{TemperatureGroup, inBody, regexp.MustCompile(`^(M?\d{2}|//)/(M?\d{2}|//)?$`)},
	{TemperatureGroup, inRemark, regexp.MustCompile(`^T[01]\d{3}[01]\d{3}$`)},
	{PressureGroup, inBody, regexp.MustCompile(`^([QA](\d{4}|////)|QFE\d{3}(/\d{4})?)$`)},
	{PressureGroup, inRemark, regexp.MustCompile(`^SLP(\d{3}|NO)$`)},
	{RunwayStateGroup, inBody, regexp.MustCompile(`^(R\d{2}[LCR]?/([0-9/]{6}|CLRD\d{2}|SNOCLO)|R/SNOCLO|\d{8})$`)},
	{SeaSurfaceGroup, inBody, regexp.MustCompile(`^W(M?\d{2}|//)/(S[0-9/]|H\d{1,3})$`)},
	{MinMaxTemperatureGroup, inTaf, regexp.MustCompile(`^T[XN]M?\d{2}/\d{4}Z$`)},
	{MinMaxTemperatureGroup, inRemark, regexp.MustCompile(`^(4[01]\d{3}[01]\d{3}|[12][01]\d{3})$`)},
	{PrecipitationGroup, inRemark, regexp.MustCompile(`^(P(\d{4}|////)|[67](\d{4}|////)|4/\d{3}|933\d{3})$`)},
	{LayerForecastGroup, inTaf, regexp.MustCompile(`^[56]\d{5}$`)},
	{PressureTendencyGroup, inRemark, regexp.MustCompile(`^(5[0-8](\d{3}|///)|PRESFR|PRESRR)$`)},
	{CloudTypesGroup, inRemark, regexp.MustCompile(`^((CB|TCU|CU|CF|SC|SF|ST|NS|AS|AC|ACC|CI|CS|CC)\d)+$`)},
	{LowMidHighCloudGroup, inRemark, regexp.MustCompile(`^8/[0-9/]{3}$`)},
	{LightningGroup, inAny, regexp.MustCompile(`^(OCNL|FRQ|CONS)?LTG(IC|CC|CG|CA)*$`)},
	{VicinityGroup, inRemark, regexp.MustCompile(`^(DSNT|VCY|OHD|ALQDS)$`)},
	{MiscGroup, inRemark, regexp.MustCompile(`^(AO[12]A?|RVRNO|PWINO|TSNO|FZRANO|PNO|VISNO|CHINO|98\d{3})$`)},
}

func classify(tok string, part Part) Category {
	for _, r := range rules {
		if r.where.has(part) && r.re.MatchString(tok) {
			return r.category
		}
	}
	return UnknownGroup
}
