// Package ast holds the parsed representation of a .greq file: Header,
// Content, Footer, and the Test that groups them, per the data model.
package ast

// AllowedMethods is the closed set of HTTP methods a request line may name.
var AllowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

// Header is the typed, ordered view of a parsed header section. Raw string
// values are stored for paths (extends, depends-on); the header parser does
// not resolve them (§4.2).
type Header struct {
	Project                 string
	IsHTTP                  bool
	Delimiter               byte
	Extends                 string
	DependsOn               string
	AllowDependencyFailure  bool
	AllowDependencyFailureSet bool
	ShowWarnings            bool
	ShowWarningsSet         bool
	TimeoutMillis           uint32
	TimeoutSet              bool
	NumberOfRetries         uint32
	NumberOfRetriesSet      bool

	// SetEnvironment preserves declaration order; NAME keys may repeat
	// across an extends chain and are concatenated, not deduplicated,
	// per §4.6.
	SetEnvironment []EnvAssignment

	// fields present at all records which scalar properties were
	// explicitly set in THIS file, so the merge engine can tell "child
	// didn't set it" from "child explicitly set the zero value".
	ProjectSet   bool
	IsHTTPSet    bool
	DelimiterSet bool
	ExtendsSet   bool
	DependsOnSet bool
}

// EnvAssignment is one set-environment.NAME header line.
type EnvAssignment struct {
	Name  string
	Value string
}

// DefaultHeader returns a Header with every spec-mandated default applied.
func DefaultHeader() Header {
	return Header{
		Delimiter:              '=',
		AllowDependencyFailure: true,
		ShowWarnings:           true,
		TimeoutMillis:          30000,
	}
}

// RequestLine is the first line of a Content section.
type RequestLine struct {
	Method  string
	URI     string
	Version string // optional; empty if not given
	Present bool
}

// Content is the parsed second section: request line, headers, body.
type Content struct {
	RequestLine RequestLine
	Headers     *HeaderList
	Body        []byte
	HasBody     bool
}

// NewContent returns an empty Content with an initialized header list.
func NewContent() Content {
	return Content{Headers: &HeaderList{}}
}

// Operator is one of the ten closed comparison operators a Clause may use.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpContains           Operator = "contains"
	OpMatchesRegex       Operator = "matches-regex"
	OpLessThan           Operator = "less-than"
	OpLessThanOrEqual    Operator = "less-than-or-equal"
	OpGreaterThan        Operator = "greater-than"
	OpGreaterThanOrEqual Operator = "greater-than-or-equal"
	OpStartsWith         Operator = "starts-with"
	OpEndsWith           Operator = "ends-with"
	OpExists             Operator = "exists"
)

// TargetKind names which part of a Response a Clause inspects.
type TargetKind string

const (
	TargetStatusCode      TargetKind = "status-code"
	TargetLatency         TargetKind = "latency"
	TargetHeaders         TargetKind = "headers"
	TargetHeader          TargetKind = "headers."
	TargetResponseBody    TargetKind = "response-body"
	TargetResponseBodyPath TargetKind = "response-body."
)

// Target is a resolved footer target: a Kind plus, for the two
// dotted-suffix kinds, the remainder (header name or JSON path).
type Target struct {
	Kind TargetKind
	Path string // header name (for TargetHeader) or JSON path (for TargetResponseBodyPath)
}

// Clause is one footer assertion line.
type Clause struct {
	Or            bool
	Not           bool
	CaseSensitive bool
	Target        Target
	Operator      Operator
	Value         string
	Line          int
}

// Footer is the ordered sequence of Clauses.
type Footer struct {
	Clauses []Clause
}

// Test is the parsed representation of one .greq file.
type Test struct {
	Path    string // absolute
	Header  Header
	Content Content
	Footer  Footer
}
