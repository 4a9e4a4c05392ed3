package statemap

// Warning codes attached to detector output.
const (
	CodePropDrilling = "PROP_DRILLING"
	CodePropBundle   = "PROP_BUNDLE"
	CodeContextLeak  = "CONTEXT_LEAK"
	CodePropRename   = "PROP_RENAME"
)

// Severity ranks detector findings.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// FileError records a file that could not be collected at all. Collection
// failures are per-file data, never fatal for the run.
type FileError struct {
	FilePath string `json:"filePath" yaml:"filePath"`
	Message  string `json:"message" yaml:"message"`
}

// Warning is a non-fatal finding emitted during builder and detector passes.
type Warning struct {
	FilePath string `json:"filePath" yaml:"filePath"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Code     string `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
}
