package entity

type ExtractionStatus string

const (
	// ExtractionParsed means a full strict parse succeeded.
	ExtractionParsed ExtractionStatus = "parsed"
	// ExtractionPartial means only the field scraper recovered data;
	// lower trust tier than a strict parse.
	ExtractionPartial ExtractionStatus = "partial"
	// ExtractionFailed is the sentinel for "could not parse", distinct
	// from an empty but valid object.
	ExtractionFailed ExtractionStatus = "failed"
)

type ExtractionResult struct {
	Status ExtractionStatus
	Value  map[string]any
}

func ParsedResult(value map[string]any) ExtractionResult {
	return ExtractionResult{Status: ExtractionParsed, Value: value}
}

func PartialResult(value map[string]any) ExtractionResult {
	return ExtractionResult{Status: ExtractionPartial, Value: value}
}

func FailedResult() ExtractionResult {
	return ExtractionResult{Status: ExtractionFailed}
}

func (r ExtractionResult) Failed() bool {
	return r.Status == ExtractionFailed
}
