package analysis

import "errors"

var (
	ErrUnsupportedJob = errors.New("unsupported job event type")
	ErrMissingEvent   = errors.New("job carries no event payload")
	ErrAnalysisFailed = errors.New("analysis failed")
)
