package analysis

import (
	"time"

	"quality-agent/internal/metrics"
	pkgLog "quality-agent/pkg/log"
)

// ProductionEnvironment labels deployments detected from default-branch pushes.
const ProductionEnvironment = "production"

func New(pipeline Pipeline, recorder metrics.Recorder, l pkgLog.Logger) Processor {
	if recorder == nil {
		recorder = metrics.NewNop()
	}
	return &processor{
		pipeline: pipeline,
		metrics:  recorder,
		l:        l,
		now:      time.Now,
	}
}

// NewLogPipeline returns a Pipeline that only logs what it would analyze.
// It stands in until an agent pipeline is wired.
func NewLogPipeline(l pkgLog.Logger) Pipeline {
	return &logPipeline{l: l, now: time.Now}
}
