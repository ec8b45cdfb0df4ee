package metrics

import (
	"fmt"

	"go-ml.dev/pkg/zorros/zlog"
)

/*
Entry is one full metrics set of a finished pass. Epoch is TestEpoch for
the test phase.
*/
type Entry struct {
	AUC      float64
	Accuracy float64
	Loss     float64
	Epoch    int
	Phase    string
}

/*
Sink receives the metrics of every finished pass for external logging or
persistence.
*/
type Sink interface {
	Log(Entry)
}

// LogSink writes every entry to the process log.
type LogSink struct{}

func (LogSink) Log(e Entry) {
	zlog.Info(fmt.Sprintf("[%3d] %s: auc %.5f, accuracy %.5f, loss %.5f",
		e.Epoch, e.Phase, e.AUC, e.Accuracy, e.Loss))
}

// MultiSink fans every entry out to all its sinks.
type MultiSink []Sink

func (m MultiSink) Log(e Entry) {
	for _, s := range m {
		s.Log(e)
	}
}
