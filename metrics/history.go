package metrics

import (
	"encoding/csv"
	"strconv"
	"sync"

	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"
)

/*
History is a sink keeping all entries of a training run in memory so
they can be persisted once the run is over.
*/
type History struct {
	mu      sync.Mutex
	entries []Entry
}

func (h *History) Log(e Entry) {
	h.mu.Lock()
	h.entries = append(h.entries, e)
	h.mu.Unlock()
}

// Entries returns a copy of everything logged so far.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}

// Flush writes the history as CSV to the given output.
func (h *History) Flush(out iokit.Output) error {
	wh, err := out.Create()
	if err != nil {
		return zorros.Trace(err)
	}
	defer wh.End()
	cw := csv.NewWriter(wh)
	if err = cw.Write([]string{"epoch", "phase", "auc", "accuracy", "loss"}); err != nil {
		return zorros.Trace(err)
	}
	for _, e := range h.Entries() {
		row := []string{
			strconv.Itoa(e.Epoch),
			e.Phase,
			strconv.FormatFloat(e.AUC, 'g', -1, 64),
			strconv.FormatFloat(e.Accuracy, 'g', -1, 64),
			strconv.FormatFloat(e.Loss, 'g', -1, 64),
		}
		if err = cw.Write(row); err != nil {
			return zorros.Trace(err)
		}
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		return zorros.Trace(err)
	}
	return wh.Commit()
}
