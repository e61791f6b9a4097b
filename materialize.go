package seek

import (
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/seek/engine"
)

// errNegativeSize marks a size the engine reported as negative.
var errNegativeSize = errors.New("engine reported a negative size")

// materializer converts engine results into owned items. It only exists
// while the engine lock is held.
type materializer struct {
	engine       engine.Engine
	metadata     Metadata
	fingerprint  uint64
	logger       *slog.Logger
	monitor      QueryMonitor
	verification Verification
}

// drain reads results [0, n) in engine order. Items whose path cannot be
// read are skipped; metadata failures leave the field nil.
func (m *materializer) drain(n uint32) []Item {
	items := make([]Item, 0, n)
	for i := uint32(0); i < n; i++ {
		item, ok := m.item(i)
		if ok {
			items = append(items, item)
		}
	}
	return items
}

func (m *materializer) item(i uint32) (Item, bool) {
	class := m.engine.ResultType(i)
	itemType, ok := classify(class)
	if !ok {
		fault := &ConsistencyError{Index: i, Classification: class}
		if m.verification == VerifyStrict {
			panic(fault)
		}
		m.logger.Error("skipping result with inconsistent classification",
			"index", i, "fingerprint", m.fingerprint, "err", fault)
		m.monitor.ItemSkipped(i, fault)
		return Item{}, false
	}

	path, err := m.engine.ResultPath(i)
	if err != nil {
		m.logger.Error("skipping result without a path",
			"index", i, "fingerprint", m.fingerprint, "err", err)
		m.monitor.ItemSkipped(i, err)
		return Item{}, false
	}

	item := Item{Path: path, Type: itemType}
	for _, kind := range m.metadata.Kinds() {
		if err := m.fill(&item, i, kind); err != nil {
			m.logger.Error("metadata unavailable",
				"index", i, "path", path, "kind", kind.String(), "fingerprint", m.fingerprint, "err", err)
			m.monitor.MetadataUnavailable(i, path, kind, err)
		}
	}
	return item, true
}

// fill fetches one metadata kind into item. On error the field is left nil.
func (m *materializer) fill(item *Item, i uint32, kind Metadata) error {
	switch kind {
	case MetadataSize:
		size, err := m.engine.ResultSize(i)
		if err != nil {
			return err
		}
		if size < 0 {
			return errNegativeSize
		}
		v := uint64(size)
		item.Size = &v
	case MetadataDateCreated:
		return fillTime(&item.DateCreated, m.engine.ResultDateCreated, i)
	case MetadataDateModified:
		return fillTime(&item.DateModified, m.engine.ResultDateModified, i)
	case MetadataDateAccessed:
		return fillTime(&item.DateAccessed, m.engine.ResultDateAccessed, i)
	case MetadataAttributes:
		attrs, err := m.engine.ResultAttributes(i)
		if err != nil {
			return err
		}
		item.Attributes = &attrs
	}
	return nil
}

func fillTime(dst **time.Time, get func(uint32) (uint64, error), i uint32) error {
	ft, err := get(i)
	if err != nil {
		return err
	}
	t := FiletimeToTime(ft)
	*dst = &t
	return nil
}
