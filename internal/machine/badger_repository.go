package machine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

// Key layout. Each part is escaped and terminated by appendKeyPart, so any
// id or lang_code maps to exactly one key and Badger's byte order matches
// (id, lang_code) order.
const (
	machinePrefix = "machine\x00"
	historyPrefix = "machine_h\x00"
)

// Key part escaping: a NUL inside a part is written as NUL 0xFF and every
// part ends with NUL 0x01.
const (
	keyEscape     = 0x00
	keyEscapedNUL = 0xFF
	keyTerminator = 0x01
)

// BadgerRepository implements Store and HistoryStore on a Badger key-value
// store. It backs the "badger" database driver.
type BadgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository opens a Badger store at path.
//
// Parameters:
//   - path: Directory for the store; empty opens an in-memory store
//
// Returns:
//   - *BadgerRepository: Repository instance ready for use
//   - error: If the store cannot be opened
func NewBadgerRepository(path string) (*BadgerRepository, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(filepath.Clean(path)).WithValueLogFileSize(1 << 24)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store: %w", err)
	}
	return &BadgerRepository{db: db}, nil
}

// Close releases the underlying store.
func (r *BadgerRepository) Close() error {
	return r.db.Close()
}

// appendKeyPart appends part to key so that no two parts share an encoding
// and encoded parts compare in the same order as the strings.
func appendKeyPart(key []byte, part string) []byte {
	for i := 0; i < len(part); i++ {
		if part[i] == keyEscape {
			key = append(key, keyEscape, keyEscapedNUL)
			continue
		}
		key = append(key, part[i])
	}
	return append(key, keyEscape, keyTerminator)
}

func machineKey(id, langCode string) []byte {
	key := appendKeyPart([]byte(machinePrefix), id)
	return appendKeyPart(key, langCode)
}

func historyPrefixFor(id, langCode string) []byte {
	key := appendKeyPart([]byte(historyPrefix), id)
	return appendKeyPart(key, langCode)
}

func historyKey(h MachineHistory) []byte {
	return appendKeyPart(historyPrefixFor(h.ID, h.LangCode), formatTime(h.EffectDateTime))
}

// FindByIDAndLocaleActive returns the active row for one id in one locale.
func (r *BadgerRepository) FindByIDAndLocaleActive(ctx context.Context, id, langCode string) ([]Machine, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", masterdata.ErrAccessFailure, err)
	}

	var out []Machine
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(machineKey(id, langCode))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var m Machine
		if err := item.Value(func(v []byte) error { return json.Unmarshal(v, &m) }); err != nil {
			return err
		}
		if m.ID == id && m.LangCode == langCode && masterdata.StatusOf(m.IsDeleted).IsActive() {
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: reading machine %s/%s: %w", masterdata.ErrAccessFailure, id, langCode, err)
	}
	return out, nil
}

// FindByLocaleActive returns the active rows in one locale.
func (r *BadgerRepository) FindByLocaleActive(ctx context.Context, langCode string) ([]Machine, error) {
	return r.scan(ctx, func(m Machine) bool { return m.LangCode == langCode })
}

// FindAllActive returns every active row.
func (r *BadgerRepository) FindAllActive(ctx context.Context) ([]Machine, error) {
	return r.scan(ctx, func(Machine) bool { return true })
}

// InsertRecord stores a new row. An existing (id, lang_code) pair is
// reported as ErrMachineExists.
func (r *BadgerRepository) InsertRecord(ctx context.Context, m Machine) (Machine, error) {
	if err := ctx.Err(); err != nil {
		return Machine{}, fmt.Errorf("%w: %w", masterdata.ErrAccessFailure, err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return Machine{}, fmt.Errorf("%w: encoding machine: %w", masterdata.ErrAccessFailure, err)
	}

	key := machineKey(m.ID, m.LangCode)
	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrMachineExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return Machine{}, fmt.Errorf("%w: inserting machine %s/%s: %w",
			masterdata.ErrAccessFailure, m.ID, m.LangCode, err)
	}
	return m, nil
}

// InsertHistory appends a history row.
func (r *BadgerRepository) InsertHistory(ctx context.Context, h MachineHistory) (MachineHistory, error) {
	if err := ctx.Err(); err != nil {
		return MachineHistory{}, fmt.Errorf("%w: %w", masterdata.ErrAccessFailure, err)
	}

	data, err := json.Marshal(h)
	if err != nil {
		return MachineHistory{}, fmt.Errorf("%w: encoding machine history: %w", masterdata.ErrAccessFailure, err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(historyKey(h), data)
	})
	if err != nil {
		return MachineHistory{}, fmt.Errorf("%w: inserting machine history %s/%s: %w",
			masterdata.ErrAccessFailure, h.ID, h.LangCode, err)
	}
	return h, nil
}

// Histories returns the stored history rows for one id in one locale,
// oldest first.
func (r *BadgerRepository) Histories(ctx context.Context, id, langCode string) ([]MachineHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", masterdata.ErrAccessFailure, err)
	}

	prefix := historyPrefixFor(id, langCode)
	var out []MachineHistory
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var h MachineHistory
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &h) }); err != nil {
				return err
			}
			out = append(out, h)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: reading machine history: %w", masterdata.ErrAccessFailure, err)
	}
	return out, nil
}

// scan walks every machine key in (id, lang_code) order.
func (r *BadgerRepository) scan(ctx context.Context, match func(Machine) bool) ([]Machine, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", masterdata.ErrAccessFailure, err)
	}

	prefix := []byte(machinePrefix)
	var out []Machine
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var m Machine
			if err := it.Item().Value(func(v []byte) error { return json.Unmarshal(v, &m) }); err != nil {
				return err
			}
			if match(m) && masterdata.StatusOf(m.IsDeleted).IsActive() {
				out = append(out, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scanning machines: %w", masterdata.ErrAccessFailure, err)
	}
	return out, nil
}
