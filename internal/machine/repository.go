package machine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

// Store is the persistence capability for machine rows.
//
// The Find methods return rows whose is_deleted flag is false or unset,
// ordered by (id, lang_code). Every error is wrapped with
// masterdata.ErrAccessFailure.
type Store interface {
	FindByIDAndLocaleActive(ctx context.Context, id, langCode string) ([]Machine, error)
	FindByLocaleActive(ctx context.Context, langCode string) ([]Machine, error)
	FindAllActive(ctx context.Context) ([]Machine, error)
	InsertRecord(ctx context.Context, m Machine) (Machine, error)
}

// HistoryStore is the persistence capability for machine history rows.
// Errors are wrapped with masterdata.ErrAccessFailure.
type HistoryStore interface {
	InsertHistory(ctx context.Context, h MachineHistory) (MachineHistory, error)
}

// timeLayout stores timestamps with fixed microsecond precision so that
// history keys sort and compare as text.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

const machineColumns = `id, lang_code, name, serial_num, mac_address, ip_address, mspec_id,
	validity_end_dtimes, is_active, is_deleted, cr_by, cr_dtimes, upd_by, upd_dtimes, del_dtimes`

const activeFilter = `(is_deleted = 0 OR is_deleted IS NULL)`

// SQLiteRepository implements Store and HistoryStore using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed machine repository.
//
// Parameters:
//   - db: Open connection with the machine_master tables migrated
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// FindByIDAndLocaleActive returns the active rows for one id in one locale.
func (r *SQLiteRepository) FindByIDAndLocaleActive(ctx context.Context, id, langCode string) ([]Machine, error) {
	const query = `SELECT ` + machineColumns + ` FROM machine_master
		WHERE id = ? AND lang_code = ? AND ` + activeFilter + `
		ORDER BY id, lang_code`
	return r.queryMachines(ctx, query, id, langCode)
}

// FindByLocaleActive returns the active rows in one locale.
func (r *SQLiteRepository) FindByLocaleActive(ctx context.Context, langCode string) ([]Machine, error) {
	const query = `SELECT ` + machineColumns + ` FROM machine_master
		WHERE lang_code = ? AND ` + activeFilter + `
		ORDER BY id, lang_code`
	return r.queryMachines(ctx, query, langCode)
}

// FindAllActive returns every active row.
func (r *SQLiteRepository) FindAllActive(ctx context.Context) ([]Machine, error) {
	const query = `SELECT ` + machineColumns + ` FROM machine_master
		WHERE ` + activeFilter + `
		ORDER BY id, lang_code`
	return r.queryMachines(ctx, query)
}

// InsertRecord inserts a machine row and returns it as stored.
//
// A primary key conflict on (id, lang_code) is reported as ErrMachineExists.
func (r *SQLiteRepository) InsertRecord(ctx context.Context, m Machine) (Machine, error) {
	const query = `INSERT INTO machine_master (` + machineColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, machineArgs(m)...)
	if err != nil {
		return Machine{}, accessFailure(fmt.Sprintf("inserting machine %s/%s", m.ID, m.LangCode), err)
	}
	return m, nil
}

// InsertHistory appends a machine history row and returns it as stored.
func (r *SQLiteRepository) InsertHistory(ctx context.Context, h MachineHistory) (MachineHistory, error) {
	const query = `INSERT INTO machine_master_h (` + machineColumns + `, eff_dtimes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := append(machineArgs(h.Machine), formatTime(h.EffectDateTime))
	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return MachineHistory{}, accessFailure(fmt.Sprintf("inserting machine history %s/%s", h.ID, h.LangCode), err)
	}
	return h, nil
}

// queryMachines executes a query and returns a slice of Machine.
func (r *SQLiteRepository) queryMachines(ctx context.Context, query string, args ...any) ([]Machine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, accessFailure("querying machines", err)
	}
	defer rows.Close()

	var machines []Machine
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, accessFailure("scanning machine row", err)
		}
		machines = append(machines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, accessFailure("iterating machine rows", err)
	}
	return machines, nil
}

func scanMachine(rows *sql.Rows) (Machine, error) {
	var (
		m                             Machine
		validity, updBy, updAt, delAt sql.NullString
		deleted                       sql.NullBool
		createdAt                     string
	)

	err := rows.Scan(&m.ID, &m.LangCode, &m.Name, &m.SerialNum, &m.MacAddress, &m.IPAddress,
		&m.MachineSpecID, &validity, &m.IsActive, &deleted, &m.CreatedBy, &createdAt,
		&updBy, &updAt, &delAt)
	if err != nil {
		return Machine{}, err
	}

	if m.CreatedDateTime, err = parseTime(createdAt); err != nil {
		return Machine{}, fmt.Errorf("parsing cr_dtimes: %w", err)
	}
	if deleted.Valid {
		d := deleted.Bool
		m.IsDeleted = &d
	}
	if updBy.Valid {
		s := updBy.String
		m.UpdatedBy = &s
	}
	if m.ValidityDateTime, err = parseNullTime(validity); err != nil {
		return Machine{}, fmt.Errorf("parsing validity_end_dtimes: %w", err)
	}
	if m.UpdatedDateTime, err = parseNullTime(updAt); err != nil {
		return Machine{}, fmt.Errorf("parsing upd_dtimes: %w", err)
	}
	if m.DeletedDateTime, err = parseNullTime(delAt); err != nil {
		return Machine{}, fmt.Errorf("parsing del_dtimes: %w", err)
	}
	return m, nil
}

func machineArgs(m Machine) []any {
	var deleted sql.NullBool
	if m.IsDeleted != nil {
		deleted = sql.NullBool{Bool: *m.IsDeleted, Valid: true}
	}
	var updBy sql.NullString
	if m.UpdatedBy != nil {
		updBy = sql.NullString{String: *m.UpdatedBy, Valid: true}
	}
	return []any{
		m.ID, m.LangCode, m.Name, m.SerialNum, m.MacAddress, m.IPAddress, m.MachineSpecID,
		nullTime(m.ValidityDateTime), m.IsActive, deleted, m.CreatedBy, formatTime(m.CreatedDateTime),
		updBy, nullTime(m.UpdatedDateTime), nullTime(m.DeletedDateTime),
	}
}

// accessFailure wraps a driver error as a storage access failure, marking
// primary key conflicts with ErrMachineExists.
func accessFailure(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return fmt.Errorf("%w: %s: %w", masterdata.ErrAccessFailure, op, ErrMachineExists)
	}
	return fmt.Errorf("%w: %s: %w", masterdata.ErrAccessFailure, op, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
