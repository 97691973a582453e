package machine

import (
	"context"
	"errors"
	"time"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

// EntityName identifies machines in logs, metrics and events.
const EntityName = "machine"

// DefaultCreatedBy is recorded when a creation names no user.
const DefaultCreatedBy = "system"

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Service retrieves and creates machines.
//
// It holds no mutable state of its own; the setters are meant to be called
// once during wiring, before the service is shared.
type Service struct {
	store     Store
	history   HistoryStore
	entity    masterdata.Entity[Machine, View]
	logger    Logger
	now       func() time.Time
	observer  masterdata.Observer
	publisher masterdata.EventPublisher
}

// NewService creates a machine service over the given stores.
func NewService(store Store, history HistoryStore) *Service {
	return &Service{
		store:   store,
		history: history,
		entity: masterdata.Entity[Machine, View]{
			Name:    EntityName,
			Codes:   Codes,
			Deleted: isDeleted,
			View:    ToView,
		},
		logger: noopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// SetClock replaces the creation timestamp source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetObserver registers an observer for completed operations.
func (s *Service) SetObserver(o masterdata.Observer) {
	s.observer = o
}

// SetPublisher registers a publisher for created machines.
func (s *Service) SetPublisher(p masterdata.EventPublisher) {
	s.publisher = p
}

// Get runs one retrieval.
//
// The result holds every active machine matching q, in (id, lang_code)
// order. Errors are *masterdata.Error values of kind FetchFailure,
// NotFound or, for an unknown predicate, InvalidInput.
func (s *Service) Get(ctx context.Context, q masterdata.Query) (*masterdata.ResponseEnvelope[View], error) {
	start := time.Now()
	env, err := s.get(ctx, q)
	s.observe("get_"+q.Predicate.String(), err, start)

	if err != nil && !errors.Is(err, masterdata.ErrNotFound) {
		s.logger.Error("machine retrieval failed",
			"predicate", q.Predicate.String(),
			"id", q.ID,
			"lang_code", q.LangCode,
			"error", err,
		)
	}
	return env, err
}

func (s *Service) get(ctx context.Context, q masterdata.Query) (*masterdata.ResponseEnvelope[View], error) {
	switch q.Predicate {
	case masterdata.ByIDAndLocale:
		return s.entity.Fetch(ctx, func(ctx context.Context) ([]Machine, error) {
			return s.store.FindByIDAndLocaleActive(ctx, q.ID, q.LangCode)
		})
	case masterdata.ByLocale:
		return s.entity.Fetch(ctx, func(ctx context.Context) ([]Machine, error) {
			return s.store.FindByLocaleActive(ctx, q.LangCode)
		})
	case masterdata.All:
		return s.entity.Fetch(ctx, s.store.FindAllActive)
	default:
		return nil, masterdata.NewInvalidInput(InvalidQuery, "Unsupported machine query: "+q.Predicate.String())
	}
}

// GetByIDAndLocale returns the active machine rows with the given id and
// language code.
func (s *Service) GetByIDAndLocale(ctx context.Context, id, langCode string) (*masterdata.ResponseEnvelope[View], error) {
	return s.Get(ctx, masterdata.QueryByIDAndLocale(id, langCode))
}

// GetByLocale returns the active machine rows in one language.
func (s *Service) GetByLocale(ctx context.Context, langCode string) (*masterdata.ResponseEnvelope[View], error) {
	return s.Get(ctx, masterdata.QueryByLocale(langCode))
}

// GetAll returns every active machine row.
func (s *Service) GetAll(ctx context.Context) (*masterdata.ResponseEnvelope[View], error) {
	return s.Get(ctx, masterdata.QueryAll())
}

// Create stores a machine and its history row and returns the machine id.
//
// One timestamp, truncated to storage precision, stamps both rows. The
// history write only runs after the machine write succeeded. A failure of
// either write is returned as an InsertFailure; when the history write
// fails the machine row stays stored and the orphan is logged.
func (s *Service) Create(ctx context.Context, req Request, createdBy string) (*masterdata.IdentifierEnvelope, error) {
	start := time.Now()
	if createdBy == "" {
		createdBy = DefaultCreatedBy
	}

	at := storageTime(s.now())
	record := newMachine(req, createdBy, at)
	history := newMachineHistory(req, createdBy, at)

	created, err := masterdata.WriteBoth(ctx, Codes, record, history, s.store.InsertRecord, s.history.InsertHistory)
	s.observe("create", err, start)
	if err != nil {
		var orphan *masterdata.HistoryWriteError
		if errors.As(err, &orphan) {
			s.logger.Error("machine stored without history row",
				"id", record.ID,
				"lang_code", record.LangCode,
				"eff_dtimes", at,
				"error", err,
			)
		} else {
			s.logger.Error("machine insert failed",
				"id", record.ID,
				"lang_code", record.LangCode,
				"error", err,
			)
		}
		return nil, err
	}

	s.logger.Info("machine created",
		"id", created.ID,
		"lang_code", created.LangCode,
		"created_by", createdBy,
	)
	s.publish(ctx, created)

	return &masterdata.IdentifierEnvelope{ID: created.ID}, nil
}

func (s *Service) observe(operation string, err error, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(EntityName, operation, masterdata.Outcome(err), time.Since(start))
}

func (s *Service) publish(ctx context.Context, m Machine) {
	if s.publisher == nil {
		return
	}
	event := masterdata.CreatedEvent{
		Entity:    EntityName,
		ID:        m.ID,
		LangCode:  m.LangCode,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedDateTime,
	}
	if err := s.publisher.PublishCreated(ctx, event); err != nil {
		s.logger.Warn("publishing machine created event failed",
			"id", m.ID,
			"lang_code", m.LangCode,
			"error", err,
		)
	}
}
