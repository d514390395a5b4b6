package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/api/repository"
)

type RecordServiceInterface interface {
	List(ctx context.Context, resource string) ([]domain.Record, error)
	Get(ctx context.Context, resource, id string) (domain.Record, error)
	Create(ctx context.Context, resource string, body domain.Record) (domain.Record, error)
	Update(ctx context.Context, resource, id string, body domain.Record) (domain.Record, error)
	Delete(ctx context.Context, resource, id string) error
}

// Publisher announces committed mutations.
type Publisher interface {
	Publish(ctx context.Context, ev domain.ResourceEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.ResourceEvent) error { return nil }

type RecordService struct {
	repo repository.RecordRepository
	pub  Publisher
	lg   *logger.Logger
	now  func() time.Time
}

func NewRecordService(repo repository.RecordRepository, pub Publisher, lg *logger.Logger) *RecordService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &RecordService{repo: repo, pub: pub, lg: lg, now: time.Now}
}

func schemaFor(resource string) (domain.Schema, error) {
	s, ok := domain.LookupSchema(resource)
	if !ok {
		return domain.Schema{}, fmt.Errorf("%w: %s", domain.ErrUnknownResource, resource)
	}
	return s, nil
}

func (rs *RecordService) List(ctx context.Context, resource string) ([]domain.Record, error) {
	s, err := schemaFor(resource)
	if err != nil {
		return nil, err
	}
	list, err := rs.repo.List(ctx, s)
	if err != nil {
		return nil, err
	}
	for _, rec := range list {
		public(s, rec)
	}
	return list, nil
}

func (rs *RecordService) Get(ctx context.Context, resource, id string) (domain.Record, error) {
	s, err := schemaFor(resource)
	if err != nil {
		return nil, err
	}
	rec, err := rs.repo.Get(ctx, s, id)
	if err != nil {
		return nil, err
	}
	return public(s, rec), nil
}

func (rs *RecordService) Create(ctx context.Context, resource string, body domain.Record) (domain.Record, error) {
	s, err := schemaFor(resource)
	if err != nil {
		return nil, err
	}
	rec, err := rs.prepare(s, body)
	if err != nil {
		return nil, err
	}
	for _, name := range s.Secrets() {
		if rec[name], err = hashSecret(rec[name]); err != nil {
			return nil, err
		}
	}

	id, err := rs.repo.Insert(ctx, s, rec)
	if err != nil {
		return nil, err
	}
	rs.publish(ctx, s, domain.ActionCreated, id)
	return rs.Get(ctx, resource, id)
}

// Update replaces every field. A blank password keeps the stored hash.
func (rs *RecordService) Update(ctx context.Context, resource, id string, body domain.Record) (domain.Record, error) {
	s, err := schemaFor(resource)
	if err != nil {
		return nil, err
	}
	rec, err := rs.prepare(s, body)
	if err != nil {
		return nil, err
	}

	secrets := s.Secrets()
	if len(secrets) > 0 {
		current, err := rs.repo.Get(ctx, s, id)
		if err != nil {
			return nil, err
		}
		for _, name := range secrets {
			if domain.IsBlank(rec[name]) {
				rec[name] = current.String(name)
				continue
			}
			if rec[name], err = hashSecret(rec[name]); err != nil {
				return nil, err
			}
		}
	}

	if err := rs.repo.Replace(ctx, s, id, rec); err != nil {
		return nil, err
	}
	rs.publish(ctx, s, domain.ActionUpdated, id)
	return rs.Get(ctx, resource, id)
}

func (rs *RecordService) Delete(ctx context.Context, resource, id string) error {
	s, err := schemaFor(resource)
	if err != nil {
		return err
	}
	if err := rs.repo.Delete(ctx, s, id); err != nil {
		return err
	}
	rs.publish(ctx, s, domain.ActionDeleted, id)
	return nil
}

func (rs *RecordService) prepare(s domain.Schema, body domain.Record) (domain.Record, error) {
	if missing := s.Missing(body); len(missing) > 0 {
		return nil, fmt.Errorf("%w: campos obrigatórios: %s", domain.ErrBadRequest, strings.Join(missing, ", "))
	}
	return normalize(s, body)
}

// publish is best effort: the row is already committed, a broker outage is
// logged and the request still succeeds. History entries are not announced.
func (rs *RecordService) publish(ctx context.Context, s domain.Schema, action domain.Action, id string) {
	if s.Name == domain.Historico.Name {
		return
	}
	ev := domain.ResourceEvent{Resource: s.Name, Action: action, RecordID: id, OccurredAt: rs.now().UTC()}
	lg := logger.FromContext(ctx, rs.lg)
	if err := rs.pub.Publish(ctx, ev); err != nil {
		lg.Error("event_publish_failed", err, map[string]any{"routing_key": ev.RoutingKey()})
		return
	}
	lg.Debug("event_published", map[string]any{"routing_key": ev.RoutingKey(), "record_id": id})
}

func hashSecret(v any) (string, error) {
	plain := domain.FormatValue(v)
	if plain == "" {
		return "", nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
