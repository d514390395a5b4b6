// Package controller is the list/detail page controller shared by every
// resource screen. One Controller serves one resource schema.
//
// Operations on a controller run one at a time; View can be called at any
// moment and reports Loading or Submitting while a request is in flight.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"restaurant-admin/internal/client"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/lookup"
	"restaurant-admin/internal/session"
)

// DefaultNoticeTTL is how long a success or error banner stays visible.
const DefaultNoticeTTL = 6 * time.Second

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrNotReference    = errors.New("field is not a reference")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
)

// Resources is the subset of the API client a controller needs.
type Resources interface {
	List(ctx context.Context, resource string) ([]domain.Record, error)
	Get(ctx context.Context, resource, id string) (domain.Record, error)
	Create(ctx context.Context, resource string, draft domain.Record) (domain.Record, error)
	Update(ctx context.Context, resource, id string, draft domain.Record) (domain.Record, error)
	Remove(ctx context.Context, resource, id string) error
}

type Controller struct {
	schema domain.Schema
	res    Resources
	sess   *session.Store
	lg     *logger.Logger
	now    func() time.Time
	ttl    time.Duration

	opMu sync.Mutex // serialises operations

	mu       sync.Mutex // guards the fields below
	base     Phase
	busy     Phase
	records  []domain.Record
	refs     map[string][]domain.Record
	draft    domain.Record
	isUpdate bool
	editID   string
	notice   *Notice
	pending  string
}

type Opt func(*Controller)

func WithLogger(lg *logger.Logger) Opt { return func(c *Controller) { c.lg = lg } }

func WithClock(now func() time.Time) Opt { return func(c *Controller) { c.now = now } }

func WithNoticeTTL(d time.Duration) Opt {
	return func(c *Controller) {
		if d > 0 {
			c.ttl = d
		}
	}
}

func New(schema domain.Schema, res Resources, sess *session.Store, opts ...Opt) *Controller {
	c := &Controller{
		schema:  schema,
		res:     res,
		sess:    sess,
		lg:      logger.Nop(),
		now:     time.Now,
		ttl:     DefaultNoticeTTL,
		base:    Idle,
		records: []domain.Record{},
		refs:    map[string][]domain.Record{},
	}
	for _, o := range opts {
		o(c)
	}
	c.draft = c.template()
	return c
}

func (c *Controller) Schema() domain.Schema { return c.schema }

func (c *Controller) userID() string {
	if c.sess == nil {
		return ""
	}
	id, _ := c.sess.UserID()
	return id
}

func (c *Controller) template() domain.Record { return c.schema.Template(c.userID()) }

// applySession fills session-sourced fields with the current user. The draft
// may have been built before anyone signed in.
func (c *Controller) applySession(draft domain.Record) {
	uid := c.userID()
	if uid == "" {
		return
	}
	for _, f := range c.schema.Fields {
		if f.FromSession {
			draft[f.Name] = uid
		}
	}
}

// View returns a snapshot; it never waits for a request in flight.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Schema:        c.schema,
		Phase:         c.base,
		Records:       append([]domain.Record(nil), c.records...),
		Draft:         c.draft.Clone(),
		IsUpdate:      c.isUpdate,
		EditID:        c.editID,
		PendingDelete: c.pending,
		Empty:         len(c.records) == 0,
		refs:          make(map[string][]domain.Record, len(c.refs)),
	}
	for k, list := range c.refs {
		v.refs[k] = list
	}
	if c.notice != nil && c.now().Sub(c.notice.At) < c.ttl {
		n := *c.notice
		v.Notice = &n
		if n.Kind == NoticeError {
			v.Phase = Error
		} else {
			v.Phase = Success
		}
	}
	if c.busy != "" {
		v.Phase = c.busy
	}
	return v
}

// Mount loads the list and the sibling lists used to label references.
// On failure the previous list is kept.
func (c *Controller) Mount(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setBusy(Loading)
	defer c.setBusy("")

	if err := c.reload(ctx); err != nil {
		return err
	}
	c.loadRefs(ctx)

	c.mu.Lock()
	if c.base == Idle {
		c.base = Ready
	}
	if !c.isUpdate {
		c.applySession(c.draft)
	}
	c.mu.Unlock()
	return nil
}

// Edit fetches one record and turns it into the draft of an update.
func (c *Controller) Edit(ctx context.Context, id string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.setBusy(Loading)
	defer c.setBusy("")

	rec, err := c.res.Get(ctx, c.schema.Name, id)
	if err != nil {
		c.fail(ctx, "edit_fetch_failed", msgFetch(c.schema), err)
		return err
	}

	draft := c.template()
	for _, f := range c.schema.Fields {
		if f.FromSession || f.Kind == domain.KindPassword {
			continue
		}
		if v, ok := rec[f.Name]; ok && v != nil {
			draft[f.Name] = v
		}
	}

	c.mu.Lock()
	c.draft = draft
	c.isUpdate = true
	c.editID = id
	c.base = Editing
	c.mu.Unlock()
	return nil
}

// Change sets exactly one draft field, coercing raw by the field kind.
func (c *Controller) Change(field, raw string) error {
	f, ok := c.schema.Field(field)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft[f.Name] = f.Coerce(raw)
	c.base = Editing
	return nil
}

// Submit creates or updates the draft. Required fields are checked first and
// nothing is sent while any is blank. The list is fetched again only after
// the mutation has been answered.
func (c *Controller) Submit(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	draft := c.draft.Clone()
	isUpdate, id := c.isUpdate, c.editID
	c.mu.Unlock()
	c.applySession(draft)

	if missing := c.schema.Missing(draft); len(missing) > 0 {
		verr := &ValidationError{Fields: missing}
		c.setNotice(NoticeError, msgMissing(missing), "")
		return verr
	}

	c.setBusy(Submitting)
	defer c.setBusy("")

	body := c.schema.Body(draft)
	var err error
	if isUpdate {
		_, err = c.res.Update(ctx, c.schema.Name, id, body)
	} else {
		_, err = c.res.Create(ctx, c.schema.Name, body)
	}
	if err != nil {
		c.fail(ctx, "submit_failed", msgSave(c.schema), err)
		return err
	}

	c.mu.Lock()
	c.draft = c.template()
	c.isUpdate, c.editID = false, ""
	c.base = Ready
	c.mu.Unlock()

	logger.FromContext(ctx, c.lg).Info("record_saved", map[string]any{
		"resource": c.schema.Name,
		"update":   isUpdate,
		"id":       id,
	})

	if err := c.reload(ctx); err != nil {
		return err
	}
	c.setNotice(NoticeSuccess, msgSaved(c.schema, isUpdate), "")
	return nil
}

// RequestDelete marks id for deletion; nothing is sent until ConfirmDelete.
func (c *Controller) RequestDelete(id string) {
	c.mu.Lock()
	c.pending = id
	c.mu.Unlock()
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	c.pending = ""
	c.mu.Unlock()
}

func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	id := c.pending
	c.pending = ""
	c.mu.Unlock()
	if id == "" {
		return ErrNoPendingDelete
	}

	c.setBusy(Submitting)
	defer c.setBusy("")

	if err := c.res.Remove(ctx, c.schema.Name, id); err != nil {
		c.fail(ctx, "delete_failed", msgDelete(c.schema), err)
		return err
	}

	c.mu.Lock()
	if c.isUpdate && c.editID == id {
		c.draft = c.template()
		c.isUpdate, c.editID = false, ""
		c.base = Ready
	}
	c.mu.Unlock()

	logger.FromContext(ctx, c.lg).Info("record_deleted", map[string]any{"resource": c.schema.Name, "id": id})

	if err := c.reload(ctx); err != nil {
		return err
	}
	c.setNotice(NoticeSuccess, msgDeleted(c.schema), "")
	return nil
}

// Reset drops the current draft and leaves edit mode.
func (c *Controller) Reset() {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = c.template()
	c.isUpdate, c.editID = false, ""
	if c.base != Idle {
		c.base = Ready
	}
}

// Options lists the candidates of a reference field whose label contains
// query. The sibling list is fetched on every call.
func (c *Controller) Options(ctx context.Context, field, query string) ([]Option, error) {
	f, ok := c.schema.Field(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if f.Kind != domain.KindRef {
		return nil, fmt.Errorf("%w: %s", ErrNotReference, field)
	}
	target, ok := domain.LookupSchema(f.Ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, f.Ref)
	}
	list, err := c.res.List(ctx, target.Name)
	if err != nil {
		return nil, err
	}
	matches := lookup.Filter(list, target.LabelField, query)
	out := make([]Option, 0, len(matches))
	for _, r := range matches {
		id := r.ID(target.IDField)
		label := r.String(target.LabelField)
		if label == "" {
			label = id
		}
		out = append(out, Option{Value: id, Label: label})
	}
	return out, nil
}

func (c *Controller) reload(ctx context.Context) error {
	list, err := c.res.List(ctx, c.schema.Name)
	if err != nil {
		c.fail(ctx, "list_failed", msgLoad(c.schema), err)
		return err
	}
	c.mu.Lock()
	c.records = list
	c.mu.Unlock()
	return nil
}

// loadRefs fetches the sibling lists of reference fields. A failure only
// costs the labels, so it is logged and skipped.
func (c *Controller) loadRefs(ctx context.Context) {
	seen := map[string]bool{}
	for _, f := range c.schema.Fields {
		if f.Kind != domain.KindRef || seen[f.Ref] {
			continue
		}
		seen[f.Ref] = true
		list, err := c.res.List(ctx, f.Ref)
		if err != nil {
			logger.FromContext(ctx, c.lg).Warn("ref_list_failed", map[string]any{
				"resource": c.schema.Name,
				"ref":      f.Ref,
				"error":    err.Error(),
			})
			continue
		}
		c.mu.Lock()
		c.refs[f.Ref] = list
		c.mu.Unlock()
	}
}

func (c *Controller) fail(ctx context.Context, action, text string, err error) {
	detail := ""
	var re *client.RequestError
	if errors.As(err, &re) {
		detail = re.Message
	}
	logger.FromContext(ctx, c.lg).Error(action, err, map[string]any{"resource": c.schema.Name})
	c.setNotice(NoticeError, text, detail)
}

func (c *Controller) setNotice(kind NoticeKind, text, detail string) {
	c.mu.Lock()
	c.notice = &Notice{Kind: kind, Text: text, Detail: detail, At: c.now()}
	c.mu.Unlock()
}

func (c *Controller) setBusy(p Phase) {
	c.mu.Lock()
	c.busy = p
	c.mu.Unlock()
}
