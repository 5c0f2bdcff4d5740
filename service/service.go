package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/c360studio/semstreams/pkg/errs"

	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/ontology"
)

// DefaultSubjectPrefix is the subject root used when none is configured.
const DefaultSubjectPrefix = "brick.query"

// Operation names a query; it is also the last token of its subject.
type Operation string

// Supported operations.
const (
	OpDescribe     Operation = "describe"
	OpSubclasses   Operation = "subclasses"
	OpSuperclasses Operation = "superclasses"
	OpTags         Operation = "tags"
	OpProperties   Operation = "properties"
	OpClasses      Operation = "classes"
)

// Operations lists every operation the service subscribes to.
var Operations = []Operation{OpDescribe, OpSubclasses, OpSuperclasses, OpTags, OpProperties, OpClasses}

// ErrNoOntology is reported while no snapshot has been loaded.
var ErrNoOntology = errors.New("no ontology loaded")

// Request is the JSON body of a query.
type Request struct {
	RequestID string `json:"request_id,omitempty"`
	Class     string `json:"class,omitempty"`
}

// Response is the JSON body of a reply. Result is null when Error is set.
type Response struct {
	RequestID  string `json:"request_id"`
	OntologyID string `json:"ontology_id,omitempty"`
	Result     any    `json:"result"`
	Error      string `json:"error,omitempty"`
}

// Config configures a QueryService.
type Config struct {
	SubjectPrefix string
	QueueGroup    string
}

// QueryService answers ontology queries over NATS request/reply.
type QueryService struct {
	holder *Holder
	cfg    Config
	logger *slog.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
	stop chan struct{}
}

// NewQueryService creates a service answering from holder's current snapshot.
func NewQueryService(holder *Holder, cfg Config, logger *slog.Logger) *QueryService {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{holder: holder, cfg: cfg, logger: logger}
}

// Subject returns the subject an operation is served on.
func (s *QueryService) Subject(op Operation) string {
	return s.cfg.SubjectPrefix + "." + string(op)
}

// Start subscribes every operation on nc. Subscriptions end when ctx is
// cancelled or Stop is called.
func (s *QueryService) Start(ctx context.Context, nc *nats.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.subs) > 0 {
		return errs.WrapInvalid(errors.New("already started"), "QueryService", "Start", "subscribe")
	}

	for _, op := range Operations {
		sub, err := nc.QueueSubscribe(s.Subject(op), s.cfg.QueueGroup, func(msg *nats.Msg) {
			s.respond(msg, op)
		})
		if err != nil {
			s.unsubscribeLocked()
			return errs.WrapTransient(err, "QueryService", "Start", fmt.Sprintf("subscribe %s", s.Subject(op)))
		}
		s.subs = append(s.subs, sub)
	}

	s.logger.Info("Query service started",
		slog.String("subjects", s.cfg.SubjectPrefix+".*"),
		slog.String("queue_group", s.cfg.QueueGroup))

	s.armStopLocked(ctx)
	return nil
}

// armStopLocked starts the goroutine that calls Stop when ctx ends. It exits
// on a direct Stop as well; the returned channel is closed when it does.
func (s *QueryService) armStopLocked(ctx context.Context) <-chan struct{} {
	stop := make(chan struct{})
	s.stop = stop
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stop:
		}
	}()
	return done
}

// Stop removes all subscriptions. It is safe to call more than once.
func (s *QueryService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.unsubscribeLocked()
}

func (s *QueryService) unsubscribeLocked() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			s.logger.Debug("Unsubscribe failed", slog.String("subject", sub.Subject), slog.String("error", err.Error()))
		}
	}
	s.subs = nil
}

func (s *QueryService) respond(msg *nats.Msg, op Operation) {
	resp := s.Handle(op, msg.Data)
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(Response{RequestID: resp.RequestID, OntologyID: resp.OntologyID, Error: err.Error()})
	}
	if err := msg.Respond(data); err != nil {
		err = errs.WrapTransient(err, "QueryService", "respond", "publish reply")
		s.logger.Warn("Failed to send reply",
			slog.String("subject", msg.Subject),
			slog.String("request_id", resp.RequestID),
			slog.String("error", err.Error()))
	}
}

// Handle answers one request body for op. Failures are reported in the
// response, never as a Go error, so every request gets a reply.
func (s *QueryService) Handle(op Operation, data []byte) Response {
	var req Request
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return Response{RequestID: uuid.NewString(), Error: fmt.Sprintf("invalid request: %v", err)}
		}
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	resp := Response{RequestID: req.RequestID}

	o := s.holder.Load()
	if o == nil {
		resp.Error = ErrNoOntology.Error()
		return resp
	}
	resp.OntologyID = o.ID()

	result, err := query(o, op, curie.Text(req.Class))
	if err != nil {
		s.logger.Debug("Query failed",
			slog.String("operation", string(op)),
			slog.String("class", req.Class),
			slog.String("request_id", req.RequestID),
			slog.String("error", err.Error()))
		resp.Error = err.Error()
		return resp
	}
	resp.Result = result
	return resp
}

// query runs op against o. Describe reports unknown classes as errors.
func query(o *ontology.Ontology, op Operation, class curie.Text) (any, error) {
	switch op {
	case OpDescribe:
		return o.Lookup(class)
	case OpSubclasses:
		return o.SubclassesOf(class)
	case OpSuperclasses:
		return o.SuperclassesOf(class)
	case OpTags:
		return o.TagsOf(class)
	case OpProperties:
		return o.PropertiesOf(class)
	case OpClasses:
		return o.Classes()
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}
