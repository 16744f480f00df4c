package grpc

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	pb "github.com/godilite/histogram-browser/api/v1"
	"github.com/godilite/histogram-browser/internal/cascade"
	"github.com/godilite/histogram-browser/internal/widget"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultSessionIdleTTL = 2 * time.Hour
	defaultGRPCTimeout    = 30 * time.Second
	maxSessionLength      = 128
)

type session struct {
	browser  Browser
	lastSeen time.Time
}

// GRPCHandlers serves the HistogramBrowser service, keeping one widget per
// client session.
type GRPCHandlers struct {
	pb.UnimplementedHistogramBrowserServer
	factory BrowserFactory
	logger  *zap.Logger
	sfGroup singleflight.Group
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewGRPCHandlers initializes the gRPC handlers. Sessions idle for longer
// than idleTTL are dropped; a non-positive idleTTL uses the default.
func NewGRPCHandlers(factory BrowserFactory, logger *zap.Logger, idleTTL time.Duration) *GRPCHandlers {
	if factory == nil {
		panic("nil BrowserFactory provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if idleTTL <= 0 {
		idleTTL = defaultSessionIdleTTL
	}
	return &GRPCHandlers{
		factory:  factory,
		logger:   logger.Named("grpc-handler"),
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *GRPCHandlers) LoadCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := requiredField(req, pb.FieldSession)
	if err != nil {
		return nil, err
	}
	course, err := requiredField(req, pb.FieldCourse)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	b, err := s.browser(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, "LoadCourse", err)
	}

	// A repeated click on the same course joins the in-flight load. The load
	// runs detached so one caller leaving does not fail the others.
	ch := s.sfGroup.DoChan(sessionID+"\x00"+course, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultGRPCTimeout)
		defer cancel()
		return b.Load(loadCtx, course)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, s.handleError(ctx, "LoadCourse", ctx.Err())
	case res = <-ch:
	}
	if res.Shared {
		s.logger.Debug("joined in-flight load",
			zap.String("session", sessionID),
			zap.String("course", course))
	}
	if res.Err != nil {
		return nil, s.handleError(ctx, "LoadCourse", res.Err)
	}

	view, ok := res.Val.(widget.View)
	if !ok {
		return nil, status.Error(codes.Internal, "unexpected load result")
	}
	return s.respond("LoadCourse", view)
}

func (s *GRPCHandlers) SelectSemester(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := requiredField(req, pb.FieldSession)
	if err != nil {
		return nil, err
	}
	semester, err := requiredField(req, pb.FieldSemester)
	if err != nil {
		return nil, err
	}

	b, err := s.browser(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, "SelectSemester", err)
	}
	view, err := b.SelectSemester(semester)
	if err != nil {
		return nil, s.handleError(ctx, "SelectSemester", err)
	}
	return s.respond("SelectSemester", view)
}

func (s *GRPCHandlers) SelectCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := requiredField(req, pb.FieldSession)
	if err != nil {
		return nil, err
	}
	category, err := requiredField(req, pb.FieldCategory)
	if err != nil {
		return nil, err
	}

	b, err := s.browser(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, "SelectCategory", err)
	}
	view, err := b.SelectCategory(category)
	if err != nil {
		return nil, s.handleError(ctx, "SelectCategory", err)
	}
	return s.respond("SelectCategory", view)
}

func (s *GRPCHandlers) ShareAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := requiredField(req, pb.FieldSession)
	if err != nil {
		return nil, err
	}
	action, err := requiredField(req, pb.FieldAction)
	if err != nil {
		return nil, err
	}

	b, err := s.browser(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, "ShareAction", err)
	}
	view, err := b.ShareAction(ctx, action)
	if err != nil {
		return nil, s.handleError(ctx, "ShareAction", err)
	}
	return s.respond("ShareAction", view)
}

func (s *GRPCHandlers) GetView(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := requiredField(req, pb.FieldSession)
	if err != nil {
		return nil, err
	}

	b, err := s.browser(ctx, sessionID)
	if err != nil {
		return nil, s.handleError(ctx, "GetView", err)
	}
	return s.respond("GetView", b.View())
}

// SessionCount returns the number of live sessions.
func (s *GRPCHandlers) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// browser returns the widget of sessionID, creating it on first use.
func (s *GRPCHandlers) browser(ctx context.Context, sessionID string) (Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.idleTTL {
			delete(s.sessions, id)
			s.logger.Debug("session expired", zap.String("session", id))
		}
	}

	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = now
		return sess.browser, nil
	}

	b, err := s.factory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions[sessionID] = &session{browser: b, lastSeen: now}
	s.logger.Info("session created", zap.String("session", sessionID))
	return b, nil
}

func (s *GRPCHandlers) respond(op string, view widget.View) (*structpb.Struct, error) {
	out, err := ViewToStruct(view)
	if err != nil {
		s.logger.Error("encode view failed", zap.String("op", op), zap.Error(err))
		return nil, status.Error(codes.Internal, "encode view failed")
	}
	return out, nil
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, cascade.ErrInvalidSelection),
		errors.Is(err, cascade.ErrNoCategories),
		errors.Is(err, widget.ErrUnknownAction):
		s.logger.Info("invalid selection", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, widget.ErrNotReady), errors.Is(err, cascade.ErrNoIndex):
		s.logger.Info("no histograms loaded", zap.String("op", op))
		return status.Error(codes.FailedPrecondition, "no histograms loaded for this session")
	case errors.Is(err, widget.ErrNoGuideCode):
		s.logger.Info("no share code to copy", zap.String("op", op))
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("load timed out", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, widget.ErrLoadSuperseded):
		s.logger.Info("load superseded", zap.String("op", op))
		return status.Error(codes.Aborted, "load superseded by a newer request")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func requiredField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", name)
	}
	value := strings.TrimSpace(str.StringValue)
	if value == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	if name == pb.FieldSession && len(value) > maxSessionLength {
		return "", status.Errorf(codes.InvalidArgument, "%s is too long", name)
	}
	return value, nil
}
