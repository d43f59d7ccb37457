package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
	nodex "github.com/tanpawarit/chatfood/agent/nodes"
	"github.com/tanpawarit/chatfood/agent/observers"
	statex "github.com/tanpawarit/chatfood/agent/state"
	logx "github.com/tanpawarit/chatfood/pkg/logger"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
	ErrUnknownAction  = fmt.Errorf("%w: unknown action", contractx.ErrValidation)
)

type Config struct {
	// RecommendationRate is the chance in [0, 1] that a new session opens
	// with a personalised offer instead of the static greeting.
	RecommendationRate float64
}

type Orchestrator struct {
	store    statex.Store
	registry contractx.Registry

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	recommendationRate float64

	now   func() time.Time
	newID func() string
	roll  func() float64
}

// TurnOption tunes a single StartSession or HandleMessage call.
type TurnOption func(*turnOptions)

type turnOptions struct {
	report observers.StepReporter
}

// WithStepReporter streams progress labels for the call to r.
func WithStepReporter(r observers.StepReporter) TurnOption {
	return func(o *turnOptions) {
		o.report = r
	}
}

func New(store statex.Store, registry contractx.Registry, cfg Config) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if registry == nil {
		return nil, errors.New("agent registry is required")
	}

	rate := cfg.RecommendationRate
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}

	o := &Orchestrator{
		store:              store,
		registry:           registry,
		recommendationRate: rate,
		now:                time.Now,
		newID:              uuid.NewString,
		roll:               rand.Float64,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func applyTurnOptions(ctx context.Context, opts []TurnOption) context.Context {
	var to turnOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&to)
		}
	}
	return observers.WithStepReporter(ctx, to.report)
}

// StartSession opens a conversation and returns its id with the opening
// message. The greeting is stored as the first assistant message.
func (o *Orchestrator) StartSession(ctx context.Context, opts ...TurnOption) (string, []contractx.OutboundMessage, error) {
	ctx = applyTurnOptions(ctx, opts)
	now := o.now()
	sess := statex.NewSession(o.newID(), now)

	opening := nodex.Text(nodex.WelcomeText)
	if o.recommendationRate > 0 && o.roll() < o.recommendationRate {
		if report := observers.StepReporterFrom(ctx); report != nil {
			report(nodex.PreparingOffer)
		}
		greeting, err := o.registry.Recommender().Recommend(ctx)
		if err != nil {
			logx.Warn().Err(err).Str("session_id", sess.ID).Msg("orchestrator: recommendation failed, using static greeting")
		} else {
			opening = nodex.OfferMessage(greeting)
		}
	}
	sess.Append(schema.AssistantMessage(opening.Text, nil))

	if err := nodex.ValidateAndSaveSession(ctx, o.store, sess, now); err != nil {
		return "", nil, err
	}

	logx.Info().Str("session_id", sess.ID).Bool("offer", len(opening.Actions) > 0).Msg("orchestrator: session started")
	return sess.ID, []contractx.OutboundMessage{opening}, nil
}

// HandleMessage runs one turn. Failures inside the turn are logged and
// answered with an apology; the session, with whatever history the turn
// produced, is saved either way. Only invalid input and storage failures are
// returned as errors.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID string, text string, opts ...TurnOption) ([]contractx.OutboundMessage, error) {
	req, err := nodex.ValidateRequest(sessionID, text)
	if err != nil {
		return nil, err
	}
	ctx = applyTurnOptions(ctx, opts)
	now := o.now()

	sess, err := nodex.LoadOrCreateSession(ctx, o.store, req.SessionID, now)
	if err != nil {
		return nil, err
	}

	turnCtx, invokeOpts := observers.InvokeOptions(ctx)
	out, err := o.graphRunner.Invoke(turnCtx, nodex.GraphInput{
		Session: sess,
		Text:    req.Text,
		Now:     now,
	}, invokeOpts...)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sess.ID).Msg("orchestrator: turn failed")
		out = nodex.GraphOutput{Messages: nodex.Apology()}
	} else {
		logx.Info().
			Str("session_id", sess.ID).
			Str("agent", string(out.Agent)).
			Int("messages", len(out.Messages)).
			Msg("orchestrator: turn completed")
	}

	if err := nodex.ValidateAndSaveSession(ctx, o.store, sess, o.now()); err != nil {
		return out.Messages, err
	}
	return out.Messages, nil
}

// HandleAction applies a button press from the front-end.
func (o *Orchestrator) HandleAction(ctx context.Context, sessionID string, ev contractx.ActionEvent) ([]contractx.OutboundMessage, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	now := o.now()

	sess, err := nodex.LoadOrCreateSession(ctx, o.store, sessionID, now)
	if err != nil {
		return nil, err
	}

	var reply contractx.OutboundMessage
	switch ev.Name {
	case contractx.ActionAddToCart:
		name := strings.TrimSpace(ev.Payload)
		if name == "" {
			return nil, fmt.Errorf("%w: add_to_cart needs a food name", contractx.ErrValidation)
		}
		count := sess.AddToCart(name)
		logx.Info().Str("session_id", sessionID).Str("food", name).Int("cart_size", count).Msg("orchestrator: added to cart")
		reply = nodex.CartConfirmation(name, count)
	case contractx.ActionOfferResponse:
		reply = nodex.OfferAcknowledgement(ev.Payload)
	default:
		return nil, fmt.Errorf("%w: name=%q", ErrUnknownAction, ev.Name)
	}

	if err := nodex.ValidateAndSaveSession(ctx, o.store, sess, now); err != nil {
		return nil, err
	}
	return []contractx.OutboundMessage{reply}, nil
}

// Cart returns the session's cart in insertion order.
func (o *Orchestrator) Cart(ctx context.Context, sessionID string) ([]string, error) {
	sess, err := o.store.Load(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, err
	}
	return append([]string(nil), sess.Cart...), nil
}

func (o *Orchestrator) EndSession(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrInvalidSession
	}
	if err := o.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("end session=%s: %w", sessionID, err)
	}
	logx.Info().Str("session_id", sessionID).Msg("orchestrator: session ended")
	return nil
}
