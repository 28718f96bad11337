package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/fieldserve/appointments/internal/domain"
	"github.com/fieldserve/appointments/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NegotiationService mediates the multi-turn natural-language reschedule
// negotiation. Sessions are held in memory only; a restart forgets them.
//
// Each session moves through: awaiting input -> (chat turn) -> awaiting
// input or directive found; a found directive goes back to the start on a
// successful confirm, a reset, or teardown. There are no timeout-driven
// transitions.
type NegotiationService struct {
	repo            domain.AppointmentRepository
	llmRouter       *llm.Router
	sendFullHistory bool

	mu       sync.RWMutex
	sessions map[uuid.UUID]*liveSession
}

// liveSession pairs session state with its own lock so one slow chat call
// does not block other customers. UI actions on the same session run to
// completion one at a time.
type liveSession struct {
	mu      sync.Mutex
	session *domain.ConversationSession
}

// TurnResult is what one chat turn produced.
type TurnResult struct {
	Reply                string            `json:"reply"`
	Directive            *domain.Directive `json:"directive,omitempty"`
	AssistantUnavailable bool              `json:"assistant_unavailable,omitempty"`
}

// NewNegotiationService creates a new negotiation service. sendFullHistory
// selects whether each turn replays the whole conversation to the assistant
// or only the latest message.
func NewNegotiationService(repo domain.AppointmentRepository, llmRouter *llm.Router, sendFullHistory bool) *NegotiationService {
	return &NegotiationService{
		repo:            repo,
		llmRouter:       llmRouter,
		sendFullHistory: sendFullHistory,
		sessions:        make(map[uuid.UUID]*liveSession),
	}
}

// Available reports whether any chat assistant is configured. When false,
// the chat feature is disabled rather than failing per request.
func (s *NegotiationService) Available() bool {
	return s.llmRouter.HasConfigured()
}

// Start creates a session for one work order: the appointment snapshot is
// read once and rendered into the fixed system context the assistant sees
// for the session's whole lifetime.
func (s *NegotiationService) Start(ctx context.Context, workOrder string) (*domain.ConversationSession, error) {
	if !s.Available() {
		return nil, domain.ErrFeatureDisabled
	}

	appt, err := s.repo.GetByWorkOrder(ctx, workOrder)
	if err != nil {
		return nil, err
	}

	session := &domain.ConversationSession{
		ID:            uuid.New(),
		WorkOrder:     appt.WorkOrder,
		SystemContext: llm.BuildSystemContext(*appt),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &liveSession{session: session}
	s.mu.Unlock()

	log.Info().
		Str("session_id", session.ID.String()).
		Str("work_order", session.WorkOrder).
		Msg("negotiation session started")

	snapshot := *session
	return &snapshot, nil
}

// GetSession returns a copy of the session state for display.
func (s *NegotiationService) GetSession(sessionID uuid.UUID) (*domain.ConversationSession, error) {
	ls, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	snapshot := *ls.session
	snapshot.History = append([]domain.Turn(nil), ls.session.History...)
	if ls.session.PendingDirective != nil {
		d := *ls.session.PendingDirective
		snapshot.PendingDirective = &d
	}
	return &snapshot, nil
}

// Turn sends one customer utterance through the assistant and parses the
// reply for a reschedule directive.
//
// When the assistant call fails, the user turn is kept, a synthesized
// message reporting the failure becomes the assistant turn, the pending
// directive is left untouched and no store call happens; the conversation
// stays usable.
func (s *NegotiationService) Turn(ctx context.Context, sessionID uuid.UUID, userText string) (*TurnResult, error) {
	ls, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	session := ls.session
	session.History = append(session.History, domain.Turn{Role: domain.RoleUser, Content: userText})

	conversation := session.History
	if !s.sendFullHistory {
		conversation = session.History[len(session.History)-1:]
	}

	reply, err := s.complete(ctx, llm.Request{
		SystemContext: session.SystemContext,
		Conversation:  conversation,
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("session_id", sessionID.String()).
			Msg("assistant call failed")

		notice := fmt.Sprintf("Sorry, the scheduling assistant is unavailable right now (%v). Please try sending your message again.", err)
		session.History = append(session.History, domain.Turn{Role: domain.RoleAssistant, Content: notice})
		return &TurnResult{Reply: notice, AssistantUnavailable: true}, nil
	}

	session.History = append(session.History, domain.Turn{Role: domain.RoleAssistant, Content: reply})

	result := &TurnResult{Reply: reply}
	if directive, parsed := llm.ParseDirective(reply); parsed == llm.DirectiveFound {
		session.PendingDirective = &directive
		d := directive
		result.Directive = &d
		log.Info().
			Str("session_id", sessionID.String()).
			Str("date", directive.Date).
			Str("time", directive.Time).
			Msg("reschedule directive detected")
	}

	return result, nil
}

// Confirm commits the pending directive to the store and resets the session
// so a fresh negotiation can begin. Store failure leaves the session intact
// for a retry.
func (s *NegotiationService) Confirm(ctx context.Context, sessionID uuid.UUID) (*domain.Directive, error) {
	ls, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	session := ls.session
	if session.PendingDirective == nil {
		return nil, domain.ErrNoPendingDirective
	}

	directive := *session.PendingDirective
	if err := s.repo.UpdateSchedule(ctx, session.WorkOrder, directive.Date, directive.Time, domain.StatusRescheduled); err != nil {
		return nil, err
	}

	session.History = nil
	session.PendingDirective = nil
	s.rebuildContext(ctx, session)

	log.Info().
		Str("session_id", sessionID.String()).
		Str("work_order", session.WorkOrder).
		Str("date", directive.Date).
		Str("time", directive.Time).
		Msg("appointment rescheduled")

	return &directive, nil
}

// Reset clears the conversation for an explicit "new chat".
func (s *NegotiationService) Reset(ctx context.Context, sessionID uuid.UUID) error {
	ls, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.session.History = nil
	ls.session.PendingDirective = nil
	s.rebuildContext(ctx, ls.session)
	return nil
}

// End drops the session entirely (logout or navigation away).
func (s *NegotiationService) End(sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *NegotiationService) lookup(sessionID uuid.UUID) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ls, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return ls, nil
}

func (s *NegotiationService) complete(ctx context.Context, req llm.Request) (string, error) {
	provider, err := s.llmRouter.GetProvider("")
	if err != nil {
		return "", err
	}

	resp, err := provider.Complete(ctx, req, "")
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// rebuildContext refreshes the system context from the current store row.
// A read failure keeps the previous context; the session must stay usable.
func (s *NegotiationService) rebuildContext(ctx context.Context, session *domain.ConversationSession) {
	appt, err := s.repo.GetByWorkOrder(ctx, session.WorkOrder)
	if err != nil {
		log.Warn().
			Err(err).
			Str("work_order", session.WorkOrder).
			Msg("could not refresh session context")
		return
	}
	session.SystemContext = llm.BuildSystemContext(*appt)
}
