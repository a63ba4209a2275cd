package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/classify"
	"github.com/mealmind-inc/mealmind-engine/pkg/confidence"
	"github.com/mealmind-inc/mealmind-engine/pkg/events"
	"github.com/mealmind-inc/mealmind-engine/pkg/extract"
	"github.com/mealmind-inc/mealmind-engine/pkg/llm"
	"github.com/mealmind-inc/mealmind-engine/pkg/models"
	"github.com/mealmind-inc/mealmind-engine/pkg/prompts"
	"github.com/mealmind-inc/mealmind-engine/pkg/repositories"
	"github.com/mealmind-inc/mealmind-engine/pkg/sanitize"
	"github.com/mealmind-inc/mealmind-engine/pkg/search"
)

// apologyMessage is shown when the extraction engine fails.
const apologyMessage = "Sorry, I couldn't process that right now. Please try again."

// degradedSaveMessage is shown when the ledger write fails and the entry
// only reached the local fallback store.
const degradedSaveMessage = "Saved locally only - I'll sync it once the connection recovers."

// historyLimit caps the turns re-sent to the model per request.
const historyLimit = 6

// exerciseKeywords decide, at commit time, whether an item is energy
// burned rather than consumed.
var exerciseKeywords = []string{
	"workout", "walk", "run", "exercise", "gym", "min", "burned", "bike",
	"swim", "yoga", "cardio", "lifting", "training",
}

var weightPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*kg\b`)

// Augmenter is the grounding dependency of the chat service.
type Augmenter interface {
	Augment(ctx context.Context, text string, mode search.Mode) (*models.SearchContext, error)
}

// TurnResult is what a conversational surface renders for one turn.
type TurnResult struct {
	DisplayText       string `json:"display_text"`
	ConfidencePercent *int   `json:"confidence_percent,omitempty"`
	State             string `json:"state"`
}

// ChatService runs the full logging pipeline for conversational surfaces.
// One conversation is fully serialized; independent conversations proceed
// in parallel.
type ChatService interface {
	// HandleTurn processes one user utterance and returns the display text.
	HandleTurn(ctx context.Context, conversationID, ownerID uuid.UUID, req models.LogRequest) (*TurnResult, error)

	// Confirm commits the pending extraction, if any.
	Confirm(ctx context.Context, conversationID, ownerID uuid.UUID) (*TurnResult, error)

	// Cancel clears the pending extraction without writing.
	Cancel(ctx context.Context, conversationID uuid.UUID) (*TurnResult, error)
}

// conversation is the per-user actor state.
type conversation struct {
	mu      sync.Mutex
	state   pendingState
	history []prompts.Turn
	// turnSeq rises on every new user turn; a pipeline run whose seq no
	// longer matches applies nothing.
	turnSeq uint64
}

type chatService struct {
	augmentor Augmenter
	chat      llm.ChatClient
	entries   repositories.EntryRepository
	fallback  repositories.EntryRepository
	weights   repositories.WeightRepository
	emitter   events.Emitter
	logger    *zap.Logger

	convMu sync.Mutex
	convs  map[uuid.UUID]*conversation
}

// NewChatService creates a ChatService. fallback may be nil to disable the
// local degraded-save path; weights may be nil to disable weight logging.
func NewChatService(
	augmentor Augmenter,
	chat llm.ChatClient,
	entries repositories.EntryRepository,
	fallback repositories.EntryRepository,
	weights repositories.WeightRepository,
	emitter events.Emitter,
	logger *zap.Logger,
) ChatService {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &chatService{
		augmentor: augmentor,
		chat:      chat,
		entries:   entries,
		fallback:  fallback,
		weights:   weights,
		emitter:   emitter,
		logger:    logger.Named("chat-service"),
		convs:     make(map[uuid.UUID]*conversation),
	}
}

var _ ChatService = (*chatService)(nil)

func (s *chatService) conversation(id uuid.UUID) *conversation {
	s.convMu.Lock()
	defer s.convMu.Unlock()
	conv, ok := s.convs[id]
	if !ok {
		conv = &conversation{state: stateIdle{}}
		s.convs[id] = conv
	}
	return conv
}

// HandleTurn routes one utterance by the current state: affirmations and
// cancellations resolve a pending extraction, meal-type replies re-issue
// the retained original text, everything else runs the pipeline fresh.
func (s *chatService) HandleTurn(ctx context.Context, conversationID, ownerID uuid.UUID, req models.LogRequest) (*TurnResult, error) {
	conv := s.conversation(conversationID)

	conv.mu.Lock()
	conv.turnSeq++
	seq := conv.turnSeq
	state := conv.state
	conv.mu.Unlock()

	text := strings.TrimSpace(req.Text)

	switch st := state.(type) {
	case stateAwaitingConfirmation:
		if isAffirmative(text) {
			return s.commitFood(ctx, conv, conversationID, ownerID, st)
		}
		if isNegative(text) {
			return s.cancel(conv, conversationID)
		}
	case stateAwaitingWeight:
		if isAffirmative(text) {
			return s.commitWeight(ctx, conv, conversationID, ownerID, st)
		}
		if isNegative(text) {
			return s.cancel(conv, conversationID)
		}
	case stateAwaitingMealType:
		if mt := models.ParseMealType(text); mt != nil {
			// Re-issue the retained original text with the meal type fixed.
			req = models.LogRequest{Text: st.originalText, MealTypeHint: mt}
			return s.runPipeline(ctx, conv, conversationID, seq, req)
		}
	}

	return s.runPipeline(ctx, conv, conversationID, seq, req)
}

// runPipeline executes classify → augment → compose → complete → sanitize
// and applies the resulting state transition, unless a newer turn has
// arrived in the meantime.
func (s *chatService) runPipeline(ctx context.Context, conv *conversation, conversationID uuid.UUID, seq uint64, req models.LogRequest) (*TurnResult, error) {
	text := strings.TrimSpace(req.Text)

	var sc *models.SearchContext
	if classify.ShouldSearch(text) {
		var err error
		sc, err = s.augmentor.Augment(ctx, text, search.ModeNutrition)
		if err != nil {
			// Grounding is best-effort: proceed with a context-free prompt.
			s.logger.Warn("Search grounding failed, continuing ungrounded",
				zap.String("conversation_id", conversationID.String()),
				zap.Error(err))
			sc = nil
		}
	}

	conv.mu.Lock()
	askMealType := req.MealTypeHint == nil && wantsMealType(text)
	history := append([]prompts.Turn(nil), conv.history...)
	conv.mu.Unlock()

	messages := prompts.Compose(prompts.ComposeInput{
		Search:      sc,
		AskMealType: askMealType,
		History:     history,
		Request:     req,
	})

	raw, err := s.chat.CreateCompletion(ctx, messages)
	if err != nil {
		s.emitter.Emit(events.Event{
			Name:           events.LLMFailed,
			ConversationID: conversationID.String(),
			Fields:         map[string]any{"error": err.Error()},
		})
		s.applyIfCurrent(conv, seq, func() {
			conv.state = stateIdle{}
		})
		return &TurnResult{DisplayText: apologyMessage, State: StateIdle}, nil
	}

	answer := sanitize.Sanitize(raw)
	s.emitter.Emit(events.Event{
		Name:           events.LLMCompleted,
		ConversationID: conversationID.String(),
		Fields:         map[string]any{"model": s.chat.Model(), "answer_len": len(answer)},
	})

	display := extract.StripPayload(answer)
	result := &TurnResult{DisplayText: display}
	applied := s.applyIfCurrent(conv, seq, func() {
		conv.history = append(conv.history, prompts.Turn{UserText: text, AssistantText: display})
		if len(conv.history) > historyLimit {
			conv.history = conv.history[len(conv.history)-historyLimit:]
		}

		switch {
		case asksMealType(answer):
			// A meal-slot question must not clobber a live pending
			// confirmation; the user is answering something else.
			switch conv.state.(type) {
			case stateAwaitingConfirmation, stateAwaitingWeight:
			default:
				conv.state = stateAwaitingMealType{originalText: text}
			}

		case isLoggable(answer):
			if _, wasPending := conv.state.(stateAwaitingConfirmation); wasPending {
				s.emitter.Emit(events.Event{
					Name:           events.PendingSuperseded,
					ConversationID: conversationID.String(),
				})
			}
			if kg, ok := weightFigure(text, answer); ok {
				conv.state = stateAwaitingWeight{kilograms: kg}
			} else {
				var domains []string
				if sc != nil {
					domains = sc.Domains
				}
				conf := confidence.Score(answer, domains)
				conv.state = stateAwaitingConfirmation{
					answerText: answer,
					mealType:   req.MealTypeHint,
					confidence: conf,
				}
				percent := int(conf.Confidence * 100)
				result.ConfidencePercent = &percent
			}

			// A non-loggable answer leaves any pending extraction intact.
		}
		result.State = conv.state.stateName()
	})

	if !applied {
		s.emitter.Emit(events.Event{
			Name:           events.TurnSuperseded,
			ConversationID: conversationID.String(),
		})
		return &TurnResult{DisplayText: "", State: s.currentState(conv)}, nil
	}
	return result, nil
}

// Confirm resolves the pending extraction the way an explicit UI confirm
// action does.
func (s *chatService) Confirm(ctx context.Context, conversationID, ownerID uuid.UUID) (*TurnResult, error) {
	conv := s.conversation(conversationID)

	conv.mu.Lock()
	state := conv.state
	conv.mu.Unlock()

	switch st := state.(type) {
	case stateAwaitingConfirmation:
		return s.commitFood(ctx, conv, conversationID, ownerID, st)
	case stateAwaitingWeight:
		return s.commitWeight(ctx, conv, conversationID, ownerID, st)
	default:
		return &TurnResult{DisplayText: "There's nothing pending to confirm.", State: state.stateName()}, nil
	}
}

// Cancel clears any pending extraction without writing.
func (s *chatService) Cancel(_ context.Context, conversationID uuid.UUID) (*TurnResult, error) {
	return s.cancel(s.conversation(conversationID), conversationID)
}

func (s *chatService) cancel(conv *conversation, conversationID uuid.UUID) (*TurnResult, error) {
	conv.mu.Lock()
	conv.state = stateIdle{}
	conv.mu.Unlock()

	s.emitter.Emit(events.Event{
		Name:           events.CommitOutcome,
		ConversationID: conversationID.String(),
		Fields:         map[string]any{"outcome": "cancelled"},
	})
	return &TurnResult{DisplayText: "Okay, I won't log that.", State: StateIdle}, nil
}

// commitFood extracts items from the retained answer and writes them one at
// a time. Zero extracted items means nothing is written even though the
// user confirmed. Storage failures degrade to the local fallback and never
// block the turn.
func (s *chatService) commitFood(ctx context.Context, conv *conversation, conversationID, ownerID uuid.UUID, st stateAwaitingConfirmation) (*TurnResult, error) {
	items := extract.Extract(st.answerText)
	s.emitter.Emit(events.Event{
		Name:           events.ExtractionOutcome,
		ConversationID: conversationID.String(),
		Fields:         map[string]any{"items": len(items)},
	})

	conv.mu.Lock()
	conv.state = stateIdle{}
	conv.mu.Unlock()

	if len(items) == 0 {
		return &TurnResult{
			DisplayText: "I couldn't find anything to log in that.",
			State:       StateIdle,
		}, nil
	}

	degraded := false
	logged := make([]string, 0, len(items))
	for _, item := range items {
		entry := s.buildEntry(ownerID, item, st)
		if err := s.entries.Save(ctx, entry); err != nil {
			s.logger.Error("Ledger write failed",
				zap.String("conversation_id", conversationID.String()),
				zap.String("entry", entry.Name),
				zap.Error(err))
			degraded = true
			if s.fallback != nil {
				if fbErr := s.fallback.Save(ctx, entry); fbErr != nil {
					s.logger.Error("Local fallback write failed", zap.Error(fbErr))
				}
			}
			s.emitter.Emit(events.Event{
				Name:           events.PersistenceDegrade,
				ConversationID: conversationID.String(),
				Fields:         map[string]any{"entry": entry.Name},
			})
		}
		logged = append(logged, entry.Name)
	}

	s.emitter.Emit(events.Event{
		Name:           events.CommitOutcome,
		ConversationID: conversationID.String(),
		Fields:         map[string]any{"outcome": "committed", "entries": len(logged)},
	})

	display := fmt.Sprintf("Logged %s.", joinNames(logged))
	if degraded {
		display = degradedSaveMessage
	}
	percent := int(st.confidence.Confidence * 100)
	return &TurnResult{DisplayText: display, ConfidencePercent: &percent, State: StateIdle}, nil
}

func (s *chatService) commitWeight(ctx context.Context, conv *conversation, conversationID, ownerID uuid.UUID, st stateAwaitingWeight) (*TurnResult, error) {
	conv.mu.Lock()
	conv.state = stateIdle{}
	conv.mu.Unlock()

	display := fmt.Sprintf("Logged your weight at %.1f kg.", st.kilograms)
	if s.weights != nil {
		entry := &models.WeightEntry{
			ID:       uuid.New(),
			OwnerID:  ownerID,
			Kilogram: st.kilograms,
			LoggedAt: time.Now().UTC(),
		}
		if err := s.weights.Save(ctx, entry); err != nil {
			s.logger.Error("Weight write failed",
				zap.String("conversation_id", conversationID.String()),
				zap.Error(err))
			display = degradedSaveMessage
		}
	}

	s.emitter.Emit(events.Event{
		Name:           events.CommitOutcome,
		ConversationID: conversationID.String(),
		Fields:         map[string]any{"outcome": "committed", "weight_kg": st.kilograms},
	})
	return &TurnResult{DisplayText: display, State: StateIdle}, nil
}

// buildEntry turns one extracted item into a durable entry. Exercise is
// detected by the fixed keyword list (or an explicit burned flag) and gets
// negated calories with no meal type.
func (s *chatService) buildEntry(ownerID uuid.UUID, item models.ExtractedItem, st stateAwaitingConfirmation) *models.FoodEntry {
	entry := &models.FoodEntry{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Name:       item.Name,
		Calories:   item.Calories,
		Protein:    item.Protein,
		Carbs:      item.Carbs,
		Fat:        item.Fat,
		Confidence: st.confidence.Confidence,
		Source:     st.confidence.Source,
		LoggedAt:   time.Now().UTC(),
	}

	if item.Burned || isExerciseName(item.Name) {
		entry.Calories = -item.Calories
		entry.MealType = nil
		return entry
	}

	entry.MealType = st.mealType
	return entry
}

// applyIfCurrent runs apply under the conversation lock only when the turn
// is still the latest one; a stale turn's result is discarded.
func (s *chatService) applyIfCurrent(conv *conversation, seq uint64, apply func()) bool {
	conv.mu.Lock()
	defer conv.mu.Unlock()
	if conv.turnSeq != seq {
		return false
	}
	apply()
	return true
}

func (s *chatService) currentState(conv *conversation) string {
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return conv.state.stateName()
}

func isAffirmative(text string) bool {
	t := strings.ToLower(strings.Trim(strings.TrimSpace(text), ".!"))
	return t == "y" || t == "yes"
}

func isNegative(text string) bool {
	t := strings.ToLower(strings.Trim(strings.TrimSpace(text), ".!"))
	return t == "n" || t == "no" || t == "cancel"
}

// asksMealType detects a model answer that requests the meal slot.
func asksMealType(answer string) bool {
	return strings.Contains(strings.ToLower(answer), prompts.MealTypeMarker)
}

// isLoggable detects an answer carrying both a figure and the loggable
// marker phrase.
func isLoggable(answer string) bool {
	if !strings.ContainsAny(answer, "0123456789") {
		return false
	}
	lower := strings.ToLower(answer)
	if strings.Contains(answer, sanitize.ConfirmPrompt) {
		return true
	}
	return strings.Contains(lower, "calorie") || strings.Contains(lower, " cal") ||
		strings.Contains(lower, "kcal")
}

// wantsMealType reports whether a fresh utterance is a food-logging request
// that still needs a meal slot. Only utterances that actually name food
// qualify; questions, exercise descriptions, and weight reports do not
// prompt for one.
func wantsMealType(text string) bool {
	lower := strings.ToLower(text)
	if !classify.MentionsFood(lower) {
		return false
	}
	if strings.Contains(lower, "?") {
		return false
	}
	if isExerciseName(lower) {
		return false
	}
	if _, isWeight := parseKilograms(lower); isWeight {
		return false
	}
	return true
}

func isExerciseName(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range exerciseKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// weightFigure detects a weight-logging exchange: the user talked about
// weight and the answer carries a kg figure.
func weightFigure(userText, answer string) (float64, bool) {
	lower := strings.ToLower(userText)
	if !strings.Contains(lower, "weigh") {
		return 0, false
	}
	if kg, ok := parseKilograms(answer); ok {
		return kg, true
	}
	return parseKilograms(userText)
}

func parseKilograms(text string) (float64, bool) {
	m := weightPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	kg, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return kg, kg > 0
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
