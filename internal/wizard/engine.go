package wizard

import (
	"context"
	"errors"
	"fmt"

	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/metrics"

	"go.uber.org/zap"
)

// MenuProvider renders the keyboard of a named menu for a user
type MenuProvider interface {
	Keyboard(ctx context.Context, userID int64, menu string) [][]string
}

// Engine interprets wizard definitions against per-user state
type Engine struct {
	store     conversation.Store
	lists     conversation.ListStore
	transport chat.Transport
	menus     MenuProvider
	labels    Labels
	defs      map[Kind]*Definition
	logger    *zap.Logger
}

// NewEngine creates an engine without definitions
func NewEngine(
	store conversation.Store,
	lists conversation.ListStore,
	transport chat.Transport,
	menus MenuProvider,
	labels Labels,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		store:     store,
		lists:     lists,
		transport: transport,
		menus:     menus,
		labels:    labels,
		defs:      make(map[Kind]*Definition),
		logger:    logger,
	}
}

// Register adds definitions. Invalid or duplicate definitions are rejected.
func (e *Engine) Register(defs ...*Definition) error {
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return err
		}
		if _, dup := e.defs[d.Kind]; dup {
			return fmt.Errorf("wizard %q registered twice", d.Kind)
		}
		e.defs[d.Kind] = d
	}
	return nil
}

// Active reports whether userID is inside a wizard
func (e *Engine) Active(userID int64) bool {
	_, ok := e.store.Get(userID)
	return ok
}

// Start opens a wizard for userID. Preset values are stored before the first
// prompt so steps that already have their value can be skipped.
// If another wizard is active, domain.ErrWizardActive is returned and the
// existing state is left untouched.
func (e *Engine) Start(ctx context.Context, userID int64, kind Kind, preset ...Pair) error {
	def, ok := e.defs[kind]
	if !ok {
		return fmt.Errorf("unknown wizard %q", kind)
	}

	state, err := e.store.Start(userID, kind, def.Steps[0].Name)
	if err != nil {
		metrics.WizardsStarted.WithLabelValues(string(kind), "rejected").Inc()
		active := ""
		if state != nil {
			active = string(state.Kind)
		}
		e.logger.Info("Wizard start rejected",
			zap.Int64("user_id", userID),
			zap.String("wizard", string(kind)),
			zap.String("active", active),
			zap.Error(err),
		)
		return err
	}
	metrics.WizardsStarted.WithLabelValues(string(kind), "started").Inc()

	log := e.logger.With(
		zap.Int64("user_id", userID),
		zap.String("wizard", string(kind)),
		zap.String("session_id", state.SessionID.String()),
	)
	log.Debug("Wizard started")

	fields := conversation.NewFields()
	for _, p := range preset {
		fields.Set(p.Key, p.Value)
	}
	if def.Init != nil {
		if err := def.Init(ctx, userID, fields); err != nil {
			_, rerr := e.fail(ctx, userID, def, log, err)
			return rerr
		}
	}

	first := e.skipFrom(def, 0, fields)
	if first < 0 {
		_, err := e.commit(ctx, userID, def, fields, log)
		return err
	}

	step := def.Steps[first]
	if err := e.store.Update(userID, func(s *conversation.State) {
		s.Fields = fields
		s.Step = step.Name
	}); err != nil {
		return err
	}

	if err := e.renderStep(ctx, userID, def, step, fields, ""); err != nil {
		_, rerr := e.fail(ctx, userID, def, log, err)
		return rerr
	}
	return nil
}

// Abort clears any active wizard without rendering. It reports whether one existed.
func (e *Engine) Abort(userID int64) bool {
	state, ok := e.store.Get(userID)
	if !ok {
		return false
	}
	e.store.Clear(userID)
	e.lists.ClearOwned(userID, state.Kind)
	metrics.WizardOutcomes.WithLabelValues(string(state.Kind), Cancelled.String()).Inc()
	return true
}

// Handle feeds one input to the user's active wizard
func (e *Engine) Handle(ctx context.Context, in chat.Input) (Outcome, error) {
	state, ok := e.store.Get(in.UserID)
	if !ok {
		return NoActive, nil
	}

	def, ok := e.defs[state.Kind]
	if !ok {
		e.store.Clear(in.UserID)
		return NoActive, fmt.Errorf("active wizard %q is not registered", state.Kind)
	}

	log := e.logger.With(
		zap.Int64("user_id", in.UserID),
		zap.String("wizard", string(state.Kind)),
		zap.String("session_id", state.SessionID.String()),
		zap.String("step", state.Step),
	)

	outcome, err := e.handle(ctx, in, state, def, log)
	metrics.WizardOutcomes.WithLabelValues(string(state.Kind), outcome.String()).Inc()
	return outcome, err
}

func (e *Engine) handle(ctx context.Context, in chat.Input, state *conversation.State, def *Definition, log *zap.Logger) (Outcome, error) {
	if e.labels.isCancel(in) {
		log.Debug("Wizard cancelled")
		e.terminate(in.UserID, state.Kind)
		text := def.CancelText
		if text == "" {
			text = "❌ Операция отменена"
		}
		return Cancelled, e.finish(ctx, in.UserID, def, Result{Message: text})
	}

	idx := def.stepIndex(state.Step)
	if idx < 0 {
		e.terminate(in.UserID, state.Kind)
		return Failed, fmt.Errorf("wizard %q has no step %q", state.Kind, state.Step)
	}
	step := def.Steps[idx]

	if step.Confirm {
		return e.handleConfirm(ctx, in, state, def, step, log)
	}

	var choices *conversation.ListContext
	if l, ok := e.lists.Get(in.UserID); ok && l.Owner == state.Kind && l.Name == step.Name {
		choices = l
	}

	value, err := step.Validate(ctx, Input{
		UserID:  in.UserID,
		Text:    in.Text,
		Token:   in.Token,
		Skip:    e.labels.isSkip(in),
		Fields:  state.Fields.Clone(),
		Choices: choices,
	})
	if err != nil {
		if retry, ok := IsRetry(err); ok {
			log.Debug("Step input rejected", zap.String("reason", retry.Reason))
			if uerr := e.store.Update(in.UserID, func(s *conversation.State) { s.Retries++ }); uerr != nil {
				return Failed, uerr
			}
			if rerr := e.renderStep(ctx, in.UserID, def, step, state.Fields, retry.Reason); rerr != nil {
				return e.fail(ctx, in.UserID, def, log, rerr)
			}
			return Retried, nil
		}
		return e.fail(ctx, in.UserID, def, log, err)
	}

	fields := state.Fields.Clone()
	if multi, ok := value.(Values); ok {
		for _, p := range multi {
			fields.Set(p.Key, p.Value)
		}
	} else {
		fields.Set(step.Field, value)
	}

	next, err := e.nextIndex(def, idx, value, fields)
	if err != nil {
		return e.fail(ctx, in.UserID, def, log, err)
	}
	if next < 0 {
		return e.commit(ctx, in.UserID, def, fields, log)
	}

	nextStep := def.Steps[next]
	if err := e.store.Update(in.UserID, func(s *conversation.State) {
		s.Fields = fields
		s.Step = nextStep.Name
		s.Retries = 0
	}); err != nil {
		return Failed, err
	}
	e.lists.ClearOwned(in.UserID, state.Kind)

	if err := e.renderStep(ctx, in.UserID, def, nextStep, fields, ""); err != nil {
		return e.fail(ctx, in.UserID, def, log, err)
	}
	return Advanced, nil
}

func (e *Engine) handleConfirm(ctx context.Context, in chat.Input, state *conversation.State, def *Definition, step Step, log *zap.Logger) (Outcome, error) {
	yes, ok := e.labels.confirmation(in)
	if !ok {
		if err := e.store.Update(in.UserID, func(s *conversation.State) { s.Retries++ }); err != nil {
			return Failed, err
		}
		if err := e.renderStep(ctx, in.UserID, def, step, state.Fields, "Подтвердите или отмените операцию"); err != nil {
			return e.fail(ctx, in.UserID, def, log, err)
		}
		return Retried, nil
	}

	if !yes {
		log.Debug("Wizard declined at confirmation")
		e.terminate(in.UserID, state.Kind)
		text := def.DeclineText
		if text == "" {
			text = def.CancelText
		}
		if text == "" {
			text = "❌ Операция отменена"
		}
		return Declined, e.finish(ctx, in.UserID, def, Result{Message: text})
	}

	fields := state.Fields.Clone()
	fields.Set(confirmField, true)
	return e.commit(ctx, in.UserID, def, fields, log)
}

func (e *Engine) commit(ctx context.Context, userID int64, def *Definition, fields *conversation.Fields, log *zap.Logger) (Outcome, error) {
	// state goes first so a failing commit can never be retried with stale fields
	e.terminate(userID, def.Kind)

	result, err := def.Commit(ctx, userID, fields)
	if err != nil {
		return e.report(ctx, userID, def, log, err)
	}

	log.Info("Wizard committed", zap.Strings("fields", fields.Keys()))
	return Committed, e.finish(ctx, userID, def, result)
}

// fail terminates the wizard after a storage or rendering failure
func (e *Engine) fail(ctx context.Context, userID int64, def *Definition, log *zap.Logger, cause error) (Outcome, error) {
	e.terminate(userID, def.Kind)
	return e.report(ctx, userID, def, log, cause)
}

func (e *Engine) report(ctx context.Context, userID int64, def *Definition, log *zap.Logger, cause error) (Outcome, error) {
	text := defaultFailed
	if errors.Is(cause, domain.ErrNothingToSelect) {
		text = "ℹ️ Нет доступных вариантов для выбора"
	}
	if def.FailureMessage != nil {
		if msg, ok := def.FailureMessage(cause); ok {
			text = msg
		}
	}

	if errors.Is(cause, domain.ErrNothingToSelect) {
		log.Info("Wizard stopped: nothing to select")
	} else {
		log.Error("Wizard failed", zap.Error(cause))
	}
	return Failed, e.finish(ctx, userID, def, Result{Message: text})
}

func (e *Engine) terminate(userID int64, kind Kind) {
	e.store.Clear(userID)
	e.lists.ClearOwned(userID, kind)
}

func (e *Engine) finish(ctx context.Context, userID int64, def *Definition, result Result) error {
	msg := chat.Message{
		Text:     result.Message,
		Keyboard: e.menus.Keyboard(ctx, userID, def.ReturnMenu),
	}
	if err := e.transport.RenderPrompt(ctx, userID, msg); err != nil {
		return err
	}
	if len(result.Inline) > 0 {
		return e.transport.RenderPrompt(ctx, userID, chat.Message{Text: "Действия:", Inline: result.Inline})
	}
	return nil
}

// nextIndex resolves the branch rule and skips steps whose value is known.
// A negative index means the sequence is finished.
func (e *Engine) nextIndex(def *Definition, idx int, value any, fields *conversation.Fields) (int, error) {
	next := idx + 1
	if step := def.Steps[idx]; step.Next != nil {
		switch name := step.Next(value, fields); name {
		case "":
		case End:
			return -1, nil
		default:
			next = def.stepIndex(name)
			if next < 0 {
				return -1, fmt.Errorf("step %q branches to unknown step %q", step.Name, name)
			}
		}
	}
	return e.skipFrom(def, next, fields), nil
}

func (e *Engine) skipFrom(def *Definition, idx int, fields *conversation.Fields) int {
	for ; idx < len(def.Steps); idx++ {
		s := def.Steps[idx]
		if s.Skip == nil || !s.Skip(fields) {
			return idx
		}
	}
	return -1
}

func (e *Engine) renderStep(ctx context.Context, userID int64, def *Definition, step Step, fields *conversation.Fields, reason string) error {
	prompt, err := step.Prompt(ctx, Env{UserID: userID, Fields: fields.Clone()})
	if err != nil {
		return err
	}

	text := prompt.Text
	if reason != "" {
		text = retryPrefix + reason + "\n\n" + text
	}

	keyboard := prompt.Keyboard
	switch {
	case keyboard == nil && step.Confirm:
		keyboard = e.labels.confirmKeyboard()
	case keyboard == nil:
		keyboard = e.labels.cancelKeyboard()
	case !e.labels.hasCancel(keyboard):
		keyboard = append(keyboard, e.labels.cancelKeyboard()...)
	}

	if prompt.List != nil {
		if len(prompt.List.Items) == 0 {
			return domain.ErrNothingToSelect
		}
		e.lists.Set(userID, conversation.ListContext{
			Name:       step.Name,
			Owner:      def.Kind,
			Items:      prompt.List.Items,
			ShowAction: ActionPick,
		})
		if err := e.transport.RenderPrompt(ctx, userID, chat.Message{Text: text, Keyboard: keyboard}); err != nil {
			return err
		}
		return e.transport.RenderList(ctx, userID, chat.List{
			Title:        prompt.List.Title,
			Items:        prompt.List.Items,
			SelectAction: ActionPick,
			SelectArg:    step.Name,
			Footer:       prompt.List.Footer,
		})
	}

	return e.transport.RenderPrompt(ctx, userID, chat.Message{Text: text, Keyboard: keyboard, Inline: prompt.Inline})
}
