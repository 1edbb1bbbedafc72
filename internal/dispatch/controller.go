// Package dispatch is the single entry point for inbound inputs. It decides
// whether an input belongs to an active wizard, an open browse list or the
// menu router.
package dispatch

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"baristabot/internal/access"
	"baristabot/internal/callback"
	"baristabot/internal/chat"
	"baristabot/internal/conversation"
	"baristabot/internal/domain"
	"baristabot/internal/menu"
	"baristabot/internal/metrics"
	"baristabot/internal/wizard"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// Request is what an action receives
type Request struct {
	Input  chat.Input
	Role   domain.Role
	Action string
}

// ID is the entity ID carried by an inline token, or zero
func (r Request) ID() int64 {
	if r.Input.Token == nil {
		return 0
	}
	return r.Input.Token.ID
}

// Action handles one routed control
type Action func(ctx context.Context, req Request) error

// Registry maps route action names to handlers
type Registry map[string]Action

// Finder looks entities up in storage when a browse list has no match.
// Finders are keyed by list name.
type Finder func(ctx context.Context, userID int64, query string) ([]chat.ListItem, error)

// Wizards is the part of the wizard engine the controller drives
type Wizards interface {
	Active(userID int64) bool
	Abort(userID int64) bool
	Handle(ctx context.Context, in chat.Input) (wizard.Outcome, error)
}

// Menus renders permission-filtered keyboards
type Menus interface {
	Keyboard(ctx context.Context, userID int64, menu string) [][]string
	Title(menu string) string
}

// Options wires a Controller
type Options struct {
	Wizards   Wizards
	Lists     conversation.ListStore
	Router    *access.Router
	Actions   Registry
	Finders   map[string]Finder
	Transport chat.Transport
	Menus     Menus
	Logger    *zap.Logger
}

// Controller serializes inputs per user and dispatches them
type Controller struct {
	wizards   Wizards
	lists     conversation.ListStore
	router    *access.Router
	actions   Registry
	finders   map[string]Finder
	transport chat.Transport
	menus     Menus
	logger    *zap.Logger
	fold      cases.Caser

	locksMu sync.Mutex
	locks   map[int64]*userLock
}

// userLock serializes one user's inputs. refs counts holders and waiters;
// the entry is dropped when it reaches zero.
type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewController creates a controller
func NewController(opts Options) *Controller {
	finders := opts.Finders
	if finders == nil {
		finders = make(map[string]Finder)
	}
	return &Controller{
		wizards:   opts.Wizards,
		lists:     opts.Lists,
		router:    opts.Router,
		actions:   opts.Actions,
		finders:   finders,
		transport: opts.Transport,
		menus:     opts.Menus,
		logger:    opts.Logger,
		fold:      cases.Fold(),
		locks:     make(map[int64]*userLock),
	}
}

// acquire locks userID and returns the matching release
func (c *Controller) acquire(userID int64) func() {
	c.locksMu.Lock()
	lock, exists := c.locks[userID]
	if !exists {
		lock = &userLock{}
		c.locks[userID] = lock
	}
	lock.refs++
	c.locksMu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		c.locksMu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(c.locks, userID)
		}
		c.locksMu.Unlock()
	}
}

func (c *Controller) trackedLocks() int {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	return len(c.locks)
}

// OnInput handles one inbound input to completion. Inputs of the same user
// never interleave.
func (c *Controller) OnInput(ctx context.Context, in chat.Input) error {
	release := c.acquire(in.UserID)
	defer release()

	text := strings.TrimSpace(in.Text)

	if !in.IsCallback() && text == menu.StartCommand {
		metrics.DispatchPaths.WithLabelValues("reset").Inc()
		if c.wizards.Abort(in.UserID) {
			c.logger.Debug("Wizard aborted by /start", zap.Int64("user_id", in.UserID))
		}
		c.lists.Clear(in.UserID)
		return c.route(ctx, in, menu.StartCommand)
	}

	if c.wizards.Active(in.UserID) {
		metrics.DispatchPaths.WithLabelValues("wizard").Inc()
		_, err := c.wizards.Handle(ctx, in)
		return err
	}

	if !in.IsCallback() && !c.bypassesList(text) {
		if list, ok := c.lists.Get(in.UserID); ok && list.Owner == "" {
			metrics.DispatchPaths.WithLabelValues("list").Inc()
			return c.selectFromList(ctx, in, list, text)
		}
	}

	metrics.DispatchPaths.WithLabelValues("router").Inc()
	controlID := text
	if in.IsCallback() {
		controlID = in.Token.Action
	}
	return c.route(ctx, in, controlID)
}

// bypassesList reports whether text must reach the router even while a browse
// list is open: navigation tokens and every registered menu label.
func (c *Controller) bypassesList(text string) bool {
	if menu.IsNavigation(text) {
		return true
	}
	_, routed := c.router.Lookup(text)
	return routed
}

func (c *Controller) route(ctx context.Context, in chat.Input, controlID string) error {
	res := c.router.Resolve(ctx, in.UserID, controlID)
	metrics.RouteDecisions.WithLabelValues(res.Decision.String()).Inc()

	switch res.Decision {
	case access.Allowed:
		action, ok := c.actions[res.Action]
		if !ok {
			c.logger.Error("Route has no registered action",
				zap.String("control", controlID),
				zap.String("action", res.Action),
			)
			return c.home(ctx, in.UserID, "")
		}
		if !in.IsCallback() {
			c.lists.Clear(in.UserID)
		}
		return action(ctx, Request{Input: in, Role: res.Role, Action: res.Action})

	case access.Denied:
		c.logger.Info("Access denied",
			zap.Int64("user_id", in.UserID),
			zap.String("control", controlID),
			zap.String("role", string(res.Role)),
		)
		return c.home(ctx, in.UserID, "⛔ У вас нет доступа к этому разделу")

	default:
		c.lists.Clear(in.UserID)
		return c.home(ctx, in.UserID, "")
	}
}

// home renders the main menu, optionally prefixed by a notice
func (c *Controller) home(ctx context.Context, userID int64, notice string) error {
	text := c.menus.Title(menu.Main) + "\n\nВыберите действие:"
	if notice != "" {
		text = notice + "\n\n" + text
	}
	return c.transport.RenderPrompt(ctx, userID, chat.Message{
		Text:     text,
		Keyboard: c.menus.Keyboard(ctx, userID, menu.Main),
	})
}

// selectFromList resolves free text against the open browse list: by ID, then
// by label substring, then through the list's storage finder.
func (c *Controller) selectFromList(ctx context.Context, in chat.Input, list *conversation.ListContext, text string) error {
	matches := c.match(list, text)

	if len(matches) == 0 {
		if find, ok := c.finders[list.Name]; ok && text != "" {
			found, err := find(ctx, in.UserID, text)
			if err != nil {
				return err
			}
			matches = found
		}
	}

	switch len(matches) {
	case 0:
		return c.transport.RenderPrompt(ctx, in.UserID, chat.Message{
			Text: "🔍 Ничего не найдено по запросу «" + text + "»",
		})
	case 1:
		return c.show(ctx, in, list.ShowAction, matches[0])
	default:
		narrowed := *list
		narrowed.Query = text
		narrowed.Items = matches
		c.lists.Set(in.UserID, narrowed)
		return c.transport.RenderList(ctx, in.UserID, chat.List{
			Title:        "Найдено несколько совпадений:",
			Items:        matches,
			SelectAction: list.ShowAction,
			Footer:       "Отправьте ID или нажмите кнопку",
		})
	}
}

func (c *Controller) match(list *conversation.ListContext, text string) []chat.ListItem {
	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		if item, ok := list.ByID(id); ok {
			return []chat.ListItem{item}
		}
	}

	needle := c.fold.String(text)
	if needle == "" {
		return nil
	}
	var out []chat.ListItem
	for _, item := range list.Items {
		if strings.Contains(c.fold.String(item.Label), needle) {
			out = append(out, item)
		}
	}
	return out
}

// show routes the list's detail action as if its inline button was pressed
func (c *Controller) show(ctx context.Context, in chat.Input, action string, item chat.ListItem) error {
	token := callback.New(action, item.ID, "")
	return c.route(ctx, chat.Input{
		UserID: in.UserID,
		ChatID: in.ChatID,
		Token:  &token,
	}, action)
}
