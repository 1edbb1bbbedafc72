package telegram

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"baristabot/internal/callback"
	"baristabot/internal/chat"
	"baristabot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type sentMessage struct {
	to     string
	text   string
	markup *tele.ReplyMarkup
}

type fakeAPI struct {
	nextID    int
	sent      []sentMessage
	edited    []string
	deleted   []int
	editErr   error
	deleteErr map[int]error
}

func markupOf(opts []interface{}) *tele.ReplyMarkup {
	for _, o := range opts {
		if m, ok := o.(*tele.ReplyMarkup); ok {
			return m
		}
	}
	return nil
}

func (f *fakeAPI) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.nextID++
	f.sent = append(f.sent, sentMessage{to: to.Recipient(), text: what.(string), markup: markupOf(opts)})
	return &tele.Message{ID: f.nextID}, nil
}

func (f *fakeAPI) Edit(_ tele.Editable, what interface{}, _ ...interface{}) (*tele.Message, error) {
	if f.editErr != nil {
		return nil, f.editErr
	}
	f.edited = append(f.edited, what.(string))
	return &tele.Message{}, nil
}

func (f *fakeAPI) Delete(msg tele.Editable) error {
	sig, _ := msg.MessageSig()
	id, _ := strconv.Atoi(sig)
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newSender() (*Sender, *fakeAPI, *History) {
	api := &fakeAPI{deleteErr: make(map[int]error)}
	history := NewHistory(10)
	s := NewSender(api, history, testutil.NewTestLogger())
	s.pause = 0
	return s, api, history
}

func TestSender_RenderPromptMarkup(t *testing.T) {
	tests := []struct {
		name  string
		msg   chat.Message
		check func(t *testing.T, m *tele.ReplyMarkup)
	}{
		{
			name: "plain text",
			msg:  chat.Message{Text: "hi"},
			check: func(t *testing.T, m *tele.ReplyMarkup) {
				assert.Nil(t, m)
			},
		},
		{
			name: "reply keyboard",
			msg:  chat.Message{Text: "menu", Keyboard: [][]string{{"A", "B"}, {"C"}}},
			check: func(t *testing.T, m *tele.ReplyMarkup) {
				require.NotNil(t, m)
				require.Len(t, m.ReplyKeyboard, 2)
				assert.Equal(t, "B", m.ReplyKeyboard[0][1].Text)
				assert.True(t, m.ResizeKeyboard)
			},
		},
		{
			name: "inline wins over keyboard",
			msg: chat.Message{
				Text:     "panel",
				Keyboard: [][]string{{"A"}},
				Inline:   [][]chat.Button{{{Text: "Show", Token: callback.New("customer_show", 5, "")}}},
			},
			check: func(t *testing.T, m *tele.ReplyMarkup) {
				require.NotNil(t, m)
				assert.Empty(t, m.ReplyKeyboard)
				require.Len(t, m.InlineKeyboard, 1)
				assert.Equal(t, "customer_show", m.InlineKeyboard[0][0].Unique)
				assert.Equal(t, "5|", m.InlineKeyboard[0][0].Data)
			},
		},
		{
			name: "remove keyboard",
			msg:  chat.Message{Text: "bye", RemoveKeyboard: true},
			check: func(t *testing.T, m *tele.ReplyMarkup) {
				require.NotNil(t, m)
				assert.True(t, m.RemoveKeyboard)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, api, _ := newSender()
			require.NoError(t, s.RenderPrompt(t.Context(), 42, tt.msg))
			require.Len(t, api.sent, 1)
			assert.Equal(t, "42", api.sent[0].to)
			tt.check(t, api.sent[0].markup)
		})
	}
}

func TestSender_RenderListWithKeyboard(t *testing.T) {
	s, api, _ := newSender()
	list := chat.List{
		Title:        "Клиенты:",
		Items:        []chat.ListItem{{ID: 5, Label: "Анна"}, {ID: 6, Label: "Борис"}},
		SelectAction: "customer_show",
		Footer:       "Отправьте ID",
		Keyboard:     [][]string{{"Назад"}},
	}

	require.NoError(t, s.RenderList(t.Context(), 42, list))

	require.Len(t, api.sent, 2)
	assert.Equal(t, "Клиенты:\n1. Анна (ID: 5)\n2. Борис (ID: 6)", api.sent[0].text)
	require.Len(t, api.sent[0].markup.InlineKeyboard, 2)
	assert.Equal(t, "6|", api.sent[0].markup.InlineKeyboard[1][0].Data)
	assert.Equal(t, "Отправьте ID", api.sent[1].text)
	assert.Len(t, api.sent[1].markup.ReplyKeyboard, 1)
}

func TestSender_RenderListFooterInline(t *testing.T) {
	s, api, _ := newSender()
	require.NoError(t, s.RenderList(t.Context(), 42, chat.List{
		Title:  "Пусто",
		Footer: "Ничего нет",
	}))

	require.Len(t, api.sent, 1)
	assert.Equal(t, "Пусто\n\nНичего нет", api.sent[0].text)
	assert.Nil(t, api.sent[0].markup)
}

func TestSender_EditOrReplace(t *testing.T) {
	ref := chat.MessageRef{ChatID: 42, MessageID: 7}
	msg := chat.Message{Text: "Смена"}

	t.Run("edits in place", func(t *testing.T) {
		s, api, _ := newSender()
		require.NoError(t, s.EditOrReplace(t.Context(), 42, ref, msg))
		assert.Equal(t, []string{"Смена"}, api.edited)
		assert.Empty(t, api.sent)
	})

	t.Run("not modified is fine", func(t *testing.T) {
		s, api, _ := newSender()
		api.editErr = errors.New("telegram: Bad Request: message is not modified (400)")
		require.NoError(t, s.EditOrReplace(t.Context(), 42, ref, msg))
		assert.Empty(t, api.sent)
	})

	t.Run("other failures send a new message", func(t *testing.T) {
		s, api, _ := newSender()
		api.editErr = errors.New("telegram: Bad Request: message to edit not found (400)")
		require.NoError(t, s.EditOrReplace(t.Context(), 42, ref, msg))
		require.Len(t, api.sent, 1)
		assert.Equal(t, "Смена", api.sent[0].text)
	})
}

func TestSender_Purge(t *testing.T) {
	t.Run("bot only, newest first, limited", func(t *testing.T) {
		s, api, history := newSender()
		history.Track(42, 1, true)
		history.Track(42, 2, false)
		history.Track(42, 3, true)
		history.Track(42, 4, true)

		n, err := s.Purge(t.Context(), 42, true, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []int{4, 3}, api.deleted)
		assert.Len(t, history.Recent(42, false), 2)
	})

	t.Run("skips messages already gone", func(t *testing.T) {
		s, api, history := newSender()
		history.Track(42, 1, false)
		history.Track(42, 2, true)
		api.deleteErr[2] = errors.New("telegram: Bad Request: message to delete not found (400)")

		n, err := s.Purge(t.Context(), 42, false, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, []int{1}, api.deleted)
		assert.Empty(t, history.Recent(42, false))
	})

	t.Run("stops on hard errors", func(t *testing.T) {
		s, _, history := newSender()
		history.Track(42, 1, true)
		history.Track(42, 2, true)
		s.api.(*fakeAPI).deleteErr[2] = errors.New("telegram: Too Many Requests (429)")

		n, err := s.Purge(t.Context(), 42, false, 0)
		assert.Error(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		s, _, history := newSender()
		history.Track(42, 1, true)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		n, err := s.Purge(ctx, 42, false, 0)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, n)
	})
}

func TestSender_SendTracksHistory(t *testing.T) {
	s, _, history := newSender()
	require.NoError(t, s.Notify(t.Context(), 42, "🔔"))
	require.NoError(t, s.Notify(t.Context(), 42, "🔔"))

	assert.Equal(t, []TrackedMessage{{ID: 2, FromBot: true}, {ID: 1, FromBot: true}}, history.Recent(42, true))
}

func TestHistory_Bounded(t *testing.T) {
	h := NewHistory(3)
	for id := 1; id <= 5; id++ {
		h.Track(7, id, id%2 == 0)
	}
	h.Track(7, 0, true)

	assert.Equal(t, []TrackedMessage{{ID: 5}, {ID: 4, FromBot: true}, {ID: 3}}, h.Recent(7, false))
	assert.Equal(t, []TrackedMessage{{ID: 4, FromBot: true}}, h.Recent(7, true))
}

func TestTruncate(t *testing.T) {
	short := "Анна"
	assert.Equal(t, short, truncate(short))

	long := "Очень длинное название товара, которое не помещается на кнопку"
	got := truncate(long)
	assert.Equal(t, maxButtonText, len([]rune(got)))
	assert.Equal(t, "…", string([]rune(got)[maxButtonText-1:]))
}
