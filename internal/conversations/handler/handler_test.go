package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"callassist-server/internal/conversations/processor"
	"callassist-server/internal/observability"
	"callassist-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listCall struct{ limit, offset int }

type recordingStore struct {
	rows  []store.Conversation
	calls []listCall
}

func (s *recordingStore) CreateConversation(context.Context, store.CreateConversationParams) (store.Conversation, error) {
	return store.Conversation{}, nil
}

func (s *recordingStore) CompleteConversation(context.Context, uuid.UUID, store.CompleteConversationParams) error {
	return nil
}

func (s *recordingStore) FailConversation(context.Context, uuid.UUID, string, string, *int64) error {
	return nil
}

func (s *recordingStore) GetConversationByID(_ context.Context, id uuid.UUID) (store.Conversation, error) {
	for _, row := range s.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return store.Conversation{}, store.ErrNotFound
}

func (s *recordingStore) GetConversationByCallSID(context.Context, string) (store.Conversation, error) {
	return store.Conversation{}, store.ErrNotFound
}

func (s *recordingStore) GetRecentCompletedConversations(context.Context, uuid.UUID, int) ([]store.Conversation, error) {
	return s.rows, nil
}

func (s *recordingStore) ListConversationsByAccountID(_ context.Context, _ uuid.UUID, limit, offset int) ([]store.Conversation, error) {
	s.calls = append(s.calls, listCall{limit, offset})
	return s.rows, nil
}

func newRouter(conversationStore processor.ConversationStore, accountID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := observability.NewLogger()
	h := New(processor.New(conversationStore, logger, time.Second), logger)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("Account-ID", accountID.String())
		c.Next()
	})
	r.GET("/conversations", h.HandleListConversations)
	r.GET("/conversations/:conversation_id", h.HandleGetConversation)
	return r
}

func TestHandleListConversations(t *testing.T) {
	accountID := uuid.New()
	conversationStore := &recordingStore{rows: []store.Conversation{{ID: uuid.New(), AccountID: accountID, Status: store.ConversationStatusCompleted}}}
	r := newRouter(conversationStore, accountID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conversations?limit=5&offset=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, conversationStore.calls, 1)
	assert.Equal(t, listCall{5, 10}, conversationStore.calls[0])

	var body struct {
		Conversations []store.Conversation `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Conversations, 1)
}

func TestHandleListConversations_BadLimit(t *testing.T) {
	r := newRouter(&recordingStore{}, uuid.New())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conversations?limit=ten", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetConversation(t *testing.T) {
	accountID := uuid.New()
	owned := store.Conversation{ID: uuid.New(), AccountID: accountID}
	foreign := store.Conversation{ID: uuid.New(), AccountID: uuid.New()}
	r := newRouter(&recordingStore{rows: []store.Conversation{owned, foreign}}, accountID)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "owned", path: "/conversations/" + owned.ID.String(), wantStatus: http.StatusOK},
		{name: "another account", path: "/conversations/" + foreign.ID.String(), wantStatus: http.StatusNotFound},
		{name: "malformed id", path: "/conversations/xyz", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
