package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"catalogbot/internal/domain"
	"catalogbot/internal/repository/memory"
	"catalogbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const chatUser int64 = 100

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type botFixture struct {
	service *BotService
	api     *testutil.MockCatalogAPI
	repo    *memory.SessionRepo
}

func newBotFixture(t *testing.T) *botFixture {
	t.Helper()

	repo := memory.NewSessionRepo()
	sessions := NewSessionService(repo, 30*time.Minute, testutil.NewTestLogger())
	sessions.now = func() time.Time { return testNow }

	api := new(testutil.MockCatalogAPI)
	t.Cleanup(func() { api.AssertExpectations(t) })

	return &botFixture{
		service: NewBotService(api, sessions, testutil.NewTestLogger()),
		api:     api,
		repo:    repo,
	}
}

func (f *botFixture) seed(t *testing.T, sess domain.Session) {
	t.Helper()
	require.NoError(t, f.repo.Set(context.Background(), chatUser, sess))
}

func (f *botFixture) session(t *testing.T) domain.Session {
	t.Helper()
	sess, err := f.repo.Get(context.Background(), chatUser)
	require.NoError(t, err)
	return sess
}

func (f *botFixture) execute(name string, args ...string) []string {
	return f.service.Execute(context.Background(), chatUser, name, args)
}

func (f *botFixture) text(msg string) []string {
	return f.service.HandleText(context.Background(), chatUser, msg)
}

func TestBotService_StartReplacesSession(t *testing.T) {
	f := newBotFixture(t)
	sess := testutil.NewLoggedInSession(domain.RoleAdmin)
	sess.StartFlow(domain.FlowCreatingItem, 0, testNow)
	f.seed(t, sess)

	replies := f.execute("start")

	assert.Equal(t, []string{msgStart}, replies)
	assert.Equal(t, domain.Session{WaitingForLogin: true, UpdatedAt: testNow}, f.session(t))
}

func TestBotService_LoginSuccess(t *testing.T) {
	f := newBotFixture(t)
	f.seed(t, domain.Session{WaitingForLogin: true})
	f.api.On("Login", mock.Anything, "alice", "secret").Return(&domain.LoginResult{
		Success: true,
		Token:   "abc",
		User:    domain.User{ID: 7, Username: "alice", Role: domain.RoleAdmin},
	}, nil)

	replies := f.text("alice secret")

	require.Len(t, replies, 2)
	assert.Contains(t, replies[0], "Welcome, alice")
	assert.Equal(t, f.service.Menu(domain.RoleAdmin), replies[1])
	assert.Equal(t, domain.Session{
		LoggedIn:  true,
		Username:  "alice",
		UserID:    7,
		Role:      domain.RoleAdmin,
		Token:     "abc",
		UpdatedAt: testNow,
	}, f.session(t))
}

func TestBotService_LoginFailure(t *testing.T) {
	tests := []struct {
		name      string
		result    *domain.LoginResult
		err       error
		wantReply string
	}{
		{
			name:      "rejected credentials",
			err:       &domain.APIError{StatusCode: 401, Detail: "Invalid credentials"},
			wantReply: "Invalid credentials",
		},
		{
			name:      "unsuccessful payload",
			result:    &domain.LoginResult{Success: false, Error: "User is inactive"},
			wantReply: "User is inactive",
		},
		{
			name:      "transport error",
			err:       errors.New("connection refused"),
			wantReply: "Could not reach the server",
		},
		{
			name:      "server error page",
			err:       &domain.APIError{StatusCode: 502, Body: "<html><body>Bad Gateway</body></html>"},
			wantReply: "The server failed to process the login (status 502)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBotFixture(t)
			f.seed(t, domain.Session{WaitingForLogin: true})
			if tt.result != nil {
				f.api.On("Login", mock.Anything, "alice", "wrong").Return(tt.result, nil)
			} else {
				f.api.On("Login", mock.Anything, "alice", "wrong").Return(nil, tt.err)
			}

			replies := f.text("alice wrong")

			require.Len(t, replies, 1)
			assert.Contains(t, replies[0], tt.wantReply)
			sess := f.session(t)
			assert.True(t, sess.WaitingForLogin)
			assert.False(t, sess.LoggedIn)
			assert.Empty(t, sess.Token)
		})
	}
}

func TestBotService_LoginWrongFormat(t *testing.T) {
	f := newBotFixture(t)
	f.seed(t, domain.Session{WaitingForLogin: true})

	assert.Equal(t, []string{msgLoginFormat}, f.text("alice"))
	assert.Equal(t, []string{msgLoginFormat}, f.text("alice secret extra"))

	assert.True(t, f.session(t).WaitingForLogin)
	f.api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestBotService_HandleTextHints(t *testing.T) {
	tests := []struct {
		name    string
		session domain.Session
		text    string
		want    string
	}{
		{
			name:    "logged in without flow",
			session: testutil.NewLoggedInSession(domain.RoleUser),
			text:    "hello",
			want:    msgUseHelp,
		},
		{
			name: "unknown user",
			text: "hello",
			want: msgUseStart,
		},
		{
			name:    "unknown command",
			session: testutil.NewLoggedInSession(domain.RoleUser),
			text:    "/cancel",
			want:    msgUnknownCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBotFixture(t)
			f.seed(t, tt.session)

			assert.Equal(t, []string{tt.want}, f.text(tt.text))
		})
	}
}

func TestBotService_UnknownCommandKeepsFlow(t *testing.T) {
	f := newBotFixture(t)
	sess := testutil.NewLoggedInSession(domain.RoleAdmin)
	sess.StartFlow(domain.FlowCreatingCategory, 0, testNow)
	f.seed(t, sess)

	assert.Equal(t, []string{msgUnknownCommand}, f.text("/cancel"))
	assert.Equal(t, domain.FlowCreatingCategory, f.session(t).ActiveFlow())
}

func TestBotService_CommandRequiresLogin(t *testing.T) {
	f := newBotFixture(t)

	assert.Equal(t, []string{msgLoginFirst}, f.execute("list_items"))
	assert.Equal(t, []string{msgLoginFirst}, f.execute("help"))
}

func TestBotService_RoleGating(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		command string
		args    []string
		method  string
	}{
		{name: "user lists all orders", role: domain.RoleUser, command: "list_orders", method: "ListOrders"},
		{name: "user creates item", role: domain.RoleUser, command: "create_item", method: "CreateItem"},
		{name: "user deletes item", role: domain.RoleUser, command: "delete_item", args: []string{"1"}, method: "DeleteItem"},
		{name: "admin lists users", role: domain.RoleAdmin, command: "list_users", method: "ListUsers"},
		{name: "admin deletes user", role: domain.RoleAdmin, command: "delete_user", args: []string{"2"}, method: "DeleteUser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBotFixture(t)
			sess := testutil.NewLoggedInSession(tt.role)
			f.seed(t, sess)

			replies := f.service.Execute(context.Background(), chatUser, tt.command, tt.args)

			require.Len(t, replies, 1)
			assert.Contains(t, replies[0], "don't have permission")
			assert.Empty(t, f.api.Calls, tt.method)
			assert.Nil(t, f.session(t).Flow)
		})
	}
}

func TestBotService_HelpIsIdempotent(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin, domain.RoleSuperadmin} {
		t.Run(string(role), func(t *testing.T) {
			f := newBotFixture(t)
			f.seed(t, testutil.NewLoggedInSession(role))
			before := f.session(t)

			first := f.execute("help")
			for i := 0; i < 5; i++ {
				assert.Equal(t, first, f.execute("help"))
			}

			assert.Equal(t, []string{f.service.Menu(role)}, first)
			assert.Equal(t, before, f.session(t))
		})
	}
}

func TestBotService_MenuIsRoleScoped(t *testing.T) {
	f := newBotFixture(t)

	user := f.service.Menu(domain.RoleUser)
	admin := f.service.Menu(domain.RoleAdmin)
	superadmin := f.service.Menu(domain.RoleSuperadmin)

	assert.Contains(t, user, "/buy_item <id> [qty]")
	assert.NotContains(t, user, "/list_orders")
	assert.NotContains(t, user, "/create_item")

	assert.Contains(t, admin, "/create_item")
	assert.Contains(t, admin, "/list_orders")
	assert.NotContains(t, admin, "/create_user")

	for _, cmd := range f.service.Commands() {
		if cmd.Name == "start" {
			continue
		}
		assert.Contains(t, superadmin, "/"+cmd.Name)
	}
}

func TestBotService_Logout(t *testing.T) {
	f := newBotFixture(t)
	f.seed(t, testutil.NewLoggedInSession(domain.RoleUser))

	assert.Equal(t, []string{msgLoggedOut}, f.execute("logout"))
	assert.Equal(t, domain.Session{}, f.session(t))

	assert.Equal(t, []string{msgNotLoggedIn}, f.execute("logout"))
}

func TestBotService_LogoutStoreError(t *testing.T) {
	repo := new(testutil.MockSessionRepository)
	repo.On("Get", mock.Anything, chatUser).Return(testutil.NewLoggedInSession(domain.RoleUser), nil)
	repo.On("Delete", mock.Anything, chatUser).Return(errors.New("db down"))

	sessions := NewSessionService(repo, 30*time.Minute, testutil.NewTestLogger())
	service := NewBotService(new(testutil.MockCatalogAPI), sessions, testutil.NewTestLogger())

	replies := service.Execute(context.Background(), chatUser, "logout", nil)

	assert.Equal(t, []string{msgInternalError}, replies)
	repo.AssertExpectations(t)
}

func TestBotService_FlowExpired(t *testing.T) {
	f := newBotFixture(t)
	sess := testutil.NewLoggedInSession(domain.RoleAdmin)
	sess.StartFlow(domain.FlowCreatingItem, 0, testNow.Add(-time.Hour))
	f.seed(t, sess)

	assert.Equal(t, []string{msgFlowExpired}, f.text("name: Phone"))
	assert.Nil(t, f.session(t).Flow)
	f.api.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestBotService_StartingFlowReplacesPending(t *testing.T) {
	f := newBotFixture(t)
	f.seed(t, testutil.NewLoggedInSession(domain.RoleSuperadmin))

	f.execute("create_item")
	assert.Equal(t, domain.FlowCreatingItem, f.session(t).ActiveFlow())

	f.execute("create_category")
	assert.Equal(t, domain.FlowCreatingCategory, f.session(t).ActiveFlow())

	f.execute("create_user")
	assert.Equal(t, domain.FlowCreatingUser, f.session(t).ActiveFlow())
}

func TestBotService_FlowClearedOnPanic(t *testing.T) {
	f := newBotFixture(t)
	sess := testutil.NewLoggedInSession(domain.RoleAdmin)
	sess.StartFlow(domain.FlowCreatingCategory, 0, testNow)
	f.seed(t, sess)
	f.api.On("CreateCategory", mock.Anything, sess.Token, mock.Anything).
		Run(func(mock.Arguments) { panic("boom") })

	assert.Panics(t, func() {
		f.text("name: Phones\nslug: phones")
	})
	assert.Nil(t, f.session(t).Flow)
}

func TestBotService_UnauthorizedToken(t *testing.T) {
	f := newBotFixture(t)
	sess := testutil.NewLoggedInSession(domain.RoleUser)
	f.seed(t, sess)
	f.api.On("ListItems", mock.Anything, sess.Token).Return(nil, &domain.APIError{StatusCode: 401})

	assert.Equal(t, []string{msgSessionRejected}, f.execute("list_items"))
}

func TestBotService_FailureMessages(t *testing.T) {
	htmlPage := "<!DOCTYPE html><html><body>" + strings.Repeat("<p>Traceback line</p>", 3000) + "</body></html>"

	tests := []struct {
		name        string
		err         error
		notFound    string
		wantReply   string
		wantMissing string
		wantLevel   zapcore.Level
		wantBody    bool
		silent      bool
	}{
		{
			name:      "not found",
			err:       &domain.APIError{StatusCode: 404},
			notFound:  "Item 5 not found.",
			wantReply: "❌ Item 5 not found.",
			silent:    true,
		},
		{
			name: "validation with fields",
			err: &domain.APIError{StatusCode: 400, Fields: map[string]any{
				"slug":  []any{"item with this slug already exists."},
				"price": []any{"A valid number is required."},
			}},
			wantReply: "❌ Validation failed while trying to create the item:\n• price: A valid number is required.\n• slug: item with this slug already exists.",
			wantLevel: zapcore.WarnLevel,
		},
		{
			name:      "validation with detail",
			err:       &domain.APIError{StatusCode: 400, Detail: "Invalid data"},
			wantReply: "❌ Validation failed while trying to create the item: Invalid data",
			wantLevel: zapcore.WarnLevel,
		},
		{
			name:        "validation with html body",
			err:         &domain.APIError{StatusCode: 400, Body: "<h1>Bad Request (400)</h1>"},
			wantReply:   "❌ Validation failed while trying to create the item. Check the values and try again.",
			wantMissing: "<h1>",
			wantLevel:   zapcore.WarnLevel,
			wantBody:    true,
		},
		{
			name:        "server error with json detail",
			err:         &domain.APIError{StatusCode: 500, Detail: "Invalid data"},
			wantReply:   "⚠️ The server could not create the item (status 500).",
			wantMissing: "Invalid data",
			wantLevel:   zapcore.ErrorLevel,
		},
		{
			name:        "server error with html body",
			err:         &domain.APIError{StatusCode: 500, Body: htmlPage},
			wantReply:   "⚠️ The server could not create the item (status 500).",
			wantMissing: "<html>",
			wantLevel:   zapcore.ErrorLevel,
			wantBody:    true,
		},
		{
			name:      "conflict keeps json detail",
			err:       &domain.APIError{StatusCode: 409, Detail: "Already exists"},
			wantReply: "⚠️ The server could not create the item (status 409). Already exists",
			wantLevel: zapcore.ErrorLevel,
		},
		{
			name:      "unauthorized",
			err:       &domain.APIError{StatusCode: 401},
			wantReply: msgSessionRejected,
			silent:    true,
		},
		{
			name:      "forbidden",
			err:       &domain.APIError{StatusCode: 403},
			wantReply: "⛔ The server denied access while trying to create the item.",
			silent:    true,
		},
		{
			name:      "transport error",
			err:       errors.New("dial tcp: connection refused"),
			wantReply: msgBackendUnavailable,
			wantLevel: zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			s := &BotService{logger: zap.New(core)}

			reply := s.failure("create the item", tt.err, tt.notFound)

			assert.Equal(t, tt.wantReply, reply)
			if tt.wantMissing != "" {
				assert.NotContains(t, reply, tt.wantMissing)
			}
			assert.Less(t, len([]rune(reply)), 200)

			entries := logs.All()
			if tt.silent {
				assert.Empty(t, entries)
				return
			}
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			if tt.wantBody {
				body, ok := entries[0].ContextMap()["body"].(string)
				require.True(t, ok)
				assert.NotEmpty(t, body)
				assert.LessOrEqual(t, len([]rune(body)), maxLoggedBody+1)
			}
		})
	}
}
