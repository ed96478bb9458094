package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"catalogbot/internal/domain"
	"catalogbot/internal/repository"

	"go.uber.org/zap"
)

type commandFunc func(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string

// flowFunc finishes a pending flow with the user's data message
type flowFunc func(ctx context.Context, sess *domain.Session, flow domain.PendingFlow, text string) []string

// BotService routes chat input to commands, the login step and pending flows.
// Callers must serialize calls per chat user (see SessionService.Lock).
type BotService struct {
	api      repository.CatalogAPI
	sessions *SessionService
	logger   *zap.Logger

	commands []Command
	byName   map[string]int
	flows    map[domain.FlowKind]flowFunc
}

// NewBotService creates a new bot service
func NewBotService(api repository.CatalogAPI, sessions *SessionService, logger *zap.Logger) *BotService {
	s := &BotService{
		api:      api,
		sessions: sessions,
		logger:   logger,
	}

	s.commands = s.commandTable()
	s.byName = make(map[string]int, len(s.commands))
	for i, cmd := range s.commands {
		s.byName[cmd.Name] = i
	}

	s.flows = map[domain.FlowKind]flowFunc{
		domain.FlowCreatingUser:     s.finishCreateUser,
		domain.FlowUpdatingUser:     s.finishUpdateUser,
		domain.FlowCreatingItem:     s.finishCreateItem,
		domain.FlowUpdatingItem:     s.finishUpdateItem,
		domain.FlowCreatingCategory: s.finishCreateCategory,
	}

	return s
}

// Execute runs a registered command after the login and role checks
func (s *BotService) Execute(ctx context.Context, chatUserID int64, name string, args []string) []string {
	cmd, ok := s.lookup(name)
	if !ok {
		return []string{msgUnknownCommand}
	}

	sess, _, err := s.sessions.Load(ctx, chatUserID)
	if err != nil {
		s.logger.Error("Failed to load session", zap.Int64("user_id", chatUserID), zap.Error(err))
		return []string{msgInternalError}
	}

	if !cmd.Public {
		if !sess.LoggedIn {
			return []string{msgLoginFirst}
		}
		if !cmd.Allowed(sess.Role) {
			s.logger.Info("Permission denied",
				zap.Int64("user_id", chatUserID),
				zap.String("command", cmd.Name),
				zap.String("role", string(sess.Role)),
			)
			return []string{permissionDenied(cmd)}
		}
	}

	return cmd.run(ctx, chatUserID, &sess, args)
}

// HandleText handles a message that is not a registered command.
// A pending flow takes it first, then the login step, then a hint.
func (s *BotService) HandleText(ctx context.Context, chatUserID int64, text string) []string {
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		return []string{msgUnknownCommand}
	}

	sess, expired, err := s.sessions.Load(ctx, chatUserID)
	if err != nil {
		s.logger.Error("Failed to load session", zap.Int64("user_id", chatUserID), zap.Error(err))
		return []string{msgInternalError}
	}

	switch {
	case sess.Flow != nil:
		return s.continueFlow(ctx, chatUserID, &sess, text)
	case expired:
		return []string{msgFlowExpired}
	case sess.WaitingForLogin && !sess.LoggedIn:
		return s.login(ctx, chatUserID, text)
	case sess.LoggedIn:
		return []string{msgUseHelp}
	default:
		return []string{msgUseStart}
	}
}

// continueFlow clears the pending flow before finishing it, so the flow
// ends on every path including a panic in the finisher
func (s *BotService) continueFlow(ctx context.Context, chatUserID int64, sess *domain.Session, text string) []string {
	flow := *sess.Flow
	sess.ClearFlow()
	defer func() {
		if err := s.sessions.Save(ctx, chatUserID, sess); err != nil {
			s.logger.Error("Failed to save session", zap.Int64("user_id", chatUserID), zap.Error(err))
		}
	}()

	s.logger.Debug("Continuing flow",
		zap.Int64("user_id", chatUserID),
		zap.String("flow", string(flow.Kind)),
		zap.Int("target_id", flow.TargetID),
	)

	finish, ok := s.flows[flow.Kind]
	if !ok {
		s.logger.Error("Unknown flow kind", zap.String("flow", string(flow.Kind)))
		return []string{msgInternalError}
	}
	if !sess.LoggedIn {
		return []string{msgLoginFirst}
	}

	return finish(ctx, sess, flow, text)
}

func (s *BotService) login(ctx context.Context, chatUserID int64, text string) []string {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return []string{msgLoginFormat}
	}
	username, password := parts[0], parts[1]

	res, err := s.api.Login(ctx, username, password)
	if err != nil || !res.Success || res.Token == "" {
		var apiErr *domain.APIError
		if err != nil && !errors.As(err, &apiErr) {
			s.logger.Error("Login request failed", zap.Int64("user_id", chatUserID), zap.Error(err))
		} else {
			s.logger.Info("Login rejected", zap.Int64("user_id", chatUserID), zap.String("username", username))
		}

		if err := s.sessions.Replace(ctx, chatUserID, domain.Session{WaitingForLogin: true}); err != nil {
			s.logger.Error("Failed to save session", zap.Int64("user_id", chatUserID), zap.Error(err))
		}
		return []string{loginFailed(res, err)}
	}

	role, ok := domain.ParseRole(string(res.User.Role))
	if !ok {
		role = domain.RoleUser
	}
	sess := domain.Session{
		LoggedIn: true,
		Username: res.User.Username,
		UserID:   res.User.ID,
		Role:     role,
		Token:    res.Token,
	}
	if sess.Username == "" {
		sess.Username = username
	}

	if err := s.sessions.Replace(ctx, chatUserID, sess); err != nil {
		s.logger.Error("Failed to save session", zap.Int64("user_id", chatUserID), zap.Error(err))
		return []string{msgInternalError}
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", chatUserID),
		zap.Int("backend_user_id", sess.UserID),
		zap.String("role", string(sess.Role)),
	)

	return []string{welcome(sess), s.Menu(sess.Role)}
}

// failure turns a backend error into a reply. notFound is used for 404s when set.
// Non-JSON bodies are logged, never relayed.
func (s *BotService) failure(action string, err error, notFound string) string {
	var apiErr *domain.APIError
	switch {
	case notFound != "" && errors.Is(err, domain.ErrNotFound):
		return "❌ " + notFound
	case errors.Is(err, domain.ErrUnauthorized):
		return msgSessionRejected
	case errors.Is(err, domain.ErrForbidden):
		return "⛔ The server denied access while trying to " + action + "."
	case errors.As(err, &apiErr) && errors.Is(err, domain.ErrBadRequest):
		s.logger.Warn("Backend rejected input",
			zap.String("action", action),
			zap.Error(err),
			zap.String("body", clip(apiErr.Body, maxLoggedBody)),
		)
		return validationFailed(action, apiErr)
	case errors.As(err, &apiErr):
		s.logger.Error("Backend request failed",
			zap.String("action", action),
			zap.Int("status", apiErr.StatusCode),
			zap.Error(err),
			zap.String("body", clip(apiErr.Body, maxLoggedBody)),
		)
		msg := "⚠️ The server could not " + action + " (status " + strconv.Itoa(apiErr.StatusCode) + ")."
		if detail := apiErr.Message(); detail != "" && apiErr.StatusCode < 500 {
			msg += " " + clip(detail, maxDetailLen)
		}
		return msg
	default:
		s.logger.Error("Backend request failed", zap.String("action", action), zap.Error(err))
		return msgBackendUnavailable
	}
}
