package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"catalogbot/internal/domain"

	"go.uber.org/zap"
)

var (
	staffRoles      = []domain.Role{domain.RoleAdmin, domain.RoleSuperadmin}
	superadminRoles = []domain.Role{domain.RoleSuperadmin}
)

// Command is a chat command. Roles empty means any logged in user.
// Public commands run without a login.
type Command struct {
	Name        string
	Usage       string
	Description string
	Roles       []domain.Role
	Public      bool

	run commandFunc
}

// Allowed reports whether a session with role may run the command
func (c Command) Allowed(role domain.Role) bool {
	return c.Public || len(c.Roles) == 0 || role.In(c.Roles...)
}

func (s *BotService) commandTable() []Command {
	return []Command{
		{Name: "start", Description: "Log in", Public: true, run: s.start},
		{Name: "help", Description: "Show available commands", run: s.help},
		{Name: "logout", Description: "Log out", Public: true, run: s.logout},

		{Name: "list_items", Description: "List all items", run: s.listItems},
		{Name: "item_info", Usage: "<id>", Description: "Show item details", run: s.itemInfo},
		{Name: "buy_item", Usage: "<id> [qty]", Description: "Buy an item", run: s.buyItem},
		{Name: "my_orders", Description: "Show your orders", run: s.myOrders},
		{Name: "order_info", Usage: "<id>", Description: "Show order details", run: s.orderInfo},
		{Name: "list_categories", Description: "List all categories", run: s.listCategories},

		{Name: "create_item", Description: "Create an item", Roles: staffRoles, run: s.createItem},
		{Name: "update_item", Usage: "<id>", Description: "Update an item", Roles: staffRoles, run: s.updateItem},
		{Name: "delete_item", Usage: "<id>", Description: "Delete an item", Roles: staffRoles, run: s.deleteItem},
		{Name: "create_category", Description: "Create a category", Roles: staffRoles, run: s.createCategory},
		{Name: "list_orders", Description: "List all orders", Roles: staffRoles, run: s.listOrders},

		{Name: "create_user", Description: "Create a user", Roles: superadminRoles, run: s.createUser},
		{Name: "list_users", Description: "List all users", Roles: superadminRoles, run: s.listUsers},
		{Name: "user_info", Usage: "<id>", Description: "Show user details", Roles: superadminRoles, run: s.userInfo},
		{Name: "update_user", Usage: "<id>", Description: "Update a user", Roles: superadminRoles, run: s.updateUser},
		{Name: "delete_user", Usage: "<id>", Description: "Delete a user", Roles: superadminRoles, run: s.deleteUser},
	}
}

// Commands returns the command table in menu order
func (s *BotService) Commands() []Command {
	out := make([]Command, len(s.commands))
	copy(out, s.commands)
	return out
}

func (s *BotService) lookup(name string) (Command, bool) {
	i, ok := s.byName[strings.TrimPrefix(name, "/")]
	if !ok {
		return Command{}, false
	}
	return s.commands[i], true
}

// Menu renders the commands available to role. It depends on nothing else.
func (s *BotService) Menu(role domain.Role) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Commands for %s:\n", role)
	for _, cmd := range s.commands {
		if cmd.Name == "start" || !cmd.Allowed(role) {
			continue
		}
		b.WriteString("\n" + usage(cmd) + " - " + cmd.Description)
	}
	return b.String()
}

func usage(cmd Command) string {
	if cmd.Usage == "" {
		return "/" + cmd.Name
	}
	return "/" + cmd.Name + " " + cmd.Usage
}

func (s *BotService) usageHint(name string) string {
	cmd, _ := s.lookup(name)
	return "ℹ️ Usage: " + usage(cmd)
}

// parseID reads a positive integer id from the first argument
func (s *BotService) parseID(name string, args []string) (int, string) {
	if len(args) == 0 {
		return 0, s.usageHint(name)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, "❌ The id must be a positive number.\n" + s.usageHint(name)
	}
	return id, ""
}

func (s *BotService) start(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	if err := s.sessions.Replace(ctx, chatUserID, domain.Session{WaitingForLogin: true}); err != nil {
		s.logger.Error("Failed to save session", zap.Int64("user_id", chatUserID), zap.Error(err))
		return []string{msgInternalError}
	}

	s.logger.Info("User started bot", zap.Int64("user_id", chatUserID))
	return []string{msgStart}
}

func (s *BotService) help(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	return []string{s.Menu(sess.Role)}
}

func (s *BotService) logout(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	if !sess.LoggedIn && !sess.WaitingForLogin {
		return []string{msgNotLoggedIn}
	}

	if err := s.sessions.Delete(ctx, chatUserID); err != nil {
		s.logger.Error("Failed to delete session", zap.Int64("user_id", chatUserID), zap.Error(err))
		return []string{msgInternalError}
	}

	s.logger.Info("User logged out", zap.Int64("user_id", chatUserID))
	return []string{msgLoggedOut}
}

// startFlow stores a pending flow and returns its template
func (s *BotService) startFlow(ctx context.Context, chatUserID int64, sess *domain.Session, kind domain.FlowKind, targetID int, template string) []string {
	sess.StartFlow(kind, targetID, s.sessions.Now())
	if err := s.sessions.Save(ctx, chatUserID, sess); err != nil {
		s.logger.Error("Failed to save session", zap.Int64("user_id", chatUserID), zap.Error(err))
		return []string{msgInternalError}
	}
	return []string{template}
}
