package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"catalogbot/internal/domain"

	"go.uber.org/zap"
)

func (s *BotService) listItems(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	items, err := s.api.ListItems(ctx, sess.Token)
	if err != nil {
		return []string{s.failure("load the items", err, "")}
	}
	if len(items) == 0 {
		return []string{"📭 No items yet."}
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, "🛍️ Items:\n")
	for _, it := range items {
		line := fmt.Sprintf("• #%d %s - %s", it.ID, it.Name, price(it.Price))
		if !it.Available {
			line += " (unavailable)"
		}
		if len(it.Categories) > 0 {
			line += " | 📁 " + categoryNames(it.Categories)
		}
		lines = append(lines, line)
	}
	return []string{strings.Join(lines, "\n")}
}

func (s *BotService) itemInfo(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	id, reply := s.parseID("item_info", args)
	if reply != "" {
		return []string{reply}
	}

	item, err := s.api.GetItem(ctx, sess.Token, id)
	if err != nil {
		return []string{s.failure("load the item", err, fmt.Sprintf("Item %d not found.", id))}
	}
	return []string{formatItem(item)}
}

func (s *BotService) deleteItem(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	id, reply := s.parseID("delete_item", args)
	if reply != "" {
		return []string{reply}
	}

	if err := s.api.DeleteItem(ctx, sess.Token, id); err != nil {
		return []string{s.failure("delete the item", err, fmt.Sprintf("Item %d not found.", id))}
	}

	s.logger.Info("Item deleted", zap.Int64("user_id", chatUserID), zap.Int("item_id", id))
	return []string{fmt.Sprintf("🗑️ Item %d deleted.", id)}
}

func (s *BotService) buyItem(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	id, reply := s.parseID("buy_item", args)
	if reply != "" {
		return []string{reply}
	}

	qty := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return []string{"❌ The quantity must be a positive number.\n" + s.usageHint("buy_item")}
		}
		qty = n
	}

	order, err := s.api.CreateOrder(ctx, sess.Token, domain.OrderInput{ItemID: id, Quantity: qty})
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.HasField("item") {
			return []string{fmt.Sprintf("❌ Item %d not found.", id)}
		}
		return []string{s.failure("place the order", err, fmt.Sprintf("Item %d not found.", id))}
	}

	s.logger.Info("Order created",
		zap.Int64("user_id", chatUserID),
		zap.Int("order_id", order.ID),
		zap.Int("item_id", id),
		zap.Int("quantity", qty),
	)
	return []string{"✅ Purchase completed! 🎉", formatOrder(order)}
}

func (s *BotService) myOrders(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	orders, err := s.api.ListOrders(ctx, sess.Token)
	if err != nil {
		return []string{s.failure("load your orders", err, "")}
	}

	// staff get every order from the backend
	lines := []string{"🧾 Your orders:\n"}
	for _, o := range orders {
		if sess.UserID != 0 && o.UserID != sess.UserID {
			continue
		}
		lines = append(lines, orderLine(o, false))
	}
	if len(lines) == 1 {
		return []string{"📭 You have no orders yet."}
	}
	return []string{strings.Join(lines, "\n")}
}

func (s *BotService) orderInfo(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	id, reply := s.parseID("order_info", args)
	if reply != "" {
		return []string{reply}
	}

	notFound := fmt.Sprintf("Order %d not found.", id)
	order, err := s.api.GetOrder(ctx, sess.Token, id)
	if err != nil {
		return []string{s.failure("load the order", err, notFound)}
	}
	// plain users only see their own orders
	if !sess.Role.In(staffRoles...) && order.UserID != sess.UserID {
		return []string{"❌ " + notFound}
	}
	return []string{formatOrder(order)}
}

func (s *BotService) listOrders(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	orders, err := s.api.ListOrders(ctx, sess.Token)
	if err != nil {
		return []string{s.failure("load the orders", err, "")}
	}
	if len(orders) == 0 {
		return []string{"📭 No orders yet."}
	}

	lines := make([]string, 0, len(orders)+1)
	lines = append(lines, "🧾 All orders:\n")
	for _, o := range orders {
		lines = append(lines, orderLine(o, true))
	}
	return []string{strings.Join(lines, "\n")}
}

func (s *BotService) listCategories(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	categories, err := s.api.ListCategories(ctx, sess.Token)
	if err != nil {
		return []string{s.failure("load the categories", err, "")}
	}
	if len(categories) == 0 {
		return []string{"📭 No categories yet."}
	}
	return []string{"📁 Categories:\n\n" + categoryLines(categories)}
}

func categoryLines(categories []domain.Category) string {
	lines := make([]string, len(categories))
	for i, c := range categories {
		lines[i] = fmt.Sprintf("• #%d %s (%s)", c.ID, c.Name, c.Slug)
	}
	return strings.Join(lines, "\n")
}

func (s *BotService) listUsers(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	users, err := s.api.ListUsers(ctx, sess.Token)
	if err != nil {
		return []string{s.failure("load the users", err, "")}
	}
	if len(users) == 0 {
		return []string{"📭 No users yet."}
	}

	lines := make([]string, 0, len(users)+1)
	lines = append(lines, "👥 Users:\n")
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("• #%d %s (%s) - %s", u.ID, u.Username, u.Email, u.Role))
	}
	return []string{strings.Join(lines, "\n")}
}

func (s *BotService) userInfo(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	id, reply := s.parseID("user_info", args)
	if reply != "" {
		return []string{reply}
	}

	user, err := s.api.GetUser(ctx, sess.Token, id)
	if err != nil {
		return []string{s.failure("load the user", err, fmt.Sprintf("User %d not found.", id))}
	}
	return []string{formatUser(user)}
}

func (s *BotService) deleteUser(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	id, reply := s.parseID("delete_user", args)
	if reply != "" {
		return []string{reply}
	}

	if err := s.api.DeleteUser(ctx, sess.Token, id); err != nil {
		return []string{s.failure("delete the user", err, fmt.Sprintf("User %d not found.", id))}
	}

	s.logger.Info("User deleted", zap.Int64("user_id", chatUserID), zap.Int("deleted_id", id))
	return []string{fmt.Sprintf("🗑️ User %d deleted.", id)}
}
