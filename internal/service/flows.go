package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"catalogbot/internal/domain"
	"catalogbot/internal/form"

	"go.uber.org/zap"
)

const createUserTemplate = "📝 Send the new user's details, one field per line:\n\n" +
	"username: john\n" +
	"email: john@example.com\n" +
	"password: secret123\n" +
	"role: user\n\n" +
	"role is optional (user, admin, superadmin), user by default."

const createItemTemplate = "📝 Send the new item's details, one field per line:\n\n" +
	"name: iPhone 15\n" +
	"slug: iphone-15\n" +
	"description: Latest model\n" +
	"price: 799.99\n" +
	"available: yes\n" +
	"category_ids: 1, 2\n\n" +
	"name, slug and price are required."

const createCategoryTemplate = "📝 Send the new category's details, one field per line:\n\n" +
	"name: Phones\n" +
	"title: Mobile phones\n" +
	"slug: phones\n\n" +
	"name and slug are required."

func (s *BotService) createUser(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	return s.startFlow(ctx, chatUserID, sess, domain.FlowCreatingUser, 0, createUserTemplate)
}

func (s *BotService) createItem(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	return s.startFlow(ctx, chatUserID, sess, domain.FlowCreatingItem, 0, createItemTemplate)
}

func (s *BotService) createCategory(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	return s.startFlow(ctx, chatUserID, sess, domain.FlowCreatingCategory, 0, createCategoryTemplate)
}

func (s *BotService) updateUser(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	id, reply := s.parseID("update_user", args)
	if reply != "" {
		return []string{reply}
	}

	user, err := s.api.GetUser(ctx, sess.Token, id)
	if err != nil {
		return []string{s.failure("load the user", err, fmt.Sprintf("User %d not found.", id))}
	}

	template := fmt.Sprintf("✏️ Updating user %d\n\n%s\n\n", id, formatUser(user)) +
		"Send only the fields to change, one per line:\n\n" +
		"username: new_name\n" +
		"email: new@example.com\n" +
		"password: new_password\n" +
		"role: admin"
	return s.startFlow(ctx, chatUserID, sess, domain.FlowUpdatingUser, id, template)
}

func (s *BotService) updateItem(ctx context.Context, chatUserID int64, sess *domain.Session, args []string) []string {
	id, reply := s.parseID("update_item", args)
	if reply != "" {
		return []string{reply}
	}

	item, err := s.api.GetItem(ctx, sess.Token, id)
	if err != nil {
		return []string{s.failure("load the item", err, fmt.Sprintf("Item %d not found.", id))}
	}

	template := fmt.Sprintf("✏️ Updating item %d\n\n%s\n\n", id, formatItem(item)) +
		"Send only the fields to change, one per line:\n\n" +
		"name: New name\n" +
		"slug: new-slug\n" +
		"description: New description\n" +
		"price: 899.99\n" +
		"available: no\n" +
		"category_ids: 1, 3"

	categories, err := s.api.ListCategories(ctx, sess.Token)
	if err != nil {
		s.logger.Warn("Failed to load categories for update template", zap.Error(err))
	} else if len(categories) > 0 {
		template += "\n\n📁 Categories:\n" + categoryLines(categories)
	}

	return s.startFlow(ctx, chatUserID, sess, domain.FlowUpdatingItem, id, template)
}

// userForm holds the parsed user fields and a summary of what was set
type userForm struct {
	input   domain.UserInput
	changes []string
}

func parseUserForm(fields form.Fields) (userForm, string) {
	var f userForm
	if v, _ := fields.Get("username"); v != "" {
		f.input.Username = v
		f.changes = append(f.changes, "username: "+v)
	}
	if v, _ := fields.Get("email"); v != "" {
		f.input.Email = v
		f.changes = append(f.changes, "email: "+v)
	}
	if v, _ := fields.Get("password"); v != "" {
		f.input.Password = v
		f.changes = append(f.changes, "password: updated")
	}
	if v, _ := fields.Get("role"); v != "" {
		role, ok := domain.ParseRole(v)
		if !ok {
			return userForm{}, fmt.Sprintf("❌ Invalid role %q. Use user, admin or superadmin.", v)
		}
		f.input.Role = role
		f.changes = append(f.changes, "role: "+string(role))
	}
	return f, ""
}

func (s *BotService) finishCreateUser(ctx context.Context, sess *domain.Session, flow domain.PendingFlow, text string) []string {
	fields := form.Parse(text)
	f, reply := parseUserForm(fields)
	if reply != "" {
		return []string{reply}
	}
	if missing := fields.Missing("username", "email", "password"); len(missing) > 0 {
		return []string{missingFields(missing)}
	}
	if f.input.Role == "" {
		f.input.Role = domain.RoleUser
	}

	user, err := s.api.CreateUser(ctx, sess.Token, f.input)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && errors.Is(err, domain.ErrBadRequest) {
			switch {
			case apiErr.HasField("username"):
				return []string{fmt.Sprintf("❌ Username %q is not available: %s", f.input.Username, apiErr.Message())}
			case apiErr.HasField("email"):
				return []string{fmt.Sprintf("❌ Email %q is not available: %s", f.input.Email, apiErr.Message())}
			}
		}
		return []string{s.failure("create the user", err, "")}
	}

	s.logger.Info("User created", zap.Int("created_id", user.ID), zap.String("role", string(user.Role)))
	return []string{fmt.Sprintf("✅ User %q created!", user.Username), formatUser(user)}
}

func (s *BotService) finishUpdateUser(ctx context.Context, sess *domain.Session, flow domain.PendingFlow, text string) []string {
	f, reply := parseUserForm(form.Parse(text))
	if reply != "" {
		return []string{reply}
	}
	if len(f.changes) == 0 {
		return []string{msgNoFields}
	}

	if _, err := s.api.UpdateUser(ctx, sess.Token, flow.TargetID, f.input); err != nil {
		return []string{s.failure("update the user", err, fmt.Sprintf("User %d not found.", flow.TargetID))}
	}

	s.logger.Info("User updated", zap.Int("target_id", flow.TargetID))
	return []string{changed(fmt.Sprintf("✅ User %d updated!", flow.TargetID), f.changes)}
}

// itemForm holds the parsed item fields and a summary of what was set
type itemForm struct {
	input   domain.ItemInput
	changes []string
}

// parseItemForm validates item fields in form order. Local checks run first,
// category ids are then checked against the backend.
func (s *BotService) parseItemForm(ctx context.Context, token string, fields form.Fields) (itemForm, string) {
	var f itemForm

	if v, _ := fields.Get("name"); v != "" {
		f.input.Name = v
		f.changes = append(f.changes, "name: "+v)
	}
	if v, _ := fields.Get("slug"); v != "" {
		slug, err := form.NormalizeSlug(v)
		if err != nil {
			return itemForm{}, invalidField(err)
		}
		f.input.Slug = slug
		f.changes = append(f.changes, "slug: "+slug)
	}
	if v, _ := fields.Get("description"); v != "" {
		f.input.Description = &v
		f.changes = append(f.changes, "description: "+v)
	}
	if v, _ := fields.Get("price"); v != "" {
		p, err := form.ParsePrice(v)
		if err != nil {
			return itemForm{}, invalidField(err)
		}
		f.input.Price = &p
		f.changes = append(f.changes, "price: "+v+" "+currency)
	}
	if v, _ := fields.Get("available"); v != "" {
		available := form.ParseAvailable(v)
		f.input.Available = &available
		f.changes = append(f.changes, "available: "+yesNo(available))
	}
	if v, _ := fields.Get("category_ids"); v != "" {
		ids, reply := s.resolveCategories(ctx, token, v)
		if reply != "" {
			return itemForm{}, reply
		}
		if len(ids) > 0 {
			f.input.CategoryIDs = ids
			f.changes = append(f.changes, "category_ids: "+joinInts(ids))
		}
	}

	return f, ""
}

// resolveCategories parses a comma-separated id list and checks every id
// exists on the backend
func (s *BotService) resolveCategories(ctx context.Context, token, raw string) ([]int, string) {
	var ids []int
	var invalid []string
	for _, part := range form.SplitList(raw) {
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			invalid = append(invalid, part)
			continue
		}
		ids = append(ids, id)
	}
	if len(invalid) > 0 {
		return nil, "❌ Invalid category ids: " + strings.Join(invalid, ", ")
	}
	if len(ids) == 0 {
		return nil, ""
	}

	categories, err := s.api.ListCategories(ctx, token)
	if err != nil {
		return nil, s.failure("check the categories", err, "")
	}
	known := make(map[int]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			invalid = append(invalid, strconv.Itoa(id))
		}
	}
	if len(invalid) > 0 {
		return nil, "❌ Categories not found: " + strings.Join(invalid, ", ") + "\nUse /list_categories to see the existing ones."
	}

	return ids, ""
}

func (s *BotService) finishCreateItem(ctx context.Context, sess *domain.Session, flow domain.PendingFlow, text string) []string {
	fields := form.Parse(text)
	f, reply := s.parseItemForm(ctx, sess.Token, fields)
	if reply != "" {
		return []string{reply}
	}
	if missing := fields.Missing("name", "slug", "price"); len(missing) > 0 {
		return []string{missingFields(missing)}
	}

	item, err := s.api.CreateItem(ctx, sess.Token, f.input)
	if err != nil {
		return []string{s.failure("create the item", err, "")}
	}

	s.logger.Info("Item created", zap.Int("item_id", item.ID))
	return []string{fmt.Sprintf("✅ Item %q created!", item.Name), formatItem(item)}
}

func (s *BotService) finishUpdateItem(ctx context.Context, sess *domain.Session, flow domain.PendingFlow, text string) []string {
	f, reply := s.parseItemForm(ctx, sess.Token, form.Parse(text))
	if reply != "" {
		return []string{reply}
	}
	if len(f.changes) == 0 {
		return []string{msgNoFields}
	}

	if _, err := s.api.UpdateItem(ctx, sess.Token, flow.TargetID, f.input); err != nil {
		return []string{s.failure("update the item", err, fmt.Sprintf("Item %d not found.", flow.TargetID))}
	}

	s.logger.Info("Item updated", zap.Int("item_id", flow.TargetID))
	return []string{changed(fmt.Sprintf("✅ Item %d updated!", flow.TargetID), f.changes)}
}

func (s *BotService) finishCreateCategory(ctx context.Context, sess *domain.Session, flow domain.PendingFlow, text string) []string {
	fields := form.Parse(text)

	var in domain.CategoryInput
	in.Name, _ = fields.Get("name")
	in.Title, _ = fields.Get("title")
	if v, _ := fields.Get("slug"); v != "" {
		slug, err := form.NormalizeSlug(v)
		if err != nil {
			return []string{invalidField(err)}
		}
		in.Slug = slug
	}
	if missing := fields.Missing("name", "slug"); len(missing) > 0 {
		return []string{missingFields(missing)}
	}

	category, err := s.api.CreateCategory(ctx, sess.Token, in)
	if err != nil {
		return []string{s.failure("create the category", err, "")}
	}

	s.logger.Info("Category created", zap.Int("category_id", category.ID))
	return []string{fmt.Sprintf("✅ Category %q created!", category.Name), formatCategory(category)}
}

func changed(header string, changes []string) string {
	return header + "\n\nChanged:\n• " + strings.Join(changes, "\n• ")
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
