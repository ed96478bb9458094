package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"catalogbot/internal/domain"
	"catalogbot/internal/form"
)

const currency = "₸"

const (
	maxDetailLen  = 500
	maxLoggedBody = 2048
)

const (
	msgStart = "👋 Welcome to the catalog bot!\n\n" +
		"Send your username and password separated by a space, e.g.:\n" +
		"alice secret123"
	msgLoginFormat        = "❌ Wrong format. Send your username and password separated by a space, e.g.:\nalice secret123"
	msgLoginFirst         = "❌ Log in first with /start"
	msgUseHelp            = "ℹ️ Use /help to see the available commands."
	msgUseStart           = "ℹ️ Use /start to log in."
	msgUnknownCommand     = "❓ Unknown command. Use /help to see the available commands."
	msgNotLoggedIn        = "ℹ️ You are not logged in."
	msgLoggedOut          = "👋 You have logged out. Use /start to log in again."
	msgFlowExpired        = "⌛ Your previous form has expired. Run the command again to start over."
	msgNoFields           = "❌ No fields to update. Send at least one field in the key: value format."
	msgInternalError      = "⚠️ Something went wrong. Please try again later."
	msgBackendUnavailable = "⚠️ The server is not responding. Please try again later."
	msgSessionRejected    = "🔒 The server rejected your session. Log in again with /start"
)

func welcome(sess domain.Session) string {
	return fmt.Sprintf("✅ Welcome, %s!\nRole: %s", sess.Username, sess.Role)
}

func loginFailed(res *domain.LoginResult, err error) string {
	reason := "invalid username or password"
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 500:
		return "⚠️ The server failed to process the login (status " + strconv.Itoa(apiErr.StatusCode) + "). Send your username and password again to retry."
	case errors.As(err, &apiErr):
		if apiErr.Detail != "" {
			reason = clip(apiErr.Detail, maxDetailLen)
		}
	case err != nil:
		return "⚠️ Could not reach the server. Send your username and password again to retry."
	case res != nil && res.Error != "":
		reason = res.Error
	}
	return "❌ Login failed: " + reason + "\n\nSend your username and password again, or use /start."
}

func validationFailed(action string, apiErr *domain.APIError) string {
	var b strings.Builder
	b.WriteString("❌ Validation failed while trying to " + action)
	lines := apiErr.FieldErrors()
	if apiErr.Detail == "" && len(lines) == 0 {
		b.WriteString(". Check the values and try again.")
		return b.String()
	}
	b.WriteString(":")
	if apiErr.Detail != "" {
		b.WriteString(" " + clip(apiErr.Detail, maxDetailLen))
	}
	for _, line := range lines {
		b.WriteString("\n• " + clip(line, maxDetailLen))
	}
	return b.String()
}

// clip cuts s to at most n runes
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func permissionDenied(cmd Command) string {
	roles := make([]string, len(cmd.Roles))
	for i, r := range cmd.Roles {
		roles[i] = string(r)
	}
	return "⛔ You don't have permission to use /" + cmd.Name + ". Required role: " + strings.Join(roles, " or ")
}

func missingFields(missing []string) string {
	return "❌ Missing required fields: " + strings.Join(missing, ", ")
}

func invalidField(err error) string {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("❌ Invalid %s %q: %s", ve.Field, ve.Value, ve.Reason)
	}
	return "❌ " + err.Error()
}

func yesNo(v bool) string {
	if v {
		return "✅ yes"
	}
	return "❌ no"
}

func price(a domain.Amount) string {
	if a == "" {
		return "-"
	}
	return string(a) + " " + currency
}

func categoryNames(categories []domain.Category) string {
	if len(categories) == 0 {
		return "none"
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

// createdAt trims an ISO timestamp to minutes
func createdAt(ts string) string {
	ts = strings.Replace(ts, "T", " ", 1)
	if len(ts) > 16 {
		return ts[:16]
	}
	return ts
}

func formatUser(u *domain.User) string {
	return fmt.Sprintf("👤 %s (id %d)\nEmail: %s\nRole: %s", u.Username, u.ID, u.Email, u.Role)
}

func formatItem(it *domain.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛍️ %s (id %d)\n", it.Name, it.ID)
	fmt.Fprintf(&b, "Slug: %s\n", it.Slug)
	fmt.Fprintf(&b, "Price: %s\n", price(it.Price))
	fmt.Fprintf(&b, "Available: %s\n", yesNo(it.Available))
	fmt.Fprintf(&b, "Categories: %s", categoryNames(it.Categories))
	if it.Description != "" {
		fmt.Fprintf(&b, "\nDescription: %s", it.Description)
	}
	return b.String()
}

func formatCategory(c *domain.Category) string {
	s := fmt.Sprintf("📁 %s (id %d)\nSlug: %s", c.Name, c.ID, c.Slug)
	if c.Title != "" {
		s += "\nTitle: " + c.Title
	}
	return s
}

func formatOrder(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 Order #%d\n", o.ID)
	fmt.Fprintf(&b, "Item: %s (id %d)\n", o.ItemName, o.ItemID)
	fmt.Fprintf(&b, "Price: %s\n", price(o.ItemPrice))
	fmt.Fprintf(&b, "Quantity: %d\n", o.Quantity)
	fmt.Fprintf(&b, "Total: %s\n", price(o.TotalPrice))
	fmt.Fprintf(&b, "Status: %s", o.Status)
	if o.CreatedAt != "" {
		fmt.Fprintf(&b, "\nCreated: %s", createdAt(o.CreatedAt))
	}
	return b.String()
}

func orderLine(o domain.Order, withUser bool) string {
	line := fmt.Sprintf("• #%d %s × %d = %s [%s]", o.ID, o.ItemName, o.Quantity, price(o.TotalPrice), o.Status)
	if withUser {
		line += " user " + strconv.Itoa(o.UserID)
	}
	if o.CreatedAt != "" {
		line += " " + createdAt(o.CreatedAt)
	}
	return line
}
