// Package page assembles dashboard views from session state, charts and
// advisory text, and routes user actions to the ledger.
package page

import (
	"errors"
	"fmt"
	"strings"
)

// View names one dashboard page.
type View string

const (
	ViewHome        View = "home"
	ViewCredits     View = "credits"
	ViewMarketplace View = "marketplace"
	ViewProfile     View = "profile"
	ViewChatbot     View = "chatbot"
)

// ErrUnknownView is returned for view names outside the dashboard.
var ErrUnknownView = errors.New("unknown view")

var views = []View{ViewHome, ViewCredits, ViewMarketplace, ViewProfile, ViewChatbot}

var titles = map[View]string{
	ViewHome:        "Home",
	ViewCredits:     "Credit Management",
	ViewMarketplace: "Marketplace",
	ViewProfile:     "Profile",
	ViewChatbot:     "Chatbot",
}

// NavItem is one entry of the page selector.
type NavItem struct {
	View  View   `json:"view"`
	Title string `json:"title"`
}

// Views returns the page selector entries in display order.
func Views() []NavItem {
	items := make([]NavItem, 0, len(views))
	for _, v := range views {
		items = append(items, NavItem{View: v, Title: titles[v]})
	}
	return items
}

// ParseView resolves a view name, case-insensitively.
func ParseView(name string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := titles[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return v, nil
}

// Title returns the display title of v.
func (v View) Title() string {
	return titles[v]
}
