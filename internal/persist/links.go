package persist

import (
	"net/url"
	"strings"
)

// LinkPath is the page that share links point at.
const LinkPath = "/connections"

// LoadRequest is "load puzzle ID, in edit mode or not", as read from a link.
type LoadRequest struct {
	ID   string `json:"game"`
	Edit bool   `json:"edit"`
}

// ShareURL returns <origin>/connections?game=<id>.
func ShareURL(origin, id string) string {
	return strings.TrimRight(origin, "/") + LinkPath + "?game=" + url.QueryEscape(id)
}

// EditURL returns <origin>/connections?game=<id>&edit=true.
func EditURL(origin, id string) string {
	return ShareURL(origin, id) + "&edit=true"
}

// ParseLink reads a LoadRequest from link query values.
// edit=true or edit=1 selects edit mode; ok is false without a game id.
func ParseLink(q url.Values) (req LoadRequest, ok bool) {
	req.ID = strings.TrimSpace(q.Get("game"))
	edit := q.Get("edit")
	req.Edit = edit == "true" || edit == "1"
	return req, req.ID != ""
}
