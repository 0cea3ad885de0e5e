// internal/puzzle/types.go
//
// Core type definitions for an authored Connections puzzle.
// Defines:
//   - GroupKey: the fixed 1–4 key of a group slot.
//   - Group: one authored bucket (title, raw items text, derived items).
//   - Definition: exactly four groups, indexed by key.
//
// The four-slot array makes "always exactly 4 groups" a property of the type.

package puzzle

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// GroupCount is the number of groups in every puzzle.
	GroupCount = 4
	// TotalItems is the grid size a puzzle must fill.
	TotalItems = 16
	// UntitledLabel stands in for a blank group title in messages.
	UntitledLabel = "Untitled"
)

// GroupKey identifies one of the four group slots (1..4).
type GroupKey int

// Keys lists the group keys in display order.
var Keys = [GroupCount]GroupKey{1, 2, 3, 4}

// Valid reports whether k is one of the four group keys.
func (k GroupKey) Valid() bool { return k >= 1 && k <= GroupCount }

func (k GroupKey) String() string { return strconv.Itoa(int(k)) }

// ParseGroupKey converts "1".."4" to a GroupKey.
func ParseGroupKey(s string) (GroupKey, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	k := GroupKey(n)
	return k, k.Valid()
}

// Group is one authored bucket of items.
type Group struct {
	Title      string   `json:"title"`
	ItemsInput string   `json:"itemsInput"`
	Items      []string `json:"items"` // derived from ItemsInput; see SetItemsInput
}

// SetItemsInput replaces the raw text and re-derives Items.
func (g *Group) SetItemsInput(s string) {
	g.ItemsInput = s
	g.Items = ParseItems(s)
}

// Definition is the full authored content, before shuffling.
type Definition struct {
	groups [GroupCount]Group
}

// NewDefinition builds a Definition from the four groups in key order,
// deriving items from each group's ItemsInput.
func NewDefinition(groups [GroupCount]Group) Definition {
	var d Definition
	for i, g := range groups {
		d.groups[i] = Group{Title: g.Title}
		d.groups[i].SetItemsInput(g.ItemsInput)
	}
	return d
}

// Group returns a copy of the group stored under k.
// Invalid keys yield the zero Group.
func (d Definition) Group(k GroupKey) Group {
	if !k.Valid() {
		return Group{}
	}
	g := d.groups[k-1]
	g.Items = append([]string(nil), g.Items...)
	return g
}

// Groups returns copies of all four groups in key order.
func (d Definition) Groups() [GroupCount]Group {
	var out [GroupCount]Group
	for i, k := range Keys {
		out[i] = d.Group(k)
	}
	return out
}

// SetTitle changes the title of group k.
func (d *Definition) SetTitle(k GroupKey, title string) {
	if k.Valid() {
		d.groups[k-1].Title = title
	}
}

// SetItemsInput changes the raw items text of group k and re-derives its items.
func (d *Definition) SetItemsInput(k GroupKey, input string) {
	if k.Valid() {
		d.groups[k-1].SetItemsInput(input)
	}
}

// AllItems returns every derived item, group 1 first, in authored order.
func (d Definition) AllItems() []string {
	out := make([]string, 0, TotalItems)
	for _, g := range d.groups {
		out = append(out, g.Items...)
	}
	return out
}

// ItemCount is the total number of derived items across all groups.
func (d Definition) ItemCount() int {
	n := 0
	for _, g := range d.groups {
		n += len(g.Items)
	}
	return n
}

// TallyMatches reports whether the item count equals the grid size.
func (d Definition) TallyMatches() bool { return d.ItemCount() == TotalItems }

// MarshalJSON encodes the four groups as a JSON array in key order.
func (d Definition) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.groups)
}

// UnmarshalJSON accepts exactly four {title, itemsInput} objects.
// Any "items" field is ignored and re-derived from itemsInput.
func (d *Definition) UnmarshalJSON(b []byte) error {
	var raw []Group
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != GroupCount {
		return fmt.Errorf("puzzle: expected %d groups, got %d", GroupCount, len(raw))
	}
	*d = NewDefinition([GroupCount]Group(raw))
	return nil
}
