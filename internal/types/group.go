package types

import "time"

type BrandInfo struct {
	Name   string `json:"name"`
	Domain string `json:"domain,omitempty"`
}

// Group is a named, ordered set of prompt bindings. All group state is
// remote-authoritative; the client mirrors it but does not own it.
type Group struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Brand     *BrandInfo       `json:"brand,omitempty"`
	Bindings  []*PromptBinding `json:"prompt_bindings,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (g *Group) HasPrompt(promptID int64) bool {
	if g == nil {
		return false
	}
	for _, binding := range g.Bindings {
		if binding != nil && binding.PromptID == promptID {
			return true
		}
	}
	return false
}

func CloneGroup(g *Group) *Group {
	if g == nil {
		return nil
	}
	copy := *g
	if g.Brand != nil {
		brand := *g.Brand
		copy.Brand = &brand
	}
	if g.Bindings != nil {
		copy.Bindings = make([]*PromptBinding, len(g.Bindings))
		for i, binding := range g.Bindings {
			if binding == nil {
				continue
			}
			b := *binding
			copy.Bindings[i] = &b
		}
	}
	return &copy
}
