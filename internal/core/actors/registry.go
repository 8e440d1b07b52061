// Package actors resolves the tracked left hand, right hand and body once at
// startup. The interaction systems never search the scene themselves; the
// host resolves a Set here and injects it.
package actors

import (
	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/xrinteract/internal/core/spatial"
	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

// Scene tags used by tracked actors.
const (
	TagHand = "HandTag"
	TagBody = "Body"
)

// Entry is a tagged scene object known to the registry.
type Entry struct {
	Name      string
	Tag       string
	Layer     spatial.Layer
	Transform *physics.Transform
}

// Registry indexes entries by tag in registration order.
type Registry struct {
	byTag map[uint64][]Entry
}

func NewRegistry() *Registry {
	return &Registry{byTag: make(map[uint64][]Entry)}
}

// Register adds an entry. Entries without a tag are ignored.
func (r *Registry) Register(e Entry) {
	if e.Tag == "" {
		return
	}
	key := xxhash.Sum64String(e.Tag)
	r.byTag[key] = append(r.byTag[key], e)
}

// FindAllByTag returns every entry carrying tag, in registration order.
func (r *Registry) FindAllByTag(tag string) []Entry {
	var out []Entry
	for _, e := range r.byTag[xxhash.Sum64String(tag)] {
		if e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

// FindByTag returns the first entry carrying tag.
func (r *Registry) FindByTag(tag string) (Entry, bool) {
	for _, e := range r.byTag[xxhash.Sum64String(tag)] {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// Set holds the resolved tracked actors. Unresolved actors are nil.
type Set struct {
	LeftHand  physics.Tracker
	RightHand physics.Tracker
	Body      physics.Tracker
}

// Resolve maps hand-tagged entries to sides by layer (7 left, 6 right) and
// takes the first body-tagged entry. When several hands share a layer the
// last one wins.
func (r *Registry) Resolve() Set {
	var s Set
	for _, e := range r.FindAllByTag(TagHand) {
		if e.Transform == nil {
			continue
		}
		switch e.Layer {
		case spatial.LayerLeftHand:
			s.LeftHand = e.Transform
		case spatial.LayerRightHand:
			s.RightHand = e.Transform
		}
	}
	if body, ok := r.FindByTag(TagBody); ok && body.Transform != nil {
		s.Body = body.Transform
	}
	return s
}

// Missing lists the actors that could not be resolved.
func (s Set) Missing() []string {
	var out []string
	if s.LeftHand == nil {
		out = append(out, "left_hand")
	}
	if s.RightHand == nil {
		out = append(out, "right_hand")
	}
	if s.Body == nil {
		out = append(out, "body")
	}
	return out
}
