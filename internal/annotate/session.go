// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate holds an editing session over a loaded document set.
// All annotation operations apply to the current document. Mutations are
// immediate and visible to the next Segments call; there is no undo.
//
// Annotations can be addressed two ways: by position in the current
// document's list (Edit, Delete), which shifts after deletes, or by the
// stable key assigned at creation (EditByID, DeleteByID).
package annotate

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/pdiddy/pubtator-editor/internal/registry"
	"github.com/pdiddy/pubtator-editor/internal/segment"
	"github.com/pdiddy/pubtator-editor/pkg/types"
)

// PlaceholderTitle is the title given to documents created by NewDocument.
const PlaceholderTitle = "Untitled document"

var (
	// ErrNoCurrentDocument indicates an operation on an empty session.
	ErrNoCurrentDocument = errors.New("no current document")

	// ErrDocumentNotFound indicates a document id lookup miss.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrAnnotationNotFound indicates an annotation lookup miss.
	ErrAnnotationNotFound = errors.New("annotation not found")

	// ErrIndexOutOfRange indicates an invalid document or annotation index.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidSpan indicates offsets outside 0 <= start < end <= len(text).
	ErrInvalidSpan = errors.New("invalid span")
)

// Options configures a Session.
type Options struct {
	// ResortOnEdit re-sorts the annotation list after Edit and EditByID.
	ResortOnEdit bool

	// Segment is passed to every segmentation pass.
	Segment segment.Options
}

// Session is a single-owner editing session. It is not safe for
// concurrent use.
type Session struct {
	docs     []types.Document
	current  int
	registry *registry.Registry
	opts     Options
	log      *slog.Logger
}

// NewSession starts a session over docs, which it takes ownership of. The
// first document becomes current. Every annotation gets a stable key and
// its type is registered in reg. A nil reg creates a default registry.
func NewSession(docs []types.Document, reg *registry.Registry, opts Options) *Session {
	if reg == nil {
		reg = registry.New()
	}
	s := &Session{
		docs:     docs,
		current:  -1,
		registry: reg,
		opts:     opts,
		log:      slog.Default(),
	}
	for i := range s.docs {
		d := &s.docs[i]
		for j := range d.Annotations {
			d.Annotations[j].ID = d.ID
			d.Annotations[j].Key = d.NextKey()
			reg.Register(d.Annotations[j].Type)
		}
	}
	if len(s.docs) > 0 {
		s.current = 0
	}
	return s
}

// SetLogger replaces the session logger.
func (s *Session) SetLogger(l *slog.Logger) {
	s.log = l
}

// Documents returns the document set in order. The slice is shared with
// the session.
func (s *Session) Documents() []types.Document {
	return s.docs
}

// Len returns the number of documents.
func (s *Session) Len() int {
	return len(s.docs)
}

// Registry returns the session's entity type registry.
func (s *Session) Registry() *registry.Registry {
	return s.registry
}

// CurrentIndex returns the current document index, or -1 when empty.
func (s *Session) CurrentIndex() int {
	return s.current
}

// Current returns the current document.
func (s *Session) Current() (*types.Document, error) {
	if s.current < 0 || s.current >= len(s.docs) {
		return nil, ErrNoCurrentDocument
	}
	return &s.docs[s.current], nil
}

// Select makes the document at index current.
func (s *Session) Select(index int) error {
	if index < 0 || index >= len(s.docs) {
		return fmt.Errorf("selecting document %d of %d: %w", index, len(s.docs), ErrIndexOutOfRange)
	}
	s.current = index
	return nil
}

// SelectByID makes the first document with the given id current.
func (s *Session) SelectByID(id string) error {
	for i := range s.docs {
		if s.docs[i].ID == id {
			s.current = i
			return nil
		}
	}
	return fmt.Errorf("document %s: %w", id, ErrDocumentNotFound)
}

// NewDocument appends an empty document with a generated id and a
// placeholder title, and makes it current.
func (s *Session) NewDocument() *types.Document {
	s.docs = append(s.docs, types.Document{
		ID:    uuid.NewString(),
		Title: PlaceholderTitle,
	})
	s.current = len(s.docs) - 1
	d := &s.docs[s.current]
	s.log.Debug("new document", "id", d.ID)
	return d
}

// Add inserts a into the current document and returns the stored copy.
// The id is forced to the document id, a fresh key is assigned, and the
// list is re-sorted by start with ties in insertion order. An empty Text
// is filled from the combined text. Overlaps and duplicates are allowed.
func (s *Session) Add(a types.Annotation) (types.Annotation, error) {
	d, err := s.Current()
	if err != nil {
		return types.Annotation{}, err
	}
	if err := checkSpan(d, a); err != nil {
		return types.Annotation{}, err
	}
	if a.Text == "" {
		a.Text = d.CombinedText()[a.Start:a.End]
	}
	a.ID = d.ID
	a.Key = d.NextKey()

	d.Annotations = append(d.Annotations, a)
	sortByStart(d.Annotations)

	if s.registry.Register(a.Type) {
		s.log.Info("registered entity type", "type", a.Type)
	}
	return a, nil
}

// Edit replaces the annotation at index wholesale, keeping its key. An
// empty Text is filled from the combined text, as in Add. The
// list is not re-sorted unless Options.ResortOnEdit is set, so callers
// must not assume order after an edit that moves start.
func (s *Session) Edit(index int, a types.Annotation) error {
	d, err := s.Current()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(d.Annotations) {
		return fmt.Errorf("editing annotation %d of %d: %w", index, len(d.Annotations), ErrIndexOutOfRange)
	}
	if err := checkSpan(d, a); err != nil {
		return err
	}
	if a.Text == "" {
		a.Text = d.CombinedText()[a.Start:a.End]
	}
	a.ID = d.ID
	a.Key = d.Annotations[index].Key
	d.Annotations[index] = a
	if s.opts.ResortOnEdit {
		sortByStart(d.Annotations)
	}
	s.registry.Register(a.Type)
	return nil
}

// Delete removes the annotation at index. Later indices shift down by one.
func (s *Session) Delete(index int) error {
	d, err := s.Current()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(d.Annotations) {
		return fmt.Errorf("deleting annotation %d of %d: %w", index, len(d.Annotations), ErrIndexOutOfRange)
	}
	d.Annotations = append(d.Annotations[:index], d.Annotations[index+1:]...)
	return nil
}

// FindIndex returns the index of the first annotation in the current
// document matching a on start, end and text.
func (s *Session) FindIndex(a types.Annotation) (int, error) {
	d, err := s.Current()
	if err != nil {
		return -1, err
	}
	for i, b := range d.Annotations {
		if b.Start == a.Start && b.End == a.End && b.Text == a.Text {
			return i, nil
		}
	}
	return -1, fmt.Errorf("annotation [%d,%d) %q: %w", a.Start, a.End, a.Text, ErrAnnotationNotFound)
}

// Annotation returns the annotation with the given key and its current index.
func (s *Session) Annotation(key int) (types.Annotation, int, error) {
	d, err := s.Current()
	if err != nil {
		return types.Annotation{}, -1, err
	}
	i := indexOfKey(d.Annotations, key)
	if i < 0 {
		return types.Annotation{}, -1, fmt.Errorf("annotation key %d: %w", key, ErrAnnotationNotFound)
	}
	return d.Annotations[i], i, nil
}

// EditByID replaces the annotation with the given key.
func (s *Session) EditByID(key int, a types.Annotation) error {
	_, i, err := s.Annotation(key)
	if err != nil {
		return err
	}
	return s.Edit(i, a)
}

// DeleteByID removes the annotation with the given key.
func (s *Session) DeleteByID(key int) error {
	_, i, err := s.Annotation(key)
	if err != nil {
		return err
	}
	return s.Delete(i)
}

// Segments partitions the current document's text for rendering.
func (s *Session) Segments(pattern string) ([]types.Segment, error) {
	d, err := s.Current()
	if err != nil {
		return nil, err
	}
	return segment.Segment(d.CombinedText(), d.Annotations, pattern, s.opts.Segment), nil
}

// Resolve maps a rendered segment at position back to the key of the
// annotation it most likely shows, using content matching near position.
func (s *Session) Resolve(seg types.Segment, position int) (int, error) {
	d, err := s.Current()
	if err != nil {
		return 0, err
	}
	i, ok := segment.Reconcile(seg, position, d.Annotations)
	if !ok {
		return 0, fmt.Errorf("segment %q at %d: %w", seg.Text, position, ErrAnnotationNotFound)
	}
	return d.Annotations[i].Key, nil
}

// SetTitle replaces the current document's title and re-anchors its
// annotations. Annotations whose text no longer occurs are removed and
// returned.
func (s *Session) SetTitle(title string) ([]types.Annotation, error) {
	d, err := s.Current()
	if err != nil {
		return nil, err
	}
	return s.retext(d, func() { d.Title = title }), nil
}

// SetAbstract replaces the current document's abstract and re-anchors its
// annotations, like SetTitle.
func (s *Session) SetAbstract(abstract string) ([]types.Annotation, error) {
	d, err := s.Current()
	if err != nil {
		return nil, err
	}
	return s.retext(d, func() { d.Abstract = abstract }), nil
}

func (s *Session) retext(d *types.Document, apply func()) []types.Annotation {
	oldText := d.CombinedText()
	apply()
	kept, lost := segment.Reanchor(oldText, d.CombinedText(), d.Annotations)
	d.Annotations = kept
	for _, a := range lost {
		s.log.Warn("annotation lost after text edit",
			"document", d.ID, "start", a.Start, "end", a.End, "text", a.Text)
	}
	return lost
}

func checkSpan(d *types.Document, a types.Annotation) error {
	n := len(d.CombinedText())
	if a.Start < 0 || a.Start >= a.End || a.End > n {
		return fmt.Errorf("[%d,%d) in text of length %d: %w", a.Start, a.End, n, ErrInvalidSpan)
	}
	return nil
}

func sortByStart(anns []types.Annotation) {
	sort.SliceStable(anns, func(i, j int) bool { return anns[i].Start < anns[j].Start })
}

func indexOfKey(anns []types.Annotation, key int) int {
	for i, a := range anns {
		if a.Key == key {
			return i
		}
	}
	return -1
}
