// Package dispatcher decides how a document reference is opened: which
// viewer, at which locator, with which external command.
package dispatcher

import (
	"fmt"
	"runtime"

	"docnav/internal/cache"
	"docnav/internal/doctype"
	"docnav/internal/locator"
	"docnav/internal/reference"
	"docnav/internal/resolver"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

type Action string

const (
	OpenInPanel    Action = "open-in-panel"
	OpenExternally Action = "open-externally"
)

// Decision is the outcome of a dispatch. Command is empty when the OS
// default handler should open the file.
type Decision struct {
	ID             string              `json:"id"`
	Kind           doctype.Kind        `json:"kind"`
	Reference      reference.Reference `json:"reference"`
	Locator        *locator.Locator    `json:"locator,omitempty"`
	Action         Action              `json:"action"`
	Command        []string            `json:"command,omitempty"`
	LocatorApplied bool                `json:"locatorApplied"`
	JumpID         string              `json:"jumpId,omitempty"`
	Notice         string              `json:"notice,omitempty"`
}

// Recorder stores a jump for a viewer that will ask for it once ready.
type Recorder interface {
	Record(ref reference.Reference, loc locator.Locator) (cache.Jump, error)
}

// Apps maps document families and extensions to external applications.
type Apps struct {
	Word       string
	Excel      string
	PowerPoint string
	// External maps a lower-case extension without dot to an application.
	External map[string]string
}

type Options struct {
	OriginalURL string
	Total       int
}

type Dispatcher struct {
	apps      Apps
	platform  string
	baseDir   string
	recorders map[doctype.Kind]Recorder
	log       commonlog.Logger
}

type Option func(*Dispatcher)

// WithPlatform overrides runtime.GOOS when choosing command conventions.
func WithPlatform(goos string) Option {
	return func(d *Dispatcher) { d.platform = goos }
}

// WithBaseDir anchors relative references.
func WithBaseDir(dir string) Option {
	return func(d *Dispatcher) { d.baseDir = dir }
}

// WithRecorder registers where pending jumps for kind are kept.
func WithRecorder(kind doctype.Kind, r Recorder) Option {
	return func(d *Dispatcher) { d.recorders[kind] = r }
}

func New(apps Apps, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		apps:      apps,
		platform:  runtime.GOOS,
		recorders: map[doctype.Kind]Recorder{},
		log:       commonlog.GetLogger("docnav.dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch classifies input, resolves its locator and picks the action.
// An input that is not a reference at all dispatches as an "other"
// document without locator and carries a Notice saying so.
func (d *Dispatcher) Dispatch(input any, explicit *locator.Locator, opts Options) (Decision, error) {
	ref, err := reference.From(input)
	if err != nil {
		d.log.Warningf("cannot dispatch %v: %v", input, err)
		return Decision{
			ID:     uuid.NewString(),
			Kind:   doctype.Other,
			Action: OpenExternally,
			Notice: fmt.Sprintf("Cannot open %v: not a file reference", input),
		}, nil
	}
	ref = ref.ResolveAgainst(d.baseDir)

	kind := doctype.Classify(ref.Path)
	decision := Decision{
		ID:        uuid.NewString(),
		Kind:      kind,
		Reference: ref,
	}

	loc, ok := resolver.Resolve(resolver.Request{
		Reference:   ref,
		Explicit:    explicit,
		OriginalURL: opts.OriginalURL,
		Total:       opts.Total,
	})
	if ok {
		decision.Locator = &loc
	}

	if kind.InPanel() {
		decision.Action = OpenInPanel
		d.inPanel(&decision)
	} else {
		decision.Action = OpenExternally
		d.external(&decision)
	}

	d.log.Infof("dispatch %s: kind=%s action=%s locator=%v", ref.Raw, kind, decision.Action, decision.Locator)
	return decision, nil
}

func (d *Dispatcher) inPanel(dec *Decision) {
	if dec.Locator == nil {
		return
	}
	rec, ok := d.recorders[dec.Kind]
	if !ok {
		// The host applies the locator itself (text selections).
		dec.LocatorApplied = true
		return
	}
	jump, err := rec.Record(dec.Reference, *dec.Locator)
	if err != nil {
		d.log.Errorf("could not record jump for %s: %v", dec.Reference.Raw, err)
		dec.Notice = fmt.Sprintf("Could not remember %s for %s; navigate manually.", dec.Locator.Describe(), dec.Reference.FileName())
		return
	}
	dec.JumpID = jump.ID
	dec.LocatorApplied = true
}

func (d *Dispatcher) external(dec *Decision) {
	dec.Command, dec.LocatorApplied = d.command(dec.Kind, dec.Reference.Path, dec.Locator)
	if dec.Locator != nil && !dec.LocatorApplied {
		dec.Notice = manualNotice(dec.Kind, dec.Reference.FileName(), *dec.Locator)
	}
}
