// Package bridge connects in-panel viewers to the pending-jump cache over
// a websocket. A viewer announces itself with a "ready" message once its
// document is loaded; the bridge answers with the jump waiting for that
// document, if any, and can push further jumps while the viewer is open.
package bridge

import (
	"errors"
	"net"
	"net/http"
	"sync"

	"docnav/internal/locator"
	"docnav/internal/reference"
	"docnav/internal/resolver"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"
	"golang.org/x/text/unicode/norm"
)

// Message commands exchanged with viewers.
const (
	CommandHello            = "hello"
	CommandReady            = "ready"
	CommandGoToPage         = "goToPage"
	CommandGoTo             = "goTo"
	CommandPageJumpComplete = "pageJumpComplete"
	CommandLog              = "log"
	CommandError            = "error"
)

type Message struct {
	Command    string           `json:"command"`
	Session    string           `json:"session,omitempty"`
	URI        string           `json:"uri,omitempty"`
	Page       int              `json:"page,omitempty"`
	TotalPages int              `json:"totalPages,omitempty"`
	ForceJump  bool             `json:"forceJump,omitempty"`
	Locator    *locator.Locator `json:"locator,omitempty"`
	Text       string           `json:"text,omitempty"`
}

// Consumer hands out the pending jump for a reference.
type Consumer interface {
	Consume(ref reference.Reference, total int) (locator.Locator, bool)
}

var ErrNotStarted = errors.New("bridge: not started")

type viewer struct {
	id    string
	conn  *websocket.Conn
	write sync.Mutex

	mu    sync.Mutex
	keys  map[string]struct{}
	total int
}

func (v *viewer) send(msg Message) error {
	v.write.Lock()
	defer v.write.Unlock()
	return v.conn.WriteJSON(msg)
}

func (v *viewer) showing(ids []string) (bool, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, k := range ids {
		if _, ok := v.keys[k]; ok {
			return true, v.total
		}
	}
	return false, 0
}

type Bridge struct {
	jumps    Consumer
	upgrader websocket.Upgrader
	log      commonlog.Logger

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	server  *http.Server
	addr    string
}

func New(jumps Consumer) *Bridge {
	return &Bridge{
		jumps:    jumps,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:      commonlog.GetLogger("docnav.bridge"),
		viewers:  make(map[*viewer]struct{}),
	}
}

// Handler serves the viewer websocket at /ws.
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.handleWS)
	return mux
}

// Start listens on addr (":0" picks a free port) and returns the
// websocket URL viewers connect to.
func (b *Bridge) Start(addr string) (string, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	srv := &http.Server{Handler: b.Handler()}

	b.mu.Lock()
	b.server = srv
	b.addr = "ws://" + l.Addr().String() + "/ws"
	b.mu.Unlock()

	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.log.Errorf("bridge server error: %v", err)
		}
	}()
	b.log.Infof("viewer bridge listening on %s", b.addr)
	return b.addr, nil
}

// Addr is the websocket URL, empty until Start.
func (b *Bridge) Addr() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addr
}

// Close stops the server and disconnects every viewer.
func (b *Bridge) Close() error {
	b.mu.Lock()
	srv := b.server
	b.server = nil
	viewers := b.viewers
	b.viewers = make(map[*viewer]struct{})
	b.mu.Unlock()

	for v := range viewers {
		v.conn.Close()
	}
	if srv == nil {
		return nil
	}
	return srv.Close()
}

// Viewers is the number of connected viewers.
func (b *Bridge) Viewers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.viewers)
}

// identity lists the forms a viewer's document is matched under. Unlike
// the cache variants it leaves out the bare file name, which two
// directories can share.
func identity(ref reference.Reference) []string {
	ids := []string{ref.Path, ref.URI()}
	if nfc := norm.NFC.String(ref.Path); nfc != ref.Path {
		ids = append(ids, nfc, reference.Parse(nfc).URI())
	}
	return ids
}

// Navigate pushes loc to every viewer showing ref and reports how many
// received it.
func (b *Bridge) Navigate(ref reference.Reference, loc locator.Locator) int {
	ids := identity(ref)

	b.mu.Lock()
	var targets []*viewer
	for v := range b.viewers {
		targets = append(targets, v)
	}
	b.mu.Unlock()

	sent := 0
	for _, v := range targets {
		ok, total := v.showing(ids)
		if !ok {
			continue
		}
		clamped, valid := resolver.Clamp(loc, total)
		if !valid {
			continue
		}
		if err := v.send(goTo(clamped)); err != nil {
			b.log.Warningf("push to viewer %s failed: %v", v.id, err)
			b.drop(v)
			continue
		}
		sent++
	}
	return sent
}

func goTo(loc locator.Locator) Message {
	if loc.Numeric() {
		return Message{Command: CommandGoToPage, Page: loc.N, ForceJump: true, Locator: &loc}
	}
	return Message{Command: CommandGoTo, Locator: &loc}
}

func (b *Bridge) drop(v *viewer) {
	b.mu.Lock()
	delete(b.viewers, v)
	b.mu.Unlock()
	v.conn.Close()
}

func (b *Bridge) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warningf("ws upgrade error: %v", err)
		return
	}
	v := &viewer{id: uuid.NewString(), conn: conn}

	b.mu.Lock()
	b.viewers[v] = struct{}{}
	b.mu.Unlock()
	defer b.drop(v)

	if err := v.send(Message{Command: CommandHello, Session: v.id}); err != nil {
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		b.handle(v, msg)
	}
}

func (b *Bridge) handle(v *viewer, msg Message) {
	switch msg.Command {
	case CommandReady:
		ref := reference.Parse(msg.URI)
		keys := make(map[string]struct{})
		for _, k := range identity(ref) {
			if k != "" {
				keys[k] = struct{}{}
			}
		}
		v.mu.Lock()
		v.keys = keys
		v.total = msg.TotalPages
		v.mu.Unlock()

		loc, ok := b.jumps.Consume(ref, msg.TotalPages)
		if !ok {
			b.log.Debugf("viewer %s ready for %s, no pending jump", v.id, msg.URI)
			return
		}
		b.log.Infof("viewer %s ready for %s, jumping to %s", v.id, msg.URI, loc)
		if err := v.send(goTo(loc)); err != nil {
			b.log.Warningf("send to viewer %s failed: %v", v.id, err)
		}
	case CommandPageJumpComplete:
		b.log.Debugf("viewer %s reached page %d", v.id, msg.Page)
	case CommandLog:
		b.log.Debugf("viewer %s: %s", v.id, msg.Text)
	case CommandError:
		b.log.Warningf("viewer %s error: %s", v.id, msg.Text)
	default:
		b.log.Warningf("unknown command %q from viewer %s", msg.Command, v.id)
	}
}
