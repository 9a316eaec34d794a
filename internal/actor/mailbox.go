package actor

// CommRef is the subset of a CommImpl a Mailbox needs to perform rendezvous
// matching, per spec §3/§4.4. Defined here (rather than imported from
// internal/activity) to avoid an import cycle: activity imports actor for
// waiter bookkeeping, so actor cannot import activity back.
type CommRef interface {
	MatchKey() string // not consulted by Put/Get, which pair entries strictly in FIFO order
	IsSend() bool
}

// Mailbox is the FIFO rendezvous point for matching sends and receives,
// per spec §3.
type Mailbox struct {
	Name     string
	sends    []CommRef
	recvs    []CommRef
	Receiver *Actor // assigned receiver, recorded by SetReceiver; Put/Get do not consult it
}

// NewMailbox constructs an empty, unaffiliated mailbox.
func NewMailbox(name string) *Mailbox { return &Mailbox{Name: name} }

// SetReceiver records a as the mailbox's assigned receiver in Receiver.
// Put and Get do not consult it: matching stays rendezvous, and a send is
// queued until a Get arrives; no transfer starts before a recv is posted.
func (m *Mailbox) SetReceiver(a *Actor) { m.Receiver = a }

// Put enqueues a send-side activity, returning the oldest queued recv
// (FIFO) or nil if none is queued yet.
func (m *Mailbox) Put(c CommRef) CommRef {
	if len(m.recvs) > 0 {
		r := m.recvs[0]
		m.recvs = m.recvs[1:]
		return r
	}
	m.sends = append(m.sends, c)
	return nil
}

// Get enqueues a recv-side activity, returning a previously queued send it
// matches, or nil if none is queued yet.
func (m *Mailbox) Get(c CommRef) CommRef {
	if len(m.sends) > 0 {
		s := m.sends[0]
		m.sends = m.sends[1:]
		return s
	}
	m.recvs = append(m.recvs, c)
	return nil
}

// HasPendingRecv reports whether a recv-side activity is already queued
// (spec §6's `iprobe`).
func (m *Mailbox) HasPendingRecv() bool { return len(m.recvs) > 0 }

// HasPendingSend reports whether a send-side activity is already queued.
func (m *Mailbox) HasPendingSend() bool { return len(m.sends) > 0 }
