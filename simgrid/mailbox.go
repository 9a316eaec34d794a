package simgrid

import "github.com/simgrid/simgrid/internal/actor"

// Mailbox is a named rendezvous point actors put/get transfers through,
// per spec §6's Collective operations on Mailboxes.
type Mailbox struct {
	core *actor.Mailbox
}

// GetMailbox returns (creating if necessary) the named mailbox, shared
// process-wide the way SimGrid mailboxes are looked up by name: repeated
// calls with the same name return the same underlying mailbox, so a
// sender and receiver naming it independently still rendezvous.
func (e *Engine) GetMailbox(name string) *Mailbox {
	mb, ok := e.mailboxes[name]
	if !ok {
		mb = actor.NewMailbox(name)
		e.mailboxes[name] = mb
	}
	return &Mailbox{core: mb}
}

// Name returns the mailbox's name.
func (m *Mailbox) Name() string { return m.core.Name }

// SetReceiver records a as this mailbox's assigned receiver (spec §6's
// `set_receiver`). Matching is unchanged by it: a send still waits for a
// recv to be posted before its transfer starts.
func (m *Mailbox) SetReceiver(a *Actor) { m.core.SetReceiver(a.core) }

// HasPendingRecv/HasPendingSend report whether a Get/Put is already queued
// on this mailbox, per spec §6's `iprobe`.
func (m *Mailbox) HasPendingRecv() bool { return m.core.HasPendingRecv() }
func (m *Mailbox) HasPendingSend() bool { return m.core.HasPendingSend() }
