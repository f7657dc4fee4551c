package testutil

import "github.com/roach88/lightcone/internal/ir"

// SampleEvents is the canonical five-event history: linearizable,
// sequential and serializable as given.
//
//	WRITE(3)@A t=5  send 0/ack 10
//	READ(3)@A  t=18 send 15/ack 23
//	WRITE(2)@B t=30 send 25/ack 40
//	CAS(2,3)@A t=35 send 30/ack 40
//	WRITE(4)@A t=65 send 60/ack 80
func SampleEvents() ir.Events {
	return ir.Events{
		{ID: 0, Client: ir.ClientA, Op: ir.OpWrite, Value: ir.WriteOf(3), ClientSend: 0, ClientAck: 10, SystemTime: 5},
		{ID: 1, Client: ir.ClientA, Op: ir.OpRead, Value: ir.ReadOf(3), ClientSend: 15, ClientAck: 23, SystemTime: 18},
		{ID: 2, Client: ir.ClientB, Op: ir.OpWrite, Value: ir.WriteOf(2), ClientSend: 25, ClientAck: 40, SystemTime: 30},
		{ID: 3, Client: ir.ClientA, Op: ir.OpCAS, Value: ir.CASOf(2, 3), ClientSend: 30, ClientAck: 40, SystemTime: 35},
		{ID: 4, Client: ir.ClientA, Op: ir.OpWrite, Value: ir.WriteOf(4), ClientSend: 60, ClientAck: 80, SystemTime: 65},
	}
}

// SampleHistory wraps SampleEvents with the linearizable level selected.
func SampleHistory() ir.History {
	return ir.History{Name: "sample", Level: ir.Linearizable, Events: SampleEvents()}
}

// LateWriteEvents takes effect after its client saw the ack: the WRITE(2)
// of client B lands at t=45 (ack 40) and the CAS follows it. Every CAS
// still matches, so the history is serializable but not linearizable.
func LateWriteEvents() ir.Events {
	events := SampleEvents()
	events = events.WithSystemTime(2, 45)
	return events.WithSystemTime(3, 50)
}

// StaleReadEvents has client A read 0 after its own WRITE(3) took effect.
// Reads are not checked by serializability, so only linearizability fails.
func StaleReadEvents() ir.Events {
	events := SampleEvents()
	events[1].Value = ir.ReadOf(0)
	return events
}

// ReorderedClientEvents applies client A's last WRITE before its first one,
// breaking program order for A and therefore sequential consistency.
func ReorderedClientEvents() ir.Events {
	return SampleEvents().WithSystemTime(4, 3)
}

// MismatchedCASEvents replaces event 3 with CAS(3,2)@B at t=30. It ties
// with WRITE(2)@B and, ordered after it by id, expects 3 while the register
// holds 2.
func MismatchedCASEvents() ir.Events {
	events := SampleEvents()
	events[3].Client = ir.ClientB
	events[3].Value = ir.CASOf(3, 2)
	events[3].SystemTime = 30
	return events
}
