package ircv3cap

import "testing"

func TestLSRequestsAutoCapsAndEnds(t *testing.T) {
	c := New()

	toReq, sendEnd := c.LS("multi-prefix away-notify unknown-cap", false, false)

	if len(toReq) != 2 {
		t.Fatalf("toReq = %v, want 2 entries", toReq)
	}
	if sendEnd {
		t.Error("sendEnd should be false while requests are pending")
	}
	if c.CapReqs != 2 {
		t.Fatalf("CapReqs = %d, want 2", c.CapReqs)
	}

	mp, _ := c.Get("multi-prefix")
	if !mp.Supported || !mp.Req {
		t.Errorf("multi-prefix = %+v, want supported+req", mp)
	}

	unk, ok := c.Get("unknown-cap")
	if ok || unk.Supported {
		t.Error("unregistered capability should not be tracked")
	}
}

func TestLSNoAutoCapsEndsImmediately(t *testing.T) {
	c := New()
	// register a capability with no Auto attribute
	c.Register("sasl", 0)

	toReq, sendEnd := c.LS("sasl", false, false)
	if len(toReq) != 0 {
		t.Fatalf("expected no auto-requests, got %v", toReq)
	}
	if !sendEnd {
		t.Error("expected sendEnd when no caps were requested")
	}
}

func TestLSContinuedNeverEnds(t *testing.T) {
	c := New()
	_, sendEnd := c.LS("multi-prefix", true, false)
	if sendEnd {
		t.Error("a continued (multi-line) LS must never trigger CAP END")
	}
}

func TestLSRegisteredIsInformationalOnly(t *testing.T) {
	c := New()
	toReq, sendEnd := c.LS("multi-prefix", false, true)
	if len(toReq) != 0 || sendEnd {
		t.Error("LS after registration must not request caps or send END")
	}
	mp, _ := c.Get("multi-prefix")
	if !mp.Supported {
		t.Error("LS after registration should still mark support")
	}
	if mp.Req {
		t.Error("LS after registration should not set Req")
	}
}

func TestACKFlipsSetAndEndsRegistration(t *testing.T) {
	c := New()
	c.LS("multi-prefix", false, false)

	sendEnd, err := c.ACK("multi-prefix", false)
	if err != nil {
		t.Fatalf("ACK: %v", err)
	}
	if !sendEnd {
		t.Error("expected sendEnd once CapReqs reaches 0")
	}
	mp, _ := c.Get("multi-prefix")
	if !mp.Set || mp.Req {
		t.Errorf("multi-prefix = %+v, want set, not pending", mp)
	}
}

func TestACKUnsetToken(t *testing.T) {
	c := New()
	c.LS("multi-prefix", false, false)
	c.ACK("multi-prefix", false)

	if !c.Request("multi-prefix", true) {
		t.Fatal("Request(disable): expected to succeed on a set capability")
	}

	_, err := c.ACK("-multi-prefix", true)
	if err != nil {
		t.Fatalf("ACK unset: %v", err)
	}
	after, _ := c.Get("multi-prefix")
	if after.Set {
		t.Error("expected capability to be unset after -cap ACK")
	}
}

func TestRequest(t *testing.T) {
	c := New()
	c.Register("sasl", 0)

	if !c.Request("sasl", false) {
		t.Fatal("Request: expected to succeed for an unset, request-capable cap")
	}
	if c.Request("sasl", false) {
		t.Error("Request: should fail while already pending")
	}
	if c.Request("totally-unknown", false) {
		t.Error("Request: should fail for an unregistered capability")
	}
}

func TestACKErrorsOnUnrequested(t *testing.T) {
	c := New()
	_, err := c.ACK("multi-prefix", false)
	if err == nil {
		t.Fatal("expected error acknowledging a capability with no pending request")
	}
}

func TestACKErrorsOnUnsupported(t *testing.T) {
	c := New()
	_, err := c.ACK("totally-unknown-cap", false)
	if err == nil {
		t.Fatal("expected error for unsupported capability")
	}
}

func TestNAKDoesNotSet(t *testing.T) {
	c := New()
	c.LS("multi-prefix", false, false)

	sendEnd, err := c.NAK("multi-prefix", false)
	if err != nil {
		t.Fatalf("NAK: %v", err)
	}
	if !sendEnd {
		t.Error("expected sendEnd once CapReqs reaches 0")
	}
	mp, _ := c.Get("multi-prefix")
	if mp.Set {
		t.Error("NAK must not set the capability")
	}
	if mp.Req {
		t.Error("NAK should clear the pending request")
	}
}

func TestNEWAutoRequests(t *testing.T) {
	c := New()
	toReq := c.NEW("away-notify")
	if len(toReq) != 1 || toReq[0] != "away-notify" {
		t.Fatalf("NEW toReq = %v", toReq)
	}
	entry, _ := c.Get("away-notify")
	if !entry.Supported || !entry.Req {
		t.Errorf("away-notify = %+v", entry)
	}
}

func TestNEWSkipsAlreadySet(t *testing.T) {
	c := New()
	c.LS("multi-prefix", false, false)
	c.ACK("multi-prefix", false)

	toReq := c.NEW("multi-prefix")
	if len(toReq) != 0 {
		t.Errorf("expected no re-request for an already-set capability, got %v", toReq)
	}
}

func TestDEL(t *testing.T) {
	c := New()
	c.LS("multi-prefix", false, false)
	c.ACK("multi-prefix", false)

	c.DEL("multi-prefix")
	entry, _ := c.Get("multi-prefix")
	if entry.Supported || entry.Set {
		t.Errorf("after DEL: %+v, want unsupported and unset", entry)
	}
}

func TestReset(t *testing.T) {
	c := New()
	c.LS("multi-prefix", false, false)
	c.ACK("multi-prefix", false)

	c.Reset()
	if c.CapReqs != 0 {
		t.Errorf("CapReqs after Reset = %d, want 0", c.CapReqs)
	}
	entry, _ := c.Get("multi-prefix")
	if entry.Set || entry.Req || entry.Supported {
		t.Errorf("after Reset: %+v, want all clear", entry)
	}
}

func TestList(t *testing.T) {
	c := New()
	c.LS("multi-prefix away-notify", false, false)
	c.ACK("multi-prefix away-notify", false)

	set := c.List()
	if len(set) != 2 {
		t.Fatalf("List() = %v, want 2 entries", set)
	}
}
