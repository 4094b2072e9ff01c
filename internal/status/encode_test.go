// internal/status/encode_test.go
package status

import "testing"

func TestEncode_Layout(t *testing.T) {
	regs := Encode(Snapshot{
		Health:           HealthStale,
		StaleCount:       3,
		SecondsUnhealthy: 42,
		VerdictMask:      0b1011,
	})

	if len(regs) != SlotsPerBlock {
		t.Fatalf("expected %d slots, got %d", SlotsPerBlock, len(regs))
	}
	if regs[SlotHealthCode] != HealthStale {
		t.Fatalf("health slot: got %d", regs[SlotHealthCode])
	}
	if regs[SlotStaleCount] != 3 {
		t.Fatalf("stale count slot: got %d", regs[SlotStaleCount])
	}
	if regs[SlotSecondsUnhealthy] != 42 {
		t.Fatalf("seconds slot: got %d", regs[SlotSecondsUnhealthy])
	}
	if regs[SlotVerdictMask] != 0b1011 {
		t.Fatalf("mask slot: got %d", regs[SlotVerdictMask])
	}

	// reserved range and name slots untouched
	for i := SlotReservedStart; i < SlotsPerBlock; i++ {
		if regs[i] != 0 {
			t.Fatalf("slot %d should be zero, got %d", i, regs[i])
		}
	}
}

func TestEncodeName(t *testing.T) {
	regs := EncodeName("zeus")

	if len(regs) != SlotNameSlots {
		t.Fatalf("expected %d name slots, got %d", SlotNameSlots, len(regs))
	}
	// two ASCII bytes per register, big-endian
	if regs[0] != uint16('z')<<8|uint16('e') {
		t.Fatalf("reg 0: got %#x", regs[0])
	}
	if regs[1] != uint16('u')<<8|uint16('s') {
		t.Fatalf("reg 1: got %#x", regs[1])
	}
	for i := 2; i < SlotNameSlots; i++ {
		if regs[i] != 0 {
			t.Fatalf("reg %d should be zero padding, got %#x", i, regs[i])
		}
	}
}

func TestEncodeName_TruncatesAndSanitizes(t *testing.T) {
	regs := EncodeName("abcdefghijklmnopQRST") // 20 chars, 16 kept
	if regs[7] != uint16('o')<<8|uint16('p') {
		t.Fatalf("truncation: last reg got %#x", regs[7])
	}

	regs = EncodeName("a\nb")
	if regs[0] != uint16('a')<<8|uint16('?') {
		t.Fatalf("sanitize: got %#x", regs[0])
	}
}
