package events

import (
	"testing"

	"github.com/jroosing/fqdnfilter/internal/dns"
)

func TestResolvedDataAppendPreservesOrder(t *testing.T) {
	d := NewResolvedData(dns.QTypeA, "www.example.com")
	d.Append(dns.QTypeA, "93.184.216.34")
	d.Append(dns.QTypeAAAA, "2606:2800:220:1:248:1893:25c8:1946")
	d.Append(dns.QTypeA, "93.184.216.35")

	if got := d.Get(dns.QTypeA); len(got) != 2 {
		t.Fatalf("got %d A values, want 2", len(got))
	}

	got := d.String()
	want := "<A> www.example.com => A(93.184.216.34, 93.184.216.35) AAAA(2606:2800:220:1:248:1893:25c8:1946)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolvedStatusConstructors(t *testing.T) {
	data := NewResolvedData(dns.QTypeA, "example.com")

	if s := Allow(data); s.Kind != KindAllow || !s.IsAllowClass() {
		t.Fatalf("Allow() produced %+v", s)
	}
	if s := Deny(data, dns.RCodeNXDomain); s.Kind != KindDeny || s.RCode != dns.RCodeNXDomain {
		t.Fatalf("Deny() produced %+v", s)
	}
	if s := NoCheck(data); s.Kind != KindNoCheck || !s.IsNoCheckClass() {
		t.Fatalf("NoCheck() produced %+v", s)
	}
	if s := NoCheckButError(data, dns.RCodeServFail); !s.IsNoCheckClass() {
		t.Fatalf("NoCheckButError() should be NoCheck-class, got %+v", s)
	}
}
