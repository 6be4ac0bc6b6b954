// Package events defines the polymorphic event sink (component F):
// resolving/resolved/error hooks fired by the filtering server, plus the
// ResolvedData/ResolvedStatus value types those hooks carry.
package events

import (
	"fmt"
	"strings"

	"github.com/jroosing/fqdnfilter/internal/dns"
)

// ResolvedData is the per-request payload built up as a query is
// classified and (if forwarded) its answers are parsed.
type ResolvedData struct {
	ReqQType dns.QType
	ReqName  string

	order []dns.QType
	resp  map[dns.QType][]string
}

// NewResolvedData starts an empty payload for a single request.
func NewResolvedData(reqQType dns.QType, reqName string) *ResolvedData {
	return &ResolvedData{
		ReqQType: reqQType,
		ReqName:  reqName,
		resp:     make(map[dns.QType][]string),
	}
}

// Append records one answer of the given type. Insertion order of
// distinct qtypes is preserved for pretty-printing.
func (d *ResolvedData) Append(qtype dns.QType, value string) {
	if _, ok := d.resp[qtype]; !ok {
		d.order = append(d.order, qtype)
	}
	d.resp[qtype] = append(d.resp[qtype], value)
}

// Get returns the recorded values for qtype, if any.
func (d *ResolvedData) Get(qtype dns.QType) []string {
	return d.resp[qtype]
}

// String renders "<qtype> name => A(ip1, ip2) CNAME(n)" in the order
// types were first appended.
func (d *ResolvedData) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%s> %s =>", d.ReqQType, d.ReqName)
	for _, qt := range d.order {
		values := d.resp[qt]
		if len(values) == 0 {
			continue
		}
		fmt.Fprintf(&sb, " %s(%s)", qt, strings.Join(values, ", "))
	}
	return sb.String()
}

// Kind identifies which branch of the ResolvedStatus sum type applies.
type Kind int

const (
	KindDeny Kind = iota
	KindAllow
	KindAllowButError
	KindNoCheck
	KindNoCheckButError
)

func (k Kind) String() string {
	switch k {
	case KindDeny:
		return "Deny"
	case KindAllow:
		return "Allow"
	case KindAllowButError:
		return "AllowButError"
	case KindNoCheck:
		return "NoCheck"
	case KindNoCheckButError:
		return "NoCheckButError"
	default:
		return "Unknown"
	}
}

// ResolvedStatus is the outcome of one request's classification, reported
// to the event sink's Resolved hook.
type ResolvedStatus struct {
	Kind  Kind
	Data  *ResolvedData
	RCode dns.RCode // meaningful for Deny, AllowButError, NoCheckButError
}

func Deny(data *ResolvedData, rcode dns.RCode) ResolvedStatus {
	return ResolvedStatus{Kind: KindDeny, Data: data, RCode: rcode}
}

func Allow(data *ResolvedData) ResolvedStatus {
	return ResolvedStatus{Kind: KindAllow, Data: data}
}

func AllowButError(data *ResolvedData, rcode dns.RCode) ResolvedStatus {
	return ResolvedStatus{Kind: KindAllowButError, Data: data, RCode: rcode}
}

func NoCheck(data *ResolvedData) ResolvedStatus {
	return ResolvedStatus{Kind: KindNoCheck, Data: data}
}

func NoCheckButError(data *ResolvedData, rcode dns.RCode) ResolvedStatus {
	return ResolvedStatus{Kind: KindNoCheckButError, Data: data, RCode: rcode}
}

func (s ResolvedStatus) String() string {
	if s.Data == nil {
		return s.Kind.String()
	}
	switch s.Kind {
	case KindDeny, KindAllowButError, KindNoCheckButError:
		return fmt.Sprintf("[%s:%s] %s", s.Kind, s.RCode, s.Data)
	default:
		return fmt.Sprintf("[%s] %s", s.Kind, s.Data)
	}
}

// IsAllowClass reports whether s is Allow. AllowButError is not counted
// as Allow-class.
func (s ResolvedStatus) IsAllowClass() bool {
	return s.Kind == KindAllow
}

// IsNoCheckClass reports whether s bypassed policy entirely.
func (s ResolvedStatus) IsNoCheckClass() bool {
	return s.Kind == KindNoCheck || s.Kind == KindNoCheckButError
}
