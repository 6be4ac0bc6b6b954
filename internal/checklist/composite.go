package checklist

// Status is the tri-state classification a CompositeCheckList produces.
type Status int

const (
	// StatusNotFound means name hit neither list.
	StatusNotFound Status = iota
	// StatusAllow means name hit the allowlist and not the denylist.
	StatusAllow
	// StatusDeny means name hit the denylist (deny always wins).
	StatusDeny
)

func (s Status) String() string {
	switch s {
	case StatusAllow:
		return "Allow"
	case StatusDeny:
		return "Deny"
	default:
		return "NotFound"
	}
}

// Composite pairs an allowlist and a denylist. Check resolves deny-wins
// precedence: a name present in both lists is denied.
type Composite struct {
	Allow *CheckList
	Deny  *CheckList
}

// NewComposite pairs the given allow and deny lists.
func NewComposite(allow, deny *CheckList) *Composite {
	return &Composite{Allow: allow, Deny: deny}
}

// Check classifies name: Deny if it hits the denylist (regardless of the
// allowlist), else Allow if it hits the allowlist, else NotFound.
func (c *Composite) Check(name string) Status {
	if c.Deny.Check(name) {
		return StatusDeny
	}
	if c.Allow.Check(name) {
		return StatusAllow
	}
	return StatusNotFound
}
