package filterstate

import (
	"net"
	"sync"
	"testing"

	"github.com/jroosing/fqdnfilter/internal/checklist"
)

func TestSharedCheckReflectsMutation(t *testing.T) {
	allow := checklist.New()
	deny := checklist.New()
	s := New(checklist.NewComposite(allow, deny), net.ParseIP("8.8.8.8"))

	if got := s.Check("a.test"); got != checklist.StatusNotFound {
		t.Fatalf("got %v, want NotFound", got)
	}

	if err := s.Allow(func(cl *checklist.CheckList) error {
		cl.Add("a.test")
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if got := s.Check("a.test"); got != checklist.StatusAllow {
		t.Fatalf("got %v, want Allow after mutation", got)
	}
}

func TestSharedConcurrentAccess(t *testing.T) {
	allow := checklist.New()
	deny := checklist.New()
	s := New(checklist.NewComposite(allow, deny), net.ParseIP("8.8.8.8"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Check("a.test")
		}()
		go func() {
			defer wg.Done()
			_ = s.Allow(func(cl *checklist.CheckList) error {
				cl.Add("a.test")
				return nil
			})
		}()
	}
	wg.Wait()
}

func TestListAllowSnapshot(t *testing.T) {
	allow := checklist.New()
	allow.Add("a.test")
	allow.Add("b.test")
	deny := checklist.New()
	s := New(checklist.NewComposite(allow, deny), net.ParseIP("8.8.8.8"))

	entries := s.ListAllow()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}
