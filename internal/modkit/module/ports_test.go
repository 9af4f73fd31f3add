package module

import (
	"testing"

	phttp "ladderbot/internal/platform/net/http"
	"ladderbot/internal/platform/testkit"
)

type Sweeper interface{ Sweep() string }
type Board interface{ Board() string }

type svc struct{}

func (svc) Sweep() string { return "sweep" }

type boardSvc struct{}

func (boardSvc) Board() string { return "board" }

type fake struct{ ports any }

func (f fake) Name() string             { return "leaderboard" }
func (f fake) Ports() any               { return f.ports }
func (f fake) MountRoutes(phttp.Router) {}

type portSet struct {
	hidden  Board
	Sweeper Sweeper
	Board   Board
}

func TestPortsOfDirect(t *testing.T) {
	s, ok := PortsOf[Sweeper](fake{ports: svc{}})
	testkit.MustEqual(t, true, ok)
	testkit.MustEqual(t, "sweep", s.Sweep())
}

func TestPortsOfWalksExportedFields(t *testing.T) {
	m := fake{ports: portSet{hidden: boardSvc{}, Sweeper: svc{}, Board: boardSvc{}}}
	b, ok := PortsOf[Board](m)
	testkit.MustEqual(t, true, ok)
	testkit.MustEqual(t, "board", b.Board())

	_, ok = PortsOf[Board](fake{ports: portSet{hidden: boardSvc{}}})
	testkit.MustEqual(t, false, ok)
}

func TestPortsOfMissing(t *testing.T) {
	_, ok := PortsOf[Sweeper](fake{})
	testkit.MustEqual(t, false, ok)
	_, ok = PortsOf[Sweeper](fake{ports: 42})
	testkit.MustEqual(t, false, ok)
}

func TestMustPortsOfPanicsWithName(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		testkit.MustContain(t, r.(string), "module leaderboard: port module.Sweeper not found")
	}()
	MustPortsOf[Sweeper](fake{})
}
