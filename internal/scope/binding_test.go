package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"eventshell/internal/authstate"
	"eventshell/internal/credential"
	"eventshell/internal/identity"
)

type BindingSuite struct {
	suite.Suite
	source     *credential.Broadcaster
	controller *authstate.Controller
}

func (s *BindingSuite) SetupTest() {
	s.source = credential.NewBroadcaster()
	s.controller = authstate.New(s.source)
	s.Require().NoError(s.controller.Start(context.Background()))
}

func (s *BindingSuite) TearDownTest() {
	s.controller.Close()
}

func TestBindingSuite(t *testing.T) {
	suite.Run(t, new(BindingSuite))
}

func (s *BindingSuite) TestAnonymousWithoutEvent() {
	b := NewBinding(s.controller, "")
	defer b.Close()

	s.source.Emit(identity.Anonymous("u1"))

	s.Equal(Context{UserID: "u1"}, b.Current())
	s.False(b.Current().HasEventID())
}

func (s *BindingSuite) TestAuthenticatedWithEvent() {
	b := NewBinding(s.controller, "e42")
	defer b.Close()

	s.source.Emit(identity.Authenticated("user-999"))

	s.Equal(Context{EventID: "e42"}, b.Current())
}

func (s *BindingSuite) TestRecomputesOnEveryChange() {
	b := NewBinding(s.controller, "")
	defer b.Close()

	var seen []Context
	cancel := b.Watch(func(c Context) { seen = append(seen, c) })
	defer cancel()

	s.source.Emit(identity.Anonymous("u1"))
	b.SetEventID("e1")
	s.source.Emit(identity.Authenticated("user-1"))
	b.SetEventID("")
	s.source.Emit(identity.Anonymous("u2"))

	s.Equal([]Context{
		{},
		{UserID: "u1"},
		{UserID: "u1", EventID: "e1"},
		{EventID: "e1"},
		{},
		{UserID: "u2"},
	}, seen)
}

func (s *BindingSuite) TestNoStaleContextInsideNotification() {
	b := NewBinding(s.controller, "e7")
	defer b.Close()

	var observed []Context
	cancel := s.controller.Watch(func(authstate.Snapshot) {
		observed = append(observed, b.Current())
	})
	defer cancel()

	s.source.Emit(identity.Anonymous("fresh"))

	s.Equal(Context{UserID: "fresh", EventID: "e7"}, observed[len(observed)-1])
}

func (s *BindingSuite) TestSetEventID() {
	s.Run("same selector does not notify", func() {
		b := NewBinding(s.controller, "e1")
		defer b.Close()
		calls := 0
		cancel := b.Watch(func(Context) { calls++ })
		defer cancel()

		b.SetEventID("e1")
		s.Equal(1, calls)
	})

	s.Run("event id passes through unmodified", func() {
		b := NewBinding(s.controller, " e1 ")
		defer b.Close()
		s.Equal(" e1 ", b.Current().EventID)

		var got []Context
		cancel := b.Watch(func(c Context) { got = append(got, c) })
		defer cancel()

		b.SetEventID("\te2")
		s.Equal("\te2", b.EventID())
		s.Equal(Context{EventID: "\te2"}, got[len(got)-1])
	})

	s.Run("close detaches from controller", func() {
		b := NewBinding(s.controller, "")
		calls := 0
		cancel := b.Watch(func(Context) { calls++ })
		defer cancel()

		b.Close()
		b.Close()
		s.source.Emit(identity.Anonymous("after-close"))
		s.Equal(1, calls)
		s.Equal(Context{UserID: "after-close"}, b.Current())
	})
}
